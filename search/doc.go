// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search keeps a full-text index of search-indexed model families.
//
// Index is an in-memory inverted index keyed by collection and uniqueId.
// Text is split into words, lowercased, stripped of punctuation and filtered
// of stop words; a query matches a model when every remaining query word
// appears in the model's text.
//
// Notifier implements storage.SearchIndexer on top of an Index. Stores call
// it after every insert, update and removal; the change is applied on an
// ants worker pool and never reported back as a persistence error.
package search
