package search

import (
	"strings"
	"unicode"
)

// stopWords are never indexed or matched.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "we": true, "i": true,
}

// isWordRune reports whether r belongs to a word. Phone numbers keep their
// leading plus sign.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+'
}

// tokenizeAndFilter splits text into lowercased words and removes stop words.
// Any rune that is not a letter, digit or plus sign separates words.
func tokenizeAndFilter(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) })
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(word)
		if !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// uniqueWords returns the distinct filtered words of text in first-seen order.
func uniqueWords(text string) []string {
	words := tokenizeAndFilter(text)
	seen := make(map[string]bool, len(words))
	unique := words[:0]
	for _, word := range words {
		if !seen[word] {
			seen[word] = true
			unique = append(unique, word)
		}
	}
	return unique
}
