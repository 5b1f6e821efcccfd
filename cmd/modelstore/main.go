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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/modelstore/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "modelstore",
		Usage: "Inspect and maintain a model store database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory",
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Storage backend (badger, sqlite)",
				Value:   storage.KeyedBackend.String(),
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of rows read per batch",
				Value: storage.DefaultBatchSize,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "count",
				Usage:  "Print the number of stored models",
				Action: countCommand,
				Flags:  []cli.Flag{collectionFlag()},
			},
			{
				Name:   "list",
				Usage:  "List the stored models",
				Action: listCommand,
				Flags:  []cli.Flag{collectionFlag()},
			},
			{
				Name:      "get",
				Usage:     "Print a single model",
				ArgsUsage: "<unique-id>",
				Action:    getCommand,
				Flags:     []cli.Flag{collectionFlag()},
			},
			{
				Name:   "remove-all",
				Usage:  "Remove every model of a collection",
				Action: removeAllCommand,
				Flags: []cli.Flag{
					collectionFlag(),
					&cli.BoolFlag{
						Name:  "instantiate",
						Usage: "Load and remove models one at a time so remove hooks run",
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Decode every stored model and report unreadable rows",
				Action: verifyCommand,
				Flags: []cli.Flag{
					collectionFlag(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N rows",
						Value: 100,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search threads by draft text, phone number or group name",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
			{
				Name:   "seed",
				Usage:  "Insert threads whose drafts are read from a file or a built-in list",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "src",
						Usage: "File of seed drafts, one per line",
					},
				},
			},
			{
				Name:   "bio",
				Usage:  "Print a profile bio as it would be displayed",
				Action: bioCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "text",
						Usage: "Bio text",
					},
					&cli.StringFlag{
						Name:  "emoji",
						Usage: "Bio emoji",
					},
				},
			},
		},
	}
}

func collectionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "collection",
		Aliases: []string{"c"},
		Usage:   "Collection to operate on (threads, jobs)",
		Value:   collectionThreads,
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
