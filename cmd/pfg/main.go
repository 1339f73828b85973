// Package main provides the pfg CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/proofgraph/proofgraph/internal/layout"
	"github.com/proofgraph/proofgraph/internal/session"
	"github.com/proofgraph/proofgraph/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pfg",
	Short: "Incremental dependency graphs for arXiv paper artifacts",
	Long: `pfg maintains an incremental dependency graph of mathematical
artifacts (theorems, lemmas, definitions, proofs) streamed from an
extraction backend, and answers prerequisite queries over it.

Core features:
  - Ingest node/link/reset event streams (NDJSON files or live SSE)
  - Bounded-depth proof-path traversal and 1-hop isolation
  - Force layout with stable positions under continuous mutation
  - Cytoscape HTML export and distilled-proof markdown

Data is stored in git-versionable JSONL with an ephemeral SQLite cache.
All commands output JSON by default for agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindWorkspace finds and validates the workspace, exits on error.
// Returns the workspace root path.
func mustFindWorkspace() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.FindWorkspace(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return root
}

// mustOpenDatabase opens the workspace cache database, exits on error.
func mustOpenDatabase(root string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening cache database: %v", err)
	}
	return db
}

// loadRunner reconstructs the paper view by replaying the ingest journal.
// Every query command goes through this path, so the journal stays the
// single source of graph truth.
func loadRunner(root string) (*session.Runner, error) {
	events, err := storage.ReadAllEvents(config.EventsPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading ingest journal: %w", err)
	}

	r := session.NewRunner(layout.DefaultConfig())
	for _, ev := range events {
		if _, err := r.Apply(ev); err != nil {
			// Malformed journal entries are skipped, matching live ingest.
			continue
		}
	}
	return r, nil
}

// mustLoadRunner is loadRunner with exit-on-error for command bodies.
func mustLoadRunner(root string) *session.Runner {
	r, err := loadRunner(root)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return r
}
