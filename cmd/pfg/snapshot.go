package main

import (
	"fmt"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/proofgraph/proofgraph/internal/session"
	"github.com/proofgraph/proofgraph/internal/storage"
	"github.com/spf13/cobra"
)

var replaySettle int

func init() {
	replayCmd.Flags().IntVar(&replaySettle, "settle", 300, "Maximum layout ticks to run after replay")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild snapshots and cache from the ingest journal",
	Long: `Replay the ingest journal (events.jsonl) through a fresh engine,
settle the layout, and rewrite artifacts.jsonl, edges.jsonl, and the
SQLite cache.

The journal is the source of truth: after cloning a workspace that only
versions events.jsonl, replay reconstructs everything else.`,
	RunE: runReplay,
}

// ReplayResponse is the JSON response for the replay command.
type ReplayResponse struct {
	Status    string `json:"status"`
	Artifacts int    `json:"artifacts"`
	Edges     int    `json:"edges"`
	Ticks     int    `json:"layout_ticks"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	runner := mustLoadRunner(root)

	resp := ReplayResponse{Status: "replayed"}
	resp.Ticks = runner.Settle(replaySettle)

	if err := writeSnapshots(root, runner); err != nil {
		exitWithError(ExitError, "writing snapshots: %v", err)
	}
	resp.Artifacts = runner.Store.NodeCount()
	resp.Edges = runner.Store.EdgeCount()

	if humanOutput {
		outputHuman("Replayed journal: %d artifacts, %d edges (%d ticks)\n",
			resp.Artifacts, resp.Edges, resp.Ticks)
		return nil
	}
	return outputJSON(resp)
}

// writeSnapshots rewrites the artifact and edge JSONL snapshots from the
// runner's store and refreshes the SQLite cache. Positions persist through
// the snapshot, so a later replay-free load keeps the settled layout.
func writeSnapshots(root string, runner *session.Runner) error {
	nodes := runner.Store.Nodes()
	artifacts := make([]artifact.Artifact, 0, len(nodes))
	for _, n := range nodes {
		artifacts = append(artifacts, *n)
	}

	if err := storage.WriteAllArtifacts(config.ArtifactsPath(root), artifacts); err != nil {
		return fmt.Errorf("writing artifacts snapshot: %w", err)
	}
	if err := storage.WriteAllEdges(config.EdgesPath(root), runner.Store.RawEdges()); err != nil {
		return fmt.Errorf("writing edges snapshot: %w", err)
	}

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		return fmt.Errorf("opening cache database: %w", err)
	}
	defer db.Close()

	if _, _, err := db.RebuildFromJSONL(config.ArtifactsPath(root), config.EdgesPath(root)); err != nil {
		return fmt.Errorf("rebuilding cache: %w", err)
	}
	return nil
}
