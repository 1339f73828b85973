package main

import (
	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from the JSONL snapshots",
	Long: `Rebuild the workspace's SQLite query cache from artifacts.jsonl and
edges.jsonl. The JSONL files are the source of truth; the cache is
disposable and this command recreates it from scratch.

Run this after pulling workspace changes or if the cache looks stale.`,
	RunE: runRebuild,
}

// RebuildResponse is the JSON response for the rebuild command.
type RebuildResponse struct {
	Status    string `json:"status"`
	Artifacts int    `json:"artifacts"`
	Edges     int    `json:"edges"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()

	artifacts, edges, err := db.RebuildFromJSONL(config.ArtifactsPath(root), config.EdgesPath(root))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	resp := RebuildResponse{Status: "rebuilt", Artifacts: artifacts, Edges: edges}
	if humanOutput {
		outputHuman("Rebuilt cache: %d artifacts, %d edges\n", resp.Artifacts, resp.Edges)
		return nil
	}
	return outputJSON(resp)
}
