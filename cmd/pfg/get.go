package main

import (
	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/spf13/cobra"
)

var getEdges bool

func init() {
	getCmd.Flags().BoolVar(&getEdges, "edges", false, "Include all raw edges touching the artifact")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get [artifact-id]",
	Short: "Show one artifact's full content",
	Long: `Show a single artifact: statement, proof text, source position, and
layout coordinates. Reads from the SQLite cache, falling back to a
journal replay when the cache has not seen the artifact yet.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// GetResponse is the JSON response for the get command.
type GetResponse struct {
	Artifact *artifact.Artifact `json:"artifact"`
	Edges    []edge.Raw         `json:"edges,omitempty"`
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()

	a, err := db.GetArtifact(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if a == nil {
		// Cache miss: the journal may be ahead of the last snapshot.
		runner := mustLoadRunner(root)
		a = runner.Store.Node(args[0])
	}
	if a == nil {
		exitWithError(ExitNotFound, "artifact not found: %s", args[0])
	}

	resp := GetResponse{Artifact: a}
	if getEdges {
		edges, err := db.EdgesTouching(args[0])
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		resp.Edges = edges
	}

	if humanOutput {
		outputHuman("%s (%s)\n", a.Label(), a.NormalizedType())
		if a.Position != "" {
			outputHuman("Source: %s\n", a.Position)
		}
		switch {
		case a.Content != "":
			outputHuman("\n%s\n", a.Content)
		case a.ContentPreview != "":
			outputHuman("\n%s\n", truncateString(a.ContentPreview, PreviewMaxLen))
		}
		if a.Proof != "" {
			outputHuman("\nProof: %s\n", a.Proof)
		}
		for _, r := range resp.Edges {
			outputHuman("  %s -[%s]-> %s\n", r.Source, r.DependencyType, r.Target)
		}
		return nil
	}
	return outputJSON(resp)
}
