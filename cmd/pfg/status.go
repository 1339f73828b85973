package main

import (
	"github.com/proofgraph/proofgraph/internal/graph"
	"github.com/spf13/cobra"
)

var statusDangling bool

func init() {
	statusCmd.Flags().BoolVar(&statusDangling, "dangling", false, "List edges whose endpoints have not arrived")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show graph counts by type",
	Long: `Show the current graph state: artifact counts by type and edge
counts by dependency type.

Edge counts are reported at both identity tiers: the raw store count
(every backend-reported relation) and the display count (after semantic
normalization and dedup). The two differ whenever distinct raw relations
normalize to the same canonical edge.`,
	RunE: runStatus,
}

// StatusReport is the JSON response for the status command.
type StatusReport struct {
	Artifacts      int                  `json:"artifacts"`
	ArtifactTypes  map[string]int       `json:"artifact_types"`
	RawEdges       int                  `json:"raw_edges"`
	DisplayEdges   int                  `json:"display_edges"`
	EdgeTypes      map[string]int       `json:"edge_types"`
	DanglingEdges  []graph.DanglingEdge `json:"dangling_edges,omitempty"`
	DanglingCount  int                  `json:"dangling_count"`
	HiddenByFilter int                  `json:"hidden_by_filter,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	runner := mustLoadRunner(root)
	proc := runner.Processed()

	report := StatusReport{
		Artifacts:     runner.Store.NodeCount(),
		ArtifactTypes: make(map[string]int),
		RawEdges:      runner.Store.EdgeCount(),
		DisplayEdges:  len(proc.Edges),
		EdgeTypes:     make(map[string]int),
	}

	for _, n := range proc.Nodes {
		report.ArtifactTypes[n.NormalizedType()]++
	}
	for _, c := range proc.Edges {
		report.EdgeTypes[c.DependencyType]++
	}

	dangling := runner.Store.DanglingEdges()
	report.DanglingCount = len(dangling)
	if statusDangling {
		report.DanglingEdges = dangling
	}

	if humanOutput {
		outputHuman("Artifacts: %d\n", report.Artifacts)
		for _, t := range proc.NodeTypes {
			outputHuman("  %-14s %d\n", t, report.ArtifactTypes[t])
		}
		outputHuman("Edges: %d raw, %d displayed, %d dangling\n",
			report.RawEdges, report.DisplayEdges, report.DanglingCount)
		for _, t := range proc.EdgeTypes {
			outputHuman("  %-14s %d\n", t, report.EdgeTypes[t])
		}
		if statusDangling {
			for _, d := range dangling {
				outputHuman("  dangling %s -> %s (%s)\n", d.Edge.Source, d.Edge.Target, d.Reason)
			}
		}
		return nil
	}
	return outputJSON(report)
}
