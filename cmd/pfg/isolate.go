package main

import (
	"errors"

	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/session"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(isolateCmd)
}

var isolateCmd = &cobra.Command{
	Use:   "isolate [artifact-id]",
	Short: "Show an artifact's immediate neighborhood",
	Long: `Show an artifact together with its direct dependencies and
dependents: the closed 1-hop neighborhood over the normalized edge set,
in both directions.`,
	Args: cobra.ExactArgs(1),
	RunE: runIsolate,
}

// IsolateReport is the JSON response for the isolate command.
type IsolateReport struct {
	ID    string           `json:"id"`
	Nodes []IsolateNode    `json:"nodes"`
	Edges []edge.Canonical `json:"edges"`
}

// IsolateNode is one neighborhood member with its relation to the center.
type IsolateNode struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Relation string `json:"relation"` // self, dependency, dependent
}

func runIsolate(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	runner := mustLoadRunner(root)
	proc := runner.Processed()

	sess := session.New()
	if err := sess.SelectNode(proc, args[0]); err != nil {
		if errors.Is(err, session.ErrUnknownNode) {
			exitWithError(ExitNotFound, "%v", err)
		}
		return err
	}
	vis := sess.VisibleSnapshot(proc)

	// Incoming sources are what the center builds on; outgoing targets are
	// what builds on it. A neighbor on both sides reads as a dependency.
	relation := make(map[string]string)
	relation[args[0]] = "self"
	for _, c := range proc.OutgoingBySource[args[0]] {
		relation[c.Target] = "dependent"
	}
	for _, c := range proc.IncomingByTarget[args[0]] {
		relation[c.Source] = "dependency"
	}

	report := IsolateReport{ID: args[0], Edges: vis.Edges}
	for _, n := range vis.Nodes {
		report.Nodes = append(report.Nodes, IsolateNode{
			ID:       n.ID,
			Type:     n.NormalizedType(),
			Label:    n.Label(),
			Relation: relation[n.ID],
		})
	}

	if humanOutput {
		outputHuman("Neighborhood of %s: %d artifacts, %d edges\n",
			report.ID, len(report.Nodes), len(report.Edges))
		for _, n := range report.Nodes {
			outputHuman("  %-10s %-12s %s\n", n.Relation, n.Type, truncateString(n.Label, LabelMaxLen))
		}
		return nil
	}
	return outputJSON(report)
}
