package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/proofgraph/proofgraph/internal/distill"
	"github.com/proofgraph/proofgraph/internal/session"
	"github.com/spf13/cobra"
)

var (
	distillDepth  int
	distillFull   bool
	distillFormat string
	distillOutput string
)

func init() {
	distillCmd.Flags().IntVar(&distillDepth, "depth", 1, "Prerequisite depth to distill")
	distillCmd.Flags().BoolVar(&distillFull, "full", false, "Unfold to the target's full prerequisite depth")
	distillCmd.Flags().StringVar(&distillFormat, "format", "markdown", "Output format: markdown or json")
	distillCmd.Flags().StringVarP(&distillOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(distillCmd)
}

var distillCmd = &cobra.Command{
	Use:   "distill [artifact-id]",
	Short: "Linearize a proof path into a readable document",
	Long: `Freeze the proof subgraph into a static, linearly ordered document:
furthest prerequisites first, the target statement last. The result is
self-contained and carries full statement and proof text where the
backend supplied it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDistill,
}

func runDistill(cmd *cobra.Command, args []string) error {
	if distillFormat != "markdown" && distillFormat != "json" {
		exitWithError(ExitError, "unknown format %q (want markdown or json)", distillFormat)
	}

	root := mustFindWorkspace()
	runner := mustLoadRunner(root)
	proc := runner.Processed()

	sess := session.New()
	if err := sess.EnterProofMode(proc, args[0]); err != nil {
		if errors.Is(err, session.ErrUnknownNode) {
			exitWithError(ExitNotFound, "%v", err)
		}
		return err
	}
	for (distillFull || sess.ProofDepth < distillDepth) && sess.UnfoldMore(proc) {
	}

	proof, err := distill.Build(proc, sess.ProofVisible)
	if err != nil {
		return err
	}

	if distillFormat == "json" && distillOutput == "" {
		return outputJSON(proof)
	}

	var rendered string
	if distillFormat == "json" {
		data, err := marshalIndent(proof)
		if err != nil {
			return err
		}
		rendered = data
	} else {
		rendered = distill.Markdown(proof)
	}

	if distillOutput == "" {
		fmt.Print(rendered)
		return nil
	}
	if err := os.WriteFile(distillOutput, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", distillOutput, err)
	}
	if humanOutput {
		outputHuman("Distilled %d steps to %s\n", len(proof.Steps), distillOutput)
		return nil
	}
	return outputJSON(map[string]any{
		"status": "distilled",
		"output": distillOutput,
		"steps":  len(proof.Steps),
		"depth":  proof.Depth,
	})
}
