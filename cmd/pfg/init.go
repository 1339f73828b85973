package main

import (
	"os"

	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/spf13/cobra"
)

var initPaperID string

func init() {
	initCmd.Flags().StringVar(&initPaperID, "paper", "", "arXiv identifier of the paper this workspace tracks")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new proofgraph workspace",
	Long: `Initialize a new proofgraph workspace in the current directory.

Creates:
  .proofgraph/
  ├── config.json      # Workspace config
  ├── events.jsonl     # Ingest journal (created on first ingest)
  └── cache/           # Ephemeral SQLite cache (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsWorkspace(cwd) {
		exitWithError(ExitError, "directory already contains a proofgraph workspace")
	}

	if err := config.Init(cwd); err != nil {
		exitWithError(ExitError, "initializing workspace: %v", err)
	}

	if initPaperID != "" {
		cfg, err := config.Load(cwd)
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}
		cfg.PaperID = initPaperID
		if err := config.Save(cwd, cfg); err != nil {
			exitWithError(ExitConfigError, "saving config: %v", err)
		}
	}

	if humanOutput {
		outputHuman("Initialized proofgraph workspace in %s\n", config.ProofgraphPath(cwd))
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: config.ProofgraphPath(cwd)})
}
