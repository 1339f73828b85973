package main

import (
	"fmt"

	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set workspace configuration values",
	Long: `Get or set workspace configuration values.

Usage:
  pfg config                        # Show all config
  pfg config paper-id               # Get specific value
  pfg config paper-id 2403.01234    # Set value

Keys:
  paper-id     arXiv identifier this workspace tracks
  pdf-path     Path to the paper's PDF
  pdf-reader   PDF reader preference (system, skim, zathura, evince, okular)

The backend URL and API key live in the global config
(~/.config/pfg/config.yml), not per workspace.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse mirrors the workspace config for JSON output.
type ConfigResponse struct {
	PaperID   string `json:"paper_id"`
	PDFPath   string `json:"pdf_path"`
	PDFReader string `json:"pdf_reader"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("paper-id:   %s\n", cfg.PaperID)
			fmt.Printf("pdf-path:   %s\n", cfg.PDFPath)
			fmt.Printf("pdf-reader: %s\n", cfg.PDFReader)
			return nil
		}
		return outputJSON(ConfigResponse{
			PaperID:   cfg.PaperID,
			PDFPath:   cfg.PDFPath,
			PDFReader: cfg.PDFReader,
		})
	}

	key := args[0]

	if len(args) == 1 {
		var value string
		switch key {
		case "paper-id":
			value = cfg.PaperID
		case "pdf-path":
			value = cfg.PDFPath
		case "pdf-reader":
			value = cfg.PDFReader
		default:
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	value := args[1]
	switch key {
	case "paper-id":
		cfg.PaperID = value
	case "pdf-path":
		cfg.PDFPath = config.ExpandTilde(value)
	case "pdf-reader":
		cfg.PDFReader = value
	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if err := config.Save(root, cfg); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Set %s = %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}
