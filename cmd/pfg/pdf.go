package main

import (
	"os"
	"path/filepath"

	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/proofgraph/proofgraph/internal/pdf"
	"github.com/spf13/cobra"
)

func init() {
	pdfCmd.AddCommand(pdfIDCmd)
	pdfCmd.AddCommand(pdfOpenCmd)
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Work with the paper's PDF",
}

var pdfIDCmd = &cobra.Command{
	Use:   "id [pdf-file]",
	Short: "Extract the arXiv identifier from a PDF",
	Long: `Extract the arXiv identifier from a PDF's margin stamp. With no
argument, uses the workspace's configured pdf-path. Offers to store the
identifier as the workspace paper-id when none is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPDFID,
}

var pdfOpenCmd = &cobra.Command{
	Use:   "open [artifact-id]",
	Short: "Open the paper PDF, optionally at an artifact's position",
	Long: `Open the workspace's PDF in the configured reader. When an artifact
id is given, the artifact's source position (e.g. "Theorem 3.1") is
located first and reported, so readers that accept a page can jump
there.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPDFOpen,
}

// PDFIDResponse is the JSON response for the pdf id command.
type PDFIDResponse struct {
	ArxivID string `json:"arxiv_id"`
	File    string `json:"file"`
	Stored  bool   `json:"stored,omitempty"`
}

func runPDFID(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	path := cfg.PDFPath
	if len(args) == 1 {
		path = config.ExpandTilde(args[0])
	}
	if path == "" {
		exitWithError(ExitConfigError, "no PDF file given and pdf-path not configured")
	}

	id, err := pdf.ExtractArxivID(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}
	if id == "" {
		exitWithError(ExitNotFound, "no arXiv identifier found in %s", filepath.Base(path))
	}

	resp := PDFIDResponse{ArxivID: id, File: path}
	if cfg.PaperID == "" {
		cfg.PaperID = id
		if err := config.Save(root, cfg); err == nil {
			resp.Stored = true
		}
	}

	if humanOutput {
		outputHuman("arXiv:%s\n", resp.ArxivID)
		if resp.Stored {
			outputHuman("Stored as workspace paper-id.\n")
		}
		return nil
	}
	return outputJSON(resp)
}

// PDFOpenResponse is the JSON response for the pdf open command.
type PDFOpenResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
	Anchor string `json:"anchor,omitempty"`
	Page   int    `json:"page,omitempty"`
}

func runPDFOpen(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if cfg.PDFPath == "" {
		exitWithError(ExitConfigError, "pdf-path not configured (pfg config pdf-path <file>)")
	}
	if _, err := os.Stat(cfg.PDFPath); err != nil {
		exitWithError(ExitNotFound, "PDF not found: %s", cfg.PDFPath)
	}

	resp := PDFOpenResponse{Status: "opened", File: cfg.PDFPath}

	if len(args) == 1 {
		runner := mustLoadRunner(root)
		a := runner.Store.Node(args[0])
		if a == nil {
			exitWithError(ExitNotFound, "artifact not found: %s", args[0])
		}
		if a.Position != "" {
			resp.Anchor = a.Position
			page, err := pdf.FindAnchor(cfg.PDFPath, a.Position)
			if err != nil {
				exitWithError(ExitDataError, "searching %s: %v", cfg.PDFPath, err)
			}
			resp.Page = page
		}
	}

	reader := cfg.PDFReader
	if reader == "" {
		reader = config.GetGlobalPDFReader()
	}
	if err := pdf.NewOpener(reader).Open(cfg.PDFPath); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if humanOutput {
		if resp.Page > 0 {
			outputHuman("Opened %s (%q on page %d)\n", resp.File, resp.Anchor, resp.Page)
		} else {
			outputHuman("Opened %s\n", resp.File)
		}
		return nil
	}
	return outputJSON(resp)
}
