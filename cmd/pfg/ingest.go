package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/proofgraph/proofgraph/internal/config"
	"github.com/proofgraph/proofgraph/internal/storage"
	"github.com/proofgraph/proofgraph/internal/stream"
	"github.com/spf13/cobra"
)

var (
	ingestFile   string
	ingestURL    string
	ingestSettle int
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "NDJSON event file to ingest ('-' for stdin)")
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "Extraction backend base URL (overrides config)")
	ingestCmd.Flags().IntVar(&ingestSettle, "settle", 300, "Maximum layout ticks to run after ingest")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest extraction events into the workspace graph",
	Long: `Ingest node/link/reset events into the workspace graph.

Events come from an NDJSON file (--file), stdin (--file -), or the live
SSE stream of the extraction backend for the configured paper. Every
accepted event is appended to the ingest journal; after the stream ends
the layout is settled and the artifact/edge snapshots are rewritten.

Examples:
  # Ingest a captured event file
  pfg ingest --file events.ndjson

  # Pipe events in
  extraction-run | pfg ingest --file -

  # Attach to the live backend stream
  pfg ingest`,
	RunE: runIngest,
}

// IngestResponse summarizes one ingest run.
type IngestResponse struct {
	Status    string `json:"status"`
	Events    int    `json:"events"`
	Applied   int    `json:"applied"`
	Skipped   int    `json:"skipped"`
	Artifacts int    `json:"artifacts"`
	Edges     int    `json:"edges"`
	Ticks     int    `json:"layout_ticks"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	// Start from the existing journal so re-ingest extends the graph.
	runner := mustLoadRunner(root)

	resp := IngestResponse{Status: "ok"}
	apply := func(ev stream.Event) error {
		resp.Events++

		// Re-sent artifacts with identical content are journal no-ops.
		var prevDigest [32]byte
		var hadPrev bool
		if ev.Type == stream.EventNode && ev.Node != nil {
			if prev := runner.Store.Node(ev.Node.ID); prev != nil {
				prevDigest = prev.ContentDigest()
				hadPrev = true
			}
		}

		changed, err := runner.Apply(ev)
		if err != nil {
			// Malformed events are local failures: count and move on.
			resp.Skipped++
			return nil
		}
		if !changed && ev.Type == stream.EventLink {
			// Duplicate edge: journaling it would only bloat replay.
			resp.Skipped++
			return nil
		}
		if hadPrev {
			if cur := runner.Store.Node(ev.Node.ID); cur != nil && cur.ContentDigest() == prevDigest {
				resp.Skipped++
				return nil
			}
		}
		resp.Applied++
		return storage.AppendEvent(config.EventsPath(root), ev)
	}

	var err error
	switch {
	case ingestFile == "-":
		err = stream.ReadNDJSON(os.Stdin, apply)
	case ingestFile != "":
		var f *os.File
		f, err = os.Open(ingestFile)
		if err != nil {
			exitWithError(ExitDataError, "opening event file: %v", err)
		}
		defer f.Close()
		err = stream.ReadNDJSON(f, apply)
	default:
		err = streamFromBackend(root, apply)
	}
	if err != nil {
		exitWithError(ExitDataError, "ingesting events: %v", err)
	}

	resp.Ticks = runner.Settle(ingestSettle)

	// Snapshot the settled graph for git and the SQLite cache.
	if err := writeSnapshots(root, runner); err != nil {
		exitWithError(ExitError, "writing snapshots: %v", err)
	}

	resp.Artifacts = runner.Store.NodeCount()
	resp.Edges = runner.Store.EdgeCount()

	if humanOutput {
		outputHuman("Ingested %d events (%d applied, %d skipped): %d artifacts, %d edges\n",
			resp.Events, resp.Applied, resp.Skipped, resp.Artifacts, resp.Edges)
		return nil
	}
	return outputJSON(resp)
}

// streamFromBackend attaches to the extraction backend's SSE stream for the
// configured paper.
func streamFromBackend(root string, apply func(stream.Event) error) error {
	_ = godotenv.Load()

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading workspace config: %w", err)
	}
	if cfg.PaperID == "" {
		exitWithError(ExitConfigError, "no paper configured; run 'pfg config paper-id <arxiv-id>' or use --file")
	}

	var opts []stream.ClientOption
	if url := backendURL(); url != "" {
		opts = append(opts, stream.WithBaseURL(url))
	}
	if key := config.GetAPIKey(); key != "" {
		opts = append(opts, stream.WithAPIKey(key))
	}
	client := stream.NewClient(opts...)

	ctx := context.Background()
	if err := client.WaitHealthy(ctx, 30*time.Second); err != nil {
		exitWithError(ExitBackend, "%v", err)
	}
	return client.Stream(ctx, cfg.PaperID, apply)
}

// backendURL resolves the backend base URL: flag beats global config.
func backendURL() string {
	if ingestURL != "" {
		return ingestURL
	}
	return config.GetBackendURL()
}
