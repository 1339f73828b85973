// Package config handles workspace and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents workspace configuration stored in .proofgraph/config.json.
type Config struct {
	PaperID   string `json:"paper_id,omitempty"`   // arXiv identifier of the paper this workspace tracks
	PDFPath   string `json:"pdf_path,omitempty"`   // Absolute path to the paper PDF
	PDFReader string `json:"pdf_reader,omitempty"` // Reader preference: system, skim, zathura, etc.
}

const (
	ProofgraphDir = ".proofgraph"
	ConfigFile    = "config.json"
	ArtifactsFile = "artifacts.jsonl"
	EdgesFile     = "edges.jsonl"
	EventsFile    = "events.jsonl"
	CacheDir      = "cache"
	DBFile        = "graph.db"
)

// ValidReaders lists the supported PDF reader values.
var ValidReaders = []string{"system", "skim", "zathura", "evince", "okular"}

// ProofgraphPath returns the path to the .proofgraph directory from a root path.
func ProofgraphPath(root string) string {
	return filepath.Join(root, ProofgraphDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ProofgraphDir, ConfigFile)
}

// ArtifactsPath returns the path to artifacts.jsonl from a root path.
func ArtifactsPath(root string) string {
	return filepath.Join(root, ProofgraphDir, ArtifactsFile)
}

// EdgesPath returns the path to edges.jsonl from a root path.
func EdgesPath(root string) string {
	return filepath.Join(root, ProofgraphDir, EdgesFile)
}

// EventsPath returns the path to the ingest journal from a root path.
func EventsPath(root string) string {
	return filepath.Join(root, ProofgraphDir, EventsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, ProofgraphDir, CacheDir)
}

// DBPath returns the path to graph.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ProofgraphDir, CacheDir, DBFile)
}

// IsWorkspace checks if the given path contains a proofgraph workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(ProofgraphPath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from the given path to find a proofgraph workspace.
// Returns the workspace root path or an error if not found.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no proofgraph workspace found (run 'pfg init' first)")
		}
		abs = parent
	}
}

// Init creates the .proofgraph directory structure under root.
func Init(root string) error {
	dir := ProofgraphPath(root)
	if err := os.MkdirAll(filepath.Join(dir, CacheDir), 0755); err != nil {
		return fmt.Errorf("creating workspace directories: %w", err)
	}

	path := ConfigPath(root)
	if _, err := os.Stat(path); err == nil {
		return nil // Keep an existing config
	}
	return Save(root, &Config{})
}

// Load reads the workspace config. A missing file loads as an empty config.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the workspace config.
func Save(root string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandTilde expands a leading ~ in a path to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
