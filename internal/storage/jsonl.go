// Package storage persists a paper workspace: git-versionable JSONL sources
// of truth (artifacts, edges, and the raw ingest journal) with an ephemeral
// SQLite cache for queries.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/stream"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line). Shared across all JSONL readers.
const MaxJSONLLineCapacity = 1024 * 1024

// readLines streams non-empty JSONL lines to fn with 1-based line numbers.
func readLines(path string, fn func(line []byte, num int) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file reads as empty
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line, lineNum); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// appendLine appends one JSON-encoded value to a JSONL file.
func appendLine(path string, v interface{}) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", path, err)
	}
	defer f.Close()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// ReadAllArtifacts reads all artifacts from a JSONL file.
func ReadAllArtifacts(path string) ([]artifact.Artifact, error) {
	var out []artifact.Artifact
	err := readLines(path, func(line []byte, num int) error {
		var a artifact.Artifact
		if err := json.Unmarshal(line, &a); err != nil {
			return fmt.Errorf("parsing artifact line %d: %w", num, err)
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// WriteAllArtifacts replaces the artifacts file with the given records.
func WriteAllArtifacts(path string, artifacts []artifact.Artifact) error {
	return writeAll(path, len(artifacts), func(i int) interface{} { return artifacts[i] })
}

// ReadAllEdges reads all raw edges from a JSONL file.
func ReadAllEdges(path string) ([]edge.Raw, error) {
	var out []edge.Raw
	err := readLines(path, func(line []byte, num int) error {
		var r edge.Raw
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("parsing edge line %d: %w", num, err)
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// WriteAllEdges replaces the edges file with the given records.
func WriteAllEdges(path string, edges []edge.Raw) error {
	return writeAll(path, len(edges), func(i int) interface{} { return edges[i] })
}

// AppendEvent appends one raw ingest event to the journal. The journal is
// append-only: replaying it through the event decoder reconstructs the exact
// graph, including resets.
func AppendEvent(path string, ev stream.Event) error {
	return appendLine(path, ev)
}

// ReadAllEvents reads the full ingest journal in arrival order.
func ReadAllEvents(path string) ([]stream.Event, error) {
	var out []stream.Event
	err := readLines(path, func(line []byte, num int) error {
		var ev stream.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("parsing event line %d: %w", num, err)
		}
		out = append(out, ev)
		return nil
	})
	return out, err
}

// writeAll truncates path and writes n records.
func writeAll(path string, n int, get func(int) interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < n; i++ {
		data, err := json.Marshal(get(i))
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return w.Flush()
}
