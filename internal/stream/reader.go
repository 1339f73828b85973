package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MaxLineCapacity is the maximum buffer size for a single stream line (1MB).
// Artifact contents can be long, but a paper statement should never approach
// this.
const MaxLineCapacity = 1024 * 1024

// ReadNDJSON decodes newline-delimited JSON events, calling apply for each
// in arrival order. A malformed line is reported through apply's error
// return contract: decoding stops at the first structural failure, but the
// caller decides what individual event errors mean.
func ReadNDJSON(r io.Reader, apply func(Event) error) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("parsing event line %d: %w", lineNum, err)
		}
		if err := apply(ev); err != nil {
			return fmt.Errorf("applying event line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading event stream: %w", err)
	}
	return nil
}

// ReadSSE decodes a server-sent-events stream, extracting events from
// "data:" lines. Ping comments, blank separators, and event-name lines are
// skipped; a "[DONE]" sentinel ends the stream cleanly.
func ReadSSE(r io.Reader, apply func(Event) error) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "event:") {
			continue
		}
		if !strings.HasPrefix(line, "data: ") && !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			if data == "[DONE]" {
				return nil
			}
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return fmt.Errorf("parsing SSE data: %w", err)
		}
		if err := apply(ev); err != nil {
			return fmt.Errorf("applying SSE event: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading SSE stream: %w", err)
	}
	return nil
}
