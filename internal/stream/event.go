// Package stream decodes the extraction backend's event stream (node, link,
// and reset events) and provides readers for the NDJSON and SSE transports.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
)

// Event kinds emitted by the backend.
const (
	EventNode  = "node"
	EventLink  = "link"
	EventReset = "reset"
)

// Decoding errors.
var (
	ErrMissingType = errors.New("event missing type")
	ErrUnknownType = errors.New("unknown event type")
)

// Event is one discriminated record from the backend stream. Exactly one of
// Node and Link is set for node/link events; reset events carry no payload.
type Event struct {
	Type string             `json:"type"`
	Node *artifact.Artifact `json:"node,omitempty"`
	Link *edge.Raw          `json:"link,omitempty"`
}

// envelope matches the wire shape {type, data}.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes an event envelope, dispatching the payload by the
// type discriminator.
func (e *Event) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Type {
	case EventNode:
		var a artifact.Artifact
		if err := json.Unmarshal(env.Data, &a); err != nil {
			return fmt.Errorf("decoding node event: %w", err)
		}
		*e = Event{Type: EventNode, Node: &a}
		return nil

	case EventLink:
		var r edge.Raw
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return fmt.Errorf("decoding link event: %w", err)
		}
		*e = Event{Type: EventLink, Link: &r}
		return nil

	case EventReset:
		*e = Event{Type: EventReset}
		return nil

	case "":
		return ErrMissingType

	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// MarshalJSON writes the event back in wire shape, so ingest journals replay
// through the same decoder.
func (e Event) MarshalJSON() ([]byte, error) {
	env := struct {
		Type string      `json:"type"`
		Data interface{} `json:"data,omitempty"`
	}{Type: e.Type}

	switch e.Type {
	case EventNode:
		env.Data = e.Node
	case EventLink:
		env.Data = e.Link
	}
	return json.Marshal(env)
}
