package session

import (
	"context"
	"fmt"
	"time"

	"github.com/proofgraph/proofgraph/internal/graph"
	"github.com/proofgraph/proofgraph/internal/layout"
	"github.com/proofgraph/proofgraph/internal/stream"
)

// Runner is the single-goroutine owner of one paper view: store, processor,
// session state, and the force simulation. Events and simulation ticks are
// multiplexed onto the same loop, so a recompute can never interleave with
// an in-flight event and no locking is needed anywhere in the engine.
type Runner struct {
	Store     *graph.Store
	Processor *graph.Processor
	Session   *Session
	Sim       *layout.Simulation

	proc *graph.Processed

	// OnUpdate, when set, observes the post-mutation snapshot. It runs on
	// the runner's goroutine and must not block.
	OnUpdate func(*graph.Processed, *Visible)
}

// NewRunner assembles an empty paper view.
func NewRunner(cfg layout.Config) *Runner {
	r := &Runner{
		Store:     graph.NewStore(),
		Processor: graph.NewProcessor(),
		Session:   New(),
		Sim:       layout.NewSimulation(cfg),
	}
	r.proc = r.Processor.Process(nil, nil)
	return r
}

// Processed returns the current derived snapshot.
func (r *Runner) Processed() *graph.Processed {
	return r.proc
}

// Apply ingests one event, then runs the full recompute-and-rebind cycle:
// process the store, re-seed the simulation, recompute any active proof
// subgraph, and notify the observer. Events are applied strictly in call
// order. Returns whether the event changed the store.
func (r *Runner) Apply(ev stream.Event) (bool, error) {
	changed, err := r.applyEvent(ev)
	if err != nil {
		return false, err
	}
	if changed {
		r.recompute()
	}
	return changed, nil
}

func (r *Runner) applyEvent(ev stream.Event) (bool, error) {
	switch ev.Type {
	case stream.EventNode:
		if ev.Node == nil {
			return false, fmt.Errorf("node event without payload")
		}
		if _, err := r.Store.UpsertNode(ev.Node); err != nil {
			return false, err
		}
		// Merged upserts still change content, so always recompute.
		return true, nil

	case stream.EventLink:
		if ev.Link == nil {
			return false, fmt.Errorf("link event without payload")
		}
		return r.Store.AddEdge(*ev.Link)

	case stream.EventReset:
		r.Store.Reset()
		r.Processor.ResetColors()
		r.Session.Reset()
		r.Sim.Reset()
		return true, nil

	default:
		return false, fmt.Errorf("%w: %q", stream.ErrUnknownType, ev.Type)
	}
}

// recompute rebuilds the derived snapshot and rebinds its consumers.
func (r *Runner) recompute() {
	r.proc = r.Processor.Process(r.Store.Nodes(), r.Store.RawEdges())
	r.Sim.SetGraph(r.proc.Nodes, r.proc.Edges, r.proc.Degree)
	r.Session.RecomputeProofSubgraph(r.proc)

	if r.OnUpdate != nil {
		r.OnUpdate(r.proc, r.Session.VisibleSnapshot(r.proc))
	}
}

// Run consumes events until the channel closes or ctx is cancelled, ticking
// the simulation between events. Mutations reheat the simulation but never
// wait for it to settle.
func (r *Runner) Run(ctx context.Context, events <-chan stream.Event, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := r.Apply(ev); err != nil {
				// Malformed events are local failures; skip and keep the
				// session alive.
				continue
			}

		case <-ticker.C:
			r.Sim.Tick()
		}
	}
}

// Settle runs simulation ticks until the energy drains or maxTicks elapse.
// Used by batch commands that want static positions.
func (r *Runner) Settle(maxTicks int) int {
	ticks := 0
	for r.Sim.Running() && ticks < maxTicks {
		r.Sim.Tick()
		ticks++
	}
	return ticks
}
