// Package layout owns the force simulation that places artifacts on the
// canvas. It is the exclusive owner of the x, y, fx, fy fields on artifact
// records: the graph store merges content fields only, so positions survive
// re-ingestion and recompute cycles.
package layout

import (
	"math"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
)

// Radius bounds for degree-based node sizing, in pixels.
const (
	MinRadius = 10
	MaxRadius = 24
)

// Simulation tuning. Reheat injects a modest amount of energy so settled
// nodes drift instead of re-randomizing on every mutation.
const (
	initialAlpha  = 1.0
	reheatAlpha   = 0.3
	alphaMin      = 0.001
	alphaDecay    = 0.0228
	velocityDecay = 0.6

	linkDistance   = 60.0
	linkStrength   = 0.7
	chargeStrength = -120.0
	centerGravity  = 0.05
)

// Config sets the canvas the simulation centers on.
type Config struct {
	Width  float64
	Height float64
}

// DefaultConfig returns the default canvas dimensions.
func DefaultConfig() Config {
	return Config{Width: 960, Height: 600}
}

// Simulation is a continuously reheatable force layout over the live node
// records. It observes structural changes by having its node and link lists
// replaced via SetGraph on every mutation cycle; it never copies nodes.
type Simulation struct {
	cfg   Config
	nodes []*artifact.Artifact
	links []edge.Canonical

	alpha float64
	vx    map[string]float64
	vy    map[string]float64

	radii  map[string]float64
	placed map[string]bool
	seeded int
}

// NewSimulation creates a simulation for one paper view.
func NewSimulation(cfg Config) *Simulation {
	return &Simulation{
		cfg:    cfg,
		vx:     make(map[string]float64),
		vy:     make(map[string]float64),
		radii:  make(map[string]float64),
		placed: make(map[string]bool),
	}
}

// SetGraph replaces the simulation's node and link lists after a mutation.
// New nodes are seeded on a phyllotaxis spiral around the canvas center;
// nodes already placed keep their coordinates. Radii are rebound to the new
// degree distribution and the simulation is reheated, not cold-restarted.
func (s *Simulation) SetGraph(nodes []*artifact.Artifact, links []edge.Canonical, degree map[string]int) {
	s.nodes = nodes
	s.links = links

	for _, n := range nodes {
		if !s.placed[n.ID] {
			s.seed(n)
			s.placed[n.ID] = true
		}
	}

	s.rebindRadii(degree)
	s.Reheat()
}

// seed places a new node deterministically on a spiral so initial layouts
// are reproducible without a random source.
func (s *Simulation) seed(n *artifact.Artifact) {
	if n.X != 0 || n.Y != 0 {
		return // position restored from a snapshot
	}
	// Golden-angle spiral, same initial placement d3-force uses.
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	i := float64(s.seeded)
	r := MinRadius * math.Sqrt(0.5+i)
	a := goldenAngle * i
	n.X = s.cfg.Width/2 + r*math.Cos(a)
	n.Y = s.cfg.Height/2 + r*math.Sin(a)
	s.seeded++
}

// rebindRadii recomputes the degree-to-radius scale. Degrees are floored at
// 1 and an empty or uniform distribution maps everything to MinRadius, so a
// degenerate input can never produce NaN radii.
func (s *Simulation) rebindRadii(degree map[string]int) {
	s.radii = make(map[string]float64, len(s.nodes))
	if len(s.nodes) == 0 {
		return
	}

	minDeg, maxDeg := math.MaxInt, 1
	for _, n := range s.nodes {
		d := max(degree[n.ID], 1)
		minDeg = min(minDeg, d)
		maxDeg = max(maxDeg, d)
	}

	span := float64(maxDeg - minDeg)
	for _, n := range s.nodes {
		d := max(degree[n.ID], 1)
		if span == 0 {
			s.radii[n.ID] = MinRadius
			continue
		}
		s.radii[n.ID] = MinRadius + (MaxRadius-MinRadius)*float64(d-minDeg)/span
	}
}

// Radius returns the current display radius for a node.
func (s *Simulation) Radius(id string) float64 {
	if r, ok := s.radii[id]; ok {
		return r
	}
	return MinRadius
}

// Reset discards all simulation state: node and link lists, placements,
// velocities, radii, and the spiral counter. A graph rebuilt after a reset
// event re-seeds from scratch, even for ids that existed before.
func (s *Simulation) Reset() {
	s.nodes = nil
	s.links = nil
	s.alpha = 0
	s.vx = make(map[string]float64)
	s.vy = make(map[string]float64)
	s.radii = make(map[string]float64)
	s.placed = make(map[string]bool)
	s.seeded = 0
}

// Reheat injects energy after a mutation without discarding positions.
func (s *Simulation) Reheat() {
	if s.alpha < reheatAlpha {
		s.alpha = reheatAlpha
	}
}

// Running reports whether the simulation still has energy to spend.
func (s *Simulation) Running() bool {
	return s.alpha >= alphaMin && len(s.nodes) > 0
}

// Tick advances the simulation one step: link attraction, pairwise charge
// repulsion, collision separation, then velocity integration. Pinned nodes
// (fx, fy set) are snapped to their pin and accumulate no velocity.
func (s *Simulation) Tick() {
	if !s.Running() {
		return
	}
	s.alpha += (0 - s.alpha) * alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCollision()
	s.applyCenter()
	s.integrate()
}

func (s *Simulation) applyLinks() {
	byID := make(map[string]*artifact.Artifact, len(s.nodes))
	for _, n := range s.nodes {
		byID[n.ID] = n
	}

	for _, l := range s.links {
		src, tgt := byID[l.Source], byID[l.Target]
		if src == nil || tgt == nil {
			continue
		}
		dx, dy := tgt.X-src.X, tgt.Y-src.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dy, dist = jiggle(), jiggle(), 1e-6
		}
		k := (dist - linkDistance) / dist * s.alpha * linkStrength
		s.vx[tgt.ID] -= dx * k / 2
		s.vy[tgt.ID] -= dy * k / 2
		s.vx[src.ID] += dx * k / 2
		s.vy[src.ID] += dy * k / 2
	}
}

func (s *Simulation) applyCharge() {
	for i, a := range s.nodes {
		for _, b := range s.nodes[i+1:] {
			dx, dy := b.X-a.X, b.Y-a.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx, dy, d2 = jiggle(), jiggle(), 1e-6
			}
			// Negative strength repels, as in d3's many-body force.
			k := chargeStrength * s.alpha / d2
			s.vx[b.ID] -= dx * k
			s.vy[b.ID] -= dy * k
			s.vx[a.ID] += dx * k
			s.vy[a.ID] += dy * k
		}
	}
}

func (s *Simulation) applyCollision() {
	for i, a := range s.nodes {
		ra := s.Radius(a.ID)
		for _, b := range s.nodes[i+1:] {
			rb := s.Radius(b.ID)
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			minDist := ra + rb
			if dist >= minDist {
				continue
			}
			if dist == 0 {
				dx, dy, dist = jiggle(), jiggle(), 1e-6
			}
			push := (minDist - dist) / dist / 2
			s.vx[b.ID] += dx * push
			s.vy[b.ID] += dy * push
			s.vx[a.ID] -= dx * push
			s.vy[a.ID] -= dy * push
		}
	}
}

func (s *Simulation) applyCenter() {
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for _, n := range s.nodes {
		s.vx[n.ID] += (cx - n.X) * centerGravity * s.alpha
		s.vy[n.ID] += (cy - n.Y) * centerGravity * s.alpha
	}
}

func (s *Simulation) integrate() {
	for _, n := range s.nodes {
		if n.FX != nil {
			n.X = *n.FX
			s.vx[n.ID] = 0
		} else {
			s.vx[n.ID] *= velocityDecay
			n.X += s.vx[n.ID]
		}
		if n.FY != nil {
			n.Y = *n.FY
			s.vy[n.ID] = 0
		} else {
			s.vy[n.ID] *= velocityDecay
			n.Y += s.vy[n.ID]
		}
	}
}

// StartDrag pins a node at its current position for the gesture and reheats
// so neighbors respond.
func (s *Simulation) StartDrag(n *artifact.Artifact) {
	x, y := n.X, n.Y
	n.FX, n.FY = &x, &y
	s.Reheat()
}

// Drag moves a pinned node.
func (s *Simulation) Drag(n *artifact.Artifact, x, y float64) {
	n.FX, n.FY = &x, &y
	n.X, n.Y = x, y
	s.Reheat()
}

// EndDrag releases the pin.
func (s *Simulation) EndDrag(n *artifact.Artifact) {
	n.FX, n.FY = nil, nil
}

// jiggle breaks exact coincidence the way d3 does, with a fixed nudge since
// the simulation is otherwise deterministic.
func jiggle() float64 {
	return 1e-6
}
