// Package fluid implements a real-time 2D particle fluid using double density
// relaxation over a uniform spatial hash grid, with optional collision
// response against externally supplied rigid fixtures.
package fluid

import "gonum.org/v1/gonum/spatial/r2"

// MaxNeighbors caps the per-particle neighbor list. The cap truncates by
// discovery order, not by distance; scanning stops the moment it is reached.
const MaxNeighbors = 75

// MaxPendingFixtures caps how many fixtures the broad phase may stamp onto a
// single particle per tick.
const MaxPendingFixtures = 8

// Particle is one fluid sample point. Pool indices are stable for the process
// lifetime; Alive marks pool membership.
type Particle struct {
	Pos    r2.Vec
	OldPos r2.Vec
	Vel    r2.Vec
	Alive  bool

	// Grid cell, equal to floor(Pos/cellSize) once the integrate phase of the
	// tick has run.
	CellX, CellY int

	// Pressure accumulators, rebuilt every tick.
	Pressure     float64
	NearPressure float64

	// Neighbor indices and the distances the pressure phase caches for them.
	// Both are keyed by slot, valid within a single tick only.
	neighbors     [MaxNeighbors]int32
	distances     [MaxNeighbors]float64
	neighborCount int

	// Fixtures stamped by the collision broad phase this tick.
	pending      [MaxPendingFixtures]Fixture
	pendingCount int
}

// NeighborCount returns the number of neighbors found this tick.
func (p *Particle) NeighborCount() int { return p.neighborCount }
