package fluid

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
)

// Phase names, in tick order. Exposed so timing collectors can key on them.
const (
	PhaseSpawn      = "spawn"
	PhasePrepare    = "prepare"
	PhaseBroadphase = "broadphase"
	PhasePressure   = "pressure"
	PhaseForce      = "force"
	PhaseCollide    = "collide"
	PhaseIntegrate  = "integrate"
)

// PhaseTimer receives phase transitions during a tick. Implementations must
// be cheap; the simulation calls StartPhase inline on the tick path.
type PhaseTimer interface {
	StartPhase(name string)
}

// Params holds the tunables of a simulation. Distances are world units;
// velocities are world units per tick.
type Params struct {
	// MaxParticles is the pool capacity.
	MaxParticles int

	// CellSize is the spatial grid cell size. Neighbor search covers a 3x3
	// cell block, so the cell size bounds the reachable interaction range.
	CellSize float64

	// InteractionRadius is the pressure cutoff in world units; IdealRadius is
	// the same cutoff in the normalized pressure space. Positions are scaled
	// by IdealRadius/InteractionRadius before kernel evaluation.
	InteractionRadius float64
	IdealRadius       float64

	// RestDensity is the pressure offset in the normalized scale.
	RestDensity float64

	Viscosity float64
	Gravity   r2.Vec // acceleration, applied as Gravity*DT per tick
	DT        float64

	// Collision response constants.
	Restitution float64
	Friction    float64

	// Bounds is the simulation-wide box used for the collision broad phase.
	Bounds r2.Box

	// Workers overrides the worker pool size; 0 means GOMAXPROCS.
	Workers int
}

// Sim is the simulation engine. One Step computes a full tick in a fixed
// phase order; a tick is atomic and cannot be cancelled part-way.
type Sim struct {
	params Params
	pool   *Pool
	grid   *Grid
	world  World

	multiplier float64

	// Shared per-tick buffers indexed by particle slot. vel snapshots each
	// particle's velocity at prepare time; the force phase reads it for the
	// viscosity term while gravity mutates live velocities in parallel.
	delta  []r2.Vec
	scaled []r2.Vec
	vel    []r2.Vec

	par   *parallelState
	timer PhaseTimer

	contacts atomic.Int64
	tick     uint64
}

// New creates a simulation with the given parameters.
func New(p Params) *Sim {
	return &Sim{
		params:     p,
		pool:       NewPool(p.MaxParticles),
		grid:       NewGrid(p.CellSize),
		multiplier: p.IdealRadius / p.InteractionRadius,
		delta:      make([]r2.Vec, p.MaxParticles),
		scaled:     make([]r2.Vec, p.MaxParticles),
		vel:        make([]r2.Vec, p.MaxParticles),
		par:        newParallelState(p.Workers, p.MaxParticles),
	}
}

// SetWorld couples the simulation to a rigid-fixture world. A nil world
// disables collision phases entirely.
func (s *Sim) SetWorld(w World) { s.world = w }

// SetPhaseTimer installs a timing hook for the tick phases.
func (s *Sim) SetPhaseTimer(t PhaseTimer) { s.timer = t }

// Params returns the current parameters.
func (s *Sim) Params() Params { return s.params }

// SetGravity adjusts gravity between ticks.
func (s *Sim) SetGravity(g r2.Vec) { s.params.Gravity = g }

// SetViscosity adjusts viscosity between ticks.
func (s *Sim) SetViscosity(v float64) { s.params.Viscosity = v }

// Spawn activates up to count particles around origin, inserting each into
// the grid. jitter, when non-nil, offsets each particle from origin. Returns
// the number actually spawned; pool exhaustion spawns fewer, or none, and is
// not an error.
func (s *Sim) Spawn(origin r2.Vec, count int, jitter func() r2.Vec) int {
	spawned := 0
	for n := 0; n < count; n++ {
		pos := origin
		if jitter != nil {
			pos = r2.Add(pos, jitter())
		}
		i := s.pool.Activate(pos)
		if i < 0 {
			break
		}
		p := s.pool.At(i)
		p.CellX, p.CellY = s.grid.CellCoords(pos.X, pos.Y)
		s.grid.Insert(i, p.CellX, p.CellY)
		spawned++
	}
	return spawned
}

// Step advances the simulation one tick: prepare (parallel) -> broad phase
// (sequential) -> pressure (parallel) -> force (parallel, merged per worker)
// -> collide (parallel) -> integrate (sequential). Every phase is a full
// barrier.
func (s *Sim) Step() {
	s.contacts.Store(0)
	n := s.pool.Len()
	if n == 0 {
		// Nothing alive: no grid mutation, no delta accumulation.
		s.tick++
		return
	}

	s.startPhase(PhasePrepare)
	s.runParallel(phasePrepare, n)

	if s.world != nil {
		s.startPhase(PhaseBroadphase)
		s.broadphase()
	}

	s.startPhase(PhasePressure)
	s.runParallel(phasePressure, n)

	s.startPhase(PhaseForce)
	s.runParallel(phaseForce, n)

	if s.world != nil {
		s.startPhase(PhaseCollide)
		s.runParallel(phaseCollide, n)
	}

	s.startPhase(PhaseIntegrate)
	s.integrate()

	s.tick++
}

func (s *Sim) startPhase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Close stops the worker pool. The simulation must not be stepped after.
func (s *Sim) Close() { s.par.stopWorkers() }

// Active returns the number of alive particles.
func (s *Sim) Active() int { return s.pool.Len() }

// Capacity returns the pool capacity.
func (s *Sim) Capacity() int { return s.pool.Cap() }

// ActiveIndices returns the alive particle indices.
func (s *Sim) ActiveIndices() []int32 { return s.pool.Active() }

// Particles exposes the particle array for read-only consumers.
func (s *Sim) Particles() []Particle { return s.pool.Particles() }

// Tick returns the number of completed ticks.
func (s *Sim) Tick() uint64 { return s.tick }

// Contacts returns the number of collision contacts resolved last tick.
func (s *Sim) Contacts() int64 { return s.contacts.Load() }

// GridCells returns the number of live grid buckets.
func (s *Sim) GridCells() int { return s.grid.Cells() }

// AvgNeighbors returns the mean neighbor count over alive particles for the
// last tick.
func (s *Sim) AvgNeighbors() float64 {
	n := s.pool.Len()
	if n == 0 {
		return 0
	}
	total := 0
	for _, i := range s.pool.Active() {
		total += s.pool.At(i).neighborCount
	}
	return float64(total) / float64(n)
}

// KineticEnergy returns the total kinetic energy of alive particles, with
// unit particle mass.
func (s *Sim) KineticEnergy() float64 {
	var total float64
	for _, i := range s.pool.Active() {
		total += 0.5 * r2.Norm2(s.pool.At(i).Vel)
	}
	return total
}
