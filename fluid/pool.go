package fluid

import "gonum.org/v1/gonum/spatial/r2"

// Pool is a fixed-capacity particle arena. Indices are stable: a particle
// keeps its slot for the process lifetime, and there is no deactivation path,
// so the active list only grows toward capacity.
type Pool struct {
	particles []Particle
	active    []int32
	free      []int32
}

// NewPool creates a pool with the given capacity.
func NewPool(capacity int) *Pool {
	p := &Pool{
		particles: make([]Particle, capacity),
		active:    make([]int32, 0, capacity),
		free:      make([]int32, 0, capacity),
	}
	// The free stack pops from the back; fill in reverse so slot 0 is claimed
	// first.
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, int32(i))
	}
	return p
}

// Activate claims a dead particle, placing it at pos with zero velocity.
// Returns -1 when the pool is exhausted; callers treat that as a silent no-op.
func (p *Pool) Activate(pos r2.Vec) int32 {
	if len(p.free) == 0 {
		return -1
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	pt := &p.particles[i]
	*pt = Particle{
		Pos:    pos,
		OldPos: pos,
		Alive:  true,
	}
	p.active = append(p.active, i)
	return i
}

// Active returns the compact list of alive particle indices.
func (p *Pool) Active() []int32 { return p.active }

// Len returns the number of alive particles.
func (p *Pool) Len() int { return len(p.active) }

// Cap returns the pool capacity.
func (p *Pool) Cap() int { return len(p.particles) }

// At returns the particle record at index i.
func (p *Pool) At(i int32) *Particle { return &p.particles[i] }

// Particles exposes the backing array for read-only consumers such as the
// renderer.
func (p *Pool) Particles() []Particle { return p.particles }
