package fluid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// Each pair contributes two mirrored scratch writes, so the accumulated
// deltas of an isolated pair must negate each other bit-for-bit.
func TestPairDeltaExactNegation(t *testing.T) {
	s := New(testParams())
	defer s.Close()

	s.Spawn(r2.Vec{X: 100, Y: 100}, 1, nil)
	s.Spawn(r2.Vec{X: 112, Y: 100}, 1, nil)
	s.Step()

	// The delta buffer keeps last tick's values until the next prepare phase.
	da, db := s.delta[0], s.delta[1]
	if da.X == 0 && da.Y == 0 {
		t.Fatal("pair produced no displacement")
	}
	if da.X != -db.X || da.Y != -db.Y {
		t.Fatalf("pair deltas not exact negations: %v vs %v", da, db)
	}
}

func TestCoincidentParticlesStayFinite(t *testing.T) {
	s := New(testParams())
	defer s.Close()

	// Two particles at the same position hit the minimum-distance clamp.
	s.Spawn(r2.Vec{X: 100, Y: 100}, 2, nil)
	for tick := 0; tick < 5; tick++ {
		s.Step()
	}

	for _, i := range s.ActiveIndices() {
		p := s.pool.At(i)
		for _, v := range []float64{p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("particle %d has non-finite state: pos %v vel %v", i, p.Pos, p.Vel)
			}
		}
	}
}

// Viscosity only damps relative motion: a head-on pair closes slower with it
// than without, everything else equal.
func TestViscosityDampsApproach(t *testing.T) {
	approachSpeed := func(viscosity float64) float64 {
		p := testParams()
		p.Viscosity = viscosity
		s := New(p)
		defer s.Close()

		s.Spawn(r2.Vec{X: 100, Y: 100}, 1, nil)
		s.Spawn(r2.Vec{X: 114, Y: 100}, 1, nil)
		s.pool.At(0).Vel = r2.Vec{X: 2}
		s.pool.At(1).Vel = r2.Vec{X: -2}
		s.Step()

		return s.pool.At(0).Vel.X - s.pool.At(1).Vel.X
	}

	inviscid := approachSpeed(0)
	damped := approachSpeed(5)
	if damped >= inviscid {
		t.Fatalf("approach speed %v with viscosity, %v without; want slower", damped, inviscid)
	}
}

// Particles past the interaction radius still occupy a neighbor slot from the
// 3x3 scan but exert no force: the pressure phase marks them out of range.
func TestBeyondRadiusNoForce(t *testing.T) {
	s := New(testParams())
	defer s.Close()

	// 35 apart: adjacent grid cells, outside the interaction radius of 24.
	s.Spawn(r2.Vec{X: 100, Y: 100}, 1, nil)
	s.Spawn(r2.Vec{X: 135, Y: 100}, 1, nil)
	s.Step()

	if got := s.AvgNeighbors(); got != 1 {
		t.Fatalf("AvgNeighbors = %v, want 1: the scan keeps every particle in the block", got)
	}
	for _, i := range s.ActiveIndices() {
		if v := s.pool.At(i).Vel; v.X != 0 || v.Y != 0 {
			t.Fatalf("particle %d moved without a neighbor in range: vel %v", i, v)
		}
	}
}

// The force phase writes gravity into its own chunk's velocities while the
// viscosity term reads neighbors that live in other chunks. Those reads go
// through the prepare-time velocity snapshot; run a dense cluster across
// several workers so the race detector sweeps the whole phase.
func TestForcePhaseParallelCluster(t *testing.T) {
	p := testParams()
	p.Workers = 4
	p.Gravity = r2.Vec{Y: 36}
	p.Viscosity = 5
	s := New(p)
	defer s.Close()

	// Well above parallelThreshold, packed tight so neighbor lists span
	// chunk boundaries.
	s.Spawn(r2.Vec{X: 100, Y: 100}, 200, jitterRing(4))
	for tick := 0; tick < 10; tick++ {
		s.Step()
	}

	for _, i := range s.ActiveIndices() {
		pt := s.pool.At(i)
		for _, v := range []float64{pt.Pos.X, pt.Pos.Y, pt.Vel.X, pt.Vel.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("particle %d has non-finite state: pos %v vel %v", i, pt.Pos, pt.Vel)
			}
		}
	}
}
