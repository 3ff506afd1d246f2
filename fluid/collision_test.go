package fluid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

type staticFixture struct{ shape Shape }

func (f staticFixture) Shape() Shape { return f.shape }

// staticWorld serves a fixed fixture list, filtered by AABB overlap.
type staticWorld struct{ fixtures []staticFixture }

func (w *staticWorld) QueryAABB(box r2.Box, visit func(f Fixture) bool) {
	for _, f := range w.fixtures {
		b := f.shape.AABB()
		if b.Max.X < box.Min.X || b.Min.X > box.Max.X ||
			b.Max.Y < box.Min.Y || b.Min.Y > box.Max.Y {
			continue
		}
		if !visit(f) {
			return
		}
	}
}

func floorWorld() *staticWorld {
	floor := NewPolygon([]r2.Vec{
		{X: 0, Y: 100}, {X: 200, Y: 100}, {X: 200, Y: 140}, {X: 0, Y: 140},
	})
	return &staticWorld{fixtures: []staticFixture{{shape: floor}}}
}

// A particle falling onto a flat floor ends the tick above the surface with
// its vertical velocity reflected and damped.
func TestFloorBounce(t *testing.T) {
	s := New(testParams())
	defer s.Close()
	s.SetWorld(floorWorld())

	s.Spawn(r2.Vec{X: 100, Y: 98}, 1, nil)
	pt := s.pool.At(0)
	pt.Vel = r2.Vec{Y: 5}

	s.Step()

	floor := floorWorld().fixtures[0].shape
	if floor.Contains(pt.Pos) {
		t.Fatalf("particle still penetrates floor at %v", pt.Pos)
	}
	if pt.Vel.Y >= 0 {
		t.Fatalf("Vel.Y = %v, want reflected (negative)", pt.Vel.Y)
	}
	if math.Abs(pt.Vel.Y) >= 5 {
		t.Fatalf("|Vel.Y| = %v, want damped below 5", math.Abs(pt.Vel.Y))
	}
	if s.Contacts() != 1 {
		t.Fatalf("Contacts = %d, want 1", s.Contacts())
	}
}

// A stamped fixture whose shape the predicted position never enters leaves
// the particle untouched.
func TestNarrowPhaseMiss(t *testing.T) {
	s := New(testParams())
	defer s.Close()
	s.SetWorld(floorWorld())

	// Same cell column as the floor AABB, moving away from it.
	s.Spawn(r2.Vec{X: 100, Y: 97}, 1, nil)
	pt := s.pool.At(0)
	pt.Vel = r2.Vec{Y: -1}

	s.Step()

	if s.Contacts() != 0 {
		t.Fatalf("Contacts = %d, want 0", s.Contacts())
	}
	if pt.Vel != (r2.Vec{Y: -1}) {
		t.Fatalf("velocity changed without contact: %v", pt.Vel)
	}
}

func TestCircleResolution(t *testing.T) {
	c := &Circle{Center: r2.Vec{X: 100, Y: 100}, Radius: 20}
	s := New(testParams())
	defer s.Close()
	s.SetWorld(&staticWorld{fixtures: []staticFixture{{shape: c}}})

	// Left of center, drifting in.
	s.Spawn(r2.Vec{X: 81, Y: 100}, 1, nil)
	pt := s.pool.At(0)
	pt.Vel = r2.Vec{X: 3}

	s.Step()

	if c.Contains(pt.Pos) {
		t.Fatalf("particle inside circle at %v", pt.Pos)
	}
	if pt.Vel.X >= 0 {
		t.Fatalf("Vel.X = %v, want reflected (negative)", pt.Vel.X)
	}
}

func TestBroadphaseStampCap(t *testing.T) {
	// Nine overlapping fixtures over one spot; only MaxPendingFixtures stick.
	w := &staticWorld{}
	for n := 0; n < 9; n++ {
		w.fixtures = append(w.fixtures, staticFixture{shape: NewPolygon([]r2.Vec{
			{X: 90, Y: 90}, {X: 110, Y: 90}, {X: 110, Y: 110}, {X: 90, Y: 110},
		})})
	}

	s := New(testParams())
	defer s.Close()
	s.SetWorld(w)

	s.Spawn(r2.Vec{X: 100, Y: 100}, 1, nil)
	s.Step()

	if got := s.pool.At(0).pendingCount; got != MaxPendingFixtures {
		t.Fatalf("pendingCount = %d, want %d", got, MaxPendingFixtures)
	}
}
