package game

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/config"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	config.MustInit("")
	g := NewGameWithOptions(Options{Seed: 1, Headless: true, StepsPerUpdate: 1})
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessRun(t *testing.T) {
	g := newTestGame(t)

	g.RequestSpawn(r2.Vec{X: 400, Y: 120})
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 30 {
		t.Fatalf("Tick = %d, want 30", g.Tick())
	}
	if g.Sim().Active() == 0 {
		t.Fatal("no particles after spawn request")
	}
	if got := g.Sim().Active(); got != config.Cfg().Spawn.Count {
		t.Fatalf("Active = %d, want one burst of %d", got, config.Cfg().Spawn.Count)
	}
}

func TestSpawnRequestConsumedOnce(t *testing.T) {
	g := newTestGame(t)

	g.RequestSpawn(r2.Vec{X: 400, Y: 120})
	g.UpdateHeadless()
	after := g.Sim().Active()

	g.UpdateHeadless()
	if g.Sim().Active() != after {
		t.Fatal("spawn request fired on more than one tick")
	}
}

func TestBuildBasin(t *testing.T) {
	scene := buildBasin(1280, 720)
	if scene.Count() != 4 {
		t.Fatalf("basin fixtures = %d, want 4", scene.Count())
	}
}

func TestSnapshotMatchesPool(t *testing.T) {
	g := newTestGame(t)

	g.RequestSpawn(r2.Vec{X: 400, Y: 120})
	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}

	snap := g.snapshot()
	if snap.Active != g.Sim().Active() {
		t.Fatalf("snapshot active = %d, want %d", snap.Active, g.Sim().Active())
	}
	if len(snap.Particles) != snap.Active {
		t.Fatalf("snapshot carries %d particles, header says %d", len(snap.Particles), snap.Active)
	}
	if snap.Tick != int64(g.Tick()) {
		t.Fatalf("snapshot tick = %d, want %d", snap.Tick, g.Tick())
	}
}
