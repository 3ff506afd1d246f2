// Package game wires the fluid engine to the window, input, telemetry and
// streaming layers.
package game

import (
	"log/slog"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/fluid"
	"github.com/pthm-cable/brine/stream"
	"github.com/pthm-cable/brine/telemetry"
	"github.com/pthm-cable/brine/ui"
	"github.com/pthm-cable/brine/world"
)

// Options controls game startup behavior.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	ListenAddr     string
}

// Game owns one running simulation and its frontend state.
type Game struct {
	sim   *fluid.Sim
	scene *world.World
	rng   *rand.Rand

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	stream    *stream.Server

	opts  Options
	panel *ui.TuningPanel

	paused         bool
	debugMode      bool
	stepsPerUpdate int
	spawnCount     int

	// Pointer spawn request for this tick, set by input or tests.
	spawnAt      r2.Vec
	spawnPending bool

	speedScratch []float64
}

// NewGameWithOptions creates a game using the global config and the given
// runtime options.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		rng:            rand.New(rand.NewSource(opts.Seed)),
		collector:      telemetry.NewCollector(statsWindow, cfg.Fluid.DT),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		opts:           opts,
		panel:          ui.NewTuningPanel(10, 10, 260),
		stepsPerUpdate: opts.StepsPerUpdate,
		spawnCount:     cfg.Spawn.Count,
		speedScratch:   make([]float64, 0, cfg.Fluid.MaxParticles),
	}

	g.panel.SetDefaults(ui.Tuning{
		GravityY:   float32(cfg.Fluid.GravityY),
		Viscosity:  float32(cfg.Fluid.Viscosity),
		SpawnCount: float32(cfg.Spawn.Count),
	})

	g.sim = fluid.New(fluid.Params{
		MaxParticles:      cfg.Fluid.MaxParticles,
		CellSize:          cfg.Fluid.CellSize,
		InteractionRadius: cfg.Fluid.InteractionRadius,
		IdealRadius:       cfg.Fluid.IdealRadius,
		RestDensity:       cfg.Fluid.RestDensity,
		Viscosity:         cfg.Fluid.Viscosity,
		Gravity:           r2.Vec{X: cfg.Fluid.GravityX, Y: cfg.Fluid.GravityY},
		DT:                cfg.Fluid.DT,
		Restitution:       cfg.Collision.Restitution,
		Friction:          cfg.Collision.Friction,
		Bounds: r2.Box{
			Min: r2.Vec{X: 0, Y: 0},
			Max: r2.Vec{X: cfg.Derived.WorldW, Y: cfg.Derived.WorldH},
		},
	})
	g.sim.SetPhaseTimer(g.perf)

	if cfg.Collision.Enabled {
		g.scene = buildBasin(cfg.Derived.WorldW, cfg.Derived.WorldH)
		g.sim.SetWorld(g.scene)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	g.output = om
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	addr := opts.ListenAddr
	if addr == "" {
		addr = cfg.Stream.Addr
	}
	if addr != "" {
		g.stream = stream.NewServer(addr)
		g.stream.Start()
	}

	return g
}

// buildBasin creates the default collision scene: a floor, two walls and a
// round obstacle in the lower half of the window.
func buildBasin(w, h float64) *world.World {
	const wall = 40.0

	scene := world.New()
	scene.AddBox(r2.Vec{X: -wall, Y: h - wall}, r2.Vec{X: w + wall, Y: h + wall})
	scene.AddBox(r2.Vec{X: -wall, Y: -wall}, r2.Vec{X: 0, Y: h + wall})
	scene.AddBox(r2.Vec{X: w, Y: -wall}, r2.Vec{X: w + wall, Y: h + wall})
	scene.AddCircle(r2.Vec{X: w * 0.5, Y: h * 0.72}, h*0.08)
	return scene
}

// RequestSpawn schedules a particle burst at pos for the next tick.
func (g *Game) RequestSpawn(pos r2.Vec) {
	g.spawnAt = pos
	g.spawnPending = true
}

// Update runs input handling and the configured number of ticks.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless runs ticks without any input or window dependency.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one simulation tick with timing and telemetry around it.
func (g *Game) step() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSpawn)
	if g.spawnPending {
		g.spawnPending = false
		n := g.sim.Spawn(g.spawnAt, g.spawnCount, g.jitter())
		g.collector.RecordSpawned(n)
	}

	g.sim.Step()
	g.perf.EndTick()

	g.collector.RecordContacts(g.sim.Contacts())
	g.flushTelemetry()
	g.broadcast()
}

// jitter returns the spawn offset generator for the configured jitter radius.
func (g *Game) jitter() func() r2.Vec {
	j := config.Cfg().Spawn.Jitter
	if j <= 0 {
		return nil
	}
	return func() r2.Vec {
		return r2.Vec{
			X: (g.rng.Float64()*2 - 1) * j,
			Y: (g.rng.Float64()*2 - 1) * j,
		}
	}
}

// flushTelemetry emits window stats when the collector's window elapses.
func (g *Game) flushTelemetry() {
	tick := int64(g.sim.Tick())
	if !g.collector.ShouldFlush(tick) {
		return
	}

	g.speedScratch = g.speedScratch[:0]
	particles := g.sim.Particles()
	for _, i := range g.sim.ActiveIndices() {
		g.speedScratch = append(g.speedScratch, r2.Norm(particles[i].Vel))
	}

	stats := g.collector.Flush(tick, telemetry.PoolSample{
		Particles:     g.sim.Active(),
		Capacity:      g.sim.Capacity(),
		AvgNeighbors:  g.sim.AvgNeighbors(),
		GridCells:     g.sim.GridCells(),
		KineticEnergy: g.sim.KineticEnergy(),
		Speeds:        g.speedScratch,
	})

	if g.opts.LogStats {
		stats.LogStats()
		g.perf.Stats().LogStats()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	if err := g.output.WritePerf(g.perf.Stats(), tick); err != nil {
		slog.Warn("perf write failed", "error", err)
	}
}

// broadcast streams a snapshot to connected clients at the configured
// interval.
func (g *Game) broadcast() {
	if g.stream == nil || g.stream.Clients() == 0 {
		return
	}
	interval := int64(config.Cfg().Stream.Interval)
	if interval < 1 {
		interval = 1
	}
	tick := int64(g.sim.Tick())
	if tick%interval != 0 {
		return
	}
	g.stream.Broadcast(g.snapshot())
}

// snapshot captures the observable particle state for streaming.
func (g *Game) snapshot() *telemetry.Snapshot {
	particles := g.sim.Particles()
	active := g.sim.ActiveIndices()

	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Tick:      int64(g.sim.Tick()),
		Active:    len(active),
		Capacity:  g.sim.Capacity(),
		Particles: make([]telemetry.ParticleState, 0, len(active)),
	}
	for _, i := range active {
		p := &particles[i]
		snap.Particles = append(snap.Particles, telemetry.ParticleState{
			X:        p.Pos.X,
			Y:        p.Pos.Y,
			VelX:     p.Vel.X,
			VelY:     p.Vel.Y,
			Pressure: p.Pressure,
		})
	}
	return snap
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() uint64 { return g.sim.Tick() }

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool { return g.paused }

// Sim exposes the simulation for tests and tooling.
func (g *Game) Sim() *fluid.Sim { return g.sim }

// Unload releases the worker pool, output files and network listeners.
func (g *Game) Unload() {
	g.sim.Close()
	if err := g.output.Close(); err != nil {
		slog.Warn("closing output", "error", err)
	}
	if g.stream != nil {
		if err := g.stream.Close(); err != nil {
			slog.Warn("closing stream", "error", err)
		}
	}
}
