package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brine/config"
)

// handleInput processes mouse and keyboard input.
func (g *Game) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Debug wireframe toggle
	if rl.IsKeyPressed(rl.KeyD) {
		g.debugMode = !g.debugMode
	}

	// Tuning panel
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}

	// Hold left button to pour particles at the pointer. The panel swallows
	// clicks inside its rectangle so slider drags do not spawn.
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if !g.panel.Covers(mouse.X, mouse.Y) {
			g.RequestSpawn(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)})
		}
	}

	g.applyTuning()
}

// applyTuning draws nothing; it reconciles last frame's panel values into the
// simulation parameters.
func (g *Game) applyTuning() {
	if !g.panel.Visible() {
		return
	}
	t := g.panel.Values()
	g.sim.SetGravity(r2.Vec{X: config.Cfg().Fluid.GravityX, Y: float64(t.GravityY)})
	g.sim.SetViscosity(float64(t.Viscosity))
	g.spawnCount = int(t.SpawnCount)
}
