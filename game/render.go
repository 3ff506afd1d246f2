package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/config"
	"github.com/pthm-cable/brine/fluid"
)

// Draw renders one frame.
func (g *Game) Draw() {
	g.perf.RecordFrame()

	cfg := config.Cfg()
	shade := cfg.Render.BackgroundShade
	blue := shade
	if blue < 247 {
		blue += 8
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(shade, shade, blue, 255))

	g.drawParticles(float32(cfg.Render.ParticleRadius))
	if g.debugMode && g.scene != nil {
		g.drawFixtures()
	}
	g.drawHUD()
	g.panel.Draw()

	rl.EndDrawing()
}

// drawParticles renders every active particle, tinted by local pressure so
// dense regions read brighter.
func (g *Game) drawParticles(radius float32) {
	rest := config.Cfg().Fluid.RestDensity
	particles := g.sim.Particles()

	for _, i := range g.sim.ActiveIndices() {
		p := &particles[i]

		t := float32(p.Pressure / (2 * rest))
		if t > 1 {
			t = 1
		}
		color := rl.NewColor(
			uint8(40+t*180),
			uint8(110+t*120),
			uint8(220+t*35),
			255,
		)
		rl.DrawCircle(int32(p.Pos.X), int32(p.Pos.Y), radius, color)
	}
}

// drawFixtures renders collision geometry as wireframes.
func (g *Game) drawFixtures() {
	g.scene.Each(func(shape fluid.Shape) bool {
		switch sh := shape.(type) {
		case *fluid.Polygon:
			n := len(sh.Verts)
			for i := 0; i < n; i++ {
				a := sh.Verts[i]
				b := sh.Verts[(i+1)%n]
				rl.DrawLine(int32(a.X), int32(a.Y), int32(b.X), int32(b.Y), rl.Green)
			}
		case *fluid.Circle:
			rl.DrawCircleLines(int32(sh.Center.X), int32(sh.Center.Y), float32(sh.Radius), rl.Green)
		}
		return true
	})
}

// drawHUD renders the status line and key hints.
func (g *Game) drawHUD() {
	status := fmt.Sprintf("fps %d | tick %d | particles %d/%d | speed %dx",
		rl.GetFPS(), g.sim.Tick(), g.sim.Active(), g.sim.Capacity(), g.stepsPerUpdate)
	if g.paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, int32(rl.GetScreenHeight())-26, 16, rl.RayWhite)

	rl.DrawText("LMB pour | Space pause | Tab panel | D debug | ,/. speed",
		10, int32(rl.GetScreenHeight())-46, 12, rl.Gray)

	if g.debugMode {
		debug := fmt.Sprintf("grid cells %d | avg neighbors %.1f | contacts %d | ke %.1f",
			g.sim.GridCells(), g.sim.AvgNeighbors(), g.sim.Contacts(), g.sim.KineticEnergy())
		rl.DrawText(debug, 10, int32(rl.GetScreenHeight())-66, 12, rl.Lime)
	}
}
