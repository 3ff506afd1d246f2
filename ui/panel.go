// Package ui renders the immediate-mode tuning panel.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tuning holds the live-adjustable simulation values the panel edits.
type Tuning struct {
	GravityY   float32
	Viscosity  float32
	SpawnCount float32
}

// TuningPanel is a small slider panel for poking the simulation while it
// runs. Draw must be called every frame between BeginDrawing/EndDrawing.
type TuningPanel struct {
	x, y, width float32
	visible     bool
	values      Tuning
	defaults    Tuning
	height      float32
}

// NewTuningPanel creates a hidden panel at the given screen position.
func NewTuningPanel(x, y, width float32) *TuningPanel {
	return &TuningPanel{x: x, y: y, width: width}
}

// SetDefaults seeds the panel values and its reset target.
func (p *TuningPanel) SetDefaults(t Tuning) {
	p.values = t
	p.defaults = t
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() { p.visible = !p.visible }

// Visible returns whether the panel is shown.
func (p *TuningPanel) Visible() bool { return p.visible }

// Values returns the current slider values.
func (p *TuningPanel) Values() Tuning { return p.values }

// Covers reports whether the point lies inside the panel rectangle, so the
// caller can keep clicks on the panel from reaching the scene.
func (p *TuningPanel) Covers(x, y float32) bool {
	if !p.visible {
		return false
	}
	return x >= p.x && x <= p.x+p.width && y >= p.y && y <= p.y+p.height
}

// Draw renders the panel and applies slider edits to the current values.
func (p *TuningPanel) Draw() {
	if !p.visible {
		return
	}

	x := p.x + 10
	y := p.y + 10
	sliderW := p.width - 80

	if p.height == 0 {
		p.height = 200
	}
	rl.DrawRectangle(int32(p.x), int32(p.y), int32(p.width), int32(p.height), rl.Fade(rl.Black, 0.7))
	rl.DrawRectangleLines(int32(p.x), int32(p.y), int32(p.width), int32(p.height), rl.DarkGray)

	top := p.y
	rl.DrawText("Fluid Tuning", int32(x), int32(y), 20, rl.RayWhite)
	y += 30

	rl.DrawText("Gravity", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	p.values.GravityY = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 20},
		"0", "100",
		p.values.GravityY, 0, 100,
	)
	rl.DrawText(fmt.Sprintf("%.0f", p.values.GravityY), int32(x+sliderW+10), int32(y+2), 16, rl.RayWhite)
	y += 32

	rl.DrawText("Viscosity", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	p.values.Viscosity = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 20},
		"0", "10",
		p.values.Viscosity, 0, 10,
	)
	rl.DrawText(fmt.Sprintf("%.1f", p.values.Viscosity), int32(x+sliderW+10), int32(y+2), 16, rl.RayWhite)
	y += 32

	rl.DrawText("Spawn count", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	p.values.SpawnCount = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 20},
		"1", "100",
		p.values.SpawnCount, 1, 100,
	)
	rl.DrawText(fmt.Sprintf("%.0f", p.values.SpawnCount), int32(x+sliderW+10), int32(y+2), 16, rl.RayWhite)
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 100, Height: 26}, "Reset") {
		p.values = p.defaults
	}
	y += 36

	p.height = y - top
}
