// Pressure kernel preview tool - interactive visualization with sliders.
//
// Plots the double density kernel terms and the resulting pair displacement
// factor over the normalized distance q, for tuning rest density and
// viscosity before touching the live simulation.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	plotSize     = 512
	panelWidth   = windowWidth - plotSize - 30
)

// KernelParams holds the pressure model parameters under preview.
type KernelParams struct {
	RestDensity float32
	Pressure    float32 // assumed accumulated pressure of the probe particle
	Near        float32 // assumed accumulated near pressure
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Pressure Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := KernelParams{
		RestDensity: 5.0,
		Pressure:    2.0,
		Near:        1.0,
	}

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPlot(params)

		// Control panel
		panelX := float32(plotSize + 20)
		panelY := float32(10)

		rl.DrawText("Kernel Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Rest density", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		params.RestDensity = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "10",
			params.RestDensity, 0, 10,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.RestDensity), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35

		rl.DrawText("Probe pressure", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		params.Pressure = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "20",
			params.Pressure, 0, 20,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Pressure), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35

		rl.DrawText("Probe near pressure", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		params.Near = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "20",
			params.Near, 0, 20,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Near), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = KernelParams{RestDensity: 5.0, Pressure: 2.0, Near: 1.0}
		}

		rl.EndDrawing()
	}
}

// factorAt evaluates the pair displacement magnitude per unit distance at
// normalized separation q, matching the force phase of the simulation.
func factorAt(q float32, p KernelParams) float32 {
	oneMinusQ := 1 - q
	pressureTerm := (p.Pressure - p.RestDensity) / 2
	nearTerm := p.Near / 2
	return oneMinusQ * (pressureTerm + nearTerm*oneMinusQ) / 2
}

// drawPlot renders the kernel terms and the displacement factor over q.
func drawPlot(params KernelParams) {
	const margin = 10
	rl.DrawRectangleLines(margin, margin, plotSize, plotSize, rl.DarkGray)

	mid := int32(margin + plotSize/2)
	rl.DrawLine(margin, mid, margin+plotSize, mid, rl.LightGray)
	rl.DrawText("q=0", margin+4, mid+4, 12, rl.Gray)
	rl.DrawText("q=1", margin+plotSize-30, mid+4, 12, rl.Gray)

	// Vertical scale: one plot unit per eighth of the panel.
	scale := float32(plotSize) / 8

	plot := func(f func(q float32) float32, c rl.Color) {
		var prevX, prevY int32
		for i := 0; i <= plotSize; i++ {
			q := float32(i) / plotSize
			v := f(q)
			x := int32(margin + i)
			y := mid - int32(v*scale)
			if y < margin {
				y = margin
			}
			if y > margin+plotSize {
				y = margin + plotSize
			}
			if i > 0 {
				rl.DrawLine(prevX, prevY, x, y, c)
			}
			prevX, prevY = x, y
		}
	}

	plot(func(q float32) float32 { return (1 - q) * (1 - q) }, rl.Blue)
	plot(func(q float32) float32 { return (1 - q) * (1 - q) * (1 - q) }, rl.SkyBlue)
	plot(func(q float32) float32 { return factorAt(q, params) }, rl.Red)

	legendY := int32(margin + 8)
	rl.DrawText("(1-q)^2 pressure kernel", margin+30, legendY, 14, rl.Blue)
	rl.DrawText("(1-q)^3 near kernel", margin+30, legendY+18, 14, rl.SkyBlue)
	rl.DrawText("pair displacement factor", margin+30, legendY+36, 14, rl.Red)
}
