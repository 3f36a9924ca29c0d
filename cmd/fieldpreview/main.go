// Field preview tool - interactive tuning of the particle field with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/theme"
)

const (
	windowWidth  = 1200
	windowHeight = 720
	panelWidth   = 340
	previewWidth = windowWidth - panelWidth
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	defaults := systems.ParamsFromConfig(config.Default().Field)
	params := defaults
	dark := true
	seed := int64(1)

	surface, ok := renderer.AcquireSurface(theme.For(dark)).(*renderer.RaylibSurface)
	if !ok {
		fmt.Fprintln(os.Stderr, "no drawing surface")
		os.Exit(1)
	}

	field := newField(params, seed)

	for !rl.WindowShouldClose() {
		pal := theme.For(dark)

		rl.BeginDrawing()
		stats := systems.RenderFrame(field, surface, pal)
		surface.Finish()

		// Control panel
		panelX := float32(previewWidth + 15)
		panelY := float32(10)
		rl.DrawRectangle(previewWidth, 0, panelWidth, windowHeight, rl.Color{R: 245, G: 245, B: 245, A: 255})
		rl.DrawLine(previewWidth, 0, previewWidth, windowHeight, rl.LightGray)

		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30
		rl.DrawText(fmt.Sprintf("Particles: %d  Links: %d  FPS: %d", stats.Particles, stats.Links, rl.GetFPS()), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 30

		// Pool shape changes need a fresh pool
		count := slider(&panelY, panelX, "Count", float32(params.Count), 2, 300, "%.0f")
		speed := slider(&panelY, panelX, "Speed", params.Speed, 0, 3, "%.2f")
		radiusMax := slider(&panelY, panelX, "Radius max", params.RadiusMax, params.RadiusMin, 8, "%.1f")
		if int(count) != params.Count || speed != params.Speed || radiusMax != params.RadiusMax {
			params.Count = int(count)
			params.Speed = speed
			params.RadiusMax = radiusMax
			field = newField(params, seed)
		}

		// Link changes keep the particles where they are
		threshold := slider(&panelY, panelX, "Link threshold", params.LinkThreshold, 10, 400, "%.0f")
		dim := slider(&panelY, panelX, "Link dim", params.LinkDim, 0, 1, "%.2f")
		if threshold != params.LinkThreshold || dim != params.LinkDim {
			params.LinkThreshold = threshold
			params.LinkDim = dim
			field = rebuild(field, params)
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 30}, toggleText(dark, "Light theme", "Dark theme")) {
			dark, field = switchTheme(dark, params, seed)
			surface.SetPalette(theme.For(dark))
		}
		if gui.Button(rl.Rectangle{X: panelX + 160, Y: panelY, Width: 150, Height: 30}, "Reseed") {
			seed = int64(rl.GetRandomValue(1, 99999))
			field = newField(params, seed)
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 30}, "Reset All") {
			params = defaults
			field = newField(params, seed)
		}
		panelY += 50

		// Output YAML
		out := fieldYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and advances y past it.
func slider(y *float32, x float32, label string, value, min, max float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: panelWidth - 100, Height: 20},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+panelWidth-90), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func newField(params systems.FieldParams, seed int64) *systems.Field {
	return systems.NewField(rand.New(rand.NewSource(seed)), params, previewWidth, windowHeight)
}

// switchTheme flips the theme and builds a fresh pool, as the backdrop
// does on every theme change.
func switchTheme(dark bool, params systems.FieldParams, seed int64) (bool, *systems.Field) {
	return !dark, newField(params, seed)
}

// rebuild swaps the parameters of f while keeping its particles.
func rebuild(f *systems.Field, params systems.FieldParams) *systems.Field {
	particles := make([]systems.Particle, f.Len())
	for i := range particles {
		particles[i] = f.At(i)
	}
	w, h := f.Bounds()
	return systems.NewFieldFrom(particles, params, w, h)
}

func fieldYAML(p systems.FieldParams) string {
	doc := map[string]config.FieldConfig{
		"field": {
			Count:         p.Count,
			RadiusMin:     float64(p.RadiusMin),
			RadiusMax:     float64(p.RadiusMax),
			Speed:         float64(p.Speed),
			OpacityMin:    float64(p.OpacityMin),
			OpacityMax:    float64(p.OpacityMax),
			LinkThreshold: float64(p.LinkThreshold),
			LinkDim:       float64(p.LinkDim),
			LinkWidth:     float64(p.LinkWidth),
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "# " + err.Error()
	}
	return string(out)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
