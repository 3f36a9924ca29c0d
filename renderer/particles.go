package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/theme"
)

// RaylibSurface draws the particle field into the current raylib frame.
// Draw calls must happen between rl.BeginDrawing and rl.EndDrawing.
type RaylibSurface struct {
	background color.RGBA
	blend      rl.BlendMode
	blending   bool
}

// AcquireSurface returns a surface for the open window, or nil when no
// window or GL context exists. Callers treat nil as "do not render".
func AcquireSurface(pal theme.Palette) systems.Surface {
	if !rl.IsWindowReady() {
		return nil
	}
	s := &RaylibSurface{}
	s.SetPalette(pal)
	return s
}

// SetPalette switches the background colour and blend mode.
func (s *RaylibSurface) SetPalette(pal theme.Palette) {
	s.background = pal.Background
	s.blend = blendMode(pal.Blend)
}

// Size returns the window's drawable size.
func (s *RaylibSurface) Size() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}

// Clear fills the window with the theme background and starts compositing
// in the theme's blend mode until Finish.
func (s *RaylibSurface) Clear() {
	s.Finish()
	rl.ClearBackground(s.background)
	rl.BeginBlendMode(s.blend)
	s.blending = true
}

// Finish ends the blend mode started by Clear. Safe to call repeatedly.
func (s *RaylibSurface) Finish() {
	if s.blending {
		rl.EndBlendMode()
		s.blending = false
	}
}

// FillCircle draws a disc shaded from inner at the centre to outer at the rim.
func (s *RaylibSurface) FillCircle(x, y, radius float32, inner, outer color.RGBA) {
	rl.DrawCircleGradient(int32(x), int32(y), radius, inner, outer)
}

// StrokeLine draws a line with per-vertex colours so the GPU interpolates
// the gradient along it.
func (s *RaylibSurface) StrokeLine(x1, y1, x2, y2, width float32, from, to color.RGBA) {
	rl.SetLineWidth(width)
	rl.Begin(rl.Lines)
	rl.Color4ub(from.R, from.G, from.B, from.A)
	rl.Vertex2f(x1, y1)
	rl.Color4ub(to.R, to.G, to.B, to.A)
	rl.Vertex2f(x2, y2)
	rl.End()
}

func blendMode(b theme.Blend) rl.BlendMode {
	if b == theme.BlendMultiply {
		return rl.BlendMultiplied
	}
	return rl.BlendAdditive
}
