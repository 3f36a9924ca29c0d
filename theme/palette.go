// Package theme holds the two fixed colour palettes, the persisted dark-mode
// flag and the shared state object that views read the flag from.
package theme

import (
	"image/color"
	"math"
)

// Blend selects how the backdrop composites onto the page colour.
type Blend uint8

const (
	BlendScreen   Blend = iota // brightens; used on dark backgrounds
	BlendMultiply              // darkens; used on light backgrounds
)

// Stop is one colour stop of a gradient. Alpha scales the particle opacity
// (or the link alpha) at this stop.
type Stop struct {
	Offset float32
	Color  color.RGBA
	Alpha  float32
}

// Palette is the full colour set for one theme.
type Palette struct {
	Dark       bool
	Particle   []Stop // radial stops, offset 0 = centre
	Link       []Stop // linear stops, offset 0 = first particle
	Background color.RGBA
	Text       color.RGBA
	Blend      Blend
}

var (
	cyan    = color.RGBA{R: 6, G: 182, B: 212, A: 255}
	emerald = color.RGBA{R: 16, G: 185, B: 129, A: 255}
	blue    = color.RGBA{R: 59, G: 130, B: 246, A: 255}
)

var darkPalette = Palette{
	Dark: true,
	Particle: []Stop{
		{Offset: 0, Color: cyan, Alpha: 1},
		{Offset: 0.5, Color: emerald, Alpha: 0.7},
		{Offset: 1, Color: blue, Alpha: 0.3},
	},
	Link: []Stop{
		{Offset: 0, Color: cyan, Alpha: 1},
		{Offset: 1, Color: emerald, Alpha: 1},
	},
	Background: color.RGBA{R: 15, G: 23, B: 42, A: 255},
	Text:       color.RGBA{R: 226, G: 232, B: 240, A: 255},
	Blend:      BlendScreen,
}

var lightPalette = Palette{
	Dark: false,
	Particle: []Stop{
		{Offset: 0, Color: cyan, Alpha: 0.3},
		{Offset: 1, Color: emerald, Alpha: 0.1},
	},
	Link: []Stop{
		{Offset: 0, Color: cyan, Alpha: 0.5},
		{Offset: 1, Color: emerald, Alpha: 0.5},
	},
	Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Text:       color.RGBA{R: 30, G: 41, B: 59, A: 255},
	Blend:      BlendMultiply,
}

// For returns the palette for the given flag. The returned stop slices are
// copies, so callers may not alter the fixed palettes.
func For(dark bool) Palette {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	p.Particle = append([]Stop(nil), p.Particle...)
	p.Link = append([]Stop(nil), p.Link...)
	return p
}

// ParticleColorAt samples the radial gradient at offset in [0, 1] for a
// particle with the given opacity.
func (p Palette) ParticleColorAt(offset, opacity float32) color.RGBA {
	return sample(p.Particle, offset, opacity)
}

// LinkColors returns the start and end colours of a link line whose base
// alpha is alpha.
func (p Palette) LinkColors(alpha float32) (from, to color.RGBA) {
	return sample(p.Link, 0, alpha), sample(p.Link, 1, alpha)
}

func sample(stops []Stop, offset, alpha float32) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	if offset <= stops[0].Offset {
		return withAlpha(stops[0].Color, stops[0].Alpha*alpha)
	}
	last := stops[len(stops)-1]
	if offset >= last.Offset {
		return withAlpha(last.Color, last.Alpha*alpha)
	}

	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if offset > hi.Offset {
			continue
		}
		span := hi.Offset - lo.Offset
		t := float32(0)
		if span > 0 {
			t = (offset - lo.Offset) / span
		}
		c := color.RGBA{
			R: lerp8(lo.Color.R, hi.Color.R, t),
			G: lerp8(lo.Color.G, hi.Color.G, t),
			B: lerp8(lo.Color.B, hi.Color.B, t),
		}
		return withAlpha(c, (lo.Alpha+(hi.Alpha-lo.Alpha)*t)*alpha)
	}
	return withAlpha(last.Color, last.Alpha*alpha)
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

// withAlpha sets A from a [0, 1] alpha, clamped.
func withAlpha(c color.RGBA, a float32) color.RGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(math.Round(float64(a) * 255))
	return c
}
