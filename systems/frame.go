package systems

import (
	"image/color"

	"github.com/pthm-cable/backdrop/theme"
)

// Surface is the drawing target of the backdrop.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (width, height float32)
	// Clear erases the whole surface.
	Clear()
	// FillCircle fills a disc with a radial gradient from inner at the
	// centre to outer at the rim.
	FillCircle(x, y, radius float32, inner, outer color.RGBA)
	// StrokeLine draws a line whose colour runs linearly from one end to
	// the other.
	StrokeLine(x1, y1, x2, y2, width float32, from, to color.RGBA)
}

// gradientExtent is the radial gradient falloff radius in multiples of the
// particle radius. The disc itself is filled to 1x, so its rim shows the
// gradient at 1/gradientExtent.
const gradientExtent = 2

// FrameStats counts what one frame drew.
type FrameStats struct {
	Particles int
	Links     int
}

// RenderFrame runs one animation frame over f: clear the surface, then for
// each particle in pool order advance it, draw it, and link it to every
// later particle within the link threshold. A nil surface draws nothing and
// leaves the field untouched.
func RenderFrame(f *Field, s Surface, pal theme.Palette) FrameStats {
	if f == nil || s == nil {
		return FrameStats{}
	}

	var stats FrameStats
	s.Clear()

	threshold := f.params.LinkThreshold
	dim := f.params.LinkDim
	lineWidth := f.params.LinkWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}

	for i := range f.particles {
		f.Advance(i)
		p := &f.particles[i]

		inner := pal.ParticleColorAt(0, p.Opacity)
		outer := pal.ParticleColorAt(1.0/gradientExtent, p.Opacity)
		s.FillCircle(p.X, p.Y, p.Radius, inner, outer)
		stats.Particles++

		// Later particles only, so each pair is considered once
		for j := i + 1; j < len(f.particles); j++ {
			alpha, ok := LinkAlpha(f.Distance(i, j), threshold, dim)
			if !ok {
				continue
			}
			o := &f.particles[j]
			from, to := pal.LinkColors(alpha)
			s.StrokeLine(p.X, p.Y, o.X, o.Y, lineWidth, from, to)
			stats.Links++
		}
	}

	return stats
}
