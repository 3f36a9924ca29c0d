package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/backdrop/config"
)

// Particle is one drifting point of the backdrop. Only X and Y change after
// creation.
type Particle struct {
	X, Y       float32
	Radius     float32
	VelX, VelY float32
	Opacity    float32
}

// Validate reports whether p can be drawn: finite values, a positive
// radius and an opacity in [0, 1].
func (p Particle) Validate() error {
	for _, v := range []float32{p.X, p.Y, p.Radius, p.VelX, p.VelY, p.Opacity} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("non-finite value in %+v", p)
		}
	}
	if p.Radius <= 0 {
		return fmt.Errorf("radius %v must be positive", p.Radius)
	}
	if p.Opacity < 0 || p.Opacity > 1 {
		return fmt.Errorf("opacity %v outside [0, 1]", p.Opacity)
	}
	return nil
}

// FieldParams controls pool creation and link drawing.
type FieldParams struct {
	Count         int
	RadiusMin     float32
	RadiusMax     float32
	Speed         float32 // velocity components drawn from [-Speed/2, Speed/2)
	OpacityMin    float32
	OpacityMax    float32
	LinkThreshold float32
	LinkDim       float32
	LinkWidth     float32
}

// DefaultFieldParams returns the stock backdrop parameters.
func DefaultFieldParams() FieldParams {
	return FieldParams{
		Count:         50,
		RadiusMin:     1,
		RadiusMax:     3,
		Speed:         0.5,
		OpacityMin:    0.2,
		OpacityMax:    0.7,
		LinkThreshold: 150,
		LinkDim:       0.3,
		LinkWidth:     1,
	}
}

// ParamsFromConfig converts the YAML field section.
func ParamsFromConfig(c config.FieldConfig) FieldParams {
	return FieldParams{
		Count:         c.Count,
		RadiusMin:     float32(c.RadiusMin),
		RadiusMax:     float32(c.RadiusMax),
		Speed:         float32(c.Speed),
		OpacityMin:    float32(c.OpacityMin),
		OpacityMax:    float32(c.OpacityMax),
		LinkThreshold: float32(c.LinkThreshold),
		LinkDim:       float32(c.LinkDim),
		LinkWidth:     float32(c.LinkWidth),
	}
}

// Field owns a fixed, ordered pool of particles inside a width x height
// surface. It is not safe for concurrent use.
type Field struct {
	particles     []Particle
	params        FieldParams
	width, height float32
}

// NewField creates a fresh pool of params.Count particles placed uniformly
// over [0, width) x [0, height).
func NewField(rng *rand.Rand, params FieldParams, width, height float32) *Field {
	f := &Field{
		particles: make([]Particle, params.Count),
		params:    params,
		width:     width,
		height:    height,
	}

	for i := range f.particles {
		f.particles[i] = Particle{
			X:       rng.Float32() * width,
			Y:       rng.Float32() * height,
			Radius:  params.RadiusMin + rng.Float32()*(params.RadiusMax-params.RadiusMin),
			VelX:    (rng.Float32() - 0.5) * params.Speed,
			VelY:    (rng.Float32() - 0.5) * params.Speed,
			Opacity: params.OpacityMin + rng.Float32()*(params.OpacityMax-params.OpacityMin),
		}
	}
	return f
}

// NewFieldFrom builds a field around caller-supplied particles. The slice is
// copied.
func NewFieldFrom(particles []Particle, params FieldParams, width, height float32) *Field {
	params.Count = len(particles)
	return &Field{
		particles: append([]Particle(nil), particles...),
		params:    params,
		width:     width,
		height:    height,
	}
}

// Len returns the pool size.
func (f *Field) Len() int {
	return len(f.particles)
}

// At returns a copy of particle i.
func (f *Field) At(i int) Particle {
	return f.particles[i]
}

// Params returns the parameters the field was built with.
func (f *Field) Params() FieldParams {
	return f.params
}

// Bounds returns the current surface size.
func (f *Field) Bounds() (width, height float32) {
	return f.width, f.height
}

// Resize changes the bounds without touching the pool. Particles left
// outside the new bounds are folded back by their next Advance.
// Non-positive sizes (a minimised window) are ignored.
func (f *Field) Resize(width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	f.width = width
	f.height = height
}

// Advance moves particle i by its velocity and wraps it to the opposite
// edge when it leaves the bounds.
func (f *Field) Advance(i int) {
	p := &f.particles[i]
	p.X = wrap(p.X+p.VelX, f.width)
	p.Y = wrap(p.Y+p.VelY, f.height)
}

// Step advances every particle once, in pool order.
func (f *Field) Step() {
	for i := range f.particles {
		f.Advance(i)
	}
}

// wrap teleports v into [0, limit): below zero lands on the far edge,
// at or beyond limit lands on zero. NaN lands on zero.
func wrap(v, limit float32) float32 {
	if limit <= 0 || v != v {
		return 0
	}
	if v < 0 {
		return math.Nextafter32(limit, 0)
	}
	if v >= limit {
		return 0
	}
	return v
}

// Distance returns the Euclidean distance between particles i and j.
func (f *Field) Distance(i, j int) float32 {
	a, b := &f.particles[i], &f.particles[j]
	dx := a.X - b.X
	dy := a.Y - b.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// LinkAlpha returns the line alpha for two particles d apart:
// (1 - d/threshold) * dim. ok is false when d is not below the threshold.
func LinkAlpha(d, threshold, dim float32) (alpha float32, ok bool) {
	if threshold <= 0 || d >= threshold {
		return 0, false
	}
	return (1 - d/threshold) * dim, true
}
