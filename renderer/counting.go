package renderer

import "image/color"

// CountingSurface accepts draw calls without drawing anything. Headless runs
// use it to exercise the full frame path.
type CountingSurface struct {
	width, height float32

	Clears  int
	Circles int
	Lines   int
}

// NewCountingSurface creates a surface of the given size.
func NewCountingSurface(width, height float32) *CountingSurface {
	return &CountingSurface{width: width, height: height}
}

// Resize changes the reported size.
func (s *CountingSurface) Resize(width, height float32) {
	s.width = width
	s.height = height
}

// Size returns the configured size.
func (s *CountingSurface) Size() (float32, float32) {
	return s.width, s.height
}

// Clear counts a clear.
func (s *CountingSurface) Clear() {
	s.Clears++
}

// FillCircle counts a particle.
func (s *CountingSurface) FillCircle(_, _, _ float32, _, _ color.RGBA) {
	s.Circles++
}

// StrokeLine counts a link.
func (s *CountingSurface) StrokeLine(_, _, _, _, _ float32, _, _ color.RGBA) {
	s.Lines++
}
