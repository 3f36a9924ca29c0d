package systems

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/pthm-cable/backdrop/theme"
)

// nopSurface discards draw calls.
type nopSurface struct{ w, h float32 }

func (s nopSurface) Size() (float32, float32)                        { return s.w, s.h }
func (nopSurface) Clear()                                            {}
func (nopSurface) FillCircle(_, _, _ float32, _, _ color.RGBA)       {}
func (nopSurface) StrokeLine(_, _, _, _, _ float32, _, _ color.RGBA) {}

// Benchmark one frame at the stock pool size
func BenchmarkRenderFrame50(b *testing.B) {
	benchmarkRenderFrame(b, 50)
}

// Benchmark one frame with a dense pool to show the pairwise link cost
func BenchmarkRenderFrame500(b *testing.B) {
	benchmarkRenderFrame(b, 500)
}

func benchmarkRenderFrame(b *testing.B, count int) {
	params := DefaultFieldParams()
	params.Count = count
	f := NewField(rand.New(rand.NewSource(1)), params, 1920, 1080)
	s := nopSurface{w: 1920, h: 1080}
	pal := theme.For(true)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		RenderFrame(f, s, pal)
	}
}

// Benchmark the advance-and-wrap pass alone
func BenchmarkStep(b *testing.B) {
	f := NewField(rand.New(rand.NewSource(1)), DefaultFieldParams(), 1920, 1080)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		f.Step()
	}
}
