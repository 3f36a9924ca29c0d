package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	Frames           int     `csv:"frames"`
	Dark             bool    `csv:"dark"`
	Particles        int     `csv:"particles"`
	Width            float32 `csv:"width"`
	Height           float32 `csv:"height"`

	// Links drawn per frame
	LinksMean float64 `csv:"links_mean"`
	LinksMax  int     `csv:"links_max"`

	// Frame work time in microseconds
	FrameMeanUS float64 `csv:"frame_mean_us"`
	FrameStdUS  float64 `csv:"frame_std_us"`
	FrameP50US  float64 `csv:"frame_p50_us"`
	FrameP90US  float64 `csv:"frame_p90_us"`
	FrameP99US  float64 `csv:"frame_p99_us"`

	// Lifecycle events during the window
	Remounts int `csv:"remounts"`
	Resizes  int `csv:"resizes"`
}

// Quantile returns the p-th empirical quantile of values (the smallest value
// whose cumulative share reaches p). p is clamped to [0, 1]. Returns 0 for
// an empty slice. values is not modified.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDurationStats calculates mean, std and percentiles of frame times.
func ComputeDurationStats(values []float64) (mean, std, p50, p90, p99 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n > 1 {
		mean, std = stat.MeanStdDev(sorted, nil)
	} else {
		mean = sorted[0]
	}
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	p99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	return mean, std, p50, p90, p99
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Int("frames", s.Frames),
		slog.Bool("dark", s.Dark),
		slog.Int("particles", s.Particles),
		slog.Float64("links_mean", s.LinksMean),
		slog.Int("links_max", s.LinksMax),
		slog.Float64("frame_p50_us", s.FrameP50US),
		slog.Float64("frame_p90_us", s.FrameP90US),
		slog.Int("remounts", s.Remounts),
		slog.Int("resizes", s.Resizes),
	)
}
