// Package telemetry provides frame timing, window stats, bookmarks and
// pool snapshots for the backdrop.
package telemetry

import "time"

// Collector accumulates per-frame samples and lifecycle events within a
// window of frames and produces WindowStats.
type Collector struct {
	windowFrames     int
	windowStartFrame uint64

	frameTimesUS []float64
	links        []float64
	linksMax     int
	remounts     int
	resizes      int
}

// NewCollector creates a collector whose windows span windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: windowFrames,
		frameTimesUS: make([]float64, 0, windowFrames),
		links:        make([]float64, 0, windowFrames),
	}
}

// RecordFrame records one frame's work time and link count.
func (c *Collector) RecordFrame(work time.Duration, links int) {
	c.frameTimesUS = append(c.frameTimesUS, float64(work)/float64(time.Microsecond))
	c.links = append(c.links, float64(links))
	if links > c.linksMax {
		c.linksMax = links
	}
}

// RecordRemount records a pool regeneration.
func (c *Collector) RecordRemount() {
	c.remounts++
}

// RecordResize records a surface resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame uint64) bool {
	return currentFrame-c.windowStartFrame >= uint64(c.windowFrames)
}

// FieldState describes the field at flush time.
type FieldState struct {
	Dark          bool
	Particles     int
	Width, Height float32
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame uint64, field FieldState) WindowStats {
	mean, std, p50, p90, p99 := ComputeDurationStats(c.frameTimesUS)

	var linksMean float64
	if len(c.links) > 0 {
		var sum float64
		for _, l := range c.links {
			sum += l
		}
		linksMean = sum / float64(len(c.links))
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		Frames:           len(c.frameTimesUS),
		Dark:             field.Dark,
		Particles:        field.Particles,
		Width:            field.Width,
		Height:           field.Height,
		LinksMean:        linksMean,
		LinksMax:         c.linksMax,
		FrameMeanUS:      mean,
		FrameStdUS:       std,
		FrameP50US:       p50,
		FrameP90US:       p90,
		FrameP99US:       p99,
		Remounts:         c.remounts,
		Resizes:          c.resizes,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.frameTimesUS = c.frameTimesUS[:0]
	c.links = c.links[:0]
	c.linksMax = 0
	c.remounts = 0
	c.resizes = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}
