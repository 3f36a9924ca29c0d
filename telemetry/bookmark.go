package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFrameSpike BookmarkType = "frame_spike"
	BookmarkLinkSurge  BookmarkType = "link_surge"
	BookmarkLinkDrop   BookmarkType = "link_drop"
	BookmarkSteady     BookmarkType = "steady"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Frame       uint64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// BookmarkDetector flags windows that stand out from recent history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentLinksPeak    float64 // peak mean link count since the last drop
	steadyWindowsCount int     // consecutive windows with even frame times
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Frame spike: p99 well above the rolling mean frame time
		if b := bd.checkFrameSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Link surge: mean links > 2x rolling average
		if b := bd.checkLinkSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Link drop: fell >50% from recent peak
		if b := bd.checkLinkDrop(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady: even frame times over 5 windows without remounts or resizes
		if b := bd.checkSteady(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.LinksMean > bd.recentLinksPeak {
		bd.recentLinksPeak = stats.LinksMean
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFrameSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.FrameMeanUS
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.FrameP99US > avg*3 && stats.FrameP99US > 1000 {
		return &Bookmark{
			Type:        BookmarkFrameSpike,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("p99 frame %.0fus is %.1fx the rolling mean (%.0fus)", stats.FrameP99US, stats.FrameP99US/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkLinkSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.LinksMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.LinksMean > avg*2 && stats.LinksMean >= 10 {
		return &Bookmark{
			Type:        BookmarkLinkSurge,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Mean links %.1f is %.1fx average (%.1f)", stats.LinksMean, stats.LinksMean/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkLinkDrop(stats WindowStats) *Bookmark {
	if bd.recentLinksPeak == 0 {
		return nil
	}

	drop := 1 - stats.LinksMean/bd.recentLinksPeak
	if drop > 0.5 && stats.LinksMean < bd.recentLinksPeak-5 {
		// Reset peak after the drop
		oldPeak := bd.recentLinksPeak
		bd.recentLinksPeak = stats.LinksMean

		return &Bookmark{
			Type:        BookmarkLinkDrop,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Mean links dropped %.0f%% from peak %.1f to %.1f", drop*100, oldPeak, stats.LinksMean),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteady(stats WindowStats) *Bookmark {
	if stats.Remounts > 0 || stats.Resizes > 0 || stats.FrameMeanUS == 0 {
		bd.steadyWindowsCount = 0
		return nil
	}

	// Coefficient of variation of frame time within the window
	cv2 := (stats.FrameStdUS * stats.FrameStdUS) / (stats.FrameMeanUS * stats.FrameMeanUS)
	if cv2 < 0.04 { // CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteady,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Even frame times (mean %.0fus) over 5 windows", stats.FrameMeanUS),
		}
	}

	return nil
}
