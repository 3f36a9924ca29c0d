package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FrameSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndFrame: uint64(i * 600),
			FrameMeanUS:    800,
			FrameP99US:     1200,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndFrame: 3000,
		FrameMeanUS:    900,
		FrameP99US:     5000, // >3x the 800us mean
	})
	if !hasBookmark(bookmarks, BookmarkFrameSpike) {
		t.Error("expected frame_spike bookmark")
	}
	if bookmarks[0].Frame != 3000 {
		t.Errorf("bookmark frame = %d, want 3000", bookmarks[0].Frame)
	}
}

func TestBookmarkDetector_LinkSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndFrame: uint64(i * 600), LinksMean: 8})
	}

	bookmarks := bd.Check(WindowStats{WindowEndFrame: 3000, LinksMean: 30})
	if !hasBookmark(bookmarks, BookmarkLinkSurge) {
		t.Error("expected link_surge bookmark")
	}
}

func TestBookmarkDetector_LinkDrop(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndFrame: uint64(i * 600), LinksMean: 40})
	}

	// Window grew; particles spread out
	bookmarks := bd.Check(WindowStats{WindowEndFrame: 3000, LinksMean: 12})
	if !hasBookmark(bookmarks, BookmarkLinkDrop) {
		t.Fatal("expected link_drop bookmark")
	}

	// Peak was reset; the same level does not trigger again
	bookmarks = bd.Check(WindowStats{WindowEndFrame: 3600, LinksMean: 12})
	if hasBookmark(bookmarks, BookmarkLinkDrop) {
		t.Error("link_drop triggered twice for one drop")
	}
}

func TestBookmarkDetector_SteadyTriggersOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndFrame: uint64(i * 600),
			FrameMeanUS:    500,
			FrameStdUS:     20,
		})
		if hasBookmark(bookmarks, BookmarkSteady) {
			triggered++
			if i != 5 {
				t.Errorf("steady triggered at window %d, want 5", i)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("steady triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_SteadyResetByRemount(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 12; i++ {
		stats := WindowStats{
			WindowEndFrame: uint64(i * 600),
			FrameMeanUS:    500,
			FrameStdUS:     20,
		}
		if i%3 == 0 {
			stats.Remounts = 1
		}
		if hasBookmark(bd.Check(stats), BookmarkSteady) {
			t.Fatalf("steady triggered at window %d despite remounts", i)
		}
	}
}

func TestBookmarkDetector_HistoryOrder(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 1; i <= 7; i++ {
		bd.Check(WindowStats{WindowEndFrame: uint64(i)})
	}

	h := bd.getHistory()
	if len(h) != 5 {
		t.Fatalf("history len = %d, want 5", len(h))
	}
	for i, w := range h {
		if want := uint64(i + 3); w.WindowEndFrame != want {
			t.Errorf("history[%d] = %d, want %d", i, w.WindowEndFrame, want)
		}
	}
}
