package progress

import (
	"testing"
	"time"

	"github.com/mpetrov/folio/pkg/models"
)

func TestSnapshotThreeChapterScenario(t *testing.T) {
	// 3 chapters of [100, 200, 50] words, 350 total. Chapter spans:
	// ch0 at 0, ch1 at 1000, ch2 at 3000, document end 3500.
	tr := NewTracker(350, []int{100, 200, 50})
	tr.SetGeometry([]float64{0, 1000, 3000}, 3500)

	// Exactly the midpoint of chapter 2's span
	snap := tr.Snapshot(2000, 600)

	if snap.ChapterIndex != 1 {
		t.Errorf("ChapterIndex = %d, want 1", snap.ChapterIndex)
	}
	if snap.WordsReadInChapter != 100 {
		t.Errorf("WordsReadInChapter = %d, want 100", snap.WordsReadInChapter)
	}
	if snap.WordsReadTotal != 200 {
		t.Errorf("WordsReadTotal = %d, want 200", snap.WordsReadTotal)
	}
	if snap.ChapterWordTotal != 200 {
		t.Errorf("ChapterWordTotal = %d, want 200", snap.ChapterWordTotal)
	}
}

func TestScrollPercent(t *testing.T) {
	tr := NewTracker(100, []int{100})
	tr.SetGeometry([]float64{0}, 2600)

	tests := []struct {
		name   string
		offset float64
		vh     float64
		want   float64
	}{
		{"top", 0, 600, 0},
		{"halfway", 1000, 600, 0.5},
		{"bottom", 2000, 600, 1.0},
		{"past bottom clamps", 5000, 600, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Snapshot(tt.offset, tt.vh).ScrollPercent; got != tt.want {
				t.Errorf("ScrollPercent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScrollPercentShortDocument(t *testing.T) {
	// Content shorter than the viewport: percent stays 0, no division
	// by zero or negative scrollable range.
	tr := NewTracker(50, []int{50})
	tr.SetGeometry([]float64{0}, 300)

	if got := tr.Snapshot(0, 600).ScrollPercent; got != 0 {
		t.Errorf("ScrollPercent = %v, want 0", got)
	}
}

func TestChapterEnterTolerance(t *testing.T) {
	tr := NewTracker(300, []int{100, 100, 100})
	tr.SetGeometry([]float64{0, 1000, 2000}, 3000)

	// 50 units before the chapter 2 boundary: inside the 100-unit
	// tolerance, so the chapter counts as entered.
	if got := tr.Snapshot(950, 600).ChapterIndex; got != 1 {
		t.Errorf("ChapterIndex at 950 = %d, want 1", got)
	}
	// 150 before: still in chapter 0
	if got := tr.Snapshot(850, 600).ChapterIndex; got != 0 {
		t.Errorf("ChapterIndex at 850 = %d, want 0", got)
	}
}

func TestWordsInChapterBounds(t *testing.T) {
	tr := NewTracker(300, []int{100, 150, 50})
	tr.SetGeometry([]float64{0, 500, 900}, 1000)

	// Sweep offsets, including document edges and past-end values
	for offset := -100.0; offset <= 1400; offset += 37 {
		snap := tr.Snapshot(offset, 200)
		if snap.WordsReadInChapter < 0 || snap.WordsReadInChapter > snap.ChapterWordTotal {
			t.Fatalf("offset %v: WordsReadInChapter %d outside [0,%d]",
				offset, snap.WordsReadInChapter, snap.ChapterWordTotal)
		}
		if snap.WordsReadTotal < 0 || snap.WordsReadTotal > 300 {
			t.Fatalf("offset %v: WordsReadTotal %d outside [0,300]", offset, snap.WordsReadTotal)
		}
	}
}

func TestLastChapterInterpolatesToDocumentEnd(t *testing.T) {
	tr := NewTracker(200, []int{100, 100})
	tr.SetGeometry([]float64{0, 1000}, 2000)

	snap := tr.Snapshot(1500, 400)
	if snap.ChapterIndex != 1 {
		t.Fatalf("ChapterIndex = %d, want 1", snap.ChapterIndex)
	}
	if snap.WordsReadInChapter != 50 {
		t.Errorf("WordsReadInChapter = %d, want 50", snap.WordsReadInChapter)
	}
}

func TestThrottleLeadingEdge(t *testing.T) {
	var updates int
	clock := time.Unix(0, 0)
	tr := NewTracker(100, []int{100},
		WithClock(func() time.Time { return clock }),
		OnUpdate(func(models.ProgressSnapshot) { updates++ }),
	)
	tr.SetGeometry([]float64{0}, 2000)

	// First event of a burst fires immediately
	tr.OnScroll(10, 600)
	if updates != 1 {
		t.Fatalf("updates after first event = %d, want 1", updates)
	}

	// Events inside the window are dropped
	for i := 0; i < 5; i++ {
		clock = clock.Add(10 * time.Millisecond)
		tr.OnScroll(float64(20 + i), 600)
	}
	if updates != 1 {
		t.Errorf("updates inside throttle window = %d, want 1", updates)
	}

	// After the window, the next event fires
	clock = clock.Add(DefaultThrottle)
	tr.OnScroll(200, 600)
	if updates != 2 {
		t.Errorf("updates after window = %d, want 2", updates)
	}
}

func TestChapterChangeCallback(t *testing.T) {
	var changes []int
	tr := NewTracker(200, []int{100, 100},
		WithThrottle(0),
		OnChapterChange(func(ch int) { changes = append(changes, ch) }),
	)
	tr.SetGeometry([]float64{0, 1000}, 2000)

	tr.OnScroll(0, 400)
	tr.OnScroll(100, 400)  // still chapter 0, no change
	tr.OnScroll(1200, 400) // chapter 1
	tr.OnScroll(1300, 400) // still chapter 1

	if len(changes) != 2 || changes[0] != 0 || changes[1] != 1 {
		t.Errorf("chapter changes = %v, want [0 1]", changes)
	}
	if tr.CurrentChapter() != 1 {
		t.Errorf("CurrentChapter = %d, want 1", tr.CurrentChapter())
	}
}

func TestFlushBypassesThrottle(t *testing.T) {
	var updates int
	clock := time.Unix(0, 0)
	tr := NewTracker(100, []int{100},
		WithClock(func() time.Time { return clock }),
		OnUpdate(func(models.ProgressSnapshot) { updates++ }),
	)
	tr.SetGeometry([]float64{0}, 2000)

	tr.OnScroll(10, 600)
	tr.Flush(20, 600)
	if updates != 2 {
		t.Errorf("updates = %d, want 2 (Flush ignores the window)", updates)
	}
}
