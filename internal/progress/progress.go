// Package progress derives scroll- and word-based reading progress from
// the document's rendered geometry. It is independent of pagination and
// drives the footer stats and progress persistence in continuous-scroll
// mode.
package progress

import (
	"math"
	"time"

	"github.com/mpetrov/folio/pkg/models"
)

// chapterEnterTolerance marks a chapter as entered slightly before its
// boundary reaches the top of the viewport.
const chapterEnterTolerance = 100.0

// DefaultThrottle is the minimum interval between scroll-driven updates
const DefaultThrottle = 100 * time.Millisecond

// Tracker computes ProgressSnapshots from throttled scroll events.
// Chapter word counts and boundary geometry are supplied externally;
// the tracker owns no rendering beyond producing the snapshot.
type Tracker struct {
	totalWords   int
	chapterWords []int

	boundaries []float64 // absolute top offsets of chapter boundary blocks
	docHeight  float64

	throttle time.Duration
	lastTick time.Time
	now      func() time.Time

	lastChapter int

	onUpdate        func(models.ProgressSnapshot)
	onChapterChange func(int)
}

// Option configures a Tracker
type Option func(*Tracker)

// WithThrottle overrides the minimum update interval
func WithThrottle(d time.Duration) Option {
	return func(t *Tracker) { t.throttle = d }
}

// WithClock injects a time source for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// OnUpdate registers the display-update callback
func OnUpdate(fn func(models.ProgressSnapshot)) Option {
	return func(t *Tracker) { t.onUpdate = fn }
}

// OnChapterChange registers the table-of-contents highlight callback
func OnChapterChange(fn func(int)) Option {
	return func(t *Tracker) { t.onChapterChange = fn }
}

// NewTracker creates a tracker for a book with the given total word
// count and ordered per-chapter word counts.
func NewTracker(totalWords int, chapterWords []int, opts ...Option) *Tracker {
	t := &Tracker{
		totalWords:   totalWords,
		chapterWords: chapterWords,
		throttle:     DefaultThrottle,
		now:          time.Now,
		lastChapter:  -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetGeometry updates the chapter boundary offsets and total document
// height after a reflow. Boundaries are in document order.
func (t *Tracker) SetGeometry(boundaries []float64, docHeight float64) {
	t.boundaries = boundaries
	t.docHeight = docHeight
}

// OnScroll handles one scroll event. Updates are throttled, not
// debounced: the first event in a burst fires immediately and later
// events inside the window are dropped, so feedback latency stays
// bounded.
func (t *Tracker) OnScroll(offset, viewportHeight float64) {
	now := t.now()
	if !t.lastTick.IsZero() && now.Sub(t.lastTick) < t.throttle {
		return
	}
	t.lastTick = now
	t.tick(offset, viewportHeight)
}

// Flush computes and publishes a snapshot immediately, bypassing the
// throttle. Used on page-leave and after reflows.
func (t *Tracker) Flush(offset, viewportHeight float64) models.ProgressSnapshot {
	t.lastTick = t.now()
	return t.tick(offset, viewportHeight)
}

func (t *Tracker) tick(offset, viewportHeight float64) models.ProgressSnapshot {
	snap := t.Snapshot(offset, viewportHeight)

	if snap.ChapterIndex != t.lastChapter {
		t.lastChapter = snap.ChapterIndex
		if t.onChapterChange != nil {
			t.onChapterChange(snap.ChapterIndex)
		}
	}
	if t.onUpdate != nil {
		t.onUpdate(snap)
	}
	return snap
}

// Snapshot computes the progress values for a scroll position without
// publishing them.
func (t *Tracker) Snapshot(offset, viewportHeight float64) models.ProgressSnapshot {
	snap := models.ProgressSnapshot{}

	scrollable := t.docHeight - viewportHeight
	if scrollable > 0 {
		snap.ScrollPercent = clamp01(offset / scrollable)
	}

	ch := t.chapterAt(offset)
	snap.ChapterIndex = ch

	if ch >= 0 && ch < len(t.chapterWords) {
		snap.ChapterWordTotal = t.chapterWords[ch]
		csp := t.chapterScrollPercent(ch, offset)
		snap.WordsReadInChapter = int(math.Round(float64(snap.ChapterWordTotal) * csp))

		for i := 0; i < ch; i++ {
			snap.WordsReadTotal += t.chapterWords[i]
		}
		snap.WordsReadTotal += snap.WordsReadInChapter
	}
	return snap
}

// chapterAt returns the highest-indexed chapter whose boundary is at or
// above the scroll offset, with the enter tolerance applied.
func (t *Tracker) chapterAt(offset float64) int {
	ch := 0
	for i, top := range t.boundaries {
		if top <= offset+chapterEnterTolerance {
			ch = i
		}
	}
	return ch
}

// chapterScrollPercent interpolates the scroll position between the
// chapter's boundary and the next boundary (or document end), clamped
// to [0,1].
func (t *Tracker) chapterScrollPercent(ch int, offset float64) float64 {
	if ch < 0 || ch >= len(t.boundaries) {
		return 0
	}
	start := t.boundaries[ch]
	end := t.docHeight
	if ch+1 < len(t.boundaries) {
		end = t.boundaries[ch+1]
	}
	if end <= start {
		return 0
	}
	return clamp01((offset - start) / (end - start))
}

// CurrentChapter returns the last published chapter index, or 0 before
// any update.
func (t *Tracker) CurrentChapter() int {
	if t.lastChapter < 0 {
		return 0
	}
	return t.lastChapter
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
