// Package reflow orchestrates typography and layout changes so the
// reader never loses their place. Every geometry-affecting mutation is
// wrapped in a capture, apply, restore sequence; restoration only runs
// after the hosting environment reports that layout has settled twice,
// because a single deferred step can still observe pre-reflow geometry.
package reflow

import (
	"time"

	"github.com/mpetrov/folio/internal/anchor"
	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/internal/paginate"
	"github.com/mpetrov/folio/internal/progress"
	"github.com/mpetrov/folio/pkg/models"
)

// DefaultResizeDelay is the quiet period before a resize burst triggers
// pagination recomputation.
const DefaultResizeDelay = 200 * time.Millisecond

// LayoutPort is the rendered-geometry surface the hosting environment
// provides. The coordinator never touches environment event APIs
// directly; the host wires real events into the On* entry points.
type LayoutPort interface {
	// Apply pushes the current settings into the rendered presentation,
	// triggering a reflow.
	Apply(s config.Settings)
	// BlockPositions enumerates block text and absolute top offsets in
	// document order. Empty when no content container exists.
	BlockPositions() []anchor.BlockPosition
	// ChapterTops returns chapter boundary offsets in document order
	ChapterTops() []float64
	// DocumentHeight is the total rendered content height
	DocumentHeight() float64
	// Viewport is the current container geometry
	Viewport() models.Viewport
	// ScrollOffset is the current scroll position
	ScrollOffset() float64
	// ScrollTo scrolls instantly, without animation
	ScrollTo(offset float64)
}

// Scheduler provides deferred continuations: next-paint callbacks and
// timer delays. The host maps these onto its own frame timing.
type Scheduler interface {
	OnLayoutSettled(fn func())
	After(d time.Duration, fn func()) (cancel func())
}

// ViewState is the explicit mutable state of one reader instance,
// owned by the coordinator and passed by handle to collaborators.
type ViewState struct {
	Engine   *paginate.Engine
	Tracker  *progress.Tracker
	Settings *config.Settings
	BookID   string
}

// Coordinator owns the reading view's state and sequences every
// reflow: apply style, recompute pagination, restore anchor, strictly
// in that order.
type Coordinator struct {
	state  ViewState
	layout LayoutPort
	sched  Scheduler

	// settings persistence hook, optional
	onSettingsChanged func(config.Settings)

	resizeDelay  time.Duration
	resizeCancel func()
	pending      *anchor.Anchor

	// generation counter: settle callbacks from a superseded reflow
	// cycle drop out instead of restoring a stale anchor
	gen int
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithResizeDelay overrides the resize debounce quiet period
func WithResizeDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.resizeDelay = d }
}

// OnSettingsChanged registers the settings persistence hook
func OnSettingsChanged(fn func(config.Settings)) Option {
	return func(c *Coordinator) { c.onSettingsChanged = fn }
}

// New creates a coordinator over the given state and environment ports
func New(state ViewState, layout LayoutPort, sched Scheduler, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:       state,
		layout:      layout,
		sched:       sched,
		resizeDelay: DefaultResizeDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a handle to the reader view state
func (c *Coordinator) State() *ViewState {
	return &c.state
}

// SetContent replaces the document. Anchors captured against the old
// content are invalid and are discarded, never restored.
func (c *Coordinator) SetContent(book *models.BookContent) {
	c.gen++
	c.pending = nil
	c.state.BookID = book.ID
	c.state.Engine.SetContent(book.Blocks)
	c.recalculate()
}

// OnSettingChange is the host's entry point for a settings mutation.
// The full sequence: capture anchor, validate and apply the value,
// persist, wait out two layout-settled steps, repaginate if paged,
// restore the anchor.
func (c *Coordinator) OnSettingChange(key, value string) error {
	a := anchor.Capture(c.layout.BlockPositions(), c.layout.ScrollOffset(), c.layout.Viewport().Height)

	if err := c.state.Settings.Apply(key, value); err != nil {
		return err
	}
	if key == "layoutMode" {
		c.state.Engine.SetLayout(paginate.Mode(value))
	}
	c.state.Engine.SetPageGap(c.state.Settings.PageGap)

	if c.onSettingsChanged != nil {
		c.onSettingsChanged(*c.state.Settings)
	}

	c.layout.Apply(*c.state.Settings)
	c.afterReflow(a)
	return nil
}

// OnResize is the host's entry point for viewport changes. Pagination
// recomputation is debounced: resize bursts are common and the
// recomputation is expensive, so only the last event after a quiet
// period fires.
func (c *Coordinator) OnResize(vp models.Viewport) {
	if c.pending == nil {
		c.pending = anchor.Capture(c.layout.BlockPositions(), c.layout.ScrollOffset(), vp.Height)
	}
	if c.resizeCancel != nil {
		c.resizeCancel()
	}
	c.resizeCancel = c.sched.After(c.resizeDelay, func() {
		c.resizeCancel = nil
		a := c.pending
		c.pending = nil
		c.layout.Apply(*c.state.Settings)
		c.afterReflow(a)
	})
}

// OnScroll is the host's entry point for scroll events, feeding the
// progress tracker (which throttles internally).
func (c *Coordinator) OnScroll(offset float64) {
	c.state.Tracker.OnScroll(offset, c.layout.Viewport().Height)
}

// Position builds the persistable progress record for the current
// scroll state. The record is stamped so local and remote copies can
// be ordered against each other.
func (c *Coordinator) Position() models.ReadingPosition {
	offset := c.layout.ScrollOffset()
	snap := c.state.Tracker.Snapshot(offset, c.layout.Viewport().Height)
	return models.ReadingPosition{
		BookID:       c.state.BookID,
		Chapter:      snap.ChapterIndex,
		ScrollOffset: offset,
		Progress:     snap.ScrollPercent,
		UpdatedAt:    time.Now(),
	}
}

// afterReflow schedules the post-style half of a reflow cycle: two
// settled steps, then pagination recomputation, then anchor
// restoration. A cycle superseded by a newer one drops out at its next
// settle step.
func (c *Coordinator) afterReflow(a *anchor.Anchor) {
	c.gen++
	gen := c.gen
	c.sched.OnLayoutSettled(func() {
		if gen != c.gen {
			return
		}
		c.sched.OnLayoutSettled(func() {
			if gen != c.gen {
				return
			}
			c.recalculate()
			c.restore(a)
		})
	})
}

func (c *Coordinator) recalculate() {
	c.state.Engine.Recalculate(c.layout.Viewport(), c.state.Settings.Typography())
	c.syncGeometry()
}

func (c *Coordinator) restore(a *anchor.Anchor) {
	if a == nil {
		return
	}
	offset, ok := anchor.Restore(a, c.layout.BlockPositions(), c.layout.Viewport().Height)
	if !ok {
		return
	}
	c.layout.ScrollTo(offset)
	c.state.Tracker.Flush(offset, c.layout.Viewport().Height)
}

// syncGeometry pushes the current chapter boundary offsets and
// document height into the tracker.
func (c *Coordinator) syncGeometry() {
	c.state.Tracker.SetGeometry(c.layout.ChapterTops(), c.layout.DocumentHeight())
}
