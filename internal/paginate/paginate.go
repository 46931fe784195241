// Package paginate converts a continuous block stream into discrete,
// navigable pages. Layout mode is an explicit three-state machine
// (scroll, paged, dual); entering a paged mode always repaginates from
// the canonical block list, never from a previous PageSet, because block
// heights are typography- and width-dependent.
package paginate

import (
	"math"

	"github.com/mpetrov/folio/pkg/models"
)

// Mode is the active layout mode
type Mode string

const (
	ModeScroll Mode = "scroll"
	ModePaged  Mode = "paged"
	ModeDual   Mode = "dual"
)

// Valid reports whether m names a known layout mode
func (m Mode) Valid() bool {
	return m == ModeScroll || m == ModePaged || m == ModeDual
}

// Paged reports whether m is one of the paginated modes
func (m Mode) Paged() bool {
	return m == ModePaged || m == ModeDual
}

// Measurer reports the rendered height of a single block at a given
// column width and typography. The hosting environment supplies the real
// text metrics; the pagination algorithm itself is environment-agnostic.
type Measurer interface {
	BlockHeight(b models.Block, columnWidth float64, typo models.Typography) float64
}

// GapMeasurer optionally reports the realized inter-block gap. A host
// whose renderer quantizes spacing implements it so page counts match
// the drawn document; otherwise the exact typographic gap is used.
type GapMeasurer interface {
	ParaGap(typo models.Typography) float64
}

// Page is one page's worth of blocks, as indices into the canonical
// block list.
type Page struct {
	Blocks []int
	Height float64
}

// Spread is a pair of simultaneously visible pages in dual mode.
// Right is -1 for an odd final page.
type Spread struct {
	Left  int
	Right int
}

// PageSet is the derived layout artifact for the active paged mode.
// It is ephemeral: any geometry, content, or typography change
// invalidates it and forces a full recomputation.
type PageSet struct {
	Mode        Mode
	TotalPages  int // pages in paged mode, spreads in dual mode
	Pages       []Page
	Spreads     []Spread
	PageHeight  float64
	ColumnWidth float64
}

// Engine owns the canonical content buffer and the active PageSet
type Engine struct {
	measurer Measurer
	mode     Mode
	blocks   []models.Block
	vp       models.Viewport
	typo     models.Typography
	gap      float64
	current  int
	pages    *PageSet
}

// New creates a pagination engine in continuous-scroll mode
func New(m Measurer) *Engine {
	return &Engine{
		measurer: m,
		mode:     ModeScroll,
	}
}

// SetContent replaces the canonical content. Any existing PageSet and
// page position refer to the old document and are discarded.
func (e *Engine) SetContent(blocks []models.Block) {
	e.blocks = blocks
	e.pages = nil
	e.current = 0
	if e.mode.Paged() {
		e.recompute()
	}
}

// Blocks returns the canonical content buffer. Callers must treat it as
// read-only; both pagination routines reconstruct from it every pass.
func (e *Engine) Blocks() []models.Block {
	return e.blocks
}

// Mode returns the active layout mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetPageGap sets the inter-column gap in layout units
func (e *Engine) SetPageGap(gap float64) {
	if gap < 0 {
		gap = 0
	}
	e.gap = gap
}

// SetLayout transitions the layout mode. Entering a paged mode from any
// state repaginates; entering scroll restores free scrolling over the
// original content.
func (e *Engine) SetLayout(mode Mode) {
	if !mode.Valid() || mode == e.mode {
		return
	}
	e.mode = mode
	if mode.Paged() {
		e.enterPagedMode()
	} else {
		e.exitPagedMode()
	}
}

func (e *Engine) enterPagedMode() {
	e.current = 0
	e.recompute()
}

func (e *Engine) exitPagedMode() {
	e.pages = nil
	e.current = 0
}

// Recalculate re-runs the active mode's pagination routine against new
// container geometry or typography. In scroll mode it only records the
// geometry for later transitions.
func (e *Engine) Recalculate(vp models.Viewport, typo models.Typography) {
	e.vp = vp
	e.typo = typo
	if e.mode.Paged() {
		e.recompute()
	}
}

func (e *Engine) recompute() {
	if e.blocks == nil || e.vp.Width <= 0 || e.vp.Height <= 0 {
		return
	}
	switch e.mode {
	case ModePaged:
		e.pages = e.paginateContent()
	case ModeDual:
		e.pages = e.paginateDualMode()
	}
	e.current = clamp(e.current, 0, e.TotalPages()-1)
}

// paginateContent computes the single-page column model: total measured
// content height divided by the page height, rounded up. Pages are
// contiguous visual columns over the flowed content; no block boundaries
// are computed.
func (e *Engine) paginateContent() *PageSet {
	width := e.vp.Width
	height := e.vp.Height
	total := e.contentHeight(width)

	pages := int(math.Ceil(total / height))
	if pages < 1 {
		pages = 1
	}

	return &PageSet{
		Mode:        ModePaged,
		TotalPages:  pages,
		PageHeight:  height,
		ColumnWidth: width,
	}
}

// paraGap is the inter-block gap the measurer's renderer realizes
func (e *Engine) paraGap() float64 {
	if gm, ok := e.measurer.(GapMeasurer); ok {
		return gm.ParaGap(e.typo)
	}
	return e.typo.ParaGap()
}

// contentHeight measures the full content flowed at the given width:
// block heights plus inter-block paragraph gaps.
func (e *Engine) contentHeight(width float64) float64 {
	var total float64
	gap := e.paraGap()
	for i, b := range e.blocks {
		if i > 0 {
			total += gap
		}
		total += e.measurer.BlockHeight(b, width, e.typo)
	}
	return total
}

// paginateDualMode chunks blocks into explicit pages, two columns per
// spread. Blocks accumulate into a page until the next one would
// overflow the column height; a block taller than the column is never
// split and occupies its page alone.
func (e *Engine) paginateDualMode() *PageSet {
	colWidth := (e.vp.Width - e.gap) / 2
	if colWidth < 1 {
		colWidth = e.vp.Width
	}
	colHeight := e.vp.Height
	gap := e.paraGap()

	var pages []Page
	cur := Page{}
	for i, b := range e.blocks {
		h := e.measurer.BlockHeight(b, colWidth, e.typo)
		next := cur.Height + h
		if len(cur.Blocks) > 0 {
			next += gap
		}
		if next > colHeight && len(cur.Blocks) > 0 {
			pages = append(pages, cur)
			cur = Page{}
			next = h
		}
		cur.Blocks = append(cur.Blocks, i)
		cur.Height = next
	}
	if len(cur.Blocks) > 0 {
		pages = append(pages, cur)
	}
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	spreads := make([]Spread, 0, (len(pages)+1)/2)
	for i := 0; i < len(pages); i += 2 {
		s := Spread{Left: i, Right: -1}
		if i+1 < len(pages) {
			s.Right = i + 1
		}
		spreads = append(spreads, s)
	}

	return &PageSet{
		Mode:        ModeDual,
		TotalPages:  len(spreads),
		Pages:       pages,
		Spreads:     spreads,
		PageHeight:  colHeight,
		ColumnWidth: colWidth,
	}
}

// TotalPages returns the page count (spread count in dual mode),
// always at least 1.
func (e *Engine) TotalPages() int {
	if e.pages == nil || e.pages.TotalPages < 1 {
		return 1
	}
	return e.pages.TotalPages
}

// CurrentPage returns the active page (spread) index
func (e *Engine) CurrentPage() int {
	return e.current
}

// GoToPage navigates to page n, clamped to the valid range
func (e *Engine) GoToPage(n int) {
	e.current = clamp(n, 0, e.TotalPages()-1)
}

// NextPage advances one page, clamped at the end
func (e *Engine) NextPage() { e.GoToPage(e.current + 1) }

// PrevPage goes back one page, clamped at the start
func (e *Engine) PrevPage() { e.GoToPage(e.current - 1) }

// PageOffset returns the horizontal translation that brings the current
// column into view in single-page mode.
func (e *Engine) PageOffset() float64 {
	if e.pages == nil {
		return 0
	}
	return float64(e.current) * (e.pages.ColumnWidth + e.gap)
}

// PageSet returns the active PageSet, or nil in scroll mode
func (e *Engine) PageSet() *PageSet {
	return e.pages
}

// SpreadAt returns the block indices of the left and right pages of
// spread i. An absent right page yields an empty slice.
func (e *Engine) SpreadAt(i int) (left, right []int) {
	if e.pages == nil || e.pages.Mode != ModeDual || i < 0 || i >= len(e.pages.Spreads) {
		return nil, nil
	}
	s := e.pages.Spreads[i]
	left = e.pages.Pages[s.Left].Blocks
	if s.Right >= 0 {
		right = e.pages.Pages[s.Right].Blocks
	}
	return left, right
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
