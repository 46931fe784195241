package views

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mpetrov/folio/internal/anchor"
	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/pkg/models"
)

// Cell metrics. Geometry handed to the layout core is expressed in
// reference pixels; one terminal row is rowPx tall and one column is
// colPx wide at the base font size.
const (
	rowPx      = 16.0
	colPx      = 8.0
	baseFontPx = 16.0

	// rows reserved for the reader header and footer
	chromeRows = 4
)

// renderedLine is one visual row of the laid-out document
type renderedLine struct {
	text  string
	block int // source block index, -1 for spacing rows
}

// textLayout realizes typography on a terminal cell grid. Font size
// maps to wrap width: larger text fits fewer characters per line and
// therefore produces more lines. Line height maps to row spacing.
type textLayout struct {
	settings config.Settings
	blocks   []models.Block
	chapters []models.Chapter

	width  int // terminal cells
	height int

	lines       []renderedLine
	blockTops   []float64 // reference px
	chapterTops []float64
	scrollRow   float64
}

func newTextLayout(settings config.Settings) *textLayout {
	return &textLayout{
		settings: settings,
		width:    80,
		height:   24,
	}
}

// SetContent replaces the document and rebuilds the line buffer
func (l *textLayout) SetContent(blocks []models.Block, chapters []models.Chapter) {
	l.blocks = blocks
	l.chapters = chapters
	l.scrollRow = 0
	l.rebuild()
}

// SetTerminalSize updates the cell grid and rebuilds
func (l *textLayout) SetTerminalSize(w, h int) {
	l.width = w
	l.height = h
	l.rebuild()
}

// contentCols is the column budget for body text: the configured text
// width capped by the terminal.
func (l *textLayout) contentCols() int {
	cols := int(l.settings.TextWidth / colPx)
	if max := l.width - 4; cols > max {
		cols = max
	}
	if cols < 20 {
		cols = 20
	}
	return cols
}

// wrapCols converts a column budget to a wrap width at the given font
// size. The budget is calibrated to the base size, so larger fonts
// wrap earlier.
func wrapCols(cols int, fontSize float64) int {
	w := int(float64(cols) * baseFontPx / fontSize)
	if w < 10 {
		w = 10
	}
	return w
}

// rowsPerLine maps the line-height multiplier to whole terminal rows
func rowsPerLine(lineHeight float64) int {
	r := int(math.Round(lineHeight))
	if r < 1 {
		r = 1
	}
	return r
}

// gapRows is the spacing between blocks in rows
func gapRows(typo models.Typography) int {
	return int(math.Round(typo.ParaGap() / rowPx))
}

// wrapText greedily word-wraps text to the given display width
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range words {
		ww := runewidth.StringWidth(word)
		if curWidth == 0 {
			cur.WriteString(word)
			curWidth = ww
		} else if curWidth+1+ww <= width {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + ww
		} else {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
			curWidth = ww
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// blockLines wraps a single block at the given column budget
func (l *textLayout) blockLines(b models.Block, cols int) []string {
	return wrapText(b.Text, wrapCols(cols, l.settings.FontSize))
}

// rebuild lays the whole document out into the line buffer and records
// block and chapter tops.
func (l *textLayout) rebuild() {
	typo := l.settings.Typography()
	cols := l.contentCols()
	spacing := rowsPerLine(typo.LineHeight)
	gap := gapRows(typo)

	l.lines = l.lines[:0]
	l.blockTops = make([]float64, len(l.blocks))

	for i, b := range l.blocks {
		if i > 0 {
			for g := 0; g < gap; g++ {
				l.lines = append(l.lines, renderedLine{block: -1})
			}
		}
		l.blockTops[i] = float64(len(l.lines)) * rowPx
		for _, line := range l.blockLines(b, cols) {
			l.lines = append(l.lines, renderedLine{text: line, block: i})
			for s := 1; s < spacing; s++ {
				l.lines = append(l.lines, renderedLine{block: -1})
			}
		}
	}

	l.chapterTops = l.chapterTops[:0]
	for _, ch := range l.chapters {
		if ch.BlockStart >= 0 && ch.BlockStart < len(l.blockTops) {
			l.chapterTops = append(l.chapterTops, l.blockTops[ch.BlockStart])
		}
	}
	if len(l.chapterTops) == 0 {
		l.chapterTops = append(l.chapterTops, 0)
	}

	l.clampScroll()
}

// visibleRows is the number of rows available to body text
func (l *textLayout) visibleRows() int {
	rows := l.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *textLayout) maxScrollRow() float64 {
	m := float64(len(l.lines) - l.visibleRows())
	if m < 0 {
		m = 0
	}
	return m
}

func (l *textLayout) clampScroll() {
	if l.scrollRow < 0 {
		l.scrollRow = 0
	}
	if m := l.maxScrollRow(); l.scrollRow > m {
		l.scrollRow = m
	}
}

// scrollBy moves the window by delta rows, clamped to the document
func (l *textLayout) scrollBy(delta int) {
	l.scrollRow += float64(delta)
	l.clampScroll()
}

// window returns the currently visible slice of the line buffer
func (l *textLayout) window() []renderedLine {
	from := int(l.scrollRow)
	to := from + l.visibleRows()
	if from > len(l.lines) {
		from = len(l.lines)
	}
	if to > len(l.lines) {
		to = len(l.lines)
	}
	return l.lines[from:to]
}

// LayoutPort implementation

func (l *textLayout) Apply(s config.Settings) {
	l.settings = s
	l.rebuild()
}

func (l *textLayout) BlockPositions() []anchor.BlockPosition {
	out := make([]anchor.BlockPosition, len(l.blocks))
	for i, b := range l.blocks {
		out[i] = anchor.BlockPosition{Text: b.Text, Top: l.blockTops[i]}
	}
	return out
}

func (l *textLayout) ChapterTops() []float64 {
	return l.chapterTops
}

func (l *textLayout) DocumentHeight() float64 {
	return float64(len(l.lines)) * rowPx
}

func (l *textLayout) Viewport() models.Viewport {
	return models.Viewport{
		Width:  float64(l.contentCols()) * colPx,
		Height: float64(l.visibleRows()) * rowPx,
	}
}

func (l *textLayout) ScrollOffset() float64 {
	return l.scrollRow * rowPx
}

func (l *textLayout) ScrollTo(offset float64) {
	l.scrollRow = offset / rowPx
	l.clampScroll()
}

// cellMeasurer implements block measurement for the pagination engine
// using the same wrap model the layout renders with.
type cellMeasurer struct{}

func (cellMeasurer) BlockHeight(b models.Block, columnWidth float64, typo models.Typography) float64 {
	cols := int(columnWidth / colPx)
	if cols < 10 {
		cols = 10
	}
	lines := len(wrapText(b.Text, wrapCols(cols, typo.FontSize)))
	return float64(lines*rowsPerLine(typo.LineHeight)) * rowPx
}

// ParaGap reports the gap the renderer actually draws: whole rows, not
// the exact typographic value.
func (cellMeasurer) ParaGap(typo models.Typography) float64 {
	return float64(gapRows(typo)) * rowPx
}
