package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpetrov/folio/internal/api"
	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/internal/content"
	"github.com/mpetrov/folio/internal/paginate"
	"github.com/mpetrov/folio/internal/progress"
	"github.com/mpetrov/folio/internal/reflow"
	"github.com/mpetrov/folio/internal/store"
	"github.com/mpetrov/folio/internal/ui/styles"
	"github.com/mpetrov/folio/pkg/models"
)

// ReaderView displays book content
type ReaderView struct {
	client *api.Client
	cfg    *config.Config
	st     *store.Store

	// Current book
	path string
	book *models.BookContent

	// Layout core
	layout *textLayout
	sched  *teaScheduler
	coord  *reflow.Coordinator

	// State
	loading   bool
	err       error
	statusMsg string

	// TOC overlay
	showTOC   bool
	tocCursor int

	// Settings overlay
	showSettings   bool
	settingsCursor int

	// autosave chain generation; ticks from an orphaned chain are ignored
	autoSaveGen int

	// Dimensions
	width  int
	height int
}

// NewReaderView creates a new reader view
func NewReaderView(client *api.Client, cfg *config.Config, st *store.Store) *ReaderView {
	return &ReaderView{
		client: client,
		cfg:    cfg,
		st:     st,
		width:  80,
		height: 24,
	}
}

// SetBook selects the file to read. Content loads on Init.
func (v *ReaderView) SetBook(path string) {
	v.path = path
	v.book = nil
	v.coord = nil
	v.err = nil
	v.showTOC = false
	v.showSettings = false
}

// CapturingInput implements View. The TOC and settings overlays close
// on keys that are otherwise global bindings.
func (v *ReaderView) CapturingInput() bool {
	return v.showTOC || v.showSettings
}

// SavePositionOnExit saves the current position (called when leaving reader)
func (v *ReaderView) SavePositionOnExit() {
	v.savePosition()
}

// Message types
type bookLoadedMsg struct {
	book *models.BookContent
	pos  *models.ReadingPosition
	err  error
}

type autoSaveMsg struct {
	gen int
}

type clearStatusMsg struct{}

// Init implements View. Each call starts a fresh autosave chain and
// orphans any chain from an earlier entry into the reader.
func (v *ReaderView) Init() tea.Cmd {
	if v.path == "" {
		return nil
	}
	v.autoSaveGen++
	if v.book != nil {
		// Reopening the same book keeps its state
		return v.autoSaveTick()
	}
	v.loading = true
	return tea.Batch(v.loadBook(), v.autoSaveTick())
}

// loadBook parses the file and resolves the saved position, preferring
// whichever of the local and remote records is newer.
func (v *ReaderView) loadBook() tea.Cmd {
	path := v.path
	return func() tea.Msg {
		book, err := content.LoadFile(path)
		if err != nil {
			return bookLoadedMsg{err: err}
		}
		id, err := store.ComputeBookID(path)
		if err != nil {
			return bookLoadedMsg{err: err}
		}
		book.ID = id

		var pos *models.ReadingPosition
		if local, ok := v.st.Get(id); ok {
			pos = &local
		}
		if remote, err := v.client.GetPosition(id); err == nil && remote != nil {
			if pos == nil || remote.UpdatedAt.After(pos.UpdatedAt) {
				pos = remote
			}
		}
		return bookLoadedMsg{book: book, pos: pos}
	}
}

// Update implements View
func (v *ReaderView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if v.coord != nil {
			// The anchor must record where the reader was before the
			// grid changes, so capture precedes the resize.
			v.coord.OnResize(v.layout.Viewport())
			v.SetSize(msg.Width, msg.Height)
			return v, v.sched.flush()
		}
		v.SetSize(msg.Width, msg.Height)
		return v, nil
	case layoutSettledMsg:
		v.sched.runSettled()
		return v, v.sched.flush()
	case reflowTimerMsg:
		v.sched.runTimer(msg.id)
		return v, v.sched.flush()
	case bookLoadedMsg:
		return v.handleBookLoaded(msg)
	case autoSaveMsg:
		if msg.gen != v.autoSaveGen {
			return v, nil
		}
		v.savePosition()
		return v, v.autoSaveTick()
	case clearStatusMsg:
		v.statusMsg = ""
		return v, nil
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

// handleBookLoaded wires the layout core around the parsed content and
// restores the saved position.
func (v *ReaderView) handleBookLoaded(msg bookLoadedMsg) (View, tea.Cmd) {
	v.loading = false
	if msg.err != nil {
		v.err = msg.err
		return v, nil
	}
	v.book = msg.book

	settings := v.cfg.Settings
	v.layout = newTextLayout(settings)
	v.layout.SetTerminalSize(v.width, v.height)
	v.layout.SetContent(v.book.Blocks, v.book.Chapters)
	v.sched = newTeaScheduler()

	engine := paginate.New(cellMeasurer{})
	engine.SetLayout(paginate.Mode(settings.LayoutMode))
	engine.SetPageGap(settings.PageGap)
	tracker := progress.NewTracker(v.book.TotalWords, v.book.ChapterWordCounts())

	v.coord = reflow.New(
		reflow.ViewState{
			Engine:   engine,
			Tracker:  tracker,
			Settings: &v.cfg.Settings,
		},
		v.layout,
		v.sched,
		reflow.OnSettingsChanged(func(config.Settings) {
			if err := v.cfg.Save(); err != nil {
				v.statusMsg = "Could not save settings"
			}
		}),
	)
	v.coord.SetContent(v.book)

	if msg.pos != nil {
		v.restorePosition(*msg.pos)
	}

	_ = v.cfg.AddRecentlyRead(v.book.ID, v.book.Title, v.path)
	return v, v.sched.flush()
}

// restorePosition scrolls to a saved record: exact offset when it still
// lands inside the document, chapter start otherwise.
func (v *ReaderView) restorePosition(pos models.ReadingPosition) {
	offset := pos.ScrollOffset
	if offset > v.layout.DocumentHeight() {
		tops := v.layout.ChapterTops()
		if pos.Chapter >= 0 && pos.Chapter < len(tops) {
			offset = tops[pos.Chapter]
		} else {
			offset = 0
		}
	}
	v.layout.ScrollTo(offset)
	v.syncPagedToScroll()
	v.coord.OnScroll(v.layout.ScrollOffset())
}

// handleKeyMsg dispatches key messages to mode-specific handlers
func (v *ReaderView) handleKeyMsg(msg tea.KeyMsg) (View, tea.Cmd) {
	v.statusMsg = ""
	if v.showTOC {
		return v.updateTOC(msg)
	}
	if v.showSettings {
		return v.updateSettings(msg)
	}
	return v.handleReaderKeyMsg(msg)
}

func (v *ReaderView) handleReaderKeyMsg(msg tea.KeyMsg) (View, tea.Cmd) {
	if v.coord == nil {
		return v, nil
	}
	paged := v.mode().Paged()

	switch msg.String() {
	case "j", "down":
		if paged {
			v.pageBy(1)
		} else {
			v.scrollBy(1)
		}
	case "k", "up":
		if paged {
			v.pageBy(-1)
		} else {
			v.scrollBy(-1)
		}
	case " ", "pgdown", "ctrl+d":
		if paged {
			v.pageBy(1)
		} else {
			v.scrollBy(v.layout.visibleRows() - 2)
		}
	case "pgup", "ctrl+u":
		if paged {
			v.pageBy(-1)
		} else {
			v.scrollBy(-(v.layout.visibleRows() - 2))
		}
	case "g", "home":
		if paged {
			v.engine().GoToPage(0)
			v.syncScrollToPage()
		} else {
			v.layout.ScrollTo(0)
		}
		v.coord.OnScroll(v.layout.ScrollOffset())
	case "G", "end":
		if paged {
			v.engine().GoToPage(v.engine().TotalPages() - 1)
			v.syncScrollToPage()
		} else {
			v.layout.ScrollTo(v.layout.DocumentHeight())
		}
		v.coord.OnScroll(v.layout.ScrollOffset())
	case "n", "l", "right":
		v.goToChapter(v.currentChapter() + 1)
	case "p", "h", "left":
		v.goToChapter(v.currentChapter() - 1)
	case "t":
		v.showTOC = true
		v.tocCursor = v.currentChapter()
	case "s":
		v.showSettings = true
	case "m":
		return v.cycleLayoutMode()
	case "T":
		return v.applySetting("theme", styles.NextTheme())
	case "+", "=":
		return v.applySetting("fontSize", formatFloat(v.cfg.Settings.FontSize+1))
	case "-", "_":
		return v.applySetting("fontSize", formatFloat(v.cfg.Settings.FontSize-1))
	case "S":
		v.savePosition()
		v.statusMsg = "Position saved"
		return v, v.clearStatusAfter(2 * time.Second)
	}
	return v, nil
}

// cycleLayoutMode advances scroll -> paged -> dual -> scroll
func (v *ReaderView) cycleLayoutMode() (View, tea.Cmd) {
	next := map[string]string{
		"scroll": "paged",
		"paged":  "dual",
		"dual":   "scroll",
	}[v.cfg.Settings.LayoutMode]
	return v.applySetting("layoutMode", next)
}

// applySetting routes a settings mutation through the coordinator so
// the anchor survives the reflow.
func (v *ReaderView) applySetting(key, value string) (View, tea.Cmd) {
	if v.coord == nil {
		return v, nil
	}
	if err := v.coord.OnSettingChange(key, value); err != nil {
		v.statusMsg = err.Error()
		return v, v.clearStatusAfter(3 * time.Second)
	}
	if key == "theme" {
		styles.ApplyNamed(v.cfg.Settings.Theme, v.cfg.Settings.CustomColors)
	}
	return v, v.sched.flush()
}

func (v *ReaderView) engine() *paginate.Engine {
	return v.coord.State().Engine
}

func (v *ReaderView) mode() paginate.Mode {
	if v.coord == nil {
		return paginate.ModeScroll
	}
	return v.engine().Mode()
}

// scrollBy moves the scroll window and feeds the tracker
func (v *ReaderView) scrollBy(rows int) {
	v.layout.scrollBy(rows)
	v.coord.OnScroll(v.layout.ScrollOffset())
}

// pageBy turns pages and keeps the scroll offset aligned with the
// current page so anchors and progress stay truthful.
func (v *ReaderView) pageBy(delta int) {
	e := v.engine()
	e.GoToPage(e.CurrentPage() + delta)
	v.syncScrollToPage()
	v.coord.OnScroll(v.layout.ScrollOffset())
}

// syncScrollToPage derives the scroll offset from the current page
func (v *ReaderView) syncScrollToPage() {
	e := v.engine()
	switch v.mode() {
	case paginate.ModePaged:
		v.layout.ScrollTo(float64(e.CurrentPage()) * v.layout.Viewport().Height)
	case paginate.ModeDual:
		left, _ := e.SpreadAt(e.CurrentPage())
		if len(left) > 0 && left[0] < len(v.layout.blockTops) {
			v.layout.ScrollTo(v.layout.blockTops[left[0]])
		}
	}
}

// syncPagedToScroll derives the current page from the scroll offset
func (v *ReaderView) syncPagedToScroll() {
	e := v.engine()
	switch v.mode() {
	case paginate.ModePaged:
		if h := v.layout.Viewport().Height; h > 0 {
			e.GoToPage(int(v.layout.ScrollOffset() / h))
		}
	case paginate.ModeDual:
		top := v.layout.ScrollOffset()
		page := 0
		for i := 0; i < e.TotalPages(); i++ {
			left, _ := e.SpreadAt(i)
			if len(left) > 0 && v.layout.blockTops[left[0]] <= top {
				page = i
			}
		}
		e.GoToPage(page)
	}
}

// currentChapter is the chapter at the top of the view
func (v *ReaderView) currentChapter() int {
	if v.coord == nil {
		return 0
	}
	snap := v.coord.State().Tracker.Snapshot(v.layout.ScrollOffset(), v.layout.Viewport().Height)
	return snap.ChapterIndex
}

// goToChapter jumps to a chapter start
func (v *ReaderView) goToChapter(i int) {
	if v.book == nil || i < 0 || i >= len(v.book.Chapters) {
		return
	}
	tops := v.layout.ChapterTops()
	if i >= len(tops) {
		return
	}
	v.savePosition()
	v.layout.ScrollTo(tops[i])
	v.syncPagedToScroll()
	v.syncScrollToPage()
	v.coord.OnScroll(v.layout.ScrollOffset())
}

// savePosition persists the position locally and syncs it upstream
// without blocking the caller on the network.
func (v *ReaderView) savePosition() {
	if v.coord == nil || v.book == nil {
		return
	}
	pos := v.coord.Position()
	if err := v.st.Set(pos); err != nil {
		return
	}
	v.client.SyncPosition(pos)
}

func (v *ReaderView) autoSaveTick() tea.Cmd {
	gen := v.autoSaveGen
	interval := time.Duration(v.cfg.Settings.AutoSaveInterval) * time.Second
	return tea.Tick(interval, func(time.Time) tea.Msg { return autoSaveMsg{gen: gen} })
}

func (v *ReaderView) clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// updateTOC handles TOC navigation
func (v *ReaderView) updateTOC(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc", "t", "q":
		v.showTOC = false
	case "j", "down":
		if v.tocCursor < len(v.book.Chapters)-1 {
			v.tocCursor++
		}
	case "k", "up":
		if v.tocCursor > 0 {
			v.tocCursor--
		}
	case "g", "home":
		v.tocCursor = 0
	case "G", "end":
		v.tocCursor = len(v.book.Chapters) - 1
	case "enter":
		v.showTOC = false
		v.goToChapter(v.tocCursor)
	}
	return v, nil
}

// settingEntry is one adjustable row of the settings overlay
type settingEntry struct {
	label string
	key   string
	value func() string
	prev  func() string
	next  func() string
}

func (v *ReaderView) settingEntries() []settingEntry {
	s := &v.cfg.Settings
	cycle := func(options []string, cur string, dir int) string {
		for i, o := range options {
			if o == cur {
				return options[(i+dir+len(options))%len(options)]
			}
		}
		return options[0]
	}
	themes := append(styles.GetThemeNames(), "custom")
	families := []string{"serif", "sans", "mono"}
	widths := []string{"narrow", "medium", "wide", "full"}
	modes := []string{"scroll", "paged", "dual"}
	animations := []string{"none", "slide", "fade", "flip"}

	widthName := func() string {
		for name, w := range config.WidthPresets {
			if w == s.TextWidth {
				return name
			}
		}
		return formatFloat(s.TextWidth)
	}

	return []settingEntry{
		{
			label: "Font size", key: "fontSize",
			value: func() string { return formatFloat(s.FontSize) },
			prev:  func() string { return formatFloat(s.FontSize - 1) },
			next:  func() string { return formatFloat(s.FontSize + 1) },
		},
		{
			label: "Line height", key: "lineHeight",
			value: func() string { return formatFloat(s.LineHeight) },
			prev:  func() string { return formatFloat(s.LineHeight - 0.1) },
			next:  func() string { return formatFloat(s.LineHeight + 0.1) },
		},
		{
			label: "Paragraph spacing", key: "paraSpacing",
			value: func() string { return formatFloat(s.ParaSpacing) },
			prev:  func() string { return formatFloat(s.ParaSpacing - 0.25) },
			next:  func() string { return formatFloat(s.ParaSpacing + 0.25) },
		},
		{
			label: "Text width", key: "textWidth",
			value: widthName,
			prev:  func() string { return cycle(widths, widthName(), -1) },
			next:  func() string { return cycle(widths, widthName(), 1) },
		},
		{
			label: "Font family", key: "fontFamily",
			value: func() string { return s.FontFamily },
			prev:  func() string { return cycle(families, s.FontFamily, -1) },
			next:  func() string { return cycle(families, s.FontFamily, 1) },
		},
		{
			label: "Theme", key: "theme",
			value: func() string { return s.Theme },
			prev:  func() string { return cycle(themes, s.Theme, -1) },
			next:  func() string { return cycle(themes, s.Theme, 1) },
		},
		{
			label: "Layout", key: "layoutMode",
			value: func() string { return s.LayoutMode },
			prev:  func() string { return cycle(modes, s.LayoutMode, -1) },
			next:  func() string { return cycle(modes, s.LayoutMode, 1) },
		},
		{
			label: "Page gap", key: "pageGap",
			value: func() string { return formatFloat(s.PageGap) },
			prev:  func() string { return formatFloat(s.PageGap - 10) },
			next:  func() string { return formatFloat(s.PageGap + 10) },
		},
		{
			label: "Page animation", key: "pageAnimation",
			value: func() string { return s.PageAnimation },
			prev:  func() string { return cycle(animations, s.PageAnimation, -1) },
			next:  func() string { return cycle(animations, s.PageAnimation, 1) },
		},
	}
}

// updateSettings handles the settings overlay
func (v *ReaderView) updateSettings(msg tea.KeyMsg) (View, tea.Cmd) {
	entries := v.settingEntries()
	switch msg.String() {
	case "esc", "s", "q":
		v.showSettings = false
	case "j", "down":
		if v.settingsCursor < len(entries)-1 {
			v.settingsCursor++
		}
	case "k", "up":
		if v.settingsCursor > 0 {
			v.settingsCursor--
		}
	case "h", "left", "-":
		e := entries[v.settingsCursor]
		return v.applySetting(e.key, e.prev())
	case "l", "right", "+", "enter":
		e := entries[v.settingsCursor]
		return v.applySetting(e.key, e.next())
	}
	return v, nil
}

// View implements View
func (v *ReaderView) View() string {
	if v.path == "" {
		return styles.ErrorStyle.Render("No book selected")
	}
	if v.loading {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Loading..."))
	}
	if v.err != nil {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			styles.ErrorStyle.Render("Error: "+v.err.Error()))
	}
	if v.coord == nil {
		return ""
	}

	if v.showTOC {
		return v.renderTOC()
	}
	if v.showSettings {
		return v.renderSettings()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader() + "\n")

	switch v.mode() {
	case paginate.ModeDual:
		b.WriteString(v.renderDualPage())
	default:
		b.WriteString(v.renderScrollWindow())
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

// SetSize implements View
func (v *ReaderView) SetSize(width, height int) {
	v.width = width
	v.height = height
	if v.layout != nil {
		v.layout.SetTerminalSize(width, height)
	}
}

// styleFor picks the text style for a block kind
func styleFor(kind string) lipgloss.Style {
	switch kind {
	case models.BlockHeading:
		return styles.ReaderHeading
	case models.BlockQuote:
		return styles.ReaderQuote
	case models.BlockCode:
		return styles.ReaderCode
	default:
		return styles.ReaderText
	}
}

// renderScrollWindow renders the visible slice of the line buffer,
// which serves both the scroll mode and the single-page mode.
func (v *ReaderView) renderScrollWindow() string {
	margin := (v.width - v.layout.contentCols()) / 2
	if margin < 0 {
		margin = 0
	}
	pad := strings.Repeat(" ", margin)

	var b strings.Builder
	window := v.layout.window()
	for i, rl := range window {
		if rl.block >= 0 && rl.block < len(v.book.Blocks) {
			kind := v.book.Blocks[rl.block].Kind
			if rl.text != "" {
				indent := ""
				if kind == models.BlockListItem {
					indent = "  • "
				}
				b.WriteString(pad + indent + styleFor(kind).Render(rl.text))
			}
		}
		if i < len(window)-1 {
			b.WriteString("\n")
		}
	}
	// pad short windows so the footer stays put
	for i := len(window); i < v.layout.visibleRows(); i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderDualPage renders the current spread as two columns with the
// configured gap between them.
func (v *ReaderView) renderDualPage() string {
	e := v.engine()
	left, right := e.SpreadAt(e.CurrentPage())

	gapCols := int(v.cfg.Settings.PageGap / colPx)
	if gapCols < 1 {
		gapCols = 1
	}
	cols := (v.layout.contentCols() - gapCols) / 2
	if cols < 10 {
		cols = 10
	}
	rows := v.layout.visibleRows()

	leftCol := v.renderPageColumn(left, cols, rows)
	rightCol := v.renderPageColumn(right, cols, rows)
	gap := lipgloss.NewStyle().Width(gapCols).Render("")

	page := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, gap, rightCol)
	return lipgloss.PlaceHorizontal(v.width, lipgloss.Center, page)
}

// renderPageColumn renders a page's blocks into a fixed-size column
func (v *ReaderView) renderPageColumn(blockIdx []int, cols, rows int) string {
	typo := v.cfg.Settings.Typography()
	spacing := rowsPerLine(typo.LineHeight)
	gap := gapRows(typo)

	var lines []string
	for bi, idx := range blockIdx {
		if idx < 0 || idx >= len(v.book.Blocks) {
			continue
		}
		if bi > 0 {
			for g := 0; g < gap; g++ {
				lines = append(lines, "")
			}
		}
		blk := v.book.Blocks[idx]
		style := styleFor(blk.Kind)
		for _, line := range v.layout.blockLines(blk, cols) {
			lines = append(lines, style.Render(line))
			for s := 1; s < spacing; s++ {
				lines = append(lines, "")
			}
		}
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(cols).Render(strings.Join(lines, "\n"))
}

// renderHeader shows title, chapter, and overall progress
func (v *ReaderView) renderHeader() string {
	maxTitle := v.width / 3
	if maxTitle < 10 {
		maxTitle = 10
	}
	titlePart := styles.ReaderHeader.Render(" " + styles.TruncateText(v.book.Title, maxTitle) + " ")

	snap := v.snapshot()
	chapterTitle := ""
	if snap.ChapterIndex >= 0 && snap.ChapterIndex < len(v.book.Chapters) {
		chapterTitle = styles.TruncateText(v.book.Chapters[snap.ChapterIndex].Title, 24)
	}
	chapterPart := styles.Help.Render(fmt.Sprintf(" Ch %d/%d: %s ",
		snap.ChapterIndex+1, len(v.book.Chapters), chapterTitle))

	progressPart := styles.ReaderProgress.Render(fmt.Sprintf("%3.0f%%", snap.ScrollPercent*100))

	left := titlePart + chapterPart
	gap := v.width - lipgloss.Width(left) - lipgloss.Width(progressPart)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + progressPart
}

func (v *ReaderView) snapshot() models.ProgressSnapshot {
	return v.coord.State().Tracker.Snapshot(v.layout.ScrollOffset(), v.layout.Viewport().Height)
}

// renderFooter shows progress detail, reading-time estimate, and keys
func (v *ReaderView) renderFooter() string {
	if v.statusMsg != "" {
		return styles.FooterBar.Width(v.width).Render(styles.SecondaryText.Render(v.statusMsg))
	}

	snap := v.snapshot()
	parts := []string{
		styles.SecondaryText.Render(fmt.Sprintf("%d/%d words", snap.WordsReadTotal, v.book.TotalWords)),
	}
	if wpm := v.cfg.Settings.WordsPerMinute; wpm > 0 {
		remaining := v.book.TotalWords - snap.WordsReadTotal
		minutes := (remaining + wpm - 1) / wpm
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("~%dm left", minutes)))
	}
	if v.mode().Paged() {
		e := v.engine()
		parts = append(parts, styles.SecondaryText.Render(
			fmt.Sprintf("page %d/%d", e.CurrentPage()+1, e.TotalPages())))
	}
	parts = append(parts,
		styles.HelpKey.Render("t")+styles.Help.Render(" toc"),
		styles.HelpKey.Render("s")+styles.Help.Render(" settings"),
		styles.HelpKey.Render("m")+styles.Help.Render(" "+v.cfg.Settings.LayoutMode),
		styles.HelpKey.Render("q")+styles.Help.Render(" back"),
	)
	return styles.FooterBar.Width(v.width).Render(strings.Join(parts, "  "))
}

// renderTOC renders the table of contents overlay
func (v *ReaderView) renderTOC() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Table of Contents") + "\n\n")

	current := v.currentChapter()
	maxVisible := v.height - 8
	offset := 0
	if v.tocCursor >= maxVisible {
		offset = v.tocCursor - maxVisible + 1
	}

	for i := offset; i < len(v.book.Chapters) && i < offset+maxVisible; i++ {
		ch := v.book.Chapters[i]
		line := fmt.Sprintf("%d. %s", i+1, ch.Title)
		line = styles.TruncateText(line, v.width-12)
		switch {
		case i == v.tocCursor:
			b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n")
		case i == current:
			b.WriteString(styles.BookMeta.Render("  "+line+" (current)") + "\n")
		default:
			b.WriteString(styles.ListItem.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + styles.Help.Render("j/k navigate • enter go • esc close"))
	dialog := styles.Dialog.Width(minInt(60, v.width-4)).Render(b.String())
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, dialog)
}

// renderSettings renders the settings overlay
func (v *ReaderView) renderSettings() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Reading Settings") + "\n\n")

	for i, e := range v.settingEntries() {
		label := fmt.Sprintf("%-20s", e.label)
		value := fmt.Sprintf("◂ %s ▸", e.value())
		if i == v.settingsCursor {
			b.WriteString(styles.ListItemSelected.Render(label+styles.SettingValue.Render(value)) + "\n")
		} else {
			b.WriteString(styles.SettingLabel.Render("  "+label) + styles.SettingValue.Render(e.value()) + "\n")
		}
	}

	b.WriteString("\n" + styles.Help.Render("j/k navigate • h/l adjust • esc close"))
	dialog := styles.Dialog.Width(minInt(52, v.width-4)).Render(b.String())
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, dialog)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
