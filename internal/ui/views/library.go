package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/internal/store"
	"github.com/mpetrov/folio/internal/ui/styles"
)

// Sort options
type sortField int

const (
	sortTitle sortField = iota
	sortModified
)

func (s sortField) Label() string {
	switch s {
	case sortModified:
		return "Modified"
	default:
		return "Title"
	}
}

// libraryEntry is one readable file found in the books directory
type libraryEntry struct {
	Title    string
	Path     string
	Modified time.Time
	Recent   bool
	Progress float64 // saved progress 0..1, -1 when none
}

// readableExts lists the file types the reader can open
var readableExts = map[string]bool{
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// LibraryView lists readable files from the books directory together
// with recently read books.
type LibraryView struct {
	cfg *config.Config
	st  *store.Store

	entries  []libraryEntry
	filtered []libraryEntry
	cursor   int
	offset   int

	loading     bool
	err         error
	searchMode  bool
	searchInput textinput.Model

	sortBy  sortField
	sortAsc bool

	width  int
	height int
}

// NewLibraryView creates a new library view
func NewLibraryView(cfg *config.Config, st *store.Store) *LibraryView {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search books..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	return &LibraryView{
		cfg:         cfg,
		st:          st,
		searchInput: searchInput,
		sortBy:      sortTitle,
		sortAsc:     true,
		width:       80,
		height:      24,
	}
}

// entriesLoadedMsg is sent when the books directory scan finishes
type entriesLoadedMsg struct {
	entries []libraryEntry
	err     error
}

// Init implements View
func (v *LibraryView) Init() tea.Cmd {
	v.loading = true
	return v.loadEntries()
}

// loadEntries scans the books directory and merges in recently read
// books that live outside it.
func (v *LibraryView) loadEntries() tea.Cmd {
	dir := v.cfg.BooksDir
	recent := v.cfg.RecentlyRead
	return func() tea.Msg {
		seen := make(map[string]bool)
		var entries []libraryEntry

		recentPaths := make(map[string]bool, len(recent))
		for _, r := range recent {
			recentPaths[r.Path] = true
		}

		if dir != "" {
			files, err := os.ReadDir(dir)
			if err != nil {
				return entriesLoadedMsg{err: err}
			}
			for _, f := range files {
				if f.IsDir() || !readableExts[strings.ToLower(filepath.Ext(f.Name()))] {
					continue
				}
				path := filepath.Join(dir, f.Name())
				info, err := f.Info()
				if err != nil {
					continue
				}
				entries = append(entries, libraryEntry{
					Title:    strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())),
					Path:     path,
					Modified: info.ModTime(),
					Recent:   recentPaths[path],
				})
				seen[path] = true
			}
		}

		for _, r := range recent {
			if seen[r.Path] || r.Path == "" {
				continue
			}
			if _, err := os.Stat(r.Path); err != nil {
				continue
			}
			entries = append(entries, libraryEntry{
				Title:    r.Title,
				Path:     r.Path,
				Modified: r.OpenedAt,
				Recent:   true,
			})
		}
		return entriesLoadedMsg{entries: entries}
	}
}

// attachProgress fills in saved progress for each entry
func (v *LibraryView) attachProgress() {
	for i := range v.entries {
		v.entries[i].Progress = -1
		id, err := store.ComputeBookID(v.entries[i].Path)
		if err != nil {
			continue
		}
		if pos, ok := v.st.Get(id); ok {
			v.entries[i].Progress = pos.Progress
		}
	}
}

// Update implements View
func (v *LibraryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.entries = msg.entries
		v.attachProgress()
		v.applyFilter()
		return v, nil
	case tea.KeyMsg:
		if v.searchMode {
			return v.updateSearch(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *LibraryView) handleKeyMsg(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.filtered)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		if len(v.filtered) > 0 {
			v.cursor = len(v.filtered) - 1
		}
	case "r":
		v.loading = true
		return v, v.loadEntries()
	case "o":
		if v.sortBy == sortTitle {
			v.sortBy = sortModified
			v.sortAsc = false
		} else {
			v.sortBy = sortTitle
			v.sortAsc = true
		}
		v.applyFilter()
	case "/":
		v.searchMode = true
		v.searchInput.Focus()
		return v, textinput.Blink
	case "enter":
		if v.cursor < len(v.filtered) {
			path := v.filtered[v.cursor].Path
			return v, func() tea.Msg { return OpenBookMsg{Path: path} }
		}
	}
	return v, nil
}

func (v *LibraryView) updateSearch(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.searchMode = false
		v.searchInput.SetValue("")
		v.searchInput.Blur()
		v.applyFilter()
		return v, nil
	case "enter":
		v.searchMode = false
		v.searchInput.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.applyFilter()
	return v, cmd
}

// applyFilter rebuilds the visible list from search and sort state
func (v *LibraryView) applyFilter() {
	query := strings.ToLower(v.searchInput.Value())
	v.filtered = v.filtered[:0]
	for _, e := range v.entries {
		if query == "" || strings.Contains(strings.ToLower(e.Title), query) {
			v.filtered = append(v.filtered, e)
		}
	}

	sort.SliceStable(v.filtered, func(i, j int) bool {
		var less bool
		switch v.sortBy {
		case sortModified:
			less = v.filtered[i].Modified.Before(v.filtered[j].Modified)
		default:
			less = strings.ToLower(v.filtered[i].Title) < strings.ToLower(v.filtered[j].Title)
		}
		if !v.sortAsc {
			return !less
		}
		return less
	})

	if v.cursor >= len(v.filtered) {
		v.cursor = len(v.filtered) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// View implements View
func (v *LibraryView) View() string {
	var b strings.Builder

	title := styles.TitleBar.Render(" folio ")
	count := styles.MutedText.Render(fmt.Sprintf(" %d books", len(v.filtered)))
	b.WriteString(title + count + "\n\n")

	if v.searchMode {
		b.WriteString("  " + v.searchInput.View() + "\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(styles.MutedText.Render("  Scanning library..."))
	case v.err != nil:
		b.WriteString(styles.ErrorStyle.Render("Error: " + v.err.Error()))
	case len(v.filtered) == 0:
		if v.cfg.BooksDir == "" {
			b.WriteString(styles.MutedText.Render("  No books directory configured. Pass a file or set --books-dir."))
		} else {
			b.WriteString(styles.MutedText.Render("  No readable files found."))
		}
	default:
		b.WriteString(v.renderList())
	}

	b.WriteString("\n\n")
	help := []string{
		styles.HelpKey.Render("enter") + styles.Help.Render(" open"),
		styles.HelpKey.Render("/") + styles.Help.Render(" search"),
		styles.HelpKey.Render("o") + styles.Help.Render(" sort: "+v.sortBy.Label()),
		styles.HelpKey.Render("r") + styles.Help.Render(" rescan"),
		styles.HelpKey.Render("q") + styles.Help.Render(" quit"),
	}
	b.WriteString(styles.FooterBar.Width(v.width).Render(strings.Join(help, "  ")))
	return b.String()
}

func (v *LibraryView) renderList() string {
	maxVisible := v.height - 8
	if maxVisible < 1 {
		maxVisible = 1
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+maxVisible {
		v.offset = v.cursor - maxVisible + 1
	}

	var b strings.Builder
	for i := v.offset; i < len(v.filtered) && i < v.offset+maxVisible; i++ {
		e := v.filtered[i]
		title := styles.TruncateText(e.Title, v.width-24)

		meta := ""
		if e.Progress >= 0 {
			meta = fmt.Sprintf(" %3.0f%%", e.Progress*100)
		}
		if e.Recent {
			meta += " •"
		}

		line := title + styles.BookMeta.Render(meta)
		if i == v.cursor {
			b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(styles.ListItem.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

// CapturingInput implements View. While searching, every printable key
// belongs to the search input.
func (v *LibraryView) CapturingInput() bool {
	return v.searchMode
}

// SetSize implements View
func (v *LibraryView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.searchInput.Width = minInt(40, width-8)
}
