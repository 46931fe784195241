package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpetrov/folio/internal/api"
	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/internal/store"
	"github.com/mpetrov/folio/internal/ui/styles"
	"github.com/mpetrov/folio/internal/ui/views"
)

// App is the main application model
type App struct {
	cfg    *config.Config
	st     *store.Store
	client *api.Client
	keys   KeyMap

	currentView views.ViewType

	width  int
	height int

	libraryView views.View
	readerView  views.View

	showHelp bool
}

// NewApp creates a new application instance. When openFile is set the
// app starts directly in the reader.
func NewApp(cfg *config.Config, st *store.Store, openFile string) *App {
	client := api.NewClient(cfg.ServerURL, cfg.Token)
	styles.ApplyNamed(cfg.Settings.Theme, cfg.Settings.CustomColors)

	app := &App{
		cfg:         cfg,
		st:          st,
		client:      client,
		keys:        DefaultKeyMap(),
		currentView: views.ViewLibrary,
		width:       80,
		height:      24,
	}

	reader := views.NewReaderView(client, cfg, st)
	app.libraryView = views.NewLibraryView(cfg, st)
	app.readerView = reader

	if openFile != "" {
		reader.SetBook(openFile)
		app.currentView = views.ViewReader
	}
	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.getCurrentView().Init(),
		tea.SetWindowTitle("folio"),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.libraryView.SetSize(msg.Width, msg.Height)
		// The reader debounces resize through its layout coordinator,
		// so it gets the raw message rather than a bare SetSize.
		var cmd tea.Cmd
		a.readerView, cmd = a.readerView.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.showHelp {
			if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Escape) || key.Matches(msg, a.keys.Quit) {
				a.showHelp = false
			}
			return a, nil
		}
		// Overlays and the search input see every key first; global
		// bindings only apply when nothing is capturing input.
		if !a.getCurrentView().CapturingInput() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				if a.currentView == views.ViewReader {
					return a.switchView(views.ViewLibrary)
				}
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil
			}
		}

	case views.OpenBookMsg:
		a.readerView.(*views.ReaderView).SetBook(msg.Path)
		return a.switchView(views.ViewReader)
	}

	// Delegate to current view. Reflow settle and timer messages also
	// land here, addressed to the reader.
	var cmd tea.Cmd
	switch a.currentView {
	case views.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case views.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}
	switch a.currentView {
	case views.ViewReader:
		return a.readerView.View()
	default:
		return a.libraryView.View()
	}
}

// switchView changes the current view and initializes it
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	if a.currentView == views.ViewReader && view != views.ViewReader {
		a.readerView.(*views.ReaderView).SavePositionOnExit()
	}
	a.currentView = view
	a.getCurrentView().SetSize(a.width, a.height)
	return a, a.getCurrentView().Init()
}

func (a *App) getCurrentView() views.View {
	switch a.currentView {
	case views.ViewReader:
		return a.readerView
	default:
		return a.libraryView
	}
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	help := styles.Dialog.Width(58).Render(
		styles.DialogTitle.Render("Keyboard Shortcuts") + "\n\n" +
			styles.HelpKey.Render("Navigation") + "\n" +
			"  j/↓     Scroll down / next page\n" +
			"  k/↑     Scroll up / previous page\n" +
			"  g/G     Top / bottom\n" +
			"  Space   Page forward\n" +
			"  Ctrl+d  Half page down\n" +
			"  Ctrl+u  Half page up\n\n" +
			styles.HelpKey.Render("Reader") + "\n" +
			"  n/l     Next chapter\n" +
			"  p/h     Previous chapter\n" +
			"  t       Table of contents\n" +
			"  s       Reading settings\n" +
			"  m       Cycle layout mode\n" +
			"  T       Cycle theme\n" +
			"  +/-     Font size\n" +
			"  S       Save position now\n\n" +
			styles.HelpKey.Render("Library") + "\n" +
			"  /       Search\n" +
			"  o       Sort\n" +
			"  r       Rescan\n" +
			"  Enter   Open book\n\n" +
			styles.HelpKey.Render("General") + "\n" +
			"  q       Quit / back\n" +
			"  ?       Toggle help\n",
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, help)
}
