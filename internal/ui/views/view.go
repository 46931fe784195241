package views

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewLibrary ViewType = iota
	ViewReader
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewLibrary:
		return "Library"
	case ViewReader:
		return "Reader"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
	// CapturingInput reports whether the view is in a state (overlay,
	// text entry) that must see every key before global bindings.
	CapturingInput() bool
}

// OpenBookMsg is sent when a book is selected to read
type OpenBookMsg struct {
	Path string
}
