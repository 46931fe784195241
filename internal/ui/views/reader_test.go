package views

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mpetrov/folio/internal/anchor"
	"github.com/mpetrov/folio/internal/api"
	"github.com/mpetrov/folio/internal/config"
	"github.com/mpetrov/folio/internal/store"
	"github.com/mpetrov/folio/pkg/models"
)

// newTestReader builds a reader with a loaded book, bypassing file
// parsing and the network.
func newTestReader(t *testing.T, blocks int) *ReaderView {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	st, err := store.Open()
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Settings: config.DefaultSettings()}
	v := NewReaderView(api.NewClient("http://127.0.0.1:0", ""), cfg, st)
	v.SetBook("test.txt")
	v.SetSize(104, 40)

	bs := make([]models.Block, blocks)
	for i := range bs {
		kind := models.BlockParagraph
		if i == 0 {
			kind = models.BlockHeading
		}
		bs[i] = models.Block{Kind: kind, Level: 1,
			Text: fmt.Sprintf("Paragraph %d with enough words to wrap across a few rendered lines in the column", i)}
	}
	book := &models.BookContent{
		ID:         "reader-test",
		Title:      "Reader Test",
		Blocks:     bs,
		Chapters:   []models.Chapter{{Index: 0, Title: "One", BlockStart: 0, WordCount: blocks * 10}},
		TotalWords: blocks * 10,
	}

	view, cmd := v.Update(bookLoadedMsg{book: book})
	r := view.(*ReaderView)
	drainCmds(t, r, cmd)
	return r
}

// drainCmds executes commands and feeds resulting messages back into
// the view until the loop goes quiet, the way the program runner would.
func drainCmds(t *testing.T, v *ReaderView, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := v.Update(msg)
			queue = append(queue, next)
		}
	}
}

func captureAt(r *ReaderView) *anchor.Anchor {
	return anchor.Capture(r.layout.BlockPositions(), r.layout.ScrollOffset(), r.layout.Viewport().Height)
}

func TestResizeRestoresPreResizeAnchor(t *testing.T) {
	r := newTestReader(t, 60)
	r.layout.ScrollTo(r.layout.DocumentHeight() / 2)

	before := captureAt(r)
	if before == nil {
		t.Fatal("no anchor captured")
	}

	// Halving the width rewraps every block; the reader must come back
	// to the block it was on, not whatever drifted into its place.
	_, cmd := r.Update(tea.WindowSizeMsg{Width: 54, Height: 40})
	drainCmds(t, r, cmd)

	after := captureAt(r)
	if after == nil {
		t.Fatal("no anchor after resize")
	}
	if after.Fingerprint != before.Fingerprint {
		t.Errorf("anchored block changed across resize: %q -> %q", before.Fingerprint, after.Fingerprint)
	}
}

func TestReaderReentryDoesNotStackAutosaves(t *testing.T) {
	r := newTestReader(t, 10)

	if cmd := r.Init(); cmd == nil {
		t.Fatal("expected an autosave tick")
	}
	stale := r.autoSaveGen
	if cmd := r.Init(); cmd == nil {
		t.Fatal("expected an autosave tick")
	}

	// The orphaned chain ends silently.
	if _, cmd := r.Update(autoSaveMsg{gen: stale}); cmd != nil {
		t.Error("stale autosave tick rescheduled; chains would stack")
	}
	// The live chain keeps going.
	if _, cmd := r.Update(autoSaveMsg{gen: r.autoSaveGen}); cmd == nil {
		t.Error("live autosave tick did not reschedule")
	}
}
