package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// layoutSettledMsg delivers one settle step to the coordinator: by the
// time the message arrives, the frame that applied the previous
// mutation has rendered.
type layoutSettledMsg struct{}

// reflowTimerMsg fires a scheduled one-shot timer
type reflowTimerMsg struct {
	id int
}

// teaScheduler bridges the reflow coordinator's settle and timer hooks
// onto the bubbletea message loop. Each settle callback is delivered on
// its own message, so consecutive callbacks observe consecutive frames.
type teaScheduler struct {
	settled []func()
	timers  map[int]*schedTimer
	nextID  int
	queued  []tea.Cmd
}

type schedTimer struct {
	fn       func()
	canceled bool
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: make(map[int]*schedTimer)}
}

func (s *teaScheduler) OnLayoutSettled(fn func()) {
	s.settled = append(s.settled, fn)
}

func (s *teaScheduler) After(d time.Duration, fn func()) func() {
	s.nextID++
	id := s.nextID
	t := &schedTimer{fn: fn}
	s.timers[id] = t
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return reflowTimerMsg{id: id}
	}))
	return func() { t.canceled = true }
}

// runSettled pops and runs exactly one settle callback
func (s *teaScheduler) runSettled() {
	if len(s.settled) == 0 {
		return
	}
	fn := s.settled[0]
	s.settled = s.settled[1:]
	fn()
}

// runTimer fires the identified timer if it is still live
func (s *teaScheduler) runTimer(id int) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	if !t.canceled {
		t.fn()
	}
}

// flush collects commands produced since the last flush: queued timer
// ticks plus a pump message if settle callbacks are waiting.
func (s *teaScheduler) flush() tea.Cmd {
	cmds := s.queued
	s.queued = nil
	if len(s.settled) > 0 {
		cmds = append(cmds, func() tea.Msg { return layoutSettledMsg{} })
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
