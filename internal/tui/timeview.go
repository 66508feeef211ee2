package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/focus"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

// timeModel is the Time view: focus timer on top, schedule below.
type timeModel struct {
	width  int
	height int

	timer    timerModel
	schedule scheduleModel
}

func newTimeModel(svc *tracker.Service) timeModel {
	return timeModel{
		timer:    newTimerModel(svc),
		schedule: newScheduleModel(svc),
	}
}

func (t *timeModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.schedule.setSize(w, h)
}

func (t *timeModel) setState(st store.UserState) {
	t.schedule.setState(st)
}

func (t timeModel) formActive() bool { return t.schedule.formActive }

func (t timeModel) update(msg tea.Msg) (timeModel, tea.Cmd) {
	var cmd tea.Cmd
	if t.schedule.formActive {
		t.schedule, cmd = t.schedule.update(msg)
		return t, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Toggle):
			t.timer = t.timer.toggle()
			return t, nil
		case key.Matches(km, keys.Reset):
			t.timer = t.timer.reset()
			return t, nil
		case key.Matches(km, keys.FocusMode):
			t.timer = t.timer.switchMode(focus.ModeFocus)
			return t, nil
		case key.Matches(km, keys.BreakMode):
			t.timer = t.timer.switchMode(focus.ModeBreak)
			return t, nil
		case key.Matches(km, keys.Enter) && t.timer.pendingSession():
			t.timer, cmd = t.timer.logSession()
			return t, cmd
		}
	}

	t.schedule, cmd = t.schedule.update(msg)
	return t, cmd
}

func (t timeModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4
	return lipgloss.JoinVertical(lipgloss.Left, t.timer.render(w), t.schedule.view(w))
}
