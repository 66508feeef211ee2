package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/focus"
	"github.com/sadopc/quadra/internal/tracker"
)

// frameScheduler hands ticking over to the app's one-second tick loop. The
// timer's generation check still drops ticks after a pause or reset.
type frameScheduler struct{}

func (frameScheduler) Every(time.Duration, func()) func() { return func() {} }

// timerModel wraps the focus countdown for the Time view and the footer.
type timerModel struct {
	svc   *tracker.Service
	timer *focus.Timer

	// sessionEnd is set when a focus countdown finishes and has not been
	// logged to the schedule yet.
	sessionEnd time.Time
}

func newTimerModel(svc *tracker.Service) timerModel {
	return timerModel{
		svc:   svc,
		timer: focus.New(focus.WithScheduler(frameScheduler{})),
	}
}

func (t timerModel) snapshot() focus.Snapshot { return t.timer.Snapshot() }

func (t timerModel) pendingSession() bool { return !t.sessionEnd.IsZero() }

func (t timerModel) tick() (timerModel, tea.Cmd) {
	before := t.timer.Snapshot()
	if !before.Running {
		return t, nil
	}
	t.timer.Tick()
	after := t.timer.Snapshot()
	if after.Running || after.Remaining > 0 {
		return t, nil
	}
	if after.Mode == focus.ModeFocus {
		t.sessionEnd = t.svc.Now()
		return t, statusCmd("Focus session complete. Press enter on Time to log it")
	}
	return t, statusCmd("Break is over")
}

func (t timerModel) toggle() timerModel {
	t.timer.Toggle()
	return t
}

func (t timerModel) reset() timerModel {
	t.timer.Reset()
	return t
}

func (t timerModel) switchMode(m focus.Mode) timerModel {
	t.timer.SwitchMode(m)
	return t
}

// logSession records the finished focus countdown as a Study event.
func (t timerModel) logSession() (timerModel, tea.Cmd) {
	if !t.pendingSession() {
		return t, nil
	}
	end := t.sessionEnd
	t.sessionEnd = time.Time{}
	_, err := t.svc.LogFocusSession(end)
	return t, intentResult(err, "", "Focus session added to schedule")
}

func (t timerModel) close() {
	t.timer.Close()
}

func (t timerModel) render(w int) string {
	snap := t.timer.Snapshot()
	clock := focus.Format(snap.Remaining)

	var timeDisplay, indicator string
	switch {
	case snap.Running:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("●  " + snap.Mode.String())
	case snap.Remaining == 0:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		indicator = highlightStyle.Render("✓  " + snap.Mode.String() + " done")
	case snap.Remaining < snap.Duration():
		timeDisplay = timerPausedStyle.Width(w - 6).Render(clock)
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("■  " + snap.Mode.String())
	}

	bar := progressBar(snap.Progress(), max(10, w-10), successStyle)

	hint := mutedStyle.Render("space: start/pause  r: reset  f: focus  b: break")
	if t.pendingSession() {
		hint = accentStyle.Render("enter: log session to schedule")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, "", bar, "", hint)
	if snap.Running {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

// footer is the compact indicator shown on every view.
func (t timerModel) footer() string {
	snap := t.timer.Snapshot()
	switch {
	case snap.Running:
		return successStyle.Render(" ● " + snap.Mode.String() + " " + focus.Format(snap.Remaining))
	case snap.Remaining > 0 && snap.Remaining < snap.Duration():
		return warningStyle.Render(" ⏸ " + focus.Format(snap.Remaining))
	}
	return ""
}
