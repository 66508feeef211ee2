package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/gate"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

const moodLimitReason = "The free plan allows 1 journal entry per day."

// maxMoodRows bounds the journal list.
const maxMoodRows = 7

type mindModel struct {
	svc    *tracker.Service
	state  store.UserState
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formMood *string
	formNote *string
}

func newMindModel(svc *tracker.Service) mindModel {
	mood, note := string(store.MoodNeutral), ""
	return mindModel{
		svc:      svc,
		state:    svc.State(),
		formMood: &mood,
		formNote: &note,
	}
}

func (m *mindModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *mindModel) setState(st store.UserState) {
	m.state = st
}

func (m mindModel) update(msg tea.Msg) (mindModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.New) {
		return m.showMoodForm()
	}
	return m, nil
}

func (m mindModel) showMoodForm() (mindModel, tea.Cmd) {
	if !gate.CanAddMoodEntryToday(m.state, m.svc.Now()) {
		return m, func() tea.Msg { return upgradePromptMsg{reason: moodLimitReason} }
	}

	*m.formMood = string(store.MoodNeutral)
	*m.formNote = ""

	moodOptions := make([]huh.Option[string], len(store.Moods))
	for i, md := range store.Moods {
		moodOptions[i] = huh.NewOption(md.Emoji()+" "+string(md), string(md))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("How are you feeling?").Options(moodOptions...).Value(m.formMood),
			huh.NewText().Title("Note").Value(m.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m mindModel) updateForm(msg tea.Msg) (mindModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.saveMood()
	}

	return m, cmd
}

// saveMood records the entry and closes the form.
func (m mindModel) saveMood() (mindModel, tea.Cmd) {
	m.formActive = false
	m.form = nil
	entry, err := m.svc.AddMood(store.Mood(*m.formMood), *m.formNote)
	m.setState(m.svc.State())
	return m, intentResult(err, moodLimitReason, "Feeling "+strings.ToLower(string(entry.Mood))+" today")
}

func (m mindModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Journal"), "", m.form.View()),
		)
	}

	now := m.svc.Now()
	quote := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Quote of the day"),
		insightStyle.Render("“"+tracker.QuoteOfTheDay(now)+"”"),
	))

	usage := tracker.FreeUsage(m.state, now)
	title := titleStyle.Render("Journal") + "  " + mutedStyle.Render(usage.MoodLine())

	var rows []string
	rows = append(rows, title, "")
	if len(m.state.Moods) == 0 {
		rows = append(rows, mutedStyle.Render("  No entries yet. Press n to check in."))
	}
	for i, e := range m.state.Moods {
		if i == maxMoodRows {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d older", len(m.state.Moods)-i)))
			break
		}
		line := fmt.Sprintf("  %s %s  %s", e.Mood.Emoji(), mutedStyle.Render(e.Date.Format("Mon Jan 2 15:04")), highlightStyle.Render(string(e.Mood)))
		if e.Note != "" {
			line += mutedStyle.Render("  " + firstLine(e.Note))
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", mutedStyle.Render("  n: check in"))

	return lipgloss.JoinVertical(lipgloss.Left, quote, panelStyle.Width(w).Render(strings.Join(rows, "\n")))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
