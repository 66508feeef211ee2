package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

// setting is one row of the read-only settings table.
type setting struct {
	Key   string
	Value string
}

type settingsModel struct {
	svc    *tracker.Service
	state  store.UserState
	info   []setting
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name   *string
	budget *string
}

func newSettingsModel(svc *tracker.Service, info []setting) settingsModel {
	name, budget := "", ""
	return settingsModel{
		svc:    svc,
		state:  svc.State(),
		info:   info,
		name:   &name,
		budget: &budget,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *settingsModel) setState(st store.UserState) {
	s.state = st
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.name = s.state.Name
	*s.budget = s.state.Budget.StringFixed(2)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your name").Value(s.name).Validate(notBlank),
			huh.NewInput().Title("Monthly budget").Value(s.budget).Validate(validAmount),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		err := s.saveSettings()
		s.setState(s.svc.State())
		return s, intentResult(err, "", "Settings saved")
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if err := s.svc.SetName(*s.name); err != nil {
		return err
	}
	budget, err := parseAmount(*s.budget)
	if err != nil {
		return err
	}
	return s.svc.SetBudget(budget)
}

func (s settingsModel) rows() []setting {
	plan := "Free"
	if s.state.IsPremium {
		plan = "Premium"
	}
	usage := tracker.FreeUsage(s.state, s.svc.Now())
	rows := []setting{
		{"Name", s.state.Name},
		{"Monthly budget", formatMoney(s.state.Budget)},
		{"Plan", plan},
		{"Subjects", usage.SubjectLine()},
		{"Journal", usage.MoodLine()},
	}
	return append(rows, s.info...)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")
	if !s.state.IsPremium {
		hint = mutedStyle.Render("Press enter to edit settings, u to upgrade")
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.rows() {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(setting.Value)
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
