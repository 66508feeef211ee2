package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/calendar"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

// scheduleModel is the calendar panel of the Time view.
type scheduleModel struct {
	svc    *tracker.Service
	state  store.UserState
	width  int
	height int

	gran calendar.Granularity
	date time.Time

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formType     *string
	formDay      *string
	formClock    *string
	formDuration *string
}

func newScheduleModel(svc *tracker.Service) scheduleModel {
	title, typ, day, clock, dur := "", string(store.EventClass), "", "", ""
	return scheduleModel{
		svc:          svc,
		state:        svc.State(),
		gran:         calendar.Day,
		date:         calendar.StartOfDay(svc.Now()),
		formTitle:    &title,
		formType:     &typ,
		formDay:      &day,
		formClock:    &clock,
		formDuration: &dur,
	}
}

func (s *scheduleModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *scheduleModel) setState(st store.UserState) {
	s.state = st
}

func (s scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(km, keys.Zoom):
		s.gran = (s.gran + 1) % 3
	case key.Matches(km, keys.PrevPeriod):
		s.date = calendar.Navigate(s.date, s.gran, calendar.Prev)
	case key.Matches(km, keys.NextPeriod):
		s.date = calendar.Navigate(s.date, s.gran, calendar.Next)
	case key.Matches(km, keys.Left):
		s.date = s.date.AddDate(0, 0, -1)
	case key.Matches(km, keys.Right):
		s.date = s.date.AddDate(0, 0, 1)
	case key.Matches(km, keys.Up):
		if s.gran != calendar.Day {
			s.date = s.date.AddDate(0, 0, -7)
		}
	case key.Matches(km, keys.Down):
		if s.gran != calendar.Day {
			s.date = s.date.AddDate(0, 0, 7)
		}
	case key.Matches(km, keys.Today):
		s.date = calendar.StartOfDay(s.svc.Now())
	case key.Matches(km, keys.Enter):
		// Selecting a cell in week or month view opens that day.
		s.gran = calendar.Day
	case key.Matches(km, keys.New):
		return s.showEventForm()
	}
	return s, nil
}

func (s scheduleModel) showEventForm() (scheduleModel, tea.Cmd) {
	*s.formTitle = ""
	*s.formType = string(store.EventClass)
	*s.formDay = s.date.Format("2006-01-02")
	*s.formClock = "09:00"
	*s.formDuration = "60"

	typeOptions := make([]huh.Option[string], len(store.EventTypes))
	for i, t := range store.EventTypes {
		typeOptions[i] = huh.NewOption(string(t), string(t))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(s.formTitle).Validate(notBlank),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(s.formType),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(s.formDay).Validate(validDay),
			huh.NewInput().Title("Start (HH:MM)").Value(s.formClock).Validate(validClock),
			huh.NewInput().Title("Duration (min)").Value(s.formDuration).Validate(validMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s scheduleModel) updateForm(msg tea.Msg) (scheduleModel, tea.Cmd) {
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
		return s.saveEvent()
	}
	return s, cmd
}

func (s scheduleModel) saveEvent() (scheduleModel, tea.Cmd) {
	in, err := s.eventInput()
	if err != nil {
		return s, errorCmd(err)
	}
	e, err := s.svc.AddEvent(in)
	if err != nil {
		return s, errorCmd(err)
	}
	s.date = calendar.StartOfDay(e.StartTime)
	s.state = s.svc.State()
	return s, statusCmd("Added " + e.Title)
}

func (s scheduleModel) eventInput() (tracker.NewEvent, error) {
	day, err := parseDay(*s.formDay, s.date)
	if err != nil {
		return tracker.NewEvent{}, err
	}
	start, err := parseClock(*s.formClock, day)
	if err != nil {
		return tracker.NewEvent{}, err
	}
	dur, err := parseMinutes(*s.formDuration)
	if err != nil {
		return tracker.NewEvent{}, err
	}
	in := tracker.NewEvent{Title: *s.formTitle, Type: store.EventType(*s.formType), Start: start}
	if dur > 0 {
		in.End = start.Add(dur)
	}
	return in, nil
}

func (s scheduleModel) view(w int) string {
	if s.formActive && s.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Event"), "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	var tabs []string
	for _, g := range []calendar.Granularity{calendar.Day, calendar.Week, calendar.Month} {
		name := strings.ToUpper(g.String()[:1]) + g.String()[1:]
		if g == s.gran {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	label := s.date
	if s.gran == calendar.Week {
		label = calendar.WeekStart(s.date)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Schedule"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
		"  ", highlightStyle.Render(calendar.Label(label, s.gran)),
	)

	var body string
	switch s.gran {
	case calendar.Week:
		body = s.renderWeek(w - 6)
	case calendar.Month:
		body = s.renderMonth()
	default:
		body = s.renderDay()
	}

	nav := mutedStyle.Render("  [/]: prev/next  ←/→: day  v: zoom  t: today  n: new event")
	if s.gran != calendar.Day {
		nav = mutedStyle.Render("  [/]: prev/next  arrows: move  enter: open day  v: zoom  n: new event")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav))
}

func (s scheduleModel) renderDay() string {
	events := calendar.EventsOnDay(s.state.Schedule, s.date)
	if len(events) == 0 {
		return mutedStyle.Render("  Nothing scheduled")
	}
	var rows []string
	for _, e := range events {
		rows = append(rows, fmt.Sprintf("  %s  %s %s",
			mutedStyle.Render(formatSpan(e.StartTime, e.EndTime)),
			eventStyle(e.Type).Render("●"),
			normalItemStyle.Render(e.Title)+mutedStyle.Render(" ("+string(e.Type)+")"),
		))
	}
	return strings.Join(rows, "\n")
}

func (s scheduleModel) renderWeek(w int) string {
	today := s.svc.Now()
	var rows []string
	for _, b := range calendar.WeekOf(s.state.Schedule, s.date) {
		label := b.Date.Format("Mon 02")
		style := normalItemStyle
		switch {
		case calendar.SameDay(b.Date, s.date):
			style = selectedItemStyle
			label = "> " + label
		case calendar.SameDay(b.Date, today):
			style = todayCellStyle
			label = "  " + label
		default:
			label = "  " + label
		}

		var items []string
		for _, e := range b.Events {
			items = append(items, eventStyle(e.Type).Render("●")+" "+formatClock(e.StartTime)+" "+e.Title)
		}
		line := style.Render(label)
		if len(items) > 0 {
			line += "  " + strings.Join(items, "  ")
		} else {
			line += mutedStyle.Render("  ·")
		}
		rows = append(rows, lipgloss.NewStyle().MaxWidth(w).Render(line))
	}
	return strings.Join(rows, "\n")
}

func (s scheduleModel) renderMonth() string {
	grid := calendar.MonthOf(s.state.Schedule, s.date)
	today := s.svc.Now()

	cell := lipgloss.NewStyle().Width(8)
	var header []string
	for _, d := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		header = append(header, cell.Render(mutedStyle.Render(d)))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	var week []string
	for i := 0; i < grid.Leading; i++ {
		week = append(week, cell.Render(""))
	}
	for _, c := range grid.Cells {
		week = append(week, cell.Render(s.renderCell(c, today)))
		if len(week) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
			week = nil
		}
	}
	if len(week) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}
	return strings.Join(rows, "\n")
}

func (s scheduleModel) renderCell(c calendar.Cell, today time.Time) string {
	day := fmt.Sprintf("%2d", c.Date.Day())
	switch {
	case calendar.SameDay(c.Date, s.date):
		day = selectedCellStyle.Render(day)
	case calendar.SameDay(c.Date, today):
		day = todayCellStyle.Render(day)
	}
	dots := strings.Repeat("•", c.Dots())
	if c.Overflow() {
		dots += "+"
	}
	return day + accentStyle.Render(dots)
}
