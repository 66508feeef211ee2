package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/insight"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

// insightDebounce delays the refetch after a change so a burst of edits
// costs one request.
const insightDebounce = 2 * time.Second

// maxDeadlines bounds the upcoming deadlines panel.
const maxDeadlines = 5

type dashboardModel struct {
	svc    *tracker.Service
	state  store.UserState
	width  int
	height int

	latest  *insight.Latest
	seq     uint64
	insight string
	loading bool
}

// insightDueMsg fires when the debounce window for request seq has passed.
type insightDueMsg struct {
	seq uint64
}

func newDashboardModel(svc *tracker.Service, latest *insight.Latest) dashboardModel {
	return dashboardModel{
		svc:     svc,
		state:   svc.State(),
		latest:  latest,
		loading: true,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.fetchInsight(d.seq)
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dashboardModel) setState(st store.UserState) {
	d.state = st
}

// scheduleInsight starts a new debounce window. Requests tagged with an
// older sequence number are dropped when they arrive.
func (d dashboardModel) scheduleInsight() (dashboardModel, tea.Cmd) {
	d.seq++
	seq := d.seq
	return d, tea.Tick(insightDebounce, func(time.Time) tea.Msg { return insightDueMsg{seq: seq} })
}

func (d dashboardModel) requestInsight() (dashboardModel, tea.Cmd) {
	d.seq++
	d.loading = true
	return d, d.fetchInsight(d.seq)
}

func (d dashboardModel) fetchInsight(seq uint64) tea.Cmd {
	latest, state := d.latest, d.state
	return func() tea.Msg {
		text, current := latest.Fetch(context.Background(), state)
		return insightMsg{seq: seq, text: text, current: current}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case insightDueMsg:
		if msg.seq != d.seq {
			return d, nil
		}
		d.loading = true
		return d, d.fetchInsight(msg.seq)

	case insightMsg:
		if msg.seq != d.seq {
			return d, nil
		}
		if !msg.current {
			// Overtaken inside the client by a request started later; ask
			// again so the newest state wins.
			return d.requestInsight()
		}
		d.insight = msg.text
		d.loading = false
		return d, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return d.requestInsight()
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderGreeting(contentWidth),
		d.renderCounters(contentWidth),
		d.renderTodayPanel(contentWidth),
		d.renderInsightPanel(contentWidth),
	)
}

func (d dashboardModel) renderGreeting(w int) string {
	now := d.svc.Now()
	badge := freeBadgeStyle.Render("FREE")
	if d.state.IsPremium {
		badge = premiumBadgeStyle.Render("PREMIUM")
	}
	hello := titleStyle.Render(fmt.Sprintf("%s, %s", greeting(now), d.state.Name))
	date := mutedStyle.Render(now.Format("Monday, January 2"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, hello, "  ", badge), date))
}

func greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (d dashboardModel) renderCounters(w int) string {
	now := d.svc.Now()
	budget := tracker.BudgetSummary(d.state)
	mood := mutedStyle.Render("not yet")
	if m, ok := tracker.LatestMood(d.state); ok {
		mood = m.Mood.Emoji() + " " + string(m.Mood)
	}

	remaining := successStyle.Render(formatMoney(budget.Remaining))
	if budget.Remaining.IsNegative() {
		remaining = errorStyle.Render(formatMoney(budget.Remaining))
	}

	cells := []struct{ label, value string }{
		{"Pending", highlightStyle.Render(fmt.Sprintf("%d assignments", len(tracker.PendingAssignments(d.state))))},
		{"Budget left", remaining},
		{"Today", highlightStyle.Render(fmt.Sprintf("%d events", len(tracker.TodayEvents(d.state, now))))},
		{"Mood", mood},
	}

	cellWidth := max(16, (w-4)/len(cells))
	var rendered []string
	for _, c := range cells {
		rendered = append(rendered, lipgloss.NewStyle().Width(cellWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, subtitleStyle.Render(c.label), c.value)))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (d dashboardModel) renderTodayPanel(w int) string {
	now := d.svc.Now()
	var rows []string

	rows = append(rows, titleStyle.Render("Today"))
	events := tracker.TodayEvents(d.state, now)
	if len(events) == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing scheduled"))
	}
	for _, e := range events {
		rows = append(rows, fmt.Sprintf("  %s %s  %s",
			eventStyle(e.Type).Render("●"), mutedStyle.Render(formatSpan(e.StartTime, e.EndTime)), e.Title))
	}

	rows = append(rows, "", titleStyle.Render("Upcoming deadlines"))
	pending := tracker.PendingAssignments(d.state)
	if len(pending) == 0 {
		rows = append(rows, mutedStyle.Render("  All caught up"))
	}
	for i, a := range pending {
		if i == maxDeadlines {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(pending)-i)))
			break
		}
		line := "  " + a.Title
		if sub, ok := tracker.SubjectFor(d.state, a); ok {
			line += " " + tagStyle(sub.Color).Render("["+sub.Name+"]")
		}
		due := mutedStyle.Render("  " + a.DueDate.Format("Jan 2 15:04"))
		if a.DueDate.Before(now) {
			due = errorStyle.Render("  overdue")
		}
		rows = append(rows, line+due)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderInsightPanel(w int) string {
	text := d.insight
	switch {
	case d.loading && text == "":
		text = mutedStyle.Render("Thinking…")
	case text == "":
		text = mutedStyle.Render("No insight yet. Press ctrl+r.")
	default:
		text = insightStyle.Render(text)
	}
	title := titleStyle.Render("✦ Insight")
	if d.loading {
		title += mutedStyle.Render("  refreshing")
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, text))
}
