package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

const (
	formExpense = "expense"
	formBudget  = "budget"
)

var categoryColors = map[store.Category]lipgloss.Color{
	store.CategoryFood:      colorAccent,
	store.CategoryTransport: colorHighlight,
	store.CategoryStudy:     colorPrimary,
	store.CategoryPersonal:  colorSecondary,
	store.CategoryOther:     colorMuted,
}

// maxExpenseRows bounds the recent expenses list.
const maxExpenseRows = 8

type moneyModel struct {
	svc    *tracker.Service
	state  store.UserState
	width  int
	height int

	chart barchart.Model

	formActive bool
	form       *huh.Form
	formType   string

	// Form field pointers (survive value copies)
	formAmount      *string
	formCategory    *string
	formDescription *string
}

func newMoneyModel(svc *tracker.Service) moneyModel {
	amount, cat, desc := "", string(store.CategoryFood), ""
	m := moneyModel{
		svc:             svc,
		state:           svc.State(),
		chart:           barchart.New(60, 10),
		formAmount:      &amount,
		formCategory:    &cat,
		formDescription: &desc,
	}
	m.buildChart()
	return m
}

func (m *moneyModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m *moneyModel) setState(st store.UserState) {
	m.state = st
	m.buildChart()
}

func (m moneyModel) update(msg tea.Msg) (moneyModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.New):
			return m.showExpenseForm()
		case key.Matches(msg, keys.Budget):
			return m.showBudgetForm()
		}
	}
	return m, nil
}

func (m moneyModel) showExpenseForm() (moneyModel, tea.Cmd) {
	*m.formAmount = ""
	*m.formCategory = string(store.CategoryFood)
	*m.formDescription = ""
	m.formType = formExpense

	catOptions := make([]huh.Option[string], len(store.Categories))
	for i, c := range store.Categories {
		catOptions[i] = huh.NewOption(string(c), string(c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Amount").Value(m.formAmount).Validate(validAmount),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().Title("Description").Value(m.formDescription).Validate(notBlank),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m moneyModel) showBudgetForm() (moneyModel, tea.Cmd) {
	*m.formAmount = m.state.Budget.StringFixed(2)
	m.formType = formBudget

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Monthly budget").Value(m.formAmount).Validate(validAmount),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m moneyModel) updateForm(msg tea.Msg) (moneyModel, tea.Cmd) {
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
		m.formActive = false
		return m.saveForm()
	}

	return m, cmd
}

func (m moneyModel) saveForm() (moneyModel, tea.Cmd) {
	amount, err := parseAmount(*m.formAmount)
	if err != nil {
		return m, errorCmd(err)
	}
	switch m.formType {
	case formExpense:
		e, err := m.svc.AddExpense(tracker.NewExpense{
			Amount:      amount,
			Category:    store.Category(*m.formCategory),
			Description: *m.formDescription,
		})
		m.setState(m.svc.State())
		return m, intentResult(err, "", fmt.Sprintf("Logged %s for %s", formatMoney(e.Amount), e.Description))
	case formBudget:
		err := m.svc.SetBudget(amount)
		m.setState(m.svc.State())
		return m, intentResult(err, "", "Budget set to "+formatMoney(amount))
	}
	return m, nil
}

func (m *moneyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if m.height > 30 {
		chartHeight = 12
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	summary := tracker.BudgetSummary(m.state)
	var bars []barchart.BarData
	for _, c := range store.Categories {
		value := 0.0
		for _, t := range summary.ByCategory {
			if t.Category == c {
				value, _ = t.Total.Float64()
			}
		}
		bars = append(bars, barchart.BarData{
			Label: string(c),
			Values: []barchart.BarValue{{
				Name:  string(c),
				Value: value,
				Style: lipgloss.NewStyle().Foreground(categoryColors[c]),
			}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m moneyModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Expense")
		if m.formType == formBudget {
			title = titleStyle.Render("Budget")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()))
	}

	summary := tracker.BudgetSummary(m.state)
	remaining := successStyle.Render(formatMoney(summary.Remaining))
	if summary.Remaining.IsNegative() {
		remaining = errorStyle.Render(formatMoney(summary.Remaining))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Budget"), "  ",
		highlightStyle.Render(formatMoney(summary.Spent)),
		mutedStyle.Render(" of "+formatMoney(summary.Budget)+" spent  "),
		remaining, mutedStyle.Render(" left"),
	)

	barStyle := successStyle
	if summary.Used() >= 0.9 {
		barStyle = errorStyle
	} else if summary.Used() >= 0.7 {
		barStyle = warningStyle
	}
	bar := progressBar(summary.Used(), max(10, w-10), barStyle)

	nav := mutedStyle.Render("  n: new expense  B: set budget")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, bar, "",
			subtitleStyle.Render("Spending by category"), m.chart.View(), "",
			m.renderExpenses(), "", nav,
		),
	)
}

func (m moneyModel) renderExpenses() string {
	if len(m.state.Expenses) == 0 {
		return mutedStyle.Render("  No expenses yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-8s %-10s %10s  %s", "Date", "Category", "Amount", "Description")))
	for i, e := range m.state.Expenses {
		if i == maxExpenseRows {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(m.state.Expenses)-i)))
			break
		}
		cat := lipgloss.NewStyle().Foreground(categoryColors[e.Category]).Render(fmt.Sprintf("%-10s", e.Category))
		rows = append(rows, fmt.Sprintf("  %-8s %s %10s  %s",
			e.Date.Format("Jan 02"), cat, formatMoney(e.Amount), e.Description))
	}
	return strings.Join(rows, "\n")
}
