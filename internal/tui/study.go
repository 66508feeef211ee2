package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/gate"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

const subjectLimitReason = "The free plan is limited to 2 subjects."

const (
	formSubject    = "subject"
	formAssignment = "assignment"
)

type studyModel struct {
	svc    *tracker.Service
	state  store.UserState
	width  int
	height int

	cursor             int
	assignmentCursor   int
	viewingAssignments bool // true = assignments of the selected subject

	formActive bool
	form       *huh.Form
	formType   string

	// Form field pointers (survive value copies)
	formName *string
	formDue  *string
}

func newStudyModel(svc *tracker.Service) studyModel {
	name, due := "", ""
	return studyModel{
		svc:      svc,
		state:    svc.State(),
		formName: &name,
		formDue:  &due,
	}
}

func (p *studyModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *studyModel) setState(st store.UserState) {
	p.state = st
	if p.cursor >= len(st.Subjects) {
		p.cursor = max(0, len(st.Subjects)-1)
	}
	if n := len(p.assignments()); p.assignmentCursor >= n {
		p.assignmentCursor = max(0, n-1)
	}
	if len(st.Subjects) == 0 {
		p.viewingAssignments = false
	}
}

func (p studyModel) selected() (store.Subject, bool) {
	if p.cursor < len(p.state.Subjects) {
		return p.state.Subjects[p.cursor], true
	}
	return store.Subject{}, false
}

// assignments lists the selected subject's assignments in document order.
func (p studyModel) assignments() []store.Assignment {
	sub, ok := p.selected()
	if !ok {
		return nil
	}
	var out []store.Assignment
	for _, a := range p.state.Assignments {
		if a.SubjectID == sub.ID {
			out = append(out, a)
		}
	}
	return out
}

func (p studyModel) update(msg tea.Msg) (studyModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.viewingAssignments {
			return p.updateAssignmentView(msg)
		}
		return p.updateSubjectList(msg)
	}
	return p, nil
}

func (p studyModel) updateSubjectList(msg tea.KeyMsg) (studyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.state.Subjects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.state.Subjects) > 0 {
			p.viewingAssignments = true
			p.assignmentCursor = 0
		}
	case key.Matches(msg, keys.New):
		return p.showSubjectForm()
	case key.Matches(msg, keys.NewItem):
		if len(p.state.Subjects) > 0 {
			return p.showAssignmentForm()
		}
	case key.Matches(msg, keys.Delete):
		if sub, ok := p.selected(); ok {
			err := p.svc.DeleteSubject(sub.ID)
			p.setState(p.svc.State())
			return p, intentResult(err, "", "Deleted "+sub.Name)
		}
	}
	return p, nil
}

func (p studyModel) updateAssignmentView(msg tea.KeyMsg) (studyModel, tea.Cmd) {
	items := p.assignments()
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingAssignments = false
	case key.Matches(msg, keys.Up):
		if p.assignmentCursor > 0 {
			p.assignmentCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.assignmentCursor < len(items)-1 {
			p.assignmentCursor++
		}
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Toggle):
		if p.assignmentCursor < len(items) {
			a, err := p.svc.ToggleAssignment(items[p.assignmentCursor].ID)
			p.setState(p.svc.State())
			done := "Reopened " + a.Title
			if a.Completed {
				done = "Completed " + a.Title
			}
			return p, intentResult(err, "", done)
		}
	case key.Matches(msg, keys.New), key.Matches(msg, keys.NewItem):
		return p.showAssignmentForm()
	}
	return p, nil
}

func (p studyModel) showSubjectForm() (studyModel, tea.Cmd) {
	// Check the plan before asking for input the gate would reject.
	if !gate.CanAddSubject(p.state) {
		return p, func() tea.Msg { return upgradePromptMsg{reason: subjectLimitReason} }
	}

	*p.formName = ""
	p.formType = formSubject
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subject Name").Value(p.formName).Validate(notBlank),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p studyModel) showAssignmentForm() (studyModel, tea.Cmd) {
	*p.formName = ""
	*p.formDue = p.svc.Now().Format("2006-01-02")
	p.formType = formAssignment

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Assignment Title").Value(p.formName).Validate(notBlank),
			huh.NewInput().Title("Due (YYYY-MM-DD)").Value(p.formDue).Validate(validDay),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p studyModel) updateForm(msg tea.Msg) (studyModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case formSubject:
			return p.saveSubject()
		case formAssignment:
			return p.saveAssignment()
		}
	}

	return p, cmd
}

func (p studyModel) saveSubject() (studyModel, tea.Cmd) {
	sub, err := p.svc.AddSubject(*p.formName)
	p.setState(p.svc.State())
	if err == nil {
		p.cursor = len(p.state.Subjects) - 1
	}
	return p, intentResult(err, subjectLimitReason, "Added "+sub.Name)
}

func (p studyModel) saveAssignment() (studyModel, tea.Cmd) {
	sub, ok := p.selected()
	if !ok {
		return p, nil
	}
	now := p.svc.Now()
	due, err := parseDay(*p.formDue, now)
	if err != nil {
		return p, errorCmd(err)
	}
	if strings.TrimSpace(*p.formDue) != "" {
		// Due at the end of the chosen day.
		due = due.Add(23*time.Hour + 59*time.Minute)
	}
	a, err := p.svc.AddAssignment(tracker.NewAssignment{SubjectID: sub.ID, Title: *p.formName, Due: due})
	p.setState(p.svc.State())
	return p, intentResult(err, "", "Added "+a.Title)
}

func (p studyModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Subject")
		if p.formType == formAssignment {
			if sub, ok := p.selected(); ok {
				title = titleStyle.Render("New Assignment for " + sub.Name)
			}
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingAssignments {
		return p.renderAssignmentView()
	}
	return p.renderSubjectList()
}

func (p studyModel) renderSubjectList() string {
	w := p.width - 4
	usage := tracker.FreeUsage(p.state, p.svc.Now())
	title := titleStyle.Render("Subjects") + "  " + mutedStyle.Render(usage.SubjectLine())

	if len(p.state.Subjects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No subjects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-28s %-8s", "", "Name", "Pending"))
	rows = append(rows, header)

	for i, sub := range p.state.Subjects {
		colorDot := tagStyle(sub.Color).Render("●")
		style := normalItemStyle
		if i == p.cursor {
			style = selectedItemStyle
		}
		pending := tracker.PendingFor(p.state, sub.ID)
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-28s %-8d", cursorPrefix(i == p.cursor), colorDot, sub.Name, pending)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new subject  a: add assignment  d: delete  enter: assignments"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p studyModel) renderAssignmentView() string {
	w := p.width - 4
	sub, _ := p.selected()
	colorDot := tagStyle(sub.Color).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s / Assignments", colorDot, sub.Name))

	items := p.assignments()
	if len(items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No assignments. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := p.svc.Now()
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, a := range items {
		check := "[ ]"
		style := normalItemStyle
		if a.Completed {
			check = "[x]"
			style = doneItemStyle
		}
		if i == p.assignmentCursor && !a.Completed {
			style = selectedItemStyle
		}
		due := mutedStyle.Render(" due " + a.DueDate.Format("Jan 2"))
		if !a.Completed && a.DueDate.Before(now) {
			due = errorStyle.Render(" overdue " + a.DueDate.Format("Jan 2"))
		}
		rows = append(rows, cursorPrefix(i == p.assignmentCursor)+style.Render(check+" "+a.Title)+due)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new assignment  space: toggle  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
