package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/tracker"
)

type statusView struct {
	Name        string `json:"name"`
	Premium     bool   `json:"premium"`
	Budget      string `json:"budget"`
	Spent       string `json:"spent"`
	Remaining   string `json:"remaining"`
	Pending     int    `json:"pendingAssignments"`
	TodayEvents int    `json:"todayEvents"`
	Mood        string `json:"mood,omitempty"`
	Subjects    string `json:"subjects"`
	Journal     string `json:"journal"`
}

func addStatus(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard summary.",
		Example: `
quadra status
quadra status --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := r.svc.State()
			now := r.svc.Now()
			budget := tracker.BudgetSummary(st)
			usage := tracker.FreeUsage(st, now)

			v := statusView{
				Name:        st.Name,
				Premium:     st.IsPremium,
				Budget:      budget.Budget.StringFixed(2),
				Spent:       budget.Spent.StringFixed(2),
				Remaining:   budget.Remaining.StringFixed(2),
				Pending:     len(tracker.PendingAssignments(st)),
				TodayEvents: len(tracker.TodayEvents(st, now)),
				Subjects:    usage.SubjectLine(),
				Journal:     usage.MoodLine(),
			}
			if m, ok := tracker.LatestMood(st); ok {
				v.Mood = string(m.Mood)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), v)
			}

			w := cmd.OutOrStdout()
			plan := faintColor.Sprint("FREE")
			if v.Premium {
				plan = goodColor.Sprint("PREMIUM")
			}
			_, _ = boldColor.Fprint(w, v.Name)
			_, _ = fmt.Fprintf(w, "  %s  %s\n\n", plan, faintColor.Sprint(now.Format("Monday, January 2")))

			remaining := goodColor.Sprint(formatMoney(budget.Remaining))
			if budget.Remaining.IsNegative() {
				remaining = badColor.Sprint(formatMoney(budget.Remaining))
			}
			mood := faintColor.Sprint("not yet")
			if v.Mood != "" {
				mood = v.Mood
			}

			tbl := newTable()
			tbl.AddRow("Pending", fmt.Sprintf("%d assignments", v.Pending))
			tbl.AddRow("Budget left", remaining+" of "+formatMoney(budget.Budget))
			tbl.AddRow("Today", fmt.Sprintf("%d events", v.TodayEvents))
			tbl.AddRow("Mood", mood)
			tbl.AddRow("Subjects", v.Subjects)
			tbl.AddRow("Journal", v.Journal)
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
