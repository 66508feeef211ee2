package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/commands/options"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

func addAssignment(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:     "assignment",
		Aliases: []string{"assignments", "hw"},
		Short:   "Manage assignments.",
	}

	var subject string
	dueOpts := &options.OnOptions{}
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an assignment to a subject.",
		Example: `
quadra assignment add Problem Set 3 --subject Mathematics --date=2026-3-20
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := r.svc.State()
			sub, err := findSubject(st, subject)
			if err != nil {
				return r.result(cmd, err)
			}
			now := r.svc.Now()
			day, err := dueOpts.GetOn(now)
			if err != nil {
				return r.result(cmd, err)
			}
			dueAt := now
			if dueOpts.OnString != "" {
				// Due at the end of the chosen day.
				dueAt = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, day.Location())
			}
			a, err := r.svc.AddAssignment(tracker.NewAssignment{SubjectID: sub.ID, Title: strings.Join(args, " "), Due: dueAt})
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), a)
			}
			printDone(cmd.OutOrStdout(), "Added %s to %s, due %s %s", a.Title, sub.Name, a.DueDate.Format("Jan 2 15:04"), idColor.Sprint(a.ID))
			return nil
		},
	}
	add.Flags().StringVarP(&subject, "subject", "s", "", "Subject id or name.")
	_ = add.MarkFlagRequired("subject")
	options.AddOnArgs(add, dueOpts)

	toggle := &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark an assignment complete, or reopen it.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.svc.ToggleAssignment(args[0])
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), a)
			}
			if a.Completed {
				printDone(cmd.OutOrStdout(), "Completed %s", a.Title)
			} else {
				printDone(cmd.OutOrStdout(), "Reopened %s", a.Title)
			}
			return nil
		},
	}

	var pending bool
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List assignments.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := r.svc.State()
			items := st.Assignments
			if pending {
				items = tracker.PendingAssignments(st)
			}
			if r.oo.JSON {
				if items == nil {
					items = []store.Assignment{}
				}
				return r.oo.Print(cmd.OutOrStdout(), items)
			}

			w := cmd.OutOrStdout()
			printTitleWithCount(w, "Assignments", len(items))
			if len(items) == 0 {
				printNone(w)
				return nil
			}
			now := r.svc.Now()
			tbl := newTable()
			for _, a := range items {
				mark := "[ ]"
				if a.Completed {
					mark = goodColor.Sprint("[x]")
				}
				subjectName := faintColor.Sprint("(no subject)")
				if sub, ok := tracker.SubjectFor(st, a); ok {
					subjectName = sub.Name
				}
				due := a.DueDate.Format("Jan 2 15:04")
				if !a.Completed && a.DueDate.Before(now) {
					due = badColor.Sprint("overdue")
				}
				tbl.AddRow(idColor.Sprint(a.ID), mark, a.Title, subjectName, due)
			}
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}
	ls.Flags().BoolVar(&pending, "pending", false, "Only show assignments that are not done.")

	cmd.AddCommand(add, toggle, ls)
	topLevel.AddCommand(cmd)
}
