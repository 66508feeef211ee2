package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

func addSubject(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:     "subject",
		Aliases: []string{"subjects"},
		Short:   "Manage subjects.",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a subject. The free plan allows two.",
		Example: `
quadra subject add Organic Chemistry
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := r.svc.AddSubject(strings.Join(args, " "))
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), sub)
			}
			printDone(cmd.OutOrStdout(), "Added %s %s", sub.Name, idColor.Sprint(sub.ID))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"delete"},
		Short:   "Delete a subject and its assignments.",
		Example: `
quadra subject rm History
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := findSubject(r.svc.State(), strings.Join(args, " "))
			if err != nil {
				return r.result(cmd, err)
			}
			if err := r.svc.DeleteSubject(sub.ID); err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), sub)
			}
			printDone(cmd.OutOrStdout(), "Deleted %s", sub.Name)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List subjects with their pending work.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := r.svc.State()
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), st.Subjects)
			}
			w := cmd.OutOrStdout()
			printTitle(w, "Subjects")
			_, _ = faintColor.Fprintln(w, tracker.FreeUsage(st, r.svc.Now()).SubjectLine())
			if len(st.Subjects) == 0 {
				printNone(w)
				return nil
			}
			tbl := newTable()
			tbl.AddRow(boldColor.Sprint("ID"), boldColor.Sprint("Name"), boldColor.Sprint("Color"), boldColor.Sprint("Pending"))
			for _, sub := range st.Subjects {
				tbl.AddRow(idColor.Sprint(sub.ID), sub.Name, string(sub.Color), tracker.PendingFor(st, sub.ID))
			}
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}

	cmd.AddCommand(add, rm, ls)
	topLevel.AddCommand(cmd)
}

// findSubject matches an id exactly or a name case-insensitively.
func findSubject(st store.UserState, ref string) (store.Subject, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return store.Subject{}, errors.New("a subject id or name is required")
	}
	for _, sub := range st.Subjects {
		if sub.ID == ref {
			return sub, nil
		}
	}
	for _, sub := range st.Subjects {
		if strings.EqualFold(sub.Name, ref) {
			return sub, nil
		}
	}
	return store.Subject{}, fmt.Errorf("subject %q: %w", ref, tracker.ErrNotFound)
}
