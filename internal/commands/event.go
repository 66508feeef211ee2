package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/commands/options"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

func addEvent(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Manage the schedule.",
	}

	var kind string
	at := &options.AtOptions{}
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an event to the schedule.",
		Example: `
quadra event add Math Lecture --time=09:00 --duration=90m --type class
quadra event add Final Exam --date=2026-5-20 --time=13:00 --duration=2h --type exam
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := store.ParseEventType(kind)
			if err != nil {
				return r.result(cmd, err)
			}
			start, err := at.GetStart(r.svc.Now())
			if err != nil {
				return r.result(cmd, err)
			}
			if at.Duration <= 0 {
				return r.result(cmd, fmt.Errorf("duration must be positive: %w", tracker.ErrInvalidInput))
			}
			e, err := r.svc.AddEvent(tracker.NewEvent{
				Title: strings.Join(args, " "),
				Type:  typ,
				Start: start,
				End:   start.Add(at.Duration),
			})
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), e)
			}
			printDone(cmd.OutOrStdout(), "Added %s on %s, %s-%s", e.Title,
				e.StartTime.Format("Mon Jan 2"), e.StartTime.Format("15:04"), e.EndTime.Format("15:04"))
			return nil
		},
	}
	names := make([]string, len(store.EventTypes))
	for i, t := range store.EventTypes {
		names[i] = strings.ToLower(string(t))
	}
	add.Flags().StringVarP(&kind, "type", "t", string(store.EventClass),
		"One of "+strings.Join(names, ", ")+".")
	options.AddAtArgs(add, at)

	cmd.AddCommand(add)
	topLevel.AddCommand(cmd)
}
