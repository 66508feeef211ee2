package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

func addMood(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:     "mood",
		Aliases: []string{"journal", "mind"},
		Short:   "Check in with how you feel.",
	}

	names := make([]string, len(store.Moods))
	for i, m := range store.Moods {
		names[i] = strings.ToLower(string(m))
	}

	add := &cobra.Command{
		Use:   "add <mood> [note]",
		Short: "Record today's mood. The free plan allows one entry per day.",
		Example: `
quadra mood add calm finished the essay early
`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := store.ParseMood(args[0])
			if err != nil {
				return r.result(cmd, fmt.Errorf("%w, want one of %s", err, strings.Join(names, ", ")))
			}
			e, err := r.svc.AddMood(mood, strings.Join(args[1:], " "))
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), e)
			}
			printDone(cmd.OutOrStdout(), "Feeling %s today %s", strings.ToLower(string(e.Mood)), e.Mood.Emoji())
			return nil
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show the journal and the quote of the day.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := r.svc.State()
			if r.oo.JSON {
				items := st.Moods
				if items == nil {
					items = []store.MoodEntry{}
				}
				return r.oo.Print(cmd.OutOrStdout(), items)
			}

			w := cmd.OutOrStdout()
			now := r.svc.Now()
			_, _ = color.New(color.Italic).Fprintf(w, "“%s”\n\n", tracker.QuoteOfTheDay(now))
			printTitleWithCount(w, "Journal", len(st.Moods))
			_, _ = faintColor.Fprintln(w, tracker.FreeUsage(st, now).MoodLine())
			if len(st.Moods) == 0 {
				printNone(w)
				return nil
			}
			tbl := newTable()
			tbl.MaxColWidth = 60
			tbl.Wrap = true
			for _, e := range st.Moods {
				tbl.AddRow(e.Mood.Emoji(), e.Date.Format("Mon Jan 2 15:04"), boldColor.Sprint(string(e.Mood)), e.Note)
			}
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}

	cmd.AddCommand(add, ls)
	topLevel.AddCommand(cmd)
}
