package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/focus"
)

type focusView struct {
	Mode      string `json:"mode"`
	Completed bool   `json:"completed"`
	Remaining int    `json:"remaining"`
	Logged    bool   `json:"logged"`
}

func addFocus(topLevel *cobra.Command, r *runtime) {
	var breakMode, noLog bool
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a 25 minute focus or 5 minute break countdown.",
		Long: `Counts down in the terminal. A finished focus countdown is added to the
schedule as a Study event unless --no-log is given. Interrupt to stop early.`,
		Example: `
quadra focus
quadra focus --break
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			mode := focus.ModeFocus
			if breakMode {
				mode = focus.ModeBreak
			}

			// Ticks print from the scheduler goroutine.
			var mu sync.Mutex
			done := make(chan struct{})
			opts := []focus.Option{
				focus.OnComplete(func(focus.Mode) { close(done) }),
			}
			if !r.oo.JSON {
				opts = append(opts, focus.OnChange(func(s focus.Snapshot) {
					mu.Lock()
					defer mu.Unlock()
					printCountdown(w, s)
				}))
			}
			t := focus.New(append(opts, r.focusOpts...)...)
			defer t.Close()

			t.SwitchMode(mode)
			t.Start()

			select {
			case <-done:
			case <-commandContext(cmd).Done():
				t.Pause()
			}

			mu.Lock()
			defer mu.Unlock()
			snap := t.Snapshot()
			view := focusView{Mode: snap.Mode.String(), Remaining: snap.Remaining, Completed: snap.Remaining == 0}

			if view.Completed && mode == focus.ModeFocus && !noLog {
				if _, err := r.svc.LogFocusSession(r.svc.Now()); err != nil {
					return r.result(cmd, err)
				}
				view.Logged = true
			}

			if r.oo.JSON {
				return r.oo.Print(w, view)
			}
			fmt.Fprintln(w)
			switch {
			case !view.Completed:
				_, _ = faintColor.Fprintf(w, "Stopped with %s left\n", focus.Format(view.Remaining))
			case view.Logged:
				printDone(w, "Focus session added to schedule")
			case mode == focus.ModeFocus:
				printDone(w, "Focus session complete")
			default:
				printDone(w, "Break is over")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&breakMode, "break", "b", false, "Count down a 5 minute break instead.")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "Do not add the finished session to the schedule.")

	topLevel.AddCommand(cmd)
}

func printCountdown(w io.Writer, s focus.Snapshot) {
	_, _ = boldColor.Fprintf(w, "\r%s %s ", s.Mode, focus.Format(s.Remaining))
}
