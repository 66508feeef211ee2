// Package commands is the quadra command line. With no subcommand it opens
// the terminal UI; the subcommands script the same operations.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/commands/options"
	"github.com/sadopc/quadra/internal/config"
	"github.com/sadopc/quadra/internal/focus"
	"github.com/sadopc/quadra/internal/gate"
	"github.com/sadopc/quadra/internal/insight"
	"github.com/sadopc/quadra/internal/logger"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

// annotationNoState marks commands that never touch the data directory.
const annotationNoState = "quadra/no-state"

// runtime is what every command works against. It is filled in by the
// root's PersistentPreRunE.
type runtime struct {
	ro options.RootOptions
	oo options.OutputOptions

	cfg    *config.Config
	st     *store.Store
	svc    *tracker.Service
	client *insight.Client

	// serviceOpts lets tests pin the clock and the payment step.
	serviceOpts []tracker.Option
	// focusOpts lets tests replace the wall-clock tick source.
	focusOpts []focus.Option
}

func New() *cobra.Command {
	return newWithRuntime(&runtime{})
}

func newWithRuntime(r *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quadra",
		Short: "Study, time, money and mood in one terminal dashboard.",
		Long: `Quadra tracks subjects and assignments, a focus timer and calendar,
a monthly budget, and a daily mood journal. Run it without arguments to open
the dashboard, or use the subcommands from scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoState] == "true" {
				return nil
			}
			return r.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			r.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runUI()
		},
	}

	options.AddRootArgs(cmd, &r.ro)
	options.AddOutputArg(cmd, &r.oo)

	addCommands(cmd, r)
	return cmd
}

func addCommands(topLevel *cobra.Command, r *runtime) {
	addUI(topLevel, r)
	addStatus(topLevel, r)
	addSubject(topLevel, r)
	addAssignment(topLevel, r)
	addExpense(topLevel, r)
	addMood(topLevel, r)
	addEvent(topLevel, r)
	addCalendar(topLevel, r)
	addFocus(topLevel, r)
	addUpgrade(topLevel, r)
	addInsight(topLevel, r)
	addExport(topLevel, r)
	addReset(topLevel, r)
	addVersion(topLevel)
}

// open loads config and storage. CLI runs log warnings to stderr; the UI
// switches to a file before it takes over the screen.
func (r *runtime) open() error {
	cfg, err := config.Load(r.ro.Config())
	if err != nil {
		return err
	}
	r.cfg = cfg

	logger.Init(logger.Options{Mode: cfg.Log.Mode, Level: "warn"})

	p, err := store.OpenPersistence(cfg.Storage.Backend, cfg.DataDir, cfg.Storage.Slot)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	r.st = store.New(p)

	opts := []tracker.Option{tracker.WithAuthorizer(gate.SimulatedPayment{Delay: cfg.Upgrade.Delay})}
	r.svc = tracker.New(r.st, append(opts, r.serviceOpts...)...)
	r.client = insight.NewGeminiClient(cfg.Gemini())

	logger.Get().Debugw("opened", "backend", cfg.Storage.Backend, "dataDir", cfg.DataDir)
	return nil
}

func (r *runtime) close() {
	if r.st != nil {
		if err := r.st.Close(); err != nil {
			logger.Get().Warnw("close storage", "error", err)
		}
		r.st = nil
	}
	logger.Sync()
}

// result reports err in the requested format. Free plan denials get a hint
// instead of a bare error.
func (r *runtime) result(cmd *cobra.Command, err error) error {
	if errors.Is(err, tracker.ErrUpgradeRequired) {
		err = fmt.Errorf("%w: run `quadra upgrade` to lift the free plan limits", err)
	}
	return r.oo.HandleError(cmd.OutOrStdout(), err)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
