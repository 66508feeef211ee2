package commands

import (
	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/insight"
	"github.com/sadopc/quadra/internal/logger"
	"github.com/sadopc/quadra/internal/tui"
)

func addUI(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal dashboard (the default).",
		Example: `
quadra ui
quadra ui --backend sqlite
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runUI()
		},
	}

	topLevel.AddCommand(cmd)
}

func (r *runtime) runUI() error {
	if err := ensureDir(r.cfg.DataDir); err != nil {
		return err
	}
	// The screen belongs to the UI from here on.
	logger.Init(logger.Options{Mode: r.cfg.Log.Mode, Level: r.cfg.Log.Level, Path: r.cfg.LogPath()})
	logger.Get().Infow("starting ui", "backend", r.cfg.Storage.Backend)

	insightInfo := "not configured"
	if r.client.Configured() {
		insightInfo = "Gemini " + r.cfg.Insight.Model
	}

	app := tui.NewApp(r.svc, insight.NewLatest(r.client),
		tui.WithInfo("Storage", r.cfg.Storage.Backend),
		tui.WithInfo("Data directory", r.cfg.DataDir),
		tui.WithInfo("Insights", insightInfo),
		tui.WithInfo("Version", version),
	)
	return tui.Run(app)
}
