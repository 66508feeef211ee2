package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func addInsight(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Ask for a short tip based on your current week.",
		Long: `Sends a summary of pending work, budget and recent moods to Gemini and
prints a two sentence tip. Set QUADRA_API_KEY or GEMINI_API_KEY first.`,
		Example: `
quadra insight
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := r.client.Insight(commandContext(cmd), r.svc.State())
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), map[string]interface{}{
					"insight":    text,
					"configured": r.client.Configured(),
				})
			}
			_, _ = color.New(color.FgMagenta).Fprint(cmd.OutOrStdout(), "✦ ")
			_, _ = color.New(color.Italic).Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
