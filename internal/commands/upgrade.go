package commands

import (
	"github.com/spf13/cobra"
)

func addUpgrade(topLevel *cobra.Command, r *runtime) {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Go Premium: unlimited subjects and journal entries.",
		Example: `
quadra upgrade
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if r.svc.State().IsPremium {
				if r.oo.JSON {
					return r.oo.Print(w, map[string]bool{"premium": true})
				}
				printDone(w, "Already on Premium")
				return nil
			}
			if !r.oo.JSON {
				_, _ = faintColor.Fprintln(w, "Processing payment…")
			}
			if err := r.svc.Upgrade(commandContext(cmd)); err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(w, map[string]bool{"premium": true})
			}
			printDone(w, "Welcome to Premium")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
