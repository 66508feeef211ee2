package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

func addReset(topLevel *cobra.Command, r *runtime) {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all data and start over from the sample data.",
		Example: `
quadra reset --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return r.result(cmd, errors.New("reset erases every subject, expense and journal entry; pass --yes to confirm"))
			}
			st, err := r.svc.Reset()
			if err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), map[string]interface{}{"reset": true, "subjects": len(st.Subjects)})
			}
			printDone(cmd.OutOrStdout(), "Data reset to the sample set")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm erasing all data.")

	topLevel.AddCommand(cmd)
}
