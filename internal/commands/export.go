package commands

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sadopc/quadra/internal/export"
)

func addExport(topLevel *cobra.Command, r *runtime) {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write expenses as CSV or a full JSON backup.",
		Example: `
quadra export
quadra export --format json --output ~/backups/quadra.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != export.FormatCSV && format != export.FormatJSON {
				return r.result(cmd, fmt.Errorf("format must be %s or %s, got %q", export.FormatCSV, export.FormatJSON, format))
			}
			path := output
			if path == "" {
				path = export.DefaultName(format, r.svc.Now())
			}
			path, err := homedir.Expand(path)
			if err != nil {
				return r.result(cmd, err)
			}
			if err := export.Write(format, r.svc.State(), path); err != nil {
				return r.result(cmd, err)
			}
			if r.oo.JSON {
				return r.oo.Print(cmd.OutOrStdout(), map[string]string{"path": path, "format": format})
			}
			printDone(cmd.OutOrStdout(), "Exported to %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "One of csv, json.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write. Defaults to a dated name in the current directory.")

	topLevel.AddCommand(cmd)
}
