package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/runner/report"
	"tableflip.dev/marker/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	window := timeutil.DefaultWindow
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report highlights created in a lookback window",
		Example: `
marker report
marker report --window 3d
marker report --window 1w2d
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := report.Report{
				Window:  window,
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().StringVarP(&window, "window", "w", timeutil.DefaultWindow,
		"Lookback window, e.g. 1w, 3d, 12h.")

	topLevel.AddCommand(cmd)
}
