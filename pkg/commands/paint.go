package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/runner/paint"
)

func addPaint(topLevel *cobra.Command) {
	width := 0
	cmd := &cobra.Command{
		Use:   "paint <file.md>",
		Short: "render a page with its highlights once and exit",
		Example: `
marker paint notes/field-theory.md
marker paint notes/field-theory.md --width 100
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := paint.Paint{
				Path:    args[0],
				Width:   width,
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Render width in terminal cells; 0 means 80.")

	topLevel.AddCommand(cmd)
}
