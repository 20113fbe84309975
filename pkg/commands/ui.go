package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui <file.md>",
		Short: "open a markdown page in the interactive highlighter",
		Example: `
marker ui notes/field-theory.md
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return output.HandleError(tui.Run(svc, args[0]))
		},
	}

	topLevel.AddCommand(cmd)
}
