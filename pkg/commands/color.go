package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/runner/edit"
)

func addColor(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "color <page> <id> <hex>",
		Short: "Set the color of a highlight",
		Example: `
marker color /home/me/notes/field-theory.md 01HZX5M8Q4 "#a5d6a7"
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := edit.Color{
				Page:    args[0],
				ID:      args[1],
				Color:   args[2],
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	topLevel.AddCommand(cmd)
}
