package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/commands/options"
	"tableflip.dev/marker/pkg/runner/edit"
)

func addRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <page> <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a highlight permanently",
		Example: `
marker rm /home/me/notes/field-theory.md 01HZX5M8Q4
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := edit.Remove{
				Page:    args[0],
				ID:      args[1],
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
