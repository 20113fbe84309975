package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/commands/options"
	"tableflip.dev/marker/pkg/runner/note"
)

func addNote(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "note <page> <id> <text...>",
		Aliases: []string{"notes"},
		Short:   "Attach a note to a highlight",
		Example: `
marker note /home/me/notes/field-theory.md 01HZX5M8Q4 check the units here
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return errors.New("requires a page, a highlight id, and a note")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := note.Note{
				Page:    args[0],
				ID:      args[1],
				Note:    strings.Join(args[2:], " "),
				Service: svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
