package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/commands/options"
	"tableflip.dev/marker/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list [page]",
		Short: "list stored highlights",
		Long: "List the highlights of one page, or the page overview when no " +
			"page is given. A page is the document identity highlights were " +
			"stored under, typically an absolute file path or a URL.",
		Example: `
marker list
marker list /home/me/notes/field-theory.md --show-id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := list.List{
				ShowID:  io.ShowID,
				Page:    strings.Join(args, " "),
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return pageCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
