package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/runner/track"
)

func addTrack(topLevel *cobra.Command) {
	year := false
	cmd := &cobra.Command{
		Use:   "track [page]",
		Short: "Show highlight activity on a calendar",
		Example: `
marker track
marker track --year
marker track /home/me/notes/field-theory.md
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			page := ""
			if len(args) > 0 {
				page = args[0]
			}
			s := track.Track{
				Page:    page,
				Year:    year,
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return pageCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&year, "year", false, "Show the whole year.")

	topLevel.AddCommand(cmd)
}
