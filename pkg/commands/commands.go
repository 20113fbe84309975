package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/marker/pkg/app"
	"tableflip.dev/marker/pkg/commands/options"
	"tableflip.dev/marker/pkg/store"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "marker",
		Short: base.Wrap80("Highlight and annotate markdown pages in the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addPaint(topLevel)
	addList(topLevel)
	addNote(topLevel)
	addColor(topLevel)
	addRemove(topLevel)
	addReport(topLevel)
	addTrack(topLevel)
	addMigrate(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// newService wires the disk-backed store into the highlight service.
func newService() (*app.Service, error) {
	p, err := store.Load(nil)
	if err != nil {
		return nil, err
	}
	return &app.Service{Persistence: p}, nil
}
