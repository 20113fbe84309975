package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/marker/pkg/runner/migrate"
)

func addMigrate(topLevel *cobra.Command) {
	page := ""
	cmd := &cobra.Command{
		Use:   "migrate <file.md>",
		Short: "Normalize legacy highlight offsets against a page",
		Long: "Re-measures the page and rewrites stored text offsets that " +
			"still use the historical end-relative encoding into canonical " +
			"character offsets.",
		Example: `
marker migrate notes/field-theory.md
marker migrate notes/field-theory.md --page https://example.com/field-theory
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			s := migrate.Migrate{
				Path:    args[0],
				Page:    page,
				Service: svc,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().StringVar(&page, "page", "",
		"Page identity to migrate; defaults to the file's absolute path.")

	topLevel.AddCommand(cmd)
}
