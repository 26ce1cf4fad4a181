package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/baystack/cmd/baystack/handlers"
)

// Templates returns the templates command group.
func Templates() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and publish Heat templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates of the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.TemplatesList(cmd.Context(), configPath(cmd), cmd.Flags())
		},
	}
	list.Flags().String("templates-source", "", "Template source (embedded, dir, s3)")
	list.Flags().String("templates-dir", "", "Template directory for the dir source")
	cmd.AddCommand(list)

	var dir string
	push := &cobra.Command{
		Use:   "push",
		Short: "Upload templates to the configured S3 bucket",
		Long: `Upload templates to templates.s3.bucket under templates.s3.prefix.

Without --dir the built-in templates are uploaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.TemplatesPush(cmd.Context(), configPath(cmd), cmd.Flags(), dir)
		},
	}
	push.Flags().StringVar(&dir, "dir", "", "Local template directory to upload")
	cmd.AddCommand(push)

	return cmd
}
