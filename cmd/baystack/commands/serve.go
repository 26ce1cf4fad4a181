package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/baystack/cmd/baystack/handlers"
)

// Serve returns the serve command.
func Serve() *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bay conductor and its HTTP API",
		Long: `Serve runs the bay conductor behind the HTTP API.

Create, scale and delete requests are accepted immediately and followed
in the background until the Heat stack settles. On startup, bays left in
an in-progress state by a previous process are picked up again unless
--resume=false is given.

Example:
  baystack serve -c baystack.yaml --listen :9511`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath(cmd), cmd.Flags(), resume)
		},
	}

	cmd.Flags().String("listen", "", "HTTP listen address (default from config, :9511)")
	cmd.Flags().String("templates-source", "", "Template source (embedded, dir, s3)")
	cmd.Flags().String("templates-dir", "", "Template directory for the dir source")
	cmd.Flags().BoolVar(&resume, "resume", true, "Resume interrupted bay operations on startup")

	return cmd
}
