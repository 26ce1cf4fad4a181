// Package commands defines the CLI command structure and flag bindings.
//
// Commands parse arguments and flags and delegate execution to the
// handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the baystack CLI.
//
// Persistent flags override the matching configuration keys for every
// subcommand.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "baystack",
		Short:         "Provision container clusters through OpenStack Heat",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to configuration file")
	flags.String("database-driver", "", "Repository driver (memory, postgres)")
	flags.String("database-url", "", "PostgreSQL connection URL")
	flags.Bool("log-development", false, "Human readable log output")

	cmd.AddCommand(Serve())
	cmd.AddCommand(BayModel())
	cmd.AddCommand(Bay())
	cmd.AddCommand(Templates())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// configPath returns the value of the persistent --config flag.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
