package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imamik/baystack/cmd/baystack/handlers"
)

// Bay returns the bay command group.
func Bay() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bay",
		Aliases: []string{"bays"},
		Short:   "Manage bays",
	}

	cmd.AddCommand(bayCreate())
	cmd.AddCommand(&cobra.Command{
		Use:   "show UUID",
		Short: "Show a bay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BayShow(cmd.Context(), configPath(cmd), cmd.Flags(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BayList(cmd.Context(), configPath(cmd), cmd.Flags())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "scale UUID NODE_COUNT",
		Short: "Change the node count of a bay",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid node count %q: %w", args[1], err)
			}
			return handlers.BayScale(cmd.Context(), configPath(cmd), cmd.Flags(), args[0], count)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete UUID...",
		Short: "Delete one or more bays and their stacks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BayDelete(cmd.Context(), configPath(cmd), cmd.Flags(), args)
		},
	})

	return cmd
}

func bayCreate() *cobra.Command {
	var opts handlers.BayCreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bay and wait for its stack",
		Long: `Create a bay from a baymodel and wait until its Heat stack settles.

Example:
  baystack bay create --name demo --baymodel 94889766-e686-11e9-81b4-2a2ae2dbcce4 --node-count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BayCreate(cmd.Context(), configPath(cmd), cmd.Flags(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Bay name (required)")
	cmd.Flags().StringVar(&opts.BayModelID, "baymodel", "", "Baymodel UUID (required)")
	cmd.Flags().IntVar(&opts.NodeCount, "node-count", 1, "Number of nodes")
	cmd.Flags().StringVar(&opts.DiscoveryURL, "discovery-url", "", "Swarm discovery URL to reuse")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", -1, "Stack create timeout in minutes, 0 disables it (default from config)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("baymodel")

	return cmd
}
