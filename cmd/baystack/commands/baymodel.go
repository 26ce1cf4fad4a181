package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/baystack/cmd/baystack/handlers"
)

// BayModel returns the baymodel command group.
func BayModel() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "baymodel",
		Aliases: []string{"baymodels", "cluster-template"},
		Short:   "Manage baymodels",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create FILE",
		Short: "Create a baymodel from a YAML file",
		Long: `Create a baymodel from a YAML file.

Example file:
  name: k8s
  coe: kubernetes
  image_id: fedora-atomic
  flavor_id: m1.small
  keypair_id: default
  external_network_id: public`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BayModelCreate(cmd.Context(), configPath(cmd), cmd.Flags(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show UUID",
		Short: "Show a baymodel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BayModelShow(cmd.Context(), configPath(cmd), cmd.Flags(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List baymodels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BayModelList(cmd.Context(), configPath(cmd), cmd.Flags())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete UUID",
		Short: "Delete a baymodel no bay refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BayModelDelete(cmd.Context(), configPath(cmd), cmd.Flags(), args[0])
		},
	})

	return cmd
}
