package cmd

import (
	"github.com/spf13/cobra"

	"gridmux/internal/client"
)

func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <name>",
		Short: "Attach to a running session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Attach(args[0])
		},
	}
}
