package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridmux-server",
		Short: "Terminal multiplexer server",
		Long:  "gridmux-server runs and attaches to tiling terminal multiplexer sessions over Unix domain sockets.",
	}

	rootCmd.AddCommand(
		newNewCmd(),
		newAttachCmd(),
		newLsCmd(),
		newKillCmd(),
		newServeCmd(),
	)

	return rootCmd
}
