package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"gridmux/internal/sessiondir"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List running sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := sessiondir.ListSessions()
			if err != nil {
				return err
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}
