package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gridmux/internal/pane"
	"gridmux/internal/server"
	"gridmux/internal/sessiondir"
)

// newServeCmd returns the hidden subcommand a forked session process runs
// as: bind the session's socket, acquire its lock, and serve until killed.
// Not meant to be invoked directly by a user; newNewCmd execs this.
func newServeCmd() *cobra.Command {
	var name string
	var cols, rows int

	c := &cobra.Command{
		Use:    "_serve --name=<name>",
		Short:  "Run a session server (internal)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			lock, err := sessiondir.AcquireLock(name)
			if err != nil {
				return fmt.Errorf("session %q already running: %w", name, err)
			}
			defer lock.Close()
			defer sessiondir.ReleaseLock(name)

			viewport := pane.Geom{Rows: uint32(rows), Cols: uint32(cols)}
			srv := server.New(name, viewport)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
			go func() {
				<-sigCh
				srv.Shutdown()
			}()

			return srv.Serve()
		},
	}

	c.Flags().StringVar(&name, "name", "", "session name")
	c.Flags().IntVar(&cols, "cols", 80, "initial viewport columns")
	c.Flags().IntVar(&rows, "rows", 24, "initial viewport rows")
	return c
}
