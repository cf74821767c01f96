package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"gridmux/internal/sessiondir"
)

func newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <name>",
		Short: "Terminate a running session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return killSession(args[0])
		},
	}
}

// killSession reads the session's lock file for its server pid and sends
// SIGTERM, letting the server's own signal handler do an orderly Shutdown
// rather than yanking the socket out from under attached clients.
func killSession(name string) error {
	raw, err := os.ReadFile(sessiondir.LockPath(name))
	if err != nil {
		return fmt.Errorf("session %q is not running: %w", name, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("malformed lock file for session %q", name)
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("kill session %q (pid %d): %w", name, pid, err)
	}
	return nil
}
