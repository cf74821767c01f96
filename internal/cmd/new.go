package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gridmux/internal/client"
	"gridmux/internal/sessiondir"
)

func newNewCmd() *cobra.Command {
	var name string
	var detach bool

	c := &cobra.Command{
		Use:   "new [name]",
		Short: "Start a new session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				existing, _ := sessiondir.ListSessions()
				name = generateSessionName(existing)
			}

			cols, rows := 80, 24
			if c, r, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
				cols, rows = c, r
			}

			if err := forkServer(name, cols, rows); err != nil {
				return err
			}

			if detach {
				fmt.Fprintf(os.Stderr, "session %q started (detached). Use 'gridmux-server attach %s' to connect.\n", name, name)
				return nil
			}

			if err := waitForSocket(name, 2*time.Second); err != nil {
				return err
			}
			return client.Attach(name)
		},
	}

	c.Flags().StringVar(&name, "name", "", "session name (auto-generated if omitted)")
	c.Flags().BoolVar(&detach, "detach", false, "don't auto-attach after starting")
	return c
}

// forkServer execs this same binary's hidden _serve subcommand as a
// detached background process, so the new session survives the launching
// shell exiting.
func forkServer(name string, cols, rows int) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	cmd := exec.Command(exe, "_serve",
		"--name", name,
		"--cols", fmt.Sprint(cols),
		"--rows", fmt.Sprint(rows),
	)
	cmd.SysProcAttr = newSysProcAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("fork session server: %w", err)
	}
	return cmd.Process.Release()
}

// waitForSocket polls for a session's socket to appear, since the forked
// server needs a moment to bind it after Start returns.
func waitForSocket(name string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	path := sessiondir.SocketPath(name)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("session %q did not start in time", name)
}
