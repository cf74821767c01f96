// Package server wires the bus, screen, pty manager, rendering pipeline,
// plugin bridge, and client protocol into a running session: one process
// per session, listening on its Unix socket, with the screen, pty tasks,
// and client connections all constructed and wired together in one place.
package server

import (
	"fmt"
	"os"

	"gridmux/internal/grid"
	"gridmux/internal/pane"
	"gridmux/internal/pty"
	"gridmux/internal/vtparser"
)

// parserSink adapts *vtparser.Parser (a plain byte-stream consumer) to
// pty.Sink's (int, error)-returning Write, so a pty.Terminal can feed a
// parser directly without the parser needing to know it sits behind a PTY.
type parserSink struct{ p *vtparser.Parser }

func (s parserSink) Write(b []byte) (int, error) {
	s.p.Write(b)
	return len(b), nil
}

// defaultShell returns the user's configured shell, falling back to
// /bin/sh when $SHELL is unset (a minimal container environment, say).
func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// spawnedTerminal bundles a live terminal pane with the PTY process and
// grid backing it, everything the pty task and render pipeline each need
// a handle to.
type spawnedTerminal struct {
	Pane     *pane.TerminalPane
	Grid     *grid.Grid
	Terminal *pty.Terminal
}

// SpawnTerminal starts run's command in a PTY sized to geom, wires its
// output through a vtparser.Parser into a freshly created Grid, and
// returns the assembled TerminalPane. onData fires (from the PTY's reader
// goroutine) whenever new output arrives, for the render loop's dirty-tab
// bookkeeping.
func SpawnTerminal(id pane.ID, geom pane.Geom, run pane.RunCommand, scrollback int, links *grid.LinkHandler, images *grid.SixelImageStore, onData func()) (*spawnedTerminal, error) {
	cols, rows := int(geom.Cols), int(geom.Rows)
	g := grid.New(cols, rows, scrollback, images, links)
	parser := vtparser.New(g)

	command := run.Command
	if command == "" {
		command = defaultShell()
	}
	term, err := pty.Spawn(command, run.Args, run.Cwd, rows, cols, nil, parserSink{parser}, onData)
	if err != nil {
		return nil, fmt.Errorf("spawn terminal %s: %w", id, err)
	}

	p := pane.NewTerminalPane(id, geom, run, g)
	return &spawnedTerminal{Pane: p, Grid: g, Terminal: term}, nil
}
