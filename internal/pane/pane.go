// Package pane defines the identity, geometry, and runtime representation
// of a single rectangle in the screen: a terminal pane, a plugin pane, or a
// placeholder used transiently during layout reconciliation.
package pane

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// Kind distinguishes the two addressable pane families. Ids are never
// reused within a session, and are unique per kind (a Terminal(3) and a
// Plugin(3) are different panes).
type Kind int

const (
	KindTerminal Kind = iota
	KindPlugin
)

func (k Kind) String() string {
	if k == KindPlugin {
		return "plugin"
	}
	return "terminal"
}

// ID is a pane's tagged-variant identifier: a kind (terminal or plugin)
// plus a number unique within that kind.
type ID struct {
	Kind Kind
	Num  uint32
}

func Terminal(n uint32) ID { return ID{Kind: KindTerminal, Num: n} }
func Plugin(n uint32) ID   { return ID{Kind: KindPlugin, Num: n} }

func (id ID) String() string {
	return fmt.Sprintf("%s(%d)", id.Kind, id.Num)
}

// DimensionKind tags a Dimension's variant.
type DimensionKind int

const (
	DimFixed DimensionKind = iota
	DimPercent
	DimAuto
)

// Dimension is a split size: an absolute cell count, a percentage of the
// parent's extent, or Auto (share of whatever remains).
type Dimension struct {
	Kind    DimensionKind
	Fixed   usize
	Percent uint16
}

type usize = uint32

func Fixed(n usize) Dimension    { return Dimension{Kind: DimFixed, Fixed: n} }
func Percent(p uint16) Dimension { return Dimension{Kind: DimPercent, Percent: p} }
func Auto() Dimension            { return Dimension{Kind: DimAuto} }

// StackID names a set of panes that share a rectangle (a stack), with
// exactly one pane expanded at a time.
type StackID uint32

// Geom is a pane's rectangle plus the bookkeeping the tiler needs to place
// and identify it across a layout reapplication.
type Geom struct {
	X, Y           usize
	Rows, Cols     usize
	Stacked        *StackID
	IsPinned       bool
	LogicalPos     *uint32 // left-to-right, top-to-bottom index at layout-apply time
}

// Contains reports whether (x, y) falls within the geometry's rectangle.
func (g Geom) Contains(x, y usize) bool {
	return x >= g.X && x < g.X+g.Cols && y >= g.Y && y < g.Y+g.Rows
}

// Overlaps reports whether two geometries' rectangles intersect.
func (g Geom) Overlaps(o Geom) bool {
	if g.X+g.Cols <= o.X || o.X+o.Cols <= g.X {
		return false
	}
	if g.Y+g.Rows <= o.Y || o.Y+o.Rows <= g.Y {
		return false
	}
	return true
}

// RunCommand is a spawnable child process: its path, arguments, working
// directory, and hold-on-exit behavior.
type RunCommand struct {
	Command     string
	Args        []string
	Cwd         string
	HoldOnClose bool
	HoldOnStart bool
}

// String renders the command the way a held-pane banner or a session-dump
// would show it to a user: a single shell-quoted line.
func (rc RunCommand) String() string {
	parts := append([]string{rc.Command}, rc.Args...)
	return shellquote.Join(parts...)
}

// RunInstructionKind tags a RunInstruction's variant.
type RunInstructionKind int

const (
	RunNone RunInstructionKind = iota
	RunCmd
	RunPlugin
	RunEditFile
	RunCwd
)

// PluginOrAlias names a plugin by URL (or a config-file alias resolved
// upstream of this package) plus its instantiation configuration.
type PluginOrAlias struct {
	URL    string
	Alias  string
	Config map[string]string
}

// RunInstruction is what a layout leaf or a NewPane request asks to run in
// a freshly created pane.
type RunInstruction struct {
	Kind     RunInstructionKind
	Command  RunCommand
	Plugin   PluginOrAlias
	EditFile string
	EditLine int
	Cwd      string
}
