package pane

import (
	"os"
	"sync"
)

// Renderable is the capability set every pane variant that can appear in a
// rendered frame must implement. It deliberately stays render-agnostic:
// the rendering pipeline (internal/render) asks for chunks, not pixels.
type Renderable interface {
	ID() ID
	Geom() Geom
	SetGeom(Geom)
	Name() string
	SetName(string)
	Borderless() bool
}

// Pane is the tagged variant implemented by every concrete pane kind.
// Each kind embeds Common and is distinguished by a type switch at the
// point that needs kind-specific behavior, rather than by inheritance.
type Pane interface {
	Renderable
	Selectable() bool
}

// Common holds the fields every pane variant shares.
type Common struct {
	mu         sync.Mutex
	id         ID
	geom       Geom
	name       string
	borderless bool
	excludeFromSync bool
}

func newCommon(id ID, geom Geom) Common {
	return Common{id: id, geom: geom}
}

func (c *Common) ID() ID   { return c.id }
func (c *Common) Geom() Geom {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geom
}
func (c *Common) SetGeom(g Geom) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geom = g
}
func (c *Common) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}
func (c *Common) SetName(n string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = n
}
func (c *Common) Borderless() bool { return c.borderless }
func (c *Common) SetBorderless(b bool) { c.borderless = b }
func (c *Common) ExcludeFromSync() bool { return c.excludeFromSync }
func (c *Common) SetExcludeFromSync(b bool) { c.excludeFromSync = b }

// HeldState describes whether a TerminalPane is awaiting a re-run after its
// child exited.
type HeldState int

const (
	NotHeld HeldState = iota
	Held
)

// TerminalPane wraps a child process's PTY-backed grid. GridHandle is an
// opaque reference to internal/grid.Grid, kept as an interface here to
// avoid a dependency cycle (grid does not need to know about panes).
type TerminalPane struct {
	Common
	GridHandle GridLike
	ChildPID   int
	ExitStatus *os.ProcessState
	Run        RunCommand
	HeldState  HeldState
}

// GridLike is the subset of internal/grid.Grid's contract that the pane
// layer and the rendering pipeline depend on, avoiding an import cycle
// back into internal/grid. Argument order matches Grid.Resize: width
// (columns) then height (rows).
type GridLike interface {
	Resize(width, height int)
	RenderRows() []GridRow
	RenderCursor() GridCursor
	IsAlternateScreen() bool
	BracketedPaste() bool
	MouseMode() int
	SyncUpdate() bool
}

// GridRow and GridCell mirror internal/grid.Row/Cell's shape so the
// rendering pipeline can read cell content through GridLike without this
// package importing internal/grid.
type GridRow struct {
	Cells   []GridCell
	Wrapped bool
	Dirty   bool
}

type GridCell struct {
	Ch          rune
	Combining   []rune
	WideLead    bool
	WideTrail   bool
	FG, BG      GridColor
	Attrs       GridAttr
	HyperlinkID uint32
	ImageRef    uint64
}

// GridAttr mirrors internal/grid.Attr's bit layout so render can read
// cell styling without importing internal/grid.
type GridAttr uint16

const (
	GridAttrBold GridAttr = 1 << iota
	GridAttrDim
	GridAttrItalic
	GridAttrUnderline
	GridAttrBlink
	GridAttrReverse
	GridAttrStrike
	GridAttrHidden
)

type GridColorMode uint8

const (
	GridColorDefault GridColorMode = iota
	GridColorIndexed
	GridColorRGB
)

type GridColor struct {
	Mode    GridColorMode
	Index   uint8
	R, G, B uint8
}

// GridCursor mirrors internal/grid.Cursor's shape for the same reason.
type GridCursor struct {
	X, Y        int
	Shape       int
	Blink       bool
	Visible     bool
	FG, BG      GridColor
	Attrs       GridAttr
	HyperlinkID uint32
}

func NewTerminalPane(id ID, geom Geom, run RunCommand, g GridLike) *TerminalPane {
	return &TerminalPane{Common: newCommon(id, geom), GridHandle: g, Run: run}
}

func (p *TerminalPane) Selectable() bool { return true }

// PluginPane wraps a WASM plugin surface. The plugin host itself is an
// external collaborator; this struct is just the addressable handle and
// last-rendered-frame cache the core keeps for it.
type PluginPane struct {
	Common
	PluginID    uint32
	LastRender  []byte
}

func NewPluginPane(id ID, geom Geom, pluginID uint32) *PluginPane {
	return &PluginPane{Common: newCommon(id, geom), PluginID: pluginID}
}

func (p *PluginPane) Selectable() bool { return true }

// PlaceholderPane occupies a slot during layout reconciliation before a
// real resource (terminal id or plugin id) has been matched to it.
type PlaceholderPane struct {
	Common
}

func NewPlaceholderPane(id ID, geom Geom) *PlaceholderPane {
	return &PlaceholderPane{Common: newCommon(id, geom)}
}

func (p *PlaceholderPane) Selectable() bool { return false }
