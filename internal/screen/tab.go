package screen

import (
	"fmt"

	"gridmux/internal/layout"
	"gridmux/internal/pane"
)

// ClientID identifies one attached client.
type ClientID uint32

// Tab is one workspace: a tiled pane tree plus zero or more floating
// panes, fullscreen state, swap layouts, and per-client focus/visibility.
type Tab struct {
	Index int
	Name  string

	Tiled    *TiledPanes
	Floating *FloatingPanes

	PanesToHide map[pane.ID]bool

	FullscreenIsActive bool
	fullscreenPrior    map[pane.ID]pane.Geom // saved geoms to restore on exit

	AreFloatingPanesVisible bool

	ActivePanePerClient map[ClientID]pane.ID

	SwapTiled     []layout.SwapLayout
	SwapFloating  []layout.SwapLayout
	ActiveSwapLayout string
	IsSwapLayoutDirty bool

	stackHidden map[pane.ID]bool // members of an expanded stack that are momentarily hidden
}

// NewTab creates an empty tab over viewport.
func NewTab(index int, name string, viewport pane.Geom) *Tab {
	return &Tab{
		Index:               index,
		Name:                name,
		Tiled:               NewTiledPanes(viewport),
		Floating:            NewFloatingPanes(),
		PanesToHide:         make(map[pane.ID]bool),
		ActivePanePerClient: make(map[ClientID]pane.ID),
		stackHidden:         make(map[pane.ID]bool),
	}
}

// IsEmpty reports whether the tab holds no panes at all.
func (tb *Tab) IsEmpty() bool {
	return tb.Tiled.Len() == 0 && tb.Floating.Len() == 0
}

// ActivePane returns client's focused pane in this tab.
func (tb *Tab) ActivePane(client ClientID) (pane.ID, bool) {
	id, ok := tb.ActivePanePerClient[client]
	return id, ok
}

// SetActivePane records client's focused pane.
func (tb *Tab) SetActivePane(client ClientID, id pane.ID) {
	tb.ActivePanePerClient[client] = id
}

// MarkDirty sets IsSwapLayoutDirty, called after a manual split or close
// to record that the arrangement no longer matches ActiveSwapLayout. The
// swap-layout cycle does not read the flag; it only clears it.
func (tb *Tab) MarkDirty() { tb.IsSwapLayoutDirty = true }

// ToggleFullscreen moves every other tiled pane into PanesToHide and
// expands client's active pane to the viewport; calling it again restores
// the prior geoms exactly (an involution).
func (tb *Tab) ToggleFullscreen(client ClientID) error {
	target, ok := tb.ActivePane(client)
	if !ok {
		return fmt.Errorf("toggle fullscreen: no active pane for client %d", client)
	}
	if tb.FullscreenIsActive {
		return tb.exitFullscreen()
	}
	return tb.enterFullscreen(target)
}

func (tb *Tab) enterFullscreen(target pane.ID) error {
	p, ok := tb.Tiled.Get(target)
	if !ok {
		return fmt.Errorf("enter fullscreen: pane %s not found", target)
	}
	tb.fullscreenPrior = make(map[pane.ID]pane.Geom)
	for _, other := range tb.Tiled.All() {
		tb.fullscreenPrior[other.ID()] = other.Geom()
		if other.ID() != target {
			tb.PanesToHide[other.ID()] = true
		}
	}
	p.SetGeom(tb.Tiled.Viewport)
	tb.FullscreenIsActive = true
	return nil
}

func (tb *Tab) exitFullscreen() error {
	for id, g := range tb.fullscreenPrior {
		if p, ok := tb.Tiled.Get(id); ok {
			p.SetGeom(g)
		}
		delete(tb.PanesToHide, id)
	}
	tb.fullscreenPrior = nil
	tb.FullscreenIsActive = false
	return nil
}

// VisiblePanes returns the tiled panes currently on screen: every tiled
// pane that is neither in PanesToHide nor a hidden member of a stack.
func (tb *Tab) VisiblePanes() []pane.Pane {
	var out []pane.Pane
	for _, p := range tb.Tiled.All() {
		if !tb.PanesToHide[p.ID()] && !tb.stackHidden[p.ID()] {
			out = append(out, p)
		}
	}
	return out
}
