// Package screen owns all tabs: tiled pane trees, floating panes, stacks,
// fullscreen, swap layouts, and per-client focus. It processes one
// ScreenInstruction at a time, single-threaded over a session's state,
// generalized from "one VT per
// session" to "many tiled/floating panes across many tabs".
package screen

import (
	"fmt"
	"sort"

	"gridmux/internal/pane"
)

// Direction is a screen-relative direction used by focus and resize.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// TiledPanes owns a tab's tiled pane arena and viewport. Panes are stored
// in an arena (a map keyed by stable ID, per the pane-graph design note)
// rather than a pointer tree; neighbour relationships are computed from
// geometry on demand instead of being cached as back-pointers.
type TiledPanes struct {
	Viewport pane.Geom
	panes    map[pane.ID]pane.Pane
	order    []pane.ID // insertion order, used as the final tie-break in focus/matching
}

// NewTiledPanes creates an empty arena for the given viewport.
func NewTiledPanes(viewport pane.Geom) *TiledPanes {
	return &TiledPanes{Viewport: viewport, panes: make(map[pane.ID]pane.Pane)}
}

// Insert adds p to the arena, appending it to insertion order.
func (t *TiledPanes) Insert(p pane.Pane) {
	t.panes[p.ID()] = p
	t.order = append(t.order, p.ID())
}

// Get returns the pane with id, if present.
func (t *TiledPanes) Get(id pane.ID) (pane.Pane, bool) {
	p, ok := t.panes[id]
	return p, ok
}

// All returns every tiled pane in insertion order.
func (t *TiledPanes) All() []pane.Pane {
	out := make([]pane.Pane, 0, len(t.order))
	for _, id := range t.order {
		if p, ok := t.panes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of live tiled panes.
func (t *TiledPanes) Len() int { return len(t.order) }

// CheckTilingInvariant reports whether the tiled panes' rectangles (minus
// any ids in hidden) exactly tile the viewport: no gaps, no overlaps.
// Verified by summing covered area and checking pairwise overlap, which is
// sufficient for the axis-aligned, non-rotated rectangles this tiler
// produces.
func (t *TiledPanes) CheckTilingInvariant(hidden map[pane.ID]bool) error {
	visible := make([]pane.Geom, 0, len(t.order))
	for _, id := range t.order {
		if hidden[id] {
			continue
		}
		p, ok := t.panes[id]
		if !ok {
			continue
		}
		visible = append(visible, p.Geom())
	}
	var area uint32
	for i, g := range visible {
		area += g.Rows * g.Cols
		for j := i + 1; j < len(visible); j++ {
			if g.Overlaps(visible[j]) {
				return fmt.Errorf("tiling invariant violated: pane rects %v and %v overlap", g, visible[j])
			}
		}
	}
	want := t.Viewport.Rows * t.Viewport.Cols
	if area != want {
		return fmt.Errorf("tiling invariant violated: covered area %d != viewport area %d", area, want)
	}
	return nil
}

// splitAxis is which dimension a split divides.
type splitAxis int

const (
	axisHorizontal splitAxis = iota // divides rows: children stack top-to-bottom
	axisVertical                    // divides columns: children sit left-to-right
)

// Split divides target's rectangle along axis, shrinking target and
// placing a new pane (inserted by the caller with the id it already
// allocated) in the remaining half. Returns the new pane's geometry; the
// caller is responsible for constructing and inserting the pane itself
// since TiledPanes does not know how to spawn a terminal or plugin.
func (t *TiledPanes) Split(targetID pane.ID, axis splitAxis) (pane.Geom, error) {
	target, ok := t.panes[targetID]
	if !ok {
		return pane.Geom{}, fmt.Errorf("split: pane %s not found", targetID)
	}
	g := target.Geom()
	var newGeom pane.Geom
	switch axis {
	case axisVertical:
		half := g.Cols / 2
		newGeom = pane.Geom{X: g.X + half, Y: g.Y, Cols: g.Cols - half, Rows: g.Rows}
		g.Cols = half
	case axisHorizontal:
		half := g.Rows / 2
		newGeom = pane.Geom{X: g.X, Y: g.Y + half, Cols: g.Cols, Rows: g.Rows - half}
		g.Rows = half
	}
	target.SetGeom(g)
	return newGeom, nil
}

// SplitHorizontal splits target across its vertical midpoint (new pane
// below).
func (t *TiledPanes) SplitHorizontal(target pane.ID) (pane.Geom, error) {
	return t.Split(target, axisHorizontal)
}

// SplitVertical splits target across its horizontal midpoint (new pane to
// the right).
func (t *TiledPanes) SplitVertical(target pane.ID) (pane.Geom, error) {
	return t.Split(target, axisVertical)
}

// chooseSplitAxis biases toward a balanced split using the target's
// current aspect ratio and a terminal cell's typical height:width ratio,
// per NewPane's "cursor_height_width_ratio" placement heuristic.
func chooseSplitAxis(g pane.Geom) splitAxis {
	const cellHeightWidthRatio = 2.0 // a terminal cell is roughly twice as tall as wide in pixels
	effectiveRows := float64(g.Rows) * cellHeightWidthRatio
	if effectiveRows > float64(g.Cols) {
		return axisHorizontal
	}
	return axisVertical
}

// Remove deletes id from the arena without reclaiming its space; callers
// use CloseWithRefill to remove-and-retile in one step.
func (t *TiledPanes) Remove(id pane.ID) {
	delete(t.panes, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// CloseWithRefill removes id and gives its rectangle to the remaining pane
// sharing the longest full abutting edge with it (fill_space_over_pane);
// among equally long edges no side is preferred. If no pane shares a full
// edge (a layout that isn't purely binary-split), the freed rectangle is
// left unassigned.
func (t *TiledPanes) CloseWithRefill(id pane.ID) error {
	closing, ok := t.panes[id]
	if !ok {
		return fmt.Errorf("close: pane %s not found", id)
	}
	freed := closing.Geom()
	t.Remove(id)

	candidates := t.All()
	sort.Slice(candidates, func(i, j int) bool {
		return edgeShare(candidates[i].Geom(), freed) > edgeShare(candidates[j].Geom(), freed)
	})
	for _, p := range candidates {
		g := p.Geom()
		if share := edgeShare(g, freed); share > 0 {
			p.SetGeom(mergeAdjacent(g, freed))
			return nil
		}
	}
	return nil
}

// edgeShare returns the length of the edge a and freed share exactly (0 if
// they do not share a full abutting edge), used to pick the best refill
// candidate.
func edgeShare(a, freed pane.Geom) uint32 {
	// a directly left of freed
	if a.X+a.Cols == freed.X && a.Y == freed.Y && a.Rows == freed.Rows {
		return a.Rows
	}
	// a directly right of freed
	if freed.X+freed.Cols == a.X && a.Y == freed.Y && a.Rows == freed.Rows {
		return a.Rows
	}
	// a directly above freed
	if a.Y+a.Rows == freed.Y && a.X == freed.X && a.Cols == freed.Cols {
		return a.Cols
	}
	// a directly below freed
	if freed.Y+freed.Rows == a.Y && a.X == freed.X && a.Cols == freed.Cols {
		return a.Cols
	}
	return 0
}

func mergeAdjacent(a, freed pane.Geom) pane.Geom {
	x := min32(a.X, freed.X)
	y := min32(a.Y, freed.Y)
	right := max32(a.X+a.Cols, freed.X+freed.Cols)
	bottom := max32(a.Y+a.Rows, freed.Y+freed.Rows)
	return pane.Geom{X: x, Y: y, Cols: right - x, Rows: bottom - y, Stacked: a.Stacked, IsPinned: a.IsPinned}
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
