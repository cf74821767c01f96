package screen

import (
	"sort"

	"gridmux/internal/pane"
)

// ResizeSense is whether a resize makes the active pane's border move
// outward (Increase) or inward (Decrease).
type ResizeSense int

const (
	Increase ResizeSense = iota
	Decrease
)

// ResizeStrategy is the parameter set for TiledPanes.ResizeActive.
type ResizeStrategy struct {
	Sense              ResizeSense
	Direction          *Direction // nil: resize all four borders symmetrically
	InvertOnBoundaries bool
}

// resizeStep is the fixed number of cells a single resize operation moves
// a border by.
const resizeStep = 2

// ResizeActive moves the active pane's border(s) per strategy, adjusting
// the bordering neighbour(s) to keep the tiling invariant intact. If a
// directed move would push the border past the viewport edge, the
// operation is inverted onto the opposite border instead (unless
// InvertOnBoundaries is false, in which case the move is simply clamped to
// a no-op).
func (t *TiledPanes) ResizeActive(activeID pane.ID, strategy ResizeStrategy) error {
	if strategy.Direction == nil {
		for _, d := range []Direction{DirLeft, DirRight, DirUp, DirDown} {
			s := strategy
			s.Direction = &d
			t.resizeOneBorder(activeID, s)
		}
		return nil
	}
	return t.resizeOneBorder(activeID, strategy)
}

func (t *TiledPanes) resizeOneBorder(activeID pane.ID, strategy ResizeStrategy) error {
	active, ok := t.panes[activeID]
	if !ok {
		return nil
	}
	dir := *strategy.Direction
	grow := strategy.Sense == Increase

	// Moving a given border outward (growing) pushes it toward dir;
	// shrinking pulls it back. The neighbour found in dir absorbs the
	// opposite delta to preserve the tiling invariant.
	moveTowardDir := grow
	step := resizeStep
	if !moveTowardDir {
		step = -resizeStep
	}

	neighbourID, ok := t.Neighbour(activeID, dir)
	if !ok {
		if strategy.InvertOnBoundaries {
			inv := oppositeDirection(dir)
			neighbourID, ok = t.Neighbour(activeID, inv)
			if !ok {
				return nil
			}
			return t.shiftBorder(activeID, neighbourID, inv, -step)
		}
		return nil
	}
	return t.shiftBorder(activeID, neighbourID, dir, step)
}

// shiftBorder moves the shared border between active and neighbour by
// step cells toward dir, shrinking one and growing the other.
func (t *TiledPanes) shiftBorder(activeID, neighbourID pane.ID, dir Direction, step int) error {
	active := t.panes[activeID]
	neighbour := t.panes[neighbourID]
	ag, ng := active.Geom(), neighbour.Geom()

	switch dir {
	case DirRight, DirLeft:
		if int(ag.Cols)+step < 1 || int(ng.Cols)-step < 1 {
			return nil
		}
		if dir == DirRight {
			ag.Cols = uint32(int(ag.Cols) + step)
			ng.X = uint32(int(ng.X) + step)
			ng.Cols = uint32(int(ng.Cols) - step)
		} else {
			ag.X = uint32(int(ag.X) - step)
			ag.Cols = uint32(int(ag.Cols) + step)
			ng.Cols = uint32(int(ng.Cols) - step)
		}
	case DirDown, DirUp:
		if int(ag.Rows)+step < 1 || int(ng.Rows)-step < 1 {
			return nil
		}
		if dir == DirDown {
			ag.Rows = uint32(int(ag.Rows) + step)
			ng.Y = uint32(int(ng.Y) + step)
			ng.Rows = uint32(int(ng.Rows) - step)
		} else {
			ag.Y = uint32(int(ag.Y) - step)
			ag.Rows = uint32(int(ag.Rows) + step)
			ng.Rows = uint32(int(ng.Rows) - step)
		}
	}
	active.SetGeom(ag)
	neighbour.SetGeom(ng)
	return nil
}

func oppositeDirection(d Direction) Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	default:
		return DirUp
	}
}

// Relayout rescales every tiled pane's geometry to a new viewport size,
// preserving relative proportions, in response to an external terminal
// resize (e.g. the attached client's window changed size). Borders are
// rescaled as a shared set rather than per-pane in isolation, so that two
// panes which previously met at a border still meet after rescaling, and
// the rightmost/bottommost border always lands exactly on the new
// viewport edge instead of drifting from independent rounding.
func (t *TiledPanes) Relayout(newViewport pane.Geom) {
	old := t.Viewport
	if old.Cols == 0 || old.Rows == 0 {
		t.Viewport = newViewport
		return
	}

	colMap := rescaleBorders(t.borders(true), old.Cols, newViewport.Cols)
	rowMap := rescaleBorders(t.borders(false), old.Rows, newViewport.Rows)

	for _, id := range t.order {
		p, ok := t.panes[id]
		if !ok {
			continue
		}
		g := p.Geom()
		x0, x1 := colMap[g.X], colMap[g.X+g.Cols]
		y0, y1 := rowMap[g.Y], rowMap[g.Y+g.Rows]
		g.X, g.Cols = x0, x1-x0
		g.Y, g.Rows = y0, y1-y0
		if g.Cols == 0 {
			g.Cols = 1
		}
		if g.Rows == 0 {
			g.Rows = 1
		}
		p.SetGeom(g)
	}
	t.Viewport = newViewport
}

// borders collects every distinct border coordinate among the tiled
// panes along one axis: X and X+Cols when vertical, Y and Y+Rows
// otherwise.
func (t *TiledPanes) borders(vertical bool) []uint32 {
	seen := make(map[uint32]bool)
	for _, id := range t.order {
		p, ok := t.panes[id]
		if !ok {
			continue
		}
		g := p.Geom()
		if vertical {
			seen[g.X] = true
			seen[g.X+g.Cols] = true
		} else {
			seen[g.Y] = true
			seen[g.Y+g.Rows] = true
		}
	}
	out := make([]uint32, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rescaleBorders maps each old border coordinate to a new one
// scaled by newExtent/oldExtent, forcing the outer edges to exactly
// 0 and newExtent and keeping the mapping strictly increasing so no pane
// collapses to zero width/height.
func rescaleBorders(borders []uint32, oldExtent, newExtent uint32) map[uint32]uint32 {
	out := make(map[uint32]uint32, len(borders))
	if len(borders) == 0 {
		return out
	}
	last := borders[len(borders)-1]
	var prev uint32
	for i, b := range borders {
		var v uint32
		switch {
		case b == 0:
			v = 0
		case b == last:
			v = newExtent
		default:
			v = scaleDim(b, oldExtent, newExtent)
		}
		if i > 0 && v <= prev {
			v = prev + 1
		}
		out[b] = v
		prev = v
	}
	return out
}

func scaleDim(v, oldExtent, newExtent uint32) uint32 {
	if oldExtent == 0 {
		return v
	}
	return uint32((uint64(v) * uint64(newExtent)) / uint64(oldExtent))
}
