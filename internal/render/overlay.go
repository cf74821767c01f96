package render

import (
	"bytes"
	"fmt"

	"gridmux/internal/pane"
)

// drawFrameOverlay draws a box-drawing border around every framed
// (non-borderless) pane in visible, choosing the junction character at
// each corner/edge by which neighbouring borders are present there. Frames
// are drawn after content so they overwrite any bleed from a pane that
// wrote into its own border row/column.
func drawFrameOverlay(buf *bytes.Buffer, visible []visiblePane) {
	edges := collectEdges(visible)
	for _, vp := range visible {
		if vp.p.Borderless() {
			continue
		}
		drawFrame(buf, vp.p.Geom(), edges)
	}
}

// edgeSet records, per (x, y) junction point, which directions have a
// bordering pane edge, so a junction between three or four panes renders
// the correct box-drawing tee/cross instead of a plain corner.
type edgeSet map[[2]uint32]uint8

const (
	edgeUp uint8 = 1 << iota
	edgeDown
	edgeLeft
	edgeRight
)

func collectEdges(visible []visiblePane) edgeSet {
	edges := make(edgeSet)
	for _, vp := range visible {
		if vp.p.Borderless() {
			continue
		}
		g := vp.p.Geom()
		mark(edges, g.X, g.Y, edgeRight|edgeDown)
		mark(edges, g.X+g.Cols-1, g.Y, edgeLeft|edgeDown)
		mark(edges, g.X, g.Y+g.Rows-1, edgeRight|edgeUp)
		mark(edges, g.X+g.Cols-1, g.Y+g.Rows-1, edgeLeft|edgeUp)
	}
	return edges
}

func mark(edges edgeSet, x, y uint32, dirs uint8) {
	edges[[2]uint32{x, y}] |= dirs
}

func drawFrame(buf *bytes.Buffer, g pane.Geom, edges edgeSet) {
	top, left := g.Y, g.X
	bottom, right := g.Y+g.Rows-1, g.X+g.Cols-1

	fmt.Fprintf(buf, "\033[%d;%dH%s", top+1, left+1, junction(edges, left, top))
	for x := left + 1; x < right; x++ {
		fmt.Fprintf(buf, "\033[%d;%dH─", top+1, x+1)
	}
	fmt.Fprintf(buf, "\033[%d;%dH%s", top+1, right+1, junction(edges, right, top))

	for y := top + 1; y < bottom; y++ {
		fmt.Fprintf(buf, "\033[%d;%dH│", y+1, left+1)
		fmt.Fprintf(buf, "\033[%d;%dH│", y+1, right+1)
	}

	fmt.Fprintf(buf, "\033[%d;%dH%s", bottom+1, left+1, junction(edges, left, bottom))
	for x := left + 1; x < right; x++ {
		fmt.Fprintf(buf, "\033[%d;%dH─", bottom+1, x+1)
	}
	fmt.Fprintf(buf, "\033[%d;%dH%s", bottom+1, right+1, junction(edges, right, bottom))
}

// junction picks the box-drawing character for the corner/tee/cross at
// (x, y) based on which of the four directions have a registered edge.
func junction(edges edgeSet, x, y uint32) string {
	dirs := edges[[2]uint32{x, y}]
	switch dirs {
	case edgeDown | edgeRight:
		return "┌"
	case edgeDown | edgeLeft:
		return "┐"
	case edgeUp | edgeRight:
		return "└"
	case edgeUp | edgeLeft:
		return "┘"
	case edgeUp | edgeDown | edgeRight:
		return "├"
	case edgeUp | edgeDown | edgeLeft:
		return "┤"
	case edgeDown | edgeLeft | edgeRight:
		return "┬"
	case edgeUp | edgeLeft | edgeRight:
		return "┴"
	case edgeUp | edgeDown | edgeLeft | edgeRight:
		return "┼"
	default:
		return "┼"
	}
}
