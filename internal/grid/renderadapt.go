package grid

import "gridmux/internal/pane"

// RenderRows and RenderCursor adapt Grid's internal Row/Cell/Cursor
// representation to the pane.GridLike shape the rendering pipeline
// consumes, so internal/render never needs to import internal/grid
// directly (it only sees panes through internal/pane).

func (g *Grid) RenderRows() []pane.GridRow {
	rows := g.VisibleRows()
	out := make([]pane.GridRow, len(rows))
	for i, r := range rows {
		out[i] = pane.GridRow{Wrapped: r.Wrapped, Dirty: r.Dirty, Cells: make([]pane.GridCell, len(r.Cells))}
		for j, c := range r.Cells {
			out[i].Cells[j] = adaptCell(c)
		}
	}
	return out
}

func (g *Grid) RenderCursor() pane.GridCursor {
	c := g.CursorState()
	return pane.GridCursor{
		X: c.X, Y: c.Y,
		Shape:       int(c.Shape),
		Blink:       c.Blink,
		Visible:     c.Visible,
		FG:          adaptColor(c.FG),
		BG:          adaptColor(c.BG),
		Attrs:       pane.GridAttr(c.Attrs),
		HyperlinkID: c.HyperlinkID,
	}
}

func adaptCell(c Cell) pane.GridCell {
	return pane.GridCell{
		Ch: c.Ch, Combining: c.Combining, WideLead: c.WideLead, WideTrail: c.WideTrail,
		FG: adaptColor(c.FG), BG: adaptColor(c.BG),
		Attrs: pane.GridAttr(c.Attrs), HyperlinkID: c.HyperlinkID, ImageRef: c.ImageRef,
	}
}

func adaptColor(c Color) pane.GridColor {
	return pane.GridColor{Mode: pane.GridColorMode(c.Mode), Index: c.Index, R: c.R, G: c.G, B: c.B}
}
