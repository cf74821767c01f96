package grid

// Row is an ordered sequence of cells. Dirty tracks whether the row has
// changed since the rendering pipeline last read it, for per-client diffing.
type Row struct {
	Cells    []Cell
	Wrapped  bool // this row's content continues onto the next (soft wrap)
	Dirty    bool
}

func newRow(width int, fg, bg Color) Row {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = blankCell(fg, bg)
	}
	return Row{Cells: cells, Dirty: true}
}

// DisplayCols returns the number of columns actually occupied by non-blank
// content, from the right, trimmed of trailing default-styled spaces. Used
// by the rewrap algorithm to decide where a logical line really ends.
func (r Row) DisplayCols() int {
	n := len(r.Cells)
	for n > 0 {
		c := r.Cells[n-1]
		if c.Ch != ' ' || c.Attrs != 0 || c.BG.Mode != ColorDefault {
			break
		}
		n--
	}
	return n
}

func (r *Row) resize(width int, fg, bg Color) {
	if width == len(r.Cells) {
		return
	}
	if width < len(r.Cells) {
		r.Cells = r.Cells[:width]
		return
	}
	grown := make([]Cell, width)
	copy(grown, r.Cells)
	for i := len(r.Cells); i < width; i++ {
		grown[i] = blankCell(fg, bg)
	}
	r.Cells = grown
}

// Plain renders r's cells as text, for scrollback search: blank (unset)
// cells become spaces, wide-glyph trail cells are skipped so they don't
// duplicate the lead cell's rune.
func (r Row) Plain() string {
	var sb []rune
	for _, c := range r.Cells {
		if c.WideTrail {
			continue
		}
		if c.Ch == 0 {
			sb = append(sb, ' ')
		} else {
			sb = append(sb, c.Ch)
			sb = append(sb, c.Combining...)
		}
	}
	return string(sb)
}

func (r *Row) clone() Row {
	cells := make([]Cell, len(r.Cells))
	copy(cells, r.Cells)
	for i, c := range cells {
		if len(c.Combining) > 0 {
			cells[i].Combining = append([]rune(nil), c.Combining...)
		}
	}
	return Row{Cells: cells, Wrapped: r.Wrapped}
}
