package grid

// This file holds the mutation operations the VT parser (internal/vtparser)
// drives a Grid through. Each method locks the grid for the duration of a
// single semantic operation: hold the lock for one coalesced unit of
// work, not byte-by-byte.

// PutChar writes a rune at the cursor with the cursor's current pen state,
// advancing the cursor and wrapping at the right margin when auto-wrap is
// enabled. Wide characters occupy two adjacent cells; the trailing cell is
// marked WideTrail.
func (g *Grid) PutChar(ch rune) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()

	if ch != 0 && IsCombiningMark(ch) {
		a.stackCombiningLocked(ch)
		return
	}

	w := Width(ch)

	if a.cursor.PendingWrap {
		a.lineFeedLocked()
		a.cursor.X = 0
		a.cursor.PendingWrap = false
	}
	if a.cursor.X+w > a.Width {
		if a.autoWrap {
			a.rows[a.cursor.Y].Wrapped = true
			a.lineFeedLocked()
			a.cursor.X = 0
		} else {
			a.cursor.X = a.Width - w
			if a.cursor.X < 0 {
				a.cursor.X = 0
			}
		}
	}

	row := &a.rows[a.cursor.Y]
	row.Dirty = true
	cell := Cell{
		Ch: ch, FG: a.cursor.FG, BG: a.cursor.BG, Attrs: a.cursor.Attrs,
		HyperlinkID: a.cursor.HyperlinkID,
	}
	if a.cursor.X < len(row.Cells) {
		row.Cells[a.cursor.X] = cell
	}
	if w == 2 && a.cursor.X+1 < len(row.Cells) {
		cell.WideLead = true
		row.Cells[a.cursor.X] = cell
		row.Cells[a.cursor.X+1] = Cell{WideTrail: true, FG: a.cursor.FG, BG: a.cursor.BG}
	}

	a.cursor.X += w
	if a.cursor.X >= a.Width {
		a.cursor.X = a.Width - 1
		a.cursor.PendingWrap = a.autoWrap
	}
}

// stackCombiningLocked attaches ch to the cell the cursor last wrote:
// the cell immediately left of the cursor, or its WideLead partner if that
// cell is a WideTrail. A combining mark arriving with nothing behind it
// (start of line, or after an erase) is dropped rather than misattached.
func (a *Grid) stackCombiningLocked(ch rune) {
	row := &a.rows[a.cursor.Y]
	x := a.cursor.X - 1
	if x < 0 || x >= len(row.Cells) {
		return
	}
	if row.Cells[x].WideTrail && x > 0 {
		x--
	}
	row.Cells[x].Combining = append(row.Cells[x].Combining, ch)
	row.Dirty = true
}

// LineFeed advances the cursor one row, scrolling the region (and feeding
// scrollback) when already at the scroll region's bottom.
func (g *Grid) LineFeed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active().lineFeedLocked()
}

func (g *Grid) lineFeedLocked() {
	if g.cursor.Y == g.scrollBottom {
		g.scrollUpLocked(1)
		return
	}
	if g.cursor.Y < g.Height-1 {
		g.cursor.Y++
	}
}

// scrollUpLocked shifts rows within the scroll region up by n, and — only
// when the scroll region is the full viewport and the alternate screen is
// inactive — pushes the evicted top row into scrollback.
func (g *Grid) scrollUpLocked(n int) {
	fullViewport := g.scrollTop == 0 && g.scrollBottom == g.Height-1
	for i := 0; i < n; i++ {
		evicted := g.rows[g.scrollTop]
		if fullViewport && !g.isAlt {
			g.scrollback = append(g.scrollback, evicted)
			if g.maxScrollback > 0 && len(g.scrollback) > g.maxScrollback {
				g.scrollback = g.scrollback[len(g.scrollback)-g.maxScrollback:]
			}
		}
		copy(g.rows[g.scrollTop:g.scrollBottom], g.rows[g.scrollTop+1:g.scrollBottom+1])
		g.rows[g.scrollBottom] = newRow(g.Width, DefaultColor(), DefaultColor())
	}
}

// CarriageReturn moves the cursor to column 0.
func (g *Grid) CarriageReturn() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.cursor.X = 0
	a.cursor.PendingWrap = false
}

// Backspace moves the cursor left one column, if possible.
func (g *Grid) Backspace() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if a.cursor.X > 0 {
		a.cursor.X--
	}
	a.cursor.PendingWrap = false
}

// Tab advances the cursor to the next tab stop (default every 8 columns).
func (g *Grid) Tab() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	for x := a.cursor.X + 1; x < a.Width; x++ {
		if a.tabStops[x] {
			a.cursor.X = x
			return
		}
	}
	a.cursor.X = a.Width - 1
}

// SetTabStop sets a tab stop at the cursor's current column (HTS).
func (g *Grid) SetTabStop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.tabStops[a.cursor.X] = true
}

// ClearTabStop clears a tab stop at the cursor's column, or all stops
// (mode==3, TBC).
func (g *Grid) ClearTabStop(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if mode == 3 {
		a.tabStops = make(map[int]bool)
		return
	}
	delete(a.tabStops, a.cursor.X)
}

// MoveCursor positions the cursor, clamped to the viewport (or the scroll
// region when origin mode is set).
func (g *Grid) MoveCursor(row, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	top, bottom := 0, a.Height-1
	if a.originMode {
		top, bottom = a.scrollTop, a.scrollBottom
	}
	y := row + top
	if y < top {
		y = top
	}
	if y > bottom {
		y = bottom
	}
	if col < 0 {
		col = 0
	}
	if col >= a.Width {
		col = a.Width - 1
	}
	a.cursor.Y = y
	a.cursor.X = col
	a.cursor.PendingWrap = false
}

func (g *Grid) MoveCursorRelative(dx, dy int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.cursor.X = clamp(a.cursor.X+dx, 0, a.Width-1)
	a.cursor.Y = clamp(a.cursor.Y+dy, 0, a.Height-1)
	a.cursor.PendingWrap = false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetScrollRegion sets the scrolling region (DECSTBM), 0-indexed inclusive.
func (g *Grid) SetScrollRegion(top, bottom int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if top < 0 {
		top = 0
	}
	if bottom >= a.Height {
		bottom = a.Height - 1
	}
	if top >= bottom {
		top, bottom = 0, a.Height-1
	}
	a.scrollTop, a.scrollBottom = top, bottom
}

// EraseMode mirrors the CSI J/K "which direction" parameter.
type EraseMode int

const (
	EraseToEnd EraseMode = iota
	EraseToStart
	EraseAll
)

// EraseInLine clears part or all of the cursor's row.
func (g *Grid) EraseInLine(mode EraseMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	row := &a.rows[a.cursor.Y]
	row.Dirty = true
	switch mode {
	case EraseToEnd:
		for x := a.cursor.X; x < len(row.Cells); x++ {
			row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
		}
	case EraseToStart:
		for x := 0; x <= a.cursor.X && x < len(row.Cells); x++ {
			row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
		}
	case EraseAll:
		for x := range row.Cells {
			row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
		}
	}
}

// EraseInDisplay clears part or all of the viewport.
func (g *Grid) EraseInDisplay(mode EraseMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	switch mode {
	case EraseToEnd:
		for y := a.cursor.Y + 1; y < a.Height; y++ {
			a.rows[y] = newRow(a.Width, a.cursor.FG, a.cursor.BG)
		}
		a.eraseLineToEndLocked()
	case EraseToStart:
		for y := 0; y < a.cursor.Y; y++ {
			a.rows[y] = newRow(a.Width, a.cursor.FG, a.cursor.BG)
		}
		a.eraseLineToStartLocked()
	case EraseAll:
		for y := range a.rows {
			a.rows[y] = newRow(a.Width, a.cursor.FG, a.cursor.BG)
		}
	}
}

func (a *Grid) eraseLineToEndLocked() {
	row := &a.rows[a.cursor.Y]
	row.Dirty = true
	for x := a.cursor.X; x < len(row.Cells); x++ {
		row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
	}
}

func (a *Grid) eraseLineToStartLocked() {
	row := &a.rows[a.cursor.Y]
	row.Dirty = true
	for x := 0; x <= a.cursor.X && x < len(row.Cells); x++ {
		row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
	}
}

// InsertLines inserts n blank lines at the cursor row within the scroll
// region, shifting following lines down (IL).
func (g *Grid) InsertLines(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if a.cursor.Y < a.scrollTop || a.cursor.Y > a.scrollBottom {
		return
	}
	for i := 0; i < n; i++ {
		copy(a.rows[a.cursor.Y+1:a.scrollBottom+1], a.rows[a.cursor.Y:a.scrollBottom])
		a.rows[a.cursor.Y] = newRow(a.Width, a.cursor.FG, a.cursor.BG)
	}
}

// DeleteLines deletes n lines at the cursor row within the scroll region,
// pulling following lines up (DL).
func (g *Grid) DeleteLines(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if a.cursor.Y < a.scrollTop || a.cursor.Y > a.scrollBottom {
		return
	}
	for i := 0; i < n; i++ {
		copy(a.rows[a.cursor.Y:a.scrollBottom], a.rows[a.cursor.Y+1:a.scrollBottom+1])
		a.rows[a.scrollBottom] = newRow(a.Width, a.cursor.FG, a.cursor.BG)
	}
}

// InsertChars inserts n blank cells at the cursor, shifting the remainder
// of the row right (ICH).
func (g *Grid) InsertChars(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	row := &a.rows[a.cursor.Y]
	row.Dirty = true
	end := len(row.Cells) - n
	if end < a.cursor.X {
		end = a.cursor.X
	}
	copy(row.Cells[a.cursor.X+n:], row.Cells[a.cursor.X:end])
	for x := a.cursor.X; x < a.cursor.X+n && x < len(row.Cells); x++ {
		row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
	}
}

// DeleteChars deletes n cells at the cursor, shifting the remainder of the
// row left (DCH).
func (g *Grid) DeleteChars(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	row := &a.rows[a.cursor.Y]
	row.Dirty = true
	copy(row.Cells[a.cursor.X:], row.Cells[a.cursor.X+n:])
	for x := len(row.Cells) - n; x < len(row.Cells); x++ {
		if x >= 0 && x < len(row.Cells) {
			row.Cells[x] = blankCell(a.cursor.FG, a.cursor.BG)
		}
	}
}

// SaveCursor stores the cursor state for a later RestoreCursor (DECSC).
func (g *Grid) SaveCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.savedCursor = a.cursor
}

// RestoreCursor restores the last-saved cursor state (DECRC).
func (g *Grid) RestoreCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.cursor = a.savedCursor
}

// SetPenAttrs merges attribute flags into the cursor's pen (SGR).
func (g *Grid) SetPenAttrs(add, remove Attr) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.cursor.Attrs = (a.cursor.Attrs &^ remove) | add
}

// ResetPen resets the cursor's pen to defaults (SGR 0).
func (g *Grid) ResetPen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.cursor.Attrs = 0
	a.cursor.FG = DefaultColor()
	a.cursor.BG = DefaultColor()
	a.cursor.HyperlinkID = 0
}

func (g *Grid) SetFG(c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active().cursor.FG = c
}

func (g *Grid) SetBG(c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active().cursor.BG = c
}

// SetHyperlink registers url (empty string clears) as the pen's active
// hyperlink id, retaining/releasing the shared LinkHandler entry.
func (g *Grid) SetHyperlink(url string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if a.cursor.HyperlinkID != 0 {
		a.LinkHandler.Release(a.cursor.HyperlinkID)
	}
	if url == "" {
		a.cursor.HyperlinkID = 0
		return
	}
	id := a.LinkHandler.Register(url)
	a.LinkHandler.Retain(id)
	a.cursor.HyperlinkID = id
}

func (g *Grid) SetAutoWrap(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active().autoWrap = on
}

func (g *Grid) SetOriginMode(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active().originMode = on
}

func (g *Grid) SetCursorVisible(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active().cursor.Visible = on
}

func (g *Grid) SetCursorShape(shape CursorShape, blink bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	a.cursor.Shape = shape
	a.cursor.Blink = blink
}

// PlaceImage stores an image referenced by a cell at the cursor, spanning
// the given number of rows/cols (sixel/Kitty image cells).
func (g *Grid) PlaceImage(payload []byte, rows, cols int) {
	key := g.SixelStore.Put(payload)
	g.SixelStore.Retain(key)

	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	for dy := 0; dy < rows && a.cursor.Y+dy < a.Height; dy++ {
		row := &a.rows[a.cursor.Y+dy]
		row.Dirty = true
		for dx := 0; dx < cols && a.cursor.X+dx < a.Width; dx++ {
			row.Cells[a.cursor.X+dx] = Cell{ImageRef: key}
		}
	}
}
