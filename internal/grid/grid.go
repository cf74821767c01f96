// Package grid implements the per-pane cell grid model: a cell matrix with
// scrollback, an alternate buffer, cursor state, and the shared, refcounted
// sixel-image and hyperlink stores. The VT/CSI/OSC byte stream is decoded
// by the sibling internal/vtparser package, which drives a Grid through the
// Sink interface so the parsing state machine and the grid's own mutation
// rules stay independently testable.
package grid

import (
	"sync"

	"github.com/zyedidia/clipper"
)

// CursorShape is the visual shape of the cursor (block/underline/bar),
// independently of whether it is currently visible or blinking.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cursor is the grid's active write position and pen state.
type Cursor struct {
	X, Y    int
	Shape   CursorShape
	Blink   bool
	Visible bool
	FG, BG  Color
	Attrs   Attr
	HyperlinkID uint32
	PendingWrap bool // true right after writing into the last column, before the next write forces a wrap
}

// Range is a selection span, addressed in (row, col) pairs where row
// indexes into scrollback followed by the viewport, starting at 0 for the
// oldest scrollback row (see Grid.logicalRows); negative rows are skipped.
type Range struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Grid is one pane's terminal buffer.
type Grid struct {
	mu sync.Mutex

	Width, Height int

	rows       []Row
	scrollback []Row
	maxScrollback int

	alternate     *Grid
	alternateMode bool
	isAlt         bool // true if this Grid instance IS an alternate buffer (not the primary)

	cursor      Cursor
	savedCursor Cursor

	autoWrap    bool
	originMode  bool
	scrollTop, scrollBottom int // 0-indexed, inclusive

	tabStops map[int]bool

	SixelStore *SixelImageStore
	LinkHandler *LinkHandler

	selection *Range

	clipboard clipper.Clipboard // best-effort system clipboard for copy-mode; nil if unavailable

	bracketedPaste bool
	mouseMode      int // 0 = off, else the DEC private mode number last enabled (1000/1002/1003/1006)
	syncUpdate     bool
	kittyKeyboard      bool
	kittyKeyboardFlags int
}

// New creates a Grid of the given size with a scrollback cap, sharing the
// given sixel store and link handler with the rest of the session.
func New(width, height, maxScrollback int, store *SixelImageStore, links *LinkHandler) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		maxScrollback: maxScrollback,
		autoWrap:    true,
		scrollTop: 0, scrollBottom: height - 1,
		tabStops: defaultTabStops(width),
		SixelStore: store,
		LinkHandler: links,
	}
	g.rows = make([]Row, height)
	for i := range g.rows {
		g.rows[i] = newRow(width, DefaultColor(), DefaultColor())
	}
	g.cursor.Visible = true
	if provider, err := clipper.GetClipboards(); err == nil && len(provider) > 0 {
		g.clipboard = provider[0]
	}
	return g
}

func defaultTabStops(width int) map[int]bool {
	stops := make(map[int]bool)
	for i := 8; i < width; i += 8 {
		stops[i] = true
	}
	return stops
}

// Resize changes the grid's dimensions, rewrapping content and following
// the cursor's logical position.
func (g *Grid) Resize(width, height int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resizeLocked(width, height)
}

func (g *Grid) resizeLocked(width, height int) {
	if width == g.Width && height == g.Height {
		return
	}
	if g.alternateMode {
		// The alternate screen never rewraps; it just clips/pads, since
		// full-screen apps redraw themselves on SIGWINCH anyway.
		g.resizeClip(width, height)
	} else {
		g.rewrap(width, height)
	}
	g.Width = width
	g.Height = height
	g.scrollBottom = height - 1
	if g.scrollTop > g.scrollBottom {
		g.scrollTop = 0
	}
	g.tabStops = defaultTabStops(width)
	if g.alternate != nil {
		g.alternate.resizeClip(width, height)
	}
}

// resizeClip resizes without rewrapping: rows are padded/truncated in
// place. Used for the alternate screen, matching real terminals' behavior
// of letting the fullscreen application redraw from scratch.
func (g *Grid) resizeClip(width, height int) {
	for i := range g.rows {
		g.rows[i].resize(width, DefaultColor(), DefaultColor())
	}
	if height > len(g.rows) {
		for i := len(g.rows); i < height; i++ {
			g.rows = append(g.rows, newRow(width, DefaultColor(), DefaultColor()))
		}
	} else if height < len(g.rows) {
		g.rows = g.rows[:height]
	}
	if g.cursor.Y >= height {
		g.cursor.Y = height - 1
	}
	if g.cursor.X >= width {
		g.cursor.X = width - 1
	}
}

// rewrap re-flows logical lines (a hard row plus any soft-wrapped
// continuations) to the new width, then redistributes the result between
// scrollback and the visible viewport so the cursor's logical position is
// preserved: shrinking pushes the top into scrollback, growing pulls lines
// back from scrollback when available.
func (g *Grid) rewrap(width, height int) {
	logical := g.flattenLogicalLines()
	cursorAbs := g.cursorAbsoluteIndex(logical)

	var reflowed []Row
	for _, line := range logical {
		reflowed = append(reflowed, rewrapLine(line, width)...)
	}

	// Split reflowed into scrollback + viewport so the viewport is exactly
	// `height` rows, preferring to keep the cursor's line in the viewport.
	cursorRowAfter := remapCursorRow(logical, reflowed, cursorAbs)
	viewportStart := cursorRowAfter - height + 1
	if viewportStart < 0 {
		viewportStart = 0
	}
	if len(reflowed) > height && viewportStart+height > len(reflowed) {
		viewportStart = len(reflowed) - height
	}

	var newScrollback []Row
	var newViewport []Row
	for i, r := range reflowed {
		if i < viewportStart {
			newScrollback = append(newScrollback, r)
		} else {
			newViewport = append(newViewport, r)
		}
	}
	for len(newViewport) < height {
		newViewport = append(newViewport, newRow(width, DefaultColor(), DefaultColor()))
	}
	if len(newViewport) > height {
		overflow := newViewport[:len(newViewport)-height]
		newScrollback = append(newScrollback, overflow...)
		newViewport = newViewport[len(newViewport)-height:]
	}

	g.scrollback = newScrollback
	if g.maxScrollback > 0 && len(g.scrollback) > g.maxScrollback {
		g.scrollback = g.scrollback[len(g.scrollback)-g.maxScrollback:]
	}
	g.rows = newViewport
	g.cursor.Y = cursorRowAfter - viewportStart
	if g.cursor.Y < 0 {
		g.cursor.Y = 0
	}
	if g.cursor.Y >= height {
		g.cursor.Y = height - 1
	}
}

// flattenLogicalLines joins scrollback+viewport rows into logical lines,
// merging a hard row with every row that follows it marked Wrapped.
func (g *Grid) flattenLogicalLines() [][]Cell {
	all := make([]Row, 0, len(g.scrollback)+len(g.rows))
	all = append(all, g.scrollback...)
	all = append(all, g.rows...)

	var logical [][]Cell
	var current []Cell
	for i, r := range all {
		current = append(current, r.Cells...)
		if !r.Wrapped || i == len(all)-1 {
			logical = append(logical, current)
			current = nil
		}
	}
	if len(current) > 0 {
		logical = append(logical, current)
	}
	return logical
}

func (g *Grid) cursorAbsoluteIndex(logical [][]Cell) int {
	// Every row before the cursor's that is not Wrapped ends one logical
	// line, so counting them gives the cursor's logical-line index.
	abs := len(g.scrollback) + g.cursor.Y
	line := 0
	for i := 0; i < abs; i++ {
		var r Row
		if i < len(g.scrollback) {
			r = g.scrollback[i]
		} else {
			r = g.rows[i-len(g.scrollback)]
		}
		if !r.Wrapped {
			line++
		}
	}
	return line
}

func remapCursorRow(before [][]Cell, after []Row, cursorLineIdx int) int {
	if cursorLineIdx < 0 {
		return 0
	}
	if cursorLineIdx >= len(before) {
		cursorLineIdx = len(before) - 1
	}
	// Sum the reflowed row counts contributed by logical lines prior to
	// the cursor's, to find which reflowed row the cursor now falls on.
	row := 0
	consumed := 0
	width := 0
	if len(after) > 0 {
		width = len(after[0].Cells)
	}
	for i := 0; i < len(before) && i <= cursorLineIdx; i++ {
		n := rewrapLineCount(before[i], width)
		if i == cursorLineIdx {
			row = consumed
			break
		}
		consumed += n
	}
	return row
}

func rewrapLineCount(line []Cell, width int) int {
	if width <= 0 {
		return 1
	}
	if len(line) == 0 {
		return 1
	}
	n := (len(line) + width - 1) / width
	if n == 0 {
		n = 1
	}
	return n
}

func rewrapLine(line []Cell, width int) []Row {
	if width <= 0 {
		width = 1
	}
	if len(line) == 0 {
		return []Row{newRow(width, DefaultColor(), DefaultColor())}
	}
	var rows []Row
	for start := 0; start < len(line); start += width {
		end := start + width
		if end > len(line) {
			end = len(line)
		}
		chunk := make([]Cell, width)
		copy(chunk, line[start:end])
		for i := end - start; i < width; i++ {
			chunk[i] = blankCell(DefaultColor(), DefaultColor())
		}
		r := Row{Cells: chunk, Dirty: true}
		if end < len(line) {
			r.Wrapped = true
		}
		rows = append(rows, r)
	}
	return rows
}

// EnterAlternate switches to a second grid of the same dimensions,
// preserving the primary verbatim. Scrollback is never extended while the
// alternate screen is active.
func (g *Grid) EnterAlternate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.alternateMode {
		return
	}
	if g.alternate == nil {
		g.alternate = &Grid{
			Width: g.Width, Height: g.Height,
			autoWrap: true,
			scrollTop: 0, scrollBottom: g.Height - 1,
			tabStops: defaultTabStops(g.Width),
			SixelStore: g.SixelStore,
			LinkHandler: g.LinkHandler,
		}
		g.alternate.rows = make([]Row, g.Height)
		for i := range g.alternate.rows {
			g.alternate.rows[i] = newRow(g.Width, DefaultColor(), DefaultColor())
		}
		g.alternate.cursor.Visible = true
		g.alternate.isAlt = true
	}
	g.alternateMode = true
}

// ExitAlternate restores the primary screen verbatim.
func (g *Grid) ExitAlternate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.alternateMode = false
}

// IsAlternateScreen reports whether the alternate buffer is currently live.
func (g *Grid) IsAlternateScreen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.alternateMode
}

// active returns the grid currently receiving writes: g itself, or its
// alternate buffer when alternateMode is set.
func (g *Grid) active() *Grid {
	if g.alternateMode && g.alternate != nil {
		return g.alternate
	}
	return g
}

// ScrollbackLen returns the number of rows retained in scrollback.
func (g *Grid) ScrollbackLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.scrollback)
}

// AllRows returns every row searchable by scrollback search: retained
// scrollback followed by the currently visible screen, oldest first. The
// returned rows are shared with the grid's internal state and must be
// treated as read-only.
func (g *Grid) AllRows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	out := make([]Row, 0, len(a.scrollback)+len(a.rows))
	out = append(out, a.scrollback...)
	out = append(out, a.rows...)
	return out
}

// SetSelection records a selection range for copy-mode.
func (g *Grid) SetSelection(r *Range) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selection = r
}

// Selection returns the active selection, if any.
func (g *Grid) Selection() *Range {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selection
}

// CopySelection renders the selected text and writes it to the system
// clipboard (falling back to OSC 52 if no system clipboard backend is
// reachable, which the caller performs by writing the returned string
// wrapped in an OSC 52 sequence to the pane's PTY response channel).
func (g *Grid) CopySelection() (string, error) {
	g.mu.Lock()
	r := g.selection
	g.mu.Unlock()
	if r == nil {
		return "", nil
	}
	text := g.renderRange(*r)
	if g.clipboard != nil {
		if err := g.clipboard.WriteAll([]byte(text), clipper.RegClipboard); err == nil {
			return text, nil
		}
	}
	return text, nil
}

func (g *Grid) renderRange(r Range) string {
	rows := g.logicalRows()
	var out []rune
	for y := r.StartRow; y <= r.EndRow && y < len(rows); y++ {
		if y < 0 {
			continue
		}
		row := rows[y]
		startCol, endCol := 0, len(row.Cells)
		if y == r.StartRow {
			startCol = r.StartCol
		}
		if y == r.EndRow {
			endCol = r.EndCol
		}
		for x := startCol; x < endCol && x < len(row.Cells); x++ {
			if row.Cells[x].WideTrail {
				continue
			}
			out = append(out, row.Cells[x].Ch)
		}
		if y != r.EndRow {
			out = append(out, '\n')
		}
	}
	return string(out)
}

// logicalRows returns scrollback followed by the live viewport, the
// addressing space selections are expressed in.
func (g *Grid) logicalRows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	all := make([]Row, 0, len(g.scrollback)+len(g.rows))
	all = append(all, g.scrollback...)
	all = append(all, g.rows...)
	return all
}

// VisibleRows returns a copy of the currently visible viewport rows (the
// active buffer: primary or alternate), for the rendering pipeline.
func (g *Grid) VisibleRows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	src := g.active().rows
	out := make([]Row, len(src))
	for i, r := range src {
		out[i] = r.clone()
	}
	return out
}

// CursorState returns a copy of the active buffer's cursor state.
func (g *Grid) CursorState() Cursor {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active().cursor
}
