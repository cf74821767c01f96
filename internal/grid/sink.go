package grid

import (
	"bytes"
	"strconv"
)

// This file implements internal/vtparser.Sink for *Grid, translating parsed
// VT/CSI/OSC/DCS/APC events into the mutation calls in mutate.go. Kept
// separate from the parser so the state machine and the grid's semantics
// stay independently testable.

// Print handles a decoded printable rune.
func (g *Grid) Print(r rune) {
	g.PutChar(r)
}

// Execute handles a C0 control code.
func (g *Grid) Execute(b byte) {
	switch b {
	case '\n', '\v', '\f':
		g.LineFeed()
	case '\r':
		g.CarriageReturn()
	case '\b':
		g.Backspace()
	case '\t':
		g.Tab()
	case 0x07: // BEL — no visual effect on the grid itself
	}
}

// EscDispatch handles a two-character (plus intermediates) escape sequence.
func (g *Grid) EscDispatch(intermediate []byte, final byte) {
	switch final {
	case '7':
		g.SaveCursor()
	case '8':
		g.RestoreCursor()
	case 'D': // IND
		g.LineFeed()
	case 'M': // RI (reverse index)
		g.reverseIndex()
	case 'E': // NEL
		g.CarriageReturn()
		g.LineFeed()
	case 'H': // HTS
		g.SetTabStop()
	case 'c': // RIS — full reset
		g.fullReset()
	}
}

func (g *Grid) reverseIndex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	if a.cursor.Y == a.scrollTop {
		a.scrollDownLocked(1)
		return
	}
	if a.cursor.Y > 0 {
		a.cursor.Y--
	}
}

func (a *Grid) scrollDownLocked(n int) {
	for i := 0; i < n; i++ {
		copy(a.rows[a.scrollTop+1:a.scrollBottom+1], a.rows[a.scrollTop:a.scrollBottom])
		a.rows[a.scrollTop] = newRow(a.Width, DefaultColor(), DefaultColor())
	}
}

func (g *Grid) fullReset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	a := g.active()
	for i := range a.rows {
		a.rows[i] = newRow(a.Width, DefaultColor(), DefaultColor())
	}
	a.cursor = Cursor{Visible: true}
	a.scrollTop, a.scrollBottom = 0, a.Height-1
	a.autoWrap = true
	a.originMode = false
}

// CSIDispatch handles a complete CSI sequence.
func (g *Grid) CSIDispatch(params []int, intermediate []byte, final byte, private byte) {
	p := func(i, def int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		if i < len(params) {
			return def // explicit 0 still honored by caller where 0 is meaningful
		}
		return def
	}
	switch private {
	case '?':
		g.dispatchPrivateMode(params, final)
		return
	case '>', '<':
		if final == 'u' {
			g.setKittyKeyboard(private, params)
			return
		}
	}

	switch final {
	case 'A':
		g.MoveCursorRelative(0, -p(0, 1))
	case 'B':
		g.MoveCursorRelative(0, p(0, 1))
	case 'C':
		g.MoveCursorRelative(p(0, 1), 0)
	case 'D':
		g.MoveCursorRelative(-p(0, 1), 0)
	case 'H', 'f':
		row := p(0, 1)
		col := 1
		if len(params) > 1 {
			col = p(1, 1)
		}
		g.MoveCursor(row-1, col-1)
	case 'J':
		g.EraseInDisplay(EraseMode(p(0, 0)))
	case 'K':
		g.EraseInLine(EraseMode(p(0, 0)))
	case 'L':
		g.InsertLines(maxInt(p(0, 1), 1))
	case 'M':
		g.DeleteLines(maxInt(p(0, 1), 1))
	case '@':
		g.InsertChars(maxInt(p(0, 1), 1))
	case 'P':
		g.DeleteChars(maxInt(p(0, 1), 1))
	case 'I':
		for i := 0; i < maxInt(p(0, 1), 1); i++ {
			g.Tab()
		}
	case 'g':
		g.ClearTabStop(p(0, 0))
	case 'r':
		top := p(0, 1)
		bottom := 1
		if len(params) > 1 {
			bottom = p(1, 1)
		} else {
			bottom = g.Height
		}
		g.SetScrollRegion(top-1, bottom-1)
	case 's':
		if private == 0 {
			g.SaveCursor()
		}
	case 'u':
		if private == 0 {
			g.RestoreCursor()
		}
	case 'm':
		g.applySGR(params)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// dispatchPrivateMode handles `CSI ? Pm h/l` (DEC private modes): auto-wrap,
// origin mode, bracketed paste, mouse reporting, and the synchronized-
// update mode (CSI ? 2026).
func (g *Grid) dispatchPrivateMode(params []int, final byte) {
	if final != 'h' && final != 'l' {
		return
	}
	on := final == 'h'
	for _, mode := range params {
		switch mode {
		case 7:
			g.SetAutoWrap(on)
		case 6:
			g.SetOriginMode(on)
		case 25:
			g.SetCursorVisible(on)
		case 1049, 1047, 47:
			if on {
				g.EnterAlternate()
			} else {
				g.ExitAlternate()
			}
		case 2004:
			g.setBracketedPaste(on)
		case 1000, 1002, 1003, 1006:
			g.setMouseMode(mode, on)
		case 2026:
			g.setSyncUpdate(on)
		}
	}
}

func (g *Grid) setBracketedPaste(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bracketedPaste = on
}

func (g *Grid) setMouseMode(mode int, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !on {
		g.mouseMode = 0
		return
	}
	g.mouseMode = mode
}

func (g *Grid) setSyncUpdate(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.syncUpdate = on
}

func (g *Grid) setKittyKeyboard(private byte, params []int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch private {
	case '>':
		g.kittyKeyboard = true
		if len(params) > 0 {
			g.kittyKeyboardFlags = params[0]
		}
	case '<':
		g.kittyKeyboard = false
		g.kittyKeyboardFlags = 0
	}
}

// BracketedPaste, MouseMode, SyncUpdate, and KittyKeyboard expose parser-
// tracked modes the rendering pipeline and client protocol need: whether
// to wrap pasted input, how to encode mouse events, whether a render
// should be withheld mid-frame, and how to encode key events.
func (g *Grid) BracketedPaste() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bracketedPaste
}

func (g *Grid) MouseMode() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mouseMode
}

func (g *Grid) SyncUpdate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.syncUpdate
}

func (g *Grid) KittyKeyboard() (bool, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.kittyKeyboard, g.kittyKeyboardFlags
}

// applySGR interprets `CSI Pm m` parameters into pen attribute/color
// changes, honouring 38;5;n / 38;2;r;g;b and their background equivalents.
func (g *Grid) applySGR(params []int) {
	if len(params) == 0 {
		g.ResetPen()
		return
	}
	for i := 0; i < len(params); i++ {
		n := params[i]
		switch {
		case n == 0:
			g.ResetPen()
		case n == 1:
			g.SetPenAttrs(AttrBold, 0)
		case n == 2:
			g.SetPenAttrs(AttrDim, 0)
		case n == 3:
			g.SetPenAttrs(AttrItalic, 0)
		case n == 4:
			g.SetPenAttrs(AttrUnderline, 0)
		case n == 5:
			g.SetPenAttrs(AttrBlink, 0)
		case n == 7:
			g.SetPenAttrs(AttrReverse, 0)
		case n == 9:
			g.SetPenAttrs(AttrStrike, 0)
		case n == 8:
			g.SetPenAttrs(AttrHidden, 0)
		case n == 22:
			g.SetPenAttrs(0, AttrBold|AttrDim)
		case n == 23:
			g.SetPenAttrs(0, AttrItalic)
		case n == 24:
			g.SetPenAttrs(0, AttrUnderline)
		case n == 25:
			g.SetPenAttrs(0, AttrBlink)
		case n == 27:
			g.SetPenAttrs(0, AttrReverse)
		case n == 28:
			g.SetPenAttrs(0, AttrHidden)
		case n == 29:
			g.SetPenAttrs(0, AttrStrike)
		case n >= 30 && n <= 37:
			g.SetFG(IndexedColor(uint8(n - 30)))
		case n == 38:
			consumed, c := parseExtendedColor(params[i+1:])
			g.SetFG(c)
			i += consumed
		case n == 39:
			g.SetFG(DefaultColor())
		case n >= 40 && n <= 47:
			g.SetBG(IndexedColor(uint8(n - 40)))
		case n == 48:
			consumed, c := parseExtendedColor(params[i+1:])
			g.SetBG(c)
			i += consumed
		case n == 49:
			g.SetBG(DefaultColor())
		case n >= 90 && n <= 97:
			g.SetFG(IndexedColor(uint8(n - 90 + 8)))
		case n >= 100 && n <= 107:
			g.SetBG(IndexedColor(uint8(n - 100 + 8)))
		}
	}
}

// parseExtendedColor decodes the params following a 38/48 introducer:
// "5;n" (indexed) or "2;r;g;b" (truecolor). Returns how many params were
// consumed beyond the introducer itself.
func parseExtendedColor(rest []int) (int, Color) {
	if len(rest) == 0 {
		return 0, DefaultColor()
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 {
			return 2, IndexedColor(uint8(rest[1]))
		}
		return 1, DefaultColor()
	case 2:
		if len(rest) >= 4 {
			return 4, RGBColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3]))
		}
		return len(rest), DefaultColor()
	}
	return 0, DefaultColor()
}

// OSCDispatch handles OSC <ps>;<string> sequences: 8 (hyperlink), 10/11
// (fg/bg color queries — answered by the PTY layer, not here).
func (g *Grid) OSCDispatch(params [][]byte) {
	if len(params) == 0 {
		return
	}
	ps, err := strconv.Atoi(string(params[0]))
	if err != nil {
		return
	}
	switch ps {
	case 8:
		if len(params) >= 3 {
			url := string(bytes.Join(params[2:], []byte(";")))
			g.SetHyperlink(url)
		} else {
			g.SetHyperlink("")
		}
	}
}

// DCSDispatch handles sixel image bodies (final 'q').
func (g *Grid) DCSDispatch(params []int, intermediate []byte, final byte, data []byte) {
	if final != 'q' {
		return
	}
	g.PlaceImage(data, sixelCellRows(data), sixelCellCols(data))
}

// sixelCellRows/Cols approximate how many text cells a sixel image spans
// with fixed factors rather than real font metrics, which are a
// client-side concern outside this package: one text row per sixel band
// (each '-' starts a new band), capped at 40, and one column per 200
// payload bytes, capped at 120.
func sixelCellRows(data []byte) int {
	bands := bytes.Count(data, []byte("-")) + 1
	rows := bands
	if rows < 1 {
		rows = 1
	}
	if rows > 40 {
		rows = 40
	}
	return rows
}

func sixelCellCols(data []byte) int {
	cols := len(data) / 200
	if cols < 1 {
		cols = 1
	}
	if cols > 120 {
		cols = 120
	}
	return cols
}

// APCDispatch handles the Kitty graphics protocol (`APC G ... ST`): a
// semicolon-and-comma-keyed control block followed by an optional payload,
// per common terminal emulator conventions for this extension.
func (g *Grid) APCDispatch(data []byte) {
	if len(data) == 0 || data[0] != 'G' {
		return
	}
	body := data[1:]
	semi := bytes.IndexByte(body, ';')
	var payload []byte
	if semi >= 0 {
		payload = body[semi+1:]
	}
	if len(payload) == 0 {
		return
	}
	g.PlaceImage(payload, 1, sixelCellCols(payload))
}
