package render

import (
	"bytes"
	"fmt"

	"gridmux/internal/pane"
	"gridmux/internal/screen"
)

// drawCursors positions the real terminal cursor at client's focused pane
// (or hides it, if that pane isn't a terminal or isn't visible) and, for
// every other client focused on a different visible pane in the same tab,
// draws a fake cursor: a reverse-video marker, since only one real cursor
// can exist in the output stream. This is what lets two attached clients
// in a mirrored session see where each other's focus is.
func drawCursors(buf *bytes.Buffer, tab *screen.Tab, client screen.ClientID, visible []visiblePane) {
	byID := make(map[pane.ID]visiblePane, len(visible))
	for _, vp := range visible {
		byID[vp.p.ID()] = vp
	}

	focused, hasFocus := tab.ActivePane(client)
	for other, paneID := range tab.ActivePanePerClient {
		if other == client {
			continue
		}
		vp, ok := byID[paneID]
		if !ok || paneID == focused {
			continue
		}
		drawFakeCursor(buf, vp)
	}

	if !hasFocus {
		return
	}
	vp, ok := byID[focused]
	if !ok {
		buf.WriteString("\033[?25l")
		return
	}
	tp, ok := vp.p.(*pane.TerminalPane)
	if !ok || tp.GridHandle == nil {
		buf.WriteString("\033[?25l")
		return
	}
	cur := tp.GridHandle.RenderCursor()
	if !cur.Visible {
		buf.WriteString("\033[?25l")
		return
	}
	row := int(vp.contentRect.Y) + cur.Y + 1
	col := int(vp.contentRect.X) + cur.X + 1
	fmt.Fprintf(buf, "\033[%d;%dH\033[?25h", row, col)
}

func drawFakeCursor(buf *bytes.Buffer, vp visiblePane) {
	tp, ok := vp.p.(*pane.TerminalPane)
	if !ok || tp.GridHandle == nil {
		return
	}
	cur := tp.GridHandle.RenderCursor()
	row := int(vp.contentRect.Y) + cur.Y + 1
	col := int(vp.contentRect.X) + cur.X + 1
	if row < int(vp.contentRect.Y)+1 || row > int(vp.contentRect.Y+vp.contentRect.Rows) {
		return
	}
	fmt.Fprintf(buf, "\033[%d;%dH\033[7m \033[0m", row, col)
}
