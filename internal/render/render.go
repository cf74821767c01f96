// Package render turns a tab's live pane state into the escape-sequence
// stream one attached client receives on a render tick. It never touches a
// socket itself (internal/server owns the write side); it only produces
// bytes, split between "what changed" and "how it's drawn" — generalized from one
// cursor-anchored VT view to many tiled/floating panes composited into a
// single frame.
package render

import (
	"bytes"
	"fmt"

	"github.com/muesli/termenv"

	"gridmux/internal/pane"
	"gridmux/internal/screen"
)

// FrameStyle controls chrome drawing: whether (and how) pane borders and
// the tab bar are rendered.
type FrameStyle struct {
	DrawFrames bool
}

// ClientState is the rendering pipeline's memory of what a given client
// was last shown, so the next tick can emit a diff instead of a full
// repaint. Keyed by pane id since panes come and go across reapplications.
type ClientState struct {
	Profile   termenv.Profile
	priorRows map[pane.ID][]string // last emitted plain-text row content, for per-row diffing
}

// NewClientState seeds a client's render state with its detected color
// profile (resolved once at attach via termenv's terminal probing).
func NewClientState(profile termenv.Profile) *ClientState {
	return &ClientState{Profile: profile, priorRows: make(map[pane.ID][]string)}
}

// visiblePane is one pane plus its resolved content rectangle (pane rect
// minus frame offsets) and stacking layer, gathered in the order the
// spec's step 4 wants them drawn: tiles, then floats back-to-front.
type visiblePane struct {
	p           pane.Pane
	contentRect pane.Geom
	isFloat     bool
}

// RenderTab produces the full escape-sequence frame for one attached
// client: visible-set gathering, per-pane diffed content, frame overlay,
// and the positioned cursor, in that drawing order. state is mutated to
// record what was emitted for the next tick's diff.
func RenderTab(tab *screen.Tab, client screen.ClientID, style FrameStyle, state *ClientState) []byte {
	var buf bytes.Buffer

	visible := gatherVisible(tab)
	sync := anySyncUpdate(visible)
	if sync {
		buf.WriteString("\033[?2026h")
	}
	buf.WriteString("\033[?25l") // hide cursor while painting; repositioned+shown at the end

	for _, vp := range visible {
		renderPaneContent(&buf, vp, state)
	}

	if style.DrawFrames {
		drawFrameOverlay(&buf, visible)
	}

	drawCursors(&buf, tab, client, visible)
	if sync {
		buf.WriteString("\033[?2026l")
	}

	return buf.Bytes()
}

// anySyncUpdate reports whether any visible terminal pane's child process
// has requested synchronized-output mode, in which case the whole
// composited frame is wrapped in the synchronized-update escape so the
// client's own terminal doesn't tear mid-paint.
func anySyncUpdate(visible []visiblePane) bool {
	for _, vp := range visible {
		if tp, ok := vp.p.(*pane.TerminalPane); ok && tp.GridHandle != nil && tp.GridHandle.SyncUpdate() {
			return true
		}
	}
	return false
}

// gatherVisible collects every pane that should appear on screen this
// tick, in paint order: tiled panes (in arena insertion order) first, then
// floating panes back-to-front (or only pinned ones, if the floating layer
// is toggled hidden) so floats composite over tiles.
func gatherVisible(tab *screen.Tab) []visiblePane {
	var out []visiblePane
	for _, p := range tab.VisiblePanes() {
		out = append(out, visiblePane{p: p, contentRect: contentRect(p)})
	}
	hidden := !tab.AreFloatingPanesVisible
	for _, p := range tab.Floating.VisibleInOrder(hidden) {
		out = append(out, visiblePane{p: p, contentRect: contentRect(p), isFloat: true})
	}
	return out
}

// contentRect returns p's rectangle minus a 1-cell frame border on each
// side when p draws a frame (not borderless); a borderless pane's content
// rect equals its full geometry.
func contentRect(p pane.Pane) pane.Geom {
	g := p.Geom()
	if p.Borderless() || g.Rows < 3 || g.Cols < 3 {
		return g
	}
	return pane.Geom{X: g.X + 1, Y: g.Y + 1, Rows: g.Rows - 2, Cols: g.Cols - 2, Stacked: g.Stacked, IsPinned: g.IsPinned}
}

func renderPaneContent(buf *bytes.Buffer, vp visiblePane, state *ClientState) {
	rows := contentRows(vp.p)
	prior := state.priorRows[vp.p.ID()]
	changed := diffRows(prior, rows)
	next := make([]string, len(rows))

	for i, row := range rows {
		if i >= int(vp.contentRect.Rows) {
			break
		}
		if i < len(changed) && !changed[i] {
			next[i] = row.plain
			continue
		}
		screenRow := int(vp.contentRect.Y) + i
		var priorLine string
		if i < len(prior) {
			priorLine = prior[i]
		}
		rowLen := len(row.cells)
		if row.cells == nil {
			rowLen = len([]rune(row.plain))
		}
		start, end, partial := commonChangedSpan(priorLine, row.plain)
		if !partial {
			start, end = 0, rowLen
		}
		if end > rowLen {
			end = rowLen
		}
		fmt.Fprintf(buf, "\033[%d;%dH", screenRow+1, int(vp.contentRect.X)+start+1)
		writeSGRRow(buf, row, start, end, state.Profile)
		next[i] = row.plain
	}
	state.priorRows[vp.p.ID()] = next
}

// renderedRow is one content row's cells plus its plain-text rendering
// (used only to diff cheaply; the SGR emission reads the cells directly).
type renderedRow struct {
	cells []pane.GridCell
	plain string
}

// contentRows asks pane's underlying content source (grid or cached plugin
// render) for rows clipped to its content rect. A placeholder pane
// produces blank rows.
func contentRows(p pane.Pane) []renderedRow {
	rect := contentRect(p)
	switch tp := p.(type) {
	case *pane.TerminalPane:
		return gridRows(tp.GridHandle, int(rect.Rows), int(rect.Cols))
	case *pane.PluginPane:
		return pluginRows(tp.LastRender, int(rect.Rows), int(rect.Cols))
	default:
		return blankRows(int(rect.Rows), int(rect.Cols))
	}
}

func gridRows(g pane.GridLike, rows, cols int) []renderedRow {
	if g == nil {
		return blankRows(rows, cols)
	}
	src := g.RenderRows()
	out := make([]renderedRow, rows)
	for i := 0; i < rows; i++ {
		var cells []pane.GridCell
		if i < len(src) {
			cells = src[i].Cells
		}
		out[i] = clipRow(cells, cols)
	}
	return out
}

func clipRow(cells []pane.GridCell, cols int) renderedRow {
	out := make([]pane.GridCell, cols)
	var sb bytes.Buffer
	for i := 0; i < cols; i++ {
		if i < len(cells) {
			out[i] = cells[i]
		} else {
			out[i] = pane.GridCell{Ch: ' '}
		}
		if out[i].Ch == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(out[i].Ch)
			for _, cm := range out[i].Combining {
				sb.WriteRune(cm)
			}
		}
	}
	return renderedRow{cells: out, plain: sb.String()}
}

func blankRows(rows, cols int) []renderedRow {
	out := make([]renderedRow, rows)
	blank := clipRow(nil, cols)
	for i := range out {
		out[i] = blank
	}
	return out
}

// pluginRows splits a plugin's cached last-render (already-formatted text,
// newline separated) into content rows; plugins are responsible for their
// own internal styling, so each line is emitted verbatim rather than
// cell-by-cell.
func pluginRows(lastRender []byte, rows, cols int) []renderedRow {
	lines := bytes.Split(lastRender, []byte("\n"))
	out := make([]renderedRow, rows)
	for i := 0; i < rows; i++ {
		var line string
		if i < len(lines) {
			line = string(lines[i])
		}
		if len(line) > cols {
			line = line[:cols]
		}
		out[i] = renderedRow{plain: line}
	}
	return out
}
