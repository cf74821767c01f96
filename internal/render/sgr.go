package render

import (
	"bytes"
	"fmt"

	"github.com/muesli/termenv"

	"gridmux/internal/pane"
)

// writeSGRRow emits cells [start,end) of row as a run-length-optimized SGR
// stream: a new escape sequence only when style actually changes, colors
// downgraded to profile's gamut. If row carries no per-cell data (a plugin
// pane's pre-rendered text), the plain text is written verbatim instead.
func writeSGRRow(buf *bytes.Buffer, row renderedRow, start, end int, profile termenv.Profile) {
	if row.cells == nil {
		runes := []rune(row.plain)
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start < end {
			buf.WriteString(string(runes[start:end]))
		}
		return
	}
	if start < 0 {
		start = 0
	}
	if end > len(row.cells) {
		end = len(row.cells)
	}

	var last pane.GridCell
	haveLast := false
	for i := start; i < end; i++ {
		c := row.cells[i]
		if c.WideTrail {
			continue
		}
		if !haveLast || !sameStyle(last, c) {
			buf.WriteString("\033[0m")
			buf.WriteString(sgrSequence(c, profile))
			last = c
			haveLast = true
		}
		if c.Ch == 0 {
			buf.WriteByte(' ')
		} else {
			buf.WriteRune(c.Ch)
			for _, cm := range c.Combining {
				buf.WriteRune(cm)
			}
		}
	}
	buf.WriteString("\033[0m")
}

func sameStyle(a, b pane.GridCell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Attrs == b.Attrs
}

// sgrSequence renders one cell's colors and attributes as an SGR escape,
// downgrading truecolor/indexed colors to profile's supported gamut.
func sgrSequence(c pane.GridCell, profile termenv.Profile) string {
	var sb bytes.Buffer
	sb.WriteString("\033[")
	first := true
	put := func(code string) {
		if !first {
			sb.WriteByte(';')
		}
		sb.WriteString(code)
		first = false
	}
	if c.Attrs&pane.GridAttrBold != 0 {
		put("1")
	}
	if c.Attrs&pane.GridAttrDim != 0 {
		put("2")
	}
	if c.Attrs&pane.GridAttrItalic != 0 {
		put("3")
	}
	if c.Attrs&pane.GridAttrUnderline != 0 {
		put("4")
	}
	if c.Attrs&pane.GridAttrBlink != 0 {
		put("5")
	}
	if c.Attrs&pane.GridAttrReverse != 0 {
		put("7")
	}
	if c.Attrs&pane.GridAttrHidden != 0 {
		put("8")
	}
	if c.Attrs&pane.GridAttrStrike != 0 {
		put("9")
	}
	if first {
		sb.WriteString("0")
	}
	sb.WriteByte('m')

	if fg := colorSequence(c.FG, profile, false); fg != "" {
		sb.WriteString(fg)
	}
	if bg := colorSequence(c.BG, profile, true); bg != "" {
		sb.WriteString(bg)
	}
	return sb.String()
}

// colorSequence converts a GridColor to an SGR color-setting escape at
// profile's downgraded resolution, or "" for the default color (no
// escape needed beyond the reset already emitted).
func colorSequence(c pane.GridColor, profile termenv.Profile, background bool) string {
	var col termenv.Color
	switch c.Mode {
	case pane.GridColorDefault:
		return ""
	case pane.GridColorIndexed:
		col = profile.Color(fmt.Sprintf("%d", c.Index))
	case pane.GridColorRGB:
		col = profile.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	default:
		return ""
	}
	downgraded := profile.Convert(col)
	if downgraded == nil {
		return ""
	}
	return downgraded.Sequence(background)
}
