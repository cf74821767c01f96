package grid

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ColorMode tags a Color's variant.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	ColorIndexed
	ColorRGB
)

// Color is a cell's foreground or background color.
type Color struct {
	Mode  ColorMode
	Index uint8
	R, G, B uint8
}

func DefaultColor() Color       { return Color{Mode: ColorDefault} }
func IndexedColor(i uint8) Color { return Color{Mode: ColorIndexed, Index: i} }
func RGBColor(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

// Attr is a bitmask of SGR character attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrike
	AttrHidden
)

// Cell is a single grid position: a (possibly wide) character, any
// zero-width combining marks stacked onto it, its colors and attributes,
// and an optional hyperlink id.
type Cell struct {
	Ch          rune
	Combining   []rune // zero-width marks (accents, ZWJ joins) stacked onto Ch
	WideLead    bool   // this cell starts a 2-column-wide character
	WideTrail   bool   // this cell is the trailing half of a wide character
	FG, BG      Color
	Attrs       Attr
	HyperlinkID uint32
	ImageRef    uint64 // non-zero: this cell renders a slice of a stored sixel/Kitty image
}

// IsCombiningMark reports whether ch is a zero-width grapheme extender that
// should stack onto the preceding cell rather than occupy a column of its
// own — an accent, a variation selector, a zero-width joiner.
func IsCombiningMark(ch rune) bool {
	return uniseg.StringWidth(string(ch)) == 0
}

// Width returns the number of display columns ch occupies (1 or 2), using
// East-Asian-width-aware measurement so CJK and emoji wrap the same way a
// real terminal does.
func Width(ch rune) int {
	if ch == 0 {
		return 1
	}
	w := runewidth.RuneWidth(ch)
	if w <= 0 {
		return 1
	}
	return w
}

func blankCell(fg, bg Color) Cell {
	return Cell{Ch: ' ', FG: fg, BG: bg}
}
