package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(cols, rows, scrollback int) *Grid {
	return New(cols, rows, scrollback, NewSixelImageStore(8), NewLinkHandler())
}

func TestPutCharAdvancesCursor(t *testing.T) {
	g := newTestGrid(10, 3, 0)
	g.PutChar('a')
	g.PutChar('b')
	c := g.CursorState()
	assert.Equal(t, 2, c.X)
	rows := g.VisibleRows()
	assert.Equal(t, 'a', rows[0].Cells[0].Ch)
	assert.Equal(t, 'b', rows[0].Cells[1].Ch)
}

func TestPutCharWideRuneOccupiesTwoCells(t *testing.T) {
	g := newTestGrid(10, 3, 0)
	g.PutChar('界') // wide CJK character
	rows := g.VisibleRows()
	require.True(t, rows[0].Cells[0].WideLead)
	require.True(t, rows[0].Cells[1].WideTrail)
	c := g.CursorState()
	assert.Equal(t, 2, c.X)
}

func TestPutCharCombiningMarkStacksOntoPreviousCell(t *testing.T) {
	g := newTestGrid(10, 3, 0)
	g.PutChar('e')
	g.PutChar('́') // combining acute accent
	c := g.CursorState()
	assert.Equal(t, 1, c.X, "a combining mark must not advance the cursor")

	rows := g.VisibleRows()
	assert.Equal(t, 'e', rows[0].Cells[0].Ch)
	require.Len(t, rows[0].Cells[0].Combining, 1)
	assert.Equal(t, rune('́'), rows[0].Cells[0].Combining[0])
	assert.Equal(t, "é", string(rows[0].Cells[0].Ch)+string(rows[0].Cells[0].Combining))
}

func TestCombiningMarkWithNothingBeforeItIsDropped(t *testing.T) {
	g := newTestGrid(10, 3, 0)
	g.PutChar('́')
	c := g.CursorState()
	assert.Equal(t, 0, c.X)
	rows := g.VisibleRows()
	assert.Equal(t, rune(' '), rows[0].Cells[0].Ch)
}

func TestLineFeedPushesScrollback(t *testing.T) {
	g := newTestGrid(10, 2, 100)
	g.PutChar('a')
	g.LineFeed()
	g.LineFeed()
	g.LineFeed()
	assert.Equal(t, 2, g.ScrollbackLen())
}

func TestAllRowsIncludesScrollbackThenVisible(t *testing.T) {
	g := newTestGrid(5, 2, 10)
	g.PutChar('x')
	g.LineFeed()
	g.LineFeed()
	g.PutChar('y')

	all := g.AllRows()
	require.Len(t, all, 3)
	assert.Contains(t, all[0].Plain(), "x")
	assert.Contains(t, all[2].Plain(), "y")
}

func TestEraseInLineToEnd(t *testing.T) {
	g := newTestGrid(5, 1, 0)
	g.PutChar('a')
	g.PutChar('b')
	g.PutChar('c')
	g.MoveCursor(0, 1)
	g.EraseInLine(EraseToEnd)
	row := g.VisibleRows()[0]
	assert.Equal(t, 'a', row.Cells[0].Ch)
	assert.Equal(t, rune(' '), row.Cells[1].Ch)
	assert.Equal(t, rune(' '), row.Cells[2].Ch)
}
