package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/pane"
)

func TestResizeActiveIncreaseGrowsTowardDirectionAndShrinksNeighbour(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Cols: 100, Rows: 40})
	left := term(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 50, Rows: 40})
	right := term(pane.Terminal(2), pane.Geom{X: 50, Y: 0, Cols: 50, Rows: 40})
	tp.Insert(left)
	tp.Insert(right)

	dir := DirRight
	require.NoError(t, tp.ResizeActive(left.ID(), ResizeStrategy{Sense: Increase, Direction: &dir}))

	lg, _ := tp.Get(left.ID())
	rg, _ := tp.Get(right.ID())
	assert.Equal(t, uint32(52), lg.Geom().Cols)
	assert.Equal(t, uint32(52), rg.Geom().X)
	assert.Equal(t, uint32(48), rg.Geom().Cols)
}

func TestResizeActiveDecreaseShrinksTowardDirection(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Cols: 100, Rows: 40})
	left := term(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 50, Rows: 40})
	right := term(pane.Terminal(2), pane.Geom{X: 50, Y: 0, Cols: 50, Rows: 40})
	tp.Insert(left)
	tp.Insert(right)

	dir := DirRight
	require.NoError(t, tp.ResizeActive(left.ID(), ResizeStrategy{Sense: Decrease, Direction: &dir}))

	lg, _ := tp.Get(left.ID())
	rg, _ := tp.Get(right.ID())
	assert.Equal(t, uint32(48), lg.Geom().Cols)
	assert.Equal(t, uint32(48), rg.Geom().X)
	assert.Equal(t, uint32(52), rg.Geom().Cols)
}

func TestResizeActiveNoNeighbourAndNoInvertIsANoop(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Cols: 50, Rows: 40})
	only := term(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 50, Rows: 40})
	tp.Insert(only)

	dir := DirRight
	require.NoError(t, tp.ResizeActive(only.ID(), ResizeStrategy{Sense: Increase, Direction: &dir, InvertOnBoundaries: false}))

	g, _ := tp.Get(only.ID())
	assert.Equal(t, uint32(50), g.Geom().Cols)
}

func TestResizeActiveInvertsOntoOppositeBorderAtBoundary(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Cols: 100, Rows: 40})
	left := term(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 50, Rows: 40})
	right := term(pane.Terminal(2), pane.Geom{X: 50, Y: 0, Cols: 50, Rows: 40})
	tp.Insert(left)
	tp.Insert(right)

	dir := DirRight
	require.NoError(t, tp.ResizeActive(right.ID(), ResizeStrategy{Sense: Increase, Direction: &dir, InvertOnBoundaries: true}))

	lg, _ := tp.Get(left.ID())
	rg, _ := tp.Get(right.ID())
	assert.Equal(t, uint32(52), lg.Geom().Cols, "no room to grow rightward at the viewport edge inverts the move onto the opposite border")
	assert.Equal(t, uint32(48), rg.Geom().Cols)
	assert.Equal(t, uint32(52), rg.Geom().X)
}

func TestRelayoutRescalesProportionally(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Cols: 100, Rows: 40})
	left := term(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 50, Rows: 40})
	right := term(pane.Terminal(2), pane.Geom{X: 50, Y: 0, Cols: 50, Rows: 40})
	tp.Insert(left)
	tp.Insert(right)

	tp.Relayout(pane.Geom{Cols: 200, Rows: 40})

	lg, _ := tp.Get(left.ID())
	rg, _ := tp.Get(right.ID())
	assert.Equal(t, uint32(100), lg.Geom().Cols)
	assert.Equal(t, uint32(100), rg.Geom().X)
	assert.Equal(t, uint32(100), rg.Geom().Cols)
}

func TestRelayoutOnNonEvenlyDivisibleExtentStillCoversTheWholeEdge(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Cols: 100, Rows: 40})
	left := term(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 50, Rows: 40})
	right := term(pane.Terminal(2), pane.Geom{X: 50, Y: 0, Cols: 50, Rows: 40})
	tp.Insert(left)
	tp.Insert(right)

	tp.Relayout(pane.Geom{Cols: 101, Rows: 40})

	lg, _ := tp.Get(left.ID())
	rg, _ := tp.Get(right.ID())
	assert.Equal(t, uint32(0), lg.Geom().X)
	assert.Equal(t, rg.Geom().X, lg.Geom().X+lg.Geom().Cols, "the panes must still share a border after rescaling")
	assert.Equal(t, uint32(101), rg.Geom().X+rg.Geom().Cols, "the rightmost pane must reach the new viewport edge exactly")
}
