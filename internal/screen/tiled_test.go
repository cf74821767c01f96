package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/pane"
)

func term(id pane.ID, g pane.Geom) *pane.TerminalPane {
	return pane.NewTerminalPane(id, g, pane.RunCommand{Command: "bash"}, nil)
}

func TestTiledPanesInsertGetAllPreserveOrder(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 10, Cols: 80})
	a := term(pane.Terminal(1), pane.Geom{Rows: 10, Cols: 40})
	b := term(pane.Terminal(2), pane.Geom{X: 40, Rows: 10, Cols: 40})
	tp.Insert(a)
	tp.Insert(b)

	assert.Equal(t, 2, tp.Len())
	all := tp.All()
	require.Len(t, all, 2)
	assert.Equal(t, pane.Terminal(1), all[0].ID())
	assert.Equal(t, pane.Terminal(2), all[1].ID())

	got, ok := tp.Get(pane.Terminal(2))
	require.True(t, ok)
	assert.Equal(t, b, got)
}

func TestTiledPanesSplitVerticalHalvesColumns(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 10, Cols: 80})
	a := term(pane.Terminal(1), pane.Geom{Rows: 10, Cols: 80})
	tp.Insert(a)

	newGeom, err := tp.SplitVertical(pane.Terminal(1))
	require.NoError(t, err)
	assert.Equal(t, uint32(40), a.Geom().Cols, "original pane shrinks to half its columns")
	assert.Equal(t, uint32(40), newGeom.X)
	assert.Equal(t, uint32(40), newGeom.Cols)
}

func TestTiledPanesCloseWithRefillGivesSpaceToAdjacentPane(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 10, Cols: 80})
	left := term(pane.Terminal(1), pane.Geom{X: 0, Rows: 10, Cols: 40})
	right := term(pane.Terminal(2), pane.Geom{X: 40, Rows: 10, Cols: 40})
	tp.Insert(left)
	tp.Insert(right)

	err := tp.CloseWithRefill(pane.Terminal(2))
	require.NoError(t, err)
	assert.Equal(t, 1, tp.Len())
	assert.Equal(t, uint32(80), left.Geom().Cols, "left pane absorbs the closed pane's freed columns")
}

func TestTiledPanesCheckTilingInvariantDetectsGap(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 10, Cols: 80})
	tp.Insert(term(pane.Terminal(1), pane.Geom{X: 0, Rows: 10, Cols: 30}))
	err := tp.CheckTilingInvariant(nil)
	assert.Error(t, err, "30 covered columns out of an 80-wide viewport leaves a gap")
}

func TestTiledPanesCheckTilingInvariantPassesForExactTile(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 10, Cols: 80})
	tp.Insert(term(pane.Terminal(1), pane.Geom{X: 0, Rows: 10, Cols: 40}))
	tp.Insert(term(pane.Terminal(2), pane.Geom{X: 40, Rows: 10, Cols: 40}))
	assert.NoError(t, tp.CheckTilingInvariant(nil))
}
