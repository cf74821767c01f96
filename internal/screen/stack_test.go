package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/pane"
)

func stacked(id pane.ID, g pane.Geom, stack pane.StackID) *pane.TerminalPane {
	g.Stacked = &stack
	return term(id, g)
}

func TestStackMembersReturnsOnlyMatchingStackIDInInsertionOrder(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 20, Cols: 80})
	a := stacked(pane.Terminal(1), pane.Geom{Rows: 20, Cols: 40}, 7)
	b := term(pane.Terminal(2), pane.Geom{X: 40, Rows: 20, Cols: 40})
	c := stacked(pane.Terminal(3), pane.Geom{Rows: 20, Cols: 40}, 7)
	tp.Insert(a)
	tp.Insert(b)
	tp.Insert(c)

	members := tp.StackMembers(7)
	require.Len(t, members, 2)
	assert.Equal(t, pane.Terminal(1), members[0].ID())
	assert.Equal(t, pane.Terminal(3), members[1].ID())
}

func TestExpandInStackGrowsTargetToLargestMemberRectAndReturnsAllMembers(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 20, Cols: 80})
	small := stacked(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Rows: 10, Cols: 30}, 9)
	big := stacked(pane.Terminal(2), pane.Geom{X: 5, Y: 5, Rows: 20, Cols: 40}, 9)
	tp.Insert(small)
	tp.Insert(big)

	rect, members, ok := tp.ExpandInStack(pane.Terminal(1))
	require.True(t, ok)
	assert.Equal(t, uint32(20), rect.Rows)
	assert.Equal(t, uint32(40), rect.Cols)
	assert.ElementsMatch(t, []pane.ID{pane.Terminal(1), pane.Terminal(2)}, members)
	assert.Equal(t, rect, small.Geom(), "the expanded target takes on the stack's shared rectangle")
}

func TestExpandInStackReportsNotOkWhenPaneIsNotStacked(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 20, Cols: 80})
	solo := term(pane.Terminal(1), pane.Geom{Rows: 20, Cols: 80})
	tp.Insert(solo)

	_, _, ok := tp.ExpandInStack(solo.ID())
	assert.False(t, ok)
}

func TestExpandInStackReportsNotOkForUnknownPane(t *testing.T) {
	tp := NewTiledPanes(pane.Geom{Rows: 20, Cols: 80})
	_, _, ok := tp.ExpandInStack(pane.Terminal(99))
	assert.False(t, ok)
}
