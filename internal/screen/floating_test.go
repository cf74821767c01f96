package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/pane"
)

func TestFloatingPanesInsertPutsNewestOnTopOfZOrder(t *testing.T) {
	f := NewFloatingPanes()
	a := term(pane.Terminal(1), pane.Geom{})
	b := term(pane.Terminal(2), pane.Geom{})
	f.Insert(a)
	f.Insert(b)

	order := f.VisibleInOrder(false)
	require.Len(t, order, 2)
	assert.Equal(t, pane.Terminal(1), order[0].ID())
	assert.Equal(t, pane.Terminal(2), order[1].ID())
}

func TestFloatingPanesRaiseToTopMovesPaneToFront(t *testing.T) {
	f := NewFloatingPanes()
	a := term(pane.Terminal(1), pane.Geom{})
	b := term(pane.Terminal(2), pane.Geom{})
	f.Insert(a)
	f.Insert(b)

	f.RaiseToTop(a.ID())
	order := f.VisibleInOrder(false)
	require.Len(t, order, 2)
	assert.Equal(t, pane.Terminal(2), order[0].ID())
	assert.Equal(t, pane.Terminal(1), order[1].ID())
}

func TestFloatingPanesRemoveDropsFromZOrderAndLookup(t *testing.T) {
	f := NewFloatingPanes()
	a := term(pane.Terminal(1), pane.Geom{})
	f.Insert(a)
	f.Remove(a.ID())

	_, ok := f.Get(a.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, f.Len())
}

func TestFloatingPanesVisibleInOrderHiddenFiltersToPinnedOnly(t *testing.T) {
	f := NewFloatingPanes()
	pinned := term(pane.Terminal(1), pane.Geom{IsPinned: true})
	unpinned := term(pane.Terminal(2), pane.Geom{IsPinned: false})
	f.Insert(unpinned)
	f.Insert(pinned)

	order := f.VisibleInOrder(true)
	require.Len(t, order, 1)
	assert.Equal(t, pane.Terminal(1), order[0].ID())
}
