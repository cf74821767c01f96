package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/pane"
	"gridmux/internal/screen"
)

func TestContentRectInsetsByOneCellOnEachSideWhenFramed(t *testing.T) {
	p := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{X: 10, Y: 5, Cols: 20, Rows: 10}, pane.RunCommand{}, nil)
	rect := contentRect(p)
	assert.Equal(t, pane.Geom{X: 11, Y: 6, Cols: 18, Rows: 8}, rect)
}

func TestContentRectEqualsFullGeomWhenBorderless(t *testing.T) {
	p := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{X: 10, Y: 5, Cols: 20, Rows: 10}, pane.RunCommand{}, nil)
	p.SetBorderless(true)
	assert.Equal(t, p.Geom(), contentRect(p))
}

func TestContentRectEqualsFullGeomWhenTooSmallToFrame(t *testing.T) {
	p := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 2, Rows: 2}, pane.RunCommand{}, nil)
	assert.Equal(t, p.Geom(), contentRect(p))
}

func TestGatherVisibleListsTiledPanesThenVisibleFloats(t *testing.T) {
	tab := screen.NewTab(0, "tab-1", pane.Geom{Cols: 80, Rows: 24})
	tiled := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{Cols: 80, Rows: 24}, pane.RunCommand{}, nil)
	tab.Tiled.Insert(tiled)

	float := pane.NewTerminalPane(pane.Terminal(2), pane.Geom{X: 5, Y: 5, Cols: 20, Rows: 10}, pane.RunCommand{}, nil)
	tab.Floating.Insert(float)
	tab.AreFloatingPanesVisible = true

	visible := gatherVisible(tab)
	require.Len(t, visible, 2)
	assert.Equal(t, pane.Terminal(1), visible[0].p.ID())
	assert.False(t, visible[0].isFloat)
	assert.Equal(t, pane.Terminal(2), visible[1].p.ID())
	assert.True(t, visible[1].isFloat)
}

func TestGatherVisibleHidesUnpinnedFloatsWhenFloatingLayerToggledOff(t *testing.T) {
	tab := screen.NewTab(0, "tab-1", pane.Geom{Cols: 80, Rows: 24})
	pinned := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{IsPinned: true}, pane.RunCommand{}, nil)
	unpinned := pane.NewTerminalPane(pane.Terminal(2), pane.Geom{}, pane.RunCommand{}, nil)
	tab.Floating.Insert(unpinned)
	tab.Floating.Insert(pinned)
	tab.AreFloatingPanesVisible = false

	visible := gatherVisible(tab)
	require.Len(t, visible, 1)
	assert.Equal(t, pane.Terminal(1), visible[0].p.ID())
}
