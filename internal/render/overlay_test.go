package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"gridmux/internal/pane"
)

func TestJunctionPicksCornerForSingleDirectionPair(t *testing.T) {
	edges := edgeSet{{0, 0}: edgeDown | edgeRight}
	assert.Equal(t, "┌", junction(edges, 0, 0))
}

func TestJunctionPicksCrossForAllFourDirections(t *testing.T) {
	edges := edgeSet{{5, 5}: edgeUp | edgeDown | edgeLeft | edgeRight}
	assert.Equal(t, "┼", junction(edges, 5, 5))
}

func TestJunctionUnmarkedPointDefaultsToCross(t *testing.T) {
	edges := edgeSet{}
	assert.Equal(t, "┼", junction(edges, 1, 1))
}

func TestCollectEdgesMergesPanesSharingACornerPoint(t *testing.T) {
	// left's top-right corner and right's top-left corner both land on
	// column 5 (left spans columns 0-5, right starts at column 5), so the
	// two panes' edge marks at (5, 0) combine into a down-facing tee.
	left := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 6, Rows: 10}, pane.RunCommand{}, nil)
	right := pane.NewTerminalPane(pane.Terminal(2), pane.Geom{X: 5, Y: 0, Cols: 5, Rows: 10}, pane.RunCommand{}, nil)
	edges := collectEdges([]visiblePane{{p: left}, {p: right}})

	assert.Equal(t, edgeDown|edgeLeft|edgeRight, edges[[2]uint32{5, 0}])
}

func TestDrawFrameOverlaySkipsBorderlessPanes(t *testing.T) {
	p := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 5, Rows: 4}, pane.RunCommand{}, nil)
	p.SetBorderless(true)

	var buf bytes.Buffer
	drawFrameOverlay(&buf, []visiblePane{{p: p}})
	assert.Empty(t, buf.String())
}

func TestDrawFrameOverlayDrawsAllFourCornersForASinglePane(t *testing.T) {
	p := pane.NewTerminalPane(pane.Terminal(1), pane.Geom{X: 0, Y: 0, Cols: 5, Rows: 4}, pane.RunCommand{}, nil)

	var buf bytes.Buffer
	drawFrameOverlay(&buf, []visiblePane{{p: p}})
	out := buf.String()

	assert.Contains(t, out, "\033[1;1H┌")
	assert.Contains(t, out, "\033[1;5H┐")
	assert.Contains(t, out, "\033[4;1H└")
	assert.Contains(t, out, "\033[4;5H┘")
}
