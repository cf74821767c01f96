package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/layout"
	"gridmux/internal/pane"
)

func twoPaneLayout(name string) layout.SwapLayout {
	return layout.SwapLayout{
		Name:       name,
		Constraint: layout.LayoutConstraint{Kind: layout.ConstraintExact, Panes: 2},
		Tiled: &layout.Node{
			SplitDirection: layout.SplitVertical,
			Children: []*layout.Node{
				{IsLeaf: true, Run: pane.RunInstruction{Kind: pane.RunCmd}},
				{IsLeaf: true, Run: pane.RunInstruction{Kind: pane.RunCmd}},
			},
		},
	}
}

func TestEligibleSwapLayoutsFiltersByConstraint(t *testing.T) {
	tb := NewTab(0, "t", pane.Geom{Rows: 10, Cols: 80})
	tb.Tiled.Insert(term(pane.Terminal(1), pane.Geom{Rows: 10, Cols: 80}))
	tb.SwapTiled = []layout.SwapLayout{
		twoPaneLayout("stacked"),
		{Name: "three-wide", Constraint: layout.LayoutConstraint{Kind: layout.ConstraintExact, Panes: 3}},
	}

	out := eligibleSwapLayouts(tb, true)
	require.Len(t, out, 0, "tab has 1 pane, neither layout's constraint (2 or 3) matches")
}

func TestCurrentIndexFindsByNameOrReportsMissing(t *testing.T) {
	candidates := []layout.SwapLayout{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, 1, currentIndex(candidates, "b"))
	assert.Equal(t, -1, currentIndex(candidates, "never-cycled"))
}

func TestNextSwapLayoutCyclesAndClearsDirtyFlag(t *testing.T) {
	s := newTestScreen()
	tb := s.Tab(0)
	tb.Tiled.Insert(term(pane.Terminal(1), pane.Geom{Rows: 24, Cols: 80}))
	tb.Tiled.Insert(term(pane.Terminal(2), pane.Geom{X: 40, Rows: 24, Cols: 40}))
	tb.SwapTiled = []layout.SwapLayout{twoPaneLayout("even-split"), twoPaneLayout("other")}
	tb.MarkDirty()

	res := &layout.Resources{TerminalIDs: []pane.ID{pane.Terminal(10), pane.Terminal(11)}}
	require.NoError(t, s.NextSwapLayout(tb, res))
	assert.Equal(t, "even-split", tb.ActiveSwapLayout)
	assert.False(t, tb.IsSwapLayoutDirty, "a fresh cycle clears the dirty flag")

	res2 := &layout.Resources{TerminalIDs: []pane.ID{pane.Terminal(12), pane.Terminal(13)}}
	require.NoError(t, s.NextSwapLayout(tb, res2))
	assert.Equal(t, "other", tb.ActiveSwapLayout, "cycling again advances to the next eligible layout")
}

func TestNextSwapLayoutErrorsWhenNoneMatchPaneCount(t *testing.T) {
	s := newTestScreen()
	tb := s.Tab(0)
	tb.Tiled.Insert(term(pane.Terminal(1), pane.Geom{Rows: 24, Cols: 80}))
	tb.SwapTiled = []layout.SwapLayout{twoPaneLayout("needs-two")}

	res := &layout.Resources{TerminalIDs: []pane.ID{pane.Terminal(10)}}
	err := s.NextSwapLayout(tb, res)
	assert.Error(t, err)
}
