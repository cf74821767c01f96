package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/grid"
)

func writeLine(g *grid.Grid, text string) {
	for _, r := range text {
		g.PutChar(r)
	}
	g.CarriageReturn()
	g.LineFeed()
}

func TestSearchScrollbackFindsSubstringGoingForward(t *testing.T) {
	g := grid.New(20, 4, 100, nil, nil)
	writeLine(g, "alpha")
	writeLine(g, "bravo needle here")
	writeLine(g, "charlie")

	match, ok := SearchScrollback(g, "needle", SearchMatch{Row: 0, Col: -1}, 1)
	require.True(t, ok)
	assert.Equal(t, 1, match.Row)
	assert.Equal(t, 6, match.Col)
}

func TestSearchScrollbackReturnsFalseWhenQueryAbsent(t *testing.T) {
	g := grid.New(20, 4, 100, nil, nil)
	writeLine(g, "alpha")
	writeLine(g, "bravo")

	_, ok := SearchScrollback(g, "zzz", SearchMatch{}, 1)
	assert.False(t, ok)
}

func TestSearchScrollbackEmptyQueryReturnsFalse(t *testing.T) {
	g := grid.New(20, 4, 100, nil, nil)
	writeLine(g, "alpha")

	_, ok := SearchScrollback(g, "", SearchMatch{}, 1)
	assert.False(t, ok)
}

func TestSearchScrollbackAdvancesPastPreviousMatchGoingForward(t *testing.T) {
	g := grid.New(20, 4, 100, nil, nil)
	writeLine(g, "cat cat cat")

	first, ok := SearchScrollback(g, "cat", SearchMatch{Row: 0, Col: -1}, 1)
	require.True(t, ok)
	assert.Equal(t, 0, first.Col)

	second, ok := SearchScrollback(g, "cat", first, 1)
	require.True(t, ok)
	assert.Equal(t, 4, second.Col)
}

func TestFuzzySwitchTargetsListsTabsThenTheirNamedPanes(t *testing.T) {
	s := newTestScreen()
	targets := FuzzySwitchTargets(s)
	require.Len(t, targets, 1, "a single fresh tab with its unnamed initial pane contributes just the tab entry")
	assert.Equal(t, s.Tabs()[0].Name, targets[0].Label)
}

func TestFuzzySwitchRanksMatchingLabelsByScore(t *testing.T) {
	s := newTestScreen()
	s.tabs[0].Name = "editor"
	results := FuzzySwitch(s, "edt")
	require.NotEmpty(t, results)
	assert.Equal(t, "editor", results[0].Label)
}
