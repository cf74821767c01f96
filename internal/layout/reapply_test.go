package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmux/internal/pane"
)

func namedLeaf(name string) *Node {
	return &Node{IsLeaf: true, Name: name, Run: pane.RunInstruction{Kind: pane.RunCmd}}
}

func TestReapplyMatchesLiveLeafByExactRunFirst(t *testing.T) {
	root := &Node{SplitDirection: SplitVertical, Children: []*Node{
		{IsLeaf: true, Run: pane.RunInstruction{Kind: pane.RunCmd, Command: pane.RunCommand{Command: "vim"}}},
		{IsLeaf: true, Run: pane.RunInstruction{Kind: pane.RunCmd, Command: pane.RunCommand{Command: "bash"}}},
	}}
	live := []LivePane{
		{ID: pane.Terminal(10), Run: pane.RunInstruction{Kind: pane.RunCmd, Command: pane.RunCommand{Command: "bash"}}, LogicalPos: 0},
		{ID: pane.Terminal(11), Run: pane.RunInstruction{Kind: pane.RunCmd, Command: pane.RunCommand{Command: "vim"}}, LogicalPos: 1},
	}
	res := &Resources{TerminalIDs: []pane.ID{pane.Terminal(20), pane.Terminal(21)}}

	result, err := Reapply(root, nil, pane.Geom{Rows: 10, Cols: 80}, live, nil, res)
	require.NoError(t, err)

	assert.Equal(t, pane.Terminal(11), result.Assignment[0], "vim leaf claims the live vim pane despite position mismatch")
	assert.Equal(t, pane.Terminal(10), result.Assignment[1], "bash leaf claims the live bash pane despite position mismatch")
	assert.Empty(t, result.StalePanes)
	assert.ElementsMatch(t, []pane.ID{pane.Terminal(20), pane.Terminal(21)}, result.ExcessTerminalIDs,
		"both pre-spawned ids go unused since both leaves matched live panes")
}

func TestReapplyFallsBackToNameThenLogicalPosition(t *testing.T) {
	root := &Node{SplitDirection: SplitVertical, Children: []*Node{
		namedLeaf("editor"),
		namedLeaf(""),
	}}
	unrelatedRun := pane.RunInstruction{Kind: pane.RunCmd, Command: pane.RunCommand{Command: "noop"}}
	live := []LivePane{
		{ID: pane.Terminal(1), Name: "editor", LogicalPos: 5, Run: unrelatedRun},
		{ID: pane.Terminal(2), Name: "", LogicalPos: 1, Run: unrelatedRun},
	}
	res := &Resources{TerminalIDs: []pane.ID{pane.Terminal(30), pane.Terminal(31)}}

	result, err := Reapply(root, nil, pane.Geom{Rows: 10, Cols: 80}, live, nil, res)
	require.NoError(t, err)

	assert.Equal(t, pane.Terminal(1), result.Assignment[0], "name match wins for the editor leaf")
	assert.Equal(t, pane.Terminal(2), result.Assignment[1], "remaining leaf matches the live pane at its logical position")
}

func TestReapplyExcessLivePanesAreStale(t *testing.T) {
	root := namedLeaf("only")
	live := []LivePane{
		{ID: pane.Terminal(1), LogicalPos: 0},
		{ID: pane.Terminal(2), LogicalPos: 1},
	}
	res := &Resources{TerminalIDs: []pane.ID{pane.Terminal(40)}}

	result, err := Reapply(root, nil, pane.Geom{Rows: 10, Cols: 80}, live, nil, res)
	require.NoError(t, err)
	require.Len(t, result.StalePanes, 1)
	assert.Equal(t, pane.Terminal(2), result.StalePanes[0])
}

func TestReapplyExcessFloatingPanesAreLeftInPlace(t *testing.T) {
	floats := []FloatingPaneLayout{
		{Width: pane.Fixed(20), Height: pane.Fixed(5), X: pane.Auto(), Y: pane.Auto(), Name: "notes"},
	}
	liveFloats := []LivePane{
		{ID: pane.Terminal(1), Name: "notes"},
		{ID: pane.Terminal(2), Name: "scratch"},
	}
	res := &Resources{TerminalIDs: []pane.ID{pane.Terminal(50)}}

	result, err := Reapply(namedLeaf("main"), floats, pane.Geom{Rows: 20, Cols: 100}, nil, liveFloats, res)
	require.NoError(t, err)
	require.Len(t, result.StaleFloats, 1)
	assert.Equal(t, pane.Terminal(2), result.StaleFloats[0],
		"an unmatched live floating pane is reported stale, not closed, since it's user-positioned")
}
