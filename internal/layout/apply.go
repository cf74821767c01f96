package layout

import (
	"fmt"

	"gridmux/internal/pane"
)

// Resources is everything a layout application needs handed to it by the
// caller (internal/screen), which owns id allocation and pane
// construction; this package only computes geometry and matches leaves to
// already-allocated resources.
type Resources struct {
	// TerminalIDs is the front-of-queue pool of pre-spawned terminal ids,
	// consumed left to right by tiled leaves
	// and then by floating leaves in the Command/Cwd/EditFile/None cases.
	TerminalIDs []pane.ID

	// PluginIDs maps a plugin url+config key to one or more pre-spawned
	// plugin ids, consumed in order as Plugin leaves are matched.
	PluginIDs map[string][]pane.ID

	Client ClientID
}

// ClientID is the attaching client, recorded so the caller can set focus.
type ClientID uint32

// ResolvedLeaf is one leaf's computed geometry plus the resource matched
// to it.
type ResolvedLeaf struct {
	Geom         pane.Geom
	Node         *Node
	TerminalID   *pane.ID // set if Node.Run resolves to a terminal
	PluginID     *pane.ID // set if Node.Run resolves to a plugin
	LogicalPos   uint32
	Focus        bool
}

// ResolvedFloat is one floating-pane layout entry resolved against a
// viewport plus the resource matched to it.
type ResolvedFloat struct {
	Geom       pane.Geom
	Layout     FloatingPaneLayout
	TerminalID *pane.ID
	PluginID   *pane.ID
}

// FreshApplyResult is everything a fresh layout application produces: the
// tiled leaves in tree order and the floating panes in declaration order.
type FreshApplyResult struct {
	Leaves   []ResolvedLeaf
	Floating []ResolvedFloat
}

// FreshApply walks root depth-first, computing each leaf's PaneGeom from
// viewport and matching pre-spawned resources in encounter order. It
// resolves no floating panes; FreshApplyFull does that as well.
func FreshApply(root *Node, viewport pane.Geom, res *Resources) ([]ResolvedLeaf, error) {
	r, err := FreshApplyFull(root, nil, viewport, res)
	if err != nil {
		return nil, err
	}
	return r.Leaves, nil
}

// FreshApplyFull is FreshApply plus floating-pane resolution (layout
// application step 4): each FloatingPaneLayout entry is sized against
// viewport and matched to a resource in declaration order, exactly like a
// tiled leaf.
func FreshApplyFull(root *Node, floatingLayouts []FloatingPaneLayout, viewport pane.Geom, res *Resources) (*FreshApplyResult, error) {
	var out []ResolvedLeaf
	var logicalPos uint32
	var walk func(n *Node, g pane.Geom) error
	walk = func(n *Node, g pane.Geom) error {
		if n.IsLeaf {
			leaf := ResolvedLeaf{Geom: g, Node: n, LogicalPos: logicalPos, Focus: n.Focus}
			logicalPos++
			if err := matchResource(n, &leaf, res); err != nil {
				return err
			}
			out = append(out, leaf)
			return nil
		}
		childGeoms := splitGeom(g, n)
		for i, child := range n.Children {
			cg := childGeoms[i]
			if n.ChildrenAreStacked {
				sid := pane.StackID(1) // caller remaps to a session-unique id; 1 marks "stacked" here
				cg.Stacked = &sid
			}
			if err := walk(child, cg); err != nil {
				return err
			}
		}
		return nil
	}
	if root != nil {
		if err := walk(root, viewport); err != nil {
			return nil, err
		}
	}
	applyFocusPolicy(out)

	floats := make([]ResolvedFloat, 0, len(floatingLayouts))
	for _, fl := range floatingLayouts {
		rf := ResolvedFloat{Geom: floatGeom(fl, viewport), Layout: fl}
		if err := matchFloatResource(fl, &rf, res); err != nil {
			return nil, err
		}
		floats = append(floats, rf)
	}
	return &FreshApplyResult{Leaves: out, Floating: floats}, nil
}

// floatGeom resolves a floating pane's absolute x/y/width/height against
// viewport: Fixed is an absolute cell count, Percent is a share of
// viewport's matching extent, Auto centers the pane at its default size.
func floatGeom(fl FloatingPaneLayout, viewport pane.Geom) pane.Geom {
	const defaultAutoRows, defaultAutoCols = 10, 40
	resolve := func(d pane.Dimension, extent uint32, auto uint32) uint32 {
		switch d.Kind {
		case pane.DimFixed:
			return d.Fixed
		case pane.DimPercent:
			return extent * uint32(d.Percent) / 100
		default:
			return auto
		}
	}
	width := resolve(fl.Width, viewport.Cols, defaultAutoCols)
	height := resolve(fl.Height, viewport.Rows, defaultAutoRows)
	x := viewport.X + (viewport.Cols-width)/2
	y := viewport.Y + (viewport.Rows-height)/2
	if fl.X.Kind != pane.DimAuto {
		x = viewport.X + resolve(fl.X, viewport.Cols, 0)
	}
	if fl.Y.Kind != pane.DimAuto {
		y = viewport.Y + resolve(fl.Y, viewport.Rows, 0)
	}
	return pane.Geom{X: x, Y: y, Rows: height, Cols: width, IsPinned: fl.Pinned}
}

// matchFloatResource pops a resource for a floating leaf, mirroring
// matchResource.
func matchFloatResource(fl FloatingPaneLayout, rf *ResolvedFloat, res *Resources) error {
	if fl.Run.Kind == pane.RunPlugin {
		key := fl.Run.Plugin.URL
		ids := res.PluginIDs[key]
		if len(ids) == 0 {
			return fmt.Errorf("fresh apply: no plugin id available for floating pane %q", key)
		}
		id := ids[0]
		res.PluginIDs[key] = ids[1:]
		rf.PluginID = &id
		return nil
	}
	if len(res.TerminalIDs) == 0 {
		return fmt.Errorf("fresh apply: no terminal id available for floating pane %q", fl.Name)
	}
	id := res.TerminalIDs[0]
	res.TerminalIDs = res.TerminalIDs[1:]
	rf.TerminalID = &id
	return nil
}

// applyFocusPolicy leaves every leaf that already has Focus=true focused;
// when none has it, it focuses the first leaf. Leaves carry no
// selectability flag, so every leaf counts as selectable here.
func applyFocusPolicy(leaves []ResolvedLeaf) {
	for i := range leaves {
		if leaves[i].Focus {
			return
		}
	}
	for i := range leaves {
		leaves[i].Focus = true
		return
	}
}

// splitGeom divides parent's rectangle among n's children along
// n.SplitDirection: fixed sizes are subtracted first, the remainder is
// divided among percentages, and any Auto children split what's left
// equally.
func splitGeom(parent pane.Geom, n *Node) []pane.Geom {
	extent := parent.Cols
	if n.SplitDirection == SplitHorizontal {
		extent = parent.Rows
	}

	var fixedTotal uint32
	var percentTotal uint16
	var autoCount int
	sizes := make([]pane.Dimension, len(n.Children))
	for i, c := range n.Children {
		d := pane.Auto()
		if c.SplitSize != nil {
			d = *c.SplitSize
		}
		sizes[i] = d
		switch d.Kind {
		case pane.DimFixed:
			fixedTotal += d.Fixed
		case pane.DimPercent:
			percentTotal += d.Percent
		default:
			autoCount++
		}
	}
	remainder := extent
	if fixedTotal < remainder {
		remainder -= fixedTotal
	} else {
		remainder = 0
	}

	childExtents := make([]uint32, len(n.Children))
	var autoShare uint32
	if autoCount > 0 {
		spentOnPercent := uint32(0)
		if percentTotal > 0 {
			spentOnPercent = remainder * uint32(percentTotal) / 100
		}
		left := remainder
		if spentOnPercent < left {
			left -= spentOnPercent
		} else {
			left = 0
		}
		autoShare = left / uint32(autoCount)
	}
	for i, d := range sizes {
		switch d.Kind {
		case pane.DimFixed:
			childExtents[i] = d.Fixed
		case pane.DimPercent:
			childExtents[i] = remainder * uint32(d.Percent) / 100
		default:
			childExtents[i] = autoShare
		}
	}

	out := make([]pane.Geom, len(n.Children))
	offset := uint32(0)
	last := len(n.Children) - 1
	for i := range n.Children {
		e := childExtents[i]
		if i == last {
			e = extent - offset
		}
		g := parent
		if n.SplitDirection == SplitVertical {
			g.X = parent.X + offset
			g.Cols = e
		} else {
			g.Y = parent.Y + offset
			g.Rows = e
		}
		offset += e
		out[i] = g
	}
	return out
}

// matchResource pops a resource for leaf from res, per Node.Run's kind.
func matchResource(n *Node, leaf *ResolvedLeaf, res *Resources) error {
	if n.Run.Kind == pane.RunPlugin {
		key := n.Run.Plugin.URL
		ids := res.PluginIDs[key]
		if len(ids) == 0 {
			return fmt.Errorf("fresh apply: no plugin id available for %q", key)
		}
		id := ids[0]
		res.PluginIDs[key] = ids[1:]
		leaf.PluginID = &id
		return nil
	}
	if len(res.TerminalIDs) == 0 {
		return fmt.Errorf("fresh apply: no terminal id available for leaf %q", n.Name)
	}
	id := res.TerminalIDs[0]
	res.TerminalIDs = res.TerminalIDs[1:]
	leaf.TerminalID = &id
	return nil
}
