package screen

import (
	"fmt"

	"gridmux/internal/layout"
	"gridmux/internal/pane"
)

// eligibleSwapLayouts returns tb's swap layouts (tiled or floating,
// matching which) whose LayoutConstraint matches the tab's current live
// pane count, in declared order.
func eligibleSwapLayouts(tb *Tab, tiled bool) []layout.SwapLayout {
	all := tb.SwapTiled
	if !tiled {
		all = tb.SwapFloating
	}
	count := tb.Tiled.Len()
	if !tiled {
		count = tb.Floating.Len()
	}
	var out []layout.SwapLayout
	for _, sl := range all {
		if sl.Constraint.Matches(count) {
			out = append(out, sl)
		}
	}
	return out
}

// currentIndex finds sl's position among candidates by name, or -1 if
// ActiveSwapLayout names none of them (the tab has never cycled, or the
// pane count changed which constraints are eligible since the last cycle).
func currentIndex(candidates []layout.SwapLayout, name string) int {
	for i, sl := range candidates {
		if sl.Name == name {
			return i
		}
	}
	return -1
}

// NextSwapLayout cycles tb to the next eligible tiled swap layout after
// ActiveSwapLayout (the first one when none of them is active), applying
// it via the layout applier's reapplication pass against tb's live panes.
// The choice does not depend on IsSwapLayoutDirty: after a manual change
// (MarkDirty) it still advances to the next layout, and the flag is
// cleared once the apply succeeds. Floating swap layouts are not cycled.
func (s *Screen) NextSwapLayout(tb *Tab, res *layout.Resources) error {
	return s.cycleSwapLayout(tb, res, 1)
}

// PreviousSwapLayout is NextSwapLayout's mirror, cycling backward.
func (s *Screen) PreviousSwapLayout(tb *Tab, res *layout.Resources) error {
	return s.cycleSwapLayout(tb, res, -1)
}

func (s *Screen) cycleSwapLayout(tb *Tab, res *layout.Resources, delta int) error {
	candidates := eligibleSwapLayouts(tb, true)
	if len(candidates) == 0 {
		return fmt.Errorf("cycle swap layout: no tiled swap layout matches %d panes", tb.Tiled.Len())
	}
	idx := currentIndex(candidates, tb.ActiveSwapLayout)
	idx = ((idx+delta)%len(candidates) + len(candidates)) % len(candidates)
	sl := candidates[idx]

	if err := s.applySwapLayout(tb, sl, res); err != nil {
		return err
	}
	tb.ActiveSwapLayout = sl.Name

	// Clear the dirty flag: the arrangement now on screen is exactly what
	// the named swap layout describes. A later manual change sets it dirty
	// again via MarkDirty.
	tb.IsSwapLayoutDirty = false
	return nil
}

// applySwapLayout reapplies sl's tree against tb's current live panes,
// repositioning every still-claimed pane to its new geometry and leaving
// any excess panes for the caller (internal/pty) to close.
func (s *Screen) applySwapLayout(tb *Tab, sl layout.SwapLayout, res *layout.Resources) error {
	live := livePanesFrom(tb.Tiled.All())
	liveFloats := livePanesFrom(tb.Floating.VisibleInOrder(false))

	floatingLayouts := sl.Floating
	result, err := layout.Reapply(sl.Tiled, floatingLayouts, tb.Tiled.Viewport, live, liveFloats, res)
	if err != nil {
		return fmt.Errorf("apply swap layout %q: %w", sl.Name, err)
	}

	for i, leaf := range result.Leaves {
		id, ok := result.Assignment[i]
		if !ok {
			continue
		}
		if p, ok := tb.Tiled.Get(id); ok {
			p.SetGeom(leaf.Geom)
		}
	}
	return nil
}

func livePanesFrom(panes []pane.Pane) []layout.LivePane {
	out := make([]layout.LivePane, 0, len(panes))
	for _, p := range panes {
		lp := layout.LivePane{ID: p.ID(), Name: p.Name()}
		switch v := p.(type) {
		case *pane.TerminalPane:
			lp.Run = pane.RunInstruction{Kind: pane.RunCmd, Command: v.Run}
		case *pane.PluginPane:
			lp.IsPlugin = true
		}
		if g := p.Geom(); g.LogicalPos != nil {
			lp.LogicalPos = *g.LogicalPos
		}
		out = append(out, lp)
	}
	return out
}
