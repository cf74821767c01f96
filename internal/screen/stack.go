package screen

import "gridmux/internal/pane"

// StackMembers returns every tiled pane sharing stackID, in insertion
// order.
func (t *TiledPanes) StackMembers(stackID pane.StackID) []pane.Pane {
	var out []pane.Pane
	for _, id := range t.order {
		p, ok := t.panes[id]
		if !ok {
			continue
		}
		g := p.Geom()
		if g.Stacked != nil && *g.Stacked == stackID {
			out = append(out, p)
		}
	}
	return out
}

// ExpandInStack makes target the stack's visible member: target's geom
// grows to the largest member's rectangle, and the ids of every member
// (target included) are returned. It records no hidden state: TiledPanes
// itself has no notion of "hidden".
func (t *TiledPanes) ExpandInStack(target pane.ID) (stackRect pane.Geom, members []pane.ID, ok bool) {
	p, exists := t.panes[target]
	if !exists {
		return pane.Geom{}, nil, false
	}
	g := p.Geom()
	if g.Stacked == nil {
		return pane.Geom{}, nil, false
	}
	for _, m := range t.StackMembers(*g.Stacked) {
		mg := m.Geom()
		if mg.Rows > stackRect.Rows || mg.Cols > stackRect.Cols {
			stackRect = pane.Geom{X: mg.X, Y: mg.Y, Rows: mg.Rows, Cols: mg.Cols, Stacked: mg.Stacked}
		}
		members = append(members, m.ID())
	}
	p.SetGeom(stackRect)
	return stackRect, members, true
}
