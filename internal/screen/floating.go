package screen

import "gridmux/internal/pane"

// FloatingPanes owns a tab's floating panes: free-positioned rectangles
// with a most-recent-on-top z-order. Pinned floats stay visible even when
// the floating layer as a whole is toggled hidden.
type FloatingPanes struct {
	panes  map[pane.ID]pane.Pane
	zOrder []pane.ID // back-to-front; the last entry renders on top
}

func NewFloatingPanes() *FloatingPanes {
	return &FloatingPanes{panes: make(map[pane.ID]pane.Pane)}
}

// Insert adds p to the top of the z-order.
func (f *FloatingPanes) Insert(p pane.Pane) {
	f.panes[p.ID()] = p
	f.zOrder = append(f.zOrder, p.ID())
}

func (f *FloatingPanes) Get(id pane.ID) (pane.Pane, bool) {
	p, ok := f.panes[id]
	return p, ok
}

// Remove deletes id from the floating layer.
func (f *FloatingPanes) Remove(id pane.ID) {
	delete(f.panes, id)
	for i, oid := range f.zOrder {
		if oid == id {
			f.zOrder = append(f.zOrder[:i], f.zOrder[i+1:]...)
			break
		}
	}
}

// RaiseToTop moves id to the front of the z-order (most recently
// interacted-with float renders on top).
func (f *FloatingPanes) RaiseToTop(id pane.ID) {
	p, ok := f.panes[id]
	if !ok {
		return
	}
	f.Remove(id)
	f.panes[id] = p
	f.zOrder = append(f.zOrder, id)
}

// VisibleInOrder returns the floating panes in back-to-front render order.
// When hidden is true, only pinned floats are included.
func (f *FloatingPanes) VisibleInOrder(hidden bool) []pane.Pane {
	out := make([]pane.Pane, 0, len(f.zOrder))
	for _, id := range f.zOrder {
		p, ok := f.panes[id]
		if !ok {
			continue
		}
		if hidden && !p.Geom().IsPinned {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Len returns the number of live floating panes.
func (f *FloatingPanes) Len() int { return len(f.zOrder) }
