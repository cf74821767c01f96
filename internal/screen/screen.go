package screen

import (
	"fmt"
	"sync"

	"gridmux/internal/pane"
)

// Style carries the rendering preferences a Screen applies uniformly
// across tabs: whether pane frames are drawn, and whether clients viewing
// the same tab share one focus (see propagateMirroredFocus).
type Style struct {
	DrawPaneFrames bool
	SyncTabAcrossClients bool
}

// Screen owns every tab in a session plus the per-client bookkeeping the
// spec's screen task is responsible for: which tab and pane each client is
// looking at, which clients are attached at all versus merely connected to
// the socket, and the mouse state needed to interpret a drag: one struct
// owning all mutable state, processed single-threaded off one instruction
// channel, generalized from
// one VT to many tabs of tiled/floating panes.
type Screen struct {
	mu sync.Mutex

	SessionName string
	Style       Style

	tabs []*Tab

	activeTabPerClient map[ClientID]int
	connectedClients   map[ClientID]bool
	clientsInApp       map[ClientID]bool // attached and past the handshake, vs. merely dialed
	lastMousePos       map[ClientID][2]int

	nextTerminalID uint32
	nextPluginID   uint32

	viewport pane.Geom
}

// New creates an empty Screen with one default tab, sized to viewport.
func New(sessionName string, viewport pane.Geom, style Style) *Screen {
	s := &Screen{
		SessionName:        sessionName,
		Style:              style,
		activeTabPerClient: make(map[ClientID]int),
		connectedClients:   make(map[ClientID]bool),
		clientsInApp:       make(map[ClientID]bool),
		lastMousePos:       make(map[ClientID][2]int),
		viewport:           viewport,
	}
	s.tabs = append(s.tabs, NewTab(0, "tab-1", viewport))
	return s
}

// NextTerminalID and NextPluginID allocate the next unused id in their
// kind, used both for a fresh NewPane and for the ids the layout applier
// pre-spawns ahead of matching live panes to leaves.
func (s *Screen) NextTerminalID() pane.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pane.Terminal(s.nextTerminalID)
	s.nextTerminalID++
	return id
}

func (s *Screen) NextPluginID() pane.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pane.Plugin(s.nextPluginID)
	s.nextPluginID++
	return id
}

// Tabs returns the session's tabs in display order.
func (s *Screen) Tabs() []*Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Tab(nil), s.tabs...)
}

// Tab returns the tab at index, or nil if out of range.
func (s *Screen) Tab(index int) *Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.tabs) {
		return nil
	}
	return s.tabs[index]
}

// ActiveTab returns the tab client is currently looking at, defaulting to
// (and recording) tab 0 the first time client is seen.
func (s *Screen) ActiveTab(client ClientID) *Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.activeTabPerClient[client]
	if !ok {
		idx = 0
		s.activeTabPerClient[client] = 0
	}
	if idx < 0 || idx >= len(s.tabs) {
		return nil
	}
	return s.tabs[idx]
}

// ConnectClient registers a socket-level connection, before the attach
// handshake has populated its terminal attributes.
func (s *Screen) ConnectClient(id ClientID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectedClients[id] = true
}

// EnterApp marks client as fully attached (handshake complete, now
// rendered to and accepting input), with tab 0 as its active tab if it has
// none yet. It assigns no pane focus.
func (s *Screen) EnterApp(id ClientID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientsInApp[id] = true
	if _, ok := s.activeTabPerClient[id]; !ok {
		s.activeTabPerClient[id] = 0
	}
}

// DisconnectClient removes every trace of client, per the cascade-on-
// disconnect resource model: its focus record, mouse state, and presence
// in every tab's per-client maps.
func (s *Screen) DisconnectClient(id ClientID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connectedClients, id)
	delete(s.clientsInApp, id)
	delete(s.activeTabPerClient, id)
	delete(s.lastMousePos, id)
	for _, tb := range s.tabs {
		delete(tb.ActivePanePerClient, id)
	}
}

// ConnectedClients returns the ids of every client attached and in-app
// (the set a render tick iterates over).
func (s *Screen) ConnectedClients() []ClientID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ClientID, 0, len(s.clientsInApp))
	for id := range s.clientsInApp {
		out = append(out, id)
	}
	return out
}

// RecordMouse remembers client's last reported mouse cell position, needed
// to interpret a drag-continuation report that doesn't repeat the button.
func (s *Screen) RecordMouse(client ClientID, x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMousePos[client] = [2]int{x, y}
}

// LastMouse returns client's last recorded mouse position.
func (s *Screen) LastMouse(client ClientID) (x, y int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lastMousePos[client]
	return p[0], p[1], ok
}

// NewTab appends an empty tab named name and focuses client on it.
func (s *Screen) NewTab(client ClientID, name string) *Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	tb := NewTab(len(s.tabs), name, s.viewport)
	s.tabs = append(s.tabs, tb)
	s.activeTabPerClient[client] = tb.Index
	return tb
}

// CloseTab removes the tab at index, closing every pane it still holds is
// the caller's responsibility (the pty task owns child process teardown);
// every client focused on it is reassigned to the tab that takes its slot,
// or the preceding one if it was the last.
func (s *Screen) CloseTab(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.tabs) {
		return fmt.Errorf("close tab: index %d out of range", index)
	}
	s.tabs = append(s.tabs[:index], s.tabs[index+1:]...)
	for i, tb := range s.tabs {
		tb.Index = i
	}
	for client, idx := range s.activeTabPerClient {
		switch {
		case idx == index:
			if idx >= len(s.tabs) {
				idx = len(s.tabs) - 1
			}
			s.activeTabPerClient[client] = idx
		case idx > index:
			s.activeTabPerClient[client] = idx - 1
		}
	}
	return nil
}

// GoToTab switches client's active tab to index.
func (s *Screen) GoToTab(client ClientID, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.tabs) {
		return fmt.Errorf("go to tab: index %d out of range", index)
	}
	s.activeTabPerClient[client] = index
	return nil
}

// GoToRelativeTab moves client's active tab by delta, wrapping around.
func (s *Screen) GoToRelativeTab(client ClientID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tabs)
	if n == 0 {
		return
	}
	idx := s.activeTabPerClient[client]
	idx = ((idx+delta)%n + n) % n
	s.activeTabPerClient[client] = idx
}

// NewPane inserts a freshly created pane into client's active tab, as a
// tiled split off the currently focused pane (or as the tab's first pane,
// if it's empty), and focuses client on it.
func (s *Screen) NewPane(client ClientID, p pane.Pane) error {
	s.mu.Lock()
	tb := s.tabs[s.activeTabPerClient[client]]
	s.mu.Unlock()

	if tb.Tiled.Len() == 0 {
		p.SetGeom(tb.Tiled.Viewport)
		tb.Tiled.Insert(p)
		tb.SetActivePane(client, p.ID())
		return nil
	}
	target, ok := tb.ActivePane(client)
	if !ok {
		return fmt.Errorf("new pane: client %d has no active pane to split", client)
	}
	geom, err := tb.Tiled.SplitVertical(target)
	if err != nil {
		return fmt.Errorf("new pane: %w", err)
	}
	p.SetGeom(geom)
	tb.Tiled.Insert(p)
	tb.SetActivePane(client, p.ID())
	tb.MarkDirty()
	return nil
}

// ClosePane removes id from tb, refilling the freed rectangle, and
// reassigns every client that was focused on it to the first remaining
// tiled pane in insertion order (or drops that client's focus in tb when
// no tiled pane remains).
func (s *Screen) ClosePane(tb *Tab, id pane.ID) error {
	if _, ok := tb.Tiled.Get(id); ok {
		if err := tb.Tiled.CloseWithRefill(id); err != nil {
			return fmt.Errorf("close pane: %w", err)
		}
	} else {
		tb.Floating.Remove(id)
	}
	tb.MarkDirty()

	remaining := tb.Tiled.All()
	var fallback pane.ID
	haveFallback := false
	if len(remaining) > 0 {
		fallback = remaining[0].ID()
		haveFallback = true
	}
	for client, active := range tb.ActivePanePerClient {
		if active != id {
			continue
		}
		if haveFallback {
			tb.ActivePanePerClient[client] = fallback
		} else {
			delete(tb.ActivePanePerClient, client)
		}
	}
	return nil
}

// MoveFocus moves client's focus to the nearest selectable neighbour of
// its active pane in dir, within the same tab. It reports false (and
// leaves focus unchanged) if there is no neighbour, so MoveFocusOrTab can
// fall through to a tab switch.
func (s *Screen) MoveFocus(client ClientID, tb *Tab, dir Direction) bool {
	active, ok := tb.ActivePane(client)
	if !ok {
		return false
	}
	next, ok := tb.Tiled.Neighbour(active, dir)
	if !ok {
		return false
	}
	tb.SetActivePane(client, next)
	s.propagateMirroredFocus(tb, client, next)
	return true
}

// MoveFocusOrTab tries MoveFocus first; if there is no neighbour in dir
// within the tab, it falls through to switching client to the adjacent tab
// (previous tab for Left/Up, next tab for Right/Down) and focusing that
// tab's first selectable pane, as the cross-tab navigation fallback.
func (s *Screen) MoveFocusOrTab(client ClientID, dir Direction) error {
	s.mu.Lock()
	idx := s.activeTabPerClient[client]
	tb := s.tabs[idx]
	s.mu.Unlock()

	if s.MoveFocus(client, tb, dir) {
		return nil
	}

	delta := 1
	if dir == DirLeft || dir == DirUp {
		delta = -1
	}
	s.GoToRelativeTab(client, delta)

	newTb := s.ActiveTab(client)
	if newTb == nil {
		return nil
	}
	all := newTb.Tiled.All()
	for _, p := range all {
		if p.Selectable() {
			newTb.SetActivePane(client, p.ID())
			break
		}
	}
	return nil
}

// propagateMirroredFocus, when the session's style enables sync-tab
// mirroring, moves every other client that was focused anywhere in tb onto
// the same newly-focused pane, so a mirrored session shows one shared
// focus instead of one per viewer.
func (s *Screen) propagateMirroredFocus(tb *Tab, mover ClientID, newFocus pane.ID) {
	if !s.Style.SyncTabAcrossClients {
		return
	}
	for client := range tb.ActivePanePerClient {
		if client == mover {
			continue
		}
		tb.ActivePanePerClient[client] = newFocus
	}
}

// ToggleFloatingPanes flips tb's floating-layer visibility.
func (s *Screen) ToggleFloatingPanes(tb *Tab) {
	tb.AreFloatingPanesVisible = !tb.AreFloatingPanesVisible
}
