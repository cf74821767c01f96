package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"gridmux/internal/bus"
	"gridmux/internal/client"
	"gridmux/internal/grid"
	"gridmux/internal/ipc"
	"gridmux/internal/layout"
	"gridmux/internal/pane"
	"gridmux/internal/plugin"
	"gridmux/internal/render"
	"gridmux/internal/screen"
	"gridmux/internal/sessiondir"
)

// renderTickInterval is how often a connected client's active tab is
// redrawn: often enough to feel responsive without emitting a frame per byte.
const renderTickInterval = 16 * time.Millisecond

// ScrollbackLines bounds how much history each terminal pane's grid
// retains.
const ScrollbackLines = 10000

// ptyWriteTimeout bounds how long a pane write blocks on a stuck child,
// a PTY write blocking this long means the child is stuck or dead.
const ptyWriteTimeout = 3 * time.Second

// Server owns one session's entire running state: the screen, every
// spawned terminal, the plugin bridge, and the socket clients attach to.
// generalized from one wrapped child process to a full tiling session.
type Server struct {
	mu sync.Mutex

	SessionName string
	Bus         *bus.Bus
	Screen      *screen.Screen
	KeyTable    *client.KeyTable
	Bridge      *plugin.Bridge

	links  *grid.LinkHandler
	images *grid.SixelImageStore

	terminals map[pane.ID]*spawnedTerminal
	clients   map[screen.ClientID]*clientConn
	nextClient screen.ClientID

	listener net.Listener
	dirty    map[int]bool // tab indices touched since the last render tick

	// ConfigPath, if set before Serve is called, is watched for changes
	// and triggers a bus-wide Reconfigure broadcast.
	ConfigPath string

	shutdown chan struct{}
}

// clientConn is one attached client's connection-side state: its socket,
// its input-mode machine, and its render memory.
type clientConn struct {
	id      screen.ClientID
	conn    net.Conn
	input   *client.Client
	render  *render.ClientState
	writeMu sync.Mutex
}

func (c *clientConn) send(frameType byte, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return ipc.WriteFrame(c.conn, frameType, payload)
}

// New constructs a Server for sessionName with one default-sized tab.
func New(sessionName string, viewport pane.Geom) *Server {
	b := bus.New(64)
	s := screen.New(sessionName, viewport, screen.Style{DrawPaneFrames: true})
	links := grid.NewLinkHandler()
	images := grid.NewSixelImageStore(64)

	srv := &Server{
		SessionName: sessionName,
		Bus:         b,
		Screen:      s,
		KeyTable:    client.NewKeyTable(client.DefaultBindings()),
		links:       links,
		images:      images,
		terminals:   make(map[pane.ID]*spawnedTerminal),
		clients:     make(map[screen.ClientID]*clientConn),
		dirty:       make(map[int]bool),
		shutdown:    make(chan struct{}),
	}

	permDir := sessiondir.BaseDir()
	if store, err := plugin.OpenPermissionStore(permDir); err == nil {
		srv.Bridge = plugin.NewBridge(b, store, nil)
	}

	return srv
}

// Serve listens on this session's socket and accepts clients until
// Shutdown is called.
func (s *Server) Serve() error {
	sockPath := sessiondir.SocketPath(s.SessionName)
	os.Remove(sockPath)
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("listen on session socket: %w", err)
	}
	s.listener = ln
	defer os.Remove(sockPath)

	go s.renderLoop()
	if s.ConfigPath != "" {
		if err := s.watchConfig(s.ConfigPath); err != nil {
			log.Printf("[server] watch config %s: %v", s.ConfigPath, err)
		}
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		go s.handleConn(conn)
	}
}

// Shutdown closes the listener and every attached client, and drains the
// bus in the client -> screen -> pty -> plugin -> server order the
// resource model specifies.
func (s *Server) Shutdown() {
	close(s.shutdown)
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Lock()
	for _, t := range s.terminals {
		t.Terminal.Close()
	}
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()
	s.Bus.Shutdown()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	if err := ipc.ServerHandshake(conn); err != nil {
		return
	}

	_, payload, err := ipc.ReadFrame(conn)
	if err != nil {
		return
	}
	var attachMsg ipc.ClientToServerMsg
	if err := json.Unmarshal(payload, &attachMsg); err != nil || attachMsg.Type != "attach_client" {
		return
	}
	attach := attachMsg.AttachClient
	if attach == nil {
		return
	}

	s.mu.Lock()
	id := s.nextClient
	s.nextClient++
	s.mu.Unlock()

	s.Screen.ConnectClient(id)
	s.Screen.EnterApp(id)

	profile := termenv.Profile(termenv.ANSI)
	switch attach.ColorProfile {
	case termenv.TrueColor.String():
		profile = termenv.TrueColor
	case termenv.ANSI256.String():
		profile = termenv.ANSI256
	}

	cc := &clientConn{
		id:     id,
		conn:   conn,
		render: render.NewClientState(profile),
	}
	cc.input = &client.Client{ID: client.ID(id), Mode: client.ModeNormal, Table: s.KeyTable}
	cc.input.WritePTY = func(raw []byte) { s.writeFocusedPane(id, raw) }

	s.mu.Lock()
	s.clients[id] = cc
	s.mu.Unlock()
	defer s.disconnect(id)

	if s.Screen.ActiveTab(id).IsEmpty() {
		s.spawnFirstPane(id, attach)
	}

	s.readLoop(cc)
}

func (s *Server) disconnect(id screen.ClientID) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
	s.Screen.DisconnectClient(id)
}

func (s *Server) spawnFirstPane(client screen.ClientID, attach *ipc.AttachClientMsg) {
	tb := s.Screen.ActiveTab(client)
	id := s.Screen.NextTerminalID()
	geom := pane.Geom{Rows: uint32(attach.Rows), Cols: uint32(attach.Cols)}
	st, err := SpawnTerminal(id, geom, pane.RunCommand{}, ScrollbackLines, s.links, s.images, func() {
		s.markDirty(tb.Index)
	})
	if err != nil {
		return
	}
	s.mu.Lock()
	s.terminals[id] = st
	s.mu.Unlock()
	s.Screen.NewPane(client, st.Pane)
}

func (s *Server) writeFocusedPane(client screen.ClientID, raw []byte) {
	tb := s.Screen.ActiveTab(client)
	if tb == nil {
		return
	}
	focused, ok := tb.ActivePane(client)
	if !ok {
		return
	}
	s.mu.Lock()
	t, ok := s.terminals[focused]
	s.mu.Unlock()
	if !ok {
		return
	}
	t.Terminal.Write(raw, ptyWriteTimeout)
}

func (s *Server) markDirty(tabIndex int) {
	s.mu.Lock()
	s.dirty[tabIndex] = true
	s.mu.Unlock()
}

func (s *Server) readLoop(cc *clientConn) {
	for {
		frameType, payload, err := ipc.ReadFrame(cc.conn)
		if err != nil {
			return
		}
		switch frameType {
		case ipc.FrameControl:
			var msg ipc.ClientToServerMsg
			if err := json.Unmarshal(payload, &msg); err != nil {
				continue
			}
			s.handleMsg(cc, msg)
		}
	}
}

func (s *Server) handleMsg(cc *clientConn, msg ipc.ClientToServerMsg) {
	switch msg.Type {
	case "key":
		if msg.Key == nil {
			return
		}
		decoded := decodeKey(*msg.Key)
		actions := cc.input.HandleKey(*msg.Key, decoded)
		for _, a := range actions {
			s.dispatchAction(cc, a)
		}
		s.markDirty(s.Screen.ActiveTab(cc.id).Index)
	case "terminal_resize":
		if msg.Resize == nil {
			return
		}
		s.resizeClient(cc.id, msg.Resize.Cols, msg.Resize.Rows)
	case "action":
		if msg.Action == nil {
			return
		}
		s.dispatchAction(cc, client.Action{Name: msg.Action.Name, Args: msg.Action.Args})
	}
}

// resizeClient relayouts the client's active tab to its reported terminal
// size and resizes the PTY of every terminal pane in that tab. A mirrored
// multi-client session sizes to whichever client last reported a resize.
func (s *Server) resizeClient(id screen.ClientID, cols, rows int) {
	tb := s.Screen.ActiveTab(id)
	if tb == nil {
		return
	}
	tb.Tiled.Relayout(pane.Geom{Rows: uint32(rows), Cols: uint32(cols)})
	for _, p := range tb.Tiled.All() {
		tp, ok := p.(*pane.TerminalPane)
		if !ok {
			continue
		}
		g := p.Geom()
		s.mu.Lock()
		t, ok := s.terminals[tp.ID()]
		s.mu.Unlock()
		if ok {
			t.Terminal.Resize(int(g.Rows), int(g.Cols))
		}
	}
	s.markDirty(tb.Index)
}

func decodeKey(k ipc.KeyMsg) client.KeyWithModifier {
	mods := make(map[client.Modifier]bool, len(k.Modifiers))
	for _, m := range k.Modifiers {
		switch m {
		case "ctrl":
			mods[client.ModCtrl] = true
		case "alt":
			mods[client.ModAlt] = true
		case "shift":
			mods[client.ModShift] = true
		case "super":
			mods[client.ModSuper] = true
		}
	}
	bare := client.BareKey{}
	if len(k.BareKey) == 1 {
		bare.Char = []rune(k.BareKey)[0]
	} else {
		bare.Name = k.BareKey
	}
	return client.KeyWithModifier{Bare: bare, Modifiers: mods}
}

func (s *Server) dispatchAction(cc *clientConn, a client.Action) {
	tb := s.Screen.ActiveTab(cc.id)
	if tb == nil {
		return
	}
	switch a.Name {
	case client.ActionSwitchToMode:
		if m, ok := a.Args["mode"].(int); ok {
			cc.input.SetMode(client.InputMode(m))
		} else if f, ok := a.Args["mode"].(float64); ok {
			cc.input.SetMode(client.InputMode(int(f)))
		}
	case client.ActionMoveFocus:
		dir, _ := a.Args["direction"].(string)
		s.Screen.MoveFocus(cc.id, tb, parseDirection(dir))
	case client.ActionMoveFocusOrTab:
		dir, _ := a.Args["direction"].(string)
		s.Screen.MoveFocusOrTab(cc.id, parseDirection(dir))
	case client.ActionToggleFullscreen:
		tb.ToggleFullscreen(cc.id)
	case client.ActionToggleFloating:
		s.Screen.ToggleFloatingPanes(tb)
	case client.ActionCloseFocus:
		if id, ok := tb.ActivePane(cc.id); ok {
			s.closePane(tb, id)
		}
	case client.ActionNewPane:
		s.newPane(cc.id, tb)
	case client.ActionNewTab:
		s.Screen.NewTab(cc.id, fmt.Sprintf("tab-%d", len(s.Screen.Tabs())+1))
	case client.ActionGoToNextTab:
		s.Screen.GoToRelativeTab(cc.id, 1)
	case client.ActionGoToPreviousTab:
		s.Screen.GoToRelativeTab(cc.id, -1)
	case client.ActionGoToTab:
		if idx, ok := a.Args["index"].(int); ok {
			s.Screen.GoToTab(cc.id, idx)
		}
	case client.ActionNextSwapLayout:
		res := &layout.Resources{Client: layout.ClientID(cc.id)}
		s.Screen.NextSwapLayout(tb, res)
	case client.ActionPreviousSwapLayout:
		res := &layout.Resources{Client: layout.ClientID(cc.id)}
		s.Screen.PreviousSwapLayout(tb, res)
	case client.ActionDetach:
		cc.conn.Close()
	case client.ActionQuit:
		s.Shutdown()
	}
}

func parseDirection(s string) screen.Direction {
	switch s {
	case "left":
		return screen.DirLeft
	case "right":
		return screen.DirRight
	case "up":
		return screen.DirUp
	default:
		return screen.DirDown
	}
}

func (s *Server) newPane(id screen.ClientID, tb *screen.Tab) {
	tid := s.Screen.NextTerminalID()
	geom := tb.Tiled.Viewport
	st, err := SpawnTerminal(tid, geom, pane.RunCommand{}, ScrollbackLines, s.links, s.images, func() {
		s.markDirty(tb.Index)
	})
	if err != nil {
		return
	}
	s.mu.Lock()
	s.terminals[tid] = st
	s.mu.Unlock()
	s.Screen.NewPane(id, st.Pane)
}

func (s *Server) closePane(tb *screen.Tab, id pane.ID) {
	s.mu.Lock()
	t, ok := s.terminals[id]
	if ok {
		delete(s.terminals, id)
	}
	s.mu.Unlock()
	if ok {
		t.Terminal.Close()
	}
	s.Screen.ClosePane(tb, id)
	s.markDirty(tb.Index)
}

func (s *Server) renderLoop() {
	ticker := time.NewTicker(renderTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.renderTick()
		}
	}
}

func (s *Server) renderTick() {
	s.mu.Lock()
	conns := make([]*clientConn, 0, len(s.clients))
	for _, c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, cc := range conns {
		tb := s.Screen.ActiveTab(cc.id)
		if tb == nil {
			continue
		}
		frame := render.RenderTab(tb, screen.ClientID(cc.id), render.FrameStyle{DrawFrames: s.Screen.Style.DrawPaneFrames}, cc.render)
		cc.send(ipc.FrameRender, frame)
	}
}
