// Package client owns an attached client's input-side state: its current
// InputMode, the keybind table that mode resolves against, and the
// fallback of forwarding unmatched raw bytes straight to the focused
// pane's PTY, the same split of "decode bytes into intent, fall back to
// passthrough",
// generalized from one fixed Default/Passthrough/Menu/Scroll mode set to
// the full InputMode lattice a tiling multiplexer needs.
package client

import "gridmux/internal/ipc"

// ID identifies one attached client for the lifetime of its connection.
type ID uint32

// InputMode is the client-side interpretation mode a keypress is resolved
// against.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeLocked
	ModeResize
	ModePane
	ModeTab
	ModeScroll
	ModeEnterSearch
	ModeSearch
	ModeRenameTab
	ModeRenamePane
	ModeSession
	ModeMove
	ModePrompt
	ModeTmux
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeLocked:
		return "Locked"
	case ModeResize:
		return "Resize"
	case ModePane:
		return "Pane"
	case ModeTab:
		return "Tab"
	case ModeScroll:
		return "Scroll"
	case ModeEnterSearch:
		return "EnterSearch"
	case ModeSearch:
		return "Search"
	case ModeRenameTab:
		return "RenameTab"
	case ModeRenamePane:
		return "RenamePane"
	case ModeSession:
		return "Session"
	case ModeMove:
		return "Move"
	case ModePrompt:
		return "Prompt"
	case ModeTmux:
		return "Tmux"
	default:
		return "Unknown"
	}
}

// Modifier is one of the modifier keys a KeyWithModifier can carry.
type Modifier int

const (
	ModCtrl Modifier = iota
	ModAlt
	ModShift
	ModSuper
	ModHyper
	ModMeta
	ModCapsLock
	ModNumLock
)

// BareKey is a key identity independent of modifiers: a single character,
// or a named key (Enter, Tab, F1, ...).
type BareKey struct {
	Char rune   // set for printable keys
	Name string // set for named keys ("Enter", "Tab", "F1", "Up", ...); Char is 0 when Name is set
}

// KeyWithModifier is a decoded keypress: its bare key plus the set of
// modifiers held.
type KeyWithModifier struct {
	Bare      BareKey
	Modifiers map[Modifier]bool
}

// HasModifier reports whether m is held.
func (k KeyWithModifier) HasModifier(m Modifier) bool { return k.Modifiers[m] }

// Action is one dispatchable client action, identified by name with a
// generic argument payload (the closed set of concrete action semantics
// lives in internal/screen, which this package dispatches into without
// needing to know each action's internals).
type Action struct {
	Name string
	Args map[string]any
}

// KeyBinding maps one (mode, key) pair to a sequence of actions.
type KeyBinding struct {
	Mode    InputMode
	Key     KeyWithModifier
	Actions []Action
}

// KeyTable resolves (mode, key) to actions. Built once at session start
// from the parsed keybinds file and refreshed wholesale on Reconfigure, so
// no client ever mutates it in place.
type KeyTable struct {
	bindings map[InputMode]map[keyString][]Action
}

type keyString string

func keyToString(k KeyWithModifier) keyString {
	s := k.Bare.Name
	if s == "" {
		s = string(k.Bare.Char)
	}
	mods := ""
	for _, m := range []Modifier{ModCtrl, ModAlt, ModShift, ModSuper, ModHyper, ModMeta, ModCapsLock, ModNumLock} {
		if k.Modifiers[m] {
			mods += modifierLetter(m)
		}
	}
	return keyString(mods + s)
}

func modifierLetter(m Modifier) string {
	switch m {
	case ModCtrl:
		return "C-"
	case ModAlt:
		return "A-"
	case ModShift:
		return "S-"
	case ModSuper:
		return "Su-"
	case ModHyper:
		return "H-"
	case ModMeta:
		return "M-"
	case ModCapsLock:
		return "CL-"
	case ModNumLock:
		return "NL-"
	default:
		return ""
	}
}

// NewKeyTable builds a lookup table from bindings, later bindings for the
// same (mode, key) overriding earlier ones (so a user config can override
// a default binding by appending after it).
func NewKeyTable(bindings []KeyBinding) *KeyTable {
	t := &KeyTable{bindings: make(map[InputMode]map[keyString][]Action)}
	for _, b := range bindings {
		if t.bindings[b.Mode] == nil {
			t.bindings[b.Mode] = make(map[keyString][]Action)
		}
		t.bindings[b.Mode][keyToString(b.Key)] = b.Actions
	}
	return t
}

// Resolve looks up the actions bound to key in mode. ok is false when no
// binding matches, in which case Normal/Locked callers forward the raw
// bytes to the focused pane's PTY unchanged.
func (t *KeyTable) Resolve(mode InputMode, key KeyWithModifier) (actions []Action, ok bool) {
	m, exists := t.bindings[mode]
	if !exists {
		return nil, false
	}
	actions, ok = m[keyToString(key)]
	return actions, ok
}

// Client is one attached client's input-side state.
type Client struct {
	ID    ID
	Mode  InputMode
	Table *KeyTable

	// FocusedPane forwarding: set by the session layer so raw-byte
	// fallback knows where to send unmatched input.
	WritePTY func(raw []byte)
}

// HandleKey resolves key against c's mode and table. If a binding exists,
// it returns the bound actions for the caller to dispatch. Otherwise, in
// Normal or Locked mode, the raw bytes are forwarded to the PTY directly
// and no actions are returned.
func (c *Client) HandleKey(key ipc.KeyMsg, decoded KeyWithModifier) []Action {
	if actions, ok := c.Table.Resolve(c.Mode, decoded); ok {
		return actions
	}
	if c.Mode == ModeNormal || c.Mode == ModeLocked {
		if c.WritePTY != nil {
			c.WritePTY(key.Raw)
		}
	}
	return nil
}

// SetMode transitions c to mode, e.g. in response to a SwitchToMode action.
func (c *Client) SetMode(mode InputMode) { c.Mode = mode }
