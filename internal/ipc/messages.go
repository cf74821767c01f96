package ipc

// ClientToServerMsg is the closed set of messages a client sends. Only one
// of the fields matching Type is populated: a single JSON object with
// per-type optional fields,
// generalized from one "send/attach/show/status" vocabulary to this core's
// client protocol.
type ClientToServerMsg struct {
	Type string `json:"type"` // "attach_client", "terminal_resize", "key", "action", "client_exited", "first_client_connected"

	AttachClient *AttachClientMsg `json:"attach_client,omitempty"`
	Resize       *TerminalResizeMsg `json:"terminal_resize,omitempty"`
	Key          *KeyMsg          `json:"key,omitempty"`
	Action       *ActionMsg       `json:"action,omitempty"`
}

// AttachClientMsg carries the attaching client's terminal attributes and
// requested config overrides.
type AttachClientMsg struct {
	Cols, Rows int
	TermType   string
	ColorProfile string // detected by the client's termenv probe, confirmed server-side
}

// TerminalResizeMsg reports the attached terminal's new size.
type TerminalResizeMsg struct {
	Cols, Rows int
}

// KeyMsg is one decoded keypress, with the raw bytes the terminal actually
// sent (used for the Normal/Locked forwarding fallback) and whether it was
// decoded via the Kitty keyboard protocol (unambiguous modifiers) rather
// than legacy xterm encoding.
type KeyMsg struct {
	BareKey        string
	Modifiers      []string
	Raw            []byte
	IsKittyProtocol bool
}

// ActionMsg is a client-issued Action, identified by name with a generic
// argument payload; the closed set of concrete actions lives in
// internal/client, which this package does not depend on to avoid an
// import cycle (ipc is the wire layer beneath client).
type ActionMsg struct {
	Name string
	Args map[string]any
}

// ServerToClientMsg is the closed set of messages the server sends.
type ServerToClientMsg struct {
	Type string `json:"type"` // "render", "unblock_input_thread", "exit", "switch_to_mode", "connected"

	Render       []byte `json:"render,omitempty"`
	ExitReason   string `json:"exit_reason,omitempty"`
	Mode         string `json:"mode,omitempty"`
}
