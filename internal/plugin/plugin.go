// Package plugin implements the pure routing layer between a running
// plugin instance and the core: PluginCommands flow in and are translated
// to bus instructions, Events flow out. It never interprets plugin intent
// beyond that translation. Structured as a router between an external
// protocol and the core's own
// instruction types), generalized from one bridge/agent vocabulary to the
// closed PluginCommand/Event families.
package plugin

import "gridmux/internal/pane"

// Capability is one of the permission categories a plugin's commands fall
// under; the first command in a category prompts the user, and the
// decision is remembered per plugin URL.
type Capability int

const (
	CapReadState Capability = iota
	CapChangeState
	CapOpenFiles
	CapRunCommands
	CapOpenPanes
	CapWriteToStdin
	CapWebAccess
	CapReadPipes
	CapMessageOtherPlugins
)

func (c Capability) String() string {
	switch c {
	case CapReadState:
		return "read-state"
	case CapChangeState:
		return "change-state"
	case CapOpenFiles:
		return "open-files"
	case CapRunCommands:
		return "run-commands"
	case CapOpenPanes:
		return "open-panes"
	case CapWriteToStdin:
		return "write-to-stdin"
	case CapWebAccess:
		return "web-access"
	case CapReadPipes:
		return "read-pipes"
	case CapMessageOtherPlugins:
		return "message-other-plugins"
	default:
		return "unknown"
	}
}

// CommandKind tags a PluginCommand's variant. The set is closed: every
// mutation a plugin can ask the core to perform has exactly one kind.
type CommandKind int

const (
	CmdOpenPane CommandKind = iota
	CmdOpenFile
	CmdRunCommand
	CmdSwitchToMode
	CmdRebindKeys
	CmdReconfigure
	CmdClosePane
	CmdSwitchTabTo
	CmdSendMessageToPlugin
	CmdWriteToStdin
	CmdHidePluginPane
	CmdShowPluginPane
	CmdRequestPermission
)

// PluginCommand is one instruction emitted by a running plugin, tagged by
// Kind with only the fields relevant to that kind populated.
type PluginCommand struct {
	Kind CommandKind

	Run          pane.RunInstruction // OpenPane, OpenFile, RunCommand
	FloatingHint bool
	Mode         string   // SwitchToMode
	Bindings     []byte   // RebindKeys: a serialized KeyBinding set, opaque to this package
	Reconfig     []byte   // Reconfigure: a serialized config delta
	Target       pane.ID  // ClosePane, WriteToStdin, Hide/ShowPluginPane
	TabIndex     int      // SwitchTabTo
	Payload      []byte   // SendMessageToPlugin, WriteToStdin
	RecipientURL string   // SendMessageToPlugin
	Capability   Capability // RequestPermission
}

// EventKind tags the kind of Event delivered to a plugin instance.
type EventKind int

const (
	EvtModeUpdate EventKind = iota
	EvtTabUpdate
	EvtPaneManifest
	EvtKey
	EvtMouse
	EvtCustomMessage
	EvtFileSystemUpdate
	EvtPermissionResult
	EvtSessionUpdate
	EvtPipeMessage
	EvtTimer
)

// Event is one notification delivered to a plugin instance, tagged by Kind.
type Event struct {
	Kind EventKind

	Mode           string           // ModeUpdate
	Tabs           []byte           // TabUpdate: serialized tab list, opaque to this package
	Panes          []byte           // PaneManifest
	Key            []byte           // Key: raw bytes, same shape the client forwards
	Mouse          []byte           // Mouse
	SenderURL      string           // CustomMessage, PipeMessage
	Payload        []byte           // CustomMessage, PipeMessage
	Paths          []string         // FileSystemUpdate
	Granted        bool             // PermissionResult
	Capability     Capability       // PermissionResult
	SessionName    string           // SessionUpdate
	TimerID        uint32           // Timer
}
