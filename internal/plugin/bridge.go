package plugin

import (
	"fmt"

	"github.com/zyedidia/glob"

	"gridmux/internal/bus"
	"gridmux/internal/pane"
)

// ScreenInstruction and PtyInstruction are the subset of each downstream
// task's instruction vocabulary the bridge is able to emit; the task
// packages themselves own the full closed sets, so the bridge depends on
// nothing but the two constructors below plus the bus it sends envelopes
// through (avoids an import cycle back into internal/screen/internal/pty).
type ScreenInstruction struct {
	Kind     CommandKind
	Run      pane.RunInstruction
	Floating bool
	Mode     string
	Target   pane.ID
	TabIndex int
}

type PtyInstruction struct {
	Kind    CommandKind
	Target  pane.ID
	Payload []byte
}

// PromptFunc asks the user whether pluginURL may use cap, blocking until
// answered. The server wires this to whatever UI surface shows the prompt
// (a client Action round-trip in practice).
type PromptFunc func(pluginURL string, cap Capability) bool

// Bridge is the pure router from PluginCommand to ScreenInstruction/
// PtyInstruction and from core-originated notifications to Event. It never
// interprets a command beyond permission-gating and translation.
type Bridge struct {
	bus         *bus.Bus
	permissions *PermissionStore
	prompt      PromptFunc
}

// NewBridge constructs a Bridge wired to bus for forwarding and
// permissions for grant persistence.
func NewBridge(b *bus.Bus, permissions *PermissionStore, prompt PromptFunc) *Bridge {
	return &Bridge{bus: b, permissions: permissions, prompt: prompt}
}

// commandCapability maps a CommandKind to the capability category it falls
// under, per spec: the first command in a category prompts the user.
func commandCapability(kind CommandKind) (Capability, bool) {
	switch kind {
	case CmdOpenPane, CmdOpenFile:
		return CapOpenPanes, true
	case CmdRunCommand:
		return CapRunCommands, true
	case CmdSwitchToMode, CmdRebindKeys, CmdReconfigure, CmdSwitchTabTo:
		return CapChangeState, true
	case CmdClosePane:
		return CapChangeState, true
	case CmdSendMessageToPlugin:
		return CapMessageOtherPlugins, true
	case CmdWriteToStdin:
		return CapWriteToStdin, true
	case CmdHidePluginPane, CmdShowPluginPane:
		return CapChangeState, true
	default:
		return 0, false
	}
}

// Dispatch routes one PluginCommand from pluginURL, gating it on the
// capability category's persisted grant (prompting on first use) before
// forwarding it onto the bus as a Screen or Pty instruction.
func (br *Bridge) Dispatch(pluginURL string, cmd PluginCommand) error {
	if cap, needed := commandCapability(cmd.Kind); needed {
		allowed, err := br.authorize(pluginURL, cap)
		if err != nil {
			return fmt.Errorf("authorize plugin command: %w", err)
		}
		if !allowed {
			return fmt.Errorf("plugin %q denied capability %s", pluginURL, cap)
		}
	}

	if cmd.Kind == CmdRunCommand {
		if err := br.checkRunCommandsAllowlist(pluginURL, cmd.Run); err != nil {
			return err
		}
	}

	switch cmd.Kind {
	case CmdOpenPane, CmdOpenFile, CmdRunCommand:
		br.bus.Screen.Send(bus.NewEnvelope(ScreenInstruction{
			Kind: cmd.Kind, Run: cmd.Run, Floating: cmd.FloatingHint,
		}), "PluginOpenPane")
	case CmdSwitchToMode:
		br.bus.Screen.Send(bus.NewEnvelope(ScreenInstruction{Kind: cmd.Kind, Mode: cmd.Mode}), "PluginSwitchMode")
	case CmdSwitchTabTo:
		br.bus.Screen.Send(bus.NewEnvelope(ScreenInstruction{Kind: cmd.Kind, TabIndex: cmd.TabIndex}), "PluginSwitchTab")
	case CmdClosePane, CmdHidePluginPane, CmdShowPluginPane:
		br.bus.Screen.Send(bus.NewEnvelope(ScreenInstruction{Kind: cmd.Kind, Target: cmd.Target}), "PluginTargetPane")
	case CmdWriteToStdin:
		br.bus.Pty.Send(bus.NewEnvelope(PtyInstruction{Kind: cmd.Kind, Target: cmd.Target, Payload: cmd.Payload}), "PluginWriteStdin")
	case CmdRebindKeys, CmdReconfigure:
		br.bus.BroadcastReconfigure(bus.Reconfigure{Keybinds: cmd.Bindings, Style: cmd.Reconfig})
	case CmdSendMessageToPlugin:
		br.bus.Plugin.Send(bus.NewEnvelope(Event{
			Kind: EvtCustomMessage, SenderURL: pluginURL, Payload: cmd.Payload,
		}), "PluginToPluginMessage")
	case CmdRequestPermission:
		// Runs the prompt/persist cycle for cmd.Capability (a no-op when a
		// grant is already recorded); nothing further to route.
		if _, err := br.authorize(pluginURL, cmd.Capability); err != nil {
			return fmt.Errorf("authorize requested capability: %w", err)
		}
	default:
		return fmt.Errorf("unhandled plugin command kind %d", cmd.Kind)
	}
	return nil
}

// authorize returns the persisted grant for (pluginURL, cap), prompting the
// user and persisting the answer the first time this category is seen.
func (br *Bridge) authorize(pluginURL string, cap Capability) (bool, error) {
	granted, ok, err := br.permissions.Lookup(pluginURL, cap)
	if err != nil {
		return false, err
	}
	if ok {
		return granted, nil
	}
	if br.prompt == nil {
		return false, nil
	}
	granted = br.prompt(pluginURL, cap)
	if err := br.permissions.Record(pluginURL, cap, granted); err != nil {
		return false, err
	}
	return granted, nil
}

// checkRunCommandsAllowlist additionally scopes a granted run-commands
// capability by a glob allow-list matched against the requested command
// line, so a plugin granted "may run commands" still can't run anything it
// likes.
func (br *Bridge) checkRunCommandsAllowlist(pluginURL string, run pane.RunInstruction) error {
	patterns, err := br.permissions.RunCommandsAllowlist(pluginURL)
	if err != nil {
		return fmt.Errorf("read run-commands allowlist: %w", err)
	}
	if len(patterns) == 0 {
		return fmt.Errorf("plugin %q has no run-commands allow-list entries", pluginURL)
	}
	commandLine := run.Command.String()
	for _, pattern := range patterns {
		matched, err := glob.Glob(pattern, commandLine)
		if err != nil {
			continue
		}
		if matched {
			return nil
		}
	}
	return fmt.Errorf("plugin %q's command %q matches no allow-list entry", pluginURL, commandLine)
}

// Deliver sends ev to the plugin task's channel for routing to the named
// plugin instance (plugin-instance addressing is the plugin task's own
// responsibility; the bridge only forwards).
func (br *Bridge) Deliver(ev Event) {
	br.bus.Plugin.Send(bus.NewEnvelope(ev), "DeliverEvent")
}
