package client

// Default action names, dispatched by the session layer onto
// ScreenInstruction/PtyInstruction channels; named by what they do rather
// than by any particular keybind that triggers them.
const (
	ActionNewPane          = "NewPane"
	ActionCloseFocus       = "CloseFocus"
	ActionSplitHorizontal  = "SplitHorizontal"
	ActionSplitVertical    = "SplitVertical"
	ActionMoveFocus        = "MoveFocus"
	ActionMoveFocusOrTab   = "MoveFocusOrTab"
	ActionToggleFullscreen = "ToggleFullscreen"
	ActionToggleFloating   = "ToggleFloatingPanes"
	ActionTogglePaneFrames = "TogglePaneFrames"
	ActionNewTab           = "NewTab"
	ActionCloseTab         = "CloseTab"
	ActionGoToTab          = "GoToTab"
	ActionGoToNextTab      = "GoToNextTab"
	ActionGoToPreviousTab  = "GoToPreviousTab"
	ActionResizeIncrease   = "Resize"
	ActionNextSwapLayout   = "NextSwapLayout"
	ActionPreviousSwapLayout = "PreviousSwapLayout"
	ActionScrollUp         = "ScrollUp"
	ActionScrollDown       = "ScrollDown"
	ActionScrollToBottom   = "ScrollToBottom"
	ActionSearchInput      = "SearchInput"
	ActionSearchNext       = "SearchNext"
	ActionSearchPrevious   = "SearchPrevious"
	ActionSwitchToMode     = "SwitchToMode"
	ActionDetach           = "Detach"
	ActionQuit             = "Quit"
	ActionRenameInput      = "RenameInput"
	ActionRenameConfirm    = "RenameConfirm"
	ActionMovePane         = "MovePane"
	ActionUndoRename       = "UndoRename"
)

func mode(m InputMode, args ...any) []Action {
	a := map[string]any{"mode": int(m)}
	return []Action{{Name: ActionSwitchToMode, Args: a}}
}

func key(ch rune, mods ...Modifier) KeyWithModifier {
	k := KeyWithModifier{Bare: BareKey{Char: ch}, Modifiers: map[Modifier]bool{}}
	for _, m := range mods {
		k.Modifiers[m] = true
	}
	return k
}

func named(name string, mods ...Modifier) KeyWithModifier {
	k := KeyWithModifier{Bare: BareKey{Name: name}, Modifiers: map[Modifier]bool{}}
	for _, m := range mods {
		k.Modifiers[m] = true
	}
	return k
}

func act(name string, args map[string]any) []Action {
	return []Action{{Name: name, Args: args}}
}

// DefaultBindings returns the out-of-the-box KeyBinding set: one ctrl+letter
// leader per sub-mode (ctrl-p Pane, ctrl-t Tab, ctrl-r Resize, ctrl-s
// Scroll, ctrl-o Session, ctrl-m Move) that enters it from Normal, ctrl-g
// to return from Locked to Normal, plus each sub-mode's own single-key
// actions and its Esc-to-Normal escape hatch. A loaded keybinds file
// overrides these by appending later bindings for the same (mode, key),
// per NewKeyTable's override semantics.
func DefaultBindings() []KeyBinding {
	var b []KeyBinding

	add := func(m InputMode, k KeyWithModifier, actions []Action) {
		b = append(b, KeyBinding{Mode: m, Key: k, Actions: actions})
	}

	leaders := map[rune]InputMode{
		'p': ModePane,
		't': ModeTab,
		'r': ModeResize,
		's': ModeScroll,
		'o': ModeSession,
		'm': ModeMove,
	}
	for ch, target := range leaders {
		add(ModeNormal, key(ch, ModCtrl), mode(target))
	}
	add(ModeNormal, key('\\', ModCtrl), act(ActionDetach, nil))
	add(ModeLocked, key('g', ModCtrl), mode(ModeNormal))

	for _, m := range []InputMode{ModePane, ModeTab, ModeResize, ModeScroll, ModeSession, ModeMove} {
		add(m, named("Escape"), mode(ModeNormal))
	}

	add(ModePane, key('n'), act(ActionNewPane, nil))
	add(ModePane, key('x'), act(ActionCloseFocus, nil))
	add(ModePane, key('h'), act(ActionMoveFocus, map[string]any{"direction": "left"}))
	add(ModePane, key('l'), act(ActionMoveFocus, map[string]any{"direction": "right"}))
	add(ModePane, key('j'), act(ActionMoveFocus, map[string]any{"direction": "down"}))
	add(ModePane, key('k'), act(ActionMoveFocus, map[string]any{"direction": "up"}))
	add(ModePane, named("Left"), act(ActionMoveFocus, map[string]any{"direction": "left"}))
	add(ModePane, named("Right"), act(ActionMoveFocus, map[string]any{"direction": "right"}))
	add(ModePane, named("Down"), act(ActionMoveFocus, map[string]any{"direction": "down"}))
	add(ModePane, named("Up"), act(ActionMoveFocus, map[string]any{"direction": "up"}))
	add(ModePane, key('v'), act(ActionSplitVertical, nil))
	add(ModePane, key('s'), act(ActionSplitHorizontal, nil))
	add(ModePane, key('f'), act(ActionToggleFullscreen, nil))
	add(ModePane, key('w'), act(ActionToggleFloating, nil))
	add(ModePane, key('z'), act(ActionTogglePaneFrames, nil))
	add(ModePane, key('r'), mode(ModeRenamePane))

	add(ModeTab, key('n'), act(ActionNewTab, nil))
	add(ModeTab, key('x'), act(ActionCloseTab, nil))
	add(ModeTab, named("Left"), act(ActionGoToPreviousTab, nil))
	add(ModeTab, named("Right"), act(ActionGoToNextTab, nil))
	add(ModeTab, key('r'), mode(ModeRenameTab))
	for i := rune('1'); i <= '9'; i++ {
		add(ModeTab, key(i), act(ActionGoToTab, map[string]any{"index": int(i - '1')}))
	}

	add(ModeResize, key('h'), act(ActionResizeIncrease, map[string]any{"direction": "left"}))
	add(ModeResize, key('l'), act(ActionResizeIncrease, map[string]any{"direction": "right"}))
	add(ModeResize, key('j'), act(ActionResizeIncrease, map[string]any{"direction": "down"}))
	add(ModeResize, key('k'), act(ActionResizeIncrease, map[string]any{"direction": "up"}))
	add(ModeResize, key(' '), act(ActionNextSwapLayout, nil))
	add(ModeResize, key(' ', ModShift), act(ActionPreviousSwapLayout, nil))

	add(ModeMove, key('h'), act(ActionMovePane, map[string]any{"direction": "left"}))
	add(ModeMove, key('l'), act(ActionMovePane, map[string]any{"direction": "right"}))
	add(ModeMove, key('j'), act(ActionMovePane, map[string]any{"direction": "down"}))
	add(ModeMove, key('k'), act(ActionMovePane, map[string]any{"direction": "up"}))

	add(ModeScroll, key('k'), act(ActionScrollUp, nil))
	add(ModeScroll, key('j'), act(ActionScrollDown, nil))
	add(ModeScroll, named("Up"), act(ActionScrollUp, nil))
	add(ModeScroll, named("Down"), act(ActionScrollDown, nil))
	add(ModeScroll, key('g'), act(ActionScrollToBottom, nil))
	add(ModeScroll, key('/'), mode(ModeEnterSearch))

	add(ModeEnterSearch, named("Enter"), mode(ModeSearch))
	add(ModeEnterSearch, named("Escape"), mode(ModeScroll))
	add(ModeSearch, key('n'), act(ActionSearchNext, nil))
	add(ModeSearch, key('N'), act(ActionSearchPrevious, nil))
	add(ModeSearch, named("Escape"), mode(ModeScroll))

	add(ModeRenameTab, named("Enter"), append(act(ActionRenameConfirm, nil), mode(ModeTab)...))
	add(ModeRenameTab, named("Escape"), append(act(ActionUndoRename, nil), mode(ModeTab)...))
	add(ModeRenamePane, named("Enter"), append(act(ActionRenameConfirm, nil), mode(ModePane)...))
	add(ModeRenamePane, named("Escape"), append(act(ActionUndoRename, nil), mode(ModePane)...))

	add(ModeSession, key('d'), act(ActionDetach, nil))
	add(ModeSession, key('q'), act(ActionQuit, nil))

	return b
}
