package core

// Action represents a semantic game action, abstracted from physical key presses.
// Games react to intents; the platform owns the key bindings.
type Action int

const (
	ActionNone        Action = iota
	ActionLeft               // Left arrow, A - move one column left
	ActionRight              // Right arrow, D - move one column right
	ActionSoftDrop           // Down arrow, S - move one row down
	ActionHardDrop           // Space - drop to the landing row and lock
	ActionSlideLeft          // Shift+Left - slide to the left wall
	ActionSlideRight         // Shift+Right - slide to the right wall
	ActionRotateCW           // Up arrow, X - rotate clockwise
	ActionRotateCCW          // Z - rotate counter-clockwise
	ActionHold               // C - swap with the held block
	ActionToggleGhost        // G - show or hide the landing preview
	ActionConfirm            // Enter - confirm selection in menu
	ActionBack               // B, Escape - go back to menu
	ActionRestart            // R key - restart game after game over
	ActionQuit               // Q, Ctrl+C - exit game/session
	ActionPause              // P - pause/unpause game
)

var actionNames = [...]string{
	ActionNone:        "None",
	ActionLeft:        "Left",
	ActionRight:       "Right",
	ActionSoftDrop:    "SoftDrop",
	ActionHardDrop:    "HardDrop",
	ActionSlideLeft:   "SlideLeft",
	ActionSlideRight:  "SlideRight",
	ActionRotateCW:    "RotateCW",
	ActionRotateCCW:   "RotateCCW",
	ActionHold:        "Hold",
	ActionToggleGhost: "ToggleGhost",
	ActionConfirm:     "Confirm",
	ActionBack:        "Back",
	ActionRestart:     "Restart",
	ActionQuit:        "Quit",
	ActionPause:       "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame represents the input state during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
