package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // move the cursor up
	ActionDown           // move the cursor down
	ActionLeft           // move the cursor left
	ActionRight          // move the cursor right
	ActionRotate         // rotate the tile under the cursor
	ActionGrab           // free world: pick up the tile under the cursor, or drop it
	ActionFlow           // release the liquids
	ActionRestart        // restart the level
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRotate:
		return "Rotate"
	case ActionGrab:
		return "Grab"
	case ActionFlow:
		return "Flow"
	case ActionRestart:
		return "Restart"
	default:
		return "Unknown"
	}
}

// ParseAction maps a single-letter replay code to an action:
// u d l r move, o rotate, g grab/drop, f flow, x restart.
func ParseAction(c byte) (Action, bool) {
	switch c {
	case 'u', 'U':
		return ActionUp, true
	case 'd', 'D':
		return ActionDown, true
	case 'l', 'L':
		return ActionLeft, true
	case 'r', 'R':
		return ActionRight, true
	case 'o', 'O':
		return ActionRotate, true
	case 'g', 'G':
		return ActionGrab, true
	case 'f', 'F':
		return ActionFlow, true
	case 'x', 'X':
		return ActionRestart, true
	default:
		return ActionNone, false
	}
}

// InputFrame represents the input state for a single player during one step.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// FrameOf creates a frame with the given actions set.
func FrameOf(actions ...Action) InputFrame {
	f := NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
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
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
