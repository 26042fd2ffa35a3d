package core

import (
	"errors"
	"fmt"
)

// ErrIllegalMutation is matched by every MutationError.
var ErrIllegalMutation = errors.New("illegal mutation")

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// InvalidTopologyError reports a wall pattern the shape table has no entry
// for. The generator never produces one, so seeing it means a broken table.
type InvalidTopologyError struct {
	Pos   Position
	Walls Walls
}

func (e *InvalidTopologyError) Error() string {
	return fmt.Sprintf("invalid topology at %s: no shape for walls %s", e.Pos, e.Walls)
}

// MutationError describes a rejected rotate or swap.
type MutationError struct {
	Op     string
	From   Position
	To     Position
	Reason string
}

func (e *MutationError) Error() string {
	if e.Op == "rotate" {
		return fmt.Sprintf("%s %s rejected: %s", e.Op, e.From, e.Reason)
	}
	return fmt.Sprintf("%s %s -> %s rejected: %s", e.Op, e.From, e.To, e.Reason)
}

// Is makes errors.Is(err, ErrIllegalMutation) hold.
func (e *MutationError) Is(target error) bool {
	return target == ErrIllegalMutation
}
