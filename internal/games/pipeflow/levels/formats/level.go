// Package formats provides pluggable level file format parsers.
package formats

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

// Board size limits for level files.
const (
	MinSize = 5
	MaxSize = 10
)

// ErrFormat is matched by every FormatError.
var ErrFormat = errors.New("level format")

// FormatError reports malformed level data. Line and Record are 1-based;
// zero means the error is not tied to one.
type FormatError struct {
	Line   int
	Record int
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Record > 0:
		return fmt.Sprintf("level format: line %d record %d: %s", e.Line, e.Record, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("level format: line %d: %s", e.Line, e.Reason)
	default:
		return "level format: " + e.Reason
	}
}

// Is makes errors.Is(err, ErrFormat) hold.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Level represents a parsed level ready for use.
type Level struct {
	ID         string
	Name       string
	Size       int
	TimeLimits [3]int          // seconds, indexed by core.Difficulty
	Pipes      []core.Pipe     // row-major, len Size*Size
	Rotations  []core.Rotation // row-major initial rotations; nil means all zero
	Ends       core.Endpoints
	// First start and end marker in reading order.
	DefaultStart *core.Position
	DefaultEnd   *core.Position
}

// TimeLimit returns the limit for a difficulty tier.
func (l Level) TimeLimit(d core.Difficulty) int {
	if int(d) >= len(l.TimeLimits) {
		return l.TimeLimits[len(l.TimeLimits)-1]
	}
	return l.TimeLimits[d]
}

// Board builds a fresh board from the level, applying initial rotations.
func (l Level) Board() *core.Board {
	b := core.NewBoard(l.Size, l.Pipes)
	for i, r := range l.Rotations {
		if r != 0 {
			b.SetRotation(core.P(i%l.Size, i/l.Size), r)
		}
	}
	return b
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".txt", ".yaml", ".yml"}
}

// Parse routes to the parser for a file extension.
func Parse(data []byte, ext string) (Level, error) {
	switch ext {
	case ".txt":
		return ParseText(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

func checkSize(n, line int) error {
	if n < MinSize || n > MaxSize {
		return &FormatError{Line: line, Reason: fmt.Sprintf("board size %d outside [%d, %d]", n, MinSize, MaxSize)}
	}
	return nil
}
