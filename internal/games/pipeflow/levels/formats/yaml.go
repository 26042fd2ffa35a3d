package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Size       int        `yaml:"size"`
	TimeLimits []int      `yaml:"time_limits"`
	Cells      []YAMLCell `yaml:"cells"`
}

// YAMLCell represents a single tile in YAML format. Cells not listed are
// empty; a listed cell must name its shape.
type YAMLCell struct {
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Shape    string `yaml:"shape"`
	Liquid   string `yaml:"liquid,omitempty"`
	Rotation int    `yaml:"rotation,omitempty"` // quarter turns clockwise
	Start    bool   `yaml:"start,omitempty"`
	End      bool   `yaml:"end,omitempty"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := checkSize(yl.Size, 0); err != nil {
		return Level{}, err
	}
	if len(yl.TimeLimits) != 3 {
		return Level{}, &FormatError{Reason: fmt.Sprintf("expected 3 time limits, got %d", len(yl.TimeLimits))}
	}

	n := yl.Size
	lvl := Level{
		ID:        yl.ID,
		Name:      yl.Name,
		Size:      n,
		Pipes:     make([]core.Pipe, n*n),
		Rotations: make([]core.Rotation, n*n),
		Ends:      core.NewEndpoints(),
	}
	for i, v := range yl.TimeLimits {
		if v <= 0 {
			return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("invalid time limit %d", v)}
		}
		lvl.TimeLimits[i] = v
	}
	for i := range lvl.Pipes {
		lvl.Pipes[i] = core.EmptyPipe()
	}

	seen := make(map[core.Position]bool)
	for i, c := range yl.Cells {
		pos := core.P(c.X, c.Y)
		if c.X < 0 || c.X >= n || c.Y < 0 || c.Y >= n {
			return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("cell %s off the board", pos)}
		}
		if seen[pos] {
			return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("cell %s listed twice", pos)}
		}
		seen[pos] = true
		if c.Start && c.End {
			return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("cell %s marks both start and end", pos)}
		}

		if c.Shape == "" {
			return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("cell %s has no shape", pos)}
		}
		shape, ok := core.ParseShape(c.Shape)
		if !ok {
			return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("unknown shape %q", c.Shape)}
		}
		liquid := core.Water
		if c.Liquid != "" {
			if liquid, ok = core.ParseLiquid(c.Liquid); !ok {
				return Level{}, &FormatError{Record: i + 1, Reason: fmt.Sprintf("unknown liquid %q", c.Liquid)}
			}
		}

		idx := c.Y*n + c.X
		lvl.Pipes[idx] = core.Pipe{Liquid: liquid, Shape: shape}
		lvl.Rotations[idx] = core.Rotation(((c.Rotation % 4) + 4) % 4)

		if c.Start {
			lvl.Ends = lvl.Ends.AddSource(liquid, pos)
		}
		if c.End {
			lvl.Ends = lvl.Ends.AddSink(liquid, pos)
		}
	}
	lvl.DefaultStart = firstMarked(lvl.Ends.Sources)
	lvl.DefaultEnd = firstMarked(lvl.Ends.Sinks)
	return lvl, nil
}

// firstMarked returns the first marked position in reading order.
func firstMarked(m map[core.Liquid][]core.Position) *core.Position {
	var best *core.Position
	for _, l := range core.Liquids {
		for _, p := range m[l] {
			if best == nil || p.Less(*best) {
				q := p
				best = &q
			}
		}
	}
	return best
}
