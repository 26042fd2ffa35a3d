package core

import (
	"fmt"
	"slices"
)

// Endpoints holds, per liquid, the ordered source and sink positions of a
// run. Positions are deduplicated on insert; declaration order is kept.
type Endpoints struct {
	Sources map[Liquid][]Position
	Sinks   map[Liquid][]Position
}

// NewEndpoints returns an empty set of endpoints.
func NewEndpoints() Endpoints {
	return Endpoints{
		Sources: make(map[Liquid][]Position),
		Sinks:   make(map[Liquid][]Position),
	}
}

// AddSource appends p to the sources of l.
func (e Endpoints) AddSource(l Liquid, p Position) Endpoints {
	if e.Sources == nil {
		e.Sources = make(map[Liquid][]Position)
	}
	if !slices.Contains(e.Sources[l], p) {
		e.Sources[l] = append(e.Sources[l], p)
	}
	return e
}

// AddSink appends p to the sinks of l.
func (e Endpoints) AddSink(l Liquid, p Position) Endpoints {
	if e.Sinks == nil {
		e.Sinks = make(map[Liquid][]Position)
	}
	if !slices.Contains(e.Sinks[l], p) {
		e.Sinks[l] = append(e.Sinks[l], p)
	}
	return e
}

// Clone returns a deep copy.
func (e Endpoints) Clone() Endpoints {
	out := NewEndpoints()
	for l, ps := range e.Sources {
		out.Sources[l] = slices.Clone(ps)
	}
	for l, ps := range e.Sinks {
		out.Sinks[l] = slices.Clone(ps)
	}
	return out
}

// HasSources reports whether liquid l has at least one source.
func (e Endpoints) HasSources(l Liquid) bool {
	return len(e.Sources[l]) > 0
}

// Contains reports whether p is a source or sink of any liquid.
func (e Endpoints) Contains(p Position) bool {
	for _, l := range Liquids {
		if slices.Contains(e.Sources[l], p) || slices.Contains(e.Sinks[l], p) {
			return true
		}
	}
	return false
}

// IsSource reports whether p is a source of any liquid.
func (e Endpoints) IsSource(p Position) bool {
	for _, l := range Liquids {
		if slices.Contains(e.Sources[l], p) {
			return true
		}
	}
	return false
}

// IsSink reports whether p is a sink of any liquid.
func (e Endpoints) IsSink(p Position) bool {
	for _, l := range Liquids {
		if slices.Contains(e.Sinks[l], p) {
			return true
		}
	}
	return false
}

// Validate checks the endpoints against a board: every position must be on
// the board and a liquid with sources must declare at least one sink.
func (e Endpoints) Validate(b *Board) error {
	if b == nil {
		return ValidationError{Code: "NO_BOARD", Message: "board is nil"}
	}
	for _, l := range Liquids {
		for _, p := range e.Sources[l] {
			if !b.InBounds(p) {
				return ValidationError{
					Code:    "OUT_OF_BOUNDS",
					Message: fmt.Sprintf("%s source %s outside %dx%d board", l, p, b.N, b.N),
				}
			}
		}
		for _, p := range e.Sinks[l] {
			if !b.InBounds(p) {
				return ValidationError{
					Code:    "OUT_OF_BOUNDS",
					Message: fmt.Sprintf("%s sink %s outside %dx%d board", l, p, b.N, b.N),
				}
			}
		}
		if len(e.Sources[l]) > 0 && len(e.Sinks[l]) == 0 {
			return ValidationError{
				Code:    "NO_SINKS",
				Message: fmt.Sprintf("%s has %d source(s) but no sinks", l, len(e.Sources[l])),
			}
		}
	}
	return nil
}

// Evaluate decides the outcome of a finished run. Water is checked first;
// lava is only consulted once water's sinks are all reached. A liquid with
// no sources is trivially satisfied.
func Evaluate(e Endpoints, visited func(Position) bool) Outcome {
	for _, l := range Liquids {
		if !e.HasSources(l) {
			continue
		}
		for _, p := range e.Sinks[l] {
			if !visited(p) {
				return OutcomeLost
			}
		}
	}
	return OutcomeWon
}
