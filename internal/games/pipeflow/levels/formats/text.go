package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

// ParseText parses the line-oriented level format:
//
//	N
//	easy;normal;hard
//	N rows of N records "[S|E]?:[W|L]?[0-4]?" separated by ';'
//
// A liquid tag sticks for the rest of its line; each line starts as water.
// A record without a digit is an empty tile. A trailing ';' is allowed.
func ParseText(data []byte) (Level, error) {
	lines := splitLines(data)
	if len(lines) < 2 {
		return Level{}, &FormatError{Reason: "missing size or time limit line"}
	}

	n, err := strconv.Atoi(lines[0])
	if err != nil {
		return Level{}, &FormatError{Line: 1, Reason: fmt.Sprintf("board size %q is not an integer", lines[0])}
	}
	if err := checkSize(n, 1); err != nil {
		return Level{}, err
	}

	limits, err := parseTimeLimits(lines[1])
	if err != nil {
		return Level{}, err
	}

	rows := lines[2:]
	if len(rows) != n {
		return Level{}, &FormatError{Reason: fmt.Sprintf("declared size %d but found %d rows", n, len(rows))}
	}

	lvl := Level{
		Size:       n,
		TimeLimits: limits,
		Pipes:      make([]core.Pipe, 0, n*n),
		Ends:       core.NewEndpoints(),
	}
	for y, row := range rows {
		if err := parseRow(&lvl, row, y); err != nil {
			return Level{}, err
		}
	}
	return lvl, nil
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitRecords(line string) []string {
	parts := strings.Split(line, ";")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func parseTimeLimits(line string) ([3]int, error) {
	var limits [3]int
	parts := splitRecords(line)
	if len(parts) != len(limits) {
		return limits, &FormatError{Line: 2, Reason: fmt.Sprintf("expected 3 time limits, got %d", len(parts))}
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return limits, &FormatError{Line: 2, Record: i + 1, Reason: fmt.Sprintf("invalid time limit %q", p)}
		}
		limits[i] = v
	}
	return limits, nil
}

func parseRow(lvl *Level, row string, y int) error {
	lineNo := y + 3
	records := splitRecords(row)
	if len(records) != lvl.Size {
		return &FormatError{Line: lineNo, Reason: fmt.Sprintf("declared size %d but found %d records", lvl.Size, len(records))}
	}

	liquid := core.Water
	for x, raw := range records {
		rec, err := parseRecord(strings.TrimSpace(raw), liquid)
		if err != nil {
			return &FormatError{Line: lineNo, Record: x + 1, Reason: err.Error()}
		}
		liquid = rec.pipe.Liquid
		lvl.Pipes = append(lvl.Pipes, rec.pipe)

		pos := core.P(x, y)
		switch rec.marker {
		case 'S':
			lvl.Ends = lvl.Ends.AddSource(liquid, pos)
			if lvl.DefaultStart == nil {
				lvl.DefaultStart = &pos
			}
		case 'E':
			lvl.Ends = lvl.Ends.AddSink(liquid, pos)
			if lvl.DefaultEnd == nil {
				lvl.DefaultEnd = &pos
			}
		}
	}
	return nil
}

type record struct {
	marker byte
	pipe   core.Pipe
}

func parseRecord(s string, liquid core.Liquid) (record, error) {
	rec := record{pipe: core.Pipe{Liquid: liquid, Shape: core.Empty}}

	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return rec, fmt.Errorf("record %q has no ':'", s)
	}
	switch prefix := s[:colon]; prefix {
	case "":
	case "S", "E":
		rec.marker = prefix[0]
	case "SE", "ES":
		return rec, fmt.Errorf("record %q marks both start and end", s)
	default:
		return rec, fmt.Errorf("invalid marker %q", prefix)
	}

	code := s[colon+1:]
	if code != "" && (code[0] == 'W' || code[0] == 'L') {
		rec.pipe.Liquid, _ = core.ParseLiquid(code[:1])
		code = code[1:]
	}
	switch {
	case code == "":
	case len(code) == 1 && code[0] >= '0' && code[0] <= '9':
		shape, ok := core.ShapeFromCode(int(code[0] - '0'))
		if !ok {
			return rec, fmt.Errorf("unknown shape code %q", code)
		}
		rec.pipe.Shape = shape
	default:
		return rec, fmt.Errorf("invalid pipe code %q", s[colon+1:])
	}
	return rec, nil
}

// FormatText writes a level in the text format read by ParseText.
// Rotations are not part of the format and are dropped.
func FormatText(l Level) (string, error) {
	if len(l.Pipes) != l.Size*l.Size {
		return "", &FormatError{Reason: fmt.Sprintf("%d pipes for a %dx%d board", len(l.Pipes), l.Size, l.Size)}
	}
	for _, liq := range core.Liquids {
		for _, p := range slices.Concat(l.Ends.Sources[liq], l.Ends.Sinks[liq]) {
			i := p.Y*l.Size + p.X
			if p.X < 0 || p.X >= l.Size || p.Y < 0 || p.Y >= l.Size {
				return "", &FormatError{Reason: fmt.Sprintf("endpoint %s off the board", p)}
			}
			if l.Pipes[i].Liquid != liq {
				return "", &FormatError{Reason: fmt.Sprintf("%s endpoint %s sits on a %s tile", liq, p, l.Pipes[i].Liquid)}
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n%d;%d;%d\n", l.Size, l.TimeLimits[0], l.TimeLimits[1], l.TimeLimits[2])
	for y := 0; y < l.Size; y++ {
		liquid := core.Water
		for x := 0; x < l.Size; x++ {
			p := core.P(x, y)
			pipe := l.Pipes[y*l.Size+x]
			switch {
			case l.Ends.IsSource(p):
				sb.WriteByte('S')
			case l.Ends.IsSink(p):
				sb.WriteByte('E')
			}
			sb.WriteByte(':')
			if pipe.Liquid != liquid {
				sb.WriteByte(pipe.Liquid.Tag())
				liquid = pipe.Liquid
			}
			sb.WriteString(strconv.Itoa(pipe.Shape.Code()))
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
