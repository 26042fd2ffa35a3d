// Package levels provides level loading functionality for PipeFlow.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/levels/formats"
)

//go:embed builtin/*.txt builtin/*.yaml
var builtinFS embed.FS

// Level represents a complete level definition.
type Level struct {
	formats.Level
	FilePath string
}

// Board builds the board for a session. In free-world mode every tile that
// is not an endpoint is dealt to a random slot.
func (l *Level) Board(free bool, rng core.RNG) *core.Board {
	if !free {
		return l.Level.Board()
	}
	pipes := core.Scatter(l.Size, l.Pipes, l.Ends.Contains, rng)
	b := core.NewBoard(l.Size, pipes)
	for i, r := range l.Rotations {
		p := core.P(i%l.Size, i/l.Size)
		if r != 0 && l.Ends.Contains(p) {
			b.SetRotation(p, r)
		}
	}
	return b
}

// Loader handles loading levels from a file system.
type Loader struct {
	FS   fs.FS
	Root string
}

// NewLoader creates a loader over a directory. An empty root selects the
// built-in levels.
func NewLoader(root string) *Loader {
	if root == "" {
		return Builtin()
	}
	return &Loader{FS: os.DirFS(root), Root: root}
}

// Builtin returns a loader over the levels shipped with the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}
	return &Loader{FS: sub, Root: "builtin"}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID for deterministic
// ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads a single level file, relative to the loader's root.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := formats.Parse(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	if parsed.ID == "" {
		parsed.ID = strings.TrimSuffix(path.Base(p), path.Ext(p))
	}
	if parsed.Name == "" {
		parsed.Name = parsed.ID
	}
	return Level{Level: parsed, FilePath: path.Join(l.Root, p)}, nil
}

// LoadByID loads a specific level by ID. A file named after the ID that
// fails to parse reports its error instead of "not found".
func (l *Loader) LoadByID(id string) (Level, error) {
	var named error
	var found *Level

	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(path.Ext(p))
		if d.IsDir() || !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			if named == nil && strings.TrimSuffix(path.Base(p), path.Ext(p)) == id {
				named = err
			}
			return nil
		}
		if level.ID == id && found == nil {
			found = &level
		}
		return nil
	})
	if err != nil {
		return Level{}, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	switch {
	case found != nil:
		return *found, nil
	case named != nil:
		return Level{}, fmt.Errorf("loading level %s: %w", id, named)
	default:
		return Level{}, fmt.Errorf("level not found: %s", id)
	}
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Resolve loads a level by ID, or directly from a file path when ref names
// an existing file.
func (l *Loader) Resolve(ref string) (Level, error) {
	if st, err := os.Stat(ref); err == nil && !st.IsDir() {
		return NewLoader(filepath.Dir(ref)).LoadFile(filepath.Base(ref))
	}
	return l.LoadByID(ref)
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
