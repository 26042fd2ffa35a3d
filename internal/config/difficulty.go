package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficultyPreset converts a flag value to a preset.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	case "":
		return DifficultyEasy, nil
	default:
		return DifficultyEasy, fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// Index returns the preset's position in the easy/normal/hard tier order.
func (p DifficultyPreset) Index() int {
	switch p {
	case DifficultyNormal:
		return 1
	case DifficultyHard:
		return 2
	default:
		return 0
	}
}
