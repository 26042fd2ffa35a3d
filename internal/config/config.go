// Package config provides YAML-based game configuration loading and
// difficulty presets for PipeFlow.
package config

import (
	"fmt"
	"time"
)

// PipeflowConfig contains all configuration for the PipeFlow game.
type PipeflowConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Arcade    ArcadeConfig    `yaml:"arcade"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Flow      FlowConfig      `yaml:"flow"`
	Generator GeneratorConfig `yaml:"generator"`
	Gameplay  GameplayConfig  `yaml:"gameplay"`
	Paths     PathsConfig     `yaml:"paths"`
}

// BoardConfig defines the size range for generated boards (the generate
// command and arcade mode). Level files are bound by the fixed range of the
// level formats instead.
type BoardConfig struct {
	ArcadeSize int `yaml:"arcade_size"`
	MinSize    int `yaml:"min_size"`
	MaxSize    int `yaml:"max_size"`
}

// ArcadeConfig defines procedural mode parameters.
type ArcadeConfig struct {
	TimeLimits TimeLimits `yaml:"time_limits"`
}

// TimeLimits holds one limit in seconds per difficulty preset.
type TimeLimits struct {
	Easy   int `yaml:"easy"`
	Normal int `yaml:"normal"`
	Hard   int `yaml:"hard"`
}

// For returns the limit for a preset. Unknown presets get the easy limit.
func (t TimeLimits) For(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return t.Normal
	case DifficultyHard:
		return t.Hard
	default:
		return t.Easy
	}
}

// ScoringConfig defines the score formula constants.
type ScoringConfig struct {
	MaxScore     int `yaml:"max_score"`
	MaxTimeLimit int `yaml:"max_time_limit"`
}

// FlowConfig defines the pacing of the liquid reveal.
type FlowConfig struct {
	WaterWaveDelay time.Duration `yaml:"water_wave_delay"`
	LavaWaveDelay  time.Duration `yaml:"lava_wave_delay"`
}

// GeneratorConfig defines procedural generation policy.
type GeneratorConfig struct {
	// DeadEndShapes lists the shapes a dead-end maze cell may become.
	DeadEndShapes []string `yaml:"dead_end_shapes"`
}

// GameplayConfig defines session behavior.
type GameplayConfig struct {
	Shuffle bool `yaml:"shuffle"`
}

// PathsConfig defines where levels and scores live.
type PathsConfig struct {
	Levels string `yaml:"levels"` // empty selects the built-in levels
	DB     string `yaml:"db"`
}

// Validate checks the configuration for values the game cannot run with.
func (c PipeflowConfig) Validate() error {
	b := c.Board
	if b.MinSize < 1 || b.MaxSize < b.MinSize {
		return fmt.Errorf("board size range [%d, %d] is invalid", b.MinSize, b.MaxSize)
	}
	if b.ArcadeSize < b.MinSize || b.ArcadeSize > b.MaxSize {
		return fmt.Errorf("arcade size %d outside [%d, %d]", b.ArcadeSize, b.MinSize, b.MaxSize)
	}
	t := c.Arcade.TimeLimits
	if t.Easy <= 0 || t.Normal <= 0 || t.Hard <= 0 {
		return fmt.Errorf("arcade time limits must be positive, got %d/%d/%d", t.Easy, t.Normal, t.Hard)
	}
	if c.Scoring.MaxScore <= 0 || c.Scoring.MaxTimeLimit <= 0 {
		return fmt.Errorf("scoring constants must be positive")
	}
	if c.Flow.WaterWaveDelay < 0 || c.Flow.LavaWaveDelay < 0 {
		return fmt.Errorf("wave delays must not be negative")
	}
	return nil
}
