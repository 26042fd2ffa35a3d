package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	Seed uint64 // RNG seed for deterministic gameplay; 0 means derive from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{Seed: 0}
}

// SeedOrNow returns the configured seed, or one derived from the clock.
func (c RuntimeConfig) SeedOrNow() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}

// GameState represents the current state of a game.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Won      bool // Whether the game ended in a win
}

// StepResult is returned by Game.Step() after each input frame.
type StepResult struct {
	State GameState
}
