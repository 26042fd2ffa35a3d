package core

import "math"

// ScoreParams tunes the score formula.
type ScoreParams struct {
	MaxScore     int // score for finishing with the whole limit left
	MaxTimeLimit int // longest designed-level time limit, in seconds
}

// DefaultScoreParams returns the stock scoring constants.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{MaxScore: 10000, MaxTimeLimit: 20}
}

// Score converts the time left on a won level into points.
// Designed levels are weighted by MaxTimeLimit/limit so short limits are
// not rewarded twice; arcade boards use weight 1.
func Score(remaining, limit float64, arcade bool, p ScoreParams) int {
	if limit <= 0 || remaining <= 0 {
		return 0
	}
	if remaining > limit {
		remaining = limit
	}
	weight := 1.0
	if !arcade && p.MaxTimeLimit > 0 {
		weight = float64(p.MaxTimeLimit) / limit
	}
	return int(math.Round(remaining / limit / weight * float64(p.MaxScore)))
}
