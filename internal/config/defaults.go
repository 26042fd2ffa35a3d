package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/pipeflow.yaml
var defaultPipeflowYAML []byte

// DefaultPipeflowConfig returns the default PipeFlow configuration.
func DefaultPipeflowConfig() PipeflowConfig {
	return PipeflowConfig{
		Board: BoardConfig{
			ArcadeSize: 10,
			MinSize:    5,
			MaxSize:    10,
		},
		Arcade: ArcadeConfig{
			TimeLimits: TimeLimits{Easy: 60, Normal: 40, Hard: 30},
		},
		Scoring: ScoringConfig{
			MaxScore:     10000,
			MaxTimeLimit: 20,
		},
		Flow: FlowConfig{
			WaterWaveDelay: 500 * time.Millisecond,
			LavaWaveDelay:  time.Second,
		},
		Generator: GeneratorConfig{
			DeadEndShapes: []string{"straight", "round"},
		},
		Gameplay: GameplayConfig{
			Shuffle: true,
		},
		Paths: PathsConfig{
			DB: "~/.pipeflow/scores.db",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultPipeflowYAML
}
