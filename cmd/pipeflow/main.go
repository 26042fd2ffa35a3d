// pipeflow is a command-line driver for the PipeFlow liquid pipe puzzle.
//
// Usage:
//
//	pipeflow generate          - Generate a procedural puzzle
//	pipeflow check <level>     - Release the liquids on a level and report the outcome
//	pipeflow replay <level>    - Play a level from a recorded action string
//	pipeflow levels            - List available levels
//	pipeflow scores <level>    - Show high scores for a level
//
// Global flags:
//
//	--config <path> - Custom config YAML
//	--seed <value>  - Set RNG seed for reproducible boards
//	--db <path>     - Set database path (default from config: ~/.pipeflow/scores.db)
//	--verbose       - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pipeflow/internal/config"
	pcore "github.com/vovakirdan/pipeflow/internal/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/levels"
)

var (
	// Global flags
	flagConfig  string
	flagSeed    uint64
	flagDBPath  string
	flagVerbose bool

	appCfg config.PipeflowConfig
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pipeflow",
	Short: "PipeFlow - rotate pipes until water and lava reach their sinks",
	Long: `PipeFlow is a pipe-rotation puzzle. Each tile carries water or lava;
rotate the tiles so every source connects to its sinks, then release the
liquids and watch them spread wave by wave.

Available commands:
  generate - Generate a procedural arcade puzzle
  check    - Release the liquids on a level with given rotations
  replay   - Drive a play session with a recorded action string
  levels   - List available levels
  scores   - View high scores

Examples:
  pipeflow generate --size 8 --seed 42
  pipeflow check level01 --rotate 0,0,1 --rotate 4,0,2
  pipeflow replay level01 --actions "ororororoo f" --save
  pipeflow levels --dir ./levels
  pipeflow scores level01 --difficulty hard`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(cmd *cobra.Command, args []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pipeflow",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.LoadPipeflow(flagConfig)
	if err != nil {
		return err
	}
	appCfg = cfg
	if flagDBPath == "" {
		flagDBPath = cfg.Paths.DB
	}
	logger.Debug("config loaded", "path", flagConfig, "levels", cfg.Paths.Levels, "db", flagDBPath)
	return nil
}

func runtimeConfig() pcore.RuntimeConfig {
	cfg := pcore.DefaultConfig()
	cfg.Seed = flagSeed
	return cfg
}

func levelLoader() *levels.Loader {
	return levels.NewLoader(appCfg.Paths.Levels)
}
