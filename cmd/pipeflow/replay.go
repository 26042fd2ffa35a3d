package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pipeflow/internal/config"
	pcore "github.com/vovakirdan/pipeflow/internal/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow"
	"github.com/vovakirdan/pipeflow/internal/storage"
)

var (
	flagDifficulty string
	flagMode       string
	flagActions    string
	flagTimeLeft   int
	flagSave       bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <level|arcade>",
	Short: "Play a level from a recorded action string",
	Long: `Drive a play session with single-letter actions and print the result.

Actions:
  u d l r - Move the cursor
  o       - Rotate the tile under the cursor
  g       - Free world: pick up or drop a tile
  f       - Release the liquids
  x       - Restart the level
Whitespace is ignored.

Examples:
  pipeflow replay level01 --actions "ororororoo f" --time-left 12
  pipeflow replay arcade --seed 42 --difficulty hard --actions "rrd o f"
  pipeflow replay level02 --mode free --actions "g r g f" --save`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagDifficulty, "difficulty", "easy", "Difficulty preset: easy, normal, hard")
	replayCmd.Flags().StringVar(&flagMode, "mode", "level", "Mode for level files: level, free")
	replayCmd.Flags().StringVar(&flagActions, "actions", "", "Action string")
	replayCmd.Flags().IntVar(&flagTimeLeft, "time-left", 0, "Seconds left on the timer at release (0 = full limit)")
	replayCmd.Flags().BoolVar(&flagSave, "save", false, "Record a winning score")

	checkCmd.Flags().StringVar(&flagDifficulty, "difficulty", "easy", "Difficulty preset: easy, normal, hard")
}

func runReplay(cmd *cobra.Command, args []string) error {
	difficulty, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return err
	}

	opts := pipeflow.Options{
		Difficulty: difficulty,
		Config:     appCfg,
		Logger:     logger,
	}
	if args[0] == "arcade" {
		opts.Mode = pipeflow.ModeArcade
	} else {
		if opts.Mode, err = pipeflow.ParseMode(flagMode); err != nil {
			return err
		}
		lvl, err := levelLoader().Resolve(args[0])
		if err != nil {
			return err
		}
		opts.Level = &lvl
	}

	game, err := pipeflow.New(opts)
	if err != nil {
		return err
	}
	if err := game.Reset(runtimeConfig()); err != nil {
		return err
	}

	if err := play(game, flagActions); err != nil {
		return err
	}

	snap := game.Snapshot()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s | %s | %s\n", game.Title(), snap.Mode, snap.Difficulty)
	fmt.Fprint(out, game.View())
	fmt.Fprintf(out, "State: %s | Score: %d | Time left: %s | Cursor: %s | Steps: %d\n",
		snap.State, snap.Score, snap.Remaining, snap.Cursor, snap.Tick)

	if flagSave && snap.State == pipeflow.StateWon {
		return saveScore(game, snap)
	}
	return nil
}

// play feeds the action string to the session. The timer is run down to
// --time-left just before the first release.
func play(game *pipeflow.Game, actions string) error {
	elapsed := false
	for i := 0; i < len(actions); i++ {
		c := actions[i]
		if c == ' ' || c == '\t' || c == '\n' {
			continue
		}
		a, ok := pcore.ParseAction(c)
		if !ok {
			return fmt.Errorf("action %q at offset %d: want one of u d l r o g f x", c, i)
		}
		if a == pcore.ActionFlow && !elapsed && flagTimeLeft > 0 {
			elapsed = true
			if spent := game.Remaining() - time.Duration(flagTimeLeft)*time.Second; spent > 0 {
				game.Elapse(spent)
			}
		}
		game.Step(pcore.FrameOf(a))
	}
	return nil
}

func saveScore(game *pipeflow.Game, snap pipeflow.Snapshot) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entry := storage.ScoreEntry{
		LevelID:    snap.Level,
		Difficulty: snap.Difficulty,
		Mode:       snap.Mode,
		Score:      snap.Score,
		Remaining:  snap.Remaining,
	}
	if run := game.Run(); run != nil {
		entry.RunID = run.ID()
	}
	saved, err := store.SaveIfBest(entry)
	if err != nil {
		return err
	}
	if saved {
		logger.Info("new high score", "level", snap.Level, "difficulty", snap.Difficulty, "score", snap.Score)
	}
	return nil
}
