package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pipeflow/internal/config"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

var (
	flagRotate  []string
	flagFree    bool
	flagAnimate bool
)

var checkCmd = &cobra.Command{
	Use:   "check <level>",
	Short: "Release the liquids on a level and report the outcome",
	Long: `Build the level board without shuffling, apply the given rotations and
run the flow to completion. The level is an ID or a path to a level file.

Rotations are "x,y,k": turn the tile at column x, row y clockwise k times.

Examples:
  pipeflow check level01 --rotate 0,0,1 --rotate 1,0,1
  pipeflow check ./levels/mine.txt --animate`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArrayVar(&flagRotate, "rotate", nil, "Rotation x,y,k (repeatable)")
	checkCmd.Flags().BoolVar(&flagFree, "free", false, "Deal the tiles as in free-world mode")
	checkCmd.Flags().BoolVar(&flagAnimate, "animate", false, "Pace the waves with the configured delays")
}

func runCheck(cmd *cobra.Command, args []string) error {
	difficulty, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return err
	}
	lvl, err := levelLoader().Resolve(args[0])
	if err != nil {
		return err
	}

	board := lvl.Board(flagFree, core.NewRNG(runtimeConfig().SeedOrNow()))
	for _, arg := range flagRotate {
		p, k, err := parseRotation(arg)
		if err != nil {
			return err
		}
		if !board.InBounds(p) {
			return fmt.Errorf("rotation %q: %s is off the %dx%d board", arg, p, board.N, board.N)
		}
		board.SetRotation(p, core.Rotation(k))
	}

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithObserver(func(res core.StepResult) {
			if res.WaveBoundary {
				logger.Debug("wave", "liquid", res.Liquid, "depth", res.Depth, "cell", res.Cell)
			}
		}),
	}

	var outcome core.Outcome
	var run *core.Run
	if flagAnimate {
		pacer := core.WaveDelay{Water: appCfg.Flow.WaterWaveDelay, Lava: appCfg.Flow.LavaWaveDelay}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		run, err = core.StartRun(ctx, board, lvl.Ends, append(opts, core.WithPacer(pacer))...)
		if err != nil {
			return err
		}
		if outcome, err = run.Wait(ctx); err != nil {
			run.Cancel()
			return err
		}
	} else {
		run, err = core.NewRun(board, lvl.Ends, opts...)
		if err != nil {
			return err
		}
		outcome = run.RunToCompletion()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Level: %s (%s)\n", lvl.Name, lvl.ID)
	fmt.Fprint(out, core.RenderRun(board, lvl.Ends, run))
	fmt.Fprintf(out, "Outcome: %s\n", outcome)
	if outcome == core.OutcomeWon {
		limit := lvl.TimeLimit(core.Difficulty(difficulty.Index()))
		fmt.Fprintf(out, "Limit: %ds (%s)\n", limit, difficulty)
	}
	return nil
}

// parseRotation parses "x,y,k".
func parseRotation(s string) (core.Position, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Position{}, 0, fmt.Errorf("rotation %q: want x,y,k", s)
	}
	var v [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return core.Position{}, 0, fmt.Errorf("rotation %q: %w", s, err)
		}
		v[i] = n
	}
	return core.P(v[0], v[1]), ((v[2] % 4) + 4) % 4, nil
}
