package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pipeflow/internal/config"
	"github.com/vovakirdan/pipeflow/internal/storage"
)

var (
	flagScoreDifficulty string
	flagClear           bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores for a level",
	Long: `Display the top 10 scores for a level at one difficulty.
Without a level, show a summary of every level played.

Examples:
  pipeflow scores level01
  pipeflow scores arcade --difficulty hard
  pipeflow scores
  pipeflow scores level01 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoreDifficulty, "difficulty", "easy", "Difficulty preset: easy, normal, hard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the level")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		all, err := store.AllStats()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(out, "No scores recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "  %-12s  %-10s  %-5s  %-6s  %s\n", "Level", "Difficulty", "Plays", "Best", "Last played")
		fmt.Fprintf(out, "  %-12s  %-10s  %-5s  %-6s  %s\n", "-----", "----------", "-----", "----", "-----------")
		for _, st := range all {
			fmt.Fprintf(out, "  %-12s  %-10s  %-5d  %-6d  %s\n",
				st.LevelID, st.Difficulty, st.Plays, st.HighScore, st.LastPlayed.Format("2006-01-02 15:04"))
		}
		return nil
	}

	levelID := args[0]
	if flagClear {
		if err := store.ClearScores(levelID); err != nil {
			return err
		}
		logger.Info("scores cleared", "level", levelID)
		return nil
	}

	difficulty, err := config.ParseDifficultyPreset(flagScoreDifficulty)
	if err != nil {
		return err
	}
	scores, err := store.TopScores(levelID, string(difficulty), 10)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s (%s)\n", levelID, difficulty)
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Run 'pipeflow replay %s --save' to set the first high score!\n", levelID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-6s  %-9s  %s\n", "Rank", "Score", "Time left", "Date")
	fmt.Fprintf(out, "  %-4s  %-6s  %-9s  %s\n", "----", "-----", "---------", "----")
	for i, entry := range scores {
		fmt.Fprintf(out, "  %-4d  %-6d  %-9s  %s\n", i+1, entry.Score, entry.Remaining, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(levelID, string(difficulty))
	if err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d | Plays recorded: %d | Average: %.0f\n", stats.HighScore, stats.Plays, stats.AvgScore)
	}
	return nil
}
