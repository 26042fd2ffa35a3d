package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/levels"
)

var flagLevelDir string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List available levels",
	Long: `Shows the levels found in a directory, or the built-in levels.

Examples:
  pipeflow levels
  pipeflow levels --dir ./levels`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelDir, "dir", "", "Level directory (default from config, then built-in)")
}

func runLevels(cmd *cobra.Command, args []string) error {
	loader := levelLoader()
	if flagLevelDir != "" {
		loader = levels.NewLoader(flagLevelDir)
	}
	lvls, err := loader.LoadAll()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(lvls) == 0 {
		fmt.Fprintln(out, "No levels found.")
		return nil
	}

	fmt.Fprintln(out, "Available levels:")
	fmt.Fprintln(out)

	maxIDLen := 2 // "ID" header
	for _, l := range lvls {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Fprintf(out, "  %-*s  %-4s  %-10s  %-11s  %s\n", maxIDLen, "ID", "Size", "Limits", "Liquids", "Name")
	fmt.Fprintf(out, "  %-*s  %-4s  %-10s  %-11s  %s\n", maxIDLen, "--", "----", "------", "-------", "----")
	for _, l := range lvls {
		limits := fmt.Sprintf("%d/%d/%d", l.TimeLimits[0], l.TimeLimits[1], l.TimeLimits[2])
		liquids := ""
		for _, liq := range core.Liquids {
			if l.Ends.HasSources(liq) {
				if liquids != "" {
					liquids += "+"
				}
				liquids += liq.String()
			}
		}
		fmt.Fprintf(out, "  %-*s  %-4d  %-10s  %-11s  %s\n", maxIDLen, l.ID, l.Size, limits, liquids, l.Name)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'pipeflow replay <id> --actions ...' to play a level.")
	return nil
}
