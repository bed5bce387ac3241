package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the levels",
	Long: `Shows the levels the game will play: the built-in campaign, or the
directory given with --levels.

Examples:
  crunch levels
  crunch levels --levels ./my-levels`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	lvls, err := crunch.LoadLevels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(lvls) == 0 {
		fmt.Println("No levels found.")
		return
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range lvls {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	// Print header
	fmt.Printf("  %3s  %-*s  %5s  %6s  %5s\n", "ID", maxNameLen, "Name", "Size", "Target", "Moves")
	fmt.Printf("  %3s  %-*s  %5s  %6s  %5s\n", "--", maxNameLen, "----", "----", "------", "-----")

	// Print levels
	for _, l := range lvls {
		size := fmt.Sprintf("%dx%d", l.Columns, l.Rows)
		fmt.Printf("  %3d  %-*s  %5s  %6d  %5d\n", l.ID, maxNameLen, l.Name, size, l.TargetScore, l.MaxMoves)
	}

	fmt.Println()
	fmt.Println("Run 'crunch play <id>' to start on a level.")
}
