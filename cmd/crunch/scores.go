package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
	"github.com/vovakirdan/tui-crunch/internal/registry"
	"github.com/vovakirdan/tui-crunch/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top scores for the campaign (crunch) or endless mode
(crunch_endless).

Examples:
  crunch scores
  crunch scores crunch_endless --limit 20
  crunch scores --redis redis://localhost:6379/0
  crunch scores crunch --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the game")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := crunch.IDCampaign
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q (want %s or %s)\n", gameID, crunch.IDCampaign, crunch.IDEndless)
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := printScores(ctx, store, gameID); err != nil {
		cancel()
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printScores(ctx context.Context, store storage.ScoreStore, gameID string) error {
	title := registry.Title(gameID)

	if flagClear {
		if err := store.ClearScores(ctx, gameID); err != nil {
			return err
		}
		fmt.Printf("Scores for %s cleared.\n", title)
		return nil
	}

	scores, err := store.TopScores(ctx, gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'crunch play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-8s  %-10s  %-5s  %s\n", "Rank", "Player", "Score", "Level", "Moves", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-10s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "----")

	// Print scores
	for i, e := range scores {
		level := e.Level
		if e.Cleared {
			level += " *"
		}
		fmt.Printf("  %-4d  %-16s  %-8d  %-10s  %-5d  %s\n",
			i+1, e.Player, e.Score, level, e.Moves, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(ctx, gameID)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	fmt.Println()
	fmt.Printf("Best: %d  |  Runs: %d  |  Average: %.0f  |  Cleared: %d\n",
		stats.HighScore, stats.GamesCount, stats.AvgScore, stats.Clears)

	if lb, ok := store.(storage.LevelBester); ok {
		bests, err := lb.LevelBests(ctx, gameID)
		if err != nil {
			return fmt.Errorf("retrieving level bests: %w", err)
		}
		printLevelBests(bests)
	}
	return nil
}

func printLevelBests(bests map[string]int) {
	if len(bests) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Best per level:")
	for _, b := range storage.SortLevelBests(bests) {
		fmt.Printf("  %-10s  %d\n", b.Level, b.Score)
	}
}
