// crunch is a match-3 puzzle game for the terminal.
//
// Usage:
//
//	crunch                   - Start the menu
//	crunch play [level]      - Play the campaign, optionally from a level
//	crunch levels            - List the campaign levels
//	crunch check <path>...   - Validate level files
//	crunch scores [game]     - Show high scores
//	crunch serve             - Start SSH server for remote play
//	crunch config            - Print the default game config
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 30)
//	--seed <value>    - Set RNG seed for reproducible boards
//	--db <path>       - Set database path (default: ~/.crunch/scores.db)
//	--redis <url>     - Keep scores in Redis instead of SQLite
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crunch/internal/config"
	"github.com/vovakirdan/tui-crunch/internal/core"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
	"github.com/vovakirdan/tui-crunch/internal/platform/tui"
	"github.com/vovakirdan/tui-crunch/internal/storage"
	"github.com/vovakirdan/tui-crunch/internal/storage/memory"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagRedisURL   string
	flagConfig     string
	flagDifficulty string
	flagLevelDir   string
	flagTheme      string
	flagLogLevel   string
	flagPlayer     string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crunch",
	Short: "Crunch - match three pastries in your terminal",
	Long: `Crunch is a match-3 puzzle game for the terminal.

Swap neighbouring pastries to line up three or more of a kind. Chains
clear, new pastries fall in, and every cascade scores more than the last.
Reach each level's target before you run out of moves.

Available commands:
  play     - Play the campaign or endless mode directly
  levels   - List the levels
  check    - Validate level files
  scores   - View high scores
  serve    - Start SSH server for remote play
  config   - Print the default game config

Examples:
  crunch
  crunch play 3
  crunch play --endless --difficulty easy
  crunch check ./my-levels
  crunch serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run:               runMenu,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", storage.DefaultDBPath, "Path to scores database")
	pf.StringVar(&flagRedisURL, "redis", "", "Redis URL for a shared leaderboard (e.g. redis://localhost:6379/0)")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagLevelDir, "levels", "", "Load levels from this directory instead of the built-in campaign")
	pf.StringVar(&flagTheme, "theme", "default", "Color theme: "+joinNames(tui.ThemeNames()))
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flagPlayer, "player", "", "Name recorded with your scores (default: $USER)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup applies the global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "crunch",
		Level:           level,
	})

	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return err
	}
	theme, err := tui.ThemeByName(flagTheme)
	if err != nil {
		return err
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	tui.SetTheme(theme)
	crunch.SetLogger(logger)
	crunch.SetConfigPath(flagConfig)
	crunch.SetDifficultyPreset(preset)
	crunch.SetLevelDir(flagLevelDir)
	return nil
}

// runtimeConfig builds the runtime options from the global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// uiOptions opens the score store and bundles what every screen needs.
// A store that cannot be opened is logged and scores are kept in memory
// until the program exits.
func uiOptions() tui.Options {
	store, err := openStore()
	if err != nil {
		logger.Warn("scores are kept for this run only", "err", err)
		store = memory.New()
	}
	return tui.Options{
		Store:  store,
		Player: playerName(),
		Logger: logger,
	}
}

func closeStore(opts tui.Options) {
	if opts.Store == nil {
		return
	}
	if err := opts.Store.Close(); err != nil {
		logger.Warn("closing score store", "err", err)
	}
}

// fail closes the store, which os.Exit would skip, and exits.
func fail(opts tui.Options, err error) {
	closeStore(opts)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return storage.AnonymousPlayer
}

func runMenu(_ *cobra.Command, _ []string) {
	opts := uiOptions()
	defer closeStore(opts)

	cfg := runtimeConfig()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := tui.RunSession(opts, cfg); err != nil {
		fail(opts, err)
	}
}
