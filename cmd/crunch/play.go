package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/levels"
	"github.com/vovakirdan/tui-crunch/internal/platform/tui"
	"github.com/vovakirdan/tui-crunch/internal/registry"
)

var flagEndless bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign or endless mode",
	Long: `Start playing right away.

With a level number the campaign starts on that level. Without one a
level picker opens first. --endless plays rounds with growing targets.

Controls:
  Arrows/WASD  - Move the cursor
  Space/Enter  - Select a pastry, then move to swap it
  H/?          - Show a hint
  X            - Shuffle the board
  P            - Pause
  R            - Restart (after game over)
  Esc/B        - Back (when paused or over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Five pastry types and five extra moves per level
  normal - As designed
  hard   - Three moves fewer per level

Examples:
  crunch play
  crunch play 4
  crunch play --endless
  crunch play 2 --difficulty hard
  crunch play --levels ./my-levels 1`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play endless mode")
}

func runPlay(_ *cobra.Command, args []string) {
	opts := uiOptions()
	cfg := runtimeConfig()

	var err error
	switch {
	case flagEndless:
		var game registry.Game
		game, err = registry.Create(crunch.IDEndless)
		if err == nil {
			err = tui.Run(game, opts, cfg)
		}

	case len(args) == 1:
		var id int
		id, err = parseLevelID(args[0])
		if err == nil {
			game := crunch.New()
			game.StartAt(id)
			err = tui.Run(game, opts, cfg)
		}

	default:
		err = tui.RunLevelSelect(opts, cfg)
	}

	if err != nil {
		fail(opts, err)
	}
	closeStore(opts)
}

// parseLevelID checks that a level with the given number exists.
func parseLevelID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid level %q: want a positive number", arg)
	}

	lvls, err := crunch.LoadLevels()
	if err != nil {
		return 0, err
	}
	for _, lvl := range lvls {
		if lvl.ID == id {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %d (run 'crunch levels' to list them)", levels.ErrLevelNotFound, id)
}
