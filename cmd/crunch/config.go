package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-crunch/internal/config"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
)

var (
	flagEffective bool
	flagPaths     bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the game config",
	Long: `Prints the built-in default config, ready to copy to
~/.crunch/configs/crunch.yaml and edit. With --effective, prints the
config a game would use after the config search and --difficulty.

Examples:
  crunch config > ~/.crunch/configs/crunch.yaml
  crunch config --effective --difficulty easy
  crunch config --paths`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagEffective, "effective", false, "Print the resolved config instead of the defaults")
	configCmd.Flags().BoolVar(&flagPaths, "paths", false, "List the files searched for a config")
	configCmd.MarkFlagsMutuallyExclusive("effective", "paths")
}

func runConfig(_ *cobra.Command, _ []string) {
	var err error
	switch {
	case flagPaths:
		printConfigPaths(os.Stdout)
	case flagEffective:
		err = printEffectiveConfig(os.Stdout)
	default:
		_, err = os.Stdout.Write(config.GetDefaultYAML(crunch.IDCampaign))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printConfigPaths lists the search order, marking files that exist.
func printConfigPaths(w io.Writer) {
	for _, path := range config.SearchPaths() {
		mark := "missing"
		if _, err := os.Stat(path); err == nil {
			mark = "found"
		}
		fmt.Fprintf(w, "%-8s %s\n", mark, path)
	}
	fmt.Fprintf(w, "%-8s %s\n", "builtin", "embedded defaults")
}

func printEffectiveConfig(w io.Writer) error {
	cfg, err := config.LoadCrunch(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyCrunchPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
