// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall                   - Start the menu to pick a mode and difficulty
//	blockfall list              - List game modes and difficulty presets
//	blockfall play [mode]       - Play a mode directly
//	blockfall scores [preset]   - Show the leaderboard
//	blockfall serve             - Start the SSH server and HTTP leaderboard API
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.blockfall/scores.db)
//	--config <path>       - Load difficulty tables from a custom YAML file
//	--difficulty <name>   - Select a difficulty preset
//	--verbose             - Enable debug logging
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	_ "github.com/vovakirdan/blockfall/internal/games/blockfall"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "blockfall",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle for your terminal",
	Long: `Blockfall drops blocks onto a 10-column field. Fill rows to clear them,
level up every few lines and reach the top level to win.

Available commands:
  list     - Show game modes and difficulty presets
  play     - Play a mode directly
  scores   - View the leaderboard
  serve    - Start the SSH server and HTTP leaderboard API

Running blockfall without a command opens the menu.

Examples:
  blockfall
  blockfall play --difficulty hard
  blockfall play blockfall_timeattack
  blockfall scores normal
  blockfall serve --ssh :2222 --http :8080`,
	PersistentPreRunE: setup,
	Run:               runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom difficulty config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset (see 'blockfall list')")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup applies the global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return nil
}

// loadConfig loads the difficulty tables and checks the selected preset.
func loadConfig() (config.BlockfallConfig, error) {
	cfg, err := config.LoadBlockfall(flagConfig)
	if err != nil {
		return config.BlockfallConfig{}, err
	}
	if _, err := cfg.Difficulty(flagDifficulty); err != nil {
		return config.BlockfallConfig{}, err
	}
	logger.Debug("config loaded", "presets", cfg.PresetNames(), "default", cfg.DefaultPreset)
	return cfg, nil
}
