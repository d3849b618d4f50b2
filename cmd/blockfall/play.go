package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode (default: blockfall).

Controls:
  Left/Right, A/D        - Move
  Shift+Left/Right       - Slide to the wall (also Shift+A/D)
  Down/S                 - Soft drop
  Space                  - Hard drop
  Up/X, Z                - Rotate clockwise, counter-clockwise
  C                      - Hold
  G                      - Toggle ghost
  P                      - Pause
  R                      - Restart (after game over)
  ?                      - Full help
  Q/Ctrl+C               - Quit

Examples:
  blockfall play
  blockfall play blockfall_timeattack
  blockfall play --difficulty hard
  blockfall play --config ./my-blockfall.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := blockfall.IDMarathon
	if len(args) == 1 {
		gameID = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	game, err := blockfall.Create(gameID, cfg, flagDifficulty)
	if err != nil {
		logger.Error("cannot create game", "err", err)
		logger.Info("run 'blockfall list' to see available modes")
		os.Exit(1)
	}

	store := openStore()
	defer closeStore(store)

	if err := tui.Run(game, store, runtimeConfig(), playerName()); err != nil {
		logger.Error("game stopped", "err", err)
		closeStore(store)
		os.Exit(1)
	}
}

// runMenu starts the interactive menu, game and scoreboard loop.
func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	store := openStore()
	defer closeStore(store)

	if err := tui.RunSession(store, cfg, flagDifficulty, runtimeConfig(), playerName()); err != nil {
		logger.Error("session stopped", "err", err)
		closeStore(store)
		os.Exit(1)
	}
}

// runtimeConfig builds the platform settings from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the leaderboard. The game still works without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		return nil
	}
	return store
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close()
	}
}

// playerName pre-fills the leaderboard name prompt.
func playerName() string {
	name := os.Getenv("USER")
	if len([]rune(name)) > storage.MaxNameLength {
		name = string([]rune(name)[:storage.MaxNameLength])
	}
	return name
}
