package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes and difficulty presets",
	Long:  `Shows the registered game modes and the difficulty presets of the active config.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	fmt.Println("Game modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
		if g.Description != "" {
			fmt.Printf("  %-*s  %s\n", maxIDLen, "", g.Description)
		}
	}

	fmt.Println()
	cfg, err := loadConfig()
	if err != nil {
		logger.Warn("could not load config", "err", err)
		return
	}

	presets := cfg.PresetNames()
	for i, p := range presets {
		if p == cfg.DefaultPreset {
			presets[i] = p + " (default)"
		}
	}
	fmt.Printf("Difficulty presets: %s\n", strings.Join(presets, ", "))
	fmt.Println()
	fmt.Println("Run 'blockfall play <id> --difficulty <preset>' to play.")
}
