package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the built-in configuration used when the
// embedded YAML cannot be parsed. It carries only the normal preset.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Board: BoardConfig{
			Rows:       23,
			Cols:       10,
			HiddenRows: 3,
			QueueDepth: 2,
			Ghosts:     true,
		},
		DefaultPreset: string(DifficultyNormal),
		Presets: map[string]DifficultyParams{
			string(DifficultyNormal): {
				LinesPerLevel:     10,
				MaxLevel:          15,
				InitialDelayMs:    800,
				SpeedupMs:         50,
				MinDelayMs:        80,
				LinePoints:        [4]int{40, 50, 100, 300},
				LinesClearedBonus: 0,
				SpecialBonus: map[string]int{
					"plus":   25,
					"u":      25,
					"corner": 10,
				},
				TimeAttackSecondsPerLine: 6,
				TimeAttackBonus:          250,
				WinBonus:                 5000,
				SpawnWeights: map[string]int{
					"straight_line": 10,
					"box":           10,
					"t":             10,
					"s":             10,
					"z":             10,
					"l":             10,
					"j":             10,
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBlockfallYAML
}
