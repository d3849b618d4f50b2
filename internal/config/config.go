// Package config provides YAML-based configuration loading for Blockfall:
// board geometry and one difficulty table per named preset.
package config

import "errors"

// ErrUnknownPreset is returned when a difficulty preset is not defined.
var ErrUnknownPreset = errors.New("config: unknown difficulty preset")

// DifficultyPreset names one of the bundled difficulty tables.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// BlockfallConfig contains all configuration for the game.
type BlockfallConfig struct {
	Board         BoardConfig                 `yaml:"board"`
	DefaultPreset string                      `yaml:"default_preset"`
	Presets       map[string]DifficultyParams `yaml:"presets"`
}

// BoardConfig defines the playing field geometry.
type BoardConfig struct {
	Rows       int  `yaml:"rows"`
	Cols       int  `yaml:"cols"`
	HiddenRows int  `yaml:"hidden_rows"`
	QueueDepth int  `yaml:"queue_depth"`
	Ghosts     bool `yaml:"ghosts"`
}

// DifficultyParams is the YAML form of one difficulty table.
// Block types are referenced by catalog name (e.g. "straight_line", "plus").
type DifficultyParams struct {
	LinesPerLevel            int            `yaml:"lines_per_level"`
	MaxLevel                 int            `yaml:"max_level"`
	InitialDelayMs           int            `yaml:"initial_delay_ms"`
	SpeedupMs                int            `yaml:"speedup_ms"`
	MinDelayMs               int            `yaml:"min_delay_ms"`
	LinePoints               [4]int         `yaml:"line_points"`
	LinesClearedBonus        int            `yaml:"lines_cleared_bonus"`
	SpecialBonus             map[string]int `yaml:"special_bonus"`
	TimeAttackSecondsPerLine int            `yaml:"time_attack_seconds_per_line"`
	TimeAttackBonus          int            `yaml:"time_attack_bonus"`
	WinBonus                 int            `yaml:"win_bonus"`
	SpawnWeights             map[string]int `yaml:"spawn_weights"`
}
