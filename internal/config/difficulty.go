package config

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	bfcore "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// PresetNames returns the defined preset names from easiest to hardest:
// slower initial fall first, ties by name.
func (c BlockfallConfig) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := cmp.Compare(c.Presets[b].InitialDelayMs, c.Presets[a].InitialDelayMs); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	return names
}

// Difficulty resolves a preset into engine parameters.
// An empty name selects DefaultPreset.
func (c BlockfallConfig) Difficulty(preset string) (bfcore.Difficulty, error) {
	if preset == "" {
		preset = c.DefaultPreset
	}
	params, ok := c.Presets[preset]
	if !ok {
		return bfcore.Difficulty{}, fmt.Errorf("%w %q", ErrUnknownPreset, preset)
	}
	return params.ToDifficulty(preset)
}

// ToDifficulty converts the YAML table into engine parameters.
func (p DifficultyParams) ToDifficulty(name string) (bfcore.Difficulty, error) {
	special, err := parseTypeMap(p.SpecialBonus)
	if err != nil {
		return bfcore.Difficulty{}, fmt.Errorf("config: preset %q special_bonus: %w", name, err)
	}
	weights, err := parseTypeMap(p.SpawnWeights)
	if err != nil {
		return bfcore.Difficulty{}, fmt.Errorf("config: preset %q spawn_weights: %w", name, err)
	}
	return bfcore.Difficulty{
		Name:                     name,
		LinesPerLevel:            p.LinesPerLevel,
		MaxLevel:                 p.MaxLevel,
		InitialDelay:             time.Duration(p.InitialDelayMs) * time.Millisecond,
		Speedup:                  time.Duration(p.SpeedupMs) * time.Millisecond,
		MinDelay:                 time.Duration(p.MinDelayMs) * time.Millisecond,
		LinePoints:               p.LinePoints,
		LinesClearedBonus:        p.LinesClearedBonus,
		SpecialBonus:             special,
		WinBonus:                 p.WinBonus,
		TimeAttackSecondsPerLine: p.TimeAttackSecondsPerLine,
		TimeAttackBonus:          p.TimeAttackBonus,
		SpawnWeights:             weights,
	}, nil
}

func parseTypeMap(in map[string]int) (map[bfcore.BlockType]int, error) {
	out := make(map[bfcore.BlockType]int, len(in))
	for name, v := range in {
		t, ok := bfcore.ParseBlockType(name)
		if !ok {
			return nil, fmt.Errorf("unknown block type %q", name)
		}
		out[t] = v
	}
	return out, nil
}

// Validate checks the board geometry and every preset.
func (c BlockfallConfig) Validate() error {
	b := c.Board
	if err := bfcore.CheckDimensions(b.Rows, b.Cols, b.HiddenRows); err != nil {
		return fmt.Errorf("config: board: %w", err)
	}
	if b.QueueDepth < 1 {
		return fmt.Errorf("config: queue_depth must be positive, got %d", b.QueueDepth)
	}
	if len(c.Presets) == 0 {
		return errors.New("config: no difficulty presets defined")
	}
	if _, ok := c.Presets[c.DefaultPreset]; !ok {
		return fmt.Errorf("config: default_preset: %w %q", ErrUnknownPreset, c.DefaultPreset)
	}
	for _, name := range c.PresetNames() {
		if err := c.Presets[name].validate(); err != nil {
			return fmt.Errorf("config: preset %q: %w", name, err)
		}
	}
	return nil
}

func (p DifficultyParams) validate() error {
	switch {
	case p.LinesPerLevel <= 0:
		return fmt.Errorf("lines_per_level must be positive, got %d", p.LinesPerLevel)
	case p.MaxLevel < 2:
		return fmt.Errorf("max_level must be at least 2, got %d", p.MaxLevel)
	case p.InitialDelayMs <= 0:
		return fmt.Errorf("initial_delay_ms must be positive, got %d", p.InitialDelayMs)
	case p.SpeedupMs < 0 || p.MinDelayMs < 0:
		return errors.New("speedup_ms and min_delay_ms must not be negative")
	case p.TimeAttackSecondsPerLine <= 0:
		return fmt.Errorf("time_attack_seconds_per_line must be positive, got %d", p.TimeAttackSecondsPerLine)
	}
	if _, err := parseTypeMap(p.SpecialBonus); err != nil {
		return fmt.Errorf("special_bonus: %w", err)
	}
	weights, err := parseTypeMap(p.SpawnWeights)
	if err != nil {
		return fmt.Errorf("spawn_weights: %w", err)
	}
	for _, w := range weights {
		if w > 0 {
			return nil
		}
	}
	return fmt.Errorf("spawn_weights: %w", bfcore.ErrNoSpawnableTypes)
}
