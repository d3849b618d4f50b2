package core

import "time"

// Difficulty is the read-only parameter set for one difficulty preset.
type Difficulty struct {
	Name          string
	LinesPerLevel int
	MaxLevel      int // Reaching this level wins the game
	InitialDelay  time.Duration
	Speedup       time.Duration // Fall delay reduction per level
	MinDelay      time.Duration // Floor for the fall delay

	LinePoints        [4]int // Per-line points for 1, 2, 3 and 4 line clears
	LinesClearedBonus int    // Extra points per cleared line
	SpecialBonus      map[BlockType]int
	WinBonus          int

	TimeAttackSecondsPerLine int
	TimeAttackBonus          int // Points per level gained in time attack

	SpawnWeights map[BlockType]int
}

// DefaultDifficulty returns the "normal" parameter set used when no
// configuration is supplied.
func DefaultDifficulty() Difficulty {
	return Difficulty{
		Name:              "normal",
		LinesPerLevel:     10,
		MaxLevel:          15,
		InitialDelay:      800 * time.Millisecond,
		Speedup:           50 * time.Millisecond,
		MinDelay:          80 * time.Millisecond,
		LinePoints:        [4]int{40, 50, 100, 300},
		LinesClearedBonus: 0,
		SpecialBonus: map[BlockType]int{
			Plus:   25,
			UShape: 25,
			Corner: 10,
		},
		WinBonus:                 5000,
		TimeAttackSecondsPerLine: 6,
		TimeAttackBonus:          250,
		SpawnWeights: map[BlockType]int{
			StraightLine: 10,
			Box:          10,
			TShape:       10,
			SShape:       10,
			ZShape:       10,
			LShape:       10,
			JShape:       10,
		},
	}
}

// ActiveSpecialTypes returns the special types with a positive spawn weight.
func (d Difficulty) ActiveSpecialTypes() []BlockType {
	var types []BlockType
	for _, t := range AllBlockTypes() {
		if t.Special() && d.SpawnWeights[t] > 0 {
			types = append(types, t)
		}
	}
	return types
}
