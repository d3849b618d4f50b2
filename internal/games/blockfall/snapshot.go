package blockfall

import (
	bfcore "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StatePaused   GameStateType = "paused"
	StateGameOver GameStateType = "game_over"
	StateWin      GameStateType = "won"
	StateTimeUp   GameStateType = "time_up"
)

// BlockSnapshot describes one block.
type BlockSnapshot struct {
	Type        string
	Row         int
	Col         int
	Orientation int
	Held        bool
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Difficulty string
	Score      int
	Lines      int
	Level      int
	Elapsed    int
	FallTicks  int
	Active     *BlockSnapshot // nil when no block is in play
	Held       *BlockSnapshot
	Queue      []string // Upcoming block types, head first
	Grid       [][]bfcore.Color
	State      GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.won:
		state = StateWin
	case g.timeUp:
		state = StateTimeUp
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	queue := make([]string, 0, g.conveyor.Depth())
	for _, b := range g.conveyor.Upcoming() {
		queue = append(queue, b.Type.String())
	}

	return Snapshot{
		Tick:       g.tick,
		Mode:       string(g.mode),
		Difficulty: g.diff.Name,
		Score:      g.score.Score(),
		Lines:      g.score.Lines(),
		Level:      g.score.Level(),
		Elapsed:    g.score.Elapsed(),
		FallTicks:  g.fallTicks,
		Active:     snapshotBlock(g.board.Active()),
		Held:       snapshotBlock(g.board.HeldBlock()),
		Queue:      queue,
		Grid:       g.board.Grid(),
		State:      state,
	}
}

func snapshotBlock(b *bfcore.Block) *BlockSnapshot {
	if b == nil {
		return nil
	}
	return &BlockSnapshot{
		Type:        b.Type.String(),
		Row:         b.Anchor.Row,
		Col:         b.Anchor.Col,
		Orientation: b.Orientation,
		Held:        b.Held(),
	}
}
