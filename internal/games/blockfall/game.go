// Package blockfall wires the rules engine into a playable game: it owns one
// board, conveyor, score keeper and event bus per session and drives the fall
// tick and game clock from the platform's fixed-rate Step.
package blockfall

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	bfcore "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Mode selects the ruleset.
type Mode string

const (
	ModeMarathon   Mode = "marathon"    // Play until the top level or a failed spawn
	ModeTimeAttack Mode = "time_attack" // Each level must be cleared within its time budget
)

// Game IDs as registered with the platform.
const (
	IDMarathon   = "blockfall"
	IDTimeAttack = "blockfall_timeattack"
)

// Game implements registry.Game for Blockfall.
type Game struct {
	mode   Mode
	cfg    *config.BlockfallConfig // nil means load on Reset
	preset string

	diff     bfcore.Difficulty
	rng      *rand.Rand
	bus      *bfcore.EventBus
	board    *bfcore.Board
	conveyor *bfcore.Conveyor
	score    *bfcore.ScoreKeeper

	tick         uint64
	tickRate     int
	fallTicks    int // Steps between fall ticks at the current level
	fallCounter  int
	clockCounter int
	stepLines    int // Lines cleared during the current Step

	screenW int
	screenH int

	gameOver bool
	won      bool
	timeUp   bool
	paused   bool
}

// New creates a marathon game that loads its configuration on Reset
// from the standard search path, using the default preset.
func New() *Game {
	return &Game{mode: ModeMarathon}
}

// NewTimeAttack creates a time attack game that loads its configuration on Reset.
func NewTimeAttack() *Game {
	return &Game{mode: ModeTimeAttack}
}

// NewWithConfig creates a game with a fixed configuration and preset,
// bypassing the file search.
func NewWithConfig(mode Mode, cfg config.BlockfallConfig, preset string) *Game {
	return &Game{mode: mode, cfg: &cfg, preset: preset}
}

// ModeForID returns the ruleset registered under a game ID.
func ModeForID(id string) (Mode, bool) {
	switch id {
	case IDMarathon:
		return ModeMarathon, true
	case IDTimeAttack:
		return ModeTimeAttack, true
	}
	return "", false
}

// Create builds the game registered under id with a fixed configuration.
// Unlike registry.Create it honors a custom config file and preset.
func Create(id string, cfg config.BlockfallConfig, preset string) (*Game, error) {
	mode, ok := ModeForID(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", registry.ErrUnknownGame, id)
	}
	if _, err := cfg.Difficulty(preset); err != nil {
		return nil, err
	}
	return NewWithConfig(mode, cfg, preset), nil
}

func init() {
	registry.Register(IDMarathon, func() registry.Game {
		return New()
	})
	registry.Register(IDTimeAttack, func() registry.Game {
		return NewTimeAttack()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeTimeAttack {
		return IDTimeAttack
	}
	return IDMarathon
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeTimeAttack {
		return "Blockfall (Time Attack)"
	}
	return "Blockfall"
}

// Description summarizes the ruleset for menus and the list command.
func (g *Game) Description() string {
	if g.mode == ModeTimeAttack {
		return "Clear lines before each level's clock runs out"
	}
	return "Clear lines and climb to the top level"
}

// settings resolves the configuration and difficulty for a new session.
// Broken configuration falls back to the built-in defaults.
func (g *Game) settings() (config.BlockfallConfig, bfcore.Difficulty) {
	var cfg config.BlockfallConfig
	preset := g.preset
	if g.cfg != nil {
		cfg = *g.cfg
	} else {
		loaded, err := config.LoadBlockfall("")
		if err != nil {
			loaded = config.DefaultBlockfallConfig()
		}
		cfg = loaded
	}

	diff, err := cfg.Difficulty(preset)
	if err != nil {
		diff = bfcore.DefaultDifficulty()
	}
	return cfg, diff
}

// Reset initializes/restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	cfg, diff := g.settings()

	g.diff = diff
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.tickRate = runtime.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.screenW = runtime.ScreenW
	g.screenH = runtime.ScreenH
	g.tick = 0
	g.fallCounter = 0
	g.clockCounter = 0
	g.gameOver = false
	g.won = false
	g.timeUp = false
	g.paused = false

	rows, cols, hidden := cfg.Board.Rows, cfg.Board.Cols, cfg.Board.HiddenRows
	if bfcore.CheckDimensions(rows, cols, hidden) != nil {
		rows, cols, hidden = bfcore.DefaultRows, bfcore.DefaultCols, bfcore.DefaultHiddenRows
	}

	conveyor, err := bfcore.NewConveyor(g.rng, diff.SpawnWeights, cfg.Board.QueueDepth)
	if err != nil {
		g.diff = bfcore.DefaultDifficulty()
		conveyor, _ = bfcore.NewConveyor(g.rng, g.diff.SpawnWeights, cfg.Board.QueueDepth)
	}
	g.conveyor = conveyor

	// The bus, board and score keeper live for the whole session;
	// a restart resets them in place.
	if g.bus == nil {
		g.bus = bfcore.NewEventBus()
		g.score = bfcore.NewScoreKeeper(g.diff, g.mode == ModeTimeAttack, g.bus)
		g.subscribe()
	}
	switch {
	case g.board == nil || !g.board.SameGeometry(rows, cols, hidden):
		g.board, _ = bfcore.NewBoard(rows, cols, hidden, g.bus)
	default:
		g.board.Reset()
	}
	g.board.SetGhostsEnabled(cfg.Board.Ghosts)

	g.score.SetDifficulty(g.diff)
	g.score.SetActiveSpecials(g.conveyor.ActiveTypes())
	g.score.Reset()
	g.updateFallTicks()

	g.spawnNext()
}

// subscribe hooks the session flags to engine events.
// Registered after the score keeper so scores are final when these run.
func (g *Game) subscribe() {
	bfcore.On(g.bus, func(bfcore.SpawnFailEvent) { g.gameOver = true })
	bfcore.On(g.bus, func(bfcore.GameWonEvent) { g.won = true })
	bfcore.On(g.bus, func(bfcore.TimeAttackFailEvent) {
		g.timeUp = true
		g.board.ClearActive()
	})
	bfcore.On(g.bus, func(e bfcore.LinesClearedEvent) { g.stepLines += e.Count })
	bfcore.On(g.bus, func(bfcore.LevelChangedEvent) { g.updateFallTicks() })
}

// updateFallTicks converts the current fall delay into whole steps.
func (g *Game) updateFallTicks() {
	g.fallTicks = ticksFor(g.score.FallDelay(), g.tickRate)
}

func ticksFor(delay time.Duration, tickRate int) int {
	ticks := int((delay*time.Duration(tickRate) + time.Second/2) / time.Second)
	return max(ticks, 1)
}

// finished reports whether the session reached a terminal state.
func (g *Game) finished() bool {
	return g.gameOver || g.won || g.timeUp
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++
	g.stepLines = 0

	// Handle restart
	if input.Has(core.ActionRestart) && g.finished() {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			TickRate: g.tickRate,
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.finished() {
		g.paused = !g.paused
	}
	if g.finished() || g.paused {
		return core.StepResult{State: g.State()}
	}

	g.processInput(input)

	if !g.finished() {
		g.fallCounter++
		if g.fallCounter >= g.fallTicks {
			g.fall()
		}
	}

	if !g.finished() {
		g.clockCounter++
		if g.clockCounter >= g.tickRate {
			g.clockCounter = 0
			g.score.Tick()
		}
	}

	return core.StepResult{State: g.State(), LinesCleared: g.stepLines}
}

// processInput applies player commands in a fixed order.
func (g *Game) processInput(input core.InputFrame) {
	if input.Has(core.ActionToggleGhost) {
		g.board.SetGhostsEnabled(!g.board.GhostsEnabled())
	}
	if input.Has(core.ActionHold) {
		g.Hold()
	}

	switch {
	case input.Has(core.ActionSlideLeft):
		g.board.SlideLeft()
	case input.Has(core.ActionSlideRight):
		g.board.SlideRight()
	case input.Has(core.ActionLeft):
		g.board.MoveLeft()
	case input.Has(core.ActionRight):
		g.board.MoveRight()
	}

	switch {
	case input.Has(core.ActionRotateCW):
		g.board.RotateCW()
	case input.Has(core.ActionRotateCCW):
		g.board.RotateCCW()
	}

	switch {
	case input.Has(core.ActionHardDrop):
		g.board.HardDrop()
		g.fall()
	case input.Has(core.ActionSoftDrop):
		if g.board.MoveDown() {
			g.fallCounter = 0
		}
	}
}

// fall runs one fall tick and spawns the next block after a placement.
func (g *Game) fall() {
	g.fallCounter = 0
	placed, _ := g.board.TryFall()
	if placed && !g.finished() {
		g.spawnNext()
	}
}

// spawnNext spawns the conveyor's head block. A failed spawn ends the game
// through the SpawnFail event.
func (g *Game) spawnNext() bool {
	return g.board.Spawn(g.conveyor.Next())
}

// Hold sets the active block aside. The first hold spawns from the conveyor;
// later holds bring back the previously held block. A block that has already
// been held once stays in play. Returns whether the hold happened.
func (g *Game) Hold() bool {
	if g.finished() {
		return false
	}
	released, ok := g.board.Hold()
	if !ok {
		return false
	}
	if released == nil {
		g.spawnNext()
	} else {
		g.board.Spawn(released)
	}
	return true
}

// SetBlockTypeEnabled toggles whether a block type can be drawn from the
// conveyor. Queued blocks are unaffected. Special scoring follows the
// enabled set.
func (g *Game) SetBlockTypeEnabled(t bfcore.BlockType, enabled bool) error {
	if err := g.conveyor.SetEnabled(t, enabled); err != nil {
		return err
	}
	g.score.SetActiveSpecials(g.conveyor.ActiveTypes())
	return nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score.Score(),
		Lines:    g.score.Lines(),
		Level:    g.score.Level(),
		Elapsed:  g.score.Elapsed(),
		GameOver: g.finished(),
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Mode returns the ruleset of the game.
func (g *Game) Mode() Mode { return g.mode }

// Difficulty returns the parameter set of the running session.
func (g *Game) Difficulty() bfcore.Difficulty { return g.diff }

// LeaderboardDifficulty names the leaderboard this session ranks on.
// Time attack sessions rank separately from marathon ones.
func (g *Game) LeaderboardDifficulty() string {
	if g.mode == ModeTimeAttack {
		return g.diff.Name + "_timeattack"
	}
	return g.diff.Name
}

// Board returns the session's board.
func (g *Game) Board() *bfcore.Board { return g.board }

// Conveyor returns the session's upcoming block queue.
func (g *Game) Conveyor() *bfcore.Conveyor { return g.conveyor }

// ScoreKeeper returns the session's score keeper.
func (g *Game) ScoreKeeper() *bfcore.ScoreKeeper { return g.score }

// Bus returns the session's event bus. It survives restarts.
func (g *Game) Bus() *bfcore.EventBus { return g.bus }
