package blockfall

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	bfcore "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

func testConfig(mutate func(*config.DifficultyParams)) config.BlockfallConfig {
	cfg := config.DefaultBlockfallConfig()
	if mutate != nil {
		p := cfg.Presets["normal"]
		mutate(&p)
		cfg.Presets["normal"] = p
	}
	return cfg
}

func newTestGame(t *testing.T, mode Mode, cfg config.BlockfallConfig, tickRate int) *Game {
	t.Helper()
	g := NewWithConfig(mode, cfg, "")
	g.Reset(core.RuntimeConfig{Seed: 12345, ScreenW: 80, ScreenH: 24, TickRate: tickRate})
	return g
}

func step(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDMarathon, IDTimeAttack} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	g2 := newTestGame(t, ModeMarathon, testConfig(nil), 60)

	for i := 0; i < 3000; i++ {
		var actions []core.Action
		switch {
		case i%97 == 0:
			actions = append(actions, core.ActionHardDrop)
		case i%13 == 0:
			actions = append(actions, core.ActionLeft)
		case i%17 == 0:
			actions = append(actions, core.ActionRight)
		case i%29 == 0:
			actions = append(actions, core.ActionRotateCW)
		case i%301 == 0:
			actions = append(actions, core.ActionHold)
		}
		step(g1, actions...)
		step(g2, actions...)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if s1.Tick != 3000 {
		t.Errorf("Tick = %d, expected 3000", s1.Tick)
	}
}

func TestTicksFor(t *testing.T) {
	tests := []struct {
		delay    time.Duration
		rate     int
		expected int
	}{
		{800 * time.Millisecond, 60, 48},
		{80 * time.Millisecond, 60, 5},
		{time.Millisecond, 60, 1},
		{1010 * time.Millisecond, 10, 10},
	}
	for _, tc := range tests {
		if got := ticksFor(tc.delay, tc.rate); got != tc.expected {
			t.Errorf("ticksFor(%v, %d) = %d, expected %d", tc.delay, tc.rate, got, tc.expected)
		}
	}
}

func TestBlockFallsOnFallTick(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	if g.fallTicks != 48 {
		t.Fatalf("fallTicks = %d, expected 48", g.fallTicks)
	}

	start := g.Board().Active().Anchor.Row
	for range 47 {
		step(g)
	}
	if row := g.Board().Active().Anchor.Row; row != start {
		t.Fatalf("block moved early: row %d, expected %d", row, start)
	}
	step(g)
	if row := g.Board().Active().Anchor.Row; row != start+1 {
		t.Errorf("after fall tick row = %d, expected %d", row, start+1)
	}
}

func TestHardDropLocksAndSpawns(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	first := g.Board().Active()
	next := g.Conveyor().Peek()

	step(g, core.ActionHardDrop)

	if g.Board().FilledCount() != first.Type.Size() {
		t.Errorf("filled = %d, expected %d", g.Board().FilledCount(), first.Type.Size())
	}
	if g.Board().Active() != next {
		t.Error("the conveyor head should spawn after a hard drop")
	}
	if g.Conveyor().Depth() != len(g.Conveyor().Upcoming()) {
		t.Error("queue depth should stay constant")
	}
}

func TestLineClearScoring(t *testing.T) {
	cfg := testConfig(func(p *config.DifficultyParams) {
		p.SpawnWeights = map[string]int{"straight_line": 1}
		p.LinesClearedBonus = 7
	})
	g := newTestGame(t, ModeMarathon, cfg, 60)

	b := g.Board()
	bottom := b.Rows() - 1
	for c := 0; c < b.Cols(); c++ {
		if c < 3 || c > 6 {
			b.SetCell(bottom, c, bfcore.ColorRed)
		}
	}

	result := step(g, core.ActionHardDrop)
	if result.LinesCleared != 1 {
		t.Fatalf("LinesCleared = %d, expected 1", result.LinesCleared)
	}
	if result.State.Score != 40+7 {
		t.Errorf("Score = %d, expected 47", result.State.Score)
	}
	if b.FilledCount() != 0 {
		t.Errorf("filled = %d, expected an empty field", b.FilledCount())
	}
}

func TestHoldSwapsOnce(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	first := g.Board().Active()
	second := g.Conveyor().Peek()

	step(g, core.ActionHold)
	if g.Board().HeldBlock() != first || g.Board().Active() != second {
		t.Fatal("first hold should store the active block and spawn the next one")
	}

	step(g, core.ActionHold)
	if g.Board().Active() != first || g.Board().HeldBlock() != second {
		t.Fatal("second hold should swap the blocks")
	}
	if first.Orientation != 0 {
		t.Error("released block should respawn at orientation 0")
	}

	if g.Hold() {
		t.Error("a released block must not be held again")
	}
	if g.Board().Active() != first {
		t.Error("failed hold should keep the active block")
	}
}

func TestPauseFreezesGame(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 10)
	row := g.Board().Active().Anchor.Row

	step(g, core.ActionPause)
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	for range 100 {
		step(g, core.ActionLeft, core.ActionHardDrop)
	}
	if g.State().Elapsed != 0 || g.Board().Active().Anchor.Row != row || g.Board().FilledCount() != 0 {
		t.Error("paused game should not change")
	}
	if g.Snapshot().State != StatePaused {
		t.Errorf("state = %q, expected paused", g.Snapshot().State)
	}

	step(g, core.ActionPause)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestClockAdvancesEverySecond(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 10)
	for range 10 {
		step(g)
	}
	if g.State().Elapsed != 1 {
		t.Errorf("elapsed = %d, expected 1", g.State().Elapsed)
	}
}

func TestTimeAttackExpires(t *testing.T) {
	cfg := testConfig(func(p *config.DifficultyParams) {
		p.LinesPerLevel = 1
		p.TimeAttackSecondsPerLine = 1
	})
	g := newTestGame(t, ModeTimeAttack, cfg, 10)
	if g.ID() != IDTimeAttack {
		t.Fatalf("ID() = %q", g.ID())
	}

	step(g, core.ActionHardDrop)
	filled := g.Board().FilledCount()
	grid := g.Board().Grid()
	if filled == 0 {
		t.Fatal("hard drop should have settled a block")
	}

	for range 29 {
		step(g)
	}
	if g.Board().Active() != nil || g.Snapshot().Active != nil {
		t.Error("running out of time should clear the active block")
	}
	if !reflect.DeepEqual(g.Board().Grid(), grid) {
		t.Error("running out of time should leave the settled cells intact")
	}
	state := g.State()
	if !state.GameOver || state.Won {
		t.Errorf("time attack should end without a win: %+v", state)
	}
	if g.Snapshot().State != StateTimeUp {
		t.Errorf("state = %q, expected time_up", g.Snapshot().State)
	}
	if state.Elapsed != 2 {
		t.Errorf("elapsed = %d, expected clock halted at 2", state.Elapsed)
	}
}

func TestGameOverWhenStacked(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)

	for i := 0; i < 500 && !g.State().GameOver; i++ {
		step(g, core.ActionHardDrop)
	}
	if !g.State().GameOver {
		t.Fatal("stacking in the center should end the game")
	}
	snap := g.Snapshot()
	if snap.State != StateGameOver || snap.Active != nil {
		t.Errorf("state = %q, active = %v", snap.State, snap.Active)
	}

	filled := g.Board().FilledCount()
	step(g, core.ActionHardDrop, core.ActionLeft)
	if g.Board().FilledCount() != filled {
		t.Error("finished game should ignore input")
	}

	step(g, core.ActionRestart)
	state := g.State()
	if state.GameOver || state.Score != 0 || g.Board().FilledCount() != 0 || g.Board().Active() == nil {
		t.Errorf("restart should begin a fresh game: %+v", state)
	}
}

func TestRestartReusesSession(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	board, bus := g.Board(), g.Bus()

	var scores, levels []int
	bfcore.On(bus, func(e bfcore.ScoreChangedEvent) { scores = append(scores, e.Score) })
	bfcore.On(bus, func(e bfcore.LevelChangedEvent) { levels = append(levels, e.Level) })

	for i := 0; i < 500 && !g.State().GameOver; i++ {
		step(g, core.ActionHardDrop)
	}
	if !g.State().GameOver {
		t.Fatal("stacking in the center should end the game")
	}
	scores, levels = nil, nil

	step(g, core.ActionRestart)
	if g.Board() != board || g.Bus() != bus {
		t.Error("restart should reset the board and bus in place")
	}
	if g.Board().FilledCount() != 0 || g.Board().HeldBlock() != nil || g.Board().Active() == nil {
		t.Error("restart should clear the board and spawn a block")
	}
	if !reflect.DeepEqual(scores, []int{0}) || !reflect.DeepEqual(levels, []int{1}) {
		t.Errorf("restart published scores %v, levels %v; expected [0] and [1]", scores, levels)
	}
}

func TestRestartWithNewGeometryReplacesBoard(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	board := g.Board()

	g.cfg.Board.Cols = 12
	g.Reset(core.RuntimeConfig{Seed: 1, TickRate: 60})
	if g.Board() == board || g.Board().Cols() != 12 {
		t.Errorf("board with %d cols should have been rebuilt", g.Board().Cols())
	}
	if g.Board().Bus() != g.Bus() {
		t.Error("rebuilt board should publish on the session bus")
	}
}

func TestToggleGhost(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	if !g.Board().GhostsEnabled() {
		t.Fatal("ghosts should start enabled")
	}
	step(g, core.ActionToggleGhost)
	if g.Board().GhostsEnabled() {
		t.Error("toggle should disable ghosts")
	}
}

func TestSetBlockTypeEnabled(t *testing.T) {
	cfg := testConfig(func(p *config.DifficultyParams) {
		p.SpawnWeights = map[string]int{"box": 1, "plus": 1}
	})
	g := newTestGame(t, ModeMarathon, cfg, 60)

	if err := g.SetBlockTypeEnabled(bfcore.Box, false); err != nil {
		t.Fatalf("disable box: %v", err)
	}
	if err := g.SetBlockTypeEnabled(bfcore.Plus, false); err == nil {
		t.Error("disabling the last type should fail")
	}
	types := g.Conveyor().ActiveTypes()
	if len(types) != 1 || types[0] != bfcore.Plus {
		t.Errorf("ActiveTypes() = %v, expected [plus]", types)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if hud := screen.Row(0); !strings.Contains(hud, "Score: 0") || !strings.Contains(hud, "Level: 1/15") {
		t.Errorf("HUD = %q", hud)
	}

	text := screen.String()
	for _, want := range []string{"NEXT", "HOLD", string(BlockChar), string(GhostChar)} {
		if !strings.Contains(text, want) {
			t.Errorf("screen should contain %q", want)
		}
	}

	activeColor := ScreenColor(g.Board().Active().Color())
	found := false
	for y := range screen.Height() {
		for x := range screen.Width() {
			if c := screen.GetCell(x, y); c.Rune == BlockChar && c.Color == activeColor {
				found = true
			}
		}
	}
	if !found {
		t.Error("active block should be drawn in its color")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(t, ModeMarathon, testConfig(nil), 60)
	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("small screen should show a resize hint")
	}
}

func TestCreate(t *testing.T) {
	cfg := config.DefaultBlockfallConfig()

	g, err := Create(IDTimeAttack, cfg, "normal")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.Mode() != ModeTimeAttack {
		t.Errorf("Mode() = %q, expected time attack", g.Mode())
	}
	g.Reset(core.RuntimeConfig{Seed: 1, TickRate: 60, ScreenW: 80, ScreenH: 24})
	if got := g.LeaderboardDifficulty(); got != "normal_timeattack" {
		t.Errorf("LeaderboardDifficulty() = %q", got)
	}

	if _, err := Create("pong", cfg, ""); !errors.Is(err, registry.ErrUnknownGame) {
		t.Errorf("Create(pong) error = %v, expected ErrUnknownGame", err)
	}
	if _, err := Create(IDMarathon, cfg, "nightmare"); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("Create(nightmare) error = %v, expected ErrUnknownPreset", err)
	}
}
