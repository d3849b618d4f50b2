package core_test

import (
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

func testDifficulty() core.Difficulty {
	d := core.DefaultDifficulty()
	d.LinePoints = [4]int{40, 100, 300, 1200}
	d.LinesClearedBonus = 5
	d.SpecialBonus = map[core.BlockType]int{core.Plus: 25, core.Corner: 10}
	return d
}

func TestSingleLineScore(t *testing.T) {
	s := core.NewScoreKeeper(testDifficulty(), false, nil)
	s.RegisterLinesCleared(1)

	if s.Score() != 45 {
		t.Errorf("score = %d, want 45", s.Score())
	}
	if s.Lines() != 1 || s.Level() != 1 {
		t.Errorf("lines = %d, level = %d, want 1, 1", s.Lines(), s.Level())
	}
}

func TestLineScoreTable(t *testing.T) {
	tests := []struct {
		lines    int
		specials []core.BlockType
		want     int
	}{
		{1, nil, 1*40 + 1*5},
		{2, nil, 2*100 + 2*5},
		{3, nil, 3*300 + 3*5},
		{4, nil, 4*1200 + 4*5},
		{4, []core.BlockType{core.Plus}, 4*1200 + 4*5 + 4*25},
		{2, []core.BlockType{core.Plus, core.Corner, core.Box}, 2*100 + 2*5 + 2*25 + 2*10},
	}
	for _, tc := range tests {
		s := core.NewScoreKeeper(testDifficulty(), false, nil)
		s.SetActiveSpecials(tc.specials)
		s.RegisterLinesCleared(tc.lines)
		if s.Score() != tc.want {
			t.Errorf("%d lines with %v: score = %d, want %d", tc.lines, tc.specials, s.Score(), tc.want)
		}
	}
}

func TestRegisterLinesClearedPanicsOutOfRange(t *testing.T) {
	for _, n := range []int{0, 5, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("RegisterLinesCleared(%d) should panic", n)
				}
			}()
			core.NewScoreKeeper(testDifficulty(), false, nil).RegisterLinesCleared(n)
		}()
	}
}

func TestLevelUpAndWin(t *testing.T) {
	d := testDifficulty()
	d.LinesPerLevel = 2
	d.MaxLevel = 3
	d.WinBonus = 1000

	bus := core.NewEventBus()
	var levels []int
	wins := 0
	core.On(bus, func(e core.LevelChangedEvent) { levels = append(levels, e.Level) })
	core.On(bus, func(core.GameWonEvent) { wins++ })

	s := core.NewScoreKeeper(d, false, bus)

	s.RegisterLinesCleared(2)
	if s.Level() != 2 || s.Won() {
		t.Fatalf("after 2 lines: level = %d, won = %v", s.Level(), s.Won())
	}

	s.RegisterLinesCleared(2)
	if s.Level() != 3 || !s.Won() {
		t.Fatalf("after 4 lines: level = %d, won = %v", s.Level(), s.Won())
	}
	if want := 2*100 + 2*5 + 2*100 + 2*5 + 1000; s.Score() != want {
		t.Errorf("score = %d, want %d", s.Score(), want)
	}

	scoreBefore := s.Score()
	s.RegisterLinesCleared(4)
	if s.Level() != 3 {
		t.Errorf("level changed after win: %d", s.Level())
	}
	if s.Score() <= scoreBefore {
		t.Error("lines after a win should still score")
	}
	if wins != 1 {
		t.Errorf("GameWon published %d times, want 1", wins)
	}
	if len(levels) != 1 || levels[0] != 2 {
		t.Errorf("LevelChanged = %v, want [2]", levels)
	}
}

func TestMultipleLevelsInOneClear(t *testing.T) {
	d := testDifficulty()
	d.LinesPerLevel = 1
	d.MaxLevel = 10
	d.TimeAttackBonus = 100

	s := core.NewScoreKeeper(d, true, nil)
	s.RegisterLinesCleared(4)

	if s.Level() != 5 {
		t.Errorf("level = %d, want 5", s.Level())
	}
	if want := 4*1200 + 4*5 + 4*100; s.Score() != want {
		t.Errorf("score = %d, want %d", s.Score(), want)
	}
}

func TestFallDelay(t *testing.T) {
	tests := []struct {
		name    string
		level   int // Reached by clearing (level-1)*LinesPerLevel lines one at a time
		speedup time.Duration
		want    time.Duration
	}{
		{"level 1", 1, 50 * time.Millisecond, 800 * time.Millisecond},
		{"level 5", 5, 50 * time.Millisecond, 600 * time.Millisecond},
		{"floored", 3, 500 * time.Millisecond, 80 * time.Millisecond},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := testDifficulty()
			d.LinesPerLevel = 1
			d.Speedup = tc.speedup
			s := core.NewScoreKeeper(d, false, nil)
			for s.Level() < tc.level {
				s.RegisterLinesCleared(1)
			}
			if s.FallDelay() != tc.want {
				t.Errorf("FallDelay() = %v, want %v", s.FallDelay(), tc.want)
			}
		})
	}
}

func TestFallDelayNeverZero(t *testing.T) {
	d := testDifficulty()
	d.MinDelay = 0
	d.InitialDelay = 0
	s := core.NewScoreKeeper(d, false, nil)
	if s.FallDelay() <= 0 {
		t.Errorf("FallDelay() = %v, want positive", s.FallDelay())
	}
}

func TestScoreKeeperListensToBus(t *testing.T) {
	bus := core.NewEventBus()
	var scores []int
	core.On(bus, func(e core.ScoreChangedEvent) { scores = append(scores, e.Score) })

	s := core.NewScoreKeeper(testDifficulty(), false, bus)
	bus.Publish(core.LinesClearedEvent{Count: 2})

	if s.Lines() != 2 {
		t.Errorf("lines = %d, want 2", s.Lines())
	}
	if len(scores) != 1 || scores[0] != s.Score() {
		t.Errorf("ScoreChanged = %v, want [%d]", scores, s.Score())
	}
}

func TestTimeAttackDeadline(t *testing.T) {
	d := testDifficulty()
	d.LinesPerLevel = 1
	d.TimeAttackSecondsPerLine = 2

	bus := core.NewEventBus()
	fails := 0
	core.On(bus, func(core.TimeAttackFailEvent) { fails++ })

	s := core.NewScoreKeeper(d, true, bus)
	if s.Deadline() != 2 {
		t.Fatalf("deadline = %d, want 2", s.Deadline())
	}
	if !s.Tick() || !s.Tick() {
		t.Fatal("ticks within the deadline should succeed")
	}
	if s.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", s.Remaining())
	}
	if s.Tick() {
		t.Fatal("tick past the deadline should fail")
	}
	if s.Tick() {
		t.Error("clock should stay halted")
	}
	if fails != 1 || !s.TimeUp() {
		t.Errorf("TimeAttackFail published %d times, TimeUp = %v", fails, s.TimeUp())
	}
	if s.Elapsed() != 3 {
		t.Errorf("elapsed = %d, want 3", s.Elapsed())
	}
}

func TestTimeAttackDeadlineGrowsWithLevel(t *testing.T) {
	d := testDifficulty()
	d.LinesPerLevel = 1
	d.TimeAttackSecondsPerLine = 2

	s := core.NewScoreKeeper(d, true, nil)
	s.Tick()
	s.Tick()
	s.RegisterLinesCleared(1)
	if s.Deadline() != 4 {
		t.Fatalf("deadline = %d, want 4", s.Deadline())
	}
	if !s.Tick() {
		t.Error("leveling up should extend the deadline")
	}
}

func TestClockWithoutTimeAttackNeverFails(t *testing.T) {
	s := core.NewScoreKeeper(testDifficulty(), false, nil)
	for i := 0; i < 10000; i++ {
		if !s.Tick() {
			t.Fatalf("tick %d failed outside time attack", i)
		}
	}
}

func TestResetPublishesInitialState(t *testing.T) {
	bus := core.NewEventBus()
	var scores, levels []int
	core.On(bus, func(e core.ScoreChangedEvent) { scores = append(scores, e.Score) })
	core.On(bus, func(e core.LevelChangedEvent) { levels = append(levels, e.Level) })

	s := core.NewScoreKeeper(testDifficulty(), false, bus)
	s.RegisterLinesCleared(3)
	s.Tick()
	scores, levels = nil, nil

	s.Reset()
	if s.Score() != 0 || s.Lines() != 0 || s.Level() != 1 || s.Elapsed() != 0 {
		t.Error("Reset should return to a fresh game")
	}
	if len(scores) != 1 || scores[0] != 0 || len(levels) != 1 || levels[0] != 1 {
		t.Errorf("Reset events: scores %v, levels %v", scores, levels)
	}
}
