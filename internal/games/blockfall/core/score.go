package core

import (
	"fmt"
	"time"
)

// minFallDelay keeps the fall delay positive when MinDelay is unset.
const minFallDelay = time.Millisecond

// ScoreKeeper tracks score, lines, level and game time, and turns line
// clears into score and level changes for a difficulty.
type ScoreKeeper struct {
	diff       Difficulty
	bus        *EventBus
	timeAttack bool

	score    int
	lines    int
	level    int
	elapsed  int // Seconds
	won      bool
	timeUp   bool
	delay    time.Duration
	specials []BlockType
}

// NewScoreKeeper creates a keeper at level 1 and subscribes it to
// LinesCleared on the bus. A nil bus gets a private one.
func NewScoreKeeper(diff Difficulty, timeAttack bool, bus *EventBus) *ScoreKeeper {
	if bus == nil {
		bus = NewEventBus()
	}
	s := &ScoreKeeper{
		diff:       diff,
		bus:        bus,
		timeAttack: timeAttack,
	}
	s.reset()
	On(bus, func(e LinesClearedEvent) {
		s.RegisterLinesCleared(e.Count)
	})
	return s
}

func (s *ScoreKeeper) reset() {
	s.score = 0
	s.lines = 0
	s.level = 1
	s.elapsed = 0
	s.won = false
	s.timeUp = false
	s.delay = s.computeDelay()
}

// Reset returns the keeper to a fresh game and publishes the initial
// score and level. Active special types are kept.
func (s *ScoreKeeper) Reset() {
	s.reset()
	s.bus.Publish(ScoreChangedEvent{Score: s.score})
	s.bus.Publish(LevelChangedEvent{Level: s.level})
}

// SetDifficulty replaces the parameter set. It takes effect on the next
// Reset, which recomputes the fall delay.
func (s *ScoreKeeper) SetDifficulty(diff Difficulty) {
	s.diff = diff
}

// SetActiveSpecials records which special types are in the ruleset.
// Non-special types are ignored.
func (s *ScoreKeeper) SetActiveSpecials(types []BlockType) {
	s.specials = s.specials[:0]
	for _, t := range types {
		if t.Special() {
			s.specials = append(s.specials, t)
		}
	}
}

// RegisterLinesCleared scores a placement that completed n rows (1-4):
// n*LinePoints[n-1] + n*LinesClearedBonus, plus n*SpecialBonus for every
// active special type. Then levels are evaluated. ScoreChanged is always
// published. Panics if n is outside 1..4.
func (s *ScoreKeeper) RegisterLinesCleared(n int) {
	if n < 1 || n > MaxBlockSpan {
		panic(fmt.Sprintf("core: cannot register %d cleared lines", n))
	}
	s.lines += n
	gain := n*s.diff.LinePoints[n-1] + n*s.diff.LinesClearedBonus
	for _, t := range s.specials {
		gain += n * s.diff.SpecialBonus[t]
	}
	s.score += gain

	if !s.won {
		s.evaluateLevel()
	}
	s.bus.Publish(ScoreChangedEvent{Score: s.score})
}

// evaluateLevel raises the level while enough lines are cleared.
// Reaching MaxLevel adds the win bonus and publishes GameWon instead of
// LevelChanged; no level is evaluated after that.
func (s *ScoreKeeper) evaluateLevel() {
	for s.lines >= s.level*s.diff.LinesPerLevel && s.level < s.diff.MaxLevel {
		s.level++
		if s.timeAttack {
			s.score += s.diff.TimeAttackBonus
		}
		if s.level >= s.diff.MaxLevel {
			s.score += s.diff.WinBonus
			s.won = true
			break
		}
	}
	s.delay = s.computeDelay()

	if s.won {
		s.bus.Publish(GameWonEvent{Level: s.level})
		return
	}
	s.bus.Publish(LevelChangedEvent{Level: s.level})
}

func (s *ScoreKeeper) computeDelay() time.Duration {
	delay := s.diff.InitialDelay - time.Duration(s.level-1)*s.diff.Speedup
	floor := max(s.diff.MinDelay, minFallDelay)
	return max(delay, floor)
}

// Tick advances the game clock by one second and publishes GameTimeChanged.
// In time attack mode, passing the deadline publishes TimeAttackFail and
// halts the clock. Returns false once the clock is halted.
func (s *ScoreKeeper) Tick() bool {
	if s.timeUp {
		return false
	}
	s.elapsed++
	s.bus.Publish(GameTimeChangedEvent{Elapsed: s.elapsed})
	if s.timeAttack && s.elapsed > s.Deadline() {
		s.timeUp = true
		s.bus.Publish(TimeAttackFailEvent{})
		return false
	}
	return true
}

// Deadline returns the time attack budget in seconds for the current level.
func (s *ScoreKeeper) Deadline() int {
	return s.level * s.diff.LinesPerLevel * s.diff.TimeAttackSecondsPerLine
}

// Remaining returns the seconds left before the time attack deadline.
func (s *ScoreKeeper) Remaining() int {
	return max(s.Deadline()-s.elapsed, 0)
}

// Score returns the current score.
func (s *ScoreKeeper) Score() int { return s.score }

// Lines returns the total lines cleared.
func (s *ScoreKeeper) Lines() int { return s.lines }

// Level returns the current level (1-based).
func (s *ScoreKeeper) Level() int { return s.level }

// Elapsed returns the game time in seconds.
func (s *ScoreKeeper) Elapsed() int { return s.elapsed }

// Won reports whether the maximum level was reached.
func (s *ScoreKeeper) Won() bool { return s.won }

// TimeUp reports whether the time attack deadline passed.
func (s *ScoreKeeper) TimeUp() bool { return s.timeUp }

// TimeAttack reports whether time attack mode is on.
func (s *ScoreKeeper) TimeAttack() bool { return s.timeAttack }

// FallDelay returns the current delay between fall ticks.
func (s *ScoreKeeper) FallDelay() time.Duration { return s.delay }

// Difficulty returns the parameter set the keeper scores with.
func (s *ScoreKeeper) Difficulty() Difficulty { return s.diff }
