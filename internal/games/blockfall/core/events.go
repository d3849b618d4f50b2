package core

import (
	"fmt"

	"github.com/kamstrup/intmap"
)

// EventKind enumerates the notifications the engine publishes.
type EventKind uint8

const (
	EventSpawnFail       EventKind = iota // Block could not enter the field (game over)
	EventBlockMoved                       // Active block moved or rotated
	EventBlockPlaced                      // Active block landed and was logged into the grid
	EventLinesCleared                     // One placement completed 1-4 rows
	EventScoreChanged                     // Score was recomputed
	EventLevelChanged                     // Level was recomputed
	EventGameWon                          // Maximum level reached
	EventTimeAttackFail                   // Time attack deadline passed
	EventGameTimeChanged                  // Game clock advanced one second
	eventKindCount
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventSpawnFail:
		return "SpawnFail"
	case EventBlockMoved:
		return "BlockMoved"
	case EventBlockPlaced:
		return "BlockPlaced"
	case EventLinesCleared:
		return "LinesCleared"
	case EventScoreChanged:
		return "ScoreChanged"
	case EventLevelChanged:
		return "LevelChanged"
	case EventGameWon:
		return "GameWon"
	case EventTimeAttackFail:
		return "TimeAttackFail"
	case EventGameTimeChanged:
		return "GameTimeChanged"
	default:
		return "Unknown"
	}
}

// Event is a published notification. Each kind has its own payload type.
type Event interface {
	Kind() EventKind
}

// SpawnFailEvent carries the block that could not be spawned.
type SpawnFailEvent struct {
	Block *Block
}

func (SpawnFailEvent) Kind() EventKind { return EventSpawnFail }

// BlockMovedEvent carries the active block after a committed move or rotation.
type BlockMovedEvent struct {
	Block *Block
}

func (BlockMovedEvent) Kind() EventKind { return EventBlockMoved }

// BlockPlacedEvent carries the block that was just logged into the grid.
type BlockPlacedEvent struct {
	Block *Block
}

func (BlockPlacedEvent) Kind() EventKind { return EventBlockPlaced }

// LinesClearedEvent reports how many rows one placement removed (1-4).
type LinesClearedEvent struct {
	Count int
}

func (LinesClearedEvent) Kind() EventKind { return EventLinesCleared }

// ScoreChangedEvent carries the new score.
type ScoreChangedEvent struct {
	Score int
}

func (ScoreChangedEvent) Kind() EventKind { return EventScoreChanged }

// LevelChangedEvent carries the new level.
type LevelChangedEvent struct {
	Level int
}

func (LevelChangedEvent) Kind() EventKind { return EventLevelChanged }

// GameWonEvent carries the final level.
type GameWonEvent struct {
	Level int
}

func (GameWonEvent) Kind() EventKind { return EventGameWon }

// TimeAttackFailEvent has no payload.
type TimeAttackFailEvent struct{}

func (TimeAttackFailEvent) Kind() EventKind { return EventTimeAttackFail }

// GameTimeChangedEvent carries the elapsed game time in seconds.
type GameTimeChangedEvent struct {
	Elapsed int
}

func (GameTimeChangedEvent) Kind() EventKind { return EventGameTimeChanged }

// Handler receives published events.
type Handler func(Event)

// EventBus is a synchronous publish/subscribe registry.
// Publish calls every subscriber of the event's kind in subscription order
// before returning. A subscriber must not publish the same kind re-entrantly.
type EventBus struct {
	subs *intmap.Map[EventKind, []Handler]
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: intmap.New[EventKind, []Handler](int(eventKindCount)),
	}
}

// Subscribe appends a handler for the given kind.
// Panics on a kind outside the enumerated set.
func (b *EventBus) Subscribe(kind EventKind, h Handler) {
	if kind >= eventKindCount {
		panic(fmt.Sprintf("core: subscribe to unknown event kind %d", kind))
	}
	handlers, _ := b.subs.Get(kind)
	b.subs.Put(kind, append(handlers, h))
}

// On subscribes a handler typed to one event payload.
func On[T Event](b *EventBus, h func(T)) {
	var zero T
	b.Subscribe(zero.Kind(), func(e Event) {
		if ev, ok := e.(T); ok {
			h(ev)
		}
	})
}

// Publish delivers an event to every subscriber of its kind.
func (b *EventBus) Publish(e Event) {
	handlers, ok := b.subs.Get(e.Kind())
	if !ok {
		return
	}
	for _, h := range handlers {
		h(e)
	}
}

// Subscribers returns how many handlers are registered for a kind.
func (b *EventBus) Subscribers(kind EventKind) int {
	handlers, _ := b.subs.Get(kind)
	return len(handlers)
}

// Clear removes every subscription.
func (b *EventBus) Clear() {
	b.subs.Clear()
}
