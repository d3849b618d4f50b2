// Package tui runs Blockfall in the terminal with Bubble Tea. It maps keys to
// game actions, drives the fixed-rate Step loop and hosts the menu,
// leaderboard and SSH front-ends.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Loop identifies the tick loop so a stale loop of a closed game screen
// cannot drive a new one.
type TickMsg struct {
	Loop uint64
	Time time.Time
}

var loopIDs atomic.Uint64

// nextLoopID returns a fresh tick loop identifier.
func nextLoopID() uint64 {
	return loopIDs.Add(1)
}

// tickCmd returns a command that delivers the next TickMsg after one tick interval.
func tickCmd(loop uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, Time: t}
	})
}
