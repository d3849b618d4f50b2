package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestGameKeyMap(t *testing.T) {
	keys := DefaultGameKeyMap()

	tests := []struct {
		msg      tea.KeyMsg
		expected core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runeKey('d'), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyShiftLeft}, core.ActionSlideLeft},
		{runeKey('D'), core.ActionSlideRight},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionHardDrop},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotateCW},
		{runeKey('z'), core.ActionRotateCCW},
		{runeKey('c'), core.ActionHold},
		{runeKey('g'), core.ActionToggleGhost},
		{runeKey('p'), core.ActionPause},
		{runeKey('r'), core.ActionRestart},
		{runeKey('q'), core.ActionNone},
		{runeKey('?'), core.ActionNone},
	}

	for _, tc := range tests {
		if got := keys.Action(tc.msg); got != tc.expected {
			t.Errorf("Action(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, '█', core.ColorRed)
	s.SetColored(3, 0, '█', core.ColorRed)
	s.SetColored(0, 1, 'x', core.ColorCount+3)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "██") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "x") {
		t.Errorf("unknown colors should still render: %q", lines[1])
	}
}

func newTestModel(t *testing.T, store *storage.Store) GameModel {
	t.Helper()
	game, err := blockfall.Create(blockfall.IDMarathon, config.DefaultBlockfallConfig(), "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return NewGameModel(game, store, core.RuntimeConfig{Seed: 7, TickRate: 60, ScreenW: 80, ScreenH: 30}, "ann")
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm, cmd
}

func TestStaleTickIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	game := m.game.(*blockfall.Game)

	m, cmd := update(t, m, TickMsg{Loop: m.loop + 1})
	if cmd != nil || game.Snapshot().Tick != 0 {
		t.Error("a tick from another loop should be ignored")
	}

	_, cmd = update(t, m, TickMsg{Loop: m.loop})
	if cmd == nil || game.Snapshot().Tick != 1 {
		t.Error("own tick should step the game and schedule the next")
	}
}

func TestKeysReachGameOnTick(t *testing.T) {
	m := newTestModel(t, nil)
	game := m.game.(*blockfall.Game)
	size := game.Board().Active().Type.Size()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if game.Board().FilledCount() != 0 {
		t.Fatal("input should wait for the tick")
	}
	update(t, m, TickMsg{Loop: m.loop})
	if game.Board().FilledCount() != size {
		t.Errorf("filled = %d after hard drop, expected %d", game.Board().FilledCount(), size)
	}
}

func TestGameOverWithoutScoreSkipsPrompt(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	for i := 0; i < 500 && !m.gameState.GameOver; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		m, _ = update(t, m, TickMsg{Loop: m.loop})
	}
	if !m.gameState.GameOver {
		t.Fatal("stacking should end the game")
	}
	if m.phase != phaseSubmitted {
		t.Errorf("phase = %v, zero scores should not prompt for a name", m.phase)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc after game over should return to the menu")
	}
}

func TestNameEntrySubmitsScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m.gameState = core.GameState{Score: 120, Lines: 3, Level: 1, Elapsed: 42, GameOver: true}
	m.phase = phaseNameEntry
	m.name.Focus()
	m.name.SetValue("")

	for _, r := range "bob" {
		m, _ = update(t, m, runeKey(r))
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should submit the score")
	}
	m, _ = update(t, m, cmd())

	if m.phase != phaseSubmitted || m.rank != 1 || m.submitErr != nil {
		t.Fatalf("phase = %v, rank = %d, err = %v", m.phase, m.rank, m.submitErr)
	}
	if !strings.Contains(m.statusLine(), "Rank #1 on normal") {
		t.Errorf("status = %q", m.statusLine())
	}

	entries, err := store.Fetch("normal", 10)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "bob" || entries[0].ElapsedSeconds != 42 || entries[0].Lines != 3 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(config.DefaultBlockfallConfig(), "", 80, 24)
	if m.Preset() != "normal" {
		t.Fatalf("Preset() = %q, expected the default preset", m.Preset())
	}

	step := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	step(tea.KeyMsg{Type: tea.KeyRight})
	step(tea.KeyMsg{Type: tea.KeyRight})
	if m.Preset() != "normal" {
		// Only normal is defined in the built-in config
		t.Errorf("Preset() = %q", m.Preset())
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != blockfall.IDTimeAttack {
		t.Errorf("Selected() = %q, expected time attack", m.Selected())
	}
}
