package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// phase is the part of a session the game screen is in.
type phase int

const (
	phasePlaying   phase = iota
	phaseNameEntry       // Finished with a score worth saving; asking for a name
	phaseSubmitted       // Score saved or skipped; waiting for restart or back
)

// rankedGame is implemented by games that rank on a named leaderboard.
type rankedGame interface {
	LeaderboardDifficulty() string
}

// scoreSubmittedMsg reports the result of a leaderboard submission.
type scoreSubmittedMsg struct {
	rank  int
	entry storage.ScoreEntry
	err   error
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// GameModel is the Bubble Tea model for one game screen.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store // nil disables the leaderboard
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	name       textinput.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	phase      phase
	player     string
	best       int
	rank       int
	submitErr  error
	loop       uint64 // Tick loop owned by this screen
	standalone bool   // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game screen and starts a fresh session.
// player pre-fills the leaderboard name prompt.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	name := textinput.New()
	name.Placeholder = "your name"
	name.CharLimit = storage.MaxNameLength
	name.Width = storage.MaxNameLength + 1

	m := GameModel{
		game:       game,
		store:      store,
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		name:       name,
		inputFrame: core.NewInputFrame(),
		player:     player,
		loop:       nextLoopID(),
	}
	m.help.Width = cfg.ScreenW
	m.screen = core.NewScreen(cfg.ScreenW, m.screenHeight())

	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.loadBest()
	return m
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.loop, m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.phase == phaseNameEntry {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(msg.Width, m.screenHeight())
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()

	case scoreSubmittedMsg:
		m.phase = phaseSubmitted
		m.rank = msg.rank
		m.submitErr = msg.err
		if msg.err == nil {
			m.best = max(m.best, msg.entry.Score)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input while playing or after submission.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if !m.gameState.GameOver && !m.gameState.Paused {
			return m, nil
		}
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.config.ScreenW, m.screenHeight())
		return m, nil

	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if action := m.keys.Action(msg); action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleNameKey feeds the name prompt.
func (m GameModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.name.Blur()
		m.phase = phaseSubmitted
		return m, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(m.name.Value())
		if name == "" {
			return m, nil
		}
		m.name.Blur()
		m.player = name
		return m, submitCmd(m.store, m.entry(name))
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// handleTick runs one simulation step with the keys collected since the last tick.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()

	wasOver := m.gameState.GameOver
	m.gameState = result.State

	switch {
	case !m.gameState.GameOver && m.phase != phasePlaying:
		// Restarted
		m.phase = phasePlaying
		m.rank = 0
		m.submitErr = nil
		m.loadBest()

	case m.gameState.GameOver && !wasOver:
		m.phase = phaseSubmitted
		if m.store != nil && m.gameState.Score > 0 {
			m.phase = phaseNameEntry
			m.name.SetValue(m.player)
			m.name.CursorEnd()
			return m, tea.Batch(m.name.Focus(), tickCmd(m.loop, m.config.TickRate))
		}
	}

	return m, tickCmd(m.loop, m.config.TickRate)
}

// entry builds the leaderboard record for the finished session.
func (m GameModel) entry(name string) storage.ScoreEntry {
	return storage.ScoreEntry{
		Name:           name,
		Score:          m.gameState.Score,
		ElapsedSeconds: m.gameState.Elapsed,
		Difficulty:     m.difficulty(),
		Lines:          m.gameState.Lines,
		Level:          m.gameState.Level,
	}
}

func (m GameModel) difficulty() string {
	if rg, ok := m.game.(rankedGame); ok {
		return rg.LeaderboardDifficulty()
	}
	return m.game.ID()
}

func submitCmd(store *storage.Store, entry storage.ScoreEntry) tea.Cmd {
	return func() tea.Msg {
		rank, saved, err := store.Submit(entry)
		return scoreSubmittedMsg{rank: rank, entry: saved, err: err}
	}
}

// loadBest reads the best score of the current leaderboard.
func (m *GameModel) loadBest() {
	m.best = 0
	if m.store == nil {
		return
	}
	if best, err := m.store.HighScore(m.difficulty()); err == nil {
		m.best = best
	}
}

// footerHeight is the number of rows below the game screen.
func (m GameModel) footerHeight() int {
	if m.help.ShowAll {
		return 1 + len(m.keys.FullHelp()[0])
	}
	return 2
}

func (m GameModel) screenHeight() int {
	return max(m.config.ScreenH-m.footerHeight(), 1)
}

// saveScreenshot saves the current screen as plain text.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".blockfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the game screen and the footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine() + "\n" + hintStyle.Render(m.help.View(m.keys))
}

// statusLine describes the leaderboard state of the session.
func (m GameModel) statusLine() string {
	switch m.phase {
	case phaseNameEntry:
		return statusStyle.Render(fmt.Sprintf("Score %d! Name: ", m.gameState.Score)) +
			m.name.View() + hintStyle.Render("  enter save · esc skip")

	case phaseSubmitted:
		switch {
		case m.submitErr != nil:
			return errorStyle.Render("Could not save score: " + m.submitErr.Error())
		case m.rank > 0:
			return statusStyle.Render(fmt.Sprintf("Rank #%d on %s", m.rank, m.difficulty())) +
				hintStyle.Render("  r restart · esc menu")
		}
		return hintStyle.Render("r restart · esc menu")
	}

	if m.store == nil {
		return ""
	}
	return hintStyle.Render(fmt.Sprintf("Best on %s: %d", m.difficulty(), m.best))
}

// IsQuitting returns true if the user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) error {
	model := NewGameModel(game, store, cfg, player)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
