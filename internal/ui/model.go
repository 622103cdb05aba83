package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bomber-arena/internal/game"
)

const (
	// frameInterval is the target redraw and tick rate.
	frameInterval = time.Second / 30

	// maxFrame caps one tick so a stalled terminal cannot teleport entities
	// through walls.
	maxFrame = 100 * time.Millisecond
)

// frameMsg drives one simulation tick.
type frameMsg time.Time

// hud collects what the engine reports through its callbacks. It is shared
// by pointer because bubbletea copies the Model on every update.
type hud struct {
	stats  game.Stats
	banner string
}

// Model is the Bubbletea model driving a local run.
type Model struct {
	engine     *game.Engine
	controller *Controller
	hud        *hud
	last       time.Time
	quitting   bool
}

// NewModel creates a TUI model around engine and registers its callbacks.
func NewModel(engine *game.Engine, opts ...func(*Controller)) Model {
	h := &hud{stats: engine.Stats()}
	engine.OnStats(func(s game.Stats) { h.stats = s })
	engine.OnLevelComplete(func(level int) {
		h.banner = fmt.Sprintf("Level %d cleared! +1 life", level)
	})
	engine.OnTerminal(func(victory bool) {
		if victory {
			h.banner = "All levels cleared!"
		} else {
			h.banner = "Out of luck."
		}
	})

	c := NewController(engine)
	for _, opt := range opts {
		opt(c)
	}
	return Model{
		engine:     engine,
		controller: c,
		hud:        h,
	}
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return nextFrame()
}

// Update handles incoming messages (key presses, frame ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.engine.Advance(min(now.Sub(m.last), maxFrame))
		}
		m.last = now
		return m, nextFrame()
	}

	return m, nil
}

// View renders the current game state.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye! 👋\n"
	}

	snap := m.engine.Snapshot()
	state := &snap
	board := RenderBoard(state, m.engine.CellOf)
	side := RenderHUD(state, m.hud, m.engine.Config.FinalLevel, m.engine.Paused())

	// Layout: board on the left, HUD on the right
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		board,
		"  ",
		side,
	) + "\n"
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "w":
		m.controller.Press(game.DirUp)
	case "down", "s":
		m.controller.Press(game.DirDown)
	case "left", "a":
		m.controller.Press(game.DirLeft)
	case "right", "d":
		m.controller.Press(game.DirRight)
	case " ":
		m.controller.PressBomb()

	case "p":
		if m.engine.Status() == game.StatusPlaying {
			m.engine.Pause(!m.engine.Paused())
			m.controller.Release()
		}
	case "r":
		m.controller.Release()
		m.hud.banner = ""
		m.engine.Reset()
		m.hud.stats = m.engine.Stats()
	case "enter":
		switch m.engine.Status() {
		case game.StatusInitializing:
			m.engine.Start()
		case game.StatusLevelComplete:
			m.hud.banner = ""
			m.controller.Release()
			m.engine.AcknowledgeLevelComplete()
		}
		m.hud.stats = m.engine.Stats()
	}

	return m, nil
}

// nextFrame returns a Cmd that fires the next frame tick.
func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
