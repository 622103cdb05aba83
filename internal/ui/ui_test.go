package ui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/bomber-arena/internal/game"
)

func newTestModel(t *testing.T) (Model, *game.Engine) {
	t.Helper()
	engine := game.NewEngine(game.DefaultConfig(), rand.New(rand.NewSource(1)))
	return NewModel(engine), engine
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestControllerHoldWindow(t *testing.T) {
	engine := game.NewEngine(game.DefaultConfig(), nil)
	c := NewController(engine)
	start := time.Unix(0, 0)
	now := start
	c.now = func() time.Time { return now }

	c.Press(game.DirRight)
	if in := c.Poll(); !in.Right {
		t.Fatal("freshly pressed key should be held")
	}

	// The gap before the terminal's first auto-repeat must not stutter
	now = start.Add(400 * time.Millisecond)
	if in := c.Poll(); !in.Right {
		t.Fatal("key should stay held until the first repeat arrives")
	}

	now = start.Add(450 * time.Millisecond)
	c.Press(game.DirRight)
	now = now.Add(DefaultRepeatInterval)
	if in := c.Poll(); !in.Right {
		t.Fatal("repeat should extend the hold")
	}

	now = now.Add(time.Millisecond)
	if in := c.Poll(); in.Right {
		t.Error("key should release soon after repeats stop")
	}

	// A fresh press gets the full repeat delay again
	c.Press(game.DirRight)
	now = now.Add(DefaultRepeatDelay)
	if in := c.Poll(); !in.Right {
		t.Error("fresh press should wait out the repeat delay")
	}
}

func TestControllerCustomWindows(t *testing.T) {
	m := NewModel(game.NewEngine(game.DefaultConfig(), nil), WithRepeatDelay(700*time.Millisecond))
	c := m.controller
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	c.Press(game.DirUp)
	now = now.Add(650 * time.Millisecond)
	if in := c.Poll(); !in.Up {
		t.Error("custom repeat delay should apply")
	}
}

func TestControllerOppositeReleases(t *testing.T) {
	c := NewController(game.NewEngine(game.DefaultConfig(), nil))
	c.Press(game.DirUp)
	c.Press(game.DirDown)

	in := c.Poll()
	if in.Up || !in.Down {
		t.Errorf("latest of two opposite keys should win, got %+v", in)
	}
}

func TestControllerBombConsumed(t *testing.T) {
	c := NewController(game.NewEngine(game.DefaultConfig(), nil))
	c.PressBomb()

	if !c.Poll().PlaceBomb {
		t.Fatal("bomb press should reach the engine")
	}
	if c.Poll().PlaceBomb {
		t.Error("bomb press should be reported once")
	}
}

func TestEnterStartsRun(t *testing.T) {
	m, engine := newTestModel(t)
	if !strings.Contains(m.View(), "Press [Enter] to start") {
		t.Error("idle view should prompt to start")
	}

	m = press(m, "enter")
	if engine.Status() != game.StatusPlaying {
		t.Fatalf("enter should start the run, got %s", engine.Status())
	}
	if m.hud.stats.Level != 1 || m.hud.stats.Lives != engine.Config.Lives {
		t.Errorf("HUD should show the fresh run, got %+v", m.hud.stats)
	}
}

func TestFrameAdvancesEngine(t *testing.T) {
	m, engine := newTestModel(t)
	m = press(m, "enter")

	start := time.Unix(100, 0)
	next, cmd := m.Update(frameMsg(start))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("frames should keep ticking")
	}
	if engine.State.Now != 0 {
		t.Fatal("first frame only sets the clock")
	}

	next, _ = m.Update(frameMsg(start.Add(40 * time.Millisecond)))
	m = next.(Model)
	if engine.State.Now != 40*time.Millisecond {
		t.Errorf("expected 40ms of simulation, got %v", engine.State.Now)
	}

	// Long stalls are capped
	m.Update(frameMsg(start.Add(5 * time.Second)))
	if engine.State.Now != 40*time.Millisecond+maxFrame {
		t.Errorf("expected a capped tick, got %v", engine.State.Now)
	}
}

func TestPauseKey(t *testing.T) {
	m, engine := newTestModel(t)
	m = press(m, "enter")
	m = press(m, "p")
	if !engine.Paused() {
		t.Fatal("p should pause")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("HUD should show the pause")
	}
	press(m, "p")
	if engine.Paused() {
		t.Error("p again should resume")
	}
}

func TestResetKey(t *testing.T) {
	m, engine := newTestModel(t)
	m = press(m, "enter")
	engine.State.Score = 1234
	m = press(m, "r")

	if engine.State.Score != 0 || engine.Status() != game.StatusPlaying {
		t.Errorf("r should restart the run, got score %d %s", engine.State.Score, engine.Status())
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !next.(Model).quitting {
		t.Error("q should quit")
	}
}

func TestRenderBoardShowsEntities(t *testing.T) {
	engine := game.NewEngine(game.DefaultConfig(), rand.New(rand.NewSource(1)))
	engine.Start()
	engine.State.Player.InvulnerableUntil = 0

	out := RenderBoard(engine.State, engine.CellOf)
	lines := strings.Split(out, "\n")
	if len(lines) != engine.Config.Height {
		t.Fatalf("expected %d rows, got %d", engine.Config.Height, len(lines))
	}
	if !strings.Contains(out, "██") || !strings.Contains(out, "><") && !strings.Contains(out, "<>") {
		t.Error("board should draw walls, the player and enemies")
	}
}
