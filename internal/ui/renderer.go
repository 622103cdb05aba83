package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bomber-arena/internal/game"
	"github.com/amalg/bomber-arena/internal/grid"
)

const floor = lipgloss.Color("#1a1a2e")

// Color palette
var (
	// Tile styles
	hardWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	softWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	emptyStyle = lipgloss.NewStyle().
			Background(floor).
			Foreground(floor)

	bombStyle = lipgloss.NewStyle().
			Background(floor).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00ff88")).
			Foreground(lipgloss.Color("#00ff88"))

	shieldedStyle = lipgloss.NewStyle().
			Background(floor).
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true)

	walkerStyle = lipgloss.NewStyle().
			Background(floor).
			Foreground(lipgloss.Color("#ffff44")).
			Bold(true)

	chaserStyle = lipgloss.NewStyle().
			Background(floor).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	bossStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff44ff")).
			Foreground(lipgloss.Color("#1a1a2e")).
			Bold(true)

	powerUpStyle = lipgloss.NewStyle().
			Background(floor).
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	lobbyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true).
			Blink(true)

	lostStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// powerUpLabels are the two-character glyphs for each power-up kind.
var powerUpLabels = map[game.PowerUpKind]string{
	game.BombUp:    "B+",
	game.FireUp:    "F+",
	game.SpeedUp:   "S+",
	game.SuperBomb: "SB",
	game.TimeBonus: "T+",
}

// CellFunc maps an entity's pixel position to the cell it is drawn on.
type CellFunc func(game.Vec) grid.Cell

// RenderBoard converts a state snapshot into a styled terminal string.
func RenderBoard(state *game.State, cellOf CellFunc) string {
	if state == nil || state.Grid == nil {
		return "Press [Enter] to start"
	}

	// Build fire lookup
	fireSet := make(map[grid.Cell]bool)
	for _, ex := range state.Explosions {
		for _, bc := range ex.Cells {
			fireSet[bc.Cell] = true
		}
	}

	bombSet := make(map[grid.Cell]bool)
	for _, b := range state.Bombs {
		bombSet[b.Cell] = true
	}

	powerUpSet := make(map[grid.Cell]game.PowerUpKind)
	for _, pu := range state.PowerUps {
		powerUpSet[pu.Cell] = pu.Kind
	}

	enemySet := make(map[grid.Cell]*game.Enemy)
	for _, en := range state.Enemies {
		if en.Alive {
			enemySet[cellOf(en.Pos)] = en
		}
	}

	playerCell := grid.Cell{X: -1, Y: -1}
	if state.Player != nil && state.Player.Alive {
		playerCell = cellOf(state.Player.Pos)
	}

	var rows []string
	for y := 0; y < state.Grid.Height; y++ {
		var cells []string
		for x := 0; x < state.Grid.Width; x++ {
			c := grid.Cell{X: x, Y: y}
			var label string
			switch {
			case c == playerCell:
				label = renderPlayer(state.Player, state.Now)
			case enemySet[c] != nil:
				label = renderEnemy(enemySet[c])
			case fireSet[c]:
				label = fireStyle.Render("░░")
			case bombSet[c]:
				label = bombStyle.Render("()")
			default:
				if kind, ok := powerUpSet[c]; ok && state.Grid.At(c) == grid.Empty {
					label = powerUpStyle.Render(powerUpLabels[kind])
				} else {
					label = renderTile(state.Grid.At(c))
				}
			}
			cells = append(cells, label)
		}
		rows = append(rows, strings.Join(cells, ""))
	}

	return strings.Join(rows, "\n")
}

// renderPlayer draws the player hollow while invulnerable.
func renderPlayer(p *game.Player, now time.Duration) string {
	if now < p.InvulnerableUntil {
		return shieldedStyle.Render("[]")
	}
	return playerStyle.Render("██")
}

func renderEnemy(en *game.Enemy) string {
	switch {
	case en.Boss:
		return bossStyle.Render(fmt.Sprintf("B%d", en.HP))
	case en.Kind == game.Chaser:
		return chaserStyle.Render("<>")
	default:
		return walkerStyle.Render("><")
	}
}

// renderTile renders a single board cell. Each cell is 2 characters wide for
// a square-ish appearance.
func renderTile(tile grid.TileKind) string {
	switch tile {
	case grid.WallHard:
		return hardWallStyle.Render("██")
	case grid.WallSoft:
		return softWallStyle.Render("▒▒")
	default:
		return emptyStyle.Render("  ")
	}
}

// RenderHUD renders the heads-up display with run counters and status.
func RenderHUD(state *game.State, h *hud, finalLevel int, paused bool) string {
	var parts []string

	parts = append(parts, titleStyle.Render("💣 BOMBER ARENA"))
	parts = append(parts, "")

	status := game.StatusInitializing
	if state != nil {
		status = state.Status
	}
	switch status {
	case game.StatusInitializing:
		parts = append(parts, lobbyStyle.Render("⏳ Ready"))
		parts = append(parts, "   Press [Enter] to start!")
	case game.StatusPlaying:
		line := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render("🔥 IN PROGRESS")
		if paused {
			line = lobbyStyle.Render("⏸  PAUSED")
		}
		parts = append(parts, line)
	case game.StatusLevelComplete:
		parts = append(parts, winnerStyle.Render(fmt.Sprintf("✔ LEVEL %d CLEAR", state.Level)))
		parts = append(parts, "   Press [Enter] to continue")
	case game.StatusVictory:
		parts = append(parts, winnerStyle.Render("🏆 VICTORY!"))
		parts = append(parts, "   Press [R] to play again")
	case game.StatusGameOver:
		parts = append(parts, lostStyle.Render("💀 GAME OVER"))
		parts = append(parts, "   Press [R] to try again")
	}
	parts = append(parts, "")

	stats := h.stats
	parts = append(parts, fmt.Sprintf("Level   %d/%d", stats.Level, finalLevel))
	parts = append(parts, fmt.Sprintf("Score   %d", stats.Score))
	parts = append(parts, fmt.Sprintf("Lives   %s", strings.Repeat("❤️ ", max(stats.Lives, 0))))
	parts = append(parts, fmt.Sprintf("Time    %d:%02d", stats.TimeLeft/60, stats.TimeLeft%60))

	if state != nil && state.Player != nil {
		p := state.Player
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("💣×%d 🔥%d ⚡%.0f", p.MaxBombs-p.ActiveBombs, p.BlastRange, p.Speed))
		parts = append(parts, fmt.Sprintf("Enemies %d", len(state.Enemies)))
		if !p.Alive && !status.Terminal() {
			parts = append(parts, lostStyle.Render("Respawning..."))
		}
	}

	if h.banner != "" {
		parts = append(parts, "")
		parts = append(parts, h.banner)
	}

	parts = append(parts, "")
	parts = append(parts, dimStyle.Render("WASD/Arrows: Move | Space: Bomb"))
	parts = append(parts, dimStyle.Render("P: Pause | R: Restart | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}
