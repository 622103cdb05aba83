package game

import (
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

// powerUpTable maps a uniform roll in [0,1) to a kind, most common first.
var powerUpTable = []struct {
	kind PowerUpKind
	upTo float64
}{
	{BombUp, 0.35},
	{FireUp, 0.65},
	{SpeedUp, 0.85},
	{TimeBonus, 0.95},
	{SuperBomb, 1.0},
}

// powerUpKindFor buckets roll into a power-up kind.
func powerUpKindFor(roll float64) PowerUpKind {
	for _, row := range powerUpTable {
		if roll < row.upTo {
			return row.kind
		}
	}
	return SuperBomb
}

// maybeSpawnPowerUp rolls for a drop at c. Random draws happen in a fixed
// order: spawn chance, kind, cosmetic offset.
func (e *Engine) maybeSpawnPowerUp(c grid.Cell) {
	if e.rng.Float64() >= e.Config.PowerUpChance {
		return
	}
	kind := powerUpKindFor(e.rng.Float64())
	e.State.PowerUps = append(e.State.PowerUps, &PowerUp{
		ID:     e.newID(),
		Cell:   c,
		Kind:   kind,
		Offset: e.rng.Float64(),
	})
}

// collectPowerUps applies every power-up sharing the player's cell.
func (e *Engine) collectPowerUps() {
	p := e.State.Player
	if !p.Alive || len(e.State.PowerUps) == 0 {
		return
	}
	cell := e.cellOf(p.Pos)

	remaining := e.State.PowerUps[:0]
	for _, pu := range e.State.PowerUps {
		if pu.Cell != cell {
			remaining = append(remaining, pu)
			continue
		}
		e.applyPowerUp(pu.Kind)
	}
	e.State.PowerUps = remaining
}

func (e *Engine) applyPowerUp(kind PowerUpKind) {
	p := e.State.Player
	cfg := e.Config
	switch kind {
	case BombUp:
		p.MaxBombs = min(p.MaxBombs+1, cfg.MaxBombs)
	case FireUp:
		p.BlastRange = min(p.BlastRange+1, cfg.MaxBlastRange)
	case SpeedUp:
		p.Speed = min(p.Speed+cfg.SpeedStep, cfg.MaxPlayerSpeed)
	case SuperBomb:
		p.BlastRange = cfg.MaxBlastRange
	case TimeBonus:
		e.addTime(cfg.TimeBonus)
	}
	e.State.Score += cfg.PowerUpScore
}

// addTime extends the level countdown by whole seconds.
func (e *Engine) addTime(d time.Duration) {
	e.State.TimeLeft += int(d / time.Second)
}
