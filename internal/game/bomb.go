package game

import (
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

// bombAt returns the live bomb occupying c, if any.
func (e *Engine) bombAt(c grid.Cell) *Bomb {
	for _, b := range e.State.Bombs {
		if !b.detonated && b.Cell == c {
			return b
		}
	}
	return nil
}

// bombCells lists the cells of all live bombs.
func (e *Engine) bombCells() []grid.Cell {
	cells := make([]grid.Cell, 0, len(e.State.Bombs))
	for _, b := range e.State.Bombs {
		if !b.detonated {
			cells = append(cells, b.Cell)
		}
	}
	return cells
}

// placeBomb places a bomb at the player's current cell.
// Returns false when the player is at capacity or the cell already holds a bomb.
func (e *Engine) placeBomb() bool {
	p := e.State.Player
	if !p.Alive {
		return false
	}

	// Check bomb limit
	if p.ActiveBombs >= p.MaxBombs {
		return false
	}

	// Check if bomb already exists at this position
	cell := e.cellOf(p.Pos)
	if e.bombAt(cell) != nil {
		return false
	}

	e.State.Bombs = append(e.State.Bombs, &Bomb{
		ID:      e.newID(),
		OwnerID: OwnerPlayer,
		Cell:    cell,
		Range:   p.BlastRange,
		Fuse:    e.Config.BombFuse,
		Timer:   e.Config.BombFuse,
	})
	p.ActiveBombs++
	return true
}

// tickBombs runs the Bomb/Explosion phase: age explosions, count bombs down,
// detonate (chains resolve within this call), then apply blast damage.
func (e *Engine) tickBombs(elapsed time.Duration) {
	e.ageExplosions(elapsed)

	for _, b := range e.State.Bombs {
		b.Timer -= elapsed
	}

	// A detonation may force other bombs to zero; sweep until none are left
	for {
		fired := false
		for _, b := range e.State.Bombs {
			if !b.detonated && b.Timer <= 0 {
				e.explode(b)
				fired = true
			}
		}
		if !fired {
			break
		}
	}

	// Remove detonated bombs and return bomb count to owners
	remaining := e.State.Bombs[:0]
	for _, b := range e.State.Bombs {
		if !b.detonated {
			remaining = append(remaining, b)
			continue
		}
		if b.OwnerID == OwnerPlayer && e.State.Player.ActiveBombs > 0 {
			e.State.Player.ActiveBombs--
		}
	}
	e.State.Bombs = remaining

	e.applyBlastDamage()
}

// explode detonates b exactly once, walking a ray in each cardinal direction.
// Hard walls stop a ray before their cell. Soft walls and other live bombs
// are included and stop it; soft walls are destroyed and other bombs have
// their timers forced to zero.
func (e *Engine) explode(b *Bomb) {
	if b.detonated {
		return
	}
	b.detonated = true
	b.Timer = 0

	ex := &Explosion{
		ID:        e.newID(),
		Origin:    b.Cell,
		Cells:     []BlastCell{{Cell: b.Cell, Dir: DirNone}},
		Remaining: e.Config.ExplosionDuration,
	}

	for _, dir := range cardinals {
		dx, dy := dir.Delta()
		start := len(ex.Cells)
		for dist := 1; dist <= b.Range; dist++ {
			cell := b.Cell.Add(dx*dist, dy*dist)

			// Hard wall (or the edge of the grid) stops the ray outside
			tile := e.State.Grid.At(cell)
			if tile == grid.WallHard {
				break
			}

			ex.Cells = append(ex.Cells, BlastCell{Cell: cell, Dir: dir})

			// Soft wall: destroy it, but stop further expansion
			if tile == grid.WallSoft {
				e.destroyWall(cell)
				break
			}

			// Chain reaction: the other bomb goes off in this same tick
			if other := e.bombAt(cell); other != nil {
				other.Timer = 0
				break
			}
		}
		if len(ex.Cells) > start {
			ex.Cells[len(ex.Cells)-1].Terminal = true
		}
	}

	e.State.Explosions = append(e.State.Explosions, ex)
}

// destroyWall clears a soft wall, scores it, and rolls for a power-up.
func (e *Engine) destroyWall(c grid.Cell) {
	e.State.Grid.Set(c, grid.Empty)
	e.State.Score += e.Config.WallScore
	e.maybeSpawnPowerUp(c)
}

// ageExplosions removes explosions whose lifetime has run out.
func (e *Engine) ageExplosions(elapsed time.Duration) {
	remaining := e.State.Explosions[:0]
	for _, ex := range e.State.Explosions {
		ex.Remaining -= elapsed
		if ex.Remaining > 0 {
			remaining = append(remaining, ex)
		}
	}
	e.State.Explosions = remaining
}

// blastSet returns every cell currently covered by an explosion.
func (e *Engine) blastSet() map[grid.Cell]bool {
	set := make(map[grid.Cell]bool)
	for _, ex := range e.State.Explosions {
		for _, bc := range ex.Cells {
			set[bc.Cell] = true
		}
	}
	return set
}

// applyBlastDamage hurts the player and every enemy whose cell is on fire.
func (e *Engine) applyBlastDamage() {
	if len(e.State.Explosions) == 0 {
		return
	}
	fire := e.blastSet()

	p := e.State.Player
	if p.Alive && fire[e.cellOf(p.Pos)] {
		e.killPlayer()
	}

	for _, en := range e.State.Enemies {
		if en.Alive && fire[e.cellOf(en.Pos)] {
			e.hitEnemy(en)
		}
	}
}

// hitEnemy removes one hit point. Bosses ignore re-hits inside their cooldown.
func (e *Engine) hitEnemy(en *Enemy) {
	now := e.State.Now
	if en.Boss && now-en.LastHitAt < e.Config.BossHitCooldown {
		return
	}
	en.LastHitAt = now
	en.HP--
	if en.HP > 0 {
		return
	}

	en.Alive = false
	en.Path = nil
	if en.Boss {
		e.State.Score += e.Config.BossScore
		e.addTime(e.Config.BossTimeBonus)
	} else {
		e.State.Score += e.Config.EnemyScore
		e.addTime(e.Config.EnemyTimeBonus)
	}
}
