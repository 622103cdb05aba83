package game

import (
	"math"
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
	"github.com/amalg/bomber-arena/internal/pathfind"
)

// arriveEpsilon is the squared pixel distance at which a mover snaps onto its
// target cell.
const arriveEpsilon = 1.0

// walkerOffsets are the candidate patrol targets around a Walker's cell.
var walkerOffsets = [8][2]int{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0},
	{0, -2}, {0, 2}, {-2, 0}, {2, 0},
}

// tickEnemies runs the Enemy AI phase for every living enemy, then drops the
// dead ones from the collection.
func (e *Engine) tickEnemies(elapsed time.Duration) {
	if elapsed > 0 {
		for _, en := range e.State.Enemies {
			if en.Alive {
				e.updateEnemy(en, elapsed)
			}
		}
	}

	alive := e.State.Enemies[:0]
	for _, en := range e.State.Enemies {
		if en.Alive {
			alive = append(alive, en)
		}
	}
	e.State.Enemies = alive
}

// updateEnemy advances one enemy's Idle/Following state machine.
func (e *Engine) updateEnemy(en *Enemy, elapsed time.Duration) {
	en.ReplanIn -= elapsed

	if len(en.Path) > 0 {
		e.followPath(en, elapsed)
		return
	}

	// Idle: get back onto a cell centre before thinking
	cell := e.cellOf(en.Pos)
	if centre := e.cellPos(cell); en.Pos != centre {
		e.stepToward(en, centre, elapsed)
		return
	}

	if en.ReplanIn > 0 {
		return
	}
	en.ReplanIn = e.replanDelay(en.Boss)

	target, ok := e.pickTarget(en, cell)
	if !ok {
		return
	}
	path := pathfind.Find(e.State.Grid, cell, target, e.bombCells(), pathfind.AllowStartObstacle())
	if len(path) < 2 {
		return
	}
	en.Path = path[1:]
}

// followPath walks toward the next queued cell, dropping the path if a bomb
// now sits there or the way is blocked.
func (e *Engine) followPath(en *Enemy, elapsed time.Duration) {
	next := en.Path[0]
	if e.bombAt(next) != nil {
		e.retreat(en, next)
		return
	}

	arrived, moved := e.stepToward(en, e.cellPos(next), elapsed)
	switch {
	case arrived:
		en.Path = en.Path[1:]
	case !moved:
		en.Path = nil
	}
}

// retreat replaces the path with a single step back to the cell en left for
// bombed, so the idle nudge never pulls it the rest of the way onto the bomb.
func (e *Engine) retreat(en *Enemy, bombed grid.Cell) {
	en.Path = nil
	back := e.cellOf(en.Pos)
	if back == bombed {
		dx, dy := en.Dir.Delta()
		if dx == 0 && dy == 0 {
			return
		}
		back = bombed.Add(-dx, -dy)
	}
	if e.cellPos(back) != en.Pos && e.bombAt(back) == nil {
		en.Path = []grid.Cell{back}
	}
}

// stepToward moves en toward target by at most one tick of travel, snapping
// onto target once within arriveEpsilon.
func (e *Engine) stepToward(en *Enemy, target Vec, elapsed time.Duration) (arrived, moved bool) {
	delta := target.Sub(en.Pos)
	if delta.LenSq() < arriveEpsilon {
		en.Pos = target
		return true, true
	}

	dist := math.Sqrt(delta.LenSq())
	step := math.Min(en.Speed*elapsed.Seconds(), dist)
	dir := Vec{X: delta.X / dist, Y: delta.Y / dist}

	next := e.move(en.Pos, dir, step, false)
	moved = next != en.Pos
	en.Pos = next
	en.Dir = dirOf(dir)

	if target.Sub(en.Pos).LenSq() < arriveEpsilon {
		en.Pos = target
		return true, true
	}
	return false, moved
}

// pickTarget chooses where en should head next. Chasers go for the player;
// Walkers pick a random free cell one or two steps away.
func (e *Engine) pickTarget(en *Enemy, from grid.Cell) (grid.Cell, bool) {
	if en.Kind == Chaser {
		if !e.State.Player.Alive {
			return grid.Cell{}, false
		}
		return e.cellOf(e.State.Player.Pos), true
	}

	candidates := make([]grid.Cell, 0, len(walkerOffsets))
	for _, off := range walkerOffsets {
		c := from.Add(off[0], off[1])
		if e.State.Grid.Passable(c) && e.bombAt(c) == nil {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return grid.Cell{}, false
	}
	return candidates[e.rng.Intn(len(candidates))], true
}

// reactionTime is the base replanning delay for the current level. It holds
// steady early on and shortens past FastReactionFromLevel.
func (e *Engine) reactionTime() time.Duration {
	cfg := e.Config
	if e.State.Level < cfg.FastReactionFromLevel {
		return cfg.ReactionTime
	}
	steps := time.Duration(e.State.Level - cfg.FastReactionFromLevel + 1)
	return max(cfg.ReactionTime-steps*cfg.ReactionStep, cfg.MinReactionTime)
}

// replanDelay seeds an enemy's replan countdown.
func (e *Engine) replanDelay(boss bool) time.Duration {
	d := e.reactionTime()
	if j := e.Config.ReplanJitter; j > 0 {
		d += time.Duration(e.rng.Intn(int(j/time.Millisecond)+1)) * time.Millisecond
	}
	if boss {
		d += e.Config.BossReplanDelay
	}
	return d
}

// enemySpeed is the movement speed for the current level.
func (e *Engine) enemySpeed(boss bool) float64 {
	cfg := e.Config
	speed := cfg.EnemySpeed
	if over := e.State.Level - cfg.EnemySpeedFromLevel; over > 0 {
		speed = math.Min(speed+float64(over)*cfg.EnemySpeedStep, cfg.MaxEnemySpeed)
	}
	if boss {
		speed *= cfg.BossSpeedFactor
	}
	return speed
}

// chaserChance is the probability that a regular spawn is a Chaser.
func (e *Engine) chaserChance() float64 {
	cfg := e.Config
	return math.Min(cfg.ChaserChance+float64(e.State.Level-1)*cfg.ChaserChanceStep, cfg.MaxChaserChance)
}
