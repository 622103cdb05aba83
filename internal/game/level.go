package game

import (
	"log"
	"math"

	"github.com/amalg/bomber-arena/internal/grid"
)

// spawnRounds caps enemy placement calls at this multiple of the target count.
// Arenas too full to host every enemy simply get fewer.
const spawnRounds = 4

// startLevel builds the current level and enters StatusPlaying.
func (e *Engine) startLevel() {
	e.State.Status = StatusInitializing

	cfg := e.Config
	e.State.Grid = grid.Generate(cfg.Width, cfg.Height, e.softWallDensity(), grid.SafeZone(cfg.Spawn), e.rng)
	e.State.Bombs = make([]*Bomb, 0)
	e.State.Explosions = make([]*Explosion, 0)
	e.State.PowerUps = make([]*PowerUp, 0)
	e.State.Enemies = make([]*Enemy, 0)
	e.State.TimeLeft = int(cfg.LevelTime.Seconds())
	e.secondAcc = 0

	p := e.State.Player
	p.ActiveBombs = 0
	e.respawnPlayer()

	spawned := e.spawnEnemies()
	log.Printf("[ENGINE] Level %d started: %d/%d enemies", e.State.Level, spawned, e.enemyTarget())

	e.State.Status = StatusPlaying
}

// respawnPlayer puts the player back on the spawn cell with a fresh
// invulnerability window.
func (e *Engine) respawnPlayer() {
	p := e.State.Player
	p.Pos = e.cellPos(e.Config.Spawn)
	p.Dir = DirNone
	p.Alive = true
	p.RespawnAt = 0
	p.InvulnerableUntil = e.State.Now + e.Config.Invulnerability
}

// softWallDensity grows with the level index up to MaxSoftWallDensity.
func (e *Engine) softWallDensity() float64 {
	cfg := e.Config
	d := cfg.SoftWallDensity + float64(e.State.Level-1)*cfg.SoftWallDensityStep
	return math.Min(d, cfg.MaxSoftWallDensity)
}

// enemyTarget is the number of enemies the current level asks for.
func (e *Engine) enemyTarget() int {
	cfg := e.Config
	return min(cfg.BaseEnemies+(e.State.Level-1)*cfg.EnemiesPerLevel, cfg.MaxEnemies)
}

// spawnEnemies fills the level with up to enemyTarget enemies and returns how
// many were placed. At most one boss spawns per level.
func (e *Engine) spawnEnemies() int {
	target := e.enemyTarget()
	bossAllowed := e.State.Level >= e.Config.BossFromLevel

	for calls := 0; len(e.State.Enemies) < target && calls < target*spawnRounds; calls++ {
		boss := bossAllowed && e.rng.Float64() < e.Config.BossChance
		if en := e.spawnEnemy(boss); en != nil && en.Boss {
			bossAllowed = false
		}
	}
	return len(e.State.Enemies)
}

// spawnEnemy places one enemy by rejection sampling: a random Empty cell
// farther than SpawnMinDistance from the player spawn and not already taken.
// Returns nil after SpawnAttempts misses.
func (e *Engine) spawnEnemy(boss bool) *Enemy {
	cfg := e.Config
	g := e.State.Grid

	for attempt := 0; attempt < cfg.SpawnAttempts; attempt++ {
		c := grid.Cell{X: e.rng.Intn(g.Width), Y: e.rng.Intn(g.Height)}
		if g.At(c) != grid.Empty || c.Manhattan(cfg.Spawn) <= cfg.SpawnMinDistance || e.enemyAt(c) {
			continue
		}

		en := &Enemy{
			ID:    e.newID(),
			Kind:  Walker,
			Boss:  boss,
			Pos:   e.cellPos(c),
			Speed: e.enemySpeed(boss),
			HP:    1,
			Alive: true,
		}
		if boss {
			en.Kind = Chaser
			en.HP = cfg.BossHP
			en.LastHitAt = -cfg.BossHitCooldown
		} else if e.rng.Float64() < e.chaserChance() {
			en.Kind = Chaser
		}
		en.MaxHP = en.HP
		en.ReplanIn = e.replanDelay(boss)

		e.State.Enemies = append(e.State.Enemies, en)
		return en
	}
	return nil
}

func (e *Engine) enemyAt(c grid.Cell) bool {
	for _, en := range e.State.Enemies {
		if e.cellOf(en.Pos) == c {
			return true
		}
	}
	return false
}
