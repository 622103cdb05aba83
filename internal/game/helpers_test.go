package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

// scriptRand replays fixed values, then falls back to 0.99 / 0 so that
// unscripted rolls never spawn power-ups.
type scriptRand struct {
	floats []float64
	ints   []int
}

func (s *scriptRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

// fixedInput always reports the same intent.
type fixedInput struct{ in Intent }

func (f *fixedInput) Poll() Intent { return f.in }

// newTestEngine starts a run and swaps the generated level for a bare arena:
// border walls only, the player on (1,1) without invulnerability, and a
// single enemy sealed into the far corner so the level never completes.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	e := NewEngine(cfg, rand.New(rand.NewSource(1)))
	e.Start()
	if e.State.Status != StatusPlaying {
		t.Fatalf("expected StatusPlaying after Start, got %s", e.State.Status)
	}

	e.State.Grid = grid.New(cfg.Width, cfg.Height)
	e.State.Enemies = make([]*Enemy, 0)
	e.State.PowerUps = make([]*PowerUp, 0)
	e.State.Player.InvulnerableUntil = 0
	e.rng = &scriptRand{}

	e.State.Grid.Set(grid.Cell{X: 12, Y: 11}, grid.WallSoft)
	e.State.Grid.Set(grid.Cell{X: 13, Y: 10}, grid.WallSoft)
	addEnemy(e, grid.Cell{X: 13, Y: 11}, Walker)
	return e
}

// addEnemy drops a one-hit enemy onto c, ready to replan immediately.
func addEnemy(e *Engine, c grid.Cell, kind EnemyKind) *Enemy {
	en := &Enemy{
		ID:    e.newID(),
		Kind:  kind,
		Pos:   e.cellPos(c),
		Speed: e.Config.EnemySpeed,
		HP:    1,
		MaxHP: 1,
		Alive: true,
	}
	e.State.Enemies = append(e.State.Enemies, en)
	return en
}

// addBomb places an unowned bomb directly.
func addBomb(e *Engine, c grid.Cell, rng int, timer time.Duration) *Bomb {
	b := &Bomb{ID: e.newID(), Cell: c, Range: rng, Fuse: timer, Timer: timer}
	e.State.Bombs = append(e.State.Bombs, b)
	return b
}

func cellSet(cells []BlastCell) map[grid.Cell]BlastCell {
	set := make(map[grid.Cell]BlastCell, len(cells))
	for _, bc := range cells {
		set[bc.Cell] = bc
	}
	return set
}
