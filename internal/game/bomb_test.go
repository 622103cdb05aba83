package game

import (
	"testing"
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

func TestPlaceBomb(t *testing.T) {
	e := newTestEngine(t)
	p := e.State.Player

	// Place one bomb
	if !e.placeBomb() {
		t.Fatal("expected first bomb to be placed")
	}
	if len(e.State.Bombs) != 1 {
		t.Fatalf("expected 1 bomb, got %d", len(e.State.Bombs))
	}
	if p.ActiveBombs != 1 {
		t.Errorf("expected ActiveBombs=1, got %d", p.ActiveBombs)
	}
	b := e.State.Bombs[0]
	if b.Cell != (grid.Cell{X: 1, Y: 1}) || b.Range != p.BlastRange || b.Timer != e.Config.BombFuse {
		t.Errorf("unexpected bomb %+v", *b)
	}

	// Try to place another — should fail (MaxBombs=1)
	if e.placeBomb() || len(e.State.Bombs) != 1 {
		t.Errorf("should not place second bomb when at limit, got %d bombs", len(e.State.Bombs))
	}

	// With capacity to spare the occupied cell still rejects
	p.MaxBombs = 2
	if e.placeBomb() || len(e.State.Bombs) != 1 || p.ActiveBombs != 1 {
		t.Errorf("should not stack bombs on one cell, got %d bombs", len(e.State.Bombs))
	}
}

func TestBlastScenario(t *testing.T) {
	e := newTestEngine(t)
	p := e.State.Player
	lives := e.State.Lives

	if !e.placeBomb() {
		t.Fatal("expected bomb at (1,1)")
	}
	e.Advance(e.Config.BombFuse - time.Millisecond)
	if len(e.State.Explosions) != 0 || len(e.State.Bombs) != 1 {
		t.Fatal("bomb should not detonate before its fuse runs out")
	}

	e.Advance(time.Millisecond)
	if len(e.State.Bombs) != 0 || p.ActiveBombs != 0 {
		t.Fatalf("bomb should be gone and returned to the player, got %d bombs, %d active", len(e.State.Bombs), p.ActiveBombs)
	}
	if len(e.State.Explosions) != 1 {
		t.Fatalf("expected 1 explosion, got %d", len(e.State.Explosions))
	}

	ex := e.State.Explosions[0]
	want := map[grid.Cell]bool{
		{X: 1, Y: 1}: false,
		{X: 1, Y: 2}: false,
		{X: 1, Y: 3}: true,
		{X: 2, Y: 1}: false,
		{X: 3, Y: 1}: true,
	}
	got := cellSet(ex.Cells)
	if len(got) != len(want) || len(ex.Cells) != len(want) {
		t.Fatalf("expected %d blast cells, got %v", len(want), ex.Cells)
	}
	for c, terminal := range want {
		bc, ok := got[c]
		if !ok {
			t.Errorf("blast should cover %v", c)
			continue
		}
		if bc.Terminal != terminal {
			t.Errorf("cell %v terminal=%v, expected %v", c, bc.Terminal, terminal)
		}
	}
	if ex.Cells[0].Cell != (grid.Cell{X: 1, Y: 1}) || ex.Cells[0].Dir != DirNone {
		t.Errorf("first blast cell should be the origin, got %+v", ex.Cells[0])
	}

	if p.Alive {
		t.Error("player standing on the bomb should be killed")
	}
	if e.State.Lives != lives-1 {
		t.Errorf("expected %d lives, got %d", lives-1, e.State.Lives)
	}
}

func TestBlastRayOpenSpace(t *testing.T) {
	e := newTestEngine(t)
	const r = 3
	b := addBomb(e, grid.Cell{X: 7, Y: 6}, r, 0)
	e.explode(b)

	ex := e.State.Explosions[0]
	if len(ex.Cells) != 4*r+1 {
		t.Fatalf("expected %d cells, got %d", 4*r+1, len(ex.Cells))
	}
	perDir := make(map[Direction]int)
	for _, bc := range ex.Cells {
		perDir[bc.Dir]++
	}
	for _, d := range cardinals {
		// R ray cells plus the shared origin
		if perDir[d]+1 != r+1 {
			t.Errorf("ray %d should touch %d cells including the origin, got %d", d, r+1, perDir[d]+1)
		}
	}
}

func TestBlastStopsAtWalls(t *testing.T) {
	e := newTestEngine(t)
	e.State.Grid.Tiles[6][9] = grid.WallHard // two cells right
	e.State.Grid.Tiles[4][7] = grid.WallSoft // two cells up
	score := e.State.Score

	b := addBomb(e, grid.Cell{X: 7, Y: 6}, 4, 0)
	e.explode(b)
	got := cellSet(e.State.Explosions[0].Cells)

	// Hard wall is exclusive
	if _, ok := got[grid.Cell{X: 9, Y: 6}]; ok {
		t.Error("hard wall cell should not be in the blast")
	}
	if bc, ok := got[grid.Cell{X: 8, Y: 6}]; !ok || !bc.Terminal {
		t.Error("(8,6) should end the right ray")
	}

	// Soft wall is inclusive and destroyed
	if bc, ok := got[grid.Cell{X: 7, Y: 4}]; !ok || !bc.Terminal {
		t.Error("soft wall at (7,4) should end the up ray")
	}
	if _, ok := got[grid.Cell{X: 7, Y: 3}]; ok {
		t.Error("blast should not pass the soft wall")
	}
	if e.State.Grid.At(grid.Cell{X: 7, Y: 4}) != grid.Empty {
		t.Error("soft wall should be destroyed")
	}
	if e.State.Score != score+e.Config.WallScore {
		t.Errorf("expected score %d, got %d", score+e.Config.WallScore, e.State.Score)
	}
	if e.State.Grid.At(grid.Cell{X: 9, Y: 6}) != grid.WallHard {
		t.Error("hard wall must survive")
	}
}

func TestChainReactionSameTick(t *testing.T) {
	e := newTestEngine(t)
	first := addBomb(e, grid.Cell{X: 5, Y: 3}, 2, time.Second)
	second := addBomb(e, grid.Cell{X: 7, Y: 3}, 2, time.Hour)

	e.Advance(time.Second)

	if len(e.State.Bombs) != 0 {
		t.Fatalf("both bombs should be gone after one tick, %d left", len(e.State.Bombs))
	}
	if len(e.State.Explosions) != 2 {
		t.Fatalf("expected 2 explosions, got %d", len(e.State.Explosions))
	}
	if !first.detonated || !second.detonated {
		t.Error("both bombs should be detonated")
	}

	// The first ray stops on the second bomb's cell
	got := cellSet(e.State.Explosions[0].Cells)
	if bc, ok := got[grid.Cell{X: 7, Y: 3}]; !ok || !bc.Terminal {
		t.Error("first blast should end on the chained bomb")
	}
	if second.Range != 2 || second.Fuse != time.Hour {
		t.Error("chaining must not change range or fuse")
	}
}

func TestDetonatesExactlyOnce(t *testing.T) {
	e := newTestEngine(t)
	b := addBomb(e, grid.Cell{X: 5, Y: 5}, 1, 0)
	e.explode(b)
	e.explode(b)
	if len(e.State.Explosions) != 1 {
		t.Errorf("expected a single explosion, got %d", len(e.State.Explosions))
	}
}

func TestBombInvariantAfterPlacement(t *testing.T) {
	e := newTestEngine(t)
	e.placeBomb()
	b := e.State.Bombs[0]
	fuse, rng := b.Fuse, b.Range

	e.applyPowerUp(FireUp)
	e.applyPowerUp(SuperBomb)
	e.Advance(500 * time.Millisecond)

	if b.Fuse != fuse || b.Range != rng {
		t.Errorf("fuse/range changed after placement: %v/%d -> %v/%d", fuse, rng, b.Fuse, b.Range)
	}
	if b.Timer != fuse-500*time.Millisecond {
		t.Errorf("expected timer %v, got %v", fuse-500*time.Millisecond, b.Timer)
	}
}

func TestExplosionExpires(t *testing.T) {
	e := newTestEngine(t)
	b := addBomb(e, grid.Cell{X: 9, Y: 5}, 1, 0)
	e.explode(b)

	e.tickBombs(e.Config.ExplosionDuration - time.Millisecond)
	if len(e.State.Explosions) != 1 {
		t.Fatal("explosion should still be live")
	}
	e.tickBombs(time.Millisecond)
	if len(e.State.Explosions) != 0 {
		t.Error("explosion should expire after its lifetime")
	}
}

func TestEnemyKilledByBlast(t *testing.T) {
	e := newTestEngine(t)
	en := addEnemy(e, grid.Cell{X: 7, Y: 5}, Walker)
	score, timeLeft := e.State.Score, e.State.TimeLeft

	addBomb(e, grid.Cell{X: 7, Y: 3}, 2, 0)
	e.tickBombs(time.Millisecond)

	if en.Alive {
		t.Fatal("enemy in the blast should die")
	}
	if e.State.Score != score+e.Config.EnemyScore {
		t.Errorf("expected score %d, got %d", score+e.Config.EnemyScore, e.State.Score)
	}
	if want := timeLeft + int(e.Config.EnemyTimeBonus/time.Second); e.State.TimeLeft != want {
		t.Errorf("expected %ds left, got %d", want, e.State.TimeLeft)
	}
}

func TestBossHitCooldown(t *testing.T) {
	e := newTestEngine(t)
	boss := addEnemy(e, grid.Cell{X: 7, Y: 5}, Chaser)
	boss.Boss = true
	boss.HP, boss.MaxHP = 3, 3
	boss.LastHitAt = -e.Config.BossHitCooldown

	e.explode(addBomb(e, grid.Cell{X: 7, Y: 4}, 1, 0))
	e.applyBlastDamage()
	e.applyBlastDamage()
	if boss.HP != 2 {
		t.Fatalf("re-hits inside the cooldown should be ignored, hp=%d", boss.HP)
	}

	e.State.Now += e.Config.BossHitCooldown
	e.applyBlastDamage()
	if boss.HP != 1 {
		t.Fatalf("hit after the cooldown should land, hp=%d", boss.HP)
	}

	score := e.State.Score
	e.State.Now += e.Config.BossHitCooldown
	e.applyBlastDamage()
	if boss.Alive {
		t.Fatal("boss should die at 0 hp")
	}
	if e.State.Score != score+e.Config.BossScore {
		t.Errorf("boss kill should award %d, got %d", e.Config.BossScore, e.State.Score-score)
	}
}

func TestPowerUpKindBuckets(t *testing.T) {
	cases := []struct {
		roll float64
		want PowerUpKind
	}{
		{0.0, BombUp},
		{0.3499, BombUp},
		{0.35, FireUp},
		{0.6499, FireUp},
		{0.65, SpeedUp},
		{0.8499, SpeedUp},
		{0.85, TimeBonus},
		{0.9499, TimeBonus},
		{0.95, SuperBomb},
		{0.9999, SuperBomb},
	}
	for _, tc := range cases {
		if got := powerUpKindFor(tc.roll); got != tc.want {
			t.Errorf("roll %v: expected %s, got %s", tc.roll, tc.want, got)
		}
	}

	// Uniform rolls: rarity increases BombUp < FireUp < SpeedUp < TimeBonus < SuperBomb
	counts := make(map[PowerUpKind]int)
	for i := 0; i < 1000; i++ {
		counts[powerUpKindFor(float64(i)/1000)]++
	}
	order := []PowerUpKind{BombUp, FireUp, SpeedUp, TimeBonus, SuperBomb}
	for i := 1; i < len(order); i++ {
		if counts[order[i]] >= counts[order[i-1]] {
			t.Errorf("%s (%d) should be rarer than %s (%d)", order[i], counts[order[i]], order[i-1], counts[order[i-1]])
		}
	}
}

func TestSoftWallDropsPowerUp(t *testing.T) {
	e := newTestEngine(t)
	e.State.Grid.Tiles[1][3] = grid.WallSoft
	// spawn roll, kind roll, cosmetic offset
	e.rng = &scriptRand{floats: []float64{0.1, 0.7, 0.25}}

	e.explode(addBomb(e, grid.Cell{X: 5, Y: 1}, 2, 0))

	if len(e.State.PowerUps) != 1 {
		t.Fatalf("expected a power-up drop, got %d", len(e.State.PowerUps))
	}
	pu := e.State.PowerUps[0]
	if pu.Cell != (grid.Cell{X: 3, Y: 1}) || pu.Kind != SpeedUp || pu.Offset != 0.25 {
		t.Errorf("unexpected power-up %+v", *pu)
	}
}

func TestSoftWallNoDropAboveChance(t *testing.T) {
	e := newTestEngine(t)
	e.State.Grid.Tiles[1][3] = grid.WallSoft
	e.rng = &scriptRand{floats: []float64{e.Config.PowerUpChance}}

	e.explode(addBomb(e, grid.Cell{X: 5, Y: 1}, 2, 0))
	if len(e.State.PowerUps) != 0 {
		t.Errorf("roll at the chance threshold should not drop, got %d", len(e.State.PowerUps))
	}
}
