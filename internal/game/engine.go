package game

import (
	"log"
	"math/rand"
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

// Engine is the single-threaded simulation core. An external driver calls
// Advance once per frame; nothing inside the engine blocks or spawns
// goroutines, so callers must not use an Engine from more than one goroutine.
type Engine struct {
	State  *State
	Config Config

	rng    Rand
	input  IntentSource
	nextID EntityID

	paused        bool
	prevPlaceBomb bool
	secondAcc     time.Duration

	onStats         func(Stats)
	onTerminal      func(victory bool)
	onLevelComplete func(level int)
}

// NewEngine creates an engine in StatusInitializing. A nil rng falls back to a
// time-seeded source; pass a seeded one for reproducible runs.
func NewEngine(config Config, rng Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		Config: config,
		rng:    rng,
	}
	e.resetState()
	return e
}

// SetInput registers the source polled for player intent on every tick.
func (e *Engine) SetInput(src IntentSource) {
	e.input = src
}

// OnStats sets a callback invoked after every tick with the run counters.
func (e *Engine) OnStats(fn func(Stats)) {
	e.onStats = fn
}

// OnTerminal sets a callback fired once when the run ends.
func (e *Engine) OnTerminal(fn func(victory bool)) {
	e.onTerminal = fn
}

// OnLevelComplete sets a callback fired once each time a level is cleared.
func (e *Engine) OnLevelComplete(fn func(level int)) {
	e.onLevelComplete = fn
}

// Start builds the first level if the run has not begun and resumes ticking.
func (e *Engine) Start() {
	e.paused = false
	if e.State.Status == StatusInitializing {
		e.startLevel()
	}
}

// Pause freezes or resumes the simulation.
func (e *Engine) Pause(paused bool) {
	e.paused = paused
}

// Paused reports whether ticking is suspended.
func (e *Engine) Paused() bool {
	return e.paused
}

// Reset discards the current run and starts again at level 1 with full lives.
func (e *Engine) Reset() {
	e.resetState()
	e.paused = false
	e.startLevel()
}

// AcknowledgeLevelComplete moves from StatusLevelComplete to the next level,
// granting a bonus life, or to StatusVictory after the final level.
func (e *Engine) AcknowledgeLevelComplete() {
	if e.State.Status != StatusLevelComplete {
		return
	}
	if e.State.Level >= e.Config.FinalLevel {
		e.finish(true)
		return
	}
	e.State.Level++
	e.State.Lives++
	e.startLevel()
}

// Advance runs one simulation tick covering elapsed time. It does nothing
// while paused or outside StatusPlaying.
func (e *Engine) Advance(elapsed time.Duration) {
	if e.paused || e.State.Status != StatusPlaying || elapsed < 0 {
		return
	}
	e.tick(elapsed)
}

// tick processes one frame in a fixed order: movement, bombs, enemies,
// pickups and contact, timer, win check, stats.
func (e *Engine) tick(elapsed time.Duration) {
	e.State.Now += elapsed

	p := e.State.Player
	if !p.Alive && e.State.Now >= p.RespawnAt {
		e.respawnPlayer()
	}

	var in Intent
	if e.input != nil {
		in = e.input.Poll()
	}
	e.movePlayer(in, elapsed)
	if in.PlaceBomb && !e.prevPlaceBomb {
		e.placeBomb()
	}
	e.prevPlaceBomb = in.PlaceBomb

	e.tickBombs(elapsed)
	e.tickEnemies(elapsed)

	e.collectPowerUps()
	e.checkEnemyContact()
	e.tickTimer(elapsed)
	e.checkWinCondition()

	if e.onStats != nil {
		e.onStats(e.Stats())
	}
}

// checkEnemyContact kills the player when an enemy comes within ContactRadius.
func (e *Engine) checkEnemyContact() {
	p := e.State.Player
	if !p.Alive || e.State.Now < p.InvulnerableUntil {
		return
	}
	limit := e.Config.ContactRadius * e.Config.ContactRadius
	for _, en := range e.State.Enemies {
		if en.Alive && en.Pos.Sub(p.Pos).LenSq() < limit {
			e.killPlayer()
			return
		}
	}
}

// tickTimer counts the level clock down once per whole elapsed second.
func (e *Engine) tickTimer(elapsed time.Duration) {
	e.secondAcc += elapsed
	for e.secondAcc >= time.Second {
		e.secondAcc -= time.Second
		e.State.TimeLeft--
	}
	if e.State.TimeLeft <= 0 {
		e.State.TimeLeft = 0
		if e.State.Player.Alive {
			e.finish(false)
		}
	}
}

// killPlayer takes a life unless the player is invulnerable or already down.
// The respawn happens on a later tick once RespawnDelay has passed.
func (e *Engine) killPlayer() {
	p := e.State.Player
	if !p.Alive || e.State.Now < p.InvulnerableUntil || e.State.Status != StatusPlaying {
		return
	}

	p.Alive = false
	e.State.Lives--
	if e.State.Lives <= 0 {
		e.State.Lives = 0
		e.finish(false)
		return
	}
	p.RespawnAt = e.State.Now + e.Config.RespawnDelay
}

// checkWinCondition enters StatusLevelComplete once the level is cleared.
func (e *Engine) checkWinCondition() {
	if e.State.Status != StatusPlaying || len(e.State.Enemies) > 0 {
		return
	}
	e.State.Status = StatusLevelComplete
	log.Printf("[ENGINE] Level %d complete, score %d", e.State.Level, e.State.Score)
	if e.onLevelComplete != nil {
		e.onLevelComplete(e.State.Level)
	}
}

// finish ends the run. Only the first call has any effect.
func (e *Engine) finish(victory bool) {
	if e.State.Status.Terminal() {
		return
	}
	e.State.Status = StatusGameOver
	if victory {
		e.State.Status = StatusVictory
	}
	log.Printf("[ENGINE] Run over at level %d: %s, score %d", e.State.Level, e.State.Status, e.State.Score)
	if e.onTerminal != nil {
		e.onTerminal(victory)
	}
}

// Status reports the run's current state.
func (e *Engine) Status() Status {
	return e.State.Status
}

// Stats returns the current run counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Score:    e.State.Score,
		Lives:    e.State.Lives,
		Level:    e.State.Level,
		TimeLeft: e.State.TimeLeft,
	}
}

// CellOf returns the cell under the centre of an entity drawn at pos.
func (e *Engine) CellOf(pos Vec) grid.Cell {
	return e.cellOf(pos)
}

func (e *Engine) newID() EntityID {
	e.nextID++
	return e.nextID
}

// resetState creates a fresh run at level 1. The player is created here and
// only repositioned afterwards.
func (e *Engine) resetState() {
	cfg := e.Config
	e.State = &State{
		Player: &Player{
			MaxBombs:   cfg.StartMaxBombs,
			BlastRange: cfg.StartBlastRange,
			Speed:      cfg.PlayerSpeed,
		},
		Bombs:      make([]*Bomb, 0),
		Explosions: make([]*Explosion, 0),
		PowerUps:   make([]*PowerUp, 0),
		Enemies:    make([]*Enemy, 0),
		Level:      1,
		Lives:      cfg.Lives,
		Status:     StatusInitializing,
	}
	e.prevPlaceBomb = false
	e.secondAcc = 0
}

// Snapshot returns a deep copy of the state for read-only collaborators.
func (e *Engine) Snapshot() State {
	s := *e.State
	if s.Grid != nil {
		s.Grid = s.Grid.Clone()
	}

	player := *e.State.Player
	s.Player = &player

	s.Bombs = make([]*Bomb, len(e.State.Bombs))
	for i, b := range e.State.Bombs {
		cb := *b
		s.Bombs[i] = &cb
	}

	s.Explosions = make([]*Explosion, len(e.State.Explosions))
	for i, ex := range e.State.Explosions {
		cx := *ex
		cx.Cells = append([]BlastCell(nil), ex.Cells...)
		s.Explosions[i] = &cx
	}

	s.PowerUps = make([]*PowerUp, len(e.State.PowerUps))
	for i, pu := range e.State.PowerUps {
		cp := *pu
		s.PowerUps[i] = &cp
	}

	s.Enemies = make([]*Enemy, len(e.State.Enemies))
	for i, en := range e.State.Enemies {
		ce := *en
		ce.Path = append([]grid.Cell(nil), en.Path...)
		s.Enemies[i] = &ce
	}
	return s
}
