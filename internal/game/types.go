package game

import (
	"math"
	"time"

	"github.com/amalg/bomber-arena/internal/grid"
)

// EntityID is a stable identifier handed out by the engine for every bomb,
// explosion, power-up and enemy it creates. Zero is never issued.
type EntityID uint64

// Direction represents a movement direction.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// cardinals lists the blast ray directions in detonation order.
var cardinals = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit grid step for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Vec is a continuous position or direction in pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// dirOf picks the dominant cardinal direction of v for presentation.
func dirOf(v Vec) Direction {
	switch {
	case v.X == 0 && v.Y == 0:
		return DirNone
	case math.Abs(v.X) >= math.Abs(v.Y) && v.X > 0:
		return DirRight
	case math.Abs(v.X) >= math.Abs(v.Y):
		return DirLeft
	case v.Y > 0:
		return DirDown
	default:
		return DirUp
	}
}

// Intent is one poll of the abstract input device.
type Intent struct {
	Up        bool
	Down      bool
	Left      bool
	Right     bool
	PlaceBomb bool
}

// Vector converts held directions into a movement vector. Opposing keys
// cancel and diagonals are scaled so their length matches an axial move.
func (in Intent) Vector() Vec {
	var v Vec
	if in.Left {
		v.X--
	}
	if in.Right {
		v.X++
	}
	if in.Up {
		v.Y--
	}
	if in.Down {
		v.Y++
	}
	if v.X != 0 && v.Y != 0 {
		v.X *= math.Sqrt2 / 2
		v.Y *= math.Sqrt2 / 2
	}
	return v
}

// IntentSource is polled once per tick for the player's input.
type IntentSource interface {
	Poll() Intent
}

// Rand is the random source behind every generated or rolled value
// (grid density, enemy placement, power-up drops, AI jitter).
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Player is the single human-controlled entity. It is created once per run
// and repositioned on level start and respawn.
type Player struct {
	Pos               Vec           `json:"pos"` // Top-left corner in pixels
	Dir               Direction     `json:"dir"`
	Alive             bool          `json:"alive"`
	MaxBombs          int           `json:"max_bombs"`    // Max simultaneous bombs
	ActiveBombs       int           `json:"active_bombs"` // Currently live bombs
	BlastRange        int           `json:"blast_range"`  // Explosion range in tiles
	Speed             float64       `json:"speed"`        // Pixels per second
	InvulnerableUntil time.Duration `json:"invulnerable_until"`
	RespawnAt         time.Duration `json:"respawn_at"`
}

// OwnerPlayer tags bombs placed by the player.
const OwnerPlayer = "player"

// Bomb represents a live bomb on the grid.
type Bomb struct {
	ID      EntityID      `json:"id"`
	OwnerID string        `json:"owner_id"`
	Cell    grid.Cell     `json:"cell"`
	Range   int           `json:"range"`
	Fuse    time.Duration `json:"fuse"`
	Timer   time.Duration `json:"timer"` // Remaining until detonation

	detonated bool
}

// BlastCell is one cell touched by an explosion.
type BlastCell struct {
	Cell     grid.Cell `json:"cell"`
	Dir      Direction `json:"dir"`      // DirNone for the origin
	Terminal bool      `json:"terminal"` // Last cell of its ray
}

// Explosion is the damaging aftermath of a detonation. It never blocks movement.
type Explosion struct {
	ID        EntityID      `json:"id"`
	Origin    grid.Cell     `json:"origin"`
	Cells     []BlastCell   `json:"cells"`
	Remaining time.Duration `json:"remaining"`
}

// PowerUpKind identifies a collectible's effect.
type PowerUpKind int

const (
	BombUp PowerUpKind = iota
	FireUp
	SpeedUp
	SuperBomb
	TimeBonus
)

func (k PowerUpKind) String() string {
	switch k {
	case BombUp:
		return "bomb-up"
	case FireUp:
		return "fire-up"
	case SpeedUp:
		return "speed-up"
	case SuperBomb:
		return "super-bomb"
	case TimeBonus:
		return "time-bonus"
	}
	return "unknown"
}

// PowerUp is a collectible left behind by a destroyed soft wall.
type PowerUp struct {
	ID     EntityID    `json:"id"`
	Cell   grid.Cell   `json:"cell"`
	Kind   PowerUpKind `json:"kind"`
	Offset float64     `json:"offset"` // Cosmetic phase in [0,1)
}

// EnemyKind selects an enemy's targeting behaviour.
type EnemyKind int

const (
	Walker EnemyKind = iota // Wanders between nearby cells
	Chaser                  // Hunts the player
)

// Enemy is an AI-driven adversary.
type Enemy struct {
	ID        EntityID      `json:"id"`
	Kind      EnemyKind     `json:"kind"`
	Boss      bool          `json:"boss"`
	Pos       Vec           `json:"pos"`
	Dir       Direction     `json:"dir"`
	Speed     float64       `json:"speed"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"max_hp"`
	LastHitAt time.Duration `json:"last_hit_at"`
	Path      []grid.Cell   `json:"path"`      // Remaining cells to walk, next first
	ReplanIn  time.Duration `json:"replan_in"` // Countdown until the next replan
	Alive     bool          `json:"alive"`
}

// Status represents the current run phase.
type Status int

const (
	StatusInitializing  Status = iota // Building a level
	StatusPlaying                     // Level in progress
	StatusLevelComplete               // Waiting for acknowledgement
	StatusGameOver                    // Out of lives or time
	StatusVictory                     // Final level cleared
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusPlaying:
		return "playing"
	case StatusLevelComplete:
		return "level-complete"
	case StatusGameOver:
		return "game-over"
	case StatusVictory:
		return "victory"
	}
	return "unknown"
}

// Terminal reports whether the run has ended.
func (s Status) Terminal() bool {
	return s == StatusGameOver || s == StatusVictory
}

// State is the authoritative simulation state, owned by the Engine.
type State struct {
	Grid       *grid.Grid    `json:"grid"`
	Player     *Player       `json:"player"`
	Bombs      []*Bomb       `json:"bombs"`
	Explosions []*Explosion  `json:"explosions"`
	PowerUps   []*PowerUp    `json:"power_ups"`
	Enemies    []*Enemy      `json:"enemies"`
	Level      int           `json:"level"`
	Score      int           `json:"score"`
	Lives      int           `json:"lives"`
	TimeLeft   int           `json:"time_left"` // Whole seconds
	Status     Status        `json:"status"`
	Now        time.Duration `json:"now"` // Simulation clock
}

// Stats is the per-tick snapshot pushed to collaborators.
type Stats struct {
	Score    int `json:"score"`
	Lives    int `json:"lives"`
	Level    int `json:"level"`
	TimeLeft int `json:"time_left"`
}
