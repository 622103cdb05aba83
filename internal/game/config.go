package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amalg/bomber-arena/internal/grid"
)

// Config holds the tuning parameters for a run.
type Config struct {
	// Arena
	Width         int       `yaml:"width" json:"width"`
	Height        int       `yaml:"height" json:"height"`
	TileSize      float64   `yaml:"tile_size" json:"tile_size"`           // Pixels per cell
	HitboxPadding float64   `yaml:"hitbox_padding" json:"hitbox_padding"` // Inset on every side of the hitbox
	Spawn         grid.Cell `yaml:"spawn" json:"spawn"`

	// Run
	Lives      int           `yaml:"lives" json:"lives"`
	FinalLevel int           `yaml:"final_level" json:"final_level"`
	LevelTime  time.Duration `yaml:"level_time" json:"level_time"`

	// Player
	StartMaxBombs   int           `yaml:"start_max_bombs" json:"start_max_bombs"`
	StartBlastRange int           `yaml:"start_blast_range" json:"start_blast_range"`
	MaxBombs        int           `yaml:"max_bombs" json:"max_bombs"`
	MaxBlastRange   int           `yaml:"max_blast_range" json:"max_blast_range"`
	PlayerSpeed     float64       `yaml:"player_speed" json:"player_speed"` // Pixels per second
	SpeedStep       float64       `yaml:"speed_step" json:"speed_step"`
	MaxPlayerSpeed  float64       `yaml:"max_player_speed" json:"max_player_speed"`
	Invulnerability time.Duration `yaml:"invulnerability" json:"invulnerability"`
	RespawnDelay    time.Duration `yaml:"respawn_delay" json:"respawn_delay"`
	ContactRadius   float64       `yaml:"contact_radius" json:"contact_radius"` // Player-enemy kill distance in pixels

	// Bombs and drops
	BombFuse          time.Duration `yaml:"bomb_fuse" json:"bomb_fuse"`
	ExplosionDuration time.Duration `yaml:"explosion_duration" json:"explosion_duration"`
	PowerUpChance     float64       `yaml:"power_up_chance" json:"power_up_chance"`
	TimeBonus         time.Duration `yaml:"time_bonus" json:"time_bonus"`

	// Scoring
	WallScore      int           `yaml:"wall_score" json:"wall_score"`
	PowerUpScore   int           `yaml:"power_up_score" json:"power_up_score"`
	EnemyScore     int           `yaml:"enemy_score" json:"enemy_score"`
	BossScore      int           `yaml:"boss_score" json:"boss_score"`
	EnemyTimeBonus time.Duration `yaml:"enemy_time_bonus" json:"enemy_time_bonus"`
	BossTimeBonus  time.Duration `yaml:"boss_time_bonus" json:"boss_time_bonus"`

	// Level generation
	SoftWallDensity     float64 `yaml:"soft_wall_density" json:"soft_wall_density"` // 0.0 to 1.0
	SoftWallDensityStep float64 `yaml:"soft_wall_density_step" json:"soft_wall_density_step"`
	MaxSoftWallDensity  float64 `yaml:"max_soft_wall_density" json:"max_soft_wall_density"`
	BaseEnemies         int     `yaml:"base_enemies" json:"base_enemies"`
	EnemiesPerLevel     int     `yaml:"enemies_per_level" json:"enemies_per_level"`
	MaxEnemies          int     `yaml:"max_enemies" json:"max_enemies"`
	SpawnMinDistance    int     `yaml:"spawn_min_distance" json:"spawn_min_distance"` // Manhattan, exclusive
	SpawnAttempts       int     `yaml:"spawn_attempts" json:"spawn_attempts"`         // Per enemy
	ChaserChance        float64 `yaml:"chaser_chance" json:"chaser_chance"`
	ChaserChanceStep    float64 `yaml:"chaser_chance_step" json:"chaser_chance_step"`
	MaxChaserChance     float64 `yaml:"max_chaser_chance" json:"max_chaser_chance"`

	// Bosses
	BossFromLevel   int           `yaml:"boss_from_level" json:"boss_from_level"`
	BossChance      float64       `yaml:"boss_chance" json:"boss_chance"`
	BossHP          int           `yaml:"boss_hp" json:"boss_hp"`
	BossHitCooldown time.Duration `yaml:"boss_hit_cooldown" json:"boss_hit_cooldown"`
	BossSpeedFactor float64       `yaml:"boss_speed_factor" json:"boss_speed_factor"`
	BossReplanDelay time.Duration `yaml:"boss_replan_delay" json:"boss_replan_delay"`

	// Enemy difficulty ramp
	EnemySpeed            float64       `yaml:"enemy_speed" json:"enemy_speed"`
	EnemySpeedStep        float64       `yaml:"enemy_speed_step" json:"enemy_speed_step"`
	EnemySpeedFromLevel   int           `yaml:"enemy_speed_from_level" json:"enemy_speed_from_level"`
	MaxEnemySpeed         float64       `yaml:"max_enemy_speed" json:"max_enemy_speed"`
	ReactionTime          time.Duration `yaml:"reaction_time" json:"reaction_time"`
	FastReactionFromLevel int           `yaml:"fast_reaction_from_level" json:"fast_reaction_from_level"`
	ReactionStep          time.Duration `yaml:"reaction_step" json:"reaction_step"`
	MinReactionTime       time.Duration `yaml:"min_reaction_time" json:"min_reaction_time"`
	ReplanJitter          time.Duration `yaml:"replan_jitter" json:"replan_jitter"`
}

// DefaultConfig returns a sensible default game configuration.
func DefaultConfig() Config {
	return Config{
		Width:         15,
		Height:        13,
		TileSize:      40,
		HitboxPadding: 6,
		Spawn:         grid.Cell{X: 1, Y: 1},

		Lives:      3,
		FinalLevel: 8,
		LevelTime:  180 * time.Second,

		StartMaxBombs:   1,
		StartBlastRange: 2,
		MaxBombs:        8,
		MaxBlastRange:   8,
		PlayerSpeed:     150,
		SpeedStep:       25,
		MaxPlayerSpeed:  250,
		Invulnerability: 2 * time.Second,
		RespawnDelay:    1500 * time.Millisecond,
		ContactRadius:   24,

		BombFuse:          2 * time.Second,
		ExplosionDuration: 500 * time.Millisecond,
		PowerUpChance:     0.3,
		TimeBonus:         30 * time.Second,

		WallScore:      10,
		PowerUpScore:   50,
		EnemyScore:     100,
		BossScore:      500,
		EnemyTimeBonus: 5 * time.Second,
		BossTimeBonus:  25 * time.Second,

		SoftWallDensity:     0.3,
		SoftWallDensityStep: 0.03,
		MaxSoftWallDensity:  0.6,
		BaseEnemies:         3,
		EnemiesPerLevel:     1,
		MaxEnemies:          10,
		SpawnMinDistance:    8,
		SpawnAttempts:       50,
		ChaserChance:        0.2,
		ChaserChanceStep:    0.08,
		MaxChaserChance:     0.7,

		BossFromLevel:   3,
		BossChance:      0.15,
		BossHP:          3,
		BossHitCooldown: 800 * time.Millisecond,
		BossSpeedFactor: 0.75,
		BossReplanDelay: 400 * time.Millisecond,

		EnemySpeed:            90,
		EnemySpeedStep:        10,
		EnemySpeedFromLevel:   3,
		MaxEnemySpeed:         160,
		ReactionTime:          800 * time.Millisecond,
		FastReactionFromLevel: 5,
		ReactionStep:          100 * time.Millisecond,
		MinReactionTime:       300 * time.Millisecond,
		ReplanJitter:          200 * time.Millisecond,
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Keys absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the simulation cannot run with.
func (c Config) Validate() error {
	if c.Width < 5 || c.Height < 5 {
		return fmt.Errorf("arena must be at least 5x5, got %dx%d", c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive, got %v", c.TileSize)
	}
	if c.HitboxPadding <= 0 || c.HitboxPadding >= c.TileSize/2 {
		return fmt.Errorf("hitbox_padding must be in (0, %v), got %v", c.TileSize/2, c.HitboxPadding)
	}
	if c.Spawn.X < 1 || c.Spawn.Y < 1 || c.Spawn.X > c.Width-2 || c.Spawn.Y > c.Height-2 {
		return fmt.Errorf("spawn %v must be inside the border", c.Spawn)
	}
	if c.Lives < 1 {
		return fmt.Errorf("lives must be at least 1, got %d", c.Lives)
	}
	if c.FinalLevel < 1 {
		return fmt.Errorf("final_level must be at least 1, got %d", c.FinalLevel)
	}
	if c.LevelTime < time.Second {
		return fmt.Errorf("level_time must be at least 1s, got %v", c.LevelTime)
	}
	if c.BombFuse <= 0 || c.ExplosionDuration <= 0 {
		return fmt.Errorf("bomb_fuse and explosion_duration must be positive")
	}
	if c.StartMaxBombs < 1 || c.StartMaxBombs > c.MaxBombs {
		return fmt.Errorf("start_max_bombs must be in [1, %d], got %d", c.MaxBombs, c.StartMaxBombs)
	}
	if c.StartBlastRange < 1 || c.StartBlastRange > c.MaxBlastRange {
		return fmt.Errorf("start_blast_range must be in [1, %d], got %d", c.MaxBlastRange, c.StartBlastRange)
	}
	if c.PlayerSpeed <= 0 || c.EnemySpeed <= 0 {
		return fmt.Errorf("player_speed and enemy_speed must be positive")
	}
	for name, p := range map[string]float64{
		"soft_wall_density":     c.SoftWallDensity,
		"max_soft_wall_density": c.MaxSoftWallDensity,
		"power_up_chance":       c.PowerUpChance,
		"chaser_chance":         c.ChaserChance,
		"max_chaser_chance":     c.MaxChaserChance,
		"boss_chance":           c.BossChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, p)
		}
	}
	if c.SpawnAttempts < 1 {
		return fmt.Errorf("spawn_attempts must be at least 1, got %d", c.SpawnAttempts)
	}
	if c.BaseEnemies < 0 || c.MaxEnemies < 0 {
		return fmt.Errorf("enemy counts cannot be negative")
	}
	if c.BossHP < 1 {
		return fmt.Errorf("boss_hp must be at least 1, got %d", c.BossHP)
	}
	return nil
}

// canvas returns the largest top-left coordinate an entity may occupy.
func (c Config) canvas() Vec {
	return Vec{X: float64(c.Width-1) * c.TileSize, Y: float64(c.Height-1) * c.TileSize}
}
