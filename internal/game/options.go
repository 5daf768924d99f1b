package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/world"
)

// ErrNoMobKinds is returned when Options names no spawnable mob kind.
var ErrNoMobKinds = errors.New("game: no mob kinds to spawn")

// Options configures one game. It is not modified once the game starts.
type Options struct {
	PlayerHP         int
	PlayerDamage     int
	MobKinds         []world.Kind
	MaxMobs          int
	MobSpawnInterval int64 // ticks

	// Arena is an optional pre-built grid, e.g. from a map file. When nil a
	// walled Width x Height grid is created.
	Arena  *world.Grid
	Width  int
	Height int

	TickRate           time.Duration
	MaxCollectibles    int
	ShootCooldown      int64 // ticks between player shots
	BulletLifetime     int64 // ticks
	BulletTicksPerMove int64
	Seed               int64 // 0 = time based
	MinScore           int
}

// DefaultOptions mirrors the easy preset on the default 102x32 arena.
func DefaultOptions() Options {
	return Options{
		PlayerHP:           100,
		PlayerDamage:       1,
		MobKinds:           []world.Kind{world.KindZombie},
		MaxMobs:            10,
		MobSpawnInterval:   100,
		Width:              102,
		Height:             32,
		TickRate:           20 * time.Millisecond,
		MaxCollectibles:    5,
		ShootCooldown:      10,
		BulletLifetime:     150,
		BulletTicksPerMove: 2,
	}
}

// Validate reports the first configuration problem.
func (o Options) Validate() error {
	if len(o.MobKinds) == 0 {
		return ErrNoMobKinds
	}
	for _, k := range o.MobKinds {
		if !k.IsMob() {
			return fmt.Errorf("game: %s is not a mob kind", k)
		}
	}
	if o.PlayerHP <= 0 {
		return fmt.Errorf("game: player hp must be positive, got %d", o.PlayerHP)
	}
	if o.PlayerDamage < 0 {
		return fmt.Errorf("game: player damage must not be negative, got %d", o.PlayerDamage)
	}
	if o.MaxMobs <= 0 {
		return fmt.Errorf("game: max mobs must be positive, got %d", o.MaxMobs)
	}
	if o.MobSpawnInterval <= 0 {
		return fmt.Errorf("game: mob spawn interval must be positive, got %d", o.MobSpawnInterval)
	}
	if o.Arena == nil && (o.Width < world.MinSize || o.Height < world.MinSize) {
		return fmt.Errorf("game: arena %dx%d is smaller than %dx%d", o.Width, o.Height, world.MinSize, world.MinSize)
	}
	if o.TickRate <= 0 {
		return fmt.Errorf("game: tick rate must be positive")
	}
	if o.BulletLifetime <= 0 || o.BulletTicksPerMove <= 0 {
		return fmt.Errorf("game: bullet lifetime and speed must be positive")
	}
	if o.MaxCollectibles < 0 || o.ShootCooldown < 0 {
		return fmt.Errorf("game: negative collectible cap or shoot cooldown")
	}
	return nil
}
