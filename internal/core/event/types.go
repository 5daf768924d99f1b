package event

import "github.com/l1jgo/arena/internal/world"

// Gameplay events. Emitted by handlers, consumed by stats and logging.

type MobSpawned struct {
	ID   world.ID
	Kind world.Kind
	Pos  world.Point
	Tick int64
}

type MobKilled struct {
	ID    world.ID
	Kind  world.Kind
	Pos   world.Point
	Score int
	Tick  int64
}

type PlayerHit struct {
	By     world.Kind
	Damage int
	HP     int
	Tick   int64
}

type ItemConsumed struct {
	Kind    world.Kind
	By      world.Kind
	Potency int
	Tick    int64
}

type ItemSpawned struct {
	Kind world.Kind
	Pos  world.Point
	Tick int64
}

type BulletFired struct {
	Serial uint64
	Dir    world.Direction
	Tick   int64
}

type BulletExploded struct {
	Serial uint64
	Pos    world.Point
	Hit    world.Kind
	Tick   int64
}
