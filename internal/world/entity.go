package world

import "fmt"

// Kind is the closed set of entity variants a grid cell can hold.
type Kind uint8

const (
	KindAir Kind = iota
	KindWall
	KindPlayer
	KindZombie
	KindTroll
	KindBabyZombie
	KindMonster
	KindBoss
	KindBullet
	KindEnergyDrink
	KindStrengthPotion
	KindShield
)

var kindNames = map[Kind]string{
	KindAir:            "air",
	KindWall:           "wall",
	KindPlayer:         "player",
	KindZombie:         "zombie",
	KindTroll:          "troll",
	KindBabyZombie:     "baby_zombie",
	KindMonster:        "monster",
	KindBoss:           "boss",
	KindBullet:         "bullet",
	KindEnergyDrink:    "energy_drink",
	KindStrengthPotion: "strength_potion",
	KindShield:         "shield",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a catalog name ("zombie", "energy_drink", ...) to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return KindAir, fmt.Errorf("unknown entity kind %q", name)
}

// IsMob reports whether k is a hostile mob.
func (k Kind) IsMob() bool { return k >= KindZombie && k <= KindBoss }

// IsActor reports whether k carries hit points (player or mob).
func (k Kind) IsActor() bool { return k == KindPlayer || k.IsMob() }

// IsCollectible reports whether k is a pick-up item.
func (k Kind) IsCollectible() bool { return k >= KindEnergyDrink && k <= KindShield }

// Tracked reports whether entities of kind k live in the identity index.
func (k Kind) Tracked() bool { return k.IsActor() }

// MobKinds lists every mob kind in declaration order.
func MobKinds() []Kind {
	return []Kind{KindZombie, KindTroll, KindBabyZombie, KindMonster, KindBoss}
}

// CollectibleKinds lists every collectible kind in declaration order.
func CollectibleKinds() []Kind {
	return []Kind{KindEnergyDrink, KindStrengthPotion, KindShield}
}

// ID is a stable identity for tracked entities. IDs are handed out in
// increasing order starting at 0; the player always owns ID 0.
type ID uint64

// PlayerID is the identity reserved for the player.
const PlayerID ID = 0

// Actor is the state shared by the player and mobs.
type Actor struct {
	HP           int
	MaxHP        int
	Damage       int
	KillScore    int
	TicksPerMove int64
	LastMoveTick int64
	ShieldUntil  int64
	Shielded     bool
	// Path is nearest-first, excludes the actor's own cell and ends at Target.
	Path   []Point
	Target Point
}

// Bullet is the state of a projectile.
type Bullet struct {
	Serial       uint64
	Damage       int
	Dir          Direction
	SpawnTick    int64
	LastMoveTick int64
	Exploded     bool
	Placed       bool
}

// Collectible is the state of a pick-up item.
type Collectible struct {
	SpawnTick int64
	Lifetime  int64
	Potency   int
	Consumed  bool
	Blinking  bool
}

// Expired reports whether the item's lifetime has elapsed at tick now.
func (c Collectible) Expired(now int64) bool {
	return now-c.SpawnTick >= c.Lifetime
}

// Remaining returns the ticks left before the item expires.
func (c Collectible) Remaining(now int64) int64 {
	r := c.Lifetime - (now - c.SpawnTick)
	if r < 0 {
		return 0
	}
	return r
}

// Entity is the value stored in a grid cell. Only the sub-record matching
// Kind is meaningful. Values handed out by the Grid are copies; mutate the
// grid through its methods.
type Entity struct {
	Kind    Kind
	Pos     Point
	ID      ID
	Tracked bool
	Glyph   Glyph
	Actor   Actor
	Bullet  Bullet
	Item    Collectible
}

// Air is the empty-space entity.
func Air(p Point) Entity {
	return Entity{Kind: KindAir, Pos: p, Glyph: DefaultGlyph(KindAir)}
}

// Wall is an impassable block.
func Wall(p Point) Entity {
	return Entity{Kind: KindWall, Pos: p, Glyph: DefaultGlyph(KindWall)}
}

// NewPlayer builds the player entity with hp hit points.
func NewPlayer(p Point, hp, damage int) Entity {
	return Entity{
		Kind:  KindPlayer,
		Pos:   p,
		Glyph: DefaultGlyph(KindPlayer),
		Actor: Actor{HP: hp, MaxHP: hp, Damage: damage},
	}
}

// MobStats are the per-kind constants a mob is built from.
type MobStats struct {
	HP           int
	Damage       int
	KillScore    int
	TicksPerMove int64
}

// NewMob builds a mob of kind k. lastMove is normally the spawn tick so the
// mob waits one full cooldown before its first step.
func NewMob(k Kind, p Point, st MobStats, lastMove int64) Entity {
	return Entity{
		Kind:  k,
		Pos:   p,
		Glyph: DefaultGlyph(k),
		Actor: Actor{
			HP:           st.HP,
			MaxHP:        st.HP,
			Damage:       st.Damage,
			KillScore:    st.KillScore,
			TicksPerMove: st.TicksPerMove,
			LastMoveTick: lastMove,
		},
	}
}

// NewBullet builds a projectile heading in dir.
func NewBullet(p Point, serial uint64, damage int, dir Direction, now int64) Entity {
	return Entity{
		Kind:  KindBullet,
		Pos:   p,
		Glyph: DefaultGlyph(KindBullet),
		Bullet: Bullet{
			Serial:       serial,
			Damage:       damage,
			Dir:          dir,
			SpawnTick:    now,
			LastMoveTick: now,
		},
	}
}

// NewCollectible builds a pick-up item of kind k.
func NewCollectible(k Kind, p Point, potency int, lifetime, now int64) Entity {
	return Entity{
		Kind:  k,
		Pos:   p,
		Glyph: DefaultGlyph(k),
		Item:  Collectible{SpawnTick: now, Lifetime: lifetime, Potency: potency},
	}
}

// clone returns a deep copy so callers never share the path backing array
// with the grid.
func (e Entity) clone() Entity {
	if e.Actor.Path != nil {
		e.Actor.Path = append([]Point(nil), e.Actor.Path...)
	}
	return e
}

// takeDamage subtracts amount from the actor's HP. Negative amounts heal.
// Positive damage is ignored while a shield is active.
func (e *Entity) takeDamage(amount int, now int64) int {
	if amount > 0 && now < e.Actor.ShieldUntil {
		e.Actor.Shielded = true
		return 0
	}
	e.Actor.HP -= amount
	return amount
}

// applyItem grants the effect of collectible item to the actor.
func (e *Entity) applyItem(item Entity, now int64) {
	switch item.Kind {
	case KindEnergyDrink:
		e.takeDamage(-item.Item.Potency, now)
	case KindStrengthPotion:
		e.Actor.Damage += item.Item.Potency
	case KindShield:
		until := now + int64(item.Item.Potency)
		if until > e.Actor.ShieldUntil {
			e.Actor.ShieldUntil = until
		}
		e.Actor.Shielded = true
	}
}
