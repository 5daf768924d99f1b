package nav

import "github.com/l1jgo/arena/internal/world"

// CriticalHP is the hit-point level at which a mob stops chasing and goes
// for items instead.
const CriticalHP = 1

// SelectTarget picks the cell mob should head for. Normally that is the
// player; a critically wounded mob prefers the nearest collectible that is
// strictly closer (Manhattan) than the player.
func SelectTarget(mob world.Entity, player world.Point, items []world.Entity) world.Point {
	target := player
	if mob.Actor.HP != CriticalHP {
		return target
	}
	best := world.Manhattan(mob.Pos, player)
	for _, it := range items {
		if d := world.Manhattan(mob.Pos, it.Pos); d < best {
			best = d
			target = it.Pos
		}
	}
	return target
}

// Plan selects a target for mob and computes the path toward it.
func Plan(cells CellReader, mob world.Entity, player world.Point, items []world.Entity) ([]world.Point, world.Point) {
	target := SelectTarget(mob, player, items)
	return FindPath(cells, mob.Pos, target), target
}
