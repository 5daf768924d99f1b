package game

import (
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// blinkDivisor: items blink once a quarter of their lifetime remains.
const blinkDivisor = 4

type collectibleHandler struct {
	g *Game
}

func (h *collectibleHandler) Phase() system.Phase { return system.PhaseCollectible }

func (h *collectibleHandler) Execute() {
	g := h.g
	now := g.Clock()
	live := 0
	for _, it := range g.grid.EntitiesByKind(world.Kind.IsCollectible) {
		spawn, kind := it.Item.SpawnTick, it.Kind
		same := func(e world.Entity) bool { return e.Kind == kind && e.Item.SpawnTick == spawn }
		if it.Item.Consumed || it.Item.Expired(now) {
			g.grid.RemoveIf(it.Pos, same)
			continue
		}
		live++
		blink := it.Item.Remaining(now)*blinkDivisor <= it.Item.Lifetime
		if blink != it.Item.Blinking {
			g.grid.Update(it.Pos, func(e *world.Entity) {
				if same(*e) {
					e.Item.Blinking = blink
				}
			})
		}
	}

	if g.deps.Collectibles == nil || live >= g.opts.MaxCollectibles {
		return
	}
	if g.rng.Intn(1000) >= g.deps.Formulas.CollectibleChance(now, live) {
		return
	}
	g.spawnCollectible(now)
}

// spawnCollectible rolls an item from the catalog onto a random Air cell.
func (g *Game) spawnCollectible(now int64) bool {
	tmpl, potency, lifetime := g.deps.Collectibles.Roll(g.rng)
	if tmpl == nil {
		return false
	}
	for i := 0; i < spawnAttempts; i++ {
		p := g.randomInterior()
		if g.grid.SetIfAir(p, world.NewCollectible(tmpl.Kind, p, potency, lifetime, now)) {
			event.Emit(g.bus, event.ItemSpawned{Kind: tmpl.Kind, Pos: p, Tick: now})
			return true
		}
	}
	return false
}
