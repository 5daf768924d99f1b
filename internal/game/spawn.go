package game

import (
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// spawnAttempts bounds the random probes for a free cell per spawn.
const spawnAttempts = 20

type spawnHandler struct {
	g *Game
}

func (h *spawnHandler) Phase() system.Phase { return system.PhaseSpawn }

func (h *spawnHandler) Execute() {
	g := h.g
	now := g.Clock()
	if now-g.lastSpawn < g.opts.MobSpawnInterval {
		return
	}
	if g.grid.CountKind(world.Kind.IsMob) >= g.opts.MaxMobs {
		return
	}
	if _, ok := g.spawnMob(now); ok {
		g.lastSpawn = now
	}
}

// spawnMob places one mob of a random configured kind on a random Air
// cell. A boss is skipped while another boss lives.
func (g *Game) spawnMob(now int64) (world.ID, bool) {
	kind := g.opts.MobKinds[g.rng.Intn(len(g.opts.MobKinds))]
	if kind == world.KindBoss && g.grid.HasKind(world.KindBoss) {
		return 0, false
	}
	tmpl := g.deps.Mobs.Get(kind)
	for i := 0; i < spawnAttempts; i++ {
		p := g.randomInterior()
		id, ok := g.grid.SetWithIDIfAir(p, world.NewMob(kind, p, tmpl.Stats(), now))
		if ok {
			event.Emit(g.bus, event.MobSpawned{ID: id, Kind: kind, Pos: p, Tick: now})
			return id, true
		}
	}
	return 0, false
}

func (g *Game) randomInterior() world.Point {
	return world.Pt(1+g.rng.Intn(g.grid.Width()-2), 1+g.rng.Intn(g.grid.Height()-2))
}
