package game

import (
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

type bulletHandler struct {
	g *Game
}

func (h *bulletHandler) Phase() system.Phase { return system.PhaseBullet }

// Execute ages every bullet on the grid: expired ones explode in place,
// the rest advance at their cadence.
func (h *bulletHandler) Execute() {
	g := h.g
	now := g.Clock()
	for _, b := range g.grid.EntitiesByKind(isBullet) {
		serial := b.Bullet.Serial
		if now-b.Bullet.SpawnTick >= g.opts.BulletLifetime {
			if g.grid.RemoveBullet(b.Pos, serial) {
				event.Emit(g.bus, event.BulletExploded{Serial: serial, Pos: b.Pos, Hit: world.KindAir, Tick: now})
			}
			continue
		}
		if now-b.Bullet.LastMoveTick < g.opts.BulletTicksPerMove {
			continue
		}
		g.reportBullet(g.grid.StepBullet(b.Pos, serial, now), serial, now)
	}
}

func isBullet(k world.Kind) bool { return k == world.KindBullet }

func (g *Game) reportBullet(res world.Result, serial uint64, now int64) {
	if res.Outcome != world.Exploded {
		return
	}
	event.Emit(g.bus, event.BulletExploded{Serial: serial, Pos: res.To, Hit: res.Occupant, Tick: now})
	if res.Occupant == world.KindPlayer {
		g.reportPlayerHit(world.KindBullet, res.Damage, now)
	}
}
