package game

import (
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/nav"
	"github.com/l1jgo/arena/internal/world"
)

type mobMoveHandler struct {
	g *Game
}

func (h *mobMoveHandler) Phase() system.Phase { return system.PhaseMobMove }

func (h *mobMoveHandler) Execute() {
	g := h.g
	now := g.Clock()
	g.grid.RefreshShields(now)
	g.reapMobs(now)

	playerPos, ok := g.grid.PosOf(world.PlayerID)
	if !ok {
		return
	}
	mobs := g.liveMobs()

	recompute := playerPos != g.lastPlayerPos || len(mobs) != g.lastMobCount
	g.lastPlayerPos, g.lastMobCount = playerPos, len(mobs)

	var items []world.Entity
	if recompute {
		items = g.grid.EntitiesByKind(world.Kind.IsCollectible)
	}
	for _, m := range mobs {
		if now-m.Actor.LastMoveTick < m.Actor.TicksPerMove {
			if recompute {
				g.plan(m, playerPos, items)
			}
			continue
		}
		// A mob that lost its route replans when it is ready to move.
		if recompute || len(m.Actor.Path) == 0 {
			if items == nil {
				items = g.grid.EntitiesByKind(world.Kind.IsCollectible)
			}
			g.plan(m, playerPos, items)
		}
		g.report(g.grid.Advance(m.ID, now), now)
	}
}

func (g *Game) plan(m world.Entity, player world.Point, items []world.Entity) {
	path, target := nav.Plan(g.grid, m, player, items)
	g.grid.SetPath(m.ID, path, target)
}

// reapMobs removes dead mobs and pays out their kill score.
func (g *Game) reapMobs(now int64) {
	for _, e := range g.grid.Tracked() {
		if !e.Kind.IsMob() || e.Actor.HP > 0 {
			continue
		}
		if !g.grid.RemoveByID(e.ID) {
			continue
		}
		pts := g.deps.Formulas.KillScore(e.Actor.KillScore, e.Kind, now)
		g.ChangeScore(pts)
		event.Emit(g.bus, event.MobKilled{ID: e.ID, Kind: e.Kind, Pos: e.Pos, Score: pts, Tick: now})
	}
}

func (g *Game) liveMobs() []world.Entity {
	tracked := g.grid.Tracked()
	out := tracked[:0]
	for _, e := range tracked {
		if e.Kind.IsMob() {
			out = append(out, e)
		}
	}
	return out
}

// report turns an interaction result into events.
func (g *Game) report(res world.Result, now int64) {
	switch res.Outcome {
	case world.Attacked:
		g.reportPlayerHit(res.Mover, res.Damage, now)
	case world.PickedUp:
		event.Emit(g.bus, event.ItemConsumed{Kind: res.Occupant, By: res.Mover, Potency: res.Potency, Tick: now})
	case world.Moved:
		if res.Occupant == world.KindBullet {
			event.Emit(g.bus, event.BulletExploded{Pos: res.To, Hit: res.Mover, Tick: now})
			if res.Mover == world.KindPlayer {
				g.reportPlayerHit(world.KindBullet, res.Damage, now)
			}
		}
	}
}

func (g *Game) reportPlayerHit(by world.Kind, damage int, now int64) {
	hp := 0
	if p, ok := g.grid.GetByID(world.PlayerID); ok {
		hp = p.Actor.HP
	}
	event.Emit(g.bus, event.PlayerHit{By: by, Damage: damage, HP: hp, Tick: now})
}
