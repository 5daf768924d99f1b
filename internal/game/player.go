package game

import (
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// playerMoveHandler and playerShootHandler are fired on demand from the
// input goroutine, never as tick children.

type playerMoveHandler struct {
	g   *Game
	dir world.Direction
	res world.Result
}

func (h *playerMoveHandler) Phase() system.Phase { return system.PhaseOnDemand }

func (h *playerMoveHandler) Execute() {
	g := h.g
	from, ok := g.grid.PosOf(world.PlayerID)
	if !ok {
		h.res = world.Result{Outcome: world.Stale}
		return
	}
	now := g.Clock()
	h.res = g.grid.Enter(from, from.Step(h.dir), now)
	g.report(h.res, now)
}

type playerShootHandler struct {
	g    *Game
	dirs []world.Direction
	shot bool
}

func (h *playerShootHandler) Phase() system.Phase { return system.PhaseOnDemand }

func (h *playerShootHandler) Execute() {
	g := h.g
	now := g.Clock()
	if now-g.lastShot.Load() < g.opts.ShootCooldown {
		return
	}
	p, ok := g.grid.GetByID(world.PlayerID)
	if !ok {
		return
	}
	g.lastShot.Store(now)
	for _, d := range h.dirs {
		res, serial := g.grid.Launch(p.Pos.Step(d), p.Actor.Damage, d, now)
		event.Emit(g.bus, event.BulletFired{Serial: serial, Dir: d, Tick: now})
		g.reportBullet(res, serial, now)
	}
	h.shot = true
}

// MovePlayer steps the player one cell in dir and reports what happened.
func (g *Game) MovePlayer(dir world.Direction) world.Result {
	if !g.Running() {
		return world.Result{Outcome: world.Blocked}
	}
	g.lastDir.Store(uint32(dir))
	h := &playerMoveHandler{g: g, dir: dir}
	system.NewNode("player-move", h).Fire()
	return h.res
}

// Shoot fires one bullet in dir. It reports false while the shot is on
// cooldown or the game is not running.
func (g *Game) Shoot(dir world.Direction) bool {
	return g.shoot([]world.Direction{dir})
}

// ShootFacing fires in the direction of the player's last move.
func (g *Game) ShootFacing() bool {
	return g.Shoot(world.Direction(g.lastDir.Load()))
}

// ShootAll fires one bullet in each of the eight directions.
func (g *Game) ShootAll() bool {
	return g.shoot(world.Directions())
}

func (g *Game) shoot(dirs []world.Direction) bool {
	if !g.Running() {
		return false
	}
	h := &playerShootHandler{g: g, dirs: dirs}
	system.NewNode("player-shoot", h).Fire()
	return h.shot
}
