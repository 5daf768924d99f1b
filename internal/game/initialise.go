package game

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

var errNoFreeCell = errors.New("game: arena has no free cell for the player")

type initialiseHandler struct {
	g *Game
}

func (h *initialiseHandler) Phase() system.Phase { return system.PhaseInit }

// Execute adopts or builds the arena, seeds the RNG and makes sure the
// player sits at ID 0 with the configured hit points.
func (h *initialiseHandler) Execute() {
	g := h.g
	defer close(g.initialised)

	grid := g.opts.Arena
	if grid == nil {
		var err error
		grid, err = world.NewGrid(g.opts.Width, g.opts.Height)
		if err != nil {
			g.initErr = err
			return
		}
	}

	seed := g.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	if existing, ok := grid.GetByID(world.PlayerID); ok && existing.Kind == world.KindPlayer {
		grid.ReplaceByID(world.PlayerID, world.NewPlayer(existing.Pos, g.opts.PlayerHP, g.opts.PlayerDamage))
	} else {
		start, ok := freeCellNear(grid, grid.Center())
		if !ok {
			g.initErr = errNoFreeCell
			return
		}
		if err := grid.SetWithFixedID(start, world.NewPlayer(start, g.opts.PlayerHP, g.opts.PlayerDamage), world.PlayerID); err != nil {
			g.initErr = err
			return
		}
	}

	g.grid = grid
	g.running.Store(true)
	pos, _ := grid.PosOf(world.PlayerID)
	g.log.Info("arena ready",
		zap.Stringer("player", pos),
		zap.Int("hp", g.opts.PlayerHP),
		zap.Int64("seed", seed))
}

// freeCellNear returns the Air cell closest to want, scanning rings of
// growing Chebyshev radius.
func freeCellNear(grid *world.Grid, want world.Point) (world.Point, bool) {
	maxR := grid.Width()
	if grid.Height() > maxR {
		maxR = grid.Height()
	}
	for r := 0; r <= maxR; r++ {
		for y := want.Y - r; y <= want.Y+r; y++ {
			for x := want.X - r; x <= want.X+r; x++ {
				p := world.Pt(x, y)
				if world.Chebyshev(p, want) != r || !grid.Interior(p) {
					continue
				}
				if grid.KindAt(p) == world.KindAir {
					return p, true
				}
			}
		}
	}
	return world.Point{}, false
}

// clockHandler is the tick node's own work: advance the clock and deliver
// the events emitted during the previous tick.
type clockHandler struct {
	g *Game
}

func (h *clockHandler) Phase() system.Phase { return system.PhaseClock }

func (h *clockHandler) Execute() {
	h.g.IncrementClock()
	h.g.bus.SwapBuffers()
	h.g.bus.DispatchAll()
}

// reaperHandler ends the game once the player is dead.
type reaperHandler struct {
	g *Game
}

func (h *reaperHandler) Phase() system.Phase { return system.PhaseReap }

func (h *reaperHandler) Execute() {
	g := h.g
	p, ok := g.grid.GetByID(world.PlayerID)
	if !ok || p.Actor.HP <= 0 {
		g.Terminate(ReasonPlayerDied)
	}
}
