// Package game runs one arena session: it owns the grid, the clock, the
// score and the scheduler tree, and exposes the player entry points used
// by a frontend.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/world"
)

// Reason tells why a game ended.
type Reason int

const (
	ReasonPlayerDied Reason = 0
	ReasonPlayerQuit Reason = 1
)

func (r Reason) String() string {
	switch r {
	case ReasonPlayerDied:
		return "player died"
	case ReasonPlayerQuit:
		return "player quit"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Result is what Run reports once the game is over.
type Result struct {
	Score  int
	Reason Reason
	Ticks  int64
	Stats  Stats
}

// Frontend renders the game and feeds it player input. Run should return
// once g.Done() is closed or the player asks to quit.
type Frontend interface {
	Run(ctx context.Context, g *Game) error
}

// Deps are the collaborators a Game needs besides its Options.
type Deps struct {
	Mobs         *data.MobTable
	Collectibles *data.CollectibleTable
	Formulas     Formulas
	Log          *zap.Logger
}

// Game is the simulation controller.
type Game struct {
	opts  Options
	deps  Deps
	log   *zap.Logger
	bus   *event.Bus
	stats *statsRecorder

	grid *world.Grid
	rng  *rand.Rand

	clock atomic.Int64
	score atomic.Int64

	running     atomic.Bool
	initialised chan struct{}
	stopped     chan struct{}
	terminated  chan struct{}
	stopOnce    sync.Once
	reason      atomic.Int32
	initErr     error

	lastShot atomic.Int64
	lastDir  atomic.Uint32

	root *system.Node
	tick *system.Node

	// Tick goroutine bookkeeping.
	lastSpawn     int64
	lastPlayerPos world.Point
	lastMobCount  int
}

// New validates opts and builds the scheduler tree. The arena itself is
// built by Initialise.
func New(opts Options, deps Deps) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if deps.Mobs == nil {
		return nil, fmt.Errorf("game: mob table is required")
	}
	for _, k := range opts.MobKinds {
		if deps.Mobs.Get(k) == nil {
			return nil, fmt.Errorf("game: no template for %s", k)
		}
	}
	if deps.Formulas == nil {
		deps.Formulas = StaticFormulas{Chance: 5}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	g := &Game{
		opts:         opts,
		deps:         deps,
		log:          deps.Log.Named("game"),
		bus:          event.NewBus(),
		initialised:  make(chan struct{}),
		stopped:      make(chan struct{}),
		terminated:   make(chan struct{}),
		lastMobCount: -1,
	}
	g.lastShot.Store(-opts.ShootCooldown)
	g.lastDir.Store(uint32(world.Right))
	g.stats = newStatsRecorder(g.bus, g.log)
	g.buildTree()
	return g, nil
}

// buildTree wires the handler tree:
//
//	run
//	└── initialise
//	tick
//	├── spawn
//	├── mob-move
//	├── bullet
//	├── collectible
//	└── reaper
func (g *Game) buildTree() {
	g.root = system.NewNode("run", nil)
	g.root.Add(system.NewNode("initialise", &initialiseHandler{g: g}))

	g.tick = system.NewNode("tick", &clockHandler{g: g})
	g.tick.Add(system.NewNode("spawn", &spawnHandler{g: g}))
	g.tick.Add(system.NewNode("mob-move", &mobMoveHandler{g: g}))
	g.tick.Add(system.NewNode("bullet", &bulletHandler{g: g}))
	g.tick.Add(system.NewNode("collectible", &collectibleHandler{g: g}))
	g.tick.Add(system.NewNode("reaper", &reaperHandler{g: g}))
}

// Run initialises the arena, starts the tick goroutine and hands control
// to fe until the game ends. A nil frontend runs headless until the player
// dies or ctx is cancelled. Run does not return before the tick goroutine
// has exited.
func (g *Game) Run(ctx context.Context, fe Frontend) (Result, error) {
	if err := g.Initialise(); err != nil {
		return Result{}, err
	}

	go g.tickLoop(ctx)
	g.log.Info("game started",
		zap.Int("width", g.grid.Width()),
		zap.Int("height", g.grid.Height()),
		zap.Duration("tick", g.opts.TickRate))

	var feErr error
	if fe != nil {
		feErr = fe.Run(ctx, g)
	} else {
		select {
		case <-g.stopped:
		case <-ctx.Done():
		}
	}
	g.Terminate(ReasonPlayerQuit)
	<-g.terminated

	// Deliver whatever the last tick emitted.
	g.bus.SwapBuffers()
	g.bus.DispatchAll()

	res := g.Result()
	g.log.Info("game over",
		zap.Stringer("reason", res.Reason),
		zap.Int("score", res.Score),
		zap.Int64("ticks", res.Ticks))
	if feErr != nil {
		return res, fmt.Errorf("frontend: %w", feErr)
	}
	return res, nil
}

// Initialise fires the run tree once: it builds or adopts the arena and
// places the player. Later calls return the first outcome.
func (g *Game) Initialise() error {
	select {
	case <-g.initialised:
		return g.initErr
	default:
	}
	g.root.Fire()
	return g.initErr
}

func (g *Game) tickLoop(ctx context.Context) {
	defer close(g.terminated)
	<-g.initialised
	if g.initErr != nil {
		return
	}

	ticker := time.NewTicker(g.opts.TickRate)
	defer ticker.Stop()
	for g.running.Load() {
		select {
		case <-ticker.C:
			if g.running.Load() {
				g.tick.Fire()
			}
		case <-g.stopped:
		case <-ctx.Done():
			g.Terminate(ReasonPlayerQuit)
		}
	}
}

// Step fires one tick synchronously. It is meant for tests and replays
// that drive the clock themselves instead of calling Run.
func (g *Game) Step() {
	if g.running.Load() {
		g.tick.Fire()
	}
}

// Terminate stops the game. Only the first call's reason is kept. The tick
// goroutine finishes the handler it is running, then exits.
func (g *Game) Terminate(reason Reason) {
	g.stopOnce.Do(func() {
		g.reason.Store(int32(reason))
		g.running.Store(false)
		close(g.stopped)
		g.log.Info("terminate", zap.Stringer("reason", reason))
	})
}

// Done is closed once the game has been told to stop.
func (g *Game) Done() <-chan struct{} { return g.stopped }

// Running reports whether the tick loop should keep going.
func (g *Game) Running() bool { return g.running.Load() }

// Reason returns the termination reason; meaningful once Done is closed.
func (g *Game) Reason() Reason { return Reason(g.reason.Load()) }

// Result summarises the game so far.
func (g *Game) Result() Result {
	return Result{
		Score:  g.Score(),
		Reason: g.Reason(),
		Ticks:  g.Clock(),
		Stats:  g.stats.snapshot(),
	}
}

func (g *Game) Clock() int64 { return g.clock.Load() }

// IncrementClock advances the simulation clock by one tick.
func (g *Game) IncrementClock() int64 { return g.clock.Add(1) }

func (g *Game) Score() int { return int(g.score.Load()) }

// ChangeScore adds delta to the score, never going below Options.MinScore.
func (g *Game) ChangeScore(delta int) int {
	for {
		old := g.score.Load()
		next := old + int64(delta)
		if next < int64(g.opts.MinScore) {
			next = int64(g.opts.MinScore)
		}
		if g.score.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

// Grid returns the arena; nil before Initialise.
func (g *Game) Grid() *world.Grid { return g.grid }

func (g *Game) Options() Options { return g.opts }

// Stats returns a copy of the counters gathered so far.
func (g *Game) Stats() Stats { return g.stats.snapshot() }

// Tree returns the run and tick handler trees.
func (g *Game) Tree() (run, tick *system.Node) { return g.root, g.tick }

// View is a consistent picture of the game for a renderer.
type View struct {
	Frame    world.Frame
	HP       int
	MaxHP    int
	Damage   int
	Shielded bool
	Score    int
	Clock    int64
	Mobs     int
	Items    int
	Running  bool
}

// View snapshots the arena and the player's status.
func (g *Game) View() View {
	v := View{
		Score:   g.Score(),
		Clock:   g.Clock(),
		Running: g.Running(),
	}
	if g.grid == nil {
		return v
	}
	v.Frame = g.grid.Snapshot()
	if p, ok := g.grid.GetByID(world.PlayerID); ok {
		v.HP = p.Actor.HP
		v.MaxHP = p.Actor.MaxHP
		v.Damage = p.Actor.Damage
		v.Shielded = p.Actor.Shielded
	}
	v.Mobs = g.grid.CountKind(world.Kind.IsMob)
	v.Items = g.grid.CountKind(world.Kind.IsCollectible)
	return v
}
