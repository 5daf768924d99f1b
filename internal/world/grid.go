package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrBoundary is returned when a write targets the reserved outer wall ring.
	ErrBoundary = errors.New("world: cell is on the boundary ring")
	// ErrOutOfRange is returned for coordinates outside the grid.
	ErrOutOfRange = errors.New("world: cell out of range")
)

// MinSize is the smallest width/height that still leaves one interior cell.
const MinSize = 3

// Grid owns one entity per cell plus an identity index for tracked
// entities (player and mobs).
//
// Every exported method takes mu exactly once and never calls another
// exported method; helpers suffixed with Locked assume mu is held. Callers
// must not expect two calls to observe the same grid state.
type Grid struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []Entity // row-major: y*width + x
	index  map[ID]Point
	nextID ID

	bulletSerial uint64
}

// NewGrid builds a width x height grid of Air enclosed by a wall ring.
func NewGrid(width, height int) (*Grid, error) {
	if width < MinSize || height < MinSize {
		return nil, fmt.Errorf("world: grid %dx%d is smaller than %dx%d", width, height, MinSize, MinSize)
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Entity, width*height),
		index:  make(map[ID]Point, 64),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := Point{X: x, Y: y}
			if g.onRing(p) {
				g.cells[g.idx(p)] = Wall(p)
			} else {
				g.cells[g.idx(p)] = Air(p)
			}
		}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p addresses a cell of the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Interior reports whether p is inside the wall ring.
func (g *Grid) Interior(p Point) bool {
	return p.X >= 1 && p.Y >= 1 && p.X < g.width-1 && p.Y < g.height-1
}

// Center is the middle interior cell.
func (g *Grid) Center() Point {
	return Point{X: g.width / 2, Y: g.height / 2}
}

func (g *Grid) onRing(p Point) bool {
	return p.X == 0 || p.Y == 0 || p.X == g.width-1 || p.Y == g.height-1
}

func (g *Grid) idx(p Point) int { return p.Y*g.width + p.X }

func (g *Grid) mustIdx(p Point) int {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("world: %v outside %dx%d grid", p, g.width, g.height))
	}
	return g.idx(p)
}

func (g *Grid) checkWritable(p Point) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v", ErrOutOfRange, p)
	}
	if g.onRing(p) {
		return fmt.Errorf("%w: %v", ErrBoundary, p)
	}
	return nil
}

// Get returns a copy of the entity at p. Out-of-range coordinates panic.
func (g *Grid) Get(p Point) Entity {
	i := g.mustIdx(p)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cells[i].clone()
}

// KindAt returns the kind of the occupant of p. Out-of-range reads report
// a wall so walkers treat them as solid.
func (g *Grid) KindAt(p Point) Kind {
	if !g.InBounds(p) {
		return KindWall
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cells[g.idx(p)].Kind
}

// Set overwrites p unconditionally. The outer ring is never overwritten.
// The stored copy is untracked; use SetWithID to register identity.
func (g *Grid) Set(p Point, e Entity) error {
	if err := g.checkWritable(p); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e.Tracked = false
	g.setLocked(p, e)
	return nil
}

// SetIfAir writes e at p only if p currently holds Air.
func (g *Grid) SetIfAir(p Point, e Entity) bool {
	if g.checkWritable(p) != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cells[g.idx(p)].Kind != KindAir {
		return false
	}
	e.Tracked = false
	g.setLocked(p, e)
	return true
}

// SetWithID writes e at p and registers it under a fresh ID.
func (g *Grid) SetWithID(p Point, e Entity) (ID, error) {
	if err := g.checkWritable(p); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.setWithIDLocked(p, e), nil
}

// SetWithIDIfAir is SetWithID guarded by the same check as SetIfAir.
func (g *Grid) SetWithIDIfAir(p Point, e Entity) (ID, bool) {
	if g.checkWritable(p) != nil {
		return 0, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cells[g.idx(p)].Kind != KindAir {
		return 0, false
	}
	return g.setWithIDLocked(p, e), true
}

// SetWithFixedID registers e under id instead of a fresh one. Any entity
// already holding id is evicted first. Later fresh IDs stay above id.
func (g *Grid) SetWithFixedID(p Point, e Entity, id ID) error {
	if err := g.checkWritable(p); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if id >= g.nextID {
		g.nextID = id + 1
	}
	e.ID = id
	e.Tracked = true
	g.setLocked(p, e)
	return nil
}

func (g *Grid) setWithIDLocked(p Point, e Entity) ID {
	id := g.nextID
	g.nextID++
	e.ID = id
	e.Tracked = true
	g.setLocked(p, e)
	return id
}

// setLocked replaces the occupant of p, keeping the index in step with
// both the evicted and the incoming entity.
func (g *Grid) setLocked(p Point, e Entity) {
	i := g.idx(p)
	if old := g.cells[i]; old.Tracked {
		delete(g.index, old.ID)
	}
	e.Pos = p
	if e.Tracked {
		if prev, ok := g.index[e.ID]; ok && prev != p {
			g.cells[g.idx(prev)] = Air(prev)
		}
		g.index[e.ID] = p
	}
	g.cells[i] = e
}

// Remove replaces the occupant of p with Air and drops its index entry.
// Ring cells and out-of-range points are left alone.
func (g *Grid) Remove(p Point) {
	if g.checkWritable(p) != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setLocked(p, Air(p))
}

// RemoveIf replaces the occupant of p with Air when match accepts it.
// match runs under the grid lock and must not call back into the grid.
func (g *Grid) RemoveIf(p Point, match func(Entity) bool) bool {
	if g.checkWritable(p) != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !match(g.cells[g.idx(p)]) {
		return false
	}
	g.setLocked(p, Air(p))
	return true
}

// Update lets fn edit the occupant of p in place. fn runs under the grid
// lock; changes to Kind, ID, Tracked and Pos are discarded.
func (g *Grid) Update(p Point, fn func(e *Entity)) {
	if !g.InBounds(p) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c := &g.cells[g.idx(p)]
	kind, id, tracked := c.Kind, c.ID, c.Tracked
	fn(c)
	c.Kind, c.ID, c.Tracked, c.Pos = kind, id, tracked, p
}

// RemoveByID removes the tracked entity id. It reports whether id was live.
func (g *Grid) RemoveByID(id ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	if !ok {
		return false
	}
	g.setLocked(p, Air(p))
	return true
}

// GetByID returns a copy of the tracked entity id.
func (g *Grid) GetByID(id ID) (Entity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	if !ok {
		return Entity{}, false
	}
	return g.cells[g.idx(p)].clone(), true
}

// PosOf returns the current cell of tracked entity id.
func (g *Grid) PosOf(id ID) (Point, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	return p, ok
}

// ReplaceByID swaps the tracked entity id for e, keeping the ID and cell.
func (g *Grid) ReplaceByID(id ID, e Entity) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	if !ok {
		return false
	}
	e.ID = id
	e.Tracked = true
	g.setLocked(p, e)
	return true
}

// Move relocates the occupant of from to to, overwriting whatever was there.
func (g *Grid) Move(from, to Point) error {
	if err := g.checkWritable(from); err != nil {
		return err
	}
	if err := g.checkWritable(to); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moveLocked(from, to)
	return nil
}

func (g *Grid) moveLocked(from, to Point) {
	if from == to {
		return
	}
	e := g.cells[g.idx(from)]
	// Vacate first so setLocked does not drop the mover's own index entry.
	g.cells[g.idx(from)] = Air(from)
	g.setLocked(to, e)
}

// EntitiesByKind scans the grid and returns copies of every entity whose
// kind satisfies match, in row-major order.
func (g *Grid) EntitiesByKind(match func(Kind) bool) []Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Entity
	for i := range g.cells {
		if match(g.cells[i].Kind) {
			out = append(out, g.cells[i].clone())
		}
	}
	return out
}

// CountKind returns how many cells hold an entity whose kind satisfies match.
func (g *Grid) CountKind(match func(Kind) bool) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for i := range g.cells {
		if match(g.cells[i].Kind) {
			n++
		}
	}
	return n
}

// HasKind reports whether any cell holds kind k.
func (g *Grid) HasKind(k Kind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.cells {
		if g.cells[i].Kind == k {
			return true
		}
	}
	return false
}

// Tracked returns copies of every indexed entity ordered by ID.
func (g *Grid) Tracked() []Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Entity, 0, len(g.index))
	for _, p := range g.index {
		out = append(out, g.cells[g.idx(p)].clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TrackedCount returns the size of the identity index.
func (g *Grid) TrackedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.index)
}

// SetPath stores a new path and target for tracked actor id.
func (g *Grid) SetPath(id ID, path []Point, target Point) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	if !ok {
		return false
	}
	a := &g.cells[g.idx(p)].Actor
	a.Path = append(a.Path[:0:0], path...)
	a.Target = target
	return true
}

// Damage applies amount to tracked actor id (negative heals) and returns
// the HP actually removed. Shields absorb positive damage.
func (g *Grid) Damage(id ID, amount int, now int64) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	if !ok {
		return 0, false
	}
	e := &g.cells[g.idx(p)]
	if !e.Kind.IsActor() {
		return 0, false
	}
	return e.takeDamage(amount, now), true
}

// RefreshShields clears the shielded flag of actors whose shield expired.
func (g *Grid) RefreshShields(now int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.index {
		a := &g.cells[g.idx(p)].Actor
		if a.Shielded && now >= a.ShieldUntil {
			a.Shielded = false
		}
	}
}

// Frame is a rendering snapshot of the grid.
type Frame struct {
	Width  int
	Height int
	Cells  []Glyph
}

// At returns the glyph drawn at (x, y).
func (f Frame) At(x, y int) Glyph { return f.Cells[y*f.Width+x] }

// Snapshot captures the appearance of every cell under a single lock.
func (g *Grid) Snapshot() Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	f := Frame{Width: g.width, Height: g.height, Cells: make([]Glyph, len(g.cells))}
	for i := range g.cells {
		f.Cells[i] = g.cells[i].Appearance()
	}
	return f
}

// CheckIndex verifies that every index entry points at the entity carrying
// that ID and that no tracked entity is missing from the index.
func (g *Grid) CheckIndex() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	seen := 0
	for i := range g.cells {
		e := &g.cells[i]
		if !e.Tracked {
			continue
		}
		seen++
		p, ok := g.index[e.ID]
		if !ok {
			return fmt.Errorf("world: entity %d at %v missing from index", e.ID, e.Pos)
		}
		if p != e.Pos || g.idx(p) != i {
			return fmt.Errorf("world: entity %d indexed at %v but stored at %v", e.ID, p, e.Pos)
		}
	}
	if seen != len(g.index) {
		return fmt.Errorf("world: index holds %d entries, grid holds %d tracked entities", len(g.index), seen)
	}
	return nil
}
