package world

// Outcome classifies what happened when a mover tried to enter a cell.
type Outcome uint8

const (
	// Blocked: nothing changed, the mover stays.
	Blocked Outcome = iota
	// Moved: the mover now occupies the destination.
	Moved
	// Attacked: the mover hit the player and stayed put.
	Attacked
	// PickedUp: the mover consumed a collectible and stayed put.
	PickedUp
	// Exploded: the bullet is gone after hitting something.
	Exploded
	// Reflected: the bullet bounced off a wall and stayed put.
	Reflected
	// Stale: the mover was no longer where the caller expected.
	Stale
)

var outcomeNames = [...]string{"blocked", "moved", "attacked", "picked_up", "exploded", "reflected", "stale"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Result describes a resolved interaction.
type Result struct {
	Outcome Outcome
	// Mover and Occupant are the kinds involved before resolution.
	Mover    Kind
	Occupant Kind
	// OccupantID is set when the occupant was a tracked actor.
	OccupantID ID
	// Damage is the HP removed from whoever was hit (after shields).
	Damage int
	// Potency of a consumed collectible.
	Potency int
	// To is the destination cell.
	To Point
}

// OK reports whether the mover advanced into the destination.
func (r Result) OK() bool { return r.Outcome == Moved }

// Acted reports whether the move used up the mover's turn: a step, an
// attack on the player or a pick-up.
func (r Result) Acted() bool {
	return r.Outcome == Moved || r.Outcome == Attacked || r.Outcome == PickedUp
}

// Enter moves the occupant of from one step into to, resolving the
// interaction with whatever occupies to. The whole exchange happens under
// one lock, so two movers racing for a cell cannot both win.
func (g *Grid) Enter(from, to Point, now int64) Result {
	if !g.InBounds(from) || !g.InBounds(to) {
		return Result{Outcome: Blocked, To: to}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enterLocked(from, to, now)
}

// Advance steps tracked actor id to the head of its cached path. The head is
// popped only when the actor actually moved.
func (g *Grid) Advance(id ID, now int64) Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.index[id]
	if !ok {
		return Result{Outcome: Stale}
	}
	a := &g.cells[g.idx(p)].Actor
	if len(a.Path) == 0 {
		return Result{Outcome: Blocked, Mover: g.cells[g.idx(p)].Kind}
	}
	next := a.Path[0]
	if Chebyshev(p, next) != 1 || !g.InBounds(next) {
		// Someone pushed us off the route; wait for the next recompute.
		a.Path = nil
		return Result{Outcome: Blocked, Mover: g.cells[g.idx(p)].Kind, To: next}
	}
	res := g.enterLocked(p, next, now)
	if res.OK() {
		moved := &g.cells[g.idx(next)].Actor
		moved.Path = moved.Path[1:]
	}
	return res
}

// StepBullet advances the bullet with the given serial sitting at from by
// one cell along its heading.
func (g *Grid) StepBullet(from Point, serial uint64, now int64) Result {
	if !g.InBounds(from) {
		return Result{Outcome: Stale}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.cells[g.idx(from)]
	if b.Kind != KindBullet || b.Bullet.Serial != serial {
		return Result{Outcome: Stale}
	}
	return g.enterLocked(from, from.Step(b.Bullet.Dir), now)
}

// RemoveBullet clears the bullet with the given serial from p.
func (g *Grid) RemoveBullet(p Point, serial uint64) bool {
	if g.checkWritable(p) != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e := g.cells[g.idx(p)]
	if e.Kind != KindBullet || e.Bullet.Serial != serial {
		return false
	}
	g.setLocked(p, Air(p))
	return true
}

// Launch creates a bullet at cell at. If the cell is Air the bullet is
// placed; otherwise it detonates on the spot against the occupant and is
// never placed.
func (g *Grid) Launch(at Point, damage int, dir Direction, now int64) (Result, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bulletSerial++
	serial := g.bulletSerial
	b := NewBullet(at, serial, damage, dir, now)
	if !g.InBounds(at) {
		return Result{Outcome: Exploded, Mover: KindBullet, Occupant: KindWall, To: at}, serial
	}
	occ := g.cells[g.idx(at)]
	if occ.Kind == KindAir {
		b.Bullet.Placed = true
		g.setLocked(at, b)
		return Result{Outcome: Moved, Mover: KindBullet, Occupant: KindAir, To: at}, serial
	}
	res := g.bulletHitLocked(b.Bullet, at, now)
	return res, serial
}

func (g *Grid) enterLocked(from, to Point, now int64) Result {
	mover := &g.cells[g.idx(from)]
	switch {
	case mover.Kind == KindBullet:
		return g.bulletEnterLocked(from, to, now)
	case mover.Kind.IsActor():
		return g.actorEnterLocked(from, to, now)
	}
	return Result{Outcome: Blocked, Mover: mover.Kind, Occupant: g.cells[g.idx(to)].Kind, To: to}
}

func (g *Grid) actorEnterLocked(from, to Point, now int64) Result {
	mover := &g.cells[g.idx(from)]
	occ := &g.cells[g.idx(to)]
	res := Result{Mover: mover.Kind, Occupant: occ.Kind, To: to}
	if occ.Tracked {
		res.OccupantID = occ.ID
	}

	switch {
	case occ.Kind == KindAir:
		mover.Actor.LastMoveTick = now
		g.moveLocked(from, to)
		res.Outcome = Moved

	case occ.Kind == KindPlayer && mover.Kind.IsMob():
		res.Damage = occ.takeDamage(mover.Actor.Damage, now)
		mover.Actor.LastMoveTick = now
		res.Outcome = Attacked

	case occ.Kind == KindBullet:
		// The bullet is spent on the mover, which then walks into the gap.
		res.Damage = mover.takeDamage(occ.Bullet.Damage, now)
		mover.Actor.LastMoveTick = now
		g.setLocked(to, Air(to))
		g.moveLocked(from, to)
		res.Outcome = Moved

	case occ.Kind.IsCollectible():
		res.Potency = occ.Item.Potency
		mover.applyItem(*occ, now)
		mover.Actor.LastMoveTick = now
		g.setLocked(to, Air(to))
		res.Outcome = PickedUp

	default:
		// Walls, other mobs, or a player stepping onto a mob.
		res.Outcome = Blocked
	}
	return res
}

func (g *Grid) bulletEnterLocked(from, to Point, now int64) Result {
	b := &g.cells[g.idx(from)]
	b.Bullet.LastMoveTick = now
	occ := g.cells[g.idx(to)]
	switch occ.Kind {
	case KindAir:
		g.moveLocked(from, to)
		return Result{Outcome: Moved, Mover: KindBullet, Occupant: KindAir, To: to}
	case KindWall:
		b.Bullet.Dir = b.Bullet.Dir.Opposite()
		return Result{Outcome: Reflected, Mover: KindBullet, Occupant: KindWall, To: to}
	}
	spent := b.Bullet
	g.setLocked(from, Air(from))
	return g.bulletHitLocked(spent, to, now)
}

// bulletHitLocked resolves a bullet striking the non-Air occupant of to.
// The bullet itself is already off the grid (or was never on it).
func (g *Grid) bulletHitLocked(b Bullet, to Point, now int64) Result {
	occ := &g.cells[g.idx(to)]
	res := Result{Outcome: Exploded, Mover: KindBullet, Occupant: occ.Kind, To: to}
	switch {
	case occ.Kind.IsActor():
		res.OccupantID = occ.ID
		res.Damage = occ.takeDamage(b.Damage, now)
	case occ.Kind == KindBullet, occ.Kind.IsCollectible():
		g.setLocked(to, Air(to))
	}
	return res
}
