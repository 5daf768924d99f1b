package system

// Phase defines execution ordering among the children of one node.
type Phase int

const (
	PhaseInit      Phase = iota // 0: build or adopt the arena
	PhaseClock                  // 1: advance the clock, dispatch last tick's events
	PhaseSpawn                  // 2: mob spawning
	PhaseMobMove                // 3: death sweep, pathfinding, mob steps
	PhaseBullet                 // 4: projectile movement and expiry
	PhaseCollectible            // 5: item blink, expiry, spawn
	PhaseReap                   // 6: end-of-tick checks (player death)
	PhaseOnDemand               // 7: input-driven handlers, never tick children
)

var phaseNames = [...]string{"init", "clock", "spawn", "mob-move", "bullet", "collectible", "reap", "on-demand"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "phase?"
}

// Handler is the unit of work a Node executes when fired.
type Handler interface {
	Phase() Phase
	Execute()
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc struct {
	P  Phase
	Fn func()
}

func (h HandlerFunc) Phase() Phase { return h.P }
func (h HandlerFunc) Execute()     { h.Fn() }
