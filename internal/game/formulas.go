package game

import (
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/world"
)

// Formulas supplies the tunable numbers of the simulation. Calls happen on
// the tick goroutine only.
type Formulas interface {
	// KillScore is the score awarded for killing a mob whose base reward is base.
	KillScore(base int, kind world.Kind, clock int64) int
	// CollectibleChance is the per-tick spawn chance in per mille while
	// live collectibles are on the board.
	CollectibleChance(clock int64, live int) int
}

// StaticFormulas awards base scores and a fixed spawn chance.
type StaticFormulas struct {
	Chance int
}

func (StaticFormulas) KillScore(base int, _ world.Kind, _ int64) int { return base }

func (f StaticFormulas) CollectibleChance(int64, int) int { return f.Chance }

// LuaFormulas delegates to the scripting engine.
type LuaFormulas struct {
	Engine *scripting.Engine
}

func (f LuaFormulas) KillScore(base int, kind world.Kind, clock int64) int {
	return f.Engine.CalcKillScore(scripting.KillContext{Base: base, Kind: kind.String(), Clock: clock})
}

func (f LuaFormulas) CollectibleChance(clock int64, live int) int {
	return f.Engine.CollectibleChance(scripting.SpawnContext{Clock: clock, Live: live})
}
