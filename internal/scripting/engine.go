package scripting

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed defaults/*.lua
var defaultScripts embed.FS

// Engine wraps a single gopher-lua VM for game formulas.
// Single-goroutine access only (the tick goroutine).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine with the built-in formulas, then loads
// every .lua file in scriptsDir so operators can override them. An empty
// or missing scriptsDir keeps the built-ins.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadBuiltin(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load builtin scripts: %w", err)
	}
	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadBuiltin() error {
	entries, err := defaultScripts.ReadDir("defaults")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		src, err := defaultScripts.ReadFile("defaults/" + entry.Name())
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// KillContext holds the data for one kill-score calculation.
type KillContext struct {
	Base  int
	Kind  string
	Clock int64
}

// CalcKillScore calls the Lua calc_kill_score function. On any script
// failure the base score is awarded.
func (e *Engine) CalcKillScore(ctx KillContext) int {
	t := e.vm.NewTable()
	t.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("clock", lua.LNumber(ctx.Clock))

	v, ok := e.callIntFunc("calc_kill_score", t)
	if !ok {
		return ctx.Base
	}
	return v
}

// SpawnContext holds the data for one collectible spawn roll.
type SpawnContext struct {
	Clock int64
	Live  int
}

// defaultSpawnChance is used when collectible_spawn_chance is unusable.
const defaultSpawnChance = 5

// CollectibleChance calls the Lua collectible_spawn_chance function and
// returns the per-tick chance in per mille, clamped to [0, 1000].
func (e *Engine) CollectibleChance(ctx SpawnContext) int {
	t := e.vm.NewTable()
	t.RawSetString("clock", lua.LNumber(ctx.Clock))
	t.RawSetString("live", lua.LNumber(ctx.Live))

	v, ok := e.callIntFunc("collectible_spawn_chance", t)
	if !ok {
		return defaultSpawnChance
	}
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}

// callIntFunc calls a global Lua function with one table argument and
// expects a single number back.
func (e *Engine) callIntFunc(name string, arg *lua.LTable) (int, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("func", name))
		return 0, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number", zap.String("func", name), zap.String("type", result.Type().String()))
		return 0, false
	}
	return int(n), true
}
