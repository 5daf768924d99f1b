package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := NewEngine(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestBuiltinKillScore(t *testing.T) {
	e := newEngine(t, "")
	cases := []KillContext{
		{Base: 10, Kind: "zombie", Clock: 0},
		{Base: 10, Kind: "zombie", Clock: 9000},
		{Base: 200, Kind: "boss", Clock: 3000},
	}
	for _, c := range cases {
		if got := e.CalcKillScore(c); got != c.Base {
			t.Fatalf("%s at tick %d: expected base score %d, got %d", c.Kind, c.Clock, c.Base, got)
		}
	}
}

func TestScriptsDirKillBonus(t *testing.T) {
	dir := t.TempDir()
	src := "function calc_kill_score(ctx) return ctx.base + math.floor(ctx.clock / 3000) end\n"
	if err := os.WriteFile(filepath.Join(dir, "score.lua"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, dir)
	if got := e.CalcKillScore(KillContext{Base: 10, Kind: "zombie", Clock: 6000}); got != 12 {
		t.Fatalf("expected override to add 2, got %d", got)
	}
}

func TestBuiltinCollectibleChance(t *testing.T) {
	e := newEngine(t, "")
	if got := e.CollectibleChance(SpawnContext{Live: 0}); got != 8 {
		t.Fatalf("expected 8 per mille with no items, got %d", got)
	}
	if got := e.CollectibleChance(SpawnContext{Live: 10}); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
}

func TestScriptsDirOverrides(t *testing.T) {
	dir := t.TempDir()
	src := "function collectible_spawn_chance(ctx) return 5000 end\n"
	if err := os.WriteFile(filepath.Join(dir, "spawn.lua"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, dir)
	if got := e.CollectibleChance(SpawnContext{}); got != 1000 {
		t.Fatalf("expected clamp to 1000, got %d", got)
	}
}

func TestBrokenScriptFallsBack(t *testing.T) {
	dir := t.TempDir()
	src := "function calc_kill_score(ctx) error(\"boom\") end\n" +
		"function collectible_spawn_chance(ctx) return \"lots\" end\n"
	if err := os.WriteFile(filepath.Join(dir, "broken.lua"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, dir)
	if got := e.CalcKillScore(KillContext{Base: 15}); got != 15 {
		t.Fatalf("expected fallback to base score, got %d", got)
	}
	if got := e.CollectibleChance(SpawnContext{}); got != defaultSpawnChance {
		t.Fatalf("expected default chance, got %d", got)
	}
}

func TestSyntaxErrorRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected load error")
	}
}
