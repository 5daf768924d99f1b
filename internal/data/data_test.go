package data

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/l1jgo/arena/internal/world"
)

func TestBuiltinTables(t *testing.T) {
	mobs, err := LoadMobTable("")
	if err != nil {
		t.Fatalf("LoadMobTable: %v", err)
	}
	if mobs.Count() != len(world.MobKinds()) {
		t.Fatalf("expected %d mobs, got %d", len(world.MobKinds()), mobs.Count())
	}
	z := mobs.Get(world.KindZombie)
	if z == nil || z.Damage != 1 || z.TicksPerMove <= 0 {
		t.Fatalf("unexpected zombie template %+v", z)
	}

	items, err := LoadCollectibleTable("")
	if err != nil {
		t.Fatalf("LoadCollectibleTable: %v", err)
	}
	if items.Count() != len(world.CollectibleKinds()) {
		t.Fatalf("expected %d collectibles, got %d", len(world.CollectibleKinds()), items.Count())
	}

	presets, err := LoadPresetTable("")
	if err != nil {
		t.Fatalf("LoadPresetTable: %v", err)
	}
	for name, hp := range map[string]int{"easy": 100, "MEDIUM": 50, "Hard": 25} {
		p := presets.Get(name)
		if p == nil || p.PlayerHP != hp {
			t.Fatalf("preset %s: expected hp %d, got %+v", name, hp, p)
		}
		if len(p.MobKinds) == 0 {
			t.Fatalf("preset %s has no mob kinds", name)
		}
	}
}

func TestMobTableOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mobs.yaml")
	body := `mobs:
  - {name: zombie, hp: 3, damage: 1, kill_score: 10, ticks_per_move: 5}
  - {name: shield, hp: 3, damage: 1, kill_score: 10, ticks_per_move: 5}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMobTable(path); err == nil {
		t.Fatalf("expected error for non-mob entry")
	}
	if _, err := LoadMobTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCollectibleRollWithinRange(t *testing.T) {
	items, err := LoadCollectibleTable("")
	if err != nil {
		t.Fatalf("LoadCollectibleTable: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		tmpl, potency, lifetime := items.Roll(rng)
		if tmpl == nil {
			t.Fatalf("roll returned no template")
		}
		if potency < tmpl.PotencyMin || potency > tmpl.PotencyMax {
			t.Fatalf("%s potency %d outside [%d,%d]", tmpl.Name, potency, tmpl.PotencyMin, tmpl.PotencyMax)
		}
		if lifetime < tmpl.LifetimeMin || lifetime > tmpl.LifetimeMax {
			t.Fatalf("%s lifetime %d outside [%d,%d]", tmpl.Name, lifetime, tmpl.LifetimeMin, tmpl.LifetimeMax)
		}
	}
}

func TestParseMobKinds(t *testing.T) {
	kinds, err := ParseMobKinds([]string{"zombie", " Boss", "zombie"})
	if err != nil {
		t.Fatalf("ParseMobKinds: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != world.KindZombie || kinds[1] != world.KindBoss {
		t.Fatalf("unexpected kinds %v", kinds)
	}
	if _, err := ParseMobKinds([]string{"wall"}); err == nil {
		t.Fatalf("expected error for wall")
	}
}

func TestParseArena(t *testing.T) {
	src := "XXXXXXXX\n" +
		"X P    X\n" +
		"X  XX  X\n" +
		"X      X  extra columns ignored\n"
	g, err := ParseArena(strings.NewReader(src), 8, 6)
	if err != nil {
		t.Fatalf("ParseArena: %v", err)
	}
	pl, ok := g.GetByID(world.PlayerID)
	if !ok || pl.Kind != world.KindPlayer || pl.Pos != world.Pt(2, 1) {
		t.Fatalf("unexpected player %+v ok=%v", pl, ok)
	}
	if g.KindAt(world.Pt(3, 2)) != world.KindWall || g.KindAt(world.Pt(4, 2)) != world.KindWall {
		t.Fatalf("interior walls missing")
	}
	if g.KindAt(world.Pt(3, 4)) != world.KindAir {
		t.Fatalf("missing rows should be air")
	}
	if g.KindAt(world.Pt(0, 5)) != world.KindWall {
		t.Fatalf("ring must be wall")
	}
}

func TestParseArenaErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"two players", "     \n P P \n", ErrMultiplePlayers},
		{"mob glyph", "     \n z   \n", ErrBadGlyph},
		{"player on ring", "P    \n", world.ErrBoundary},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseArena(strings.NewReader(tc.src), 5, 5)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseArenaUTF16(t *testing.T) {
	// UTF-16LE with BOM: "XXXX\nXP X\n"
	text := "XXXX\nXP X\n"
	buf := []byte{0xFF, 0xFE}
	for _, r := range text {
		buf = append(buf, byte(r), 0)
	}
	g, err := ParseArena(strings.NewReader(string(buf)), 4, 4)
	if err != nil {
		t.Fatalf("ParseArena: %v", err)
	}
	if pl, ok := g.GetByID(world.PlayerID); !ok || pl.Pos != world.Pt(1, 1) {
		t.Fatalf("unexpected player %+v ok=%v", pl, ok)
	}
}

func TestLoadArenaMissingFile(t *testing.T) {
	if _, err := LoadArena(filepath.Join(t.TempDir(), "nope.txt"), 10, 10); err == nil {
		t.Fatalf("expected error")
	}
}
