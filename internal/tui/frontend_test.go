package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/game"
	"github.com/l1jgo/arena/internal/world"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newGame(t *testing.T) *game.Game {
	t.Helper()
	mobs, err := data.LoadMobTable("")
	if err != nil {
		t.Fatal(err)
	}
	opts := game.DefaultOptions()
	opts.Width, opts.Height = 10, 10
	opts.Seed = 1
	g, err := game.New(opts, game.Deps{Mobs: mobs, Log: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	if err := g.Initialise(); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	return g
}

func TestCheckSize(t *testing.T) {
	s := newScreen(t, 20, 12)
	if err := CheckSize(s, 10, 10); err != nil {
		t.Fatalf("10x10 should fit: %v", err)
	}
	if err := CheckSize(s, 10, 11); !errors.Is(err, ErrTerminalTooSmall) {
		t.Fatalf("expected ErrTerminalTooSmall, got %v", err)
	}
}

func TestDrawShowsArena(t *testing.T) {
	s := newScreen(t, 40, 15)
	g := newGame(t)
	f := New(s, time.Second, zaptest.NewLogger(t))
	f.draw(g.View())

	cells, w, _ := s.GetContents()
	runeAt := func(x, y int) rune {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			return ' '
		}
		return c.Runes[0]
	}
	pos, _ := g.Grid().PosOf(world.PlayerID)
	if r := runeAt(pos.X, pos.Y); r != '@' {
		t.Fatalf("expected player glyph at %v, got %q", pos, r)
	}
	if r := runeAt(0, 0); r != '#' {
		t.Fatalf("expected wall in the corner, got %q", r)
	}
	if r := runeAt(0, 10); r != 'H' {
		t.Fatalf("expected status line under the arena, got %q", r)
	}
}

func TestKeysDriveTheGame(t *testing.T) {
	s := newScreen(t, 40, 15)
	g := newGame(t)
	f := New(s, time.Second, zaptest.NewLogger(t))

	start, _ := g.Grid().PosOf(world.PlayerID)
	f.handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), g)
	pos, _ := g.Grid().PosOf(world.PlayerID)
	if pos != start.Step(world.Right) {
		t.Fatalf("arrow key did not move the player: %v", pos)
	}

	f.handle(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), g)
	if g.Grid().KindAt(pos.Step(world.Right)) != world.KindBullet {
		t.Fatalf("space should shoot in the facing direction")
	}

	if f.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), g) {
		t.Fatalf("escape should end the input loop")
	}
	if g.Running() || g.Reason() != game.ReasonPlayerQuit {
		t.Fatalf("escape should quit the game")
	}
}

func TestRunReturnsOnQuit(t *testing.T) {
	s := newScreen(t, 40, 15)
	g := newGame(t)
	f := New(s, 5*time.Millisecond, zaptest.NewLogger(t))

	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	done := make(chan error, 1)
	go func() { done <- f.Run(context.Background(), g) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after escape")
	}
	if g.Running() {
		t.Fatalf("game still running")
	}
}
