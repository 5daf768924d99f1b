// Package tui is the terminal frontend: it draws game views with tcell and
// turns key presses into player actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/l1jgo/arena/internal/game"
	"github.com/l1jgo/arena/internal/world"
)

// ErrTerminalTooSmall is returned when the arena does not fit on screen.
var ErrTerminalTooSmall = errors.New("tui: terminal too small")

// statusLines is the number of rows drawn below the arena.
const statusLines = 2

// CheckSize fails unless the screen can show a width x height arena plus
// the status lines.
func CheckSize(s tcell.Screen, width, height int) error {
	w, h := s.Size()
	if w < width || h < height+statusLines {
		return fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTerminalTooSmall, width, height+statusLines, w, h)
	}
	return nil
}

// Frontend implements game.Frontend on a tcell screen. The caller owns the
// screen: it calls Init before Run and Fini afterwards.
type Frontend struct {
	screen tcell.Screen
	redraw time.Duration
	log    *zap.Logger
}

func New(screen tcell.Screen, redraw time.Duration, log *zap.Logger) *Frontend {
	if redraw <= 0 {
		redraw = 50 * time.Millisecond
	}
	return &Frontend{screen: screen, redraw: redraw, log: log.Named("tui")}
}

// Run draws the game every redraw interval and applies key presses until
// the game ends or the player quits.
func (f *Frontend) Run(ctx context.Context, g *game.Game) error {
	stop := make(chan struct{})
	defer close(stop)

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(f.redraw)
	defer ticker.Stop()

	f.draw(g.View())
	for {
		select {
		case ev := <-events:
			if !f.handle(ev, g) {
				return nil
			}
		case <-ticker.C:
			f.draw(g.View())
		case <-g.Done():
			v := g.View()
			f.draw(v)
			f.log.Info("game finished", zap.Stringer("reason", g.Reason()), zap.Int("score", v.Score))
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// handle applies one terminal event. It returns false when the player quit.
func (f *Frontend) handle(ev tcell.Event, g *game.Game) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		f.screen.Sync()
		f.draw(g.View())
	case *tcell.EventKey:
		act, ok := keyAction(ev)
		if !ok {
			return true
		}
		switch act.kind {
		case actQuit:
			g.Terminate(game.ReasonPlayerQuit)
			return false
		case actMove:
			g.MovePlayer(act.dir)
		case actShoot:
			g.Shoot(act.dir)
		case actShootFacing:
			g.ShootFacing()
		case actShootAll:
			g.ShootAll()
		}
	}
	return true
}

type actionKind int

const (
	actMove actionKind = iota
	actShoot
	actShootFacing
	actShootAll
	actQuit
)

type action struct {
	kind actionKind
	dir  world.Direction
}

var arrowKeys = map[tcell.Key]world.Direction{
	tcell.KeyUp:    world.Up,
	tcell.KeyDown:  world.Down,
	tcell.KeyLeft:  world.Left,
	tcell.KeyRight: world.Right,
}

var moveRunes = map[rune]world.Direction{
	'w': world.Up,
	'e': world.UpRight,
	'd': world.Right,
	'c': world.DownRight,
	's': world.Down,
	'z': world.DownLeft,
	'a': world.Left,
	'q': world.UpLeft,
}

var shootRunes = map[rune]world.Direction{
	'i': world.Up,
	'l': world.Right,
	'k': world.Down,
	'j': world.Left,
}

func keyAction(ev *tcell.EventKey) (action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return action{kind: actQuit}, true
	case tcell.KeyRune:
		r := ev.Rune()
		if d, ok := moveRunes[r]; ok {
			return action{kind: actMove, dir: d}, true
		}
		if d, ok := shootRunes[r]; ok {
			return action{kind: actShoot, dir: d}, true
		}
		switch r {
		case ' ':
			return action{kind: actShootFacing}, true
		case 'f':
			return action{kind: actShootAll}, true
		}
	default:
		if d, ok := arrowKeys[ev.Key()]; ok {
			return action{kind: actMove, dir: d}, true
		}
	}
	return action{}, false
}
