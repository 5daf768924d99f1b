package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/l1jgo/arena/internal/game"
	"github.com/l1jgo/arena/internal/world"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleStatus  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHelp    = styleDefault.Foreground(tcell.ColorGray)
	styleLowHP   = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleOver    = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite).Bold(true)
)

var palette = map[world.Color]tcell.Color{
	world.ColorDefault: tcell.ColorReset,
	world.ColorBlack:   tcell.ColorBlack,
	world.ColorRed:     tcell.ColorRed,
	world.ColorGreen:   tcell.ColorGreen,
	world.ColorYellow:  tcell.ColorYellow,
	world.ColorBlue:    tcell.ColorBlue,
	world.ColorMagenta: tcell.ColorFuchsia,
	world.ColorCyan:    tcell.ColorAqua,
	world.ColorWhite:   tcell.ColorWhite,
	world.ColorGray:    tcell.ColorGray,
	world.ColorOrange:  tcell.ColorOrange,
	world.ColorLime:    tcell.ColorLime,
}

func glyphStyle(gl world.Glyph) tcell.Style {
	st := styleDefault
	if c, ok := palette[gl.Fg]; ok && gl.Fg != world.ColorDefault {
		st = st.Foreground(c)
	}
	if c, ok := palette[gl.Bg]; ok && gl.Bg != world.ColorDefault {
		st = st.Background(c)
	}
	return st.Bold(gl.Bold).Blink(gl.Blink).Underline(gl.Underline)
}

func (f *Frontend) draw(v game.View) {
	s := f.screen
	s.Clear()
	fr := v.Frame
	for y := 0; y < fr.Height; y++ {
		for x := 0; x < fr.Width; x++ {
			gl := fr.At(x, y)
			s.SetContent(x, y, gl.Rune, nil, glyphStyle(gl))
		}
	}

	hpStyle := styleStatus
	if v.MaxHP > 0 && v.HP*4 <= v.MaxHP {
		hpStyle = styleLowHP
	}
	x := drawText(s, 0, fr.Height, hpStyle, fmt.Sprintf("HP %d/%d", v.HP, v.MaxHP))
	status := fmt.Sprintf("  DMG %d  SCORE %d  TICK %d  MOBS %d  ITEMS %d", v.Damage, v.Score, v.Clock, v.Mobs, v.Items)
	if v.Shielded {
		status += "  SHIELD"
	}
	drawText(s, x, fr.Height, styleStatus, status)

	if v.Running {
		drawText(s, 0, fr.Height+1, styleHelp, "move: arrows/qweasdzc  shoot: ijkl, space, f=all  quit: esc")
	} else {
		drawText(s, 0, fr.Height+1, styleOver, " GAME OVER ")
	}
	s.Show()
}

// drawText writes str starting at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, st tcell.Style, str string) int {
	for _, r := range str {
		s.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}
