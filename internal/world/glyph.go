package world

// Color is a renderer-neutral palette entry.
type Color uint8

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorOrange
	ColorLime
)

// Glyph is the visual descriptor of a cell.
type Glyph struct {
	Rune      rune
	Fg        Color
	Bg        Color
	Bold      bool
	Blink     bool
	Underline bool
}

var defaultGlyphs = map[Kind]Glyph{
	KindAir:            {Rune: ' '},
	KindWall:           {Rune: '#', Fg: ColorGray},
	KindPlayer:         {Rune: '@', Fg: ColorCyan, Bold: true},
	KindZombie:         {Rune: 'z', Fg: ColorGreen},
	KindTroll:          {Rune: 'T', Fg: ColorYellow, Bold: true},
	KindBabyZombie:     {Rune: 'b', Fg: ColorLime},
	KindMonster:        {Rune: 'M', Fg: ColorMagenta},
	KindBoss:           {Rune: 'B', Fg: ColorRed, Bold: true},
	KindBullet:         {Rune: '*', Fg: ColorYellow},
	KindEnergyDrink:    {Rune: '+', Fg: ColorGreen, Bold: true},
	KindStrengthPotion: {Rune: '!', Fg: ColorOrange, Bold: true},
	KindShield:         {Rune: 'O', Fg: ColorBlue, Bold: true},
}

// DefaultGlyph returns the stock appearance of kind k.
func DefaultGlyph(k Kind) Glyph {
	return defaultGlyphs[k]
}

var bulletRunes = [NumDirections]rune{'|', '/', '-', '\\', '|', '/', '-', '\\'}

// Appearance is the glyph to draw for e, including transient state:
// bullets point along their heading, shielded actors get a blue
// background and items about to expire blink.
func (e Entity) Appearance() Glyph {
	g := e.Glyph
	switch {
	case e.Kind == KindBullet:
		g.Rune = bulletRunes[e.Bullet.Dir%NumDirections]
	case e.Kind.IsActor():
		if e.Actor.Shielded {
			g.Bg = ColorBlue
			g.Underline = true
		}
	case e.Kind.IsCollectible():
		g.Blink = e.Item.Blinking
	}
	return g
}
