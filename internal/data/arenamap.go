package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/l1jgo/arena/internal/world"
)

var (
	// ErrMultiplePlayers is returned when a map marks more than one start cell.
	ErrMultiplePlayers = errors.New("arena map: more than one player marker")
	// ErrBadGlyph is returned for characters other than ' ', 'X' and 'P'.
	ErrBadGlyph = errors.New("arena map: unrecognised character")
)

// Map file glyphs.
const (
	glyphAir    = ' '
	glyphWall   = 'X'
	glyphPlayer = 'P'
)

// placeholderHP marks a player placed by the map; the game rebuilds it with
// the configured hit points.
const placeholderHP = 1

// LoadArena reads a map file into a width x height grid.
func LoadArena(path string, width, height int) (*world.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open arena map: %w", err)
	}
	defer f.Close()
	g, err := ParseArena(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ParseArena builds a grid from map text. Each line is a row and each
// character a cell. Rows and columns past the grid are ignored, missing
// cells stay Air and the outer ring is always wall. A 'P' registers the
// player under ID 0. UTF-8 and UTF-16 input with a byte order mark are
// both accepted.
func ParseArena(r io.Reader, width, height int) (*world.Grid, error) {
	g, err := world.NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 4*1024), 64*1024)

	players := 0
	y := 0
	for scanner.Scan() && y < height {
		line := strings.TrimRight(scanner.Text(), "\r")
		x := 0
		for _, ch := range line {
			if x >= width {
				break
			}
			p := world.Pt(x, y)
			switch ch {
			case glyphAir:
			case glyphWall:
				if g.Interior(p) {
					if err := g.Set(p, world.Wall(p)); err != nil {
						return nil, err
					}
				}
			case glyphPlayer:
				players++
				if players > 1 {
					return nil, fmt.Errorf("%w: second one at %v", ErrMultiplePlayers, p)
				}
				if _, err := g.SetWithID(p, world.NewPlayer(p, placeholderHP, 1)); err != nil {
					return nil, fmt.Errorf("player start: %w", err)
				}
			default:
				return nil, fmt.Errorf("%w %q at %v", ErrBadGlyph, ch, p)
			}
			x++
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read arena map: %w", err)
	}
	return g, nil
}
