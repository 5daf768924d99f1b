package world

import "fmt"

// Point is a grid coordinate. X grows to the right, Y grows downward.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p shifted by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Step returns the neighbouring cell in direction dir.
func (p Point) Step(dir Direction) Point { return p.Add(dir.Delta()) }

// Less orders points by X, then Y.
func (p Point) Less(o Point) bool {
	return p.X < o.X || (p.X == o.X && p.Y < o.Y)
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Manhattan returns |dx| + |dy|.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns max(|dx|, |dy|), the step count under 8-connected movement.
func Chebyshev(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dy > dx {
		return dy
	}
	return dx
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Direction is one of the eight compass headings, clockwise from Up.
type Direction uint8

const (
	Up Direction = iota
	UpRight
	Right
	DownRight
	Down
	DownLeft
	Left
	UpLeft
)

// NumDirections is the number of compass headings.
const NumDirections = 8

var headingDX = [NumDirections]int{0, 1, 1, 1, 0, -1, -1, -1}
var headingDY = [NumDirections]int{-1, -1, 0, 1, 1, 1, 0, -1}

var directionNames = [NumDirections]string{
	"up", "up-right", "right", "down-right", "down", "down-left", "left", "up-left",
}

// Directions lists every heading in clockwise order.
func Directions() []Direction {
	return []Direction{Up, UpRight, Right, DownRight, Down, DownLeft, Left, UpLeft}
}

// Delta is the unit offset of the heading.
func (d Direction) Delta() Point {
	return Point{X: headingDX[d%NumDirections], Y: headingDY[d%NumDirections]}
}

// Opposite is the heading rotated by 180 degrees.
func (d Direction) Opposite() Direction {
	return (d + NumDirections/2) % NumDirections
}

func (d Direction) String() string {
	if d >= NumDirections {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// HeadingTo returns the heading that points from a toward b. ok is false when
// a == b.
func HeadingTo(a, b Point) (Direction, bool) {
	dx := sign(b.X - a.X)
	dy := sign(b.Y - a.Y)
	for i := Direction(0); i < NumDirections; i++ {
		if headingDX[i] == dx && headingDY[i] == dy {
			return i, true
		}
	}
	return Up, false
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
