package snake

import "fmt"

type Direction byte

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four cardinal directions in the order the
// fallback policy considers them.
var Directions = [4]Direction{Up, Right, Down, Left}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return NoDirection
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return NoDirection, fmt.Errorf("bad direction: %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot marshal direction %d", d)
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Coord is a board square. (0,0) is the bottom-left corner, so Up
// increases Y.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) Move(d Direction) Coord {
	switch d {
	case Up:
		return Coord{c.X, c.Y + 1}
	case Down:
		return Coord{c.X, c.Y - 1}
	case Left:
		return Coord{c.X - 1, c.Y}
	case Right:
		return Coord{c.X + 1, c.Y}
	}
	return c
}

// DirectionTo returns the direction of a neighbouring square, or
// NoDirection if to is not adjacent to c.
func (c Coord) DirectionTo(to Coord) Direction {
	for _, d := range Directions {
		if c.Move(d) == to {
			return d
		}
	}
	return NoDirection
}

func (c Coord) Distance(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
