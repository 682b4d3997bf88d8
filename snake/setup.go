package snake

import (
	"errors"
	"math/rand"
)

type Config struct {
	Width, Height int
	StartLength   int
}

const defaultStartLength = 3

// NewBoard lays out a fresh board for the given snakes. Snakes start
// stacked on a single square, as in the standard ruleset, spread over
// the fixed start points of a standard board with one food each.
func NewBoard(cfg Config, ids []string, r *rand.Rand) (*Board, error) {
	if cfg.Width <= 1 || cfg.Height <= 1 {
		return nil, errors.New("board too small")
	}
	if cfg.StartLength == 0 {
		cfg.StartLength = defaultStartLength
	}
	starts := startPoints(cfg.Width, cfg.Height)
	if len(ids) > len(starts) {
		return nil, errors.New("too many snakes for board")
	}
	r.Shuffle(len(starts), func(i, j int) { starts[i], starts[j] = starts[j], starts[i] })

	b := &Board{Width: cfg.Width, Height: cfg.Height}
	for i, id := range ids {
		s := Snake{ID: id, Name: id, Health: MaxHealth, Head: starts[i], Length: cfg.StartLength}
		for j := 0; j < cfg.StartLength; j++ {
			s.Body = append(s.Body, starts[i])
		}
		b.Snakes = append(b.Snakes, s)
	}
	for _, s := range b.Snakes {
		for _, d := range Directions {
			c := s.Head.Move(d).Move(d.Opposite().rotate())
			if b.InBounds(c) && !containsCoord(b.Food, c) && !occupied(b, c) {
				b.Food = append(b.Food, c)
				break
			}
		}
	}
	center := Coord{(cfg.Width - 1) / 2, (cfg.Height - 1) / 2}
	if !occupied(b, center) && !containsCoord(b.Food, center) {
		b.Food = append(b.Food, center)
	}
	return b, nil
}

// rotate turns a direction a quarter clockwise.
func (d Direction) rotate() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	}
	return d
}

func startPoints(w, h int) []Coord {
	mx, my := 1, 1
	xs := []int{mx, (w - 1) / 2, w - 1 - mx}
	ys := []int{my, (h - 1) / 2, h - 1 - my}
	var out []Coord
	seen := make(map[Coord]bool)
	for _, y := range ys {
		for _, x := range xs {
			c := Coord{x, y}
			if c == (Coord{(w - 1) / 2, (h - 1) / 2}) || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func occupied(b *Board, c Coord) bool {
	for _, s := range b.Snakes {
		if containsCoord(s.Body, c) {
			return true
		}
	}
	return false
}
