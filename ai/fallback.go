package ai

import "github.com/nelhage/battlesnake/snake"

// Fallback picks a direction without any search. It tries
// snake.Directions in order and takes the first that stays on the
// board and doesn't turn back into the neck; failing that, the first
// that doesn't reverse; failing that, up.
func Fallback(st *snake.State) snake.Direction {
	head := st.You.Head
	if len(st.You.Body) > 0 {
		head = st.You.Body[0]
	}
	neck, hasNeck := st.You.Neck()
	reverses := func(d snake.Direction) bool {
		return hasNeck && head.Move(d) == neck
	}
	for _, d := range snake.Directions {
		if st.Board.InBounds(head.Move(d)) && !reverses(d) {
			return d
		}
	}
	for _, d := range snake.Directions {
		if !reverses(d) {
			return d
		}
	}
	return snake.Up
}

// SafeMoves returns the directions, in snake.Directions order, that
// stay on the board and don't run into a body segment that will still
// be there next turn.
func SafeMoves(st *snake.State) []snake.Direction {
	blocked := blockedSquares(&st.Board)
	head := st.You.Head
	var out []snake.Direction
	for _, d := range snake.Directions {
		c := head.Move(d)
		if st.Board.InBounds(c) && !blocked[c] {
			out = append(out, d)
		}
	}
	return out
}

// blockedSquares marks every body segment except tails that are about
// to move away. A stacked tail means the snake just ate and the tail
// stays put.
func blockedSquares(b *snake.Board) map[snake.Coord]bool {
	blocked := make(map[snake.Coord]bool)
	for _, s := range b.Snakes {
		n := len(s.Body)
		for i, c := range s.Body {
			if i == n-1 && n > 1 && s.Body[n-2] != c {
				continue
			}
			blocked[c] = true
		}
	}
	return blocked
}
