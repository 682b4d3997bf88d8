package ai

import (
	"context"
	"log"

	"github.com/nelhage/battlesnake/snake"
)

type GreedyConfig struct {
	// Hungry is the health below which the snake heads for food
	// regardless of its length.
	Hungry int
	Debug  int
}

// GreedyAI scores each safe move by the room it leaves, the risk of
// losing a head-to-head, and the distance to food. It looks one move
// ahead only.
type GreedyAI struct {
	cfg GreedyConfig
}

const (
	defaultHungry = 40

	weightSpace  = 10
	weightFood   = 6
	penaltyHead  = 400
	penaltyHaz   = 30
	penaltyTrap  = 1000
	noFoodFound  = -1
	spaceSearchK = 2
)

func NewGreedy(cfg GreedyConfig) *GreedyAI {
	if cfg.Hungry == 0 {
		cfg.Hungry = defaultHungry
	}
	return &GreedyAI{cfg: cfg}
}

func (g *GreedyAI) GetMove(ctx context.Context, st *snake.State) snake.Move {
	moves := SafeMoves(st)
	if len(moves) == 0 {
		return snake.Move{Direction: Fallback(st), Shout: "oh no"}
	}

	blocked := blockedSquares(&st.Board)
	hazards := make(map[snake.Coord]bool, len(st.Board.Hazards))
	for _, h := range st.Board.Hazards {
		hazards[h] = true
	}
	hungry := st.You.Health < g.cfg.Hungry || !g.longest(st)

	best, bestScore := moves[0], int64(-1<<62)
	for _, d := range moves {
		if ctx.Err() != nil {
			break
		}
		next := st.You.Head.Move(d)
		var score int64

		limit := spaceSearchK * len(st.You.Body)
		space := floodFill(&st.Board, blocked, next, limit)
		score += weightSpace * int64(space)
		if space < len(st.You.Body) {
			score -= penaltyTrap
		}
		if g.contested(st, next) {
			score -= penaltyHead
		}
		if hazards[next] {
			score -= penaltyHaz
		}
		if hungry {
			if dist := foodDistance(&st.Board, blocked, next); dist != noFoodFound {
				score -= weightFood * int64(dist)
			}
		}
		if g.cfg.Debug > 1 {
			log.Printf("greedy game-id=%s turn=%d dir=%s space=%d score=%d",
				st.Game.ID, st.Turn, d, space, score)
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return snake.Move{Direction: best}
}

func (g *GreedyAI) longest(st *snake.State) bool {
	for _, s := range st.Board.Snakes {
		if s.ID != st.You.ID && len(s.Body) >= len(st.You.Body) {
			return false
		}
	}
	return true
}

// contested reports whether a snake at least as long as us could move
// its head onto c this turn.
func (g *GreedyAI) contested(st *snake.State, c snake.Coord) bool {
	for _, s := range st.Board.Snakes {
		if s.ID == st.You.ID || len(s.Body) < len(st.You.Body) {
			continue
		}
		if s.Head.Distance(c) == 1 {
			return true
		}
	}
	return false
}

// floodFill counts squares reachable from start, stopping once limit
// squares have been found.
func floodFill(b *snake.Board, blocked map[snake.Coord]bool, start snake.Coord, limit int) int {
	seen := map[snake.Coord]bool{start: true}
	queue := []snake.Coord{start}
	for len(queue) > 0 && len(seen) < limit {
		c := queue[0]
		queue = queue[1:]
		for _, d := range snake.Directions {
			n := c.Move(d)
			if !b.InBounds(n) || blocked[n] || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}

// foodDistance is the BFS distance from start to the nearest food, or
// noFoodFound.
func foodDistance(b *snake.Board, blocked map[snake.Coord]bool, start snake.Coord) int {
	if len(b.Food) == 0 {
		return noFoodFound
	}
	food := make(map[snake.Coord]bool, len(b.Food))
	for _, f := range b.Food {
		food[f] = true
	}
	dist := map[snake.Coord]int{start: 0}
	queue := []snake.Coord{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if food[c] {
			return dist[c]
		}
		for _, d := range snake.Directions {
			n := c.Move(d)
			if _, ok := dist[n]; ok || !b.InBounds(n) || blocked[n] {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return noFoodFound
}
