package ai

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/nelhage/battlesnake/snake"
)

// RandomAI picks uniformly among the directions that don't lose
// immediately. The RNG is derived per request from the seed, game,
// and turn, so concurrent games never share one.
type RandomAI struct {
	seed int64
}

const prime = 1099511628211

func (r *RandomAI) GetMove(ctx context.Context, st *snake.State) snake.Move {
	h := fnv.New64a()
	h.Write([]byte(st.Game.ID))
	rng := rand.New(rand.NewSource(r.seed*prime + int64(h.Sum64()) + int64(st.Turn)))

	moves := SafeMoves(st)
	if len(moves) == 0 {
		return snake.Move{Direction: Fallback(st)}
	}
	return snake.Move{Direction: moves[rng.Intn(len(moves))]}
}

func NewRandom(seed int64) SnakePlayer {
	return &RandomAI{seed: seed}
}
