package ai

import (
	"context"

	"github.com/nelhage/battlesnake/snake"
)

// SnakePlayer is a move-selection strategy. GetMove should watch ctx
// and return promptly once it is done; callers that cannot wait stop
// listening for the result, they do not kill the computation.
type SnakePlayer interface {
	GetMove(ctx context.Context, st *snake.State) snake.Move
}

// GameObserver is implemented by players that want to hear about the
// start and end of each game, e.g. to key per-game memory by game ID.
type GameObserver interface {
	NewGame(st *snake.State)
	GameOver(st *snake.State)
}
