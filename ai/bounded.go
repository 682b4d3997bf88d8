package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nelhage/battlesnake/snake"
)

var (
	ErrDecisionTimeout       = errors.New("decision timeout")
	ErrDecisionEngineFailure = errors.New("decision engine failure")
)

const (
	// DefaultMargin is held back from the game's timeout for
	// serialization and the trip back to the game server.
	DefaultMargin = 75 * time.Millisecond
	// DefaultTimeout applies when a game has no positive timeout.
	DefaultTimeout   = 500 * time.Millisecond
	DefaultMinBudget = 10 * time.Millisecond
)

// Bounded runs a SnakePlayer against the per-turn deadline. It always
// produces a legal direction: if the player is late, panics, or
// answers with something that isn't a direction, Decide answers with
// Fallback instead.
type Bounded struct {
	Player    SnakePlayer
	Margin    time.Duration
	MinBudget time.Duration
}

type Outcome struct {
	Fallback bool
	Err      error
	Budget   time.Duration
	Elapsed  time.Duration
}

func NewBounded(p SnakePlayer, margin time.Duration) *Bounded {
	return &Bounded{Player: p, Margin: margin}
}

// Budget is the time the player gets for st: the game timeout less the
// margin, but never less than MinBudget.
func (b *Bounded) Budget(st *snake.State) time.Duration {
	timeout := time.Duration(st.Game.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	floor := b.MinBudget
	if floor <= 0 {
		floor = DefaultMinBudget
	}
	budget := timeout - b.Margin
	if budget < floor {
		budget = floor
	}
	return budget
}

type result struct {
	move snake.Move
	err  error
}

func (b *Bounded) Decide(ctx context.Context, st *snake.State) (snake.Move, Outcome) {
	start := time.Now()
	out := Outcome{Budget: b.Budget(st)}

	ctx, cancel := context.WithTimeout(ctx, out.Budget)
	defer cancel()

	// Buffered, so an abandoned player can still finish and exit.
	moves := make(chan result, 1)
	go func(st *snake.State) {
		defer func() {
			if r := recover(); r != nil {
				moves <- result{err: fmt.Errorf("%w: panic: %v", ErrDecisionEngineFailure, r)}
			}
		}()
		moves <- result{move: b.Player.GetMove(ctx, st)}
	}(st.Clone())

	var res result
	select {
	case res = <-moves:
	case <-ctx.Done():
		res.err = fmt.Errorf("%w: no move after %s", ErrDecisionTimeout, out.Budget)
	}
	if res.err == nil && !res.move.Direction.Valid() {
		res.err = fmt.Errorf("%w: invalid direction %d", ErrDecisionEngineFailure, res.move.Direction)
	}
	out.Elapsed = time.Since(start)

	if res.err != nil {
		out.Err = res.err
		out.Fallback = true
		return snake.Move{Direction: Fallback(st)}, out
	}
	res.move.Shout = SanitizeShout(res.move.Shout)
	return res.move, out
}
