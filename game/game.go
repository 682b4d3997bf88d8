// Package game plays complete local games between strategies. Every
// decision goes through ai.Bounded, the same as on the server, so a
// strategy that is late or panics loses the move here too.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/games"
	"github.com/nelhage/battlesnake/snake"
)

const (
	Source        = "selfplay"
	DefaultCutoff = 1000
)

type Entrant struct {
	Name   string
	Player ai.SnakePlayer
}

type Config struct {
	Board   snake.Config
	Ruleset snake.Ruleset
	// Timeout is the per-move budget in milliseconds the players are
	// told about.
	Timeout int
	Margin  time.Duration
	Cutoff  int

	Entrants []Entrant

	// Tracker, if set, sees every game's start, moves and end.
	Tracker *games.Tracker
	// OnTurn, if set, is called with each position before moves are
	// requested and once more with the final position.
	OnTurn func(st *snake.State)
}

type Result struct {
	ID     string
	Turns  int
	Over   bool
	Winner string

	Eliminated []snake.Elimination
	Fallbacks  map[string]int
	Records    []*games.Record
	Final      snake.Board
}

// SnakeID names the snake played by the i'th entrant.
func SnakeID(i int) string {
	return fmt.Sprintf("snake-%d", i+1)
}

func (c *Config) validate() error {
	if len(c.Entrants) == 0 {
		return errors.New("no players")
	}
	for i, e := range c.Entrants {
		if e.Player == nil {
			return fmt.Errorf("player %d: no strategy", i)
		}
	}
	return nil
}

// Play runs one game to completion, or until Cutoff turns have been
// played. It returns early only if ctx is cancelled.
func Play(ctx context.Context, c *Config, r *rand.Rand) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	cutoff := c.Cutoff
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	margin := c.Margin
	if margin == 0 {
		margin = ai.DefaultMargin
	}

	ids := make([]string, len(c.Entrants))
	deciders := make(map[string]*ai.Bounded, len(c.Entrants))
	players := make(map[string]ai.SnakePlayer, len(c.Entrants))
	for i, e := range c.Entrants {
		ids[i] = SnakeID(i)
		deciders[ids[i]] = ai.NewBounded(e.Player, margin)
		players[ids[i]] = e.Player
	}
	board, err := snake.NewBoard(c.Board, ids, r)
	if err != nil {
		return nil, err
	}
	for i, e := range c.Entrants {
		if e.Name != "" {
			board.Snakes[i].Name = e.Name
		}
	}

	g := snake.Game{
		ID:      uuid.NewString(),
		Ruleset: c.Ruleset,
		Source:  Source,
		Timeout: c.Timeout,
	}
	rules := snake.NewRules(c.Ruleset, r)
	solo := len(ids) == 1
	res := &Result{ID: g.ID, Fallbacks: make(map[string]int)}

	// last holds each snake as it was when last seen alive, for the
	// end-of-game notification.
	last := make(map[string]snake.Snake, len(ids))
	view := func(turn int, you snake.Snake) *snake.State {
		st := &snake.State{Game: g, Turn: turn, Board: *board, You: you}
		return st.Clone()
	}

	for _, s := range board.Snakes {
		last[s.ID] = s
		st := view(0, s)
		if c.Tracker != nil {
			c.Tracker.Start(st)
		}
		if o, ok := players[s.ID].(ai.GameObserver); ok {
			o.NewGame(st)
		}
	}

	turn := 0
	for {
		if c.OnTurn != nil {
			c.OnTurn(view(turn, snake.Snake{}))
		}
		if _, over := snake.Winner(board, solo); over || turn >= cutoff {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		moves := make(map[string]snake.Direction, len(board.Snakes))
		for _, s := range board.Snakes {
			st := view(turn, s)
			m, out := deciders[s.ID].Decide(ctx, st)
			if c.Tracker != nil {
				c.Tracker.Observe(st, out)
			}
			if out.Fallback {
				res.Fallbacks[s.ID]++
			}
			moves[s.ID] = m.Direction
		}

		next, elims := rules.Step(board, moves)
		*board = next
		turn++
		res.Eliminated = append(res.Eliminated, elims...)
		for _, s := range board.Snakes {
			last[s.ID] = s
		}
	}

	res.Turns = turn
	res.Winner, res.Over = snake.Winner(board, solo)
	res.Final = *board

	var storeErr error
	for _, id := range ids {
		st := view(turn, last[id])
		if c.Tracker != nil {
			rec, err := c.Tracker.End(st)
			if err != nil && storeErr == nil {
				storeErr = fmt.Errorf("record %s: %w", id, err)
			}
			res.Records = append(res.Records, rec)
		}
		if o, ok := players[id].(ai.GameObserver); ok {
			o.GameOver(st)
		}
	}
	return res, storeErr
}
