// Package games keeps track of games in progress and, optionally,
// records finished ones in a sqlite index.
package games

import (
	"errors"
	"sync"
	"time"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/snake"
)

const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

// Record summarizes one snake's view of one game.
type Record struct {
	GameID    string `db:"game_id"`
	SnakeID   string `db:"snake_id"`
	SnakeName string `db:"snake_name"`
	Ruleset   string `db:"ruleset"`
	Map       string `db:"map"`
	Width     int    `db:"width"`
	Height    int    `db:"height"`
	Timeout   int    `db:"timeout"`

	Started time.Time `db:"started"`
	Ended   time.Time `db:"ended"`

	Turns     int `db:"turns"`
	Moves     int `db:"moves"`
	Fallbacks int `db:"fallbacks"`
	Timeouts  int `db:"timeouts"`
	Failures  int `db:"failures"`

	Result string `db:"result"`
}

// Store persists finished games. *Repository implements it.
type Store interface {
	InsertGame(g *Record) error
}

// Tracker holds per-game state between the start and end requests,
// keyed by game and snake ID. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	games map[key]*Record

	store Store
	now   func() time.Time
}

type key struct {
	game, snake string
}

func NewTracker(store Store) *Tracker {
	return &Tracker{
		games: make(map[key]*Record),
		store: store,
		now:   time.Now,
	}
}

func keyOf(st *snake.State) key {
	return key{st.Game.ID, st.You.ID}
}

func (t *Tracker) newRecord(st *snake.State) *Record {
	return &Record{
		GameID:    st.Game.ID,
		SnakeID:   st.You.ID,
		SnakeName: st.You.Name,
		Ruleset:   st.Game.Ruleset.Name(),
		Map:       st.Game.Map,
		Width:     st.Board.Width,
		Height:    st.Board.Height,
		Timeout:   st.Game.Timeout,
		Started:   t.now(),
	}
}

// Start begins tracking a game. Starting a game twice resets it.
func (t *Tracker) Start(st *snake.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.games[keyOf(st)] = t.newRecord(st)
}

// Observe counts one move decision. Moves for games that were never
// started begin tracking on the fly.
func (t *Tracker) Observe(st *snake.State, out ai.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.games[keyOf(st)]
	if !ok {
		r = t.newRecord(st)
		t.games[keyOf(st)] = r
	}
	r.Moves++
	r.Turns = st.Turn
	if out.Fallback {
		r.Fallbacks++
	}
	switch {
	case errors.Is(out.Err, ai.ErrDecisionTimeout):
		r.Timeouts++
	case errors.Is(out.Err, ai.ErrDecisionEngineFailure):
		r.Failures++
	}
}

// End stops tracking a game and returns its final record, writing it
// to the store if there is one. The record is returned even if the
// store fails.
func (t *Tracker) End(st *snake.State) (*Record, error) {
	t.mu.Lock()
	r, ok := t.games[keyOf(st)]
	if ok {
		delete(t.games, keyOf(st))
	} else {
		r = t.newRecord(st)
	}
	t.mu.Unlock()

	r.Ended = t.now()
	r.Turns = st.Turn
	r.Result = Result(st)
	if t.store == nil {
		return r, nil
	}
	return r, t.store.InsertGame(r)
}

// Active returns the number of games being tracked.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.games)
}

// Sweep forgets games that started more than maxAge ago and never
// ended, returning how many it dropped.
func (t *Tracker) Sweep(maxAge time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-maxAge)
	n := 0
	for k, r := range t.games {
		if r.Started.Before(cutoff) {
			delete(t.games, k)
			n++
		}
	}
	return n
}

// Result decides the outcome of a finished game from the final state.
func Result(st *snake.State) string {
	me := st.Me()
	switch {
	case me != nil && len(st.Board.Snakes) == 1:
		return ResultWin
	case me == nil && len(st.Board.Snakes) > 0:
		return ResultLoss
	}
	return ResultDraw
}
