package selfplay

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/game"
	"github.com/nelhage/battlesnake/snake"
)

func TestBinomTest(t *testing.T) {
	assert.InDelta(t, 1.0/32, binomTest(5, 0, 0.5), 1e-9)
	assert.InDelta(t, 1.0, binomTest(0, 4, 0.5), 1e-9)
	assert.InDelta(t, 0.75, binomTest(1, 1, 0.5), 1e-9)
}

func TestTally(t *testing.T) {
	entrants := []game.Entrant{{Name: "a"}, {Name: "b"}}
	a, b := game.SnakeID(0), game.SnakeID(1)
	results := []*game.Result{
		{Turns: 10, Over: true, Winner: a,
			Eliminated: []snake.Elimination{{ID: b, Cause: snake.OutOfBounds}},
			Fallbacks:  map[string]int{b: 2}},
		{Turns: 5, Over: true,
			Eliminated: []snake.Elimination{
				{ID: a, Cause: snake.HeadCollision, By: b},
				{ID: b, Cause: snake.HeadCollision, By: a},
			}},
		{Turns: 100, Over: false},
	}
	st := tally(entrants, results)
	assert.Equal(t, 3, st.Count())
	assert.Equal(t, 115, st.Turns)
	assert.Equal(t, 1, st.Draws)
	assert.Equal(t, 1, st.Cutoff)
	assert.Equal(t, 1, st.Players[0].Wins)
	assert.Equal(t, 1, st.Players[0].Losses)
	assert.Equal(t, 0, st.Players[1].Wins)
	assert.Equal(t, 2, st.Players[1].Losses)
	assert.Equal(t, 2, st.Players[1].Fallbacks)
	assert.Equal(t, 1, st.Players[1].Deaths[snake.OutOfBounds])

	var out bytes.Buffer
	report(&out, &st)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"player", "wins", "losses", "fallbacks", "head-collision", "wall-collision"},
		strings.Fields(lines[0]))
	assert.Equal(t, []string{"b", "0", "2", "2", "1", "1"}, strings.Fields(lines[2]))
}

func TestSimulate(t *testing.T) {
	cfg := &Config{
		Game: game.Config{
			Board:   snake.Config{Width: 7, Height: 7},
			Timeout: 500,
			Cutoff:  30,
			Entrants: []game.Entrant{
				{Name: "greedy", Player: ai.NewGreedy(ai.GreedyConfig{})},
				{Name: "random", Player: ai.NewRandom(1)},
			},
		},
		Games:   4,
		Threads: 2,
		Seed:    1,
	}
	st, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Count())
	require.Len(t, st.Players, 2)
	wins := st.Players[0].Wins + st.Players[1].Wins
	assert.Equal(t, 4, wins+st.Draws+st.Cutoff)
	for _, r := range st.Games {
		assert.LessOrEqual(t, r.Turns, 30)
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &Config{
		Game: game.Config{
			Board:    snake.Config{Width: 7, Height: 7},
			Entrants: []game.Entrant{{Name: "random", Player: ai.NewRandom(1)}},
		},
		Games: 2,
	}
	_, err := Simulate(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
