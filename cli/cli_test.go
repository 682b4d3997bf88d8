package cli

import (
	"bufio"
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/battlesnake/game"
	"github.com/nelhage/battlesnake/snake"
	. "github.com/nelhage/battlesnake/snaketest"
)

func TestRenderBoard(t *testing.T) {
	st := State(3, 3, Snake("me", C(0, 0), C(1, 0)), Snake("them", C(2, 2)))
	st.Board.Food = []snake.Coord{C(0, 2)}
	st.Board.Hazards = []snake.Coord{C(1, 1), C(0, 2)}
	st.Turn = 4

	var out bytes.Buffer
	RenderBoard(nil, &out, st)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "[turn 4]", lines[0])
	assert.Equal(t, []string{"2", "*", ".", "B"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", ".", "~", "."}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"0", "A", "a", "."}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"0", "1", "2"}, strings.Fields(lines[4]))
	assert.True(t, strings.HasPrefix(lines[5], "A: me "))
	assert.True(t, strings.HasPrefix(lines[6], "B: them "))
}

func TestParseInput(t *testing.T) {
	for in, want := range map[string]snake.Direction{
		"u\n":     snake.Up,
		" LEFT\n": snake.Left,
		"down":    snake.Down,
		"r\r\n":   snake.Right,
	} {
		d, err := parseInput(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d, in)
	}
	_, err := parseInput("north")
	assert.Error(t, err)
}

func TestCLIPlayer(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPlayer(&out, bufio.NewReader(strings.NewReader("sideways\nl\n")))
	st := State(5, 5, Snake("me", C(2, 2), C(3, 2)))
	m := p.GetMove(context.Background(), st)
	assert.Equal(t, snake.Left, m.Direction)
	assert.Contains(t, out.String(), "parse error")

	m = p.GetMove(context.Background(), st)
	assert.False(t, m.Direction.Valid())
}

func TestPlay(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{
		Config: game.Config{
			Board:   snake.Config{Width: 7, Height: 7},
			Timeout: 500,
			Entrants: []game.Entrant{{
				Name:   "human",
				Player: NewCLIPlayer(&out, bufio.NewReader(strings.NewReader(strings.Repeat("u\n", 10)))),
			}},
		},
		Out: &out,
	}
	res, err := c.Play(context.Background(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, res.Over)
	assert.Contains(t, out.String(), "Game Over")
	assert.Contains(t, out.String(), string(snake.OutOfBounds))
}
