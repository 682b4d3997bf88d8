package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/snake"
)

// NewCLIPlayer returns a player that prompts on out and reads its
// moves from in.
func NewCLIPlayer(out io.Writer, in *bufio.Reader) ai.SnakePlayer {
	return &cliPlayer{out: out, in: in}
}

type cliPlayer struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader
}

var abbrev = map[string]snake.Direction{
	"u": snake.Up,
	"d": snake.Down,
	"l": snake.Left,
	"r": snake.Right,
}

func parseInput(line string) (snake.Direction, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	if d, ok := abbrev[line]; ok {
		return d, nil
	}
	return snake.ParseDirection(line)
}

func (c *cliPlayer) GetMove(ctx context.Context, st *snake.State) snake.Move {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ctx.Err() == nil {
		fmt.Fprintf(c.out, "%s> ", st.You.Name)
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(c.out, "read error:", err)
			return snake.Move{}
		}
		d, err := parseInput(line)
		if err != nil {
			fmt.Fprintln(c.out, "parse error:", err)
			continue
		}
		return snake.Move{Direction: d}
	}
	return snake.Move{}
}
