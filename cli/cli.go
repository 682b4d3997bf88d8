package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"

	"github.com/nelhage/battlesnake/game"
	"github.com/nelhage/battlesnake/snake"
)

type Glyphs struct {
	Empty  string
	Food   string
	Hazard string
}

// CLI plays a local game, drawing the board to Out every turn.
type CLI struct {
	Config game.Config
	Glyphs *Glyphs
	Out    io.Writer
}

var DefaultGlyphs = Glyphs{
	Empty:  ".",
	Food:   "*",
	Hazard: "~",
}

var UnicodeGlyphs = Glyphs{
	Empty:  "·",
	Food:   "●",
	Hazard: "░",
}

func (c *CLI) Play(ctx context.Context, r *rand.Rand) (*game.Result, error) {
	cfg := c.Config
	cfg.OnTurn = c.render
	res, err := game.Play(ctx, &cfg, r)
	if res == nil {
		return nil, err
	}
	fmt.Fprintf(c.Out, "Game Over after %d turns! ", res.Turns)
	switch {
	case !res.Over:
		fmt.Fprintf(c.Out, "Cut off.")
	case res.Winner == "":
		fmt.Fprintf(c.Out, "Draw.")
	default:
		fmt.Fprintf(c.Out, "%s wins.", nameOf(&res.Final, res.Winner))
	}
	fmt.Fprintln(c.Out)
	for _, e := range res.Eliminated {
		if e.By != "" && e.By != e.ID {
			fmt.Fprintf(c.Out, "  %s: %s by %s\n", e.ID, e.Cause, e.By)
		} else {
			fmt.Fprintf(c.Out, "  %s: %s\n", e.ID, e.Cause)
		}
	}
	return res, err
}

func nameOf(b *snake.Board, id string) string {
	if s := b.Snake(id); s != nil && s.Name != "" {
		return s.Name
	}
	return id
}

func (c *CLI) render(st *snake.State) {
	RenderBoard(c.Glyphs, c.Out, st)
}

// Label is the letter a snake is drawn with: upper case for the head,
// lower case for the body.
func Label(i int) (head, body byte) {
	i %= 26
	return byte('A' + i), byte('a' + i)
}

func RenderBoard(g *Glyphs, out io.Writer, st *snake.State) {
	if g == nil {
		g = &DefaultGlyphs
	}
	b := &st.Board
	cells := make(map[snake.Coord]string)
	for _, c := range b.Hazards {
		cells[c] = g.Hazard
	}
	for _, c := range b.Food {
		cells[c] = g.Food
	}
	for i := range b.Snakes {
		head, body := Label(i)
		s := &b.Snakes[i]
		for j := len(s.Body) - 1; j >= 0; j-- {
			if j == 0 {
				cells[s.Body[j]] = string(head)
			} else {
				cells[s.Body[j]] = string(body)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "[turn %d]\n", st.Turn)
	w := tabwriter.NewWriter(out, 2, 8, 1, ' ', 0)
	for y := b.Height - 1; y >= 0; y-- {
		fmt.Fprintf(w, "%d\t", y)
		for x := 0; x < b.Width; x++ {
			cell, ok := cells[snake.Coord{X: x, Y: y}]
			if !ok {
				cell = g.Empty
			}
			fmt.Fprintf(w, "%s\t", cell)
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\t")
	for x := 0; x < b.Width; x++ {
		fmt.Fprintf(w, "%d\t", x)
	}
	fmt.Fprintf(w, "\n")
	w.Flush()
	for i := range b.Snakes {
		s := &b.Snakes[i]
		head, _ := Label(i)
		fmt.Fprintf(out, "%c: %s health=%d length=%d\n", head, s.Name, s.Health, s.Length)
	}
}
