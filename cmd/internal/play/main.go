package play

import (
	"bufio"
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/cli"
	"github.com/nelhage/battlesnake/cmd/internal/opt"
	"github.com/nelhage/battlesnake/config"
	"github.com/nelhage/battlesnake/game"
	"github.com/nelhage/battlesnake/snake"
)

type Command struct {
	Env *config.Config

	players string
	width   int
	height  int
	seed    int64
	debug   int
	limit   time.Duration
	margin  time.Duration

	unicode bool
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play Battlesnake from the command line" }
func (*Command) Usage() string {
	return `play [flags]

Play a local game on the command-line, against AIs or other humans.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	env := opt.OrDefault(c.Env)
	flags.StringVar(&c.players, "players", "human,greedy", "comma-separated players: human or a strategy spec")
	flags.IntVar(&c.width, "width", 11, "board width")
	flags.IntVar(&c.height, "height", 11, "board height")
	flags.Int64Var(&c.seed, "seed", 0, "random seed")
	flags.IntVar(&c.debug, "debug", 0, "debug level")
	flags.DurationVar(&c.limit, "limit", time.Minute, "time limit per move")
	flags.DurationVar(&c.margin, "margin", env.MoveMargin, "time held back from each move's limit")

	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.seed == 0 {
		c.seed = time.Now().UnixNano()
	}
	in := bufio.NewReader(os.Stdin)
	glyphs := &cli.DefaultGlyphs
	if c.unicode {
		glyphs = &cli.UnicodeGlyphs
	}

	var entrants []game.Entrant
	for _, spec := range strings.Split(c.players, ",") {
		p, err := c.parsePlayer(in, spec)
		if err != nil {
			log.Printf("player %q: %v", spec, err)
			return subcommands.ExitUsageError
		}
		entrants = append(entrants, game.Entrant{Name: spec, Player: p})
	}

	st := &cli.CLI{
		Config: game.Config{
			Board:    snake.Config{Width: c.width, Height: c.height},
			Ruleset:  snake.Ruleset{"name": snake.String("standard")},
			Timeout:  int(c.limit / time.Millisecond),
			Margin:   c.margin,
			Entrants: entrants,
		},
		Out:    os.Stdout,
		Glyphs: glyphs,
	}
	if _, err := st.Play(ctx, rand.New(rand.NewSource(c.seed))); err != nil {
		log.Printf("play: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *Command) parsePlayer(in *bufio.Reader, s string) (ai.SnakePlayer, error) {
	if s == "human" {
		return cli.NewCLIPlayer(os.Stdout, in), nil
	}
	return ai.NewPlayer(s, 0, c.debug)
}
