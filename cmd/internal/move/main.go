package move

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/google/subcommands"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/cli"
	"github.com/nelhage/battlesnake/cmd/internal/opt"
	"github.com/nelhage/battlesnake/config"
	"github.com/nelhage/battlesnake/rpc"
	"github.com/nelhage/battlesnake/snake"
)

type Command struct {
	Env *config.Config

	remote  string
	render  bool
	unicode bool

	player opt.Player
}

func (*Command) Name() string     { return "move" }
func (*Command) Synopsis() string { return "Decide a single move for a saved request" }
func (*Command) Usage() string {
	return `move [flags] [STATE.json]

Read a move request from STATE.json, or stdin if no file is given, and
print the response the server would send.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.remote, "remote", "", "ask the gRPC server at this address instead of a local strategy")
	flags.BoolVar(&c.render, "render", false, "draw the board on stderr")
	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
	c.player.AddFlags(flags, opt.OrDefault(c.Env))
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in io.Reader = os.Stdin
	switch flag.NArg() {
	case 0:
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Printf("open: %v", err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		in = f
	default:
		log.Println("Usage: move [STATE.json]")
		return subcommands.ExitUsageError
	}

	st, err := snake.ParseState(in)
	if err == nil {
		_, err = st.RequireYou()
	}
	if err != nil {
		log.Printf("parse: %v", err)
		return subcommands.ExitFailure
	}
	if c.render {
		g := &cli.DefaultGlyphs
		if c.unicode {
			g = &cli.UnicodeGlyphs
		}
		cli.RenderBoard(g, os.Stderr, st)
	}

	var p ai.SnakePlayer
	if c.remote != "" {
		cc, err := grpc.NewClient(c.remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Printf("dial %s: %v", c.remote, err)
			return subcommands.ExitFailure
		}
		defer cc.Close()
		p = rpc.NewClient(cc)
	} else if p, err = c.player.Build(); err != nil {
		log.Printf("strategy: %v", err)
		return subcommands.ExitUsageError
	}

	decider := ai.NewBounded(p, c.player.Margin)
	m, out := decider.Decide(ctx, st)
	if out.Err != nil {
		log.Printf("fallback move=%s err=%v", m.Direction, out.Err)
	}
	log.Printf("my-move game-id=%s turn=%d move=%s budget=%s elapsed=%s",
		st.Game.ID, st.Turn, m.Direction, out.Budget, out.Elapsed)

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(&m); err != nil {
		log.Printf("encode: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
