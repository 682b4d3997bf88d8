package selfplay

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/cmd/internal/opt"
	"github.com/nelhage/battlesnake/config"
	"github.com/nelhage/battlesnake/game"
	"github.com/nelhage/battlesnake/games"
	"github.com/nelhage/battlesnake/rpc"
	"github.com/nelhage/battlesnake/snake"
)

type Command struct {
	Env *config.Config

	players string
	width   int
	height  int
	seed    int64

	games   int
	cutoff  int
	threads int

	timeout time.Duration
	margin  time.Duration
	debug   int

	db      string
	summary string
	verbose bool
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play strategies against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]

Players are strategy specs (see -strategy on serve), or grpc:ADDR to
ask a running server.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	env := opt.OrDefault(c.Env)
	flags.StringVar(&c.players, "players", "greedy,random", "comma-separated players")
	flags.IntVar(&c.width, "width", 11, "board width")
	flags.IntVar(&c.height, "height", 11, "board height")
	flags.Int64Var(&c.seed, "seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play")
	flags.IntVar(&c.cutoff, "cutoff", game.DefaultCutoff, "cut games off after how many turns")
	flags.IntVar(&c.threads, "threads", runtime.NumCPU(), "number of parallel games")
	flags.DurationVar(&c.timeout, "timeout", 500*time.Millisecond, "per-move timeout told to players")
	flags.DurationVar(&c.margin, "margin", env.MoveMargin, "time held back from each move's timeout")
	flags.IntVar(&c.debug, "debug", 0, "debug level")
	flags.StringVar(&c.db, "db", env.GameDB, "sqlite database to record games in")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")
}

func (c *Command) parsePlayer(spec string) (ai.SnakePlayer, func(), error) {
	if addr, ok := strings.CutPrefix(spec, "grpc:"); ok {
		cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, err
		}
		return rpc.NewClient(cc), func() { cc.Close() }, nil
	}
	p, err := ai.NewPlayer(spec, c.seed, c.debug)
	return p, func() {}, err
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.seed == 0 {
		c.seed = time.Now().Unix()
	}

	var entrants []game.Entrant
	for _, spec := range strings.Split(c.players, ",") {
		p, done, err := c.parsePlayer(spec)
		if err != nil {
			log.Printf("player %q: %v", spec, err)
			return subcommands.ExitUsageError
		}
		defer done()
		entrants = append(entrants, game.Entrant{Name: spec, Player: p})
	}

	var tracker *games.Tracker
	if c.db != "" {
		repo, err := games.Open(c.db)
		if err != nil {
			log.Printf("open db=%s err=%v", c.db, err)
			return subcommands.ExitFailure
		}
		defer repo.Close()
		tracker = games.NewTracker(repo)
	}

	cfg := &Config{
		Game: game.Config{
			Board:    snake.Config{Width: c.width, Height: c.height},
			Ruleset:  snake.Ruleset{"name": snake.String("standard")},
			Timeout:  int(c.timeout / time.Millisecond),
			Margin:   c.margin,
			Cutoff:   c.cutoff,
			Entrants: entrants,
			Tracker:  tracker,
		},
		Games:   c.games,
		Threads: c.threads,
		Seed:    c.seed,
		Verbose: c.verbose,
	}

	st, err := Simulate(ctx, cfg)
	if err != nil {
		log.Printf("simulate: %v", err)
		return subcommands.ExitFailure
	}

	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Println("writing summary: ", err.Error())
		}
	}

	log.Printf("done games=%d seed=%d draws=%d cutoff=%d turns=%d",
		st.Count(), c.seed, st.Draws, st.Cutoff, st.Turns)
	report(os.Stderr, &st)

	if len(st.Players) == 2 {
		a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
		if a < b {
			a, b = b, a
		}
		log.Printf("p[one-sided]=%f", binomTest(a, b, 0.5))
	}

	return subcommands.ExitSuccess
}

func report(out io.Writer, st *Stats) {
	causes := make(map[snake.Cause]bool)
	for _, p := range st.Players {
		for c := range p.Deaths {
			causes[c] = true
		}
	}
	var cs []string
	for c := range causes {
		cs = append(cs, string(c))
	}
	sort.Strings(cs)

	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "player\twins\tlosses\tfallbacks")
	for _, c := range cs {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintf(tw, "\n")
	for _, p := range st.Players {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d", p.Name, p.Wins, p.Losses, p.Fallbacks)
		for _, c := range cs {
			fmt.Fprintf(tw, "\t%d", p.Deaths[snake.Cause(c)])
		}
		fmt.Fprintf(tw, "\n")
	}
	tw.Flush()
}

type Summary struct {
	Cmdline []string
	Players []string
	Timeout time.Duration
	Seed    int64
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	summary := Summary{
		Cmdline: os.Args,
		Players: strings.Split(c.players, ","),
		Timeout: c.timeout,
		Seed:    c.seed,
		Stats:   stats,
	}

	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = f.Write(bs)
	return err
}
