package stats

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/nelhage/battlesnake/cmd/internal/opt"
	"github.com/nelhage/battlesnake/config"
	"github.com/nelhage/battlesnake/games"
)

type Command struct {
	Env *config.Config

	recent int
}

func (*Command) Name() string     { return "stats" }
func (*Command) Synopsis() string { return "Summarize recorded games" }
func (*Command) Usage() string {
	return `stats [flags] [GAMES.db]

Print per-snake results from a game database. Without an argument,
GAME_DB is used.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.recent, "recent", 0, "also list this many of the most recent games")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db := opt.OrDefault(c.Env).GameDB
	if flag.NArg() > 0 {
		db = flag.Arg(0)
	}
	if db == "" || flag.NArg() > 1 {
		log.Println("Must supply a game database")
		return subcommands.ExitUsageError
	}

	repo, err := games.Open(db)
	if err != nil {
		log.Printf("open db=%s err=%v", db, err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	sums, err := repo.Summaries()
	if err != nil {
		log.Printf("query: %v", err)
		return subcommands.ExitFailure
	}
	printSummaries(os.Stdout, sums)

	if c.recent > 0 {
		recs, err := repo.Games(c.recent)
		if err != nil {
			log.Printf("query: %v", err)
			return subcommands.ExitFailure
		}
		fmt.Println()
		printGames(os.Stdout, recs)
	}
	return subcommands.ExitSuccess
}

func printSummaries(out io.Writer, sums []games.Summary) {
	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "snake\tgames\twins\tlosses\tdraws\tturns\tfallbacks\ttimeouts\n")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\t%d\t%d\n",
			s.Snake, s.Games, s.Wins, s.Losses, s.Draws, s.Turns, s.Fallbacks, s.Timeouts)
	}
	tw.Flush()
}

func printGames(out io.Writer, recs []games.Record) {
	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ended\tgame\tsnake\tresult\tturns\tfallbacks\n")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.Ended.Format("2006-01-02 15:04:05"), r.GameID, r.SnakeName, r.Result, r.Turns, r.Fallbacks)
	}
	tw.Flush()
}
