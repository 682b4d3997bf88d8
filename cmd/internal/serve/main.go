package serve

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/nelhage/battlesnake/cmd/internal/opt"
	"github.com/nelhage/battlesnake/config"
	"github.com/nelhage/battlesnake/games"
	"github.com/nelhage/battlesnake/rpc"
	"github.com/nelhage/battlesnake/server"
)

type Command struct {
	Env *config.Config

	port     int
	grpcPort int
	maxConns int
	db       string

	sweepEvery time.Duration
	maxAge     time.Duration

	player opt.Player
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve the Battlesnake webhook API" }
func (*Command) Usage() string {
	return `serve [flags]

Answer Battlesnake game server requests over HTTP, and optionally
move requests over gRPC.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	env := opt.OrDefault(c.Env)
	flags.IntVar(&c.port, "port", env.Port, "HTTP bind port")
	flags.IntVar(&c.grpcPort, "grpc-port", env.GRPCPort, "gRPC bind port, 0 to disable")
	flags.IntVar(&c.maxConns, "max-conns", env.MaxConns, "limit concurrent HTTP connections, 0 for no limit")
	flags.StringVar(&c.db, "db", env.GameDB, "sqlite database to record finished games in")
	flags.DurationVar(&c.sweepEvery, "sweep", time.Minute, "how often to drop abandoned games")
	flags.DurationVar(&c.maxAge, "max-age", time.Hour, "drop games that have not ended after this long")
	c.player.AddFlags(flags, env)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env := opt.OrDefault(c.Env)
	logger := zap.L()

	decider, err := c.player.Bounded()
	if err != nil {
		log.Printf("strategy: %v", err)
		return subcommands.ExitUsageError
	}
	if c.sweepEvery <= 0 {
		log.Printf("-sweep must be positive")
		return subcommands.ExitUsageError
	}

	var store games.Store
	if c.db != "" {
		repo, err := games.Open(c.db)
		if err != nil {
			log.Printf("open db=%s err=%v", c.db, err)
			return subcommands.ExitFailure
		}
		defer repo.Close()
		store = repo
	}
	tracker := games.NewTracker(store)

	srv := server.New(server.Config{
		Info: server.Info{
			Author:  env.Author,
			Color:   env.Color,
			Head:    env.Head,
			Tail:    env.Tail,
			Version: env.Version,
		},
		Decider: decider,
		Tracker: tracker,
		Logger:  logger,
	})
	lis, err := server.Listen(fmt.Sprintf(":%d", c.port), c.maxConns)
	if err != nil {
		log.Printf("%v", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	log.Printf("serving strategy=%s margin=%s port=%d grpc-port=%d db=%q",
		c.player.Strategy, c.player.Margin, c.port, c.grpcPort, c.db)
	g.Go(func() error {
		return srv.Serve(ctx, lis)
	})

	if c.grpcPort != 0 {
		glis, err := server.Listen(fmt.Sprintf(":%d", c.grpcPort), 0)
		if err != nil {
			lis.Close()
			log.Printf("%v", err)
			return subcommands.ExitFailure
		}
		gs := grpc.NewServer()
		rpc.Register(gs, decider, tracker, logger.Named("rpc"))
		g.Go(func() error {
			return gs.Serve(glis)
		})
		g.Go(func() error {
			<-ctx.Done()
			gs.GracefulStop()
			return nil
		})
	}

	g.Go(func() error {
		t := time.NewTicker(c.sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if n := tracker.Sweep(c.maxAge); n > 0 {
					log.Printf("swept games=%d active=%d", n, tracker.Active())
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Printf("serve: %v", err)
		return subcommands.ExitFailure
	}
	log.Printf("shut down")
	return subcommands.ExitSuccess
}
