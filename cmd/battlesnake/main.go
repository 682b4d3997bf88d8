package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/nelhage/battlesnake/cmd/internal/move"
	"github.com/nelhage/battlesnake/cmd/internal/play"
	"github.com/nelhage/battlesnake/cmd/internal/selfplay"
	"github.com/nelhage/battlesnake/cmd/internal/serve"
	"github.com/nelhage/battlesnake/cmd/internal/stats"
	"github.com/nelhage/battlesnake/config"
	"github.com/nelhage/battlesnake/logging"
)

var (
	envFile  = flag.String("env", "", "load settings from this file instead of .env")
	logLevel = flag.String("log-level", "", "override LOG_LEVEL")
)

func main() {
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger := logging.Must(cfg.LogLevel)
	undo := logging.Install(logger)

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&serve.Command{Env: &cfg}, "")
	subcommands.Register(&move.Command{Env: &cfg}, "")
	subcommands.Register(&play.Command{Env: &cfg}, "")
	subcommands.Register(&selfplay.Command{Env: &cfg}, "analysis")
	subcommands.Register(&stats.Command{Env: &cfg}, "analysis")

	status := subcommands.Execute(context.Background())
	logger.Sync()
	undo()
	os.Exit(int(status))
}
