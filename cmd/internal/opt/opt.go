package opt

import (
	"flag"
	"time"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/config"
)

// Player holds the flags that pick and tune a strategy. Defaults come
// from the environment so that flags only need to name differences.
type Player struct {
	Strategy string
	Seed     int64
	Debug    int
	Margin   time.Duration
}

func (o *Player) AddFlags(flags *flag.FlagSet, cfg *config.Config) {
	flags.StringVar(&o.Strategy, "strategy", cfg.Strategy, "strategy: greedy[:HUNGER] or random[:SEED]")
	flags.Int64Var(&o.Seed, "seed", cfg.Seed, "specify a seed")
	flags.IntVar(&o.Debug, "debug", 0, "debug level")
	flags.DurationVar(&o.Margin, "margin", cfg.MoveMargin, "time held back from each move's timeout")
}

func (o *Player) Build() (ai.SnakePlayer, error) {
	return ai.NewPlayer(o.Strategy, o.Seed, o.Debug)
}

func (o *Player) Bounded() (*ai.Bounded, error) {
	p, err := o.Build()
	if err != nil {
		return nil, err
	}
	return ai.NewBounded(p, o.Margin), nil
}

// OrDefault returns cfg, or the built-in defaults if it is nil.
func OrDefault(cfg *config.Config) *config.Config {
	if cfg != nil {
		return cfg
	}
	return &config.Config{
		Port:       config.DefaultPort,
		LogLevel:   config.DefaultLogLevel,
		MoveMargin: config.DefaultMoveMargin,
		Strategy:   config.DefaultStrategy,
	}
}
