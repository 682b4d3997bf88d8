package selfplay

import (
	"context"
	"log"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/nelhage/battlesnake/game"
	"github.com/nelhage/battlesnake/snake"
)

type Config struct {
	// Game is the template for every game; its Entrants are the
	// players, in seat order.
	Game game.Config

	Games   int
	Threads int
	Seed    int64
	Verbose bool
}

type PlayerStats struct {
	Name      string
	Wins      int
	Losses    int
	Fallbacks int
	Deaths    map[snake.Cause]int
}

type Stats struct {
	Players []PlayerStats
	Draws   int
	Cutoff  int
	Turns   int

	Games []*game.Result `json:"-"`
}

func (s *Stats) Count() int {
	return len(s.Games)
}

// Simulate plays c.Games games, up to c.Threads at once. Game i is
// seeded from c.Seed+i, so a run is reproducible for deterministic
// players.
func Simulate(ctx context.Context, c *Config) (Stats, error) {
	results := make([]*game.Result, c.Games)
	g, ctx := errgroup.WithContext(ctx)
	if c.Threads > 0 {
		g.SetLimit(c.Threads)
	}
	for i := 0; i < c.Games; i++ {
		i := i
		g.Go(func() error {
			cfg := c.Game
			r, err := game.Play(ctx, &cfg, rand.New(rand.NewSource(c.Seed+int64(i))))
			if r == nil {
				return err
			}
			if err != nil {
				log.Printf("game=%d id=%s err=%v", i, r.ID, err)
			}
			if c.Verbose {
				log.Printf("game n=%d id=%s turns=%d over=%t winner=%q",
					i, r.ID, r.Turns, r.Over, r.Winner)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return tally(c.Game.Entrants, results), nil
}

func tally(entrants []game.Entrant, results []*game.Result) Stats {
	st := Stats{Players: make([]PlayerStats, len(entrants))}
	seat := make(map[string]int, len(entrants))
	for i, e := range entrants {
		st.Players[i] = PlayerStats{Name: e.Name, Deaths: make(map[snake.Cause]int)}
		seat[game.SnakeID(i)] = i
	}
	for _, r := range results {
		st.Games = append(st.Games, r)
		st.Turns += r.Turns
		switch {
		case !r.Over:
			st.Cutoff++
		case r.Winner == "":
			st.Draws++
		}
		if i, ok := seat[r.Winner]; ok {
			st.Players[i].Wins++
		}
		for _, e := range r.Eliminated {
			i := seat[e.ID]
			st.Players[i].Losses++
			st.Players[i].Deaths[e.Cause]++
		}
		for id, n := range r.Fallbacks {
			st.Players[seat[id]].Fallbacks += n
		}
	}
	return st
}
