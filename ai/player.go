package ai

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewPlayer builds a strategy by name: "greedy", "random", or
// "random:SEED". A nonzero seed overrides the seed in a random spec;
// with neither, random is seeded from the clock.
func NewPlayer(spec string, seed int64, debug int) (SnakePlayer, error) {
	name, arg := spec, ""
	if i := strings.Index(spec, ":"); i >= 0 {
		name, arg = spec[:i], spec[i+1:]
	}
	switch name {
	case "greedy":
		if arg != "" {
			hungry, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("greedy: bad hunger threshold %q", arg)
			}
			return NewGreedy(GreedyConfig{Hungry: hungry, Debug: debug}), nil
		}
		return NewGreedy(GreedyConfig{Debug: debug}), nil
	case "random", "rand":
		if arg != "" && seed == 0 {
			var err error
			seed, err = strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("random: bad seed %q", arg)
			}
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return NewRandom(seed), nil
	}
	return nil, fmt.Errorf("unknown strategy: %q", spec)
}
