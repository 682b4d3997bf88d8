package snake

import "math/rand"

// Default standard-ruleset settings, used when a ruleset doesn't say.
const (
	DefaultHazardDamage    = 14
	DefaultMinimumFood     = 1
	DefaultFoodSpawnChance = 15
)

type Cause string

const (
	OutOfHealth   Cause = "out-of-health"
	OutOfBounds   Cause = "wall-collision"
	SelfCollision Cause = "snake-self-collision"
	BodyCollision Cause = "snake-collision"
	HeadCollision Cause = "head-collision"
)

type Elimination struct {
	ID    string
	Cause Cause
	By    string
}

// Rules advances a board by one turn under the standard ruleset. It is
// used for local self-play; the real game server is authoritative.
type Rules struct {
	HazardDamage    int
	MinimumFood     int
	FoodSpawnChance int

	Rand *rand.Rand
}

func NewRules(rs Ruleset, r *rand.Rand) *Rules {
	return &Rules{
		HazardDamage:    rs.Setting("hazardDamagePerTurn", DefaultHazardDamage),
		MinimumFood:     rs.Setting("minimumFood", DefaultMinimumFood),
		FoodSpawnChance: rs.Setting("foodSpawnChance", DefaultFoodSpawnChance),
		Rand:            r,
	}
}

func (b *Board) clone() Board {
	st := State{Board: *b}
	return st.Clone().Board
}

// Step applies one simultaneous move for every snake and returns the
// resulting board together with the snakes eliminated this turn. A
// snake without an entry in moves keeps going the way it was facing.
func (r *Rules) Step(b *Board, moves map[string]Direction) (Board, []Elimination) {
	next := b.clone()

	for i := range next.Snakes {
		s := &next.Snakes[i]
		d, ok := moves[s.ID]
		if !ok || !d.Valid() {
			d = facing(s)
		}
		head := s.Body[0].Move(d)
		copy(s.Body[1:], s.Body[:len(s.Body)-1])
		s.Body[0] = head
		s.Head = head
		s.Health--
	}

	for i := range next.Snakes {
		s := &next.Snakes[i]
		if containsCoord(next.Hazards, s.Head) && !containsCoord(next.Food, s.Head) {
			s.Health -= r.HazardDamage
			if s.Health < 0 {
				s.Health = 0
			}
		}
	}

	var eaten []Coord
	for i := range next.Snakes {
		s := &next.Snakes[i]
		if containsCoord(next.Food, s.Head) {
			s.Health = MaxHealth
			s.Body = append(s.Body, s.Tail())
			eaten = append(eaten, s.Head)
		}
		s.Length = len(s.Body)
	}
	next.Food = removeCoords(next.Food, eaten)

	elims := r.eliminate(&next)
	r.spawnFood(&next)
	return next, elims
}

func facing(s *Snake) Direction {
	if neck, ok := s.Neck(); ok {
		if d := neck.DirectionTo(s.Body[0]); d.Valid() {
			return d
		}
	}
	return Up
}

func (r *Rules) eliminate(b *Board) []Elimination {
	var elims []Elimination
	dead := make(map[string]bool)
	for i := range b.Snakes {
		s := &b.Snakes[i]
		switch {
		case s.Health <= 0:
			elims = append(elims, Elimination{ID: s.ID, Cause: OutOfHealth})
		case !b.InBounds(s.Head):
			elims = append(elims, Elimination{ID: s.ID, Cause: OutOfBounds})
		default:
			continue
		}
		dead[s.ID] = true
	}

	// Collisions only count against snakes that survived the first pass.
	var collided []Elimination
	for i := range b.Snakes {
		s := &b.Snakes[i]
		if dead[s.ID] {
			continue
		}
		if e, ok := collision(b, s, dead); ok {
			collided = append(collided, e)
		}
	}
	for _, e := range collided {
		dead[e.ID] = true
	}
	elims = append(elims, collided...)

	alive := b.Snakes[:0]
	for _, s := range b.Snakes {
		if !dead[s.ID] {
			alive = append(alive, s)
		}
	}
	b.Snakes = alive
	return elims
}

func collision(b *Board, s *Snake, dead map[string]bool) (Elimination, bool) {
	if containsCoord(s.Body[1:], s.Head) {
		return Elimination{ID: s.ID, Cause: SelfCollision, By: s.ID}, true
	}
	for j := range b.Snakes {
		o := &b.Snakes[j]
		if o.ID == s.ID || dead[o.ID] {
			continue
		}
		if containsCoord(o.Body[1:], s.Head) {
			return Elimination{ID: s.ID, Cause: BodyCollision, By: o.ID}, true
		}
	}
	for j := range b.Snakes {
		o := &b.Snakes[j]
		if o.ID == s.ID || dead[o.ID] {
			continue
		}
		if o.Head == s.Head && len(o.Body) >= len(s.Body) {
			return Elimination{ID: s.ID, Cause: HeadCollision, By: o.ID}, true
		}
	}
	return Elimination{}, false
}

func (r *Rules) spawnFood(b *Board) {
	if r.Rand == nil {
		return
	}
	free := freeSquares(b)
	if len(free) == 0 {
		return
	}
	want := 0
	if len(b.Food) < r.MinimumFood {
		want = r.MinimumFood - len(b.Food)
	} else if r.FoodSpawnChance > 0 && r.Rand.Intn(100) < r.FoodSpawnChance {
		want = 1
	}
	for ; want > 0 && len(free) > 0; want-- {
		i := r.Rand.Intn(len(free))
		b.Food = append(b.Food, free[i])
		free[i] = free[len(free)-1]
		free = free[:len(free)-1]
	}
}

func freeSquares(b *Board) []Coord {
	taken := make(map[Coord]bool)
	for _, c := range b.Food {
		taken[c] = true
	}
	for _, s := range b.Snakes {
		for _, c := range s.Body {
			taken[c] = true
		}
	}
	var out []Coord
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if c := (Coord{x, y}); !taken[c] {
				out = append(out, c)
			}
		}
	}
	return out
}

// Winner reports whether the game is over, and the surviving snake's
// ID if there is exactly one. Solo games end when the snake dies.
func Winner(b *Board, solo bool) (string, bool) {
	switch {
	case len(b.Snakes) == 0:
		return "", true
	case len(b.Snakes) == 1 && !solo:
		return b.Snakes[0].ID, true
	}
	return "", false
}

func containsCoord(cs []Coord, c Coord) bool {
	for _, o := range cs {
		if o == c {
			return true
		}
	}
	return false
}

func removeCoords(cs []Coord, rm []Coord) []Coord {
	if len(rm) == 0 {
		return cs
	}
	out := cs[:0]
	for _, c := range cs {
		if !containsCoord(rm, c) {
			out = append(out, c)
		}
	}
	return out
}
