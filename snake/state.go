// Package snake holds the Battlesnake game-state model: the snapshot
// the engine sends on every request, plus the validation and rules
// needed to reason about it.
package snake

import "encoding/json"

type Snake struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Health  int     `json:"health"`
	Body    []Coord `json:"body"`
	Head    Coord   `json:"head"`
	Length  int     `json:"length"`
	Latency string  `json:"latency"`
	Shout   string  `json:"shout,omitempty"`
	Squad   string  `json:"squad,omitempty"`
}

// Neck returns the segment directly behind the head, if the snake
// has one distinct from the head.
func (s *Snake) Neck() (Coord, bool) {
	if len(s.Body) < 2 || s.Body[1] == s.Body[0] {
		return Coord{}, false
	}
	return s.Body[1], true
}

func (s *Snake) Tail() Coord {
	return s.Body[len(s.Body)-1]
}

type Board struct {
	Height  int     `json:"height"`
	Width   int     `json:"width"`
	Food    []Coord `json:"food"`
	Snakes  []Snake `json:"snakes"`
	Hazards []Coord `json:"hazards"`
}

// MarshalJSON writes nil lists as [], since every list on the board is
// a required field.
func (b Board) MarshalJSON() ([]byte, error) {
	type plain Board
	p := plain(b)
	if p.Food == nil {
		p.Food = []Coord{}
	}
	if p.Snakes == nil {
		p.Snakes = []Snake{}
	}
	if p.Hazards == nil {
		p.Hazards = []Coord{}
	}
	return json.Marshal(p)
}

func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.Width && c.Y < b.Height
}

func (b *Board) Snake(id string) *Snake {
	for i := range b.Snakes {
		if b.Snakes[i].ID == id {
			return &b.Snakes[i]
		}
	}
	return nil
}

type Game struct {
	ID      string  `json:"id"`
	Ruleset Ruleset `json:"ruleset"`
	Map     string  `json:"map,omitempty"`
	Source  string  `json:"source,omitempty"`
	Timeout int     `json:"timeout"`
}

// State is the payload of every start, move, and end request.
type State struct {
	Game  Game  `json:"game"`
	Turn  int   `json:"turn"`
	Board Board `json:"board"`
	You   Snake `json:"you"`
}

// Me returns the board's record of the requesting snake, or nil if it
// is no longer on the board.
func (s *State) Me() *Snake {
	return s.Board.Snake(s.You.ID)
}

// Move is the response to a move request.
type Move struct {
	Direction Direction `json:"move"`
	Shout     string    `json:"shout,omitempty"`
}

func (s *Snake) clone() Snake {
	out := *s
	out.Body = append([]Coord(nil), s.Body...)
	return out
}

// Clone performs a deep copy of the state, so that a copy handed to a
// strategy can never alias the caller's slices.
func (s *State) Clone() *State {
	out := &State{
		Game:  s.Game,
		Turn:  s.Turn,
		Board: Board{Height: s.Board.Height, Width: s.Board.Width},
		You:   s.You.clone(),
	}
	out.Game.Ruleset = cloneRuleset(s.Game.Ruleset)
	out.Board.Food = append([]Coord(nil), s.Board.Food...)
	out.Board.Hazards = append([]Coord(nil), s.Board.Hazards...)
	if s.Board.Snakes != nil {
		out.Board.Snakes = make([]Snake, len(s.Board.Snakes))
		for i := range s.Board.Snakes {
			out.Board.Snakes[i] = s.Board.Snakes[i].clone()
		}
	}
	return out
}

func cloneRuleset(r Ruleset) Ruleset {
	if r == nil {
		return nil
	}
	out := make(Ruleset, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v RuleValue) RuleValue {
	switch v.Kind {
	case MapValue:
		if v.Map == nil {
			break
		}
		m := make(map[string]RuleValue, len(v.Map))
		for k, e := range v.Map {
			m[k] = cloneValue(e)
		}
		v.Map = m
	case ListValue:
		if v.List == nil {
			break
		}
		l := make([]RuleValue, len(v.List))
		for i, e := range v.List {
			l[i] = cloneValue(e)
		}
		v.List = l
	}
	return v
}
