package snake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedRequest is wrapped by every error ParseState returns.
var ErrMalformedRequest = errors.New("malformed request")

const MaxHealth = 100

// The wire types mirror the model with pointers, so that a field that
// is absent can be told apart from one that is zero. Every field but
// shout, squad, map and source is required.
type wireState struct {
	Game  *wireGame  `json:"game"`
	Turn  *int       `json:"turn"`
	Board *wireBoard `json:"board"`
	You   *wireSnake `json:"you"`
}

type wireGame struct {
	ID      *string  `json:"id"`
	Ruleset *Ruleset `json:"ruleset"`
	Map     string   `json:"map"`
	Source  string   `json:"source"`
	Timeout *int     `json:"timeout"`
}

type wireBoard struct {
	Height  *int         `json:"height"`
	Width   *int         `json:"width"`
	Food    *[]wireCoord `json:"food"`
	Snakes  *[]wireSnake `json:"snakes"`
	Hazards *[]wireCoord `json:"hazards"`
}

type wireSnake struct {
	ID      *string      `json:"id"`
	Name    *string      `json:"name"`
	Health  *int         `json:"health"`
	Body    *[]wireCoord `json:"body"`
	Head    *wireCoord   `json:"head"`
	Length  *int         `json:"length"`
	Latency *string      `json:"latency"`
	Shout   string       `json:"shout"`
	Squad   string       `json:"squad"`
}

type wireCoord struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}

func missing(what string) error {
	return malformed("missing %s", what)
}

// ParseState decodes and validates a single State from r.
func ParseState(r io.Reader) (*State, error) {
	var w wireState
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMalformedRequest, err)
	}
	st, err := w.state()
	if err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

func (w *wireState) state() (*State, error) {
	switch {
	case w.Game == nil:
		return nil, missing("game")
	case w.Turn == nil:
		return nil, missing("turn")
	case w.Board == nil:
		return nil, missing("board")
	case w.You == nil:
		return nil, missing("you")
	}
	st := &State{Turn: *w.Turn}
	var err error
	if st.Game, err = w.Game.game(); err != nil {
		return nil, err
	}
	if st.Board, err = w.Board.board(); err != nil {
		return nil, err
	}
	if st.You, err = w.You.snake("you"); err != nil {
		return nil, err
	}
	return st, nil
}

func (w *wireGame) game() (Game, error) {
	switch {
	case w.ID == nil:
		return Game{}, missing("game.id")
	case w.Ruleset == nil:
		return Game{}, missing("game.ruleset")
	case w.Timeout == nil:
		return Game{}, missing("game.timeout")
	}
	return Game{
		ID:      *w.ID,
		Ruleset: *w.Ruleset,
		Map:     w.Map,
		Source:  w.Source,
		Timeout: *w.Timeout,
	}, nil
}

func (w *wireBoard) board() (Board, error) {
	switch {
	case w.Height == nil:
		return Board{}, missing("board.height")
	case w.Width == nil:
		return Board{}, missing("board.width")
	case w.Food == nil:
		return Board{}, missing("board.food")
	case w.Snakes == nil:
		return Board{}, missing("board.snakes")
	case w.Hazards == nil:
		return Board{}, missing("board.hazards")
	}
	b := Board{Height: *w.Height, Width: *w.Width}
	var err error
	if b.Food, err = coords("board.food", *w.Food); err != nil {
		return Board{}, err
	}
	if b.Hazards, err = coords("board.hazards", *w.Hazards); err != nil {
		return Board{}, err
	}
	b.Snakes = make([]Snake, 0, len(*w.Snakes))
	for i := range *w.Snakes {
		s, err := (*w.Snakes)[i].snake(fmt.Sprintf("board.snakes[%d]", i))
		if err != nil {
			return Board{}, err
		}
		b.Snakes = append(b.Snakes, s)
	}
	return b, nil
}

func (w *wireSnake) snake(where string) (Snake, error) {
	switch {
	case w.ID == nil:
		return Snake{}, missing(where + ".id")
	case w.Name == nil:
		return Snake{}, missing(where + ".name")
	case w.Health == nil:
		return Snake{}, missing(where + ".health")
	case w.Body == nil:
		return Snake{}, missing(where + ".body")
	case w.Head == nil:
		return Snake{}, missing(where + ".head")
	case w.Length == nil:
		return Snake{}, missing(where + ".length")
	case w.Latency == nil:
		return Snake{}, missing(where + ".latency")
	}
	s := Snake{
		ID:      *w.ID,
		Name:    *w.Name,
		Health:  *w.Health,
		Length:  *w.Length,
		Latency: *w.Latency,
		Shout:   w.Shout,
		Squad:   w.Squad,
	}
	var err error
	if s.Body, err = coords(where+".body", *w.Body); err != nil {
		return Snake{}, err
	}
	if s.Head, err = w.Head.coord(where + ".head"); err != nil {
		return Snake{}, err
	}
	return s, nil
}

func (w *wireCoord) coord(where string) (Coord, error) {
	if w.X == nil || w.Y == nil {
		return Coord{}, missing(where + " coordinate")
	}
	return Coord{X: *w.X, Y: *w.Y}, nil
}

func coords(where string, ws []wireCoord) ([]Coord, error) {
	out := make([]Coord, 0, len(ws))
	for i := range ws {
		c, err := ws[i].coord(fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Validate checks the structural invariants of a State. It does not
// require You to be on the board, since eliminated snakes still
// receive an end request.
func (s *State) Validate() error {
	if s.Game.ID == "" {
		return malformed("game: missing id")
	}
	if s.Game.Timeout < 0 {
		return malformed("game: negative timeout %d", s.Game.Timeout)
	}
	if s.Turn < 0 {
		return malformed("negative turn %d", s.Turn)
	}
	b := &s.Board
	if b.Width <= 0 || b.Height <= 0 {
		return malformed("board: bad dimensions %dx%d", b.Width, b.Height)
	}
	for _, c := range b.Food {
		if !b.InBounds(c) {
			return malformed("food %s out of bounds", c)
		}
	}
	for _, c := range b.Hazards {
		if !b.InBounds(c) {
			return malformed("hazard %s out of bounds", c)
		}
	}
	seen := make(map[string]bool, len(b.Snakes))
	for i := range b.Snakes {
		sn := &b.Snakes[i]
		if err := sn.validate(); err != nil {
			return err
		}
		if seen[sn.ID] {
			return malformed("snake %q: duplicate id", sn.ID)
		}
		seen[sn.ID] = true
		for _, c := range sn.Body {
			if !b.InBounds(c) {
				return malformed("snake %q: body %s out of bounds", sn.ID, c)
			}
		}
	}
	if err := s.You.validate(); err != nil {
		return err
	}
	for _, c := range s.You.Body {
		if !b.InBounds(c) {
			return malformed("you %q: body %s out of bounds", s.You.ID, c)
		}
	}
	return nil
}

func (s *Snake) validate() error {
	if s.ID == "" {
		return malformed("snake: missing id")
	}
	if len(s.Body) == 0 {
		return malformed("snake %q: empty body", s.ID)
	}
	if s.Head != s.Body[0] {
		return malformed("snake %q: head %s != body[0] %s", s.ID, s.Head, s.Body[0])
	}
	if s.Length != len(s.Body) {
		return malformed("snake %q: length %d != len(body) %d", s.ID, s.Length, len(s.Body))
	}
	if s.Health < 0 || s.Health > MaxHealth {
		return malformed("snake %q: health %d out of range", s.ID, s.Health)
	}
	return nil
}

// RequireYou returns the board's record of the requesting snake, or a
// malformed-request error if it is not on the board.
func (s *State) RequireYou() (*Snake, error) {
	me := s.Me()
	if me == nil {
		return nil, malformed("you %q not among board snakes", s.You.ID)
	}
	return me, nil
}
