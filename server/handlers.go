package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/snake"
)

var ErrSerialization = errors.New("serialization failure")

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, s.cfg.Info)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parse(w, r)
	if !ok {
		return
	}
	s.log.Infof("new game game-id=%s snake=%q size=%dx%d ruleset=%s timeout=%d",
		st.Game.ID, st.You.Name, st.Board.Width, st.Board.Height,
		st.Game.Ruleset.Name(), st.Game.Timeout)
	if s.cfg.Tracker != nil {
		s.cfg.Tracker.Start(st)
	}
	s.notify(r, st, func(o ai.GameObserver) { o.NewGame(st) })
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parse(w, r)
	if !ok {
		return
	}
	if _, err := st.RequireYou(); err != nil {
		s.badRequest(w, r, err)
		return
	}

	move, out := s.cfg.Decider.Decide(r.Context(), st)
	if s.cfg.Tracker != nil {
		s.cfg.Tracker.Observe(st, out)
	}
	if out.Err != nil {
		s.log.Warnw("fallback move",
			"request-id", requestID(r.Context()),
			"game-id", st.Game.ID,
			"turn", st.Turn,
			"move", move.Direction.String(),
			"budget", out.Budget,
			"error", out.Err,
		)
	} else {
		s.log.Debugf("my-move game-id=%s turn=%d move=%s elapsed=%s",
			st.Game.ID, st.Turn, move.Direction, out.Elapsed)
	}
	s.writeJSON(w, r, move)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	st, ok := s.parse(w, r)
	if !ok {
		return
	}
	s.notify(r, st, func(o ai.GameObserver) { o.GameOver(st) })
	if s.cfg.Tracker != nil {
		rec, err := s.cfg.Tracker.End(st)
		if err != nil {
			s.log.Errorw("record game", "game-id", st.Game.ID, "error", err)
		}
		s.log.Infof("game-over game-id=%s turns=%d result=%s moves=%d fallbacks=%d",
			rec.GameID, rec.Turns, rec.Result, rec.Moves, rec.Fallbacks)
	} else {
		s.log.Infof("game-over game-id=%s turns=%d", st.Game.ID, st.Turn)
	}
	w.WriteHeader(http.StatusOK)
}

// parse reads the request's State, answering with an error status and
// returning false if it can't.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) (*snake.State, bool) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			s.log.Infow("unsupported content type",
				"request-id", requestID(r.Context()), "content-type", ct)
			http.Error(w, "expected application/json", http.StatusUnsupportedMediaType)
			return nil, false
		}
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBody)
	st, err := snake.ParseState(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		s.badRequest(w, r, err)
		return nil, false
	}
	return st, true
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Infow("bad request",
		"request-id", requestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, "malformed request", http.StatusBadRequest)
}

// notify passes st to the player's game hooks, if it has them. A
// panicking hook is logged and otherwise ignored.
func (s *Server) notify(r *http.Request, st *snake.State, f func(ai.GameObserver)) {
	o, ok := s.cfg.Decider.Player.(ai.GameObserver)
	if !ok {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			s.log.Errorw("game observer panicked",
				"request-id", requestID(r.Context()),
				"game-id", st.Game.ID,
				"panic", p,
			)
		}
	}()
	f(o)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	bs, err := json.Marshal(v)
	if err != nil {
		s.log.Errorw("encode response",
			"request-id", requestID(r.Context()),
			"error", errors.Join(ErrSerialization, err),
		)
		http.Error(w, ErrSerialization.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(bs)
	}
}
