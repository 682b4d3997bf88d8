// Package server implements the Battlesnake webhook API: the info,
// start, move, and end endpoints, around a deadline-bounded player.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/nelhage/battlesnake/ai"
	"github.com/nelhage/battlesnake/games"
)

const (
	APIVersion = "1"

	// DefaultMaxBody bounds request bodies; a full 25x25 board with
	// eight long snakes is well under this.
	DefaultMaxBody = 1 << 20

	shutdownGrace = 5 * time.Second
)

// Info is the descriptor returned from the index route. The game
// server only uses it for display.
type Info struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version"`
}

type Config struct {
	Info    Info
	Decider *ai.Bounded
	// Tracker, if set, is told about every game's start, moves, and
	// end.
	Tracker *games.Tracker
	Logger  *zap.Logger
	MaxBody int64
}

type Server struct {
	cfg    Config
	log    *zap.SugaredLogger
	router http.Handler
}

func New(cfg Config) *Server {
	if cfg.Info.APIVersion == "" {
		cfg.Info.APIVersion = APIVersion
	}
	if cfg.MaxBody == 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Server{
		cfg: cfg,
		log: cfg.Logger.Sugar(),
	}
	s.router = s.routes()
	return s
}

// The middleware wraps the whole router so unmatched requests pass
// through it too.
func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/move", s.handleMove).Methods(http.MethodPost)
	r.HandleFunc("/end", s.handleEnd).Methods(http.MethodPost)
	return s.withRequestID(s.withAccessLog(s.withRecover(r)))
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds addr, capping concurrent connections at maxConns if it
// is positive.
func Listen(addr string, maxConns int) (net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if maxConns > 0 {
		lis = netutil.LimitListener(lis, maxConns)
	}
	return lis, nil
}

// Serve answers requests on lis until ctx is done, then shuts down
// gracefully, letting in-flight moves finish.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(s.cfg.Logger.Named("http")),
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(lis)
	}()
	s.log.Infof("listening addr=%s", lis.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
