package games

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite
)

type Repository struct {
	db *sqlx.DB

	insert *sql.Stmt
}

func Open(db string) (*Repository, error) {
	sql, err := sqlx.Open("sqlite3", db)
	if err != nil {
		return nil, err
	}
	_, err = sql.Exec(createGameTable)
	if err != nil {
		sql.Close()
		return nil, fmt.Errorf("create game table: %v", err)
	}
	_, err = sql.Exec(createResultsView)
	if err != nil {
		sql.Close()
		return nil, fmt.Errorf("create snake_results view: %v", err)
	}

	repo := &Repository{db: sql}
	repo.insert, err = sql.Prepare(insertStmt)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("prepare: %v", err)
	}
	return repo, nil
}

func (r *Repository) InsertGame(g *Record) error {
	return r.insertGame(r.insert, g)
}

func (r *Repository) insertGame(stmt *sql.Stmt, g *Record) error {
	_, err := stmt.Exec(
		g.GameID, g.SnakeID, g.SnakeName,
		g.Ruleset, g.Map, g.Width, g.Height, g.Timeout,
		g.Started, g.Ended,
		g.Turns, g.Moves, g.Fallbacks, g.Timeouts, g.Failures,
		g.Result,
	)
	return err
}

func (r *Repository) InsertGames(gs []*Record) error {
	txn, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	stmt := txn.Stmt(r.insert)
	for _, g := range gs {
		if e := r.insertGame(stmt, g); e != nil {
			return e
		}
	}
	return txn.Commit()
}

type Summary struct {
	Snake     string  `db:"snake"`
	Games     int     `db:"games"`
	Wins      int     `db:"wins"`
	Losses    int     `db:"losses"`
	Draws     int     `db:"draws"`
	Turns     float64 `db:"turns"`
	Fallbacks int     `db:"fallbacks"`
	Timeouts  int     `db:"timeouts"`
}

// Summaries aggregates recorded games per snake name.
func (r *Repository) Summaries() ([]Summary, error) {
	var out []Summary
	if err := r.db.Select(&out, selectSummaries); err != nil {
		return nil, err
	}
	return out, nil
}

// Games returns the most recently ended games, newest first.
func (r *Repository) Games(limit int) ([]Record, error) {
	var out []Record
	if err := r.db.Select(&out, selectRecent, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Close() {
	r.db.Close()
}
