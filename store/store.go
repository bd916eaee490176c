// Package store keeps evaluated hands in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/guobiao/handio"
)

var ErrNotFound = errors.New("hand not found")

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hand TEXT NOT NULL,
	flag TEXT NOT NULL DEFAULT '',
	prevalent TEXT NOT NULL DEFAULT '',
	seat TEXT NOT NULL DEFAULT '',
	flowers INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL,
	form TEXT NOT NULL DEFAULT '',
	fans TEXT NOT NULL DEFAULT '[]',
	error TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS evaluations_hand ON evaluations(hand);
CREATE INDEX IF NOT EXISTS evaluations_total ON evaluations(total);
`

// Evaluation is one stored row.
type Evaluation struct {
	ID        int64
	Record    handio.Record
	Row       handio.Row
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives
// a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("store-opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores rows with their records in one transaction. recs and rows
// must have the same length.
func (s *Store) Save(ctx context.Context, recs []handio.Record, rows []handio.Row) error {
	if len(recs) != len(rows) {
		return fmt.Errorf("%d records and %d rows", len(recs), len(rows))
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO evaluations
		(hand, flag, prevalent, seat, flowers, total, form, fans, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().Unix()
	for i, rec := range recs {
		fans, err := json.Marshal(rows[i].Fans)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec.Hand, rec.Flag, rec.Prevalent, rec.Seat, rec.Flowers,
			rows[i].Total, rows[i].Form, string(fans), rows[i].Error, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const selectCols = `SELECT id, hand, flag, prevalent, seat, flowers, total, form, fans, error, created_at
	FROM evaluations`

func scanEvaluations(rows *sql.Rows) ([]Evaluation, error) {
	defer rows.Close()
	var out []Evaluation
	for rows.Next() {
		var e Evaluation
		var fans string
		var created int64
		if err := rows.Scan(&e.ID, &e.Record.Hand, &e.Record.Flag, &e.Record.Prevalent, &e.Record.Seat,
			&e.Record.Flowers, &e.Row.Total, &e.Row.Form, &fans, &e.Row.Error, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fans), &e.Row.Fans); err != nil {
			return nil, err
		}
		e.Row.Hand = e.Record.Hand
		e.CreatedAt = time.Unix(created, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Lookup returns the latest evaluation of hand.
func (s *Store) Lookup(ctx context.Context, hand string) (Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, selectCols+` WHERE hand = ? ORDER BY id DESC LIMIT 1`, hand)
	if err != nil {
		return Evaluation{}, err
	}
	evs, err := scanEvaluations(rows)
	if err != nil {
		return Evaluation{}, err
	}
	if len(evs) == 0 {
		return Evaluation{}, fmt.Errorf("%w: %s", ErrNotFound, hand)
	}
	return evs[0], nil
}

// Top returns the n highest scoring successful evaluations.
func (s *Store) Top(ctx context.Context, n int) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, selectCols+` WHERE error = '' ORDER BY total DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	return scanEvaluations(rows)
}

// Count returns the number of stored evaluations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n)
	return n, err
}
