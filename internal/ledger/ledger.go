// Package ledger keeps a local history of render runs in SQLite.
package ledger

import (
	"database/sql"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Open opens (or creates) the ledger database.
func Open(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

// InitSchema ensures the runs table exists.
func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs(
		preset TEXT, points INTEGER, frames INTEGER,
		output TEXT, status TEXT, created_at INTEGER
	)`)
	return err
}

type Store struct{ db DB }

func NewStore(db DB) *Store { return &Store{db: db} }

// Run is one recorded render attempt.
type Run struct {
	Preset    string
	Points    int
	Frames    int
	Output    string
	Status    string // "ok", "error: ..."
	CreatedAt time.Time
}

// RecordRun appends one render attempt, successful or not.
func (s *Store) RecordRun(r Run) error {
	_, err := s.db.Exec(`INSERT INTO runs(preset,points,frames,output,status,created_at) VALUES(?,?,?,?,?,?)`,
		r.Preset, r.Points, r.Frames, r.Output, r.Status, r.CreatedAt.Unix())
	return err
}

// RecentRuns returns the newest runs, most recent first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT preset,points,frames,output,status,created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var ts int64
		if err := rows.Scan(&r.Preset, &r.Points, &r.Frames, &r.Output, &r.Status, &ts); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(ts, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
