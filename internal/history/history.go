// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package history keeps benchmark sessions in a SQLite database so runs
// on the same machine can be compared over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"code.hybscloud.com/spsc/internal/handoff"
	"code.hybscloud.com/spsc/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at   INTEGER NOT NULL,
	cpu_model    TEXT    NOT NULL,
	num_cpu      INTEGER NOT NULL,
	go_version   TEXT    NOT NULL,
	items        INTEGER NOT NULL,
	capacity     INTEGER NOT NULL,
	rounds       INTEGER NOT NULL,
	batch        INTEGER NOT NULL,
	spin_limit   INTEGER NOT NULL,
	producer_cpu INTEGER NOT NULL,
	consumer_cpu INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	session_id      INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	round           INTEGER NOT NULL,
	target          TEXT    NOT NULL,
	elapsed_ns      INTEGER NOT NULL,
	throughput      REAL    NOT NULL,
	mean_ns         INTEGER NOT NULL,
	p50_ns          INTEGER NOT NULL,
	p99_ns          INTEGER NOT NULL,
	p999_ns         INTEGER NOT NULL,
	max_ns          INTEGER NOT NULL,
	fifo_violations INTEGER NOT NULL,
	full_retries    INTEGER NOT NULL,
	empty_polls     INTEGER NOT NULL,
	clipped         INTEGER NOT NULL,
	PRIMARY KEY (session_id, round, target)
);
`

// Store is a session history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a session and its results and returns the session id.
func (s *Store) Save(ctx context.Context, sess *report.Session) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	st := sess.Settings
	res, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (started_at, cpu_model, num_cpu, go_version, items, capacity,
			rounds, batch, spin_limit, producer_cpu, consumer_cpu)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.Time.UnixNano(), sess.System.CPUModel, sess.System.NumCPU, sess.System.GoVersion,
		st.Items, st.Capacity, st.Rounds, st.Batch, st.SpinLimit, st.ProducerCPU, st.ConsumerCPU)
	if err != nil {
		return 0, fmt.Errorf("history: insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: session id: %w", err)
	}

	ins, err := tx.PrepareContext(ctx, `
		INSERT INTO results (session_id, round, target, elapsed_ns, throughput, mean_ns,
			p50_ns, p99_ns, p999_ns, max_ns, fifo_violations, full_retries, empty_polls, clipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("history: prepare: %w", err)
	}
	defer ins.Close()

	for i, r := range sess.Results {
		_, err := ins.ExecContext(ctx, id, r.Round, r.Target, int64(r.Elapsed), r.Throughput, int64(r.Mean),
			int64(r.P50), int64(r.P99), int64(r.P999), int64(r.Max),
			r.FIFOViolations, r.FullRetries, r.EmptyPolls, r.Clipped)
		if err != nil {
			return 0, fmt.Errorf("history: insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return id, nil
}

// Entry is a stored session with its id.
type Entry struct {
	ID int64
	report.Session
}

// Recent returns up to limit sessions, newest first, with their results
// in round order. Results of one round keep the order they were saved in.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, cpu_model, num_cpu, go_version, items, capacity,
			rounds, batch, spin_limit, producer_cpu, consumer_cpu
		FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query sessions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started int64
		st := &e.Settings
		if err := rows.Scan(&e.ID, &started, &e.System.CPUModel, &e.System.NumCPU, &e.System.GoVersion,
			&st.Items, &st.Capacity, &st.Rounds, &st.Batch, &st.SpinLimit, &st.ProducerCPU, &st.ConsumerCPU); err != nil {
			return nil, fmt.Errorf("history: scan session: %w", err)
		}
		e.Time = time.Unix(0, started).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: sessions: %w", err)
	}
	rows.Close()

	for i := range out {
		results, err := s.results(ctx, &out[i])
		if err != nil {
			return nil, err
		}
		out[i].Results = results
	}
	return out, nil
}

func (s *Store) results(ctx context.Context, e *Entry) ([]handoff.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, target, elapsed_ns, throughput, mean_ns, p50_ns, p99_ns, p999_ns, max_ns,
			fifo_violations, full_retries, empty_polls, clipped
		FROM results WHERE session_id = ? ORDER BY round, rowid`, e.ID)
	if err != nil {
		return nil, fmt.Errorf("history: query results of %d: %w", e.ID, err)
	}
	defer rows.Close()

	var out []handoff.Result
	for rows.Next() {
		r := handoff.Result{Items: e.Settings.Items, Capacity: e.Settings.Capacity, Batch: e.Settings.Batch}
		var elapsed, mean, p50, p99, p999, maxNs int64
		if err := rows.Scan(&r.Round, &r.Target, &elapsed, &r.Throughput, &mean, &p50, &p99, &p999, &maxNs,
			&r.FIFOViolations, &r.FullRetries, &r.EmptyPolls, &r.Clipped); err != nil {
			return nil, fmt.Errorf("history: scan result of %d: %w", e.ID, err)
		}
		r.Elapsed = time.Duration(elapsed)
		r.Mean = time.Duration(mean)
		r.P50 = time.Duration(p50)
		r.P99 = time.Duration(p99)
		r.P999 = time.Duration(p999)
		r.Max = time.Duration(maxNs)
		out = append(out, r)
	}
	return out, rows.Err()
}
