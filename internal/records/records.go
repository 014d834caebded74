// Package records implements the append-only retired-player sink: a
// Postgres-backed store of (name, score, play_time_ms) tuples, ranked
// queries over it, and a best-effort Redis cache fronting the ranking
// query.
package records

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/lostandfound/server/internal/shared/errors"
)

// Record is one retired player's tuple, as stored and as returned by a
// ranked query.
type Record struct {
	Name       string
	Score      int
	PlayTimeMS int64
}

// Sink is the records persistence contract the application façade
// depends on.
type Sink interface {
	Add(ctx context.Context, name string, score int, playTime time.Duration) error
	Top(ctx context.Context, start, max int) ([]Record, error)
}

// PostgresSink is the durable implementation: every mutation and query
// goes through a bounded pool of permits guarding the underlying
// *sql.DB, and a pending-retry queue absorbs Add failures so retirement
// itself never blocks on a degraded database.
type PostgresSink struct {
	pool   *connPool
	pending *PendingQueue
	logger *slog.Logger
}

// NewPostgresSink wraps db with a bounded-permit pool of the given size
// and a pending-retry queue for transient Add failures.
func NewPostgresSink(db *sql.DB, poolSize int, logger *slog.Logger) *PostgresSink {
	return &PostgresSink{
		pool:    newConnPool(db, poolSize),
		pending: NewPendingQueue(),
		logger:  logger.With("component", "records_sink"),
	}
}

// Add stores one retired-player record atomically. play_time_ms is
// round(play_time_seconds * 1000), computed here so callers pass a
// time.Duration rather than reimplementing the rounding rule.
func (s *PostgresSink) Add(ctx context.Context, name string, score int, playTime time.Duration) error {
	playTimeMS := playTime.Round(time.Millisecond).Milliseconds()

	if err := s.pool.acquire(ctx); err != nil {
		s.pending.Push(Record{Name: name, Score: score, PlayTimeMS: playTimeMS})
		return apperrors.SinkUnavailable("records sink pool exhausted", err)
	}
	defer s.pool.release()

	_, err := s.pool.db.ExecContext(ctx,
		`INSERT INTO retired_players (name, score, play_time_ms) VALUES ($1, $2, $3)`,
		name, score, playTimeMS,
	)
	if err != nil {
		s.logger.Error("failed to append retired player record", "error", err, "name", name)
		s.pending.Push(Record{Name: name, Score: score, PlayTimeMS: playTimeMS})
		return apperrors.SinkUnavailable("failed to append retired player record", err)
	}
	return nil
}

// Top returns retired-player records ranked by score descending, then
// play time ascending, then name ascending, paginated with offset/limit.
func (s *PostgresSink) Top(ctx context.Context, start, max int) ([]Record, error) {
	if err := s.pool.acquire(ctx); err != nil {
		return nil, apperrors.SinkUnavailable("records sink pool exhausted", err)
	}
	defer s.pool.release()

	rows, err := s.pool.db.QueryContext(ctx,
		`SELECT name, score, play_time_ms FROM retired_players
		 ORDER BY score DESC, play_time_ms ASC, name ASC
		 OFFSET $1 LIMIT $2`,
		start, max,
	)
	if err != nil {
		return nil, apperrors.SinkUnavailable("failed to query ranked records", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Score, &r.PlayTimeMS); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DrainPending flushes the pending-retry queue against the sink, for the
// background retry loop to call on a timer. Records that still fail to
// persist are pushed back onto the queue.
func (s *PostgresSink) DrainPending(ctx context.Context) {
	records := s.pending.Drain()
	for _, r := range records {
		if err := s.pool.acquire(ctx); err != nil {
			s.pending.Push(r)
			continue
		}
		_, err := s.pool.db.ExecContext(ctx,
			`INSERT INTO retired_players (name, score, play_time_ms) VALUES ($1, $2, $3)`,
			r.Name, r.Score, r.PlayTimeMS,
		)
		s.pool.release()
		if err != nil {
			s.logger.Warn("retry of pending record still failing", "error", err, "name", r.Name)
			s.pending.Push(r)
		}
	}
}
