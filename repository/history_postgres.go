package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gullak/domain"
)

const pgErrUniqueViolation = "23505"

// ErrDuplicateKey is returned when a history entry ID already exists.
var ErrDuplicateKey = errors.New("duplicate key")

// PostgresHistory stores calculation history in PostgreSQL.
type PostgresHistory struct {
	db *sql.DB
}

func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

// Migrate creates the history table if it does not exist.
func (r *PostgresHistory) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS calculation_history (
			id         UUID PRIMARY KEY,
			owner      TEXT NOT NULL,
			kind       TEXT NOT NULL,
			query      JSONB NOT NULL,
			summary    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS calculation_history_owner_created
			ON calculation_history (owner, created_at DESC);`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate history: %w", err)
	}
	return nil
}

func (r *PostgresHistory) Save(ctx context.Context, entry domain.HistoryEntry) error {
	query := `
		INSERT INTO calculation_history (id, owner, kind, query, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Owner, entry.Kind, entry.Query, entry.Summary, entry.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgErrUniqueViolation {
			return fmt.Errorf("%w: history entry %s", ErrDuplicateKey, entry.ID)
		}
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (r *PostgresHistory) Recent(ctx context.Context, owner string, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT id, owner, kind, query, summary, created_at
		FROM calculation_history
		WHERE owner = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Owner, &e.Kind, &e.Query, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func (r *PostgresHistory) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calculation_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged history: %w", err)
	}
	return n, nil
}
