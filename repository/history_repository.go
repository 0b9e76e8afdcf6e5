package repository

import (
	"context"
	"time"

	"gullak/domain"
)

// HistoryRepository stores recent calculations per owner.
type HistoryRepository interface {
	Save(ctx context.Context, entry domain.HistoryEntry) error

	// Recent returns up to limit entries for owner, newest first.
	Recent(ctx context.Context, owner string, limit int) ([]domain.HistoryEntry, error)

	// PurgeOlderThan deletes entries created before cutoff and returns how many went.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
