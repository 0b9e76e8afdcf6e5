package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gullak/domain"
)

// HistoryMemory is an in-memory implementation of HistoryRepository.
type HistoryMemory struct {
	mu   sync.RWMutex
	data []domain.HistoryEntry
}

func NewHistoryMemory() *HistoryMemory {
	return &HistoryMemory{
		data: []domain.HistoryEntry{},
	}
}

func (r *HistoryMemory) Save(ctx context.Context, entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, entry)
	return nil
}

func (r *HistoryMemory) Recent(ctx context.Context, owner string, limit int) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.HistoryEntry{}
	for _, e := range r.data {
		if e.Owner == owner {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *HistoryMemory) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.data[:0]
	var purged int64
	for _, e := range r.data {
		if e.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	r.data = kept
	return purged, nil
}
