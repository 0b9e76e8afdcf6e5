package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gullak/domain"
)

func TestHistoryMemory_RecentNewestFirst(t *testing.T) {
	repo := NewHistoryMemory()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, domain.HistoryEntry{
			ID:        string(rune('a' + i)),
			Owner:     "u1",
			Kind:      "emi",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Save(ctx, domain.HistoryEntry{ID: "x", Owner: "u2", CreatedAt: base}))

	got, err := repo.Recent(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e", got[0].ID)
	assert.Equal(t, "c", got[2].ID)

	none, err := repo.Recent(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryMemory_PurgeOlderThan(t *testing.T) {
	repo := NewHistoryMemory()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, domain.HistoryEntry{ID: "old", Owner: "u", CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, domain.HistoryEntry{ID: "new", Owner: "u", CreatedAt: base.Add(48 * time.Hour)}))

	n, err := repo.PurgeOlderThan(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Recent(ctx, "u", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}
