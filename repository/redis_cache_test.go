package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_UnreachableIsNotNotFound(t *testing.T) {
	cache := NewRedisCache("127.0.0.1:1", "", 0, "test:")
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := cache.Get(ctx, "portfolio:alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
