package repository

import (
	"context"
	"time"
)

// CacheRepository is a string-keyed store of JSON blobs. A zero ttl keeps
// the value until it is deleted. Get returns ErrNotFound for a missing or
// expired key; any other error means the store could not be read.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
