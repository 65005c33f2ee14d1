// Package kvstore defines the key-value state store shared by pending sign-in
// requests and authenticated user state.
package kvstore

import (
	"context"
	"time"

	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
)

// ErrNotFound is returned by Get when the key is absent or its TTL has elapsed
var ErrNotFound = apperrors.ErrNotFound

// Store is a flat key-value namespace with optional per-key expiry.
// Implementations must be safe for concurrent use; per-key writes are last-write-wins.
type Store interface {
	// Put writes value under key. A ttl of zero stores the value without expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
