// Package signin manages the lifecycle of one-time sign-in tokens:
// absent -> pending -> consumed or expired. A token is never reissued.
package signin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/kvstore"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager issues, resolves and consumes pending sign-in requests
type Manager struct {
	store kvstore.Store
}

// NewManager creates a sign-in request manager over the given store
func NewManager(store kvstore.Store) *Manager {
	return &Manager{store: store}
}

// Issue mints a fresh token for subjectID, valid for ttl. The store entry
// carries the same TTL so abandoned requests clean themselves up.
func (m *Manager) Issue(ctx context.Context, subjectID string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("[signin Issue] subjectID is required")
	}
	if ttl <= 0 {
		return "", errors.New("[signin Issue] ttl must be positive")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", apperrors.Wrapf(err, "[signin Issue] failed to generate token")
	}
	token := id.String()

	now := NowTimeFunc()
	data, err := encode(Request{
		SubjectID: subjectID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return "", apperrors.Wrapf(err, "[signin Issue] encode request")
	}

	if err := m.store.Put(ctx, token, data, ttl); err != nil {
		return "", apperrors.Wrapf(err, "[signin Issue] failed to store request")
	}
	return token, nil
}

// Resolve returns the pending request for token, or ErrNotFound when it was
// never issued, has been consumed or was evicted by the store.
func (m *Manager) Resolve(ctx context.Context, token string) (*Request, error) {
	if token == "" {
		return nil, apperrors.ErrNotFound
	}
	data, err := m.store.Get(ctx, token)
	if err != nil {
		if apperrors.Is(err, kvstore.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrapf(err, "[signin Resolve] failed to read request")
	}
	return decode(data)
}

// IsExpired reports whether the request is past its logical expiry
func (m *Manager) IsExpired(req *Request) bool {
	return NowTimeFunc().After(req.ExpiresAt)
}

// Consume deletes the pending request. Consuming an absent token is a no-op.
func (m *Manager) Consume(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return apperrors.Wrapf(err, "[signin Consume] failed to delete request")
	}
	return nil
}
