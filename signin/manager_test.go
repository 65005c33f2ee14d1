package signin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/kvstore/inmemory"
	"github.com/jrsteele09/go-discord-auth/signin"
	"github.com/stretchr/testify/require"
)

const testSubjectID = "123456789012345678"

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// setClock pins signin.NowTimeFunc to *now for the duration of the test
func setClock(t *testing.T, now *time.Time) {
	t.Helper()
	original := signin.NowTimeFunc
	signin.NowTimeFunc = func() time.Time { return *now }
	t.Cleanup(func() { signin.NowTimeFunc = original })
}

func TestIssue_ResolveReturnsWrittenRequest(t *testing.T) {
	ctx := context.Background()
	now := t0
	setClock(t, &now)
	m := signin.NewManager(inmemory.New())

	token, err := m.Issue(ctx, testSubjectID, 600*time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	req, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, &signin.Request{
		SubjectID: testSubjectID,
		CreatedAt: t0,
		ExpiresAt: t0.Add(600 * time.Second),
	}, req)
	require.False(t, m.IsExpired(req))
}

func TestIssue_TokensAreUnique(t *testing.T) {
	ctx := context.Background()
	m := signin.NewManager(inmemory.New())

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := m.Issue(ctx, testSubjectID, time.Minute)
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}

func TestIssue_Validation(t *testing.T) {
	ctx := context.Background()
	m := signin.NewManager(inmemory.New())

	_, err := m.Issue(ctx, "", time.Minute)
	require.Error(t, err)

	_, err = m.Issue(ctx, testSubjectID, 0)
	require.Error(t, err)
}

func TestIsExpired(t *testing.T) {
	now := t0
	setClock(t, &now)
	m := signin.NewManager(inmemory.New())
	req := &signin.Request{SubjectID: testSubjectID, CreatedAt: t0, ExpiresAt: t0.Add(10 * time.Minute)}

	t.Run("before expiry", func(t *testing.T) {
		now = t0.Add(30 * time.Second)
		require.False(t, m.IsExpired(req))
	})

	t.Run("exactly at expiry", func(t *testing.T) {
		now = req.ExpiresAt
		require.False(t, m.IsExpired(req))
	})

	t.Run("after expiry", func(t *testing.T) {
		now = t0.Add(700 * time.Second)
		require.True(t, m.IsExpired(req))
	})
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	m := signin.NewManager(inmemory.New())

	token, err := m.Issue(ctx, testSubjectID, time.Minute)
	require.NoError(t, err)

	require.NoError(t, m.Consume(ctx, token))
	_, err = m.Resolve(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	t.Run("second consume is a no-op", func(t *testing.T) {
		require.NoError(t, m.Consume(ctx, token))
	})
}

func TestResolve_NeverIssued(t *testing.T) {
	ctx := context.Background()
	m := signin.NewManager(inmemory.New())

	for _, token := range []string{"zzz", "", "00000000-0000-0000-0000-000000000000"} {
		_, err := m.Resolve(ctx, token)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	}
}

func TestResolve_EvictedByStoreTTL(t *testing.T) {
	ctx := context.Background()
	now := t0
	setClock(t, &now)
	store := inmemory.New(inmemory.WithClock(func() time.Time { return now }))
	m := signin.NewManager(store)

	token, err := m.Issue(ctx, testSubjectID, 600*time.Second)
	require.NoError(t, err)

	now = t0.Add(700 * time.Second)
	_, err = m.Resolve(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolve_MalformedRecord(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	m := signin.NewManager(store)

	tests := map[string]string{
		"not json":        "{",
		"missing user":    `{"createdAt":1,"expiredAt":2}`,
		"missing expiry":  `{"userId":"u1","createdAt":1}`,
		"expiry < create": `{"userId":"u1","createdAt":5,"expiredAt":2}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "bad", []byte(raw), 0))
			_, err := m.Resolve(ctx, "bad")
			require.ErrorIs(t, err, apperrors.ErrParse)
		})
	}
}

func TestResolve_ReadsLegacyRecord(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	m := signin.NewManager(store)

	raw := `{"userId":"u1","createdAt":1767225600000,"expiredAt":1767226200000}`
	require.NoError(t, store.Put(ctx, "legacy", []byte(raw), 0))

	req, err := m.Resolve(ctx, "legacy")
	require.NoError(t, err)
	require.Equal(t, "u1", req.SubjectID)
	require.Equal(t, 10*time.Minute, req.ExpiresAt.Sub(req.CreatedAt))
}

var errStoreDown = errors.New("store unavailable")

// brokenStore fails every operation with errStoreDown
type brokenStore struct{}

func (brokenStore) Put(context.Context, string, []byte, time.Duration) error { return errStoreDown }
func (brokenStore) Get(context.Context, string) ([]byte, error)             { return nil, errStoreDown }
func (brokenStore) Delete(context.Context, string) error                    { return errStoreDown }

func TestManager_StoreFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	m := signin.NewManager(brokenStore{})

	_, err := m.Issue(ctx, testSubjectID, 10*time.Minute)
	require.ErrorIs(t, err, errStoreDown)
	require.EqualError(t, err, "[signin Issue] failed to store request: store unavailable")

	_, err = m.Resolve(ctx, "abc123")
	require.ErrorIs(t, err, errStoreDown)
	require.NotErrorIs(t, err, apperrors.ErrNotFound)
	require.EqualError(t, err, "[signin Resolve] failed to read request: store unavailable")

	err = m.Consume(ctx, "abc123")
	require.EqualError(t, err, "[signin Consume] failed to delete request: store unavailable")
}
