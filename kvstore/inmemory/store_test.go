package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-discord-auth/kvstore"
	"github.com/jrsteele09/go-discord-auth/kvstore/inmemory"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()

	require.NoError(t, s.Put(ctx, "key", []byte("value"), 0))

	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)

	require.NoError(t, s.Delete(ctx, "key"))
	_, err = s.Get(ctx, "key")
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	// deleting again is a no-op
	require.NoError(t, s.Delete(ctx, "key"))
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := inmemory.New(inmemory.WithClock(func() time.Time { return now }))

	require.NoError(t, s.Put(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, s.Put(ctx, "forever", []byte("y"), 0))

	now = now.Add(59 * time.Second)
	_, err := s.Get(ctx, "short")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "short")
	require.ErrorIs(t, err, kvstore.ErrNotFound)
	require.Equal(t, 1, s.Len())

	now = now.Add(365 * 24 * time.Hour)
	_, err = s.Get(ctx, "forever")
	require.NoError(t, err)
}

func TestStore_OverwriteIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()

	require.NoError(t, s.Put(ctx, "key", []byte("first"), 0))
	require.NoError(t, s.Put(ctx, "key", []byte("second"), 0))

	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "second", string(got))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()

	value := []byte("abc")
	require.NoError(t, s.Put(ctx, "key", value, 0))
	value[0] = 'z'

	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestStore_Validation(t *testing.T) {
	ctx := context.Background()
	s := inmemory.New()

	require.Error(t, s.Put(ctx, "", []byte("x"), 0))
	require.Error(t, s.Put(ctx, "key", []byte("x"), -time.Second))
	_, err := s.Get(ctx, "")
	require.Error(t, err)
	require.Error(t, s.Delete(ctx, ""))
}
