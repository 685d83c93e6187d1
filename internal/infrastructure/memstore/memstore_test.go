package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/settingsdef/internal/profile"
)

func TestStore_LoadMissing(t *testing.T) {
	s := New()
	_, err := s.Load(context.Background(), "nope")
	require.ErrorIs(t, err, profile.ErrNotFound)
}

func TestStore_SaveLoadCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	data := []byte("hello")
	require.NoError(t, s.Save(ctx, "a", data))
	data[0] = 'j'

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "hello", string(got), "stored bytes must not alias the caller's slice")

	got[0] = 'y'
	again, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "hello", string(again))
	require.Equal(t, 1, s.Saves())
}

func TestStore_Names(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "b", nil))
	require.NoError(t, s.Save(ctx, "a", nil))
	require.Equal(t, []string{"a", "b"}, s.Names())
}

func TestStore_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Save(ctx, "a", nil), context.Canceled)
	_, err := s.Load(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}
