package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/settingsdef/internal/profile"
)

// setupTestStore creates a new DB and returns its catalog store.
// The DB is closed when the test completes.
func setupTestStore(t *testing.T) *CatalogStore {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db.CatalogStore()
}

func TestCatalogStore_LoadMissing(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Load(t.Context(), "controls")
	require.ErrorIs(t, err, profile.ErrNotFound)

	_, err = s.Revision(t.Context(), "controls")
	require.ErrorIs(t, err, profile.ErrNotFound)
}

func TestCatalogStore_SaveLoad(t *testing.T) {
	s := setupTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.Save(ctx, "controls", []byte("a: 1\n")))
	got, err := s.Load(ctx, "controls")
	require.NoError(t, err)
	require.Equal(t, "a: 1\n", string(got))
}

func TestCatalogStore_SaveNewRevision(t *testing.T) {
	s := setupTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.Save(ctx, "g", []byte("1")))
	rev1, err := s.Revision(ctx, "g")
	require.NoError(t, err)
	require.NotEmpty(t, rev1)

	require.NoError(t, s.Save(ctx, "g", []byte("2")))
	rev2, err := s.Revision(ctx, "g")
	require.NoError(t, err)
	require.NotEqual(t, rev1, rev2, "each save should assign a new revision")

	got, err := s.Load(ctx, "g")
	require.NoError(t, err)
	require.Equal(t, "2", string(got), "upsert should replace the data")
}

func TestCatalogStore_UpdatedAt(t *testing.T) {
	s := setupTestStore(t)
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Save(t.Context(), "g", nil))
	m, err := s.Find(t.Context(), "g")
	require.NoError(t, err)
	require.Equal(t, fixed, m.UpdatedTime())
	require.Empty(t, m.Data)
}

func TestCatalogStore_NamesAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.Save(ctx, "b", []byte("x")))
	require.NoError(t, s.Save(ctx, "a", []byte("y")))

	names, err := s.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "missing"))

	names, err = s.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, names)
}

func TestCatalogStore_RoundTrip_Property(t *testing.T) {
	s := setupTestStore(t)
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z][a-z0-9_.-]{0,15}`).Draw(rt, "name")
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")

		require.NoError(rt, s.Save(t.Context(), name, data))
		got, err := s.Load(t.Context(), name)
		require.NoError(rt, err)
		if len(data) == 0 {
			require.Empty(rt, got)
			return
		}
		require.Equal(rt, data, got)
	})
}
