package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

func newTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, RunMigrations(conn, ""))
	backend, err := NewSQLiteBackend(conn, zap.NewNop())
	require.NoError(t, err)
	return backend
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Get("missing")
	require.True(t, errors.Is(err, records.ErrNoRecord))

	require.NoError(t, b.Put("k", []byte(`[{"id":"1"}]`)))
	raw, err := b.Get("k")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"1"}]`, string(raw))

	// overwrite
	require.NoError(t, b.Put("k", []byte(`[]`)))
	raw, err = b.Get("k")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))
}

func TestSQLiteBackendKeysAndDelete(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Put("user_likes_u1", []byte(`[]`)))
	require.NoError(t, b.Put("user_likes_u2", []byte(`[]`)))
	require.NoError(t, b.Put("community_posts", []byte(`[]`)))

	keys, err := b.Keys("user_likes_")
	require.NoError(t, err)
	require.Equal(t, []string{"user_likes_u1", "user_likes_u2"}, keys)

	require.NoError(t, b.Delete("user_likes_u1", "not_there"))
	_, err = b.Get("user_likes_u1")
	require.True(t, errors.Is(err, records.ErrNoRecord))
}
