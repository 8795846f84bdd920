package records

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEntry struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Minutes int       `json:"minutes"`
	At      time.Time `json:"at"`
}

func newTestStore() *Store {
	return NewStore(NewMemoryBackend(), zap.NewNop())
}

func TestReadAbsentKeyReturnsEmpty(t *testing.T) {
	s := newTestStore()
	items, err := Read[testEntry](s, "missing")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCollectionRoundTrip(t *testing.T) {
	s := newTestStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []testEntry{
		{ID: "a", Label: "first", Minutes: 30, At: at},
		{ID: "b", Label: "second", Minutes: 45, At: at.Add(time.Hour)},
	}
	require.NoError(t, Write(s, "entries", in))

	out, err := Read[testEntry](s, "entries")
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSingletonRoundTrip(t *testing.T) {
	s := newTestStore()
	v, err := ReadOne[testEntry](s, "single")
	require.NoError(t, err)
	require.Nil(t, v)

	in := testEntry{ID: "x", Minutes: 5}
	require.NoError(t, WriteOne(s, "single", &in))
	out, err := ReadOne[testEntry](s, "single")
	require.NoError(t, err)
	require.Equal(t, in, *out)
}

func TestUpdateWritesNothingOnError(t *testing.T) {
	s := newTestStore()
	require.NoError(t, Write(s, "k", []testEntry{{ID: "a"}}))

	_, err := Update(s, "k", func(items []testEntry) ([]testEntry, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	out, err := Read[testEntry](s, "k")
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestCorruptValueSurfacesError(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put("bad", []byte("{not json")))
	s := NewStore(backend, zap.NewNop())

	_, err := Read[testEntry](s, "bad")
	require.Error(t, err)
}

func TestUpdatesAgainstSameKeySerialize(t *testing.T) {
	s := newTestStore()
	const n = 50
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Update(s, "counter", func(items []testEntry) ([]testEntry, error) {
				return append(items, testEntry{ID: "e"}), nil
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	out, err := Read[testEntry](s, "counter")
	require.NoError(t, err)
	require.Len(t, out, n)
}

func TestDeleteAndKeys(t *testing.T) {
	s := newTestStore()
	require.NoError(t, Write(s, "pfx_a", []testEntry{{ID: "1"}}))
	require.NoError(t, Write(s, "pfx_b", []testEntry{{ID: "2"}}))
	require.NoError(t, Write(s, "other", []testEntry{{ID: "3"}}))

	keys, err := s.Keys("pfx_")
	require.NoError(t, err)
	require.Equal(t, []string{"pfx_a", "pfx_b"}, keys)

	require.NoError(t, s.Delete("pfx_a", "missing"))
	items, err := Read[testEntry](s, "pfx_a")
	require.NoError(t, err)
	require.Empty(t, items)
}
