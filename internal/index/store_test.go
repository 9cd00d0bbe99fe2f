package index

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestIndex writes a docset index holding entries and opens it.
func newTestIndex(t *testing.T, entries ...Entry) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docSet.dsidx")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE searchIndex(id INTEGER PRIMARY KEY, name TEXT, type TEXT, path TEXT)`)
	require.NoError(t, err)
	for _, e := range entries {
		_, err := db.Exec(`INSERT INTO searchIndex(id, name, type, path) VALUES (?, ?, ?, ?)`, e.ID, e.Name, e.Type, e.Path)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func scanAll(t *testing.T, s *Store) []Entry {
	t.Helper()
	var got []Entry
	require.NoError(t, s.Scan(context.Background(), func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	return got
}

func TestOpenMissingIndex(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.dsidx"))
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenCorruptIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docSet.dsidx")
	require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite, just some bytes that go on for a while"), 0o644))

	_, err := Open(path)
	var se *StorageError
	require.ErrorAs(t, err, &se)
}

func TestCountAndScan(t *testing.T) {
	s, _ := newTestIndex(t,
		Entry{ID: 1, Name: "Foo", Type: "cl", Path: "a.html#//x"},
		Entry{ID: 2, Name: "Bar", Type: "cl", Path: "b.html#//y"},
	)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := scanAll(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, Entry{ID: 1, Name: "Foo", Type: "cl", Path: "a.html#//x"}, got[0])
	assert.Equal(t, "Bar", got[1].Name)
}

func TestScanStopsOnCallbackError(t *testing.T) {
	s, _ := newTestIndex(t,
		Entry{ID: 1, Name: "A", Type: "cl", Path: "a.html"},
		Entry{ID: 2, Name: "B", Type: "cl", Path: "b.html"},
	)
	stop := errors.New("stop")
	calls := 0
	err := s.Scan(context.Background(), func(Entry) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestLookupDuringScan(t *testing.T) {
	s, _ := newTestIndex(t,
		Entry{ID: 1, Name: "NSURLSession", Type: "cl", Path: "session.html#//s"},
		Entry{ID: 2, Name: "NSURL", Type: "cl", Path: "url.html"},
	)
	ctx := context.Background()

	var found []string
	err := s.Scan(ctx, func(e Entry) error {
		path, ok, err := s.FindBestByName(ctx, e.Name)
		if err != nil {
			return err
		}
		if ok {
			found = append(found, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"session.html#//s", "url.html"}, found)
}

func TestFindBestByNameOrdersByType(t *testing.T) {
	s, _ := newTestIndex(t,
		Entry{ID: 1, Name: "NSCoding", Type: "intf", Path: "protocol.html"},
		Entry{ID: 2, Name: "NSCoding", Type: "cl", Path: "class.html"},
		Entry{ID: 3, Name: "NSCoding", Type: "func", Path: "func.html"},
	)

	path, ok, err := s.FindBestByName(context.Background(), "NSCoding")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "class.html", path)
}

func TestFindBestByNameMiss(t *testing.T) {
	s, _ := newTestIndex(t, Entry{ID: 1, Name: "Foo", Type: "cl", Path: "a.html"})

	path, ok, err := s.FindBestByName(context.Background(), "Nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestDeleteByLanguageMarker(t *testing.T) {
	s, _ := newTestIndex(t,
		Entry{ID: 1, Name: "URL", Type: "struct", Path: "url.html#<dash_entry_language=swift>"},
		Entry{ID: 2, Name: "NSURL", Type: "cl", Path: "nsurl.html#<dash_entry_language=occ>"},
		Entry{ID: 3, Name: "Misc", Type: "cl", Path: "misc.html"},
	)

	n, err := s.DeleteByLanguageMarker(context.Background(), "occ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got := scanAll(t, s)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.NotContains(t, e.Path, "<dash_entry_language=occ>")
	}
}

func TestDeleteBatchAndCompact(t *testing.T) {
	s, _ := newTestIndex(t,
		Entry{ID: 1, Name: "A", Type: "cl", Path: "a.html"},
		Entry{ID: 2, Name: "B", Type: "cl", Path: "b.html"},
		Entry{ID: 3, Name: "C", Type: "cl", Path: "c.html"},
	)
	ctx := context.Background()

	var calls []int
	require.NoError(t, s.DeleteBatch(ctx, []int64{1, 3}, func(done, total int) {
		assert.Equal(t, 2, total)
		calls = append(calls, done)
	}))
	assert.Equal(t, []int{1, 2}, calls)

	require.NoError(t, s.Compact(ctx))

	got := scanAll(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestDeleteBatchEmpty(t *testing.T) {
	s, _ := newTestIndex(t, Entry{ID: 1, Name: "A", Type: "cl", Path: "a.html"})
	require.NoError(t, s.DeleteBatch(context.Background(), nil, nil))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClosedStoreReturnsStorageError(t *testing.T) {
	s, _ := newTestIndex(t, Entry{ID: 1, Name: "A", Type: "cl", Path: "a.html"})
	require.NoError(t, s.Close())

	_, err := s.Count(context.Background())
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "count", se.Op)
}
