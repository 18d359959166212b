package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyBlob fails Put while failPuts is set
type flakyBlob struct {
	*kv.Memory
	failPuts bool
	puts     int
}

func (f *flakyBlob) Put(key string, value []byte) error {
	if f.failPuts {
		return errors.New("quota exceeded")
	}
	f.puts++
	return f.Memory.Put(key, value)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

// emptyStore returns a store whose blob already holds an empty collection,
// so no seed entries are created.
func emptyStore(t *testing.T) (*Store, *flakyBlob) {
	t.Helper()
	blob := &flakyBlob{Memory: kv.NewMemory()}
	require.NoError(t, blob.Memory.Put(EntriesKey, []byte("[]")))
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(blob, WithClock(c.now), WithIDFunc(sequentialIDs())), blob
}

func TestLoadSeedsOnFirstRun(t *testing.T) {
	blob := &flakyBlob{Memory: kv.NewMemory()}
	now := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	s := New(blob, WithClock(func() time.Time { return now }))

	entries, err := s.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, blob.puts, "seed must be persisted immediately")

	assert.Equal(t, domain.Negative, entries[0].Emotion)
	assert.Equal(t, domain.Neutral, entries[1].Emotion)
	assert.Equal(t, domain.Positive, entries[2].Emotion)

	for i, e := range entries {
		assert.True(t, now.AddDate(0, 0, -i).Equal(e.Timestamp), "entry %d at %s", i, e.Timestamp)
		assert.Equal(t, e.Emotion.Advice(), e.Advice)
	}
}

func TestLoadDoesNotReseedEmptyCollection(t *testing.T) {
	s, blob := emptyStore(t)
	entries, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, blob.puts)
}

func TestLoadRejectsCorruptBlob(t *testing.T) {
	blob := kv.NewMemory()
	require.NoError(t, blob.Put(EntriesKey, []byte("{not json")))

	_, err := New(blob).Load()
	assert.Error(t, err)
}

func TestAppendPutsNewestFirst(t *testing.T) {
	s, _ := emptyStore(t)

	first, err := s.Append("раз", domain.Positive, domain.Positive.Advice())
	require.NoError(t, err)
	second, err := s.Append("два", domain.Negative, "")
	require.NoError(t, err)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.Negative.Advice(), entries[0].Advice)
}

func TestAppendIDsAreUnique(t *testing.T) {
	blob := kv.NewMemory()
	s := New(blob)
	seen := map[string]bool{}

	entries, err := s.Load()
	require.NoError(t, err)
	for _, e := range entries {
		seen[e.ID] = true
	}
	for i := 0; i < 50; i++ {
		e, err := s.Append("text", domain.Neutral, "")
		require.NoError(t, err)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestAppendRejectsInconsistentAdvice(t *testing.T) {
	s, _ := emptyStore(t)

	_, err := s.Append("x", domain.Positive, domain.Negative.Advice())
	assert.ErrorIs(t, err, ErrInconsistentAdvice)

	_, err = s.Append("x", domain.Emotion("meh"), "")
	assert.Error(t, err)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAppendPersistFailureLeavesStoreUnchanged(t *testing.T) {
	s, blob := emptyStore(t)
	_, err := s.Append("kept", domain.Neutral, "")
	require.NoError(t, err)

	blob.failPuts = true
	_, err = s.Append("lost", domain.Positive, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist entries")

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Text)
}

func TestDelete(t *testing.T) {
	s, _ := emptyStore(t)
	a, _ := s.Append("a", domain.Positive, "")
	b, _ := s.Append("b", domain.Neutral, "")
	c, _ := s.Append("c", domain.Negative, "")

	removed, err := s.Delete(b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, c.ID, entries[0].ID)
	assert.Equal(t, a.ID, entries[1].ID)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	s, blob := emptyStore(t)
	_, _ = s.Append("a", domain.Positive, "")
	puts := blob.puts

	removed, err := s.Delete("missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, puts, blob.puts, "no-op delete must not rewrite the blob")

	n, _ := s.Len()
	assert.Equal(t, 1, n)
}

func TestDeletePersistFailureKeepsEntry(t *testing.T) {
	s, blob := emptyStore(t)
	e, _ := s.Append("a", domain.Positive, "")

	blob.failPuts = true
	removed, err := s.Delete(e.ID)
	assert.Error(t, err)
	assert.False(t, removed)

	n, _ := s.Len()
	assert.Equal(t, 1, n)
}

func TestListReturnsSnapshot(t *testing.T) {
	s, _ := emptyStore(t)
	_, _ = s.Append("original", domain.Neutral, "")

	entries, _ := s.List()
	entries[0].Text = "mutated"

	again, _ := s.List()
	assert.Equal(t, "original", again[0].Text)
}

func TestRoundTripThroughSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodlog.db")
	blob, err := kv.OpenSQL(kv.DriverPureGo, path)
	require.NoError(t, err)

	s := New(blob)
	_, err = s.Load()
	require.NoError(t, err)
	_, err = s.Append("Сегодня всё прекрасно", domain.Positive, "")
	require.NoError(t, err)
	want, err := s.List()
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	blob, err = kv.OpenSQL(kv.DriverPureGo, path)
	require.NoError(t, err)
	defer blob.Close()

	got, err := New(blob).Load()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Text, got[i].Text)
		assert.Equal(t, want[i].Emotion, got[i].Emotion)
		assert.Equal(t, want[i].Advice, got[i].Advice)
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "timestamp %d", i)
	}
}

func TestFind(t *testing.T) {
	s, _ := emptyStore(t)
	_, _ = s.Append("a", domain.Positive, "") // id-01
	_, _ = s.Append("b", domain.Neutral, "")  // id-02

	e, err := s.Find("id-02")
	require.NoError(t, err)
	assert.Equal(t, "b", e.Text)

	_, err = s.Find("id-0")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = s.Find("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecent(t *testing.T) {
	s, _ := emptyStore(t)
	for i := 0; i < 5; i++ {
		_, _ = s.Append(fmt.Sprint(i), domain.Neutral, "")
	}
	recent, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "4", recent[0].Text)
}
