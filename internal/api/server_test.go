package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/kv"
	"github.com/pbaille/moodlog/internal/locale"
	"github.com/pbaille/moodlog/internal/store"
	"github.com/pbaille/moodlog/internal/trend"
)

type fixture struct {
	handler http.Handler
	store   *store.Store
	blob    *kv.Memory
}

func newFixture(t *testing.T, seeded bool) fixture {
	t.Helper()
	blob := kv.NewMemory()
	if !seeded {
		require.NoError(t, blob.Put(store.EntriesKey, []byte("[]")))
	}

	n := 0
	ids := func() string {
		n++
		return []string{"aaa111", "aab222", "bbb333", "ccc444", "ddd555"}[n-1]
	}
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	st := store.New(blob, store.WithIDFunc(ids), store.WithClock(func() time.Time { return now }))

	format := locale.New(language.Russian)
	srv := New(st, blob, trend.New(10, format), format, "")
	return fixture{handler: srv.Handler(), store: st, blob: blob}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAnalyzeDoesNotSave(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, "POST", "/analyze", `{"text":"Сегодня был отличный день!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[AnalysisResponse](t, rec)
	assert.Equal(t, domain.Positive, got.Emotion)
	assert.Equal(t, domain.Positive.Advice(), got.Advice)
	assert.Equal(t, "Позитивное", got.Label)

	n, _ := f.store.Len()
	assert.Equal(t, 0, n)
}

func TestBlankTextIsBadRequest(t *testing.T) {
	f := newFixture(t, false)
	for _, path := range []string{"/analyze", "/entries"} {
		rec := f.do(t, "POST", path, `{"text":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, decode[map[string]string](t, rec)["error"], "text is required")
	}
	rec := f.do(t, "POST", "/entries", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddEntryClassifies(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, "POST", "/entries", `{"text":"Я устал сегодня, было тяжело."}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[EntryView](t, rec)
	assert.Equal(t, "aaa111", got.ID)
	assert.Equal(t, domain.Negative, got.Emotion)
	assert.Equal(t, "😔", got.Emoji)
	assert.Equal(t, "5 марта 2026 г., 12:00", got.Date)
}

func TestAddEntryWithExplicitEmotion(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, "POST", "/entries", `{"text":"x","emotion":"neutral"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.Neutral.Advice(), decode[EntryView](t, rec).Advice)

	rec = f.do(t, "POST", "/entries", `{"text":"x","emotion":"positive","advice":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, "POST", "/entries", `{"text":"x","emotion":"ecstatic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	n, _ := f.store.Len()
	assert.Equal(t, 1, n)
}

type entryList struct {
	Entries []EntryView `json:"entries"`
	Count   int         `json:"count"`
}

func TestListEntriesOnSeededStore(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, "GET", "/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[entryList](t, rec)
	require.Equal(t, 3, body.Count)
	assert.Equal(t, domain.Negative, body.Entries[0].Emotion)
	assert.Equal(t, domain.Positive, body.Entries[2].Emotion)

	rec = f.do(t, "GET", "/entries?limit=1", "")
	assert.Equal(t, float64(1), decode[map[string]interface{}](t, rec)["count"])
}

func TestGetAndDeleteByPrefix(t *testing.T) {
	f := newFixture(t, false)
	f.do(t, "POST", "/entries", `{"text":"a"}`)
	f.do(t, "POST", "/entries", `{"text":"b"}`)

	rec := f.do(t, "GET", "/entries/aab", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aab222", decode[EntryView](t, rec).ID)

	rec = f.do(t, "GET", "/entries/aa", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, "GET", "/entries/zzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, "DELETE", "/entries/aaa", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, "DELETE", "/entries/aaa", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entries, _ := f.store.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "aab222", entries[0].ID)
}

func TestTrend(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, "GET", "/trend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"points":[],"window":10}`, rec.Body.String())

	f.do(t, "POST", "/entries", `{"text":"всё хорошо"}`)
	f.do(t, "POST", "/entries", `{"text":"мне плохо"}`)

	rec = f.do(t, "GET", "/trend", "")
	assert.JSONEq(t, `{"points":[{"date":"05.03","mood":1},{"date":"05.03","mood":-1}],"window":10}`, rec.Body.String())
}

func TestTheme(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, "GET", "/theme", "")
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = f.do(t, "PUT", "/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := f.blob.Get("mood-diary-theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", string(stored))

	rec = f.do(t, "GET", "/theme", "")
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = f.do(t, "PUT", "/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreflight(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, "OPTIONS", "/entries", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
