package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazedo/trendpulse/internal/db"
	"github.com/crazedo/trendpulse/internal/models"
)

type fakeStore struct {
	trending    []models.TrendingSearch
	trendingErr error

	saved  map[int64]models.SavedTrend
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[int64]models.SavedTrend), nextID: 1}
}

func (f *fakeStore) ListTrending(context.Context) ([]models.TrendingSearch, error) {
	return f.trending, f.trendingErr
}

func (f *fakeStore) SaveTrend(_ context.Context, st models.SavedTrend) (models.SavedTrend, error) {
	st.ID = f.nextID
	f.nextID++
	f.saved[st.ID] = st
	return st, nil
}

func (f *fakeStore) ListSavedTrends(_ context.Context, userID string) ([]models.SavedTrend, error) {
	var out []models.SavedTrend
	for _, st := range f.saved {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteSavedTrend(_ context.Context, id int64) error {
	if _, ok := f.saved[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.saved, id)
	return nil
}

const testUserID = "0c9cde08-4d62-44f0-88a3-5b6fca3956b5"

func newStoreServer(store *fakeStore) *Server {
	s := newTestServer(&fakeFetcher{})
	s.Store = store
	return s
}

func TestListTrending(t *testing.T) {
	store := newFakeStore()
	store.trending = []models.TrendingSearch{
		{ID: 1, Keyword: "solar panels", TrendLabel: models.StatusRising, SearchVolume: 2000000, Date: "2025-09-03"},
		{ID: 2, Keyword: "heat pump", TrendLabel: models.StatusStable, SearchVolume: 500000, Date: "2025-09-03"},
	}
	s := newStoreServer(store)

	rec := doGet(t, s, "/api/trending")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.TrendingSearch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "solar panels", rows[0].Keyword)
}

func TestListTrendingEmptyIsArray(t *testing.T) {
	s := newStoreServer(newFakeStore())

	rec := doGet(t, s, "/api/trending")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestSaveTrend(t *testing.T) {
	store := newFakeStore()
	s := newStoreServer(store)

	body := `{"user_id": "` + testUserID + `", "keyword": "solar panels", "trend_label": "Rising", "search_volume": 2000000, "date": "2025-09-03"}`
	req := httptest.NewRequest(http.MethodPost, "/api/trends/saved", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var saved models.SavedTrend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, "solar panels", saved.Keyword)
	assert.Len(t, store.saved, 1)
}

func TestSaveTrendValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{`, "invalid request body"},
		{"missing user_id", `{"keyword": "solar"}`, "Missing 'user_id' parameter"},
		{"bad user_id", `{"user_id": "not-a-uuid", "keyword": "solar"}`, "invalid user_id"},
		{"missing keyword", `{"user_id": "` + testUserID + `"}`, "keyword is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStoreServer(newFakeStore())
			req := httptest.NewRequest(http.MethodPost, "/api/trends/saved", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.Router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestListSavedRequiresUserID(t *testing.T) {
	s := newStoreServer(newFakeStore())

	rec := doGet(t, s, "/api/trends/saved")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGet(t, s, "/api/trends/saved?user_id=nope")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSavedFiltersByUser(t *testing.T) {
	store := newFakeStore()
	s := newStoreServer(store)
	_, err := store.SaveTrend(context.Background(), models.SavedTrend{UserID: testUserID, Keyword: "solar"})
	require.NoError(t, err)
	_, err = store.SaveTrend(context.Background(), models.SavedTrend{UserID: "f3f2a6de-93e5-4a5c-b4be-51a1b8bd0a48", Keyword: "wind"})
	require.NoError(t, err)

	rec := doGet(t, s, "/api/trends/saved?user_id="+testUserID)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.SavedTrend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "solar", rows[0].Keyword)
}

func TestDeleteSavedTrend(t *testing.T) {
	store := newFakeStore()
	s := newStoreServer(store)
	_, err := store.SaveTrend(context.Background(), models.SavedTrend{UserID: testUserID, Keyword: "solar"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/trends/saved/1", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.saved)

	// Gone now.
	req = httptest.NewRequest(http.MethodDelete, "/api/trends/saved/1", nil)
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSavedTrendBadID(t *testing.T) {
	s := newStoreServer(newFakeStore())

	for _, id := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/trends/saved/"+id, nil)
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}
