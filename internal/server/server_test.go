package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"ytdl/internal/models"
)

type fakeStore struct {
	snaps []*models.Snapshot
	err   error
}

func (f *fakeStore) Put(context.Context, string) ([]*models.Snapshot, error) { return nil, nil }
func (f *fakeStore) ListPending() ([]*models.Snapshot, []error)              { return f.snaps, nil }
func (f *fakeStore) Peek() ([]*models.Snapshot, error)                       { return f.snaps, f.err }
func (f *fakeStore) Remove(*models.Snapshot) error                           { return nil }
func (f *fakeStore) WriteWorking(*models.Snapshot) (string, error)           { return "", nil }
func (f *fakeStore) RemoveWorking(string) error                              { return nil }
func (f *fakeStore) IsEmpty() (bool, error)                                  { return len(f.snaps) == 0, nil }
func (f *fakeStore) DiscardAll() error                                       { return nil }
func (f *fakeStore) Prune() error                                            { return nil }
func (f *fakeStore) Dir() string                                             { return "/tmp/store" }

type fakeHistory struct {
	attempts  []*models.Attempt
	lastLimit int
}

func (f *fakeHistory) AddAttempt(context.Context, *models.Attempt) (int64, error) { return 0, nil }
func (f *fakeHistory) ListAttempts(_ context.Context, limit int) ([]*models.Attempt, error) {
	f.lastLimit = limit
	return f.attempts, nil
}
func (f *fakeHistory) ListAttemptsByItem(_ context.Context, id string) ([]*models.Attempt, error) {
	var out []*models.Attempt
	for _, a := range f.attempts {
		if a.ItemID == id {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeHistory) Close() error { return nil }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPendingLists(t *testing.T) {
	t.Parallel()

	pl := "Mix"
	store := &fakeStore{snaps: []*models.Snapshot{
		{ID: "a", Title: "One", WebpageURL: "https://www.youtube.com/watch?v=a"},
		{ID: "b", Title: "Two", WebpageURL: "https://www.youtube.com/watch?v=b", Playlist: &pl},
	}}
	r := NewRouter(store, nil)

	rec := get(t, r, "/api/v1/pending")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []pendingItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[0].InCollection || !items[1].InCollection {
		t.Fatalf("unexpected items: %+v", items)
	}

	rec = get(t, r, "/api/v1/status")
	var st status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Pending != 2 || st.StoreDir != "/tmp/store" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestPendingStoreError(t *testing.T) {
	t.Parallel()

	r := NewRouter(&fakeStore{err: errors.New("disk gone")}, nil)
	if rec := get(t, r, "/api/v1/pending"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryRoutes(t *testing.T) {
	t.Parallel()

	hist := &fakeHistory{attempts: []*models.Attempt{
		{ID: 2, ItemID: "a", Outcome: models.OutcomeDone},
		{ID: 1, ItemID: "b", Outcome: models.OutcomeFailed},
	}}
	r := NewRouter(&fakeStore{}, hist)

	rec := get(t, r, "/api/v1/history?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if hist.lastLimit != 5 {
		t.Errorf("limit = %d", hist.lastLimit)
	}
	var got []models.Attempt
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d attempts", len(got))
	}

	if rec := get(t, r, "/api/v1/history?limit=abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
	if rec := get(t, r, "/api/v1/history/b"); rec.Code != http.StatusOK {
		t.Errorf("item status = %d", rec.Code)
	}
	if rec := get(t, r, "/api/v1/history/zzz"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown item status = %d", rec.Code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	t.Parallel()

	r := NewRouter(&fakeStore{}, nil)
	if rec := get(t, r, "/api/v1/history"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
