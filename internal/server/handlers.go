package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	"ytdl/internal/models"
	logging "ytdl/internal/utils/logging"

	"github.com/go-chi/chi/v5"
)

// defaultHistoryLimit caps history listings without an explicit limit.
const defaultHistoryLimit = 50

type handlers struct {
	store   contracts.SnapshotStore
	history contracts.HistoryStore
}

// pendingItem is the API view of one queued snapshot.
type pendingItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	InCollection bool   `json:"in_collection"`
	UploadDate   string `json:"upload_date,omitempty"`
	Path         string `json:"path"`
}

type status struct {
	Version  string `json:"version"`
	StoreDir string `json:"store_dir"`
	Pending  int    `json:"pending"`
}

// handleStatus reports the program version and queue size.
func (h *handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.store.Peek()
	if err != nil {
		logging.E("Status request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status{
		Version:  consts.Version,
		StoreDir: h.store.Dir(),
		Pending:  len(snaps),
	})
}

// handleListPending lists queued snapshots without consuming them.
func (h *handlers) handleListPending(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.store.Peek()
	if err != nil {
		logging.E("Pending request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]pendingItem, 0, len(snaps))
	for _, s := range snaps {
		items = append(items, pendingItem{
			ID:           s.ID,
			Title:        s.Title,
			URL:          s.WebpageURL,
			InCollection: s.InCollection(),
			UploadDate:   s.UploadDate,
			Path:         s.Path,
		})
	}
	writeJSON(w, items)
}

// handleListHistory returns the most recent attempts.
func (h *handlers) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	attempts, err := h.history.ListAttempts(r.Context(), limit)
	if err != nil {
		logging.E("History request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, nonNil(attempts))
}

// handleItemHistory returns every attempt for one item.
func (h *handlers) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}
	itemID := chi.URLParam(r, "itemID")

	attempts, err := h.history.ListAttemptsByItem(r.Context(), itemID)
	if err != nil {
		logging.E("History request for %q failed: %v", itemID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if len(attempts) == 0 {
		http.Error(w, "no attempts for item", http.StatusNotFound)
		return
	}
	writeJSON(w, attempts)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode JSON", http.StatusInternalServerError)
	}
}

func nonNil(a []*models.Attempt) []*models.Attempt {
	if a == nil {
		return []*models.Attempt{}
	}
	return a
}
