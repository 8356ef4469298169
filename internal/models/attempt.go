package models

import "time"

// Attempt is one audit row in the history database.
type Attempt struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	ItemID     string    `json:"item_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Outcome    Outcome   `json:"outcome"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	UploadDate time.Time `json:"upload_date,omitzero"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunReport tallies one engine pass over the store.
type RunReport struct {
	Done    int
	Skipped int
	Failed  int
	Errors  []error
}

// Total returns the number of items processed.
func (r RunReport) Total() int {
	return r.Done + r.Skipped + r.Failed
}
