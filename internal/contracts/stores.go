// Package contracts defines interfaces that decouple the application layer from its collaborators.
package contracts

import (
	"context"
	command "ytdl/internal/command/execute"
	"ytdl/internal/models"
)

// Runner executes an external program and reports its outcome.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts command.RunOptions) models.ExecResult
}

// SnapshotStore is the persisted job queue of metadata snapshots.
type SnapshotStore interface {
	Put(ctx context.Context, url string) ([]*models.Snapshot, error)
	ListPending() ([]*models.Snapshot, []error)
	Peek() ([]*models.Snapshot, error)
	Remove(snap *models.Snapshot) error
	WriteWorking(snap *models.Snapshot) (string, error)
	RemoveWorking(path string) error
	IsEmpty() (bool, error)
	DiscardAll() error
	Prune() error
	Dir() string
}

// HistoryStore records finished attempts for later inspection.
type HistoryStore interface {
	AddAttempt(ctx context.Context, a *models.Attempt) (int64, error)
	ListAttempts(ctx context.Context, limit int) ([]*models.Attempt, error)
	ListAttemptsByItem(ctx context.Context, itemID string) ([]*models.Attempt, error)
	Close() error
}

// Notifier delivers a message to the configured webhook.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Updater brings the tool and its fetcher to the latest published release.
type Updater interface {
	Update(ctx context.Context) error
}
