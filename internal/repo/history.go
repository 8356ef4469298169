// Package repo holds the history database queries.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"ytdl/internal/domain/consts"
	"ytdl/internal/models"
	logging "ytdl/internal/utils/logging"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
)

// HistoryStore holds a pointer to the sql.DB.
type HistoryStore struct {
	DB *sql.DB
}

// GetHistoryStore returns a history store instance with injected database.
func GetHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{
		DB: db,
	}
}

// AddAttempt records one finished item attempt and returns its row ID.
func (hs *HistoryStore) AddAttempt(ctx context.Context, a *models.Attempt) (int64, error) {
	if a == nil {
		return 0, errors.New("attempt is nil")
	}

	var uploadDate any
	if !a.UploadDate.IsZero() {
		uploadDate = a.UploadDate
	}

	query := squirrel.
		Insert(consts.DBAttempts).
		Columns(
			consts.QAttSessionID,
			consts.QAttItemID,
			consts.QAttURL,
			consts.QAttTitle,
			consts.QAttOutcome,
			consts.QAttErrorKind,
			consts.QAttSummary,
			consts.QAttUploadDate,
			consts.QAttStartedAt,
			consts.QAttFinishedAt,
		).
		Values(
			a.SessionID,
			a.ItemID,
			a.URL,
			a.Title,
			string(a.Outcome),
			string(a.ErrorKind),
			a.Summary,
			uploadDate,
			a.StartedAt.UTC(),
			a.FinishedAt.UTC(),
		).
		RunWith(hs.DB)

	var res sql.Result
	err := withBusyRetry(ctx, func() (err error) {
		res, err = query.ExecContext(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert attempt for item %q: %w", a.ItemID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt ID for item %q: %w", a.ItemID, err)
	}
	a.ID = id
	logging.D(2, "Recorded attempt %d for item %q (%s)", id, a.ItemID, a.Outcome)
	return id, nil
}

// ListAttempts returns the most recent attempts, newest first.
func (hs *HistoryStore) ListAttempts(ctx context.Context, limit int) ([]*models.Attempt, error) {
	q := selectAttempts().
		OrderBy(consts.QAttFinishedAt+" DESC", consts.QAttID+" DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return hs.queryAttempts(ctx, q)
}

// ListAttemptsByItem returns every attempt for one item, oldest first.
func (hs *HistoryStore) ListAttemptsByItem(ctx context.Context, itemID string) ([]*models.Attempt, error) {
	q := selectAttempts().
		Where(squirrel.Eq{consts.QAttItemID: itemID}).
		OrderBy(consts.QAttFinishedAt+" ASC", consts.QAttID+" ASC")
	return hs.queryAttempts(ctx, q)
}

// Close closes the underlying database.
func (hs *HistoryStore) Close() error {
	return hs.DB.Close()
}

// ******************************** Private ********************************

func selectAttempts() squirrel.SelectBuilder {
	return squirrel.Select(
		consts.QAttID,
		consts.QAttSessionID,
		consts.QAttItemID,
		consts.QAttURL,
		consts.QAttTitle,
		consts.QAttOutcome,
		consts.QAttErrorKind,
		consts.QAttSummary,
		consts.QAttUploadDate,
		consts.QAttStartedAt,
		consts.QAttFinishedAt,
	).From(consts.DBAttempts)
}

func (hs *HistoryStore) queryAttempts(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Attempt, error) {
	rows, err := q.RunWith(hs.DB).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close rows: %v", err)
		}
	}()

	var out []*models.Attempt
	for rows.Next() {
		var (
			a          models.Attempt
			title      sql.NullString
			errKind    sql.NullString
			summary    sql.NullString
			uploadDate sql.NullTime
			outcome    string
		)
		if err := rows.Scan(
			&a.ID,
			&a.SessionID,
			&a.ItemID,
			&a.URL,
			&title,
			&outcome,
			&errKind,
			&summary,
			&uploadDate,
			&a.StartedAt,
			&a.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Title = title.String
		a.Outcome = models.Outcome(outcome)
		a.ErrorKind = models.ErrorKind(errKind.String)
		a.Summary = summary.String
		if uploadDate.Valid {
			a.UploadDate = uploadDate.Time
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return out, nil
}

// withBusyRetry retries fn while SQLite reports the database as busy or locked.
func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= consts.DefaultMaxRetries; attempt++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		logging.D(1, "Database busy (attempt %d/%d), retrying", attempt+1, consts.DefaultMaxRetries)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(consts.RetryBackoff * time.Duration(attempt+1)):
		}
	}
	return err
}

func isBusy(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code == sqlite3.ErrBusy || sqlErr.Code == sqlite3.ErrLocked
	}
	return false
}
