// Package errconsts holds ytdl's error taxonomy and constant error messages.
package errconsts

import (
	"errors"
	"fmt"
	"ytdl/internal/models"
)

// Sentinels.
var (
	ErrInvalidResumeAnswer = errors.New("invalid answer to resume prompt (expected y or n)")
	ErrStoreLocked         = errors.New("snapshot store is locked by another session")
	ErrNoSelection         = errors.New("no selectable video variant")
)

// MetadataFetchError is returned when resolving a URL into snapshots fails.
type MetadataFetchError struct {
	URL     string
	Kind    models.ErrorKind
	Summary string
	Log     string
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("metadata fetch failed for %q (%s): %s", e.URL, e.Kind, e.Summary)
}

// TransferError is returned when a refresh or transfer of a snapshot fails.
type TransferError struct {
	ItemID  string
	URL     string
	Kind    models.ErrorKind
	Summary string
	Log     string
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %q (%s): %s", e.URL, e.Kind, e.Summary)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// SnapshotParseError is returned for a snapshot file that cannot be decoded.
type SnapshotParseError struct {
	Path        string
	Quarantined string // Path the file was moved to, empty if left in place.
	Err         error
}

func (e *SnapshotParseError) Error() string {
	if e.Quarantined != "" {
		return fmt.Sprintf("could not parse snapshot %q (moved to %q): %v", e.Path, e.Quarantined, e.Err)
	}
	return fmt.Sprintf("could not parse snapshot %q: %v", e.Path, e.Err)
}

func (e *SnapshotParseError) Unwrap() error {
	return e.Err
}

// ExecutableNotFoundError is returned when the external fetcher cannot be started.
type ExecutableNotFoundError struct {
	Name string
	Err  error
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("external executable %q could not be started: %v", e.Name, e.Err)
}

func (e *ExecutableNotFoundError) Unwrap() error {
	return e.Err
}

// NotificationDeliveryError is returned when a webhook message could not be delivered.
//
// It is always non-fatal.
type NotificationDeliveryError struct {
	URL string
	Err error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("notification to %q failed: %v", e.URL, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error {
	return e.Err
}

// IsItemError returns true for errors local to one item, which never abort a session.
func IsItemError(err error) bool {
	var (
		mfe *MetadataFetchError
		te  *TransferError
		spe *SnapshotParseError
	)
	return errors.As(err, &mfe) || errors.As(err, &te) || errors.As(err, &spe)
}

// Constant messages.
const (
	YTDLPFailure         = "yt-dlp command failed: %w"
	ConfigFileUpdateFail = "failed to update from config file %q: %w"
)
