// Package store persists metadata snapshots as the pending job queue.
//
// A snapshot file existing in the store directory means its item is pending.
// Files are only ever created whole (temp file + rename) and only removed
// once every transfer for the item succeeded.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"ytdl/internal/classify"
	builder "ytdl/internal/command/builder"
	command "ytdl/internal/command/execute"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	"ytdl/internal/models"
	"ytdl/internal/parsing"
	logging "ytdl/internal/utils/logging"
)

// maxInfoLine bounds a single info JSON document on stdout.
const maxInfoLine = 64 * 1024 * 1024

// Store is a directory of pending snapshots.
type Store struct {
	dir    string
	runner contracts.Runner
	common builder.Common
}

// New returns a store rooted at dir. The directory is created on first write.
func New(dir string, runner contracts.Runner, common builder.Common) *Store {
	return &Store{
		dir:    dir,
		runner: runner,
		common: common,
	}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put resolves url into one or more snapshots and persists each of them.
//
// Collection URLs may expand to many items. If the fetcher exits non-zero
// after emitting some entries (e.g. a playlist with a private video), the
// entries it did emit are kept and a MetadataFetchError is returned as well.
func (s *Store) Put(ctx context.Context, url string) ([]*models.Snapshot, error) {
	args := builder.BuildMetadataArgs(builder.MetadataOptions{
		Common:      s.common,
		URL:         url,
		SingleVideo: !parsing.IsCollectionURL(url),
	})

	opts := command.RunOptions{
		Noise:   command.IsJSONLine,
		MaxLine: maxInfoLine,
	}
	if logging.Level >= 2 {
		opts.Stderr = os.Stderr
	}

	res := s.runner.Run(ctx, consts.DefaultYTDLPPath, args, opts)
	if res.SpawnErr != nil {
		return nil, &errconsts.ExecutableNotFoundError{Name: consts.DefaultYTDLPPath, Err: res.SpawnErr}
	}

	var snaps []*models.Snapshot
	for _, line := range res.Stdout {
		if !command.IsJSONLine(line) {
			continue
		}
		snap, err := s.persistLine(line)
		if err != nil {
			if errors.Is(err, errSkipLine) {
				logging.D(1, "Skipping metadata line for %q: %v", url, err)
				continue
			}
			return snaps, err
		}
		snaps = append(snaps, snap)
	}

	if !res.OK() {
		c := classify.Classify(res.Log)
		return snaps, &errconsts.MetadataFetchError{
			URL:     url,
			Kind:    c.Kind,
			Summary: c.Summary,
			Log:     res.Log,
		}
	}
	if len(snaps) == 0 {
		return nil, &errconsts.MetadataFetchError{
			URL:     url,
			Kind:    models.KindGeneric,
			Summary: "fetcher returned no metadata",
			Log:     res.Log,
		}
	}
	return snaps, nil
}

var errSkipLine = errors.New("not a usable info document")

// persistLine validates one info JSON document and writes it verbatim.
func (s *Store) persistLine(line string) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(line), &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", errSkipLine, err)
	}
	if snap.ID == "" {
		return nil, fmt.Errorf("%w: missing id", errSkipLine)
	}

	path := filepath.Join(s.dir, SnapshotFileName(&snap))
	if err := writeAtomic(path, []byte(line+"\n")); err != nil {
		return nil, err
	}
	snap.Path = path
	logging.D(1, "Stored snapshot %q", path)
	return &snap, nil
}

// ListPending loads every pending snapshot, sorted by file name.
//
// Files that fail to parse are renamed with a .corrupt suffix and reported
// as SnapshotParseError; they are never treated as pending again.
func (s *Store) ListPending() ([]*models.Snapshot, []error) {
	paths, err := s.snapshotPaths()
	if err != nil {
		return nil, []error{err}
	}

	var (
		snaps []*models.Snapshot
		errs  []error
	)
	for _, p := range paths {
		snap, err := readSnapshot(p)
		if err != nil {
			perr := &errconsts.SnapshotParseError{Path: p, Err: err}
			quarantined := p + consts.CorruptSuffix
			if rerr := os.Rename(p, quarantined); rerr != nil {
				logging.E("Failed to quarantine corrupt snapshot %q: %v", p, rerr)
			} else {
				perr.Quarantined = quarantined
			}
			errs = append(errs, perr)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, errs
}

// Peek loads pending snapshots without side effects. Unreadable files are skipped.
func (s *Store) Peek() ([]*models.Snapshot, error) {
	paths, err := s.snapshotPaths()
	if err != nil {
		return nil, err
	}
	snaps := make([]*models.Snapshot, 0, len(paths))
	for _, p := range paths {
		snap, err := readSnapshot(p)
		if err != nil {
			logging.D(1, "Skipping unreadable snapshot %q: %v", p, err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Remove deletes a snapshot file. Call only after the item fully succeeded.
func (s *Store) Remove(snap *models.Snapshot) error {
	if snap == nil || snap.Path == "" {
		return errors.New("snapshot has no store path")
	}
	if err := os.Remove(snap.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot %s: %w", snap.Path, err)
	}
	return nil
}

// WriteWorking writes snap into the working area and returns its path.
// The stored snapshot is left untouched.
func (s *Store) WriteWorking(snap *models.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode working copy of %q: %w", snap.ID, err)
	}
	path := filepath.Join(s.dir, consts.WorkDirName, SnapshotFileName(snap))
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveWorking deletes a working copy written by WriteWorking.
func (s *Store) RemoveWorking(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove working copy %s: %w", path, err)
	}
	return nil
}

// IsEmpty returns true if no pending snapshot exists.
func (s *Store) IsEmpty() (bool, error) {
	paths, err := s.snapshotPaths()
	if err != nil {
		return false, err
	}
	return len(paths) == 0, nil
}

// DiscardAll removes every entry of the store directory, pending or not.
func (s *Store) DiscardAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store directory %s: %w", s.dir, err)
	}

	var errs []error
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Prune removes the store directory once nothing but an empty working area remains.
func (s *Store) Prune() error {
	work := filepath.Join(s.dir, consts.WorkDirName)
	if err := removeIfEmpty(work); err != nil {
		return err
	}
	return removeIfEmpty(s.dir)
}

// snapshotPaths lists pending snapshot files at the top level of the store.
func (s *Store) snapshotPaths() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store directory %s: %w", s.dir, err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isTempFile(name) || !strings.HasSuffix(name, consts.SnapshotSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func readSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	snap.Path = path
	return &snap, nil
}

func removeIfEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read directory %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return nil
	}
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove directory %s: %w", dir, err)
	}
	return nil
}
