// Package app contains core application functionality.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"ytdl/internal/classify"
	builder "ytdl/internal/command/builder"
	command "ytdl/internal/command/execute"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	"ytdl/internal/format"
	"ytdl/internal/models"
	"ytdl/internal/parsing"
	logging "ytdl/internal/utils/logging"
)

// maxInfoLine bounds one info JSON document during a refresh.
const maxInfoLine = 64 * 1024 * 1024

// EngineOptions wires an Engine's collaborators. History and Notifier are optional.
type EngineOptions struct {
	Config    *models.Config
	Store     contracts.SnapshotStore
	Runner    contracts.Runner
	History   contracts.HistoryStore
	Notifier  contracts.Notifier
	SessionID string

	// Stdout and Stderr receive live fetcher output during transfers.
	Stdout io.Writer
	Stderr io.Writer

	// OnState, when set, observes every state transition.
	OnState func(itemID string, state models.ItemState)
}

// Engine drives each pending snapshot through refresh, selection and transfer.
type Engine struct {
	cfg       *models.Config
	store     contracts.SnapshotStore
	runner    contracts.Runner
	history   contracts.HistoryStore
	notifier  contracts.Notifier
	sessionID string
	stdout    io.Writer
	stderr    io.Writer
	onState   func(string, models.ItemState)
	now       func() time.Time
}

// NewEngine returns an Engine from its options.
func NewEngine(o EngineOptions) *Engine {
	cfg := o.Config
	if cfg == nil {
		cfg = &models.Config{}
	}
	return &Engine{
		cfg:       cfg,
		store:     o.Store,
		runner:    o.Runner,
		history:   o.History,
		notifier:  o.Notifier,
		sessionID: o.SessionID,
		stdout:    o.Stdout,
		stderr:    o.Stderr,
		onState:   o.OnState,
		now:       time.Now,
	}
}

// RunAll processes every pending snapshot in turn.
//
// Item failures are reported and counted; the snapshot stays in the store.
// A missing fetcher executable or a store failure aborts the pass. When ctx
// is cancelled, items not yet started stay pending untouched.
func (e *Engine) RunAll(ctx context.Context) (models.RunReport, error) {
	var report models.RunReport

	snaps, errs := e.store.ListPending()
	for _, err := range errs {
		var perr *errconsts.SnapshotParseError
		if !errors.As(err, &perr) {
			return report, err
		}
		logging.W("%v", err)
		report.Failed++
		report.Errors = append(report.Errors, err)
	}

	if len(snaps) == 0 {
		logging.D(1, "No pending snapshots in %q", e.store.Dir())
		return report, nil
	}
	logging.I("Processing %d pending item(s)", len(snaps))

	for i, snap := range snaps {
		if err := ctx.Err(); err != nil {
			logging.W("Interrupted, %d item(s) left pending", len(snaps)-i)
			return report, err
		}

		logging.I("[%d/%d] %s", i+1, len(snaps), snap.Label())
		outcome, err := e.Process(ctx, snap)
		if err != nil && !errconsts.IsItemError(err) {
			return report, err
		}

		switch outcome {
		case models.OutcomeDone:
			report.Done++
		case models.OutcomeSkipped:
			report.Skipped++
		default:
			report.Failed++
			if err != nil {
				report.Errors = append(report.Errors, err)
			}
		}
	}
	return report, ctx.Err()
}

// Process runs one snapshot to a terminal state and records the attempt.
func (e *Engine) Process(ctx context.Context, snap *models.Snapshot) (models.Outcome, error) {
	started := e.now()
	e.setState(snap, models.StateResolved)

	outcome, err := e.process(ctx, snap)
	switch {
	case err != nil:
		e.setState(snap, models.StateFailedRetained)
		if errconsts.IsItemError(err) {
			e.reportFailure(ctx, snap, err)
		}
	default:
		e.setState(snap, models.StateDone)
	}

	e.record(ctx, snap, outcome, err, started)
	return outcome, err
}

func (e *Engine) process(ctx context.Context, snap *models.Snapshot) (models.Outcome, error) {
	if e.cfg.SkipExisting {
		onDisk, err := e.alreadyOnDisk(ctx, snap)
		if err != nil {
			return models.OutcomeFailed, err
		}
		if onDisk {
			logging.S("Already downloaded: %s", snap.Label())
			if err := e.store.Remove(snap); err != nil {
				return models.OutcomeFailed, err
			}
			return models.OutcomeSkipped, nil
		}
	}

	// Stream URLs in a snapshot expire, so formats are always refreshed first.
	e.setState(snap, models.StateRefreshing)
	refreshed, err := e.refresh(ctx, snap)
	if err != nil {
		return models.OutcomeFailed, err
	}

	sel := format.Select(refreshed.Formats)
	if sel.Empty() {
		return models.OutcomeFailed, &errconsts.TransferError{
			ItemID:  snap.ID,
			URL:     snap.WebpageURL,
			Kind:    models.KindGeneric,
			Summary: errconsts.ErrNoSelection.Error(),
			Err:     errconsts.ErrNoSelection,
		}
	}

	work, err := e.store.WriteWorking(refreshed)
	if err != nil {
		return models.OutcomeFailed, err
	}
	defer func() {
		if err := e.store.RemoveWorking(work); err != nil {
			logging.W("Could not remove working copy: %v", err)
		}
	}()

	e.setState(snap, models.StateTransferring)
	if err := e.transfer(ctx, snap, work, sel); err != nil {
		return models.OutcomeFailed, err
	}

	// Commit: the item is only dequeued once every target succeeded.
	if err := e.store.Remove(snap); err != nil {
		return models.OutcomeFailed, err
	}
	logging.S("Downloaded: %s", snap.Label())
	return models.OutcomeDone, nil
}

// refresh fetches current formats for snap and returns an updated copy.
// The stored snapshot is not modified.
func (e *Engine) refresh(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error) {
	if snap.WebpageURL == "" {
		return nil, &errconsts.TransferError{
			ItemID:  snap.ID,
			Kind:    models.KindGeneric,
			Summary: "snapshot has no webpage_url to refresh from",
		}
	}

	args := builder.BuildMetadataArgs(builder.MetadataOptions{
		Common:      e.common(),
		URL:         snap.WebpageURL,
		SingleVideo: true,
	})
	res := e.runner.Run(ctx, consts.DefaultYTDLPPath, args, command.RunOptions{
		Noise:   command.IsJSONLine,
		MaxLine: maxInfoLine,
	})
	if res.SpawnErr != nil {
		return nil, &errconsts.ExecutableNotFoundError{Name: consts.DefaultYTDLPPath, Err: res.SpawnErr}
	}
	if !res.OK() {
		return nil, transferError(snap, res, errors.New("format refresh failed"))
	}

	var fresh *models.Snapshot
	for i := len(res.Stdout) - 1; i >= 0; i-- {
		line := res.Stdout[i]
		if !command.IsJSONLine(line) {
			continue
		}
		var s models.Snapshot
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			logging.D(1, "Unparseable refresh output for %q: %v", snap.ID, err)
			continue
		}
		fresh = &s
		break
	}
	if fresh == nil || len(fresh.Formats) == 0 {
		return nil, &errconsts.TransferError{
			ItemID:  snap.ID,
			URL:     snap.WebpageURL,
			Kind:    models.KindGeneric,
			Summary: "format refresh returned no formats",
			Log:     res.Log,
		}
	}

	logging.D(1, "Refreshed %d formats for %q", len(fresh.Formats), snap.ID)
	return snap.WithFormats(fresh.Formats), nil
}

// transfer runs one invocation per target. All targets are attempted; the
// first failure is returned.
func (e *Engine) transfer(ctx context.Context, snap *models.Snapshot, work string, sel models.TargetSelection) error {
	var firstErr error
	for _, target := range sel.Targets() {
		if err := ctx.Err(); err != nil {
			if firstErr == nil {
				firstErr = &errconsts.TransferError{
					ItemID:  snap.ID,
					URL:     snap.WebpageURL,
					Kind:    models.KindGeneric,
					Summary: "interrupted",
					Err:     err,
				}
			}
			break
		}

		expr := format.Expression(target)
		logging.I("Fetching format %s (%s, %dp) for %s", expr, target.Family(), target.Height0(), snap.ID)

		args := builder.BuildTransferArgs(builder.TransferOptions{
			Common:              e.common(),
			InfoJSON:            work,
			Format:              expr,
			OutputDir:           e.cfg.OutputDir,
			HDR:                 !target.IsSDR(),
			InCollection:        snap.InCollection(),
			ConcurrentFragments: e.cfg.ConcurrentFragments,
		})
		res := e.runner.Run(ctx, consts.DefaultYTDLPPath, args, command.RunOptions{
			Stdout: e.stdout,
			Stderr: e.stderr,
		})
		if res.SpawnErr != nil {
			return &errconsts.ExecutableNotFoundError{Name: consts.DefaultYTDLPPath, Err: res.SpawnErr}
		}
		if !res.OK() && firstErr == nil {
			firstErr = transferError(snap, res, fmt.Errorf("format %s exited with code %d", expr, res.ExitCode))
		}
	}
	return firstErr
}

// alreadyOnDisk asks the fetcher where each target would land and reports
// whether every merged file exists without an unfinished sibling.
func (e *Engine) alreadyOnDisk(ctx context.Context, snap *models.Snapshot) (bool, error) {
	sel := format.Select(snap.Formats)
	if sel.Empty() || snap.Path == "" {
		return false, nil
	}

	for _, target := range sel.Targets() {
		args := builder.BuildPathProbeArgs(builder.PathProbeOptions{
			Common:       e.common(),
			InfoJSON:     snap.Path,
			OutputDir:    e.cfg.OutputDir,
			HDR:          !target.IsSDR(),
			InCollection: snap.InCollection(),
		})
		res := e.runner.Run(ctx, consts.DefaultYTDLPPath, args, command.RunOptions{})
		if res.SpawnErr != nil {
			return false, &errconsts.ExecutableNotFoundError{Name: consts.DefaultYTDLPPath, Err: res.SpawnErr}
		}
		if !res.OK() {
			logging.D(1, "Path probe failed for %q, continuing with download", snap.ID)
			return false, nil
		}

		path := lastNonEmpty(res.Stdout)
		if path == "" {
			return false, nil
		}
		base := strings.TrimSuffix(path, filepath.Ext(path))
		if !fileExists(base+"."+consts.DefaultMergeFormat) || fileExists(base+".temp."+consts.DefaultMergeFormat) {
			return false, nil
		}
	}
	return true, nil
}

// reportFailure prints a one-line summary and ships the full log to the
// log file and the webhook.
func (e *Engine) reportFailure(ctx context.Context, snap *models.Snapshot, err error) {
	kind, summary, log := describe(err)
	logging.E("Failed %s [%s]: %s", snap.Label(), kind, summary)
	if log != "" {
		logging.Raw("yt-dlp output for "+snap.ID, log)
	}

	if e.notifier == nil || ctx.Err() != nil {
		return
	}
	n := models.Notification{
		Content: fmt.Sprintf("%s: download failed for %s [%s]: %s", consts.ProgramName, snap.Label(), kind, summary),
	}
	if log != "" {
		n.AttachmentName = snap.ID + ".log"
		n.Attachment = []byte(log)
	}
	if nerr := e.notifier.Notify(ctx, n); nerr != nil {
		logging.W("%v", nerr)
	}
}

// record writes the attempt to the history store, if one is configured.
func (e *Engine) record(ctx context.Context, snap *models.Snapshot, outcome models.Outcome, err error, started time.Time) {
	if e.history == nil {
		return
	}

	a := &models.Attempt{
		SessionID:  e.sessionID,
		ItemID:     snap.ID,
		URL:        snap.WebpageURL,
		Title:      snap.Title,
		Outcome:    outcome,
		StartedAt:  started,
		FinishedAt: e.now(),
	}
	if snap.UploadDate != "" {
		if t, perr := parsing.ParseUploadDate(snap.UploadDate); perr == nil {
			a.UploadDate = t
		}
	}
	if err != nil {
		kind, summary, _ := describe(err)
		a.ErrorKind = kind
		a.Summary = summary
	}

	// Record even if the session is being interrupted.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), consts.DatabaseTimeout)
	defer cancel()
	if _, herr := e.history.AddAttempt(hctx, a); herr != nil {
		logging.W("Could not record attempt for %q: %v", snap.ID, herr)
	}
}

func (e *Engine) setState(snap *models.Snapshot, s models.ItemState) {
	logging.D(2, "Item %q -> %s", snap.ID, s)
	if e.onState != nil {
		e.onState(snap.ID, s)
	}
}

func (e *Engine) common() builder.Common {
	return builder.Common{
		CookieFile: e.cfg.CookieFile,
		ExtraArgs:  e.cfg.YTDLPArgs,
	}
}

// transferError builds a classified TransferError from a failed invocation.
func transferError(snap *models.Snapshot, res models.ExecResult, cause error) *errconsts.TransferError {
	c := classify.Classify(res.Log)
	return &errconsts.TransferError{
		ItemID:  snap.ID,
		URL:     snap.WebpageURL,
		Kind:    c.Kind,
		Summary: c.Summary,
		Log:     res.Log,
		Err:     cause,
	}
}

// describe extracts kind, summary and full log from an item error.
func describe(err error) (models.ErrorKind, string, string) {
	var (
		te  *errconsts.TransferError
		mfe *errconsts.MetadataFetchError
	)
	switch {
	case errors.As(err, &te):
		return te.Kind, te.Summary, te.Log
	case errors.As(err, &mfe):
		return mfe.Kind, mfe.Summary, mfe.Log
	}
	return models.KindGeneric, err.Error(), ""
}

func lastNonEmpty(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
