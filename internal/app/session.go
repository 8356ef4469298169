package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	"ytdl/internal/models"
	"ytdl/internal/parsing"
	logging "ytdl/internal/utils/logging"
	"ytdl/internal/utils/prompt"
)

// SessionOptions wires a Session. Updater is optional.
type SessionOptions struct {
	Config   *models.Config
	Store    contracts.SnapshotStore
	Engine   *Engine
	Updater  contracts.Updater
	Prompter *prompt.Prompter
}

// Session is the interactive prompt loop around the engine.
type Session struct {
	cfg     *models.Config
	store   contracts.SnapshotStore
	engine  *Engine
	updater contracts.Updater
	prompt  *prompt.Prompter
}

// NewSession returns a Session from its options.
func NewSession(o SessionOptions) *Session {
	cfg := o.Config
	if cfg == nil {
		cfg = &models.Config{}
	}
	return &Session{
		cfg:     cfg,
		store:   o.Store,
		engine:  o.Engine,
		updater: o.Updater,
		prompt:  o.Prompter,
	}
}

// Run loops: offer to resume pending items, read URLs, resolve and transfer them.
//
// It returns nil on "exit", end of input or interruption, and
// ErrInvalidResumeAnswer for anything but y/n at the resume prompt.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.offerResume(ctx); err != nil {
			return quietExit(err)
		}

		line, err := s.prompt.Ask(ctx, consts.URLPrompt)
		if err != nil {
			return quietExit(err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case consts.InputExit:
			return nil
		case consts.InputUpdate:
			return s.update(ctx)
		}

		urls := parsing.ParseInputLine(line)
		if len(urls) == 0 {
			logging.W("No URL recognized in %q", line)
			continue
		}
		if err := s.acquire(ctx, urls); err != nil {
			return quietExit(err)
		}
	}
}

// RunBatch resolves urls and processes everything pending once, without prompting.
func (s *Session) RunBatch(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		logging.I("No new URLs, processing pending items in %q", s.store.Dir())
		return quietExit(s.runEngine(ctx))
	}
	return quietExit(s.acquire(ctx, urls))
}

// offerResume asks whether to continue pending items, if there are any.
func (s *Session) offerResume(ctx context.Context) error {
	empty, err := s.store.IsEmpty()
	if err != nil {
		return err
	}
	if empty {
		return nil
	}

	answer, err := s.prompt.Ask(ctx, consts.ResumePrompt)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case consts.AnswerYes:
		return s.runEngine(ctx)
	case consts.AnswerNo:
		logging.I("Discarding pending items in %q", s.store.Dir())
		if err := s.store.DiscardAll(); err != nil {
			return fmt.Errorf("failed to discard pending items: %w", err)
		}
		return s.store.Prune()
	default:
		return fmt.Errorf("%w: got %q", errconsts.ErrInvalidResumeAnswer, answer)
	}
}

// acquire resolves urls into the store, then processes everything pending.
func (s *Session) acquire(ctx context.Context, urls []string) error {
	results, err := ResolveAll(ctx, s.store, urls, s.cfg.Concurrency)
	if err != nil {
		return err
	}

	var queued int
	for _, r := range results {
		queued += r.Stored
	}
	logging.D(1, "Queued %d item(s) from %d URL(s)", queued, len(urls))

	return s.runEngine(ctx)
}

// runEngine processes all pending items, prints the tally and prunes an empty store.
func (s *Session) runEngine(ctx context.Context) error {
	report, err := s.engine.RunAll(ctx)
	printReport(report)
	if err != nil {
		return err
	}
	if err := s.store.Prune(); err != nil {
		logging.W("Could not prune store: %v", err)
	}
	return nil
}

func (s *Session) update(ctx context.Context) error {
	if s.updater == nil {
		logging.W("Updates are not configured")
		return nil
	}
	if err := s.updater.Update(ctx); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

func printReport(r models.RunReport) {
	if r.Total() == 0 {
		return
	}
	msg := fmt.Sprintf("Finished %d item(s): %d downloaded, %d already present, %d failed", r.Total(), r.Done, r.Skipped, r.Failed)
	if r.Failed > 0 {
		logging.W("%s (failed items stay queued for the next run)", msg)
		return
	}
	logging.S("%s", msg)
}

// quietExit maps end of input and interruption to a normal exit.
func quietExit(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, context.Canceled):
		logging.I("Interrupted, pending items are kept for the next run")
		return nil
	}
	return err
}
