package app

import (
	"context"
	"errors"
	"sync"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	logging "ytdl/internal/utils/logging"

	"github.com/sourcegraph/conc/pool"
)

// ResolveResult is the outcome of resolving one input URL.
type ResolveResult struct {
	URL    string
	Stored int
	Err    error
}

// ResolveAll resolves urls into the store with at most concurrency fetchers
// running at once. Results keep input order.
//
// Per-URL failures are reported and returned in the results; a missing
// fetcher executable is returned as the error.
func ResolveAll(ctx context.Context, s contracts.SnapshotStore, urls []string, concurrency int) ([]ResolveResult, error) {
	if concurrency <= 0 {
		concurrency = consts.DefaultConcurrency
	}

	results := make([]ResolveResult, len(urls))
	var (
		mu       sync.Mutex
		fatalErr error
	)

	p := pool.New().WithMaxGoroutines(concurrency)
	for i, u := range urls {
		p.Go(func() {
			if ctx.Err() != nil {
				results[i] = ResolveResult{URL: u, Err: ctx.Err()}
				return
			}

			logging.I("Resolving %s", u)
			snaps, err := s.Put(ctx, u)
			results[i] = ResolveResult{URL: u, Stored: len(snaps), Err: err}

			switch {
			case err == nil:
				logging.S("Queued %d item(s) from %s", len(snaps), u)
			case errconsts.IsItemError(err):
				summary := err.Error()
				var mfe *errconsts.MetadataFetchError
				if errors.As(err, &mfe) {
					summary = "[" + string(mfe.Kind) + "] " + mfe.Summary
					if mfe.Log != "" {
						logging.Raw("yt-dlp metadata output for "+u, mfe.Log)
					}
				}
				if len(snaps) > 0 {
					logging.W("Queued %d item(s) from %s, some entries failed: %s", len(snaps), u, summary)
				} else {
					logging.E("Could not resolve %s: %s", u, summary)
				}
			default:
				mu.Lock()
				if fatalErr == nil {
					fatalErr = err
				}
				mu.Unlock()
			}
		})
	}
	p.Wait()

	return results, fatalErr
}
