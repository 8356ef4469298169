// Package scraper collects media links from web pages.
package scraper

import (
	"context"
	"fmt"
	"sync"
	"ytdl/internal/domain/consts"
	"ytdl/internal/parsing"
	logging "ytdl/internal/utils/logging"

	"github.com/gocolly/colly"
)

// Scraper handles web scraping operations.
type Scraper struct {
	userAgent string
}

// New returns a new Scraper instance.
func New() *Scraper {
	return &Scraper{
		userAgent: consts.ProgramName + "/" + consts.Version,
	}
}

// ScanPage visits pageURL and returns every recognized media link it finds,
// de-duplicated. Anchor links come first in page order, then embedded players.
func (s *Scraper) ScanPage(ctx context.Context, pageURL string) ([]string, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(consts.ScraperTimeout)

	var (
		mu       sync.Mutex
		seen     = make(map[string]struct{})
		found    []string
		visitErr error
	)
	add := func(raw string) {
		for _, u := range parsing.ExtractURLs(raw) {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			found = append(found, u)
		}
	}

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		add(e.Request.AbsoluteURL(e.Attr("href")))
	})

	c.OnHTML("iframe[src]", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		add(e.Request.AbsoluteURL(e.Attr("src")))
	})

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		visitErr = fmt.Errorf("failed to scrape %q (status %d): %w", r.Request.URL, r.StatusCode, err)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.I("Scanning %s for media links", pageURL)
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %q: %w", pageURL, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if visitErr != nil {
		return nil, visitErr
	}

	logging.D(1, "Found %d media link(s) on %s", len(found), pageURL)
	return found, nil
}
