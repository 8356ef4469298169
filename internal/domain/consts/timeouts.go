package consts

import "time"

// Network timeouts
const (
	HTTPClientTimeout   = 10 * time.Second
	ReleaseFetchTimeout = 30 * time.Second
	ScraperTimeout      = 60 * time.Second
	DatabaseTimeout     = 5 * time.Second
)

// Server timeouts
const (
	ServerReadHeaderTimeout = 5 * time.Second
	ServerShutdownTimeout   = 5 * time.Second
)

// Retry configuration (history writes only, transfers are never retried in-process).
const (
	DefaultMaxRetries = 3
	RetryBackoff      = 100 * time.Millisecond
)
