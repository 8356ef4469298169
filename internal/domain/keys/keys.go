// Package keys holds the terminal flag names, which double as Viper keys.
package keys

// Files and directories.
const (
	ConfigFile string = "config-file"
	StoreDir   string = "store-dir"
	OutputDir  string = "output-dir"
	HistoryDB  string = "history-db"
	URLsFile   string = "urls-file"
)

// External fetcher.
const (
	YTDLPPath           string = "ytdlp-path"
	YTDLPArgs           string = "ytdlp-args"
	ConcurrentFragments string = "concurrent-fragments"
	SkipExisting        string = "skip-existing"
)

// Cookies.
const (
	CookieFile    string = "cookie-file"
	CookieBrowser string = "cookie-browser"
)

// Concurrency.
const (
	Concurrency string = "concurrency"
)

// Notification.
const (
	NotifyURL string = "notify-url"
)

// Self update.
const (
	ReleaseURL string = "release-url"
)

// Server.
const (
	ServeAddr string = "serve-addr"
)

// History listing.
const (
	HistoryLimit string = "limit"
)

// Logging.
const (
	DebugLevel string = "debug-level"
)
