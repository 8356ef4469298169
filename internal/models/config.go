package models

// Config is the resolved program configuration, threaded through constructors.
type Config struct {
	StoreDir            string
	OutputDir           string
	YTDLPPath           string
	YTDLPArgs           []string
	ConcurrentFragments int
	Concurrency         int
	SkipExisting        bool

	CookieFile    string
	CookieBrowser string

	NotifyURL  string
	HistoryDB  string
	ReleaseURL string
	ServeAddr  string
}
