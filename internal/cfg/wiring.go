package cfg

import (
	"context"
	"os"
	"path/filepath"
	"ytdl/internal/app"
	"ytdl/internal/command/builder"
	command "ytdl/internal/command/execute"
	"ytdl/internal/contracts"
	"ytdl/internal/database"
	"ytdl/internal/domain/paths"
	"ytdl/internal/models"
	"ytdl/internal/repo"
	"ytdl/internal/store"
	"ytdl/internal/update"
	"ytdl/internal/utils/browser"
	logging "ytdl/internal/utils/logging"

	"github.com/google/uuid"
)

// environment holds the collaborators one command run needs.
type environment struct {
	cfg       *models.Config
	sessionID string

	lock     *store.Lock
	runner   *command.Supervisor
	store    *store.Store
	db       *database.Database
	history  contracts.HistoryStore
	notifier contracts.Notifier
}

// openEnvironment wires the store, fetcher, history and notifier from c.
//
// With exclusive set the store lock is taken first, failing fast if another
// session holds it. Cookie export happens here so every fetcher call sees the file.
func openEnvironment(ctx context.Context, c *models.Config, exclusive bool) (*environment, error) {
	env := &environment{
		cfg:       c,
		sessionID: uuid.NewString(),
	}

	if exclusive {
		lock, err := store.AcquireLock(c.StoreDir)
		if err != nil {
			return nil, err
		}
		env.lock = lock
	}

	if c.CookieBrowser != "" && c.CookieFile == "" {
		exportBrowserCookies(ctx, c)
	}

	env.runner = command.NewSupervisor(c.YTDLPPath)
	env.store = store.New(c.StoreDir, env.runner, builder.Common{
		CookieFile: c.CookieFile,
		ExtraArgs:  c.YTDLPArgs,
	})

	if c.HistoryDB != "" {
		db, err := database.InitDB(c.HistoryDB)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.db = db
		env.history = repo.GetHistoryStore(db.DB)
	}

	// Avoid a typed nil interface when no webhook is configured
	if n := app.NewWebhookNotifier(c.NotifyURL); n != nil {
		env.notifier = n
	}

	logging.D(1, "Session %s using store %q", env.sessionID, c.StoreDir)
	return env, nil
}

// cookieExporter reads browser cookies into a Netscape file.
var cookieExporter = browser.ExportCookies

// exportBrowserCookies writes browser cookies to the program cookie directory and points c at them.
func exportBrowserCookies(ctx context.Context, c *models.Config) {
	path := filepath.Join(paths.CookieDir, c.CookieBrowser+".txt")
	n, err := cookieExporter(ctx, c.CookieBrowser, browser.DefaultSites, path)
	if err != nil {
		logging.W("Cookie export from %q failed, continuing without cookies: %v", c.CookieBrowser, err)
		return
	}
	if n > 0 {
		c.CookieFile = path
	}
}

func (e *environment) engine() *app.Engine {
	return app.NewEngine(app.EngineOptions{
		Config:    e.cfg,
		Store:     e.store,
		Runner:    e.runner,
		History:   e.history,
		Notifier:  e.notifier,
		SessionID: e.sessionID,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	})
}

func (e *environment) updater() *update.Updater {
	return update.New(e.cfg.ReleaseURL, e.runner)
}

// Close releases the database and the store lock.
func (e *environment) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			logging.E("Failed to close history database: %v", err)
		}
	}
	if err := e.lock.Release(); err != nil {
		logging.E("Failed to release store lock: %v", err)
	}
}
