package cfg

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"ytdl/internal/domain/paths"
	"ytdl/internal/models"
)

// Not parallel: swaps package-level cookieExporter and paths.CookieDir.
func TestExportBrowserCookies(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		err      error
		wantFile bool
	}{
		{name: "cookies written", n: 3, wantFile: true},
		{name: "no cookies", n: 0},
		{name: "export failed", err: errors.New("keyring locked")},
	}

	origExporter, origDir := cookieExporter, paths.CookieDir
	t.Cleanup(func() { cookieExporter, paths.CookieDir = origExporter, origDir })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths.CookieDir = t.TempDir()

			var gotBrowser, gotPath string
			cookieExporter = func(_ context.Context, browserName string, _ []string, path string) (int, error) {
				gotBrowser, gotPath = browserName, path
				return tt.n, tt.err
			}

			c := &models.Config{CookieBrowser: "firefox"}
			exportBrowserCookies(context.Background(), c)

			want := filepath.Join(paths.CookieDir, "firefox.txt")
			if gotBrowser != "firefox" || gotPath != want {
				t.Fatalf("exporter called with (%q, %q), want (firefox, %q)", gotBrowser, gotPath, want)
			}
			if tt.wantFile && c.CookieFile != want {
				t.Fatalf("CookieFile = %q, want %q", c.CookieFile, want)
			}
			if !tt.wantFile && c.CookieFile != "" {
				t.Fatalf("CookieFile = %q, want empty", c.CookieFile)
			}
		})
	}
}
