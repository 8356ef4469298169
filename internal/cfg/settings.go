package cfg

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"ytdl/internal/domain/keys"
	"ytdl/internal/models"

	"github.com/spf13/viper"
)

const maxDebugLevel = 5

// validateSettings checks flag, env and config file values before any command runs.
func validateSettings() error {
	if strings.TrimSpace(viper.GetString(keys.StoreDir)) == "" {
		return fmt.Errorf("%s must not be empty", keys.StoreDir)
	}
	if strings.TrimSpace(viper.GetString(keys.OutputDir)) == "" {
		return fmt.Errorf("%s must not be empty", keys.OutputDir)
	}
	if strings.TrimSpace(viper.GetString(keys.YTDLPPath)) == "" {
		return fmt.Errorf("%s must not be empty", keys.YTDLPPath)
	}

	if n := viper.GetInt(keys.Concurrency); n < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", keys.Concurrency, n)
	}
	if n := viper.GetInt(keys.ConcurrentFragments); n < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", keys.ConcurrentFragments, n)
	}
	if n := viper.GetInt(keys.DebugLevel); n < 0 || n > maxDebugLevel {
		return fmt.Errorf("%s must be between 0 and %d, got %d", keys.DebugLevel, maxDebugLevel, n)
	}

	if f := viper.GetString(keys.CookieFile); f != "" {
		info, err := os.Stat(f)
		if err != nil {
			return fmt.Errorf("cookie file %q: %w", f, err)
		}
		if info.IsDir() {
			return fmt.Errorf("cookie file %q is a directory", f)
		}
	}

	for _, k := range []string{keys.NotifyURL, keys.ReleaseURL} {
		if v := viper.GetString(k); v != "" {
			if err := validateHTTPURL(v); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// BuildConfig reads the resolved settings into a Config. It is the only reader of Viper.
func BuildConfig() *models.Config {
	return &models.Config{
		StoreDir:            viper.GetString(keys.StoreDir),
		OutputDir:           viper.GetString(keys.OutputDir),
		YTDLPPath:           viper.GetString(keys.YTDLPPath),
		YTDLPArgs:           viper.GetStringSlice(keys.YTDLPArgs),
		ConcurrentFragments: viper.GetInt(keys.ConcurrentFragments),
		Concurrency:         viper.GetInt(keys.Concurrency),
		SkipExisting:        viper.GetBool(keys.SkipExisting),
		CookieFile:          viper.GetString(keys.CookieFile),
		CookieBrowser:       viper.GetString(keys.CookieBrowser),
		NotifyURL:           viper.GetString(keys.NotifyURL),
		HistoryDB:           viper.GetString(keys.HistoryDB),
		ReleaseURL:          viper.GetString(keys.ReleaseURL),
		ServeAddr:           viper.GetString(keys.ServeAddr),
	}
}
