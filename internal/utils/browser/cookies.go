// Package browser exports local browser cookies for the fetcher.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"ytdl/internal/domain/consts"
	"ytdl/internal/parsing"
	logging "ytdl/internal/utils/logging"

	"github.com/browserutils/kooky"
	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"
)

// DefaultSites are the sites whose cookies are exported when none are given.
var DefaultSites = []string{"https://www.youtube.com", "https://accounts.google.com"}

const netscapeHeader = "# Netscape HTTP Cookie File\n# https://curl.haxx.se/rfc/cookie_spec.html\n# This is a generated file! Do not edit.\n\n"

// ExportCookies reads valid cookies for sites from local browsers and writes
// them to path as a Netscape cookie file, which yt-dlp reads via --cookies.
//
// browserName limits the export to one browser ("chrome", "firefox"...);
// empty or "all" reads every browser kooky finds. It returns the number of
// cookies written; zero cookies writes no file.
func ExportCookies(ctx context.Context, browserName string, sites []string, path string) (int, error) {
	return exportFromStores(ctx, kooky.FindAllCookieStores(), browserName, sites, path)
}

// exportFromStores is ExportCookies over a given set of cookie stores. Every store is closed.
func exportFromStores(ctx context.Context, stores []kooky.CookieStore, browserName string, sites []string, path string) (int, error) {
	defer func() {
		for _, store := range stores {
			if err := store.Close(); err != nil {
				logging.D(2, "Failed to close %s cookie store: %v", store.Browser(), err)
			}
		}
	}()

	if len(sites) == 0 {
		sites = DefaultSites
	}

	domains := make([]string, 0, len(sites))
	for _, site := range sites {
		domain, err := parsing.RegistrableDomain(site)
		if err != nil {
			return 0, fmt.Errorf("error extracting base domain in cookie export: %w", err)
		}
		domains = append(domains, domain)
	}

	var all []*http.Cookie
	for _, store := range selectStores(stores, browserName) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		all = append(all, readStore(store, domains)...)
	}
	all = dedupe(all)

	if len(all) == 0 {
		logging.W("No %s cookies found for %v, continuing without cookies", browserLabel(browserName), sites)
		return 0, nil
	}

	var buf bytes.Buffer
	if err := WriteNetscape(&buf, all); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), consts.PermsCookieDir); err != nil {
		return 0, fmt.Errorf("failed to create cookie directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), consts.PermsCookieFile); err != nil {
		return 0, fmt.Errorf("failed to write cookie file %q: %w", path, err)
	}

	logging.I("Exported %d %s cookies to %q", len(all), browserLabel(browserName), path)
	return len(all), nil
}

// selectStores keeps the stores of one browser, or all of them for "" and "all".
func selectStores(stores []kooky.CookieStore, browserName string) []kooky.CookieStore {
	want := strings.ToLower(strings.TrimSpace(browserName))
	if want == "" || want == "all" {
		return stores
	}
	out := make([]kooky.CookieStore, 0, len(stores))
	for _, store := range stores {
		if strings.EqualFold(store.Browser(), want) {
			out = append(out, store)
		}
	}
	return out
}

// readStore loads valid cookies for each registrable domain and its subdomains from one store.
func readStore(store kooky.CookieStore, domains []string) []*http.Cookie {
	var out []*http.Cookie
	for _, domain := range domains {
		logging.D(2, "Attempting to read %s cookies from %s", domain, store.Browser())

		cookies, err := store.ReadCookies(kooky.Valid, kooky.DomainHasSuffix(domain))
		if err != nil {
			logging.D(2, "Failed to read cookies from %s: %v", store.Browser(), err)
			continue
		}
		for _, c := range cookies {
			if c == nil {
				continue
			}
			hc := c.Cookie
			out = append(out, &hc)
		}
		logging.D(1, "Found %d %s cookies in %s", len(cookies), domain, store.Browser())
	}
	return out
}

// WriteNetscape writes cookies in the Netscape cookie file format.
func WriteNetscape(w io.Writer, cookies []*http.Cookie) error {
	if _, err := io.WriteString(w, netscapeHeader); err != nil {
		return err
	}

	for _, c := range cookies {
		domain := c.Domain
		if domain == "" {
			continue
		}

		includeSub := "FALSE"
		if strings.HasPrefix(domain, ".") {
			includeSub = "TRUE"
		}
		secure := "FALSE"
		if c.Secure {
			secure = "TRUE"
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		var expires int64
		if !c.Expires.IsZero() {
			expires = c.Expires.Unix()
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, includeSub, path, secure, expires, c.Name, c.Value); err != nil {
			return err
		}
	}
	return nil
}

// dedupe keeps the last cookie per domain, path and name, in a stable order.
func dedupe(cookies []*http.Cookie) []*http.Cookie {
	byKey := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		byKey[c.Domain+"|"+c.Path+"|"+c.Name] = c
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*http.Cookie, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func browserLabel(name string) string {
	if name == "" || strings.EqualFold(name, "all") {
		return "browser"
	}
	return name
}
