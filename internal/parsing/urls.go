package parsing

import (
	"fmt"
	"net/url"
	"strings"
	"ytdl/internal/domain/regex"

	"golang.org/x/net/publicsuffix"
)

// Link kinds recognized in pasted text.
const (
	kindWatch    = "youtube.com/watch?v="
	kindShort    = "youtu.be/"
	kindPlaylist = "youtube.com/playlist?list="
	kindShorts   = "youtube.com/shorts/"
	kindEmbed    = "youtube.com/embed/"
)

// ExtractURLs scans free text for recognized video, shorts and playlist links.
//
// Links are rebuilt in canonical form and de-duplicated, keeping first-seen order.
func ExtractURLs(text string) []string {
	matches := regex.YouTubeURLCompile().FindAllStringSubmatch(text, -1)

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		var u string
		switch m[1] {
		case kindWatch, kindShort, kindEmbed:
			u = "https://www.youtube.com/watch?v=" + m[2]
		case kindShorts:
			u = "https://www.youtube.com/shorts/" + m[2]
		case kindPlaylist:
			u = "https://www.youtube.com/playlist?list=" + m[2]
		default:
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// ParseInputLine returns the URLs to resolve for one line of user input.
//
// Recognized links are extracted; otherwise a single token is used as-is so
// any site the fetcher supports still works.
func ParseInputLine(line string) []string {
	if urls := ExtractURLs(line); len(urls) > 0 {
		return urls
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, " \t") {
		return nil
	}
	return []string{line}
}

// IsCollectionURL returns true for URLs that may expand to many items
// (playlists, channels). Watch links carrying a list parameter are single items.
func IsCollectionURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	domain, err := RegistrableDomain(raw)
	if err != nil {
		return false
	}

	switch domain {
	case "youtube.com":
		p := u.Path
		switch {
		case p == "/playlist":
			return true
		case strings.HasPrefix(p, "/@"),
			strings.HasPrefix(p, "/channel/"),
			strings.HasPrefix(p, "/c/"),
			strings.HasPrefix(p, "/user/"):
			return true
		}
		return false
	case "youtu.be":
		return false
	}
	return u.Query().Has("list")
}

// RegistrableDomain returns the eTLD+1 of a URL's host (e.g. "youtube.com" for "m.youtube.com").
func RegistrableDomain(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in URL %q", raw)
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(host))
	if err != nil {
		return "", fmt.Errorf("could not get registrable domain of %q: %w", host, err)
	}
	return domain, nil
}
