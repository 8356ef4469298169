// Package classify maps captured fetcher logs onto ytdl's error kinds.
//
// Matching is plain substring search against phrases yt-dlp prints, so it is
// only as stable as the upstream wording.
package classify

import (
	"strings"
	"ytdl/internal/domain/regex"
	"ytdl/internal/models"
)

type rule struct {
	kind    models.ErrorKind
	phrases []string
}

// rules are checked in order; the first match wins.
var rules = []rule{
	{
		kind: models.KindPrivateVideo,
		phrases: []string{
			"Private video",
			"This video is private",
		},
	},
	{
		kind: models.KindVideoUnavailable,
		phrases: []string{
			"Video unavailable",
			"This video is not available",
			"This video has been removed",
		},
	},
	{
		kind: models.KindAgeRestricted,
		phrases: []string{
			"Sign in to confirm your age",
			"age-restricted",
			"inappropriate for some users",
		},
	},
	{
		kind: models.KindPremiumRequired,
		phrases: []string{
			"members-only",
			"Join this channel",
			"available to this channel's members",
			"requires payment",
			"YouTube Premium",
		},
	},
}

// Classify returns the kind and one-line summary for a captured log.
func Classify(log string) models.Classification {
	clean := regex.StripANSI(log)
	kind := models.KindGeneric

	for _, r := range rules {
		if containsAny(clean, r.phrases) {
			kind = r.kind
			break
		}
	}

	return models.Classification{
		Kind:    kind,
		Summary: Summary(clean),
	}
}

// Summary extracts the most meaningful line of a log: the last "ERROR:" line,
// else the last non-empty line.
func Summary(log string) string {
	lines := strings.Split(regex.StripANSI(log), "\n")

	var lastNonEmpty string
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
		if lastNonEmpty == "" {
			lastNonEmpty = line
		}
	}
	if lastNonEmpty == "" {
		return "no output captured"
	}
	return lastNonEmpty
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
