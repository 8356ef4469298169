package parsing

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// HyphenateYyyyMmDd simply hyphenates yyyymmdd date values for display.
func HyphenateYyyyMmDd(d string) string {
	d = strings.ReplaceAll(d, " ", "")
	d = strings.ReplaceAll(d, "-", "")
	if len(d) < 8 {
		return d
	}

	return d[0:4] + "-" + d[4:6] + "-" + d[6:8]
}

// ParseUploadDate parses a snapshot's upload date.
//
// yt-dlp reports YYYYMMDD, which is handled directly; other layouts go through dateparse.
func ParseUploadDate(d string) (time.Time, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(d) == 8 {
		if t, err := time.Parse("20060102", d); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseAny(d)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", d)
	}
	return t, nil
}

// ParseWordDate parses and formats the inputted word date (e.g. Jan 2nd, 2006).
func ParseWordDate(dateString string) (string, error) {
	t, err := dateparse.ParseAny(dateString)
	if err != nil {
		return "", fmt.Errorf("unable to parse date: %s", dateString)
	}
	return t.Format("2006-01-02"), nil
}
