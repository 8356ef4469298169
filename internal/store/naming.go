package store

import (
	"strings"
	"unicode/utf8"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/regex"
	"ytdl/internal/models"
)

// SnapshotFileName returns "<sanitized title>.<id>.info.json" for a snapshot.
func SnapshotFileName(snap *models.Snapshot) string {
	title := sanitize(snap.Title)
	if title == "" {
		title = "untitled"
	}
	title = truncateRunes(title, consts.MaxTitleFilename)

	id := sanitize(snap.ID)
	if id == "" {
		id = "noid"
	}
	return title + "." + id + consts.SnapshotSuffix
}

// sanitize strips path separators, control characters and other characters
// unsafe in file names.
func sanitize(s string) string {
	s = regex.ExtraSpacesCompile().ReplaceAllString(s, " ")
	s = regex.InvalidCharsCompile().ReplaceAllString(s, "_")
	s = strings.TrimSpace(s)
	return strings.Trim(s, ".")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
