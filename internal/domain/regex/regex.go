// Package regex compiles and caches various regex expressions.
package regex

import (
	"regexp"
	"sync"
)

var (
	ansiEscape      *regexp.Regexp
	invalidChars    *regexp.Regexp
	extraSpaces     *regexp.Regexp
	youtubeURL      *regexp.Regexp
	ansiOnce        sync.Once
	youtubeURLOnce  sync.Once
	invalidOnce     sync.Once
	extraSpacesOnce sync.Once
)

// AnsiEscapeCompile compiles regex for ANSI escape codes.
func AnsiEscapeCompile() *regexp.Regexp {
	ansiOnce.Do(func() {
		ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	})
	return ansiEscape
}

// InvalidCharsCompile compiles regex for characters invalid in filenames.
func InvalidCharsCompile() *regexp.Regexp {
	invalidOnce.Do(func() {
		invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	})
	return invalidChars
}

// ExtraSpacesCompile compiles regex for runs of whitespace.
func ExtraSpacesCompile() *regexp.Regexp {
	extraSpacesOnce.Do(func() {
		extraSpaces = regexp.MustCompile(`\s+`)
	})
	return extraSpaces
}

// YouTubeURLCompile compiles regex for recognized video, shorts, embed and playlist links in free text.
//
// Group 1 is the link kind, group 2 the ID.
func YouTubeURLCompile() *regexp.Regexp {
	youtubeURLOnce.Do(func() {
		youtubeURL = regexp.MustCompile(`(youtube\.com/watch\?v=|youtu\.be/|youtube\.com/playlist\?list=|youtube\.com/shorts/|youtube\.com/embed/)([A-Za-z0-9_-]+)`)
	})
	return youtubeURL
}

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return AnsiEscapeCompile().ReplaceAllString(s, "")
}
