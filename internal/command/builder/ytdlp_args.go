// Package builder assembles yt-dlp argument lists.
package builder

import (
	"path/filepath"
	"strconv"
	"ytdl/internal/domain/consts"
	"ytdl/internal/models"
	logging "ytdl/internal/utils/logging"
)

// Common holds the arguments shared by every yt-dlp invocation.
type Common struct {
	CookieFile string   // Netscape cookie file passed with --cookies.
	ExtraArgs  []string // User-supplied arguments, appended before the target.
}

// MetadataOptions configures a metadata-only invocation.
type MetadataOptions struct {
	Common
	URL string

	// SingleVideo adds --no-playlist, so a watch URL carrying a list
	// parameter still resolves to one snapshot.
	SingleVideo bool
}

// TransferOptions configures one transfer of a selected variant.
type TransferOptions struct {
	Common
	InfoJSON            string // Working copy passed to --load-info-json.
	Format              string // The -f expression.
	OutputDir           string
	HDR                 bool
	InCollection        bool
	ConcurrentFragments int
}

// PathProbeOptions configures a dry run which prints a target's final path.
type PathProbeOptions struct {
	Common
	InfoJSON     string
	OutputDir    string
	HDR          bool
	InCollection bool
}

// BuildMetadataArgs returns the arguments to dump info JSON for a URL, one document per line.
func BuildMetadataArgs(o MetadataOptions) []string {
	args := []string{"--skip-download", "--dump-json", "--encoding", "utf-8"}
	if o.SingleVideo {
		args = append(args, "--no-playlist")
	}
	args = appendCommon(args, o.Common)
	args = append(args, o.URL)

	logging.D(3, "Built metadata argument list: %v", args)
	return args
}

// BuildTransferArgs returns the arguments to fetch and merge one selected variant.
func BuildTransferArgs(o TransferOptions) []string {
	fragments := o.ConcurrentFragments
	if fragments <= 0 {
		fragments = consts.DefaultConcurrentFragments
	}

	args := []string{
		"--load-info-json", o.InfoJSON,
		"--embed-subs",
		"--sub-langs", consts.DefaultSubLangs,
		"--embed-thumbnail",
		"--embed-metadata",
		"--merge-output-format", consts.DefaultMergeFormat,
		"--remux-video", consts.DefaultMergeFormat,
		"--no-playlist",
		"--encoding", "utf-8",
		"--concurrent-fragments", strconv.Itoa(fragments),
		"--no-post-overwrites",
		"-f", o.Format,
		"-o", OutputTemplate(o.OutputDir, o.HDR, o.InCollection),
	}
	args = appendCommon(args, o.Common)

	logging.D(3, "Built transfer argument list: %v", args)
	return args
}

// BuildPathProbeArgs returns the arguments to print the output path a transfer would use.
func BuildPathProbeArgs(o PathProbeOptions) []string {
	args := []string{
		"--load-info-json", o.InfoJSON,
		"--encoding", "utf-8",
		"--print", OutputTemplate(o.OutputDir, o.HDR, o.InCollection),
	}
	args = appendCommon(args, o.Common)

	logging.D(3, "Built path probe argument list: %v", args)
	return args
}

// BuildUpdateArgs returns the arguments to move yt-dlp to a pinned release.
func BuildUpdateArgs(pin models.FetcherPin) []string {
	target := pin.Tag
	if pin.Channel != "" {
		target = pin.Channel + "@" + pin.Tag
	}
	return []string{"--update-to", target}
}

// OutputTemplate returns the yt-dlp output template for a target.
func OutputTemplate(outputDir string, hdr, inCollection bool) string {
	name := consts.TemplateSDR
	if hdr {
		name = consts.TemplateHDR
	}
	if inCollection {
		return filepath.Join(outputDir, consts.TemplatePlaylistDir, name)
	}
	return filepath.Join(outputDir, name)
}

func appendCommon(args []string, c Common) []string {
	if c.CookieFile != "" {
		args = append(args, "--cookies", c.CookieFile)
	}
	return append(args, c.ExtraArgs...)
}
