package models

import (
	"encoding/json"
	"strings"
	"ytdl/internal/domain/consts"
)

// CodecFamily is the semantic video codec tag of a stream variant.
type CodecFamily string

const (
	CodecAVC   CodecFamily = "avc"
	CodecVP9   CodecFamily = "vp9"
	CodecAV1   CodecFamily = "av1"
	CodecNone  CodecFamily = "none"
	CodecOther CodecFamily = "other"
)

// StreamVariant is one encoded rendition inside a snapshot.
//
// Members yt-dlp reports that are not consumed here (url, protocol, fragments...)
// are kept in Extra so a rewritten snapshot stays loadable by yt-dlp.
type StreamVariant struct {
	FormatID     string
	VCodec       string
	Height       *int
	DynamicRange string
	TBR          float64
	FormatNote   string

	Extra   map[string]json.RawMessage
	present map[string]bool
}

func (v *StreamVariant) fields() []objectField {
	return []objectField{
		{key: "format_id", ptr: &v.FormatID, val: v.FormatID, set: v.FormatID != ""},
		{key: "vcodec", ptr: &v.VCodec, val: v.VCodec, set: v.VCodec != ""},
		{key: "height", ptr: &v.Height, val: v.Height, set: v.Height != nil},
		{key: "dynamic_range", ptr: &v.DynamicRange, val: v.DynamicRange, set: v.DynamicRange != ""},
		{key: "tbr", ptr: &v.TBR, val: v.TBR, set: v.TBR != 0},
		{key: "format_note", ptr: &v.FormatNote, val: v.FormatNote, set: v.FormatNote != ""},
	}
}

// UnmarshalJSON decodes a yt-dlp format entry.
func (v *StreamVariant) UnmarshalJSON(data []byte) error {
	*v = StreamVariant{}
	extra, present, err := splitObject(data, v.fields())
	if err != nil {
		return err
	}
	v.Extra = extra
	v.present = present
	return nil
}

// MarshalJSON encodes the variant back into a yt-dlp format entry.
func (v StreamVariant) MarshalJSON() ([]byte, error) {
	return joinObject(v.Extra, v.present, v.fields())
}

// Family returns the codec family of the video stream.
func (v StreamVariant) Family() CodecFamily {
	codec := strings.ToLower(strings.TrimSpace(v.VCodec))
	if codec == "" || codec == "none" {
		return CodecNone
	}
	base, _, _ := strings.Cut(codec, ".")
	switch base {
	case "avc1", "avc3", "avc", "h264":
		return CodecAVC
	case "vp09", "vp9", "vp9x":
		return CodecVP9
	case "av01", "av1":
		return CodecAV1
	}
	return CodecOther
}

// HasVideo returns true if the variant carries a video stream.
func (v StreamVariant) HasVideo() bool {
	return v.Family() != CodecNone
}

// IsSDR returns true for standard dynamic range variants. A missing range counts as SDR.
func (v StreamVariant) IsSDR() bool {
	return v.DynamicRange == "" || strings.EqualFold(v.DynamicRange, consts.DynamicRangeSDR)
}

// IsPremium returns true if the variant is a premium high-bitrate rendition.
func (v StreamVariant) IsPremium() bool {
	return strings.Contains(v.FormatNote, consts.PremiumMarker)
}

// Height0 returns the vertical resolution, or 0 when absent.
func (v StreamVariant) Height0() int {
	if v.Height == nil {
		return 0
	}
	return *v.Height
}
