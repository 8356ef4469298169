package consts

// External fetcher defaults.
const (
	DefaultYTDLPPath           = "yt-dlp"
	DefaultConcurrentFragments = 8
	DefaultConcurrency         = 4
	DefaultMergeFormat         = "mkv"
	DefaultSubLangs            = "all,-live_chat"
)

// Audio format IDs paired with the selected video variant.
const (
	AudioFormatM4A  = "140"
	AudioFormatOpus = "251"
)

// Output filename templates (yt-dlp placeholder syntax).
const (
	TemplateSDR         = "%(title)s.%(id)s.%(ext)s"
	TemplateHDR         = "%(title)s.HDR.%(id)s.%(ext)s"
	TemplatePlaylistDir = "%(playlist)s"
)

// Snapshot store layout.
const (
	SnapshotSuffix   = ".info.json"
	CorruptSuffix    = ".corrupt"
	WorkDirName      = ".work"
	LockDirSuffix    = ".lock"
	LockOwnerFile    = "owner.json"
	TempFilePattern  = ".ytdl-tmp-*"
	MaxTitleFilename = 120
)

// Dynamic range values reported by yt-dlp.
const (
	DynamicRangeSDR = "SDR"
)

// NoiseMarkers are line prefixes captured but never echoed to the console.
var NoiseMarkers = []string{"[debug]"}

// PremiumMarker is the format note substring flagging a high-bitrate premium rendition.
const PremiumMarker = "Premium"
