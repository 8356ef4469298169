package consts

// Program identity.
const (
	ProgramName = "ytdl"
	EnvPrefix   = "YTDL"
)

// Version is overwritten at build time via -ldflags "-X ytdl/internal/domain/consts.Version=...".
var Version = "v0.0.0-dev"

// Session commands typed at the URL prompt.
const (
	InputExit   = "exit"
	InputUpdate = "update"
)

// Resume prompt answers.
const (
	AnswerYes = "y"
	AnswerNo  = "n"
)

// Program messages.
const (
	ResumePrompt = ColorCyan + "Continue downloading? (y/n) " + ColorReset
	URLPrompt    = ColorCyan + "URL: " + ColorReset
)

// Synthetic exit code returned when the executable could not be spawned.
const ExitCodeSpawnFailure = 127

// Exit codes of the ytdl program itself.
const (
	ExitOK    = 0
	ExitError = 1
)

// DefaultReleaseURL is the release manifest consulted by "ytdl update".
const DefaultReleaseURL = "https://api.github.com/repos/minhung1126/YTDL/releases/latest"

// DefaultHistoryLimit is the number of attempts "ytdl history" lists by default.
const DefaultHistoryLimit = 20
