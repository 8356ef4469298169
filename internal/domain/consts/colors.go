package consts

// Colors
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[91m"
	ColorGreen   = "\033[92m"
	ColorYellow  = "\033[93m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[96m"
	ColorDimGray = "\033[90m"
)

// Console tags, prefixed onto logging output.
const (
	RedError      string = ColorRed + "[ERROR] " + ColorReset
	YellowWarning string = ColorYellow + "[Warning] " + ColorReset
	GreenSuccess  string = ColorGreen + "[Success] " + ColorReset
	YellowDebug   string = ColorYellow + "[Debug] " + ColorReset
	BlueInfo      string = ColorCyan + "[Info] " + ColorReset
)

// ClearLine clears the current terminal line.
const ClearLine = "\r\033[K"
