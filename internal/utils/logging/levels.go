package logging

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"ytdl/internal/domain/consts"

	"github.com/rs/zerolog"
)

// E logs an error, tagged with the calling function, file and line.
func E(f string, args ...any) string {
	return emit(consts.RedError, zerolog.ErrorLevel, format(f, args)+callerTag(2))
}

// W logs a warning.
func W(f string, args ...any) string {
	return emit(consts.YellowWarning, zerolog.WarnLevel, format(f, args))
}

// I logs an informational message.
func I(f string, args ...any) string {
	return emit(consts.BlueInfo, zerolog.InfoLevel, format(f, args))
}

// S logs a success message.
func S(f string, args ...any) string {
	return emit(consts.GreenSuccess, zerolog.InfoLevel, format(f, args))
}

// P prints a plain message.
func P(f string, args ...any) string {
	return emit("", zerolog.InfoLevel, format(f, args))
}

// D logs a debug message if the debug level is at least l.
func D(l int, f string, args ...any) string {
	if l > Level {
		return ""
	}
	return emit(consts.YellowDebug, zerolog.DebugLevel, format(f, args)+callerTag(2))
}

// callerTag builds the "[Function: x - File: y : Line: z]" suffix.
func callerTag(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = filepath.Base(fn.Name())
	}

	var b strings.Builder
	b.WriteString(" [")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Function: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(funcName)
	b.WriteString(" - ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("File: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(filepath.Base(file))
	b.WriteString(" : ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Line: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(strconv.Itoa(line))
	b.WriteString("]")
	return b.String()
}
