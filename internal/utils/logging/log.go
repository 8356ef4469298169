// Package logging provides ytdl's console and file logging.
//
// Console output is colored and tagged by level. Every message is also written
// to the log file as a structured zerolog entry with ANSI codes stripped.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/regex"

	"github.com/rs/zerolog"
)

var (
	// Level is the debug level; D messages at or below it are printed.
	Level int

	mu      sync.Mutex
	console io.Writer = os.Stdout
	fileLog *zerolog.Logger
	logFile *os.File
)

// SetupLogging opens (or creates) the log file and attaches the zerolog file sink.
func SetupLogging(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), consts.PermsGenericDir); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, consts.PermsLogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(f).With().Timestamp().Str("program", consts.ProgramName).Logger()

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	fileLog = &l
	return nil
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	fileLog = nil
	return err
}

// SetConsole redirects console output, returning the previous writer.
func SetConsole(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := console
	console = w
	return prev
}

// Raw writes a large block (e.g. a full subprocess log) to the log file only.
func Raw(title, body string) {
	mu.Lock()
	defer mu.Unlock()
	if fileLog == nil {
		return
	}
	fileLog.Info().Str("block", title).Msg(regex.StripANSI(body))
}

// emit prints to the console and mirrors the message into the file sink.
func emit(tag string, lvl zerolog.Level, msg string) string {
	mu.Lock()
	defer mu.Unlock()

	out := tag + msg + "\n"
	fmt.Fprint(console, out)
	if fileLog != nil {
		fileLog.WithLevel(lvl).Msg(regex.StripANSI(msg))
	}
	return out
}

func format(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
