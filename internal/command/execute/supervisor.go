// Package command supervises external fetcher processes.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"ytdl/internal/domain/consts"
	"ytdl/internal/models"
	logging "ytdl/internal/utils/logging"
)

// DefaultMaxLine is the longest line kept whole; longer lines are cut.
const DefaultMaxLine = 1024 * 1024

const readBufferSize = 64 * 1024

// RunOptions controls echoing and capture for one invocation.
type RunOptions struct {
	Stdout io.Writer // Echo target for stdout lines, nil to suppress.
	Stderr io.Writer // Echo target for stderr lines, nil to suppress.

	// Noise reports lines to capture without echoing. Lines starting with
	// one of consts.NoiseMarkers are always treated as noise.
	Noise func(line string) bool

	// MaxLine overrides DefaultMaxLine. Info JSON dumps need more.
	MaxLine int

	Dir string
	Env []string
}

// Supervisor runs external executables and captures their output.
type Supervisor struct {
	// Path overrides, keyed by executable name.
	paths map[string]string
}

// NewSupervisor returns a Supervisor that resolves "yt-dlp" to ytdlpPath.
func NewSupervisor(ytdlpPath string) *Supervisor {
	s := &Supervisor{paths: make(map[string]string)}
	if ytdlpPath != "" {
		s.paths[consts.DefaultYTDLPPath] = ytdlpPath
	}
	return s
}

// Run starts name with args and blocks until it exits.
//
// Both pipes are drained concurrently so a child writing heavily to one
// stream never stalls. If the process cannot be started, the result carries
// exit code 127 and SpawnErr, and no stream is read.
func (s *Supervisor) Run(ctx context.Context, name string, args []string, opts RunOptions) models.ExecResult {
	path := name
	if p, ok := s.paths[name]; ok {
		path = p
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	logging.D(2, "Executing command: %s", cmd.String())

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return spawnFailure(path, fmt.Errorf("setup stdout pipe: %w", err))
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return spawnFailure(path, fmt.Errorf("setup stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return spawnFailure(path, err)
	}

	maxLine := opts.MaxLine
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}

	var (
		mu     sync.Mutex
		log    strings.Builder
		stdout []string
		wg     sync.WaitGroup
	)

	drain := func(r io.Reader, echo io.Writer, isStdout bool) {
		defer wg.Done()

		err := readLines(r, maxLine, func(line string, cut int) {
			mu.Lock()
			defer mu.Unlock()

			log.WriteString(line)
			log.WriteByte('\n')
			if cut > 0 {
				fmt.Fprintf(&log, "[ytdl] line truncated: %d bytes over the %d byte limit discarded\n", cut, maxLine)
			}
			if isStdout {
				stdout = append(stdout, line)
			}
			if echo != nil && !isNoise(line, opts.Noise) {
				_, _ = io.WriteString(echo, line+"\n")
			}
		})
		if err != nil {
			// Keep reading so the child is never blocked on a full pipe.
			n, _ := io.Copy(io.Discard, r)
			mu.Lock()
			fmt.Fprintf(&log, "[ytdl] output read failed: %v (%d bytes discarded)\n", err, n)
			mu.Unlock()
		}
	}

	wg.Add(2)
	go drain(stdoutPipe, opts.Stdout, true)
	go drain(stderrPipe, opts.Stderr, false)
	wg.Wait()

	res := models.ExecResult{}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			if res.ExitCode < 0 {
				// Killed by a signal, e.g. on context cancellation.
				res.ExitCode = 1
			}
		} else {
			res.ExitCode = 1
			fmt.Fprintf(&log, "[ytdl] wait failed: %v\n", err)
		}
	}
	if ctx.Err() != nil && res.ExitCode == 0 {
		res.ExitCode = 1
	}

	res.Log = log.String()
	res.Stdout = stdout
	logging.D(2, "Command %q exited with code %d", path, res.ExitCode)
	return res
}

// spawnFailure builds the result for a process that never started.
func spawnFailure(path string, err error) models.ExecResult {
	return models.ExecResult{
		ExitCode: consts.ExitCodeSpawnFailure,
		Log:      fmt.Sprintf("failed to start %q: %v\n", path, err),
		SpawnErr: err,
	}
}

// isNoise returns true if a line should be captured but not echoed.
func isNoise(line string, extra func(string) bool) bool {
	for _, m := range consts.NoiseMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return extra != nil && extra(line)
}

// readLines calls emit for every line of r, splitting on LF or CR so progress
// lines arrive one at a time. Empty lines between LFs are kept; a CRLF pair and
// runs of CR count as one terminator.
//
// Lines longer than maxLine are cut at maxLine bytes. The bytes dropped from a
// line are passed to emit as cut, and reading continues with the next line.
func readLines(r io.Reader, maxLine int, emit func(line string, cut int)) error {
	br := bufio.NewReaderSize(r, readBufferSize)

	var (
		line   []byte
		cut    int
		prevCR bool
	)
	flush := func() {
		emit(string(line), cut)
		line = line[:0]
		cut = 0
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			if len(line) > 0 || cut > 0 {
				flush()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch b {
		case '\n':
			if !(prevCR && len(line) == 0 && cut == 0) {
				flush()
			}
			prevCR = false
		case '\r':
			if len(line) > 0 || cut > 0 {
				flush()
			}
			prevCR = true
		default:
			prevCR = false
			if len(line) >= maxLine {
				cut++
				continue
			}
			line = append(line, b)
		}
	}
}

// IsJSONLine reports lines holding a JSON document, used to keep info dumps off the console.
func IsJSONLine(line string) bool {
	return strings.HasPrefix(line, "{")
}
