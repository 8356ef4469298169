// Package prompt reads line answers from the terminal without blocking cancellation.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	logging "ytdl/internal/utils/logging"
)

type lineResult struct {
	text string
	err  error
}

// Prompter asks questions on out and reads answers from in.
//
// Input is read by a single background goroutine so a pending read can be
// abandoned when the context is cancelled (e.g. on Ctrl+C).
type Prompter struct {
	in    io.Reader
	out   io.Writer
	lines chan lineResult
	once  sync.Once
}

// New returns a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    in,
		out:   out,
		lines: make(chan lineResult),
	}
}

func (p *Prompter) start() {
	go func() {
		defer close(p.lines)
		reader := bufio.NewReader(p.in)
		for {
			input, err := reader.ReadString('\n')
			input = strings.TrimSpace(input)
			if err != nil {
				if input != "" {
					p.lines <- lineResult{text: input}
				}
				if !errors.Is(err, io.EOF) {
					p.lines <- lineResult{err: err}
				}
				return
			}
			p.lines <- lineResult{text: input}
		}
	}()
}

// Ask prints msg and waits for one trimmed line of input.
//
// It returns io.EOF when input is exhausted and ctx.Err() on cancellation.
func (p *Prompter) Ask(ctx context.Context, msg string) (string, error) {
	p.once.Do(p.start)

	if msg != "" {
		fmt.Fprint(p.out, msg)
	}

	select {
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if r.err != nil {
			return "", r.err
		}
		logging.D(3, "Read input %q", r.text)
		return r.text, nil

	case <-ctx.Done():
		fmt.Fprintln(p.out)
		logging.D(1, "Operation canceled during input.")
		return "", ctx.Err()
	}
}
