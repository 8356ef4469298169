package command

import (
	"bytes"
	"context"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunHeavyOneSidedOutput(t *testing.T) {
	t.Parallel()
	requireShell(t)

	// 50k lines on stderr alone would fill any pipe buffer many times over.
	script := `i=0; while [ $i -lt 50000 ]; do echo "progress line $i" 1>&2; i=$((i+1)); done; echo done`

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := NewSupervisor("").Run(ctx, "sh", []string{"-c", script}, RunOptions{})
	if res.SpawnErr != nil {
		t.Fatalf("spawn: %v", res.SpawnErr)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if got := strings.Count(res.Log, "progress line "); got != 50000 {
		t.Fatalf("captured %d stderr lines, want 50000", got)
	}
	if !strings.Contains(res.Log, "progress line 49999\n") {
		t.Fatalf("last line missing, output truncated")
	}
	if len(res.Stdout) != 1 || res.Stdout[0] != "done" {
		t.Fatalf("stdout = %v", res.Stdout)
	}
}

func TestRunExitCodeAndEcho(t *testing.T) {
	t.Parallel()
	requireShell(t)

	var out, errOut bytes.Buffer
	script := `echo "[download] 10%"; printf 'a\rb\r'; echo "[debug] noisy"; echo "ERROR: Private video" 1>&2; exit 3`

	res := NewSupervisor("").Run(context.Background(), "sh", []string{"-c", script}, RunOptions{
		Stdout: &out,
		Stderr: &errOut,
	})

	if res.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", res.ExitCode)
	}
	if res.OK() {
		t.Fatalf("non-zero exit reported OK")
	}
	if strings.Contains(out.String(), "[debug]") {
		t.Fatalf("noise line was echoed: %q", out.String())
	}
	if !strings.Contains(res.Log, "[debug] noisy") {
		t.Fatalf("noise line not captured: %q", res.Log)
	}
	if !strings.Contains(out.String(), "a\nb\n") {
		t.Fatalf("carriage returns should split lines: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "ERROR: Private video") {
		t.Fatalf("stderr not echoed: %q", errOut.String())
	}
}

func TestRunCustomNoiseFilter(t *testing.T) {
	t.Parallel()
	requireShell(t)

	var out bytes.Buffer
	res := NewSupervisor("").Run(context.Background(), "sh", []string{"-c", `echo '{"id":"x"}'; echo visible`}, RunOptions{
		Stdout: &out,
		Noise:  IsJSONLine,
	})
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if out.String() != "visible\n" {
		t.Fatalf("echo = %q", out.String())
	}
	if len(res.Stdout) != 2 || res.Stdout[0] != `{"id":"x"}` {
		t.Fatalf("stdout capture = %v", res.Stdout)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	t.Parallel()

	res := NewSupervisor("/nonexistent/yt-dlp-missing").Run(context.Background(), "yt-dlp", []string{"--version"}, RunOptions{})
	if res.SpawnErr == nil {
		t.Fatalf("expected spawn error")
	}
	if res.ExitCode != 127 {
		t.Fatalf("exit code = %d, want 127", res.ExitCode)
	}
	if !strings.Contains(res.Log, "yt-dlp-missing") {
		t.Fatalf("log should name the executable: %q", res.Log)
	}
}

func TestRunContextCancelKillsChild(t *testing.T) {
	t.Parallel()
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := NewSupervisor("").Run(ctx, "sh", []string{"-c", "exec sleep 30"}, RunOptions{})
	if time.Since(start) > 10*time.Second {
		t.Fatalf("child was not killed on cancel")
	}
	if res.ExitCode == 0 {
		t.Fatalf("cancelled run reported exit 0")
	}
}

func TestRunOverlongLineKeepsFollowingLines(t *testing.T) {
	t.Parallel()
	requireShell(t)

	script := `head -c 200000 /dev/zero | tr '\0' 'x'; echo; echo "ERROR: [youtube] abc: Private video"; echo after; echo tail 1>&2`
	res := NewSupervisor("").Run(context.Background(), "sh", []string{"-c", script}, RunOptions{MaxLine: 64 * 1024})
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if !strings.Contains(res.Log, "line truncated") {
		t.Fatalf("expected truncation note in log")
	}
	for _, want := range []string{"ERROR: [youtube] abc: Private video\n", "after\n", "tail\n"} {
		if !strings.Contains(res.Log, want) {
			t.Errorf("log lost %q after the overlong line", want)
		}
	}
	if len(res.Stdout) != 3 {
		t.Fatalf("stdout lines = %d, want 3", len(res.Stdout))
	}
	if got := len(res.Stdout[0]); got != 64*1024 {
		t.Errorf("overlong line kept %d bytes, want %d", got, 64*1024)
	}
	if res.Stdout[2] != "after" {
		t.Errorf("last stdout line = %q", res.Stdout[2])
	}
}

func TestRunKeepsBlankLines(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res := NewSupervisor("").Run(context.Background(), "sh", []string{"-c", `printf 'a\n\nb\r\nc\r\rd\n'`}, RunOptions{})
	if want := "a\n\nb\nc\nd\n"; res.Log != want {
		t.Fatalf("log = %q, want %q", res.Log, want)
	}
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		max   int
		lines []string
		cuts  []int
	}{
		{"lf", "a\nb\n", 10, []string{"a", "b"}, []int{0, 0}},
		{"no trailing newline", "a\nb", 10, []string{"a", "b"}, []int{0, 0}},
		{"blank lines kept", "a\n\n\nb\n", 10, []string{"a", "", "", "b"}, []int{0, 0, 0, 0}},
		{"crlf is one break", "a\r\nb\r\n", 10, []string{"a", "b"}, []int{0, 0}},
		{"cr progress", "1%\r2%\r\r3%\n", 10, []string{"1%", "2%", "3%"}, []int{0, 0, 0}},
		{"overlong cut", "abcdefgh\nok\n", 3, []string{"abc", "ok"}, []int{5, 0}},
		{"overlong at eof", "abcdef", 4, []string{"abcd"}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var lines []string
			var cuts []int
			err := readLines(strings.NewReader(tt.input), tt.max, func(line string, cut int) {
				lines = append(lines, line)
				cuts = append(cuts, cut)
			})
			if err != nil {
				t.Fatalf("readLines: %v", err)
			}
			if !reflect.DeepEqual(lines, tt.lines) {
				t.Errorf("lines = %q, want %q", lines, tt.lines)
			}
			if !reflect.DeepEqual(cuts, tt.cuts) {
				t.Errorf("cuts = %v, want %v", cuts, tt.cuts)
			}
		})
	}
}
