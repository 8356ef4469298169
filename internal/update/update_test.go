package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	command "ytdl/internal/command/execute"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	"ytdl/internal/models"
)

type recordRunner struct {
	args   [][]string
	result models.ExecResult
}

func (r *recordRunner) Run(_ context.Context, _ string, args []string, _ command.RunOptions) models.ExecResult {
	r.args = append(r.args, args)
	return r.result
}

// releaseServer serves a manifest whose assets point back at the same server.
func releaseServer(t *testing.T, tag string, withBinary bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		rel := models.Release{
			TagName: tag,
			Assets: []models.ReleaseAsset{
				{Name: PinAssetName, BrowserDownloadURL: srv.URL + "/pin"},
			},
		}
		if withBinary {
			rel.Assets = append(rel.Assets, models.ReleaseAsset{
				Name:               BinaryAssetName("linux", "amd64"),
				BrowserDownloadURL: srv.URL + "/bin",
			})
		}
		_ = json.NewEncoder(w).Encode(rel)
	})
	mux.HandleFunc("/pin", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "channel = \"stable\"\ntag = \"2024.08.06\"\n")
	})
	mux.HandleFunc("/bin", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "new-binary")
	})
	return srv
}

func newTestUpdater(t *testing.T, srv *httptest.Server, runner *recordRunner, exe string) *Updater {
	t.Helper()
	u := New(srv.URL+"/releases/latest", runner)
	u.stdout, u.stderr = &bytes.Buffer{}, &bytes.Buffer{}
	u.exePath = func() (string, error) { return exe, nil }
	u.goos, u.goarch = "linux", "amd64"
	return u
}

func TestBinaryAssetName(t *testing.T) {
	t.Parallel()

	if got := BinaryAssetName("linux", "arm64"); got != "ytdl_linux_arm64" {
		t.Errorf("got %q", got)
	}
	if got := BinaryAssetName("windows", "amd64"); got != "ytdl_windows_amd64.exe" {
		t.Errorf("got %q", got)
	}
}

func TestUpdateAppliesPinAndReplacesBinary(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, "v9.9.9", true)
	exe := filepath.Join(t.TempDir(), "ytdl")
	if err := os.WriteFile(exe, []byte("old-binary"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &recordRunner{}

	if err := newTestUpdater(t, srv, runner, exe).Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := [][]string{{"--update-to", "stable@2024.08.06"}}
	if !reflect.DeepEqual(runner.args, want) {
		t.Errorf("runner args = %v, want %v", runner.args, want)
	}

	got, err := os.ReadFile(exe)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new-binary" {
		t.Errorf("binary content = %q", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(exe))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestUpdateSkipsBinaryWhenCurrent(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, consts.Version, true)
	exe := filepath.Join(t.TempDir(), "ytdl")
	if err := os.WriteFile(exe, []byte("old-binary"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &recordRunner{}

	if err := newTestUpdater(t, srv, runner, exe).Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(runner.args) != 1 {
		t.Errorf("pin should still be applied, runner calls = %d", len(runner.args))
	}
	got, _ := os.ReadFile(exe)
	if string(got) != "old-binary" {
		t.Errorf("binary replaced although release is current")
	}
}

func TestUpdateMissingBinaryAssetIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, "v9.9.9", false)
	runner := &recordRunner{}
	exe := filepath.Join(t.TempDir(), "ytdl")

	if err := newTestUpdater(t, srv, runner, exe).Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdateReportsFetcherFailures(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, consts.Version, false)
	exe := filepath.Join(t.TempDir(), "ytdl")

	spawn := &recordRunner{result: models.ExecResult{ExitCode: consts.ExitCodeSpawnFailure, SpawnErr: errors.New("not found")}}
	err := newTestUpdater(t, srv, spawn, exe).Update(context.Background())
	var enf *errconsts.ExecutableNotFoundError
	if !errors.As(err, &enf) {
		t.Fatalf("expected ExecutableNotFoundError, got %v", err)
	}

	failing := &recordRunner{result: models.ExecResult{ExitCode: 2, Log: "boom"}}
	err = newTestUpdater(t, srv, failing, exe).Update(context.Background())
	if err == nil || !strings.Contains(err.Error(), "exited with code 2") {
		t.Fatalf("expected exit code error, got %v", err)
	}
}

func TestFetchReleaseErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/garbage":
			_, _ = io.WriteString(w, "not json")
		case "/notag":
			_, _ = io.WriteString(w, `{"assets":[]}`)
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/missing", "/garbage", "/notag"} {
		u := New(srv.URL+path, &recordRunner{})
		if _, err := u.FetchRelease(context.Background()); err == nil {
			t.Errorf("%s: expected error", path)
		}
	}

	if _, err := New("", &recordRunner{}).FetchRelease(context.Background()); err == nil {
		t.Errorf("empty URL: expected error")
	}
}

func TestReplaceBinaryRestoresOnFailedSwap(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, "v9.9.9", false)
	exe := filepath.Join(t.TempDir(), "ytdl.exe")
	if err := os.WriteFile(exe, []byte("old-binary"), 0o755); err != nil {
		t.Fatal(err)
	}

	u := newTestUpdater(t, srv, &recordRunner{}, exe)
	u.goos = "windows"
	calls := 0
	u.rename = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			return errors.New("sharing violation")
		}
		return os.Rename(oldpath, newpath)
	}

	rel := &models.Release{
		TagName: "v9.9.9",
		Assets: []models.ReleaseAsset{
			{Name: BinaryAssetName("windows", "amd64"), BrowserDownloadURL: srv.URL + "/bin"},
		},
	}
	err := u.replaceBinary(context.Background(), rel)
	if err == nil || !strings.Contains(err.Error(), "sharing violation") {
		t.Fatalf("expected swap error, got %v", err)
	}

	got, err := os.ReadFile(exe)
	if err != nil {
		t.Fatalf("executable missing after failed swap: %v", err)
	}
	if string(got) != "old-binary" {
		t.Errorf("binary content = %q, want old-binary", got)
	}
	if _, err := os.Stat(exe + ".old"); !os.IsNotExist(err) {
		t.Errorf(".old left behind after restore")
	}
}

func TestUpdateRejectsOversizedBinary(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, "v9.9.9", true)
	exe := filepath.Join(t.TempDir(), "ytdl")
	if err := os.WriteFile(exe, []byte("old-binary"), 0o755); err != nil {
		t.Fatal(err)
	}

	u := newTestUpdater(t, srv, &recordRunner{}, exe)
	rel, err := u.FetchRelease(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	u.maxSize = int64(len("new-binary")) - 1

	err = u.replaceBinary(context.Background(), rel)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", err)
	}

	got, _ := os.ReadFile(exe)
	if string(got) != "old-binary" {
		t.Errorf("binary replaced by truncated download: %q", got)
	}
}

func TestGetAcceptsBodyAtLimit(t *testing.T) {
	t.Parallel()

	srv := releaseServer(t, "v9.9.9", true)
	u := newTestUpdater(t, srv, &recordRunner{}, "")
	u.maxSize = int64(len("new-binary"))

	body, err := u.get(context.Background(), srv.URL+"/bin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(body) != "new-binary" {
		t.Errorf("body = %q", body)
	}
}
