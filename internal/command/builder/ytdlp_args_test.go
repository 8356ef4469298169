package builder

import (
	"path/filepath"
	"slices"
	"testing"
	"ytdl/internal/models"
)

func valueAfter(args []string, flag string) (string, bool) {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return "", false
	}
	return args[i+1], true
}

func TestBuildMetadataArgs(t *testing.T) {
	t.Parallel()

	single := BuildMetadataArgs(MetadataOptions{
		URL:         "https://www.youtube.com/watch?v=abc&list=PL1",
		SingleVideo: true,
		Common:      Common{CookieFile: "/tmp/c.txt", ExtraArgs: []string{"--proxy", "socks5://x"}},
	})
	if single[len(single)-1] != "https://www.youtube.com/watch?v=abc&list=PL1" {
		t.Fatalf("URL must be last, got %v", single)
	}
	if !slices.Contains(single, "--no-playlist") {
		t.Fatalf("single video should pass --no-playlist: %v", single)
	}
	if !slices.Contains(single, "--dump-json") || !slices.Contains(single, "--skip-download") {
		t.Fatalf("metadata mode flags missing: %v", single)
	}
	if v, _ := valueAfter(single, "--cookies"); v != "/tmp/c.txt" {
		t.Fatalf("cookies = %q", v)
	}
	if v, _ := valueAfter(single, "--proxy"); v != "socks5://x" {
		t.Fatalf("extra args not appended: %v", single)
	}

	list := BuildMetadataArgs(MetadataOptions{URL: "https://www.youtube.com/playlist?list=PL1"})
	if slices.Contains(list, "--no-playlist") {
		t.Fatalf("playlist resolution must not pass --no-playlist: %v", list)
	}
	if slices.Contains(list, "--cookies") {
		t.Fatalf("no cookie file configured: %v", list)
	}
}

func TestBuildTransferArgs(t *testing.T) {
	t.Parallel()

	args := BuildTransferArgs(TransferOptions{
		InfoJSON:     "/store/.work/x.info.json",
		Format:       "137+140",
		OutputDir:    "/videos",
		InCollection: true,
	})

	checks := map[string]string{
		"--load-info-json":       "/store/.work/x.info.json",
		"-f":                     "137+140",
		"--merge-output-format":  "mkv",
		"--concurrent-fragments": "8",
		"-o":                     filepath.Join("/videos", "%(playlist)s", "%(title)s.%(id)s.%(ext)s"),
	}
	for flag, want := range checks {
		if got, ok := valueAfter(args, flag); !ok || got != want {
			t.Errorf("%s = %q, want %q", flag, got, want)
		}
	}
	for _, flag := range []string{"--embed-subs", "--embed-thumbnail", "--embed-metadata", "--no-post-overwrites", "--no-playlist"} {
		if !slices.Contains(args, flag) {
			t.Errorf("missing %s", flag)
		}
	}
}

func TestOutputTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hdr, coll bool
		want      string
	}{
		{false, false, filepath.Join("out", "%(title)s.%(id)s.%(ext)s")},
		{true, false, filepath.Join("out", "%(title)s.HDR.%(id)s.%(ext)s")},
		{true, true, filepath.Join("out", "%(playlist)s", "%(title)s.HDR.%(id)s.%(ext)s")},
	}
	for _, tt := range tests {
		if got := OutputTemplate("out", tt.hdr, tt.coll); got != tt.want {
			t.Errorf("OutputTemplate(hdr=%v, coll=%v) = %q, want %q", tt.hdr, tt.coll, got, tt.want)
		}
	}
}

func TestBuildUpdateArgs(t *testing.T) {
	t.Parallel()

	got := BuildUpdateArgs(models.FetcherPin{Channel: "stable", Tag: "2024.12.13"})
	if !slices.Equal(got, []string{"--update-to", "stable@2024.12.13"}) {
		t.Fatalf("got %v", got)
	}
	got = BuildUpdateArgs(models.FetcherPin{Tag: "2024.12.13"})
	if !slices.Equal(got, []string{"--update-to", "2024.12.13"}) {
		t.Fatalf("got %v", got)
	}
}
