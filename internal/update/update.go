// Package update brings ytdl and its fetcher to the latest published release.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"ytdl/internal/command/builder"
	command "ytdl/internal/command/execute"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	"ytdl/internal/models"
	logging "ytdl/internal/utils/logging"

	"github.com/BurntSushi/toml"
)

// PinAssetName is the release asset holding the fetcher version pin.
const PinAssetName = "ytdlp-version.toml"

// maxAssetSize bounds release downloads.
const maxAssetSize = 256 << 20

// Updater fetches the release manifest, applies the fetcher pin and replaces the running binary.
type Updater struct {
	ReleaseURL string

	runner  contracts.Runner
	client  *http.Client
	stdout  io.Writer
	stderr  io.Writer
	exePath func() (string, error)
	goos    string
	goarch  string
	rename  func(oldpath, newpath string) error
	maxSize int64
}

// New returns an Updater for the given manifest URL.
func New(releaseURL string, runner contracts.Runner) *Updater {
	return &Updater{
		ReleaseURL: releaseURL,
		runner:     runner,
		client:     &http.Client{Timeout: consts.ReleaseFetchTimeout},
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		exePath:    os.Executable,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
		rename:     os.Rename,
		maxSize:    maxAssetSize,
	}
}

// BinaryAssetName returns the release asset name for a platform.
func BinaryAssetName(goos, goarch string) string {
	name := fmt.Sprintf("%s_%s_%s", consts.ProgramName, goos, goarch)
	if goos == "windows" {
		name += ".exe"
	}
	return name
}

// Update runs every update step and joins their failures.
//
// The fetcher pin is applied on every run. The binary is only replaced when
// the release tag differs from the running version.
func (u *Updater) Update(ctx context.Context) error {
	rel, err := u.FetchRelease(ctx)
	if err != nil {
		return err
	}
	logging.I("Latest release: %s (running %s)", rel.TagName, consts.Version)

	var errs []error
	if err := u.applyPin(ctx, rel); err != nil {
		errs = append(errs, err)
	}

	if rel.TagName == consts.Version {
		logging.S("%s is already up to date", consts.ProgramName)
	} else if err := u.replaceBinary(ctx, rel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// FetchRelease downloads and decodes the release manifest.
func (u *Updater) FetchRelease(ctx context.Context) (*models.Release, error) {
	if u.ReleaseURL == "" {
		return nil, errors.New("no release URL configured")
	}
	body, err := u.get(ctx, u.ReleaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release manifest: %w", err)
	}

	var rel models.Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("failed to decode release manifest: %w", err)
	}
	if rel.TagName == "" {
		return nil, errors.New("release manifest has no tag_name")
	}
	return &rel, nil
}

// FetchPin downloads and decodes the fetcher pin asset of a release.
func (u *Updater) FetchPin(ctx context.Context, rel *models.Release) (*models.FetcherPin, error) {
	asset := findAsset(rel, PinAssetName)
	if asset == nil {
		return nil, fmt.Errorf("release %s has no %s asset", rel.TagName, PinAssetName)
	}
	body, err := u.get(ctx, asset.BrowserDownloadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", PinAssetName, err)
	}

	var pin models.FetcherPin
	if _, err := toml.Decode(string(body), &pin); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", PinAssetName, err)
	}
	if pin.Tag == "" {
		return nil, fmt.Errorf("%s has no tag", PinAssetName)
	}
	return &pin, nil
}

// applyPin moves yt-dlp to the pinned channel and tag.
func (u *Updater) applyPin(ctx context.Context, rel *models.Release) error {
	pin, err := u.FetchPin(ctx, rel)
	if err != nil {
		return err
	}
	logging.I("Updating yt-dlp to channel %q, tag %q", pin.Channel, pin.Tag)

	res := u.runner.Run(ctx, consts.DefaultYTDLPPath, builder.BuildUpdateArgs(*pin), command.RunOptions{
		Stdout: u.stdout,
		Stderr: u.stderr,
	})
	if res.SpawnErr != nil {
		return &errconsts.ExecutableNotFoundError{Name: consts.DefaultYTDLPPath, Err: res.SpawnErr}
	}
	if res.ExitCode != 0 {
		logging.Raw("yt-dlp update", res.Log)
		return fmt.Errorf("yt-dlp update exited with code %d", res.ExitCode)
	}
	logging.S("yt-dlp is now at %s", pin.Tag)
	return nil
}

// replaceBinary downloads the platform asset beside the running executable and renames it into place.
func (u *Updater) replaceBinary(ctx context.Context, rel *models.Release) error {
	name := BinaryAssetName(u.goos, u.goarch)
	asset := findAsset(rel, name)
	if asset == nil {
		logging.W("Release %s has no %s asset, skipping binary update", rel.TagName, name)
		return nil
	}

	exe, err := u.exePath()
	if err != nil {
		return fmt.Errorf("could not locate running executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	body, err := u.get(ctx, asset.BrowserDownloadURL)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(exe), consts.TempFilePattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpPath); statErr == nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(consts.PermsExecutable); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	// Windows refuses to overwrite a running executable but allows renaming it.
	var old string
	if u.goos == "windows" {
		old = exe + ".old"
		_ = os.Remove(old)
		if err := u.rename(exe, old); err != nil {
			return fmt.Errorf("failed to move aside %s: %w", exe, err)
		}
	}
	if err := u.rename(tmpPath, exe); err != nil {
		if old != "" {
			if restoreErr := u.rename(old, exe); restoreErr != nil {
				return fmt.Errorf("failed to replace %s: %w (restoring %s also failed: %v)", exe, err, old, restoreErr)
			}
		}
		return fmt.Errorf("failed to replace %s: %w", exe, err)
	}

	logging.S("Updated %s to %s", exe, rel.TagName)
	return nil
}

// get performs a GET and returns the body of a 2xx response.
func (u *Updater) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", consts.ProgramName+"/"+consts.Version)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, u.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > u.maxSize {
		return nil, fmt.Errorf("GET %s: response exceeds %d bytes", url, u.maxSize)
	}
	return body, nil
}

func findAsset(rel *models.Release, name string) *models.ReleaseAsset {
	for i := range rel.Assets {
		if rel.Assets[i].Name == name {
			return &rel.Assets[i]
		}
	}
	return nil
}
