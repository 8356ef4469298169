package models

// Release is the subset of a release-manifest entry ytdl consumes.
type Release struct {
	TagName string         `json:"tag_name"`
	Assets  []ReleaseAsset `json:"assets"`
}

// ReleaseAsset is one downloadable file attached to a release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// FetcherPin is the external fetcher version a release is tested against.
type FetcherPin struct {
	Channel string `toml:"channel"`
	Tag     string `toml:"tag"`
}
