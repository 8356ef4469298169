package models

import (
	"encoding/json"
	"strings"
)

// Snapshot is one persisted metadata record per queued item.
//
// Its file existing in the store is the item's pending state.
type Snapshot struct {
	ID           string
	Title        string
	WebpageURL   string
	Playlist     *string
	PlaylistID   *string
	DynamicRange string
	UploadDate   string
	Duration     float64
	Formats      []StreamVariant

	// Extra holds every member not consumed above, written back unchanged.
	Extra map[string]json.RawMessage

	// Path is the store file this snapshot was read from (not serialized).
	Path string

	present map[string]bool
}

func (s *Snapshot) fields() []objectField {
	return []objectField{
		{key: "id", ptr: &s.ID, val: s.ID, set: s.ID != ""},
		{key: "title", ptr: &s.Title, val: s.Title, set: s.Title != ""},
		{key: "webpage_url", ptr: &s.WebpageURL, val: s.WebpageURL, set: s.WebpageURL != ""},
		{key: "playlist", ptr: &s.Playlist, val: s.Playlist, set: s.Playlist != nil},
		{key: "playlist_id", ptr: &s.PlaylistID, val: s.PlaylistID, set: s.PlaylistID != nil},
		{key: "dynamic_range", ptr: &s.DynamicRange, val: s.DynamicRange, set: s.DynamicRange != ""},
		{key: "upload_date", ptr: &s.UploadDate, val: s.UploadDate, set: s.UploadDate != ""},
		{key: "duration", ptr: &s.Duration, val: s.Duration, set: s.Duration != 0},
		{key: "formats", ptr: &s.Formats, val: s.Formats, set: s.Formats != nil},
	}
}

// UnmarshalJSON decodes a yt-dlp info JSON document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = Snapshot{}
	extra, present, err := splitObject(data, s.fields())
	if err != nil {
		return err
	}
	s.Extra = extra
	s.present = present
	return nil
}

// MarshalJSON encodes the snapshot back into a yt-dlp info JSON document.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return joinObject(s.Extra, s.present, s.fields())
}

// InCollection returns true if the item belongs to a playlist or channel listing.
func (s *Snapshot) InCollection() bool {
	return s.Playlist != nil && strings.TrimSpace(*s.Playlist) != ""
}

// WithFormats returns a copy of the snapshot with its variant list replaced wholesale.
func (s *Snapshot) WithFormats(formats []StreamVariant) *Snapshot {
	c := *s
	c.Formats = formats
	if c.present != nil {
		p := make(map[string]bool, len(c.present)+1)
		for k, v := range c.present {
			p[k] = v
		}
		c.present = p
	}
	return &c
}

// Label returns a short human-readable label for console output.
func (s *Snapshot) Label() string {
	switch {
	case s.Title != "" && s.WebpageURL != "":
		return s.Title + " (" + s.WebpageURL + ")"
	case s.WebpageURL != "":
		return s.WebpageURL
	case s.Title != "":
		return s.Title
	}
	return s.ID
}
