package models

import (
	"encoding/json"
	"testing"
)

const sampleInfo = `{
	"id": "dQw4w9WgXcQ",
	"title": "Sample",
	"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	"playlist": null,
	"upload_date": "20091025",
	"uploader": "someone",
	"requested_subtitles": {"en": {"ext": "vtt"}},
	"formats": [
		{"format_id": "140", "vcodec": "none", "acodec": "mp4a.40.2", "url": "https://a"},
		{"format_id": "137", "vcodec": "avc1.640028", "height": 1080, "dynamic_range": "SDR", "tbr": 4400.5, "url": "https://b", "fragments": [{"path": "x"}]}
	]
}`

func TestSnapshotPreservesUnknownMembers(t *testing.T) {
	var s Snapshot
	if err := json.Unmarshal([]byte(sampleInfo), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if s.ID != "dQw4w9WgXcQ" || s.Title != "Sample" {
		t.Fatalf("typed fields not decoded: %+v", s)
	}
	if len(s.Formats) != 2 || s.Formats[1].Height0() != 1080 {
		t.Fatalf("formats not decoded: %+v", s.Formats)
	}
	if s.InCollection() {
		t.Fatalf("null playlist should not count as a collection")
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if back["uploader"] != "someone" {
		t.Errorf("uploader lost: %v", back["uploader"])
	}
	if _, ok := back["requested_subtitles"]; !ok {
		t.Errorf("requested_subtitles lost")
	}
	if v, ok := back["playlist"]; !ok || v != nil {
		t.Errorf("explicit null playlist should survive, got %v (present=%v)", v, ok)
	}

	formats := back["formats"].([]any)
	second := formats[1].(map[string]any)
	if second["url"] != "https://b" {
		t.Errorf("variant url lost: %v", second["url"])
	}
	if _, ok := second["fragments"]; !ok {
		t.Errorf("variant fragments lost")
	}
	if second["tbr"] != 4400.5 {
		t.Errorf("tbr = %v", second["tbr"])
	}
}

func TestSnapshotWithFormatsLeavesOriginal(t *testing.T) {
	var s Snapshot
	if err := json.Unmarshal([]byte(sampleInfo), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	refreshed := s.WithFormats([]StreamVariant{{FormatID: "22", VCodec: "avc1"}})
	if len(s.Formats) != 2 {
		t.Fatalf("original formats changed: %d", len(s.Formats))
	}
	if len(refreshed.Formats) != 1 || refreshed.Formats[0].FormatID != "22" {
		t.Fatalf("refreshed formats = %+v", refreshed.Formats)
	}
	if refreshed.Title != s.Title {
		t.Fatalf("other fields should carry over")
	}
}

func TestSnapshotRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"x"`, `{"formats": "nope"}`} {
		var s Snapshot
		if err := json.Unmarshal([]byte(in), &s); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}

func TestVariantFamily(t *testing.T) {
	tests := map[string]CodecFamily{
		"avc1.64002a":   CodecAVC,
		"vp09.00.51.08": CodecVP9,
		"vp9":           CodecVP9,
		"av01.0.12M.10": CodecAV1,
		"none":          CodecNone,
		"":              CodecNone,
		"hev1.1.6.L150": CodecOther,
	}
	for codec, want := range tests {
		if got := (StreamVariant{VCodec: codec}).Family(); got != want {
			t.Errorf("Family(%q) = %q, want %q", codec, got, want)
		}
	}
}
