package yt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

const videoJSON = `{
  "_type": "video",
  "id": "abc123",
  "title": "My Video",
  "uploader": "Someone",
  "upload_date": "20230101",
  "duration": 125.7,
  "subtitles": {
    "fr": [{"ext": "vtt", "url": "https://x/fr.vtt"}, {"ext": "json3", "url": "https://x/fr.json3"}],
    "live_chat": [{"ext": "json3", "url": "https://x/chat"}]
  },
  "automatic_captions": {
    "en-orig": [{"ext": "json3", "url": "https://x/en-orig.json3"}],
    "de": [{"ext": "json3", "url": "https://x/de.json3"}]
  }
}`

func TestParseYTDLP(t *testing.T) {
	m, err := ParseYTDLP([]byte(videoJSON))
	if err != nil {
		t.Fatalf("ParseYTDLP: %v", err)
	}
	if m.ID != "abc123" || m.Title != "My Video" || m.UploadDate != "20230101" {
		t.Fatalf("unexpected meta: %s", m)
	}
	if m.Duration != 125 {
		t.Errorf("duration = %d; want 125", m.Duration)
	}
	if len(m.ManualSubs) != 1 || m.ManualSubs[0].Lang != "fr" || m.ManualSubs[0].Source != model.SubSourceManual {
		t.Errorf("manual subs = %v", m.ManualSubs)
	}
	if len(m.AutoSubs) != 1 || m.AutoSubs[0].Lang != "en" || m.AutoSubs[0].URL != "https://x/en-orig.json3" {
		t.Errorf("auto subs = %v", m.AutoSubs)
	}
}

func TestParseYTDLPUploadDateFallback(t *testing.T) {
	tests := []struct {
		name, json, want string
	}{
		{"raw date", `{"upload_date":"20240229"}`, "20240229"},
		{"invalid date uses timestamp", `{"upload_date":"2024-02-29","timestamp":1700000000}`, "20231114"},
		{"nothing", `{}`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseYTDLP([]byte(tc.json))
			if err != nil {
				t.Fatalf("ParseYTDLP: %v", err)
			}
			if m.UploadDate != tc.want {
				t.Fatalf("UploadDate = %q; want %q", m.UploadDate, tc.want)
			}
		})
	}
}

func TestParsePlaylist(t *testing.T) {
	raw := `{"_type":"playlist","id":"PL1","title":"Sample Playlist","uploader":"Chan",
	  "entries":[
	    {"id":"v1","title":" First ","playlist_index":1},
	    {"id":"","title":"broken"},
	    {"id":"v3","title":"[Private video]"}
	  ]}`
	p, err := ParsePlaylist([]byte(raw))
	if err != nil {
		t.Fatalf("ParsePlaylist: %v", err)
	}
	if p.Title != "Sample Playlist" || len(p.Items) != 2 {
		t.Fatalf("unexpected playlist: %+v", p)
	}
	if p.Items[0] != (model.PlaylistItem{Index: 1, ID: "v1", Title: "First"}) {
		t.Errorf("item 0 = %+v", p.Items[0])
	}
	// sans playlist_index : position dans la liste
	if p.Items[1].Index != 3 || p.Items[1].ID != "v3" {
		t.Errorf("item 1 = %+v", p.Items[1])
	}

	if _, err := ParsePlaylist([]byte(videoJSON)); !errors.Is(err, ErrNotPlaylist) {
		t.Fatalf("expected ErrNotPlaylist, got %v", err)
	}
	if _, err := ParsePlaylist([]byte("not json")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestBuildArgs(t *testing.T) {
	c := NewYtDlpConfig(false)
	args := c.BuildArgs("URL")
	want := []string{"--no-config", "-j", "--skip-download", "--no-warnings", "--no-progress", "--no-update", "URL"}
	if !slices.Equal(args, want) {
		t.Fatalf("BuildArgs = %v; want %v", args, want)
	}

	c = NewYtDlpConfig(true)
	args = c.BuildPlaylistArgs("URL")
	want = []string{"--no-config", "--flat-playlist", "-J", "--skip-download", "--no-progress", "--no-update", "URL"}
	if !slices.Equal(args, want) {
		t.Fatalf("BuildPlaylistArgs = %v; want %v", args, want)
	}
}

func TestSplitOutput(t *testing.T) {
	out := "WARNING: something odd\n\n{\"id\":\"x\"}\n"
	raw, err := splitOutput([]byte(out))
	if err != nil {
		t.Fatalf("splitOutput: %v", err)
	}
	if string(raw.JSON) != `{"id":"x"}` {
		t.Errorf("JSON = %s", raw.JSON)
	}
	if len(raw.Warnings) != 1 || !strings.HasPrefix(raw.Warnings[0], "WARNING") {
		t.Errorf("warnings = %v", raw.Warnings)
	}

	if _, err := splitOutput([]byte("ERROR: nope\n")); err == nil {
		t.Fatal("expected an error without JSON")
	}
}

func TestURLHelpers(t *testing.T) {
	tests := []struct {
		url              string
		youtube, playlst bool
	}{
		{"https://www.youtube.com/watch?v=abc", true, false},
		{"https://www.youtube.com/watch?v=abc&list=PL1", true, true},
		{"https://youtube.com/playlist?list=PL1", true, true},
		{"https://youtu.be/abc", true, false},
		{"https://example.com/watch?v=abc&list=PL1", false, false},
	}
	for _, tc := range tests {
		if got := IsYouTubeURL(tc.url); got != tc.youtube {
			t.Errorf("IsYouTubeURL(%q) = %v", tc.url, got)
		}
		if got := IsPlaylistURL(tc.url); got != tc.playlst {
			t.Errorf("IsPlaylistURL(%q) = %v", tc.url, got)
		}
	}
	if got := VideoURL("a b"); got != "https://www.youtube.com/watch?v=a+b" {
		t.Errorf("VideoURL = %q", got)
	}
}

// faux yt-dlp : script shell qui imprime un avertissement puis le JSON
func TestExtractPlaylistWithFakeBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script shell")
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "yt-dlp")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 2025.01.01; exit 0; fi\n" +
		"echo 'WARNING: fake'\n" +
		"echo '{\"_type\":\"playlist\",\"title\":\"P\",\"entries\":[{\"id\":\"v1\",\"title\":\"One\"}]}'\n"
	if err := os.WriteFile(exe, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	dl := NewYtDlp("yt-dlp", exe, *NewYtDlpConfig(false), nil)
	if err := dl.CheckBinary(); err != nil {
		t.Fatalf("CheckBinary: %v", err)
	}
	v, err := dl.Version(context.Background())
	if err != nil || v != "2025.01.01" {
		t.Fatalf("Version = %q, %v", v, err)
	}

	raw, err := dl.ExtractPlaylist(context.Background(), "https://youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("ExtractPlaylist: %v", err)
	}
	p, err := ParsePlaylist(raw.JSON)
	if err != nil {
		t.Fatalf("ParsePlaylist: %v", err)
	}
	if p.Title != "P" || len(p.Items) != 1 || p.Items[0].Index != 1 {
		t.Fatalf("unexpected playlist: %+v", p)
	}
	if len(raw.Warnings) != 1 {
		t.Fatalf("warnings = %v", raw.Warnings)
	}
}

func TestCheckBinaryRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	dl := NewYtDlp("yt-dlp", dir, YtDlpConfig{}, nil)
	if err := dl.CheckBinary(); err == nil {
		t.Fatal("expected an error for a directory path")
	}
}
