package subtitles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patrickprogramme/pltranscripts/internal/fetch"
	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

// helper to create *int64 easily in tests
func ptrInt64(v int64) *int64 { return &v }

func TestTransformManualToFragments(t *testing.T) {
	raw := json3Track{Events: []json3Event{
		{StartMs: ptrInt64(0), Segs: []json3Seg{{Text: "Hello\nworld"}}},
		{StartMs: ptrInt64(1500), Segs: []json3Seg{{Text: "\n"}}},
		{StartMs: ptrInt64(7400), Segs: []json3Seg{{Text: "Second "}, {Text: " line"}}},
		{Segs: []json3Seg{{Text: "no start"}}},
		{StartMs: ptrInt64(3000), Segs: []json3Seg{{Text: "late event"}}},
	}}
	got := TransformManualToFragments(raw)
	want := []model.TranscriptFragment{
		{Start: 0, Text: "Hello world"},
		{Start: 3, Text: "late event"},
		{Start: 7.4, Text: "Second line"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d fragments; want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %#v; want %#v", i, got[i], want[i])
		}
	}
}

func TestTransformAutoToFragments(t *testing.T) {
	// mots horodatés : "hello world." puis pause de 3 s, "after pause" sans ponctuation
	raw := json3Track{Events: []json3Event{
		{StartMs: ptrInt64(0), Segs: []json3Seg{
			{Text: "hello"},
			{Text: " world.", OffsetMs: ptrInt64(400)},
		}},
		{StartMs: ptrInt64(900), Segs: []json3Seg{{Text: "\n"}}},
		{StartMs: ptrInt64(1000), Segs: []json3Seg{
			{Text: "next"},
			{Text: " words", OffsetMs: ptrInt64(300)},
		}},
		{StartMs: ptrInt64(4500), Segs: []json3Seg{
			{Text: "after"},
			{Text: " pause", OffsetMs: ptrInt64(200)},
		}},
	}}
	got := TransformAutoToFragments(raw)
	want := []model.TranscriptFragment{
		{Start: 0, Text: "hello world."},
		{Start: 1, Text: "next words"},
		{Start: 4.5, Text: "after pause"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d fragments; want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %#v; want %#v", i, got[i], want[i])
		}
	}
}

func TestTransformAutoClosersAfterTerminator(t *testing.T) {
	raw := json3Track{Events: []json3Event{
		{StartMs: ptrInt64(0), Segs: []json3Seg{{Text: `he said "stop!"`}, {Text: " then", OffsetMs: ptrInt64(100)}}},
	}}
	got := TransformAutoToFragments(raw)
	if len(got) != 2 || got[0].Text != `he said "stop!"` || got[1].Text != "then" {
		t.Fatalf("unexpected fragments: %#v", got)
	}
	if got[1].Start != 0.1 {
		t.Fatalf("second fragment start = %v; want 0.1", got[1].Start)
	}
}

func TestSelectTrack(t *testing.T) {
	m := &model.Meta{
		ManualSubs: []model.SubtitleTrack{
			{Lang: "fr", URL: "m-fr", Source: model.SubSourceManual},
			{Lang: "en-US", URL: "m-en", Source: model.SubSourceManual},
		},
		AutoSubs: []model.SubtitleTrack{
			{Lang: "en", URL: "a-en", Source: model.SubSourceAutomatic},
		},
	}
	tests := []struct {
		name         string
		preferManual bool
		langs        []string
		wantURL      string
	}{
		{"manual first language", true, []string{"en", "fr"}, "m-en"},
		{"manual language order", true, []string{"fr", "en"}, "m-fr"},
		{"auto preferred", false, []string{"en"}, "a-en"},
		{"auto preferred falls to manual language", false, []string{"fr"}, "m-fr"},
		{"no language match uses preferred source", true, []string{"de"}, "m-en"},
		{"no language at all", false, nil, "a-en"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SelectTrack(m, tc.preferManual, tc.langs)
			if !ok || got.URL != tc.wantURL {
				t.Fatalf("SelectTrack = %v, %v; want %s", got, ok, tc.wantURL)
			}
		})
	}

	if _, ok := SelectTrack(&model.Meta{}, true, []string{"en"}); ok {
		t.Fatal("expected no track for a video without subtitles")
	}
	if _, ok := SelectTrack(nil, true, nil); ok {
		t.Fatal("expected no track for nil meta")
	}
}

func TestFetcherFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/en.json3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"wireMagic":"pb3","events":[
			{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"Hello world"}]},
			{"tStartMs":7400,"dDurationMs":1000,"segs":[{"utf8":"Second line"}]}
		]}`))
	}))
	defer srv.Close()

	client := fetch.NewClient()
	client.HTTP = srv.Client()
	f := &Fetcher{Client: client, PreferManual: true, Languages: []string{"en"}}

	m := &model.Meta{
		ID:         "v1",
		ManualSubs: []model.SubtitleTrack{{Lang: "en", URL: srv.URL + "/en.json3", Format: model.FormatJSON3, Source: model.SubSourceManual}},
	}
	frags, track, err := f.Fragments(context.Background(), m)
	if err != nil {
		t.Fatalf("Fragments: %v", err)
	}
	if track.Lang != "en" || len(frags) != 2 || frags[1].Start != 7.4 || frags[1].Text != "Second line" {
		t.Fatalf("unexpected result: %v %#v", track, frags)
	}

	if _, _, err := f.Fragments(context.Background(), &model.Meta{ID: "v2"}); !errors.Is(err, ErrNoSubtitle) {
		t.Fatalf("expected ErrNoSubtitle, got %v", err)
	}

	m.ManualSubs[0].URL = srv.URL + "/gone.json3"
	if _, _, err := f.Fragments(context.Background(), m); !errors.Is(err, fetch.ErrStatus) {
		t.Fatalf("expected fetch.ErrStatus, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := decodeJSON3(nil); !errors.Is(err, errEmptyTrack) {
		t.Fatalf("expected errEmptyTrack, got %v", err)
	}
	if _, err := decodeJSON3([]byte("{")); err == nil {
		t.Fatal("expected a decode error")
	}
	sd := &SubtitleDownload{Title: "T"}
	if _, err := sd.decode(); !errors.Is(err, errEmptyTrack) {
		t.Fatalf("expected errEmptyTrack without data, got %v", err)
	}
}

func TestEndsSentence(t *testing.T) {
	tests := map[string]bool{
		"done.":           true,
		"really?  ":       true,
		`he said "stop!"`: true,
		"(aside.)”":       true,
		"not yet":         false,
		"3.5 km":          false,
		"":                false,
		`""`:              false,
	}
	for in, want := range tests {
		if got := endsSentence(in); got != want {
			t.Errorf("endsSentence(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestCleanText(t *testing.T) {
	// `\n` échappé (json3) comme réel
	if got := cleanText("  a\\nb \n  c\t d "); got != "a b c d" {
		t.Fatalf("cleanText = %q", got)
	}
}
