package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	when := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := Entry{
		VideoID:   "v1",
		Lang:      "en",
		Source:    model.SubSourceManual,
		Fragments: []model.TranscriptFragment{{Start: 0, Text: "Hello"}, {Start: 7.4, Text: "world"}},
		FetchedAt: when,
	}
	if err := s.Put(ctx, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Lang != "en" || got.Source != model.SubSourceManual || got.NoTranscript {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if len(got.Fragments) != 2 || got.Fragments[1] != in.Fragments[1] {
		t.Fatalf("fragments = %#v", got.Fragments)
	}
	if !got.FetchedAt.Equal(when) {
		t.Fatalf("FetchedAt = %v; want %v", got.FetchedAt, when)
	}
}

func TestPutReplacesAndMarksMissing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Put(ctx, Entry{VideoID: "v1", Fragments: []model.TranscriptFragment{{Text: "x"}}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, Entry{VideoID: "v1", NoTranscript: true}); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}
	got, err := s.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.NoTranscript || len(got.Fragments) != 0 {
		t.Fatalf("entry not replaced: %+v", got)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("Count = %d; want 1", n)
	}

	if err := s.Delete(ctx, "v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "v1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Put(ctx, Entry{}); err == nil {
		t.Fatal("expected an error for an empty video id")
	}
}

func TestReopenKeepsDataAndMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Put(ctx, Entry{VideoID: "keep", Lang: "fr"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "keep")
	if err != nil || got.Lang != "fr" {
		t.Fatalf("Get after reopen = %+v, %v", got, err)
	}
}
