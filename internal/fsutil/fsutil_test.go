package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "untitled"},
		{"???", "untitled"},
		{"Go: the basics", "Go- the basics"},
		{"a/b\\c", "A b c"},
		{"  spaced    out  ", "Spaced out"},
		{"ends with dots...", "Ends with dots"},
		{"élan vital", "Élan vital"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := SanitizeFilename(tc.in); got != tc.want {
				t.Fatalf("SanitizeFilename(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeFilenameTruncatesOnRunes(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("é", 300))
	if n := len([]rune(got)); n != maxNameRunes {
		t.Fatalf("got %d runes; want %d", n, maxNameRunes)
	}
	if !strings.HasPrefix(got, "É") {
		t.Fatalf("first rune should be capitalized: %q", got[:4])
	}
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "a", "b", "doc.md")

	if err := WriteFileAtomic(dest, []byte("one"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := WriteFileAtomic(dest, []byte("two"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic (overwrite): %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "two" {
		t.Fatalf("content = %q; want %q", b, "two")
	}

	// pas de fichier temporaire laissé derrière
	entries, _ := os.ReadDir(filepath.Dir(dest))
	if len(entries) != 1 {
		t.Fatalf("expected only the destination file, got %d entries", len(entries))
	}
}

func TestSaveMarkdownAtomicSuffixes(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveMarkdownAtomic(dir, "note", []byte("1"), false)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := SaveMarkdownAtomic(dir, "note", []byte("2"), false)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if filepath.Base(first) != "note.md" || filepath.Base(second) != "note_1.md" {
		t.Fatalf("unexpected names: %s, %s", first, second)
	}

	over, err := SaveMarkdownAtomic(dir, "note", []byte("3"), true)
	if err != nil {
		t.Fatalf("overwrite save: %v", err)
	}
	if over != first {
		t.Fatalf("overwrite should reuse %s, got %s", first, over)
	}
	b, _ := os.ReadFile(first)
	if string(b) != "3" {
		t.Fatalf("content = %q; want %q", b, "3")
	}

	if _, err := SaveMarkdownAtomic(dir, "", nil, true); err == nil {
		t.Fatal("expected an error for an empty base name")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := Exists(filepath.Join(dir, "nope"))
	if err != nil || ok {
		t.Fatalf("Exists(missing) = %v, %v", ok, err)
	}
	ok, err = Exists(dir)
	if err != nil || !ok {
		t.Fatalf("Exists(dir) = %v, %v", ok, err)
	}
}
