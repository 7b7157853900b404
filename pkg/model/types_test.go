package model

import "testing"

func TestTimestampMMSS(t *testing.T) {
	tests := []struct {
		in   Seconds
		want string
	}{
		{0, "00:00"},
		{7, "00:07"},
		{65, "01:05"},
		{3599, "59:59"},
		{6000, "100:00"},
	}
	for _, tc := range tests {
		if got := tc.in.TimestampMMSS(); got != tc.want {
			t.Errorf("Seconds(%d).TimestampMMSS() = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestSecondsFromFloatTruncates(t *testing.T) {
	if got := SecondsFromFloat(7.9); got != 7 {
		t.Fatalf("SecondsFromFloat(7.9) = %d; want 7", got)
	}
	if got := SecondsFromFloat(-3); got != 0 {
		t.Fatalf("SecondsFromFloat(-3) = %d; want 0", got)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON3 ")
	if err != nil || f != FormatJSON3 {
		t.Fatalf("ParseFormat(json3) = %q, %v", f, err)
	}
	if _, err := ParseFormat("srt"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestVideoEntryHasTranscript(t *testing.T) {
	if (VideoEntry{}).HasTranscript() {
		t.Fatal("empty entry should not have a transcript")
	}
	e := VideoEntry{Chunks: []TranscriptChunk{{Text: "x"}}}
	if !e.HasTranscript() {
		t.Fatal("entry with chunks should report a transcript")
	}
}
