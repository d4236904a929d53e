package segments_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/segments"
)

func TestParseSkipsMalformedLinesAndPreservesOrder(t *testing.T) {
	raw := strings.Join([]string{
		`{"start": 0.0, "end": 1.5, "text": "hello"}`,
		`loading model weights`,
		`{"start": 1.5, "end": 3.0, "text": "world"`,
		`{"start": 3.0, "end": 4.2, "text": "again"}`,
		``,
		`{"start": 4.2, "end": 5.0, "text": "done"}`,
	}, "\n")

	segs := segments.Parse([]byte(raw))
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	want := []string{"hello", "again", "done"}
	for i, text := range want {
		if segs[i].Text != text {
			t.Fatalf("segment %d: got %q want %q", i, segs[i].Text, text)
		}
	}
	if segs[0].Start != 0 || segs[0].End != 1.5 {
		t.Fatalf("unexpected timing on first segment: %+v", segs[0])
	}
}

func TestParseLineRejectsEmptyRecords(t *testing.T) {
	cases := []struct {
		name string
		line string
		ok   bool
	}{
		{"valid", `{"start": 0, "end": 1, "text": "a"}`, true},
		{"language only", `{"language": "en"}`, true},
		{"diagnostic", "processing chunk 3", false},
		{"empty object", `{}`, false},
		{"blank text", `{"start": 0, "end": 1, "text": "   "}`, false},
		{"truncated json", `{"start": 0, "end":`, false},
		{"leading whitespace", `   {"start": 0, "end": 1, "text": "b"}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := segments.ParseLine(tc.line); ok != tc.ok {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			}
		})
	}
}

func TestParseLineCarriesWordTimings(t *testing.T) {
	line := `{"start": 0, "end": 2, "text": "hi there", "words": [{"word": "hi", "start": 0, "end": 1}, {"word": "there", "start": 1, "end": 2}]}`
	seg, ok := segments.ParseLine(line)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if len(seg.Words) != 2 {
		t.Fatalf("expected 2 word timings, got %d", len(seg.Words))
	}
	if seg.Words[1].Word != "there" || seg.Words[1].Start != 1 {
		t.Fatalf("unexpected second word timing: %+v", seg.Words[1])
	}
}

func TestExtractFileReportsBytesRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.jsonl")
	content := `{"start": 0, "end": 1, "text": "one"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write output: %v", err)
	}

	segs, n, err := segments.ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile returned error: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if n != int64(len(content)) {
		t.Fatalf("expected %d bytes read, got %d", len(content), n)
	}
}

func TestLanguageReturnsFirstDetected(t *testing.T) {
	segs := []segments.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Language: "de"},
		{Language: "fr"},
	}
	if got := segments.Language(segs); got != "de" {
		t.Fatalf("expected de, got %q", got)
	}
	if got := segments.Language(nil); got != "" {
		t.Fatalf("expected empty language for no segments, got %q", got)
	}
}
