package segments

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Word is an optional sub-word timing inside a segment.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one timestamped transcript span emitted by the transcriber.
type Segment struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
	Words    []Word  `json:"words,omitempty"`
	Language string  `json:"language,omitempty"`
}

// recordStart is the token a structured result line must begin with.
// Anything else is diagnostic text and is skipped.
const recordStart = "{"

// ParseLine parses a single output line. ok is false for diagnostic or
// malformed lines.
func ParseLine(line string) (Segment, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, recordStart) {
		return Segment{}, false
	}
	var seg Segment
	if err := json.Unmarshal([]byte(trimmed), &seg); err != nil {
		return Segment{}, false
	}
	if strings.TrimSpace(seg.Text) == "" && seg.Language == "" {
		return Segment{}, false
	}
	return seg, true
}

// Parse extracts every well-formed record from raw output, preserving
// relative order. Malformed lines are dropped, never fatal.
func Parse(raw []byte) []Segment {
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out []Segment
	for scanner.Scan() {
		if seg, ok := ParseLine(scanner.Text()); ok {
			out = append(out, seg)
		}
	}
	return out
}

// ExtractFile reads the output artifact once, fully, and parses it. Called
// only after completion has been detected; never during execution.
func ExtractFile(path string) ([]Segment, int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read output artifact: %w", err)
	}
	return Parse(raw), int64(len(raw)), nil
}

// Language returns the first detected language carried by segs, if any.
func Language(segs []Segment) string {
	for _, seg := range segs {
		if seg.Language != "" {
			return seg.Language
		}
	}
	return ""
}
