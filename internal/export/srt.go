package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"scribe/internal/segments"
)

// WriteSRT renders segments as SubRip cues, numbered from 1.
func WriteSRT(w io.Writer, segs []segments.Segment) error {
	cue := 0
	for _, seg := range segs {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		cue++
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			cue,
			srtTimestamp(seg.Start),
			srtTimestamp(seg.End),
			text,
		)
		if err != nil {
			return fmt.Errorf("write srt cue %d: %w", cue, err)
		}
	}
	return nil
}

// srtTimestamp formats seconds as HH:MM:SS,mmm.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
