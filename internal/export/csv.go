package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"scribe/internal/segments"
)

// WriteCSV renders segments as start,end,text rows with a header.
func WriteCSV(w io.Writer, segs []segments.Segment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"start", "end", "text"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, seg := range segs {
		record := []string{
			strconv.FormatFloat(seg.Start, 'f', 3, 64),
			strconv.FormatFloat(seg.End, 'f', 3, 64),
			seg.Text,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
