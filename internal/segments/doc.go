// Package segments parses transcriber output artifacts into structured
// transcript records.
//
// The output artifact is a sequence of independent JSON lines interleaved
// with arbitrary diagnostic text. Each line is parsed in isolation: lines
// that do not start a JSON object are ignored, and a malformed record is
// dropped without aborting extraction of the lines after it.
package segments
