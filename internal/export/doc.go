// Package export renders transcript segments as SubRip subtitles or CSV
// rows for use outside the daemon.
package export
