package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"scribe/internal/config"
	"scribe/internal/segments"
)

// Transcript is one archived transcription result.
type Transcript struct {
	ID           int64
	InputPath    string
	Kind         string
	Model        string
	Language     string
	CreatedAt    time.Time
	SegmentCount int
	Segments     []segments.Segment
}

// Store manages transcript persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the transcript database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save archives one completed transcript with its segments.
func (s *Store) Save(ctx context.Context, inputPath, kind, model, language string, segs []segments.Segment) (*Transcript, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transcripts (input_path, kind, model, language, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		inputPath, kind, model, language, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for seq, seg := range segs {
		wordsJSON := ""
		if len(seg.Words) > 0 {
			raw, err := json.Marshal(seg.Words)
			if err != nil {
				return nil, fmt.Errorf("marshal word timings: %w", err)
			}
			wordsJSON = string(raw)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transcript_segments (transcript_id, seq, start_sec, end_sec, text, words_json)
             VALUES (?, ?, ?, ?, ?, ?)`,
			id, seq, seg.Start, seg.End, seg.Text, wordsJSON,
		); err != nil {
			return nil, fmt.Errorf("insert segment %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transcript: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID loads one transcript with its segments in order.
func (s *Store) GetByID(ctx context.Context, id int64) (*Transcript, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_path, kind, model, language, created_at
         FROM transcripts WHERE id = ?`, id)

	transcript, err := scanTranscript(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_sec, end_sec, text, words_json
         FROM transcript_segments WHERE transcript_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seg segments.Segment
		var wordsJSON string
		if err := rows.Scan(&seg.Start, &seg.End, &seg.Text, &wordsJSON); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if wordsJSON != "" {
			if err := json.Unmarshal([]byte(wordsJSON), &seg.Words); err != nil {
				return nil, fmt.Errorf("unmarshal word timings: %w", err)
			}
		}
		transcript.Segments = append(transcript.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	transcript.SegmentCount = len(transcript.Segments)
	return transcript, nil
}

// List returns archived transcripts, newest first, without segment bodies.
func (s *Store) List(ctx context.Context) ([]Transcript, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.input_path, t.kind, t.model, t.language, t.created_at,
                COUNT(ts.transcript_id)
         FROM transcripts t
         LEFT JOIN transcript_segments ts ON ts.transcript_id = t.id
         GROUP BY t.id
         ORDER BY t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		var t Transcript
		var createdAt string
		if err := rows.Scan(&t.ID, &t.InputPath, &t.Kind, &t.Model, &t.Language, &createdAt, &t.SegmentCount); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		t.CreatedAt = parseTimestamp(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Clear removes every archived transcript and returns the removed count.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transcripts")
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func scanTranscript(row *sql.Row) (*Transcript, error) {
	var t Transcript
	var createdAt string
	if err := row.Scan(&t.ID, &t.InputPath, &t.Kind, &t.Model, &t.Language, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transcript not found")
		}
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	t.CreatedAt = parseTimestamp(createdAt)
	return &t, nil
}

func parseTimestamp(value string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	return time.Time{}
}
