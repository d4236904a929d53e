// Package store persists completed transcripts in SQLite.
//
// Unlike the in-memory job queue, the archive is durable: successful jobs
// are written here so transcripts survive daemon restarts and can be
// listed and exported later. Failed jobs are never archived. Schema
// changes bump the version in schema.go; users delete the database to
// adopt a new schema.
package store
