// Package sqlite provides a SQLite-backed round journal.
//
// The journal is a single table of finished rounds. Timestamps are stored as
// UTC unix milliseconds; IDs are generated on write when the caller leaves
// them empty.
package sqlite
