// Package storage holds what the ledger store implementations share:
// error kinds and the retry decorator.
package storage

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUnknownEntry is returned when a line references an entry that was never created.
	ErrUnknownEntry = errors.New("journal entry does not exist")
	// ErrTransient marks failures that did not commit anything and may be retried.
	ErrTransient = errors.New("transient store failure")
)

// IsTransient reports whether err is a driver failure that left no write behind.
// SQLite busy/locked errors abort the statement; Postgres serialization failures
// and deadlocks roll back the whole transaction.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// IsForeignKeyViolation reports whether err is a driver error caused by a
// line referencing a missing journal entry.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
