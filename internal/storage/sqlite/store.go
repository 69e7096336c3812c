// Package sqlite persists the ledger to a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    time REAL NOT NULL,                -- simulation clock value
    name TEXT NOT NULL,                -- process instance label
    category TEXT NOT NULL             -- process type label
);

CREATE TABLE IF NOT EXISTS entry_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id INTEGER NOT NULL REFERENCES journal_entries(id),
    account_name TEXT NOT NULL,
    account_group TEXT NOT NULL,
    amount TEXT NOT NULL,              -- decimal string, exact
    entry_tag TEXT NOT NULL,
    noise INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_entry_records_entry
    ON entry_records(entry_id);
`

// SQLiteLedgerStore writes every record in its own autocommit statement
// with synchronous=FULL, so a returned id is on disk.
// AUTOINCREMENT keeps ids from being reused even after a crash.
type SQLiteLedgerStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) the database at dbPath and initializes the schema.
func Open(dbPath string) (*SQLiteLedgerStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// foreign_keys is per connection; a single connection also keeps ":memory:" coherent
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteLedgerStore{db: db, dbPath: dbPath}, nil
}

func (s *SQLiteLedgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteLedgerStore) Path() string {
	return s.dbPath
}

func (s *SQLiteLedgerStore) CreateEntry(ctx context.Context, entry models.JournalEntry) (int64, error) {
	const query = `INSERT INTO journal_entries (time, name, category) VALUES (?, ?, ?)`

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, entry.Time, entry.Name, entry.Category)
	if err != nil {
		return 0, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteLedgerStore) AddLine(ctx context.Context, line models.LineRecord) (int64, error) {
	const query = `
		INSERT INTO entry_records (entry_id, account_name, account_group, amount, entry_tag, noise)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query,
		line.EntryID,
		line.AccountName,
		line.AccountGroup,
		line.Amount.String(),
		line.EntryTag,
		line.Noise,
	)
	if storage.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("add line to entry %d: %w", line.EntryID, storage.ErrUnknownEntry)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add line: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteLedgerStore) GetJournalEntries(ctx context.Context) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, time, name, category FROM journal_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Time, &e.Name, &e.Category); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteLedgerStore) GetLinesByEntry(ctx context.Context, entryID int64) ([]models.LineRecord, error) {
	const query = `
		SELECT id, entry_id, account_name, account_group, amount, entry_tag, noise
		FROM entry_records
		WHERE entry_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lines for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	var lines []models.LineRecord
	for rows.Next() {
		var l models.LineRecord
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountName, &l.AccountGroup, &l.Amount, &l.EntryTag, &l.Noise); err != nil {
			return nil, fmt.Errorf("failed to scan line record: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *SQLiteLedgerStore) GetDataset(ctx context.Context) ([]models.DatasetRow, error) {
	const query = `
		SELECT r.entry_id, r.id, j.time, j.name, j.category,
		       r.account_name, r.account_group, r.amount, r.entry_tag, r.noise
		FROM entry_records r
		JOIN journal_entries j ON j.id = r.entry_id
		ORDER BY r.id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	defer rows.Close()

	var dataset []models.DatasetRow
	for rows.Next() {
		var r models.DatasetRow
		if err := rows.Scan(
			&r.EntryID,
			&r.LineID,
			&r.Time,
			&r.ProcessLabel,
			&r.Category,
			&r.AccountName,
			&r.AccountGroup,
			&r.Amount,
			&r.EntryTag,
			&r.Noise,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		dataset = append(dataset, r)
	}
	return dataset, rows.Err()
}

var _ interfaces.LedgerStore = (*SQLiteLedgerStore)(nil)
