package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq" // postgres driver

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id        BIGSERIAL PRIMARY KEY,
	time      DOUBLE PRECISION NOT NULL,
	name      TEXT NOT NULL,
	category  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entry_records (
	id            BIGSERIAL PRIMARY KEY,
	entry_id      BIGINT NOT NULL REFERENCES journal_entries(id),
	account_name  TEXT NOT NULL,
	account_group TEXT NOT NULL,
	amount        NUMERIC NOT NULL,
	entry_tag     TEXT NOT NULL,
	noise         BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_entry_records_entry ON entry_records(entry_id);
`

type PostgresLedgerStore struct {
	mu sync.Mutex // one writer at a time
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

// Open connects to dsn and makes sure the schema exists.
func Open(ctx context.Context, dsn string) (*PostgresLedgerStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := NewPostgresLedgerStore(db)
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgresLedgerStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (p *PostgresLedgerStore) Close() error {
	return p.db.Close()
}

func (p *PostgresLedgerStore) CreateEntry(ctx context.Context, entry models.JournalEntry) (int64, error) {
	const query = `INSERT INTO journal_entries (time, name, category)
	VALUES ($1,$2,$3) RETURNING id`

	p.mu.Lock()
	defer p.mu.Unlock()

	var id int64
	if err := p.db.QueryRowContext(ctx, query, entry.Time, entry.Name, entry.Category).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *PostgresLedgerStore) AddLine(ctx context.Context, line models.LineRecord) (int64, error) {
	const query = `INSERT INTO entry_records (entry_id, account_name, account_group, amount, entry_tag, noise)
	VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`

	p.mu.Lock()
	defer p.mu.Unlock()

	var id int64
	err := p.db.QueryRowContext(ctx, query,
		line.EntryID, line.AccountName, line.AccountGroup, line.Amount, line.EntryTag, line.Noise,
	).Scan(&id)
	if storage.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("add line to entry %d: %w", line.EntryID, storage.ErrUnknownEntry)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (p *PostgresLedgerStore) GetJournalEntries(ctx context.Context) ([]models.JournalEntry, error) {
	const query = `SELECT id, time, name, category FROM journal_entries ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Time, &e.Name, &e.Category); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *PostgresLedgerStore) GetLinesByEntry(ctx context.Context, entryID int64) ([]models.LineRecord, error) {
	const query = `SELECT id, entry_id, account_name, account_group, amount, entry_tag, noise
	FROM entry_records WHERE entry_id = $1 ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.LineRecord
	for rows.Next() {
		var l models.LineRecord
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountName, &l.AccountGroup, &l.Amount, &l.EntryTag, &l.Noise); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (p *PostgresLedgerStore) GetDataset(ctx context.Context) ([]models.DatasetRow, error) {
	const query = `SELECT r.entry_id, r.id, j.time, j.name, j.category,
		r.account_name, r.account_group, r.amount, r.entry_tag, r.noise
	FROM entry_records r
	JOIN journal_entries j ON j.id = r.entry_id
	ORDER BY r.id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
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
			return nil, err
		}
		dataset = append(dataset, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataset, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
