package postgres

import "context"

// Reset empties the tables between test cases.
func (p *PostgresLedgerStore) Reset(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `TRUNCATE entry_records, journal_entries RESTART IDENTITY`)
	return err
}
