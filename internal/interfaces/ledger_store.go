package interfaces

import (
	"context"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
)

// LedgerStore is an append-only sink for journal entries and their lines.
// Implementations assign ids and persist every write before returning.
type LedgerStore interface {
	CreateEntry(ctx context.Context, entry models.JournalEntry) (int64, error)
	AddLine(ctx context.Context, line models.LineRecord) (int64, error)
	GetJournalEntries(ctx context.Context) ([]models.JournalEntry, error)
	GetLinesByEntry(ctx context.Context, entryID int64) ([]models.LineRecord, error)
	GetDataset(ctx context.Context) ([]models.DatasetRow, error)
}
