package memory

import (
	"context"
	"fmt"
	"sync"

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// Ids start at 1 and increase by one per write; they are never reused.
type MemoryLedgerStore struct {
	mu         sync.Mutex
	entries    []models.JournalEntry
	entryIndex map[int64]int // entry id -> position in entries
	lines      []models.LineRecord
	nextEntry  int64
	nextLine   int64
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries:    make([]models.JournalEntry, 0),
		entryIndex: make(map[int64]int),
		lines:      make([]models.LineRecord, 0),
	}
}

func (m *MemoryLedgerStore) CreateEntry(ctx context.Context, entry models.JournalEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEntry++
	entry.ID = m.nextEntry
	m.entryIndex[entry.ID] = len(m.entries)
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *MemoryLedgerStore) AddLine(ctx context.Context, line models.LineRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entryIndex[line.EntryID]; !ok {
		return 0, fmt.Errorf("add line to entry %d: %w", line.EntryID, storage.ErrUnknownEntry)
	}

	m.nextLine++
	line.ID = m.nextLine
	m.lines = append(m.lines, line)
	return line.ID, nil
}

// GetJournalEntries returns a copy of all entries in creation order.
func (m *MemoryLedgerStore) GetJournalEntries(ctx context.Context) ([]models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.JournalEntry, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

func (m *MemoryLedgerStore) GetLinesByEntry(ctx context.Context, entryID int64) ([]models.LineRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.LineRecord
	for _, l := range m.lines {
		if l.EntryID == entryID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *MemoryLedgerStore) GetDataset(ctx context.Context) ([]models.DatasetRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]models.DatasetRow, 0, len(m.lines))
	for _, l := range m.lines {
		e := m.entries[m.entryIndex[l.EntryID]]
		rows = append(rows, models.DatasetRow{
			EntryID:      e.ID,
			LineID:       l.ID,
			Time:         e.Time,
			ProcessLabel: e.Name,
			Category:     e.Category,
			AccountName:  l.AccountName,
			AccountGroup: l.AccountGroup,
			Amount:       l.Amount,
			EntryTag:     l.EntryTag,
			Noise:        l.Noise,
		})
	}
	return rows, nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
