package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/memory"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/storagetest"
)

func TestMemoryLedgerStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		return memory.NewMemoryLedgerStore()
	})
}

func TestGetJournalEntriesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryLedgerStore()

	_, err := store.CreateEntry(ctx, models.JournalEntry{Name: "Sales1", Category: "Sales"})
	require.NoError(t, err)

	entries, err := store.GetJournalEntries(ctx)
	require.NoError(t, err)
	entries[0].Name = "changed"

	again, err := store.GetJournalEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, "Sales1", again[0].Name)
}
