// Package storagetest checks that a LedgerStore honours the append-only contract.
package storagetest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage"
)

// Run exercises a store. newStore must return an empty store each call.
func Run(t *testing.T, newStore func(t *testing.T) interfaces.LedgerStore) {
	t.Run("AssignsIncreasingIDs", func(t *testing.T) {
		testIncreasingIDs(t, newStore(t))
	})
	t.Run("RejectsUnknownEntry", func(t *testing.T) {
		testUnknownEntry(t, newStore(t))
	})
	t.Run("RoundTrip", func(t *testing.T) {
		testRoundTrip(t, newStore(t))
	})
	t.Run("Dataset", func(t *testing.T) {
		testDataset(t, newStore(t))
	})
}

func testIncreasingIDs(t *testing.T, store interfaces.LedgerStore) {
	ctx := context.Background()

	var last int64
	for i := 0; i < 20; i++ {
		id, err := store.CreateEntry(ctx, models.JournalEntry{Time: float64(i), Name: "Sales", Category: "Sales"})
		require.NoError(t, err)
		require.Greater(t, id, last)
		last = id
	}

	var lastLine int64
	for i := 0; i < 20; i++ {
		id, err := store.AddLine(ctx, models.LineRecord{
			EntryID:      last,
			AccountName:  "Cash",
			AccountGroup: "Asset",
			Amount:       decimal.NewFromInt(int64(i)),
			EntryTag:     "t",
		})
		require.NoError(t, err)
		require.Greater(t, id, lastLine)
		lastLine = id
	}
}

func testUnknownEntry(t *testing.T, store interfaces.LedgerStore) {
	ctx := context.Background()

	_, err := store.AddLine(ctx, models.LineRecord{EntryID: 404, AccountName: "Cash", Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, storage.ErrUnknownEntry)

	lines, err := store.GetLinesByEntry(ctx, 404)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func testRoundTrip(t *testing.T, store interfaces.LedgerStore) {
	ctx := context.Background()

	entryID, err := store.CreateEntry(ctx, models.JournalEntry{Time: 4.25, Name: "Sales3", Category: "Sales"})
	require.NoError(t, err)
	otherID, err := store.CreateEntry(ctx, models.JournalEntry{Time: 5, Name: "Payroll1", Category: "Payroll"})
	require.NoError(t, err)

	written := []models.LineRecord{
		{EntryID: entryID, AccountName: "ProductA", AccountGroup: "Revenue", Amount: decimal.RequireFromString("-100.10"), EntryTag: "1"},
		{EntryID: entryID, AccountName: "Cash", AccountGroup: "Asset", Amount: decimal.RequireFromString("100.10"), EntryTag: "1"},
		{EntryID: entryID, AccountName: "qwerty_1", AccountGroup: "qwerty", Amount: decimal.RequireFromString("-3.14159265358979"), EntryTag: "1", Noise: true},
	}
	for _, l := range written {
		_, err := store.AddLine(ctx, l)
		require.NoError(t, err)
	}
	_, err = store.AddLine(ctx, models.LineRecord{EntryID: otherID, AccountName: "Salaries", AccountGroup: "Expense", Amount: decimal.NewFromInt(7), EntryTag: "2"})
	require.NoError(t, err)

	entries, err := store.GetJournalEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.JournalEntry{ID: entryID, Time: 4.25, Name: "Sales3", Category: "Sales"}, entries[0])

	lines, err := store.GetLinesByEntry(ctx, entryID)
	require.NoError(t, err)
	require.Len(t, lines, len(written))
	for i, want := range written {
		got := lines[i]
		require.NotZero(t, got.ID)
		require.Equal(t, entryID, got.EntryID)
		require.Equal(t, want.AccountName, got.AccountName)
		require.Equal(t, want.AccountGroup, got.AccountGroup)
		require.True(t, want.Amount.Equal(got.Amount), "amount %s came back as %s", want.Amount, got.Amount)
		require.Equal(t, want.EntryTag, got.EntryTag)
		require.Equal(t, want.Noise, got.Noise)
	}
}

func testDataset(t *testing.T, store interfaces.LedgerStore) {
	ctx := context.Background()

	first, err := store.CreateEntry(ctx, models.JournalEntry{Time: 1, Name: "Sales1", Category: "Sales"})
	require.NoError(t, err)
	second, err := store.CreateEntry(ctx, models.JournalEntry{Time: 2, Name: "Purchase1", Category: "Purchase"})
	require.NoError(t, err)

	for _, l := range []models.LineRecord{
		{EntryID: first, AccountName: "Revenue", AccountGroup: "Revenue", Amount: decimal.NewFromInt(-10), EntryTag: "a"},
		{EntryID: second, AccountName: "Inventory", AccountGroup: "Inventory", Amount: decimal.NewFromInt(5), EntryTag: "b"},
		{EntryID: first, AccountName: "Cash", AccountGroup: "Cash", Amount: decimal.NewFromInt(10), EntryTag: "a"},
		{EntryID: second, AccountName: "TradePayables", AccountGroup: "TradePayables", Amount: decimal.NewFromInt(-5), EntryTag: "b"},
	} {
		_, err := store.AddLine(ctx, l)
		require.NoError(t, err)
	}

	rows, err := store.GetDataset(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4, "one row per line record")

	require.Equal(t, first, rows[0].EntryID)
	require.Equal(t, "Sales1", rows[0].ProcessLabel)
	require.Equal(t, "Sales", rows[0].Category)
	require.Equal(t, 1.0, rows[0].Time)
	require.Equal(t, second, rows[1].EntryID)
	require.Equal(t, "Purchase1", rows[1].ProcessLabel)
	require.Equal(t, 2.0, rows[1].Time)
	require.Equal(t, "Cash", rows[2].AccountName)
	require.True(t, decimal.NewFromInt(-5).Equal(rows[3].Amount))

	for i := 1; i < len(rows); i++ {
		require.Greater(t, rows[i].LineID, rows[i-1].LineID, "rows are ordered by line id")
	}
}
