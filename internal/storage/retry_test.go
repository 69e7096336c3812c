package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/memory"
)

// flakyStore fails the next failures writes with err before delegating.
type flakyStore struct {
	*memory.MemoryLedgerStore
	failures int
	err      error
	calls    int
}

func (f *flakyStore) CreateEntry(ctx context.Context, e models.JournalEntry) (int64, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return 0, f.err
	}
	return f.MemoryLedgerStore.CreateEntry(ctx, e)
}

func (f *flakyStore) AddLine(ctx context.Context, l models.LineRecord) (int64, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return 0, f.err
	}
	return f.MemoryLedgerStore.AddLine(ctx, l)
}

func TestIsTransient(t *testing.T) {
	require.True(t, storage.IsTransient(sqlite3.Error{Code: sqlite3.ErrBusy}))
	require.True(t, storage.IsTransient(sqlite3.Error{Code: sqlite3.ErrLocked}))
	require.True(t, storage.IsTransient(&pq.Error{Code: "40001"}))
	require.True(t, storage.IsTransient(&pq.Error{Code: "40P01"}))
	require.True(t, storage.IsTransient(storage.ErrTransient))

	require.False(t, storage.IsTransient(nil))
	require.False(t, storage.IsTransient(errors.New("boom")))
	require.False(t, storage.IsTransient(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	require.False(t, storage.IsTransient(&pq.Error{Code: "23503"}))
	require.False(t, storage.IsTransient(storage.ErrUnknownEntry))
}

func TestIsForeignKeyViolation(t *testing.T) {
	require.True(t, storage.IsForeignKeyViolation(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintForeignKey,
	}))
	require.True(t, storage.IsForeignKeyViolation(&pq.Error{Code: "23503"}))

	require.False(t, storage.IsForeignKeyViolation(nil))
	require.False(t, storage.IsForeignKeyViolation(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}))
	require.False(t, storage.IsForeignKeyViolation(&pq.Error{Code: "23505"}))
}

func TestRetryingStoreRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{
		MemoryLedgerStore: memory.NewMemoryLedgerStore(),
		failures:          2,
		err:               sqlite3.Error{Code: sqlite3.ErrBusy},
	}
	store := storage.NewRetryingStore(flaky, 3, time.Millisecond, nil)

	id, err := store.CreateEntry(ctx, models.JournalEntry{Name: "Sales1", Category: "Sales"})
	require.NoError(t, err)
	require.Equal(t, int64(1), id, "failed attempts never consume an id")
	require.Equal(t, 3, flaky.calls)

	entries, err := store.GetJournalEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRetryingStoreGivesUp(t *testing.T) {
	flaky := &flakyStore{
		MemoryLedgerStore: memory.NewMemoryLedgerStore(),
		failures:          5,
		err:               &pq.Error{Code: "40001"},
	}
	store := storage.NewRetryingStore(flaky, 3, time.Millisecond, nil)

	_, err := store.CreateEntry(context.Background(), models.JournalEntry{Name: "Sales1"})
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	require.Equal(t, 3, flaky.calls)
}

func TestRetryingStoreDoesNotRetryPermanentFailures(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{MemoryLedgerStore: memory.NewMemoryLedgerStore()}
	store := storage.NewRetryingStore(flaky, 5, time.Millisecond, nil)

	_, err := store.AddLine(ctx, models.LineRecord{EntryID: 7, AccountName: "Cash"})
	require.ErrorIs(t, err, storage.ErrUnknownEntry)
	require.Equal(t, 1, flaky.calls)
}

func TestRetryingStoreStopsOnCancel(t *testing.T) {
	flaky := &flakyStore{
		MemoryLedgerStore: memory.NewMemoryLedgerStore(),
		failures:          1,
		err:               storage.ErrTransient,
	}
	store := storage.NewRetryingStore(flaky, 3, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.CreateEntry(ctx, models.JournalEntry{Name: "Sales1"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, flaky.calls)
}
