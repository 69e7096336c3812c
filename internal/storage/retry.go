package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models"
)

// RetryingStore wraps a LedgerStore and retries writes that failed transiently.
// Only failures that IsTransient classifies are retried: those never committed,
// so a retry cannot assign a second id to the same record.
type RetryingStore struct {
	next     interfaces.LedgerStore
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

func NewRetryingStore(next interfaces.LedgerStore, attempts int, backoff time.Duration, logger *zap.Logger) *RetryingStore {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingStore{
		next:     next,
		attempts: attempts,
		backoff:  backoff,
		logger:   logger,
	}
}

func (r *RetryingStore) CreateEntry(ctx context.Context, entry models.JournalEntry) (int64, error) {
	return r.do(ctx, "create_entry", func() (int64, error) {
		return r.next.CreateEntry(ctx, entry)
	})
}

func (r *RetryingStore) AddLine(ctx context.Context, line models.LineRecord) (int64, error) {
	return r.do(ctx, "add_line", func() (int64, error) {
		return r.next.AddLine(ctx, line)
	})
}

func (r *RetryingStore) GetJournalEntries(ctx context.Context) ([]models.JournalEntry, error) {
	return r.next.GetJournalEntries(ctx)
}

func (r *RetryingStore) GetLinesByEntry(ctx context.Context, entryID int64) ([]models.LineRecord, error) {
	return r.next.GetLinesByEntry(ctx, entryID)
}

func (r *RetryingStore) GetDataset(ctx context.Context) ([]models.DatasetRow, error) {
	return r.next.GetDataset(ctx)
}

func (r *RetryingStore) do(ctx context.Context, op string, fn func() (int64, error)) (int64, error) {
	var (
		id  int64
		err error
	)
	for attempt := 1; attempt <= r.attempts; attempt++ {
		id, err = fn()
		if err == nil || !IsTransient(err) || attempt == r.attempts {
			return id, err
		}

		r.logger.Warn("transient store failure, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		// linear backoff
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(r.backoff * time.Duration(attempt)):
		}
	}
	return id, err
}

var _ interfaces.LedgerStore = (*RetryingStore)(nil)
