package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/postgres"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/storagetest"
)

// Requires a disposable database: TEST_DATABASE_URL tables are truncated per subtest.
func TestPostgresLedgerStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	storagetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		ctx := context.Background()
		store, err := postgres.Open(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })

		require.NoError(t, store.Reset(ctx))
		return store
	})
}
