package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models/events"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "SQLITE_PATH", "DATABASE_URL", "KAFKA_BROKERS", "KAFKA_TOPIC", "CATALOG_PATH",
		"SIM_EVENTS", "SIM_SEED", "STORE_RETRY_ATTEMPTS", "STORE_RETRY_BACKOFF", "DEBUG"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir()) // no .env here

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.Store.Driver)
	require.Equal(t, "./data/ledger.db", cfg.Store.SQLitePath)
	require.Equal(t, 3, cfg.Store.RetryAttempts)
	require.Equal(t, 50*time.Millisecond, cfg.Store.RetryBackoff)
	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, events.EntryGeneratedTopic, cfg.Kafka.Topic)
	require.Equal(t, 1000, cfg.Sim.Events)
	require.False(t, cfg.Sim.SeedSet)
	require.False(t, cfg.Debug)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_TOPIC", "ledger.entries")
	t.Setenv("SIM_EVENTS", "25")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("STORE_RETRY_BACKOFF", "1s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "ledger.entries", cfg.Kafka.Topic)
	require.Equal(t, 25, cfg.Sim.Events)
	require.True(t, cfg.Sim.SeedSet)
	require.Equal(t, uint64(42), cfg.Sim.Seed)
	require.Equal(t, time.Second, cfg.Store.RetryBackoff)
	require.True(t, cfg.Debug)
	require.NoError(t, cfg.Validate())
}

// unsetEnv removes keys for the duration of the test. godotenv never
// overrides variables that are present, even when empty.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		old, ok := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if ok {
				os.Setenv(key, old)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	unsetEnv(t, "STORE_DRIVER", "SIM_EVENTS")
	path := filepath.Join(t.TempDir(), "sim.env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nSIM_EVENTS=7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
	require.Equal(t, 7, cfg.Sim.Events)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("SIM_EVENTS", "many")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SIM_EVENTS", "")
	t.Setenv("SIM_SEED", "-1")
	_, err = Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: DriverPostgres, RetryAttempts: 1}}
	require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg = &Config{Store: StoreConfig{Driver: "oracle", RetryAttempts: 1}}
	require.ErrorContains(t, cfg.Validate(), "unknown STORE_DRIVER")

	cfg = &Config{Store: StoreConfig{Driver: DriverMemory}}
	require.ErrorContains(t, cfg.Validate(), "STORE_RETRY_ATTEMPTS")

	cfg = &Config{Store: StoreConfig{Driver: DriverSQLite, RetryAttempts: 1}}
	require.ErrorContains(t, cfg.Validate(), "SQLITE_PATH")
}
