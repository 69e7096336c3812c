// Package config loads simulator settings from the environment and .env files,
// and the process catalog from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	modelevents "github.com/sheikh-saqib/synthetic-ledger-generator/internal/models/events"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Store StoreConfig
	Kafka KafkaConfig
	Sim   SimConfig
	Debug bool
}

type StoreConfig struct {
	Driver        string
	SQLitePath    string
	DatabaseURL   string
	RetryAttempts int
	RetryBackoff  time.Duration
}

type KafkaConfig struct {
	Brokers []string // empty disables publishing
	Topic   string
}

type SimConfig struct {
	CatalogPath string
	Events      int
	Seed        uint64
	SeedSet     bool // SIM_SEED given; overrides the catalog seed
}

// Load reads configuration from environment variables, loading envPath first
// if given, or ./.env when present.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	events, err := parseIntEnv("SIM_EVENTS", 1000)
	if err != nil {
		return nil, err
	}
	attempts, err := parseIntEnv("STORE_RETRY_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	backoff, err := time.ParseDuration(getEnvOrDefault("STORE_RETRY_BACKOFF", "50ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_RETRY_BACKOFF: %w", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			Driver:        getEnvOrDefault("STORE_DRIVER", DriverSQLite),
			SQLitePath:    getEnvOrDefault("SQLITE_PATH", "./data/ledger.db"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			RetryAttempts: attempts,
			RetryBackoff:  backoff,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvOrDefault("KAFKA_TOPIC", modelevents.EntryGeneratedTopic),
		},
		Sim: SimConfig{
			CatalogPath: getEnvOrDefault("CATALOG_PATH", "./catalog.yaml"),
			Events:      events,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	if raw := os.Getenv("SIM_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIM_SEED: %s", raw)
		}
		cfg.Sim.Seed = seed
		cfg.Sim.SeedSet = true
	}

	return cfg, nil
}

// Validate checks that the selected store driver has what it needs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("missing required configuration: SQLITE_PATH")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("missing required configuration: DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Store.RetryAttempts < 1 {
		return fmt.Errorf("STORE_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Sim.Events < 0 {
		return fmt.Errorf("SIM_EVENTS must not be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
