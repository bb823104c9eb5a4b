package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Ledger store backends selectable via LEDGER_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the runtime settings for the server binary.
type Config struct {
	HTTPAddr     string   // HTTP_ADDR, listen address
	LedgerStore  string   // LEDGER_STORE, memory or postgres
	DatabaseURL  string   // DATABASE_URL, required when LedgerStore is postgres
	KafkaBrokers []string // KAFKA_BROKERS, comma-separated; empty disables Kafka
	KafkaTopic   string   // KAFKA_TOPIC
}

// Load reads an optional .env file, then the environment. Missing keys fall
// back to defaults suitable for a local run.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LedgerStore: getenv("LEDGER_STORE", StoreMemory),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		KafkaTopic:  getenv("KAFKA_TOPIC", "account_events"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	switch cfg.LedgerStore {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("LEDGER_STORE=%s requires DATABASE_URL", StorePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown LEDGER_STORE %q", cfg.LedgerStore)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
