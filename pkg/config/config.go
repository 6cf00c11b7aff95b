package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, populated from the environment.
type Config struct {
	HTTPPort            string `envconfig:"HTTP_PORT" default:"8080"`
	WalletsTableName    string `envconfig:"DYNAMODB_WALLETS_TABLE_NAME" required:"true"`
	LedgerTableName     string `envconfig:"DYNAMODB_LEDGER_TABLE_NAME" required:"true"`
	DiscrepancyQueueURL string `envconfig:"RECONCILIATION_QUEUE_URL"`
	MaxRetryAttempts    int    `envconfig:"COORDINATOR_MAX_ATTEMPTS" default:"5"`
	BaseBackoffMillis   int    `envconfig:"COORDINATOR_BASE_BACKOFF_MS" default:"25"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return &cfg, nil
}
