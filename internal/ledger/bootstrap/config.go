package bootstrap

import (
	"fmt"
	"time"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/database"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/env"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type LedgerConfig struct {
	HttpPort   string
	Store      string
	DbSettings database.PostgresSettings

	// LockTimeout bounds a single row lock wait. Zero means wait until the request context ends.
	LockTimeout time.Duration

	// RedisAddr enables the client cache when non-empty.
	RedisAddr      string
	ClientCacheTTL time.Duration

	LogFormat string
}

func DefaultConfig() LedgerConfig {
	return LedgerConfig{
		HttpPort: ":8080",
		Store:    StorePostgres,
		DbSettings: database.PostgresSettings{
			User:       "admin",
			Password:   "password",
			Host:       "localhost",
			Port:       "5432",
			DBName:     "ledger_db",
			SSlEnabled: false,
		},
		LockTimeout:    5 * time.Second,
		ClientCacheTTL: time.Hour,
		LogFormat:      logging.FormatText,
	}
}

// LoadConfigFromEnv starts from DefaultConfig and applies every variable that is set.
func LoadConfigFromEnv() (LedgerConfig, error) {
	cfg := DefaultConfig()

	env.TrySetFromEnv(env.EnvHttpPort, &cfg.HttpPort)
	env.TrySetFromEnv(env.EnvLedgerStore, &cfg.Store)
	env.TrySetFromEnv(env.EnvDatabaseHost, &cfg.DbSettings.Host)
	env.TrySetFromEnv(env.EnvDatabasePort, &cfg.DbSettings.Port)
	env.TrySetFromEnv(env.EnvDatabaseUser, &cfg.DbSettings.User)
	env.TrySetFromEnv(env.EnvDatabasePassword, &cfg.DbSettings.Password)
	env.TrySetFromEnv(env.EnvDatabaseName, &cfg.DbSettings.DBName)
	env.TrySetFromEnv(env.EnvRedisAddr, &cfg.RedisAddr)
	env.TrySetFromEnv(env.EnvLogFormat, &cfg.LogFormat)

	if err := env.TrySetBoolFromEnv(env.EnvDatabaseSSL, &cfg.DbSettings.SSlEnabled); err != nil {
		return LedgerConfig{}, err
	}
	if err := env.TrySetDurationFromEnv(env.EnvLockTimeout, &cfg.LockTimeout); err != nil {
		return LedgerConfig{}, err
	}
	if err := env.TrySetDurationFromEnv(env.EnvClientCacheTTL, &cfg.ClientCacheTTL); err != nil {
		return LedgerConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return LedgerConfig{}, err
	}

	return cfg, nil
}

func (c LedgerConfig) Validate() error {
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return fmt.Errorf("unknown %s %q, expected %s or %s", env.EnvLedgerStore, c.Store, StorePostgres, StoreMemory)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("%s must not be negative", env.EnvLockTimeout)
	}
	if c.ClientCacheTTL < 0 {
		return fmt.Errorf("%s must not be negative", env.EnvClientCacheTTL)
	}

	return nil
}
