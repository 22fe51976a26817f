package env

const (
	EnvHttpPort = "HTTP_PORT"

	EnvDatabaseHost     = "DB_HOST"
	EnvDatabasePort     = "DB_PORT"
	EnvDatabaseUser     = "DB_USER"
	EnvDatabasePassword = "DB_PASSWORD"
	EnvDatabaseName     = "DB_NAME"
	EnvDatabaseSSL      = "DB_SSL"

	EnvLedgerStore = "LEDGER_STORE"
	EnvLockTimeout = "LOCK_TIMEOUT"

	EnvRedisAddr      = "REDIS_ADDR"
	EnvClientCacheTTL = "CLIENT_CACHE_TTL"

	EnvLogFormat = "LOG_FORMAT"
)
