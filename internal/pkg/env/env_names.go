package env

const (
	EnvHttpPort = "HTTP_PORT"

	EnvDatabaseHost       = "DB_HOST"
	EnvDatabasePort       = "DB_PORT"
	EnvDatabaseUser       = "DB_USER"
	EnvDatabasePassword   = "DB_PASSWORD"
	EnvDatabaseName       = "DB_NAME"
	EnvDatabaseSSLEnabled = "DB_SSL_ENABLED"

	EnvJwtSecret = "JWT_SECRET"
	EnvTokenTTL  = "TOKEN_TTL"

	EnvStorageDriver = "STORAGE_DRIVER"
	EnvRunMigrations = "RUN_MIGRATIONS"
	EnvLogProduction = "LOG_PRODUCTION"

	EnvRetryMaxAttempts = "RETRY_MAX_ATTEMPTS"
)
