package config

// EnvPrefix is passed to envconfig; every field carries its full name.
const EnvPrefix = "SHOPFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv  = "SHOPFRONT_APP_ENV"
	EnvPort    = "SHOPFRONT_APP_PORT"
	EnvBaseURL = "SHOPFRONT_BASE_URL"

	EnvDBDSN  = "SHOPFRONT_DB_DSN"
	EnvDBHost = "SHOPFRONT_DB_HOST"
	EnvDBUser = "SHOPFRONT_DB_USER"
	EnvDBName = "SHOPFRONT_DB_NAME"

	EnvRedisURL = "SHOPFRONT_REDIS_URL"

	EnvJWTSecret  = "SHOPFRONT_JWT_SECRET"
	EnvJWTIssuer  = "SHOPFRONT_JWT_ISSUER"
	EnvJWTExpMins = "SHOPFRONT_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite = "SHOPFRONT_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
