package config

const (
	EnvPrefix = "CATERING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "CATERING_APP_ENV"
	EnvPort                   = "CATERING_APP_PORT"
	EnvLogLevel               = "CATERING_LOG_LEVEL"
	EnvDBDSN                  = "CATERING_DB_DSN"
	EnvDBDriver               = "CATERING_DB_DRIVER"
	EnvDBHost                 = "CATERING_DB_HOST"
	EnvDBUser                 = "CATERING_DB_USER"
	EnvDBName                 = "CATERING_DB_NAME"
	EnvDBPassword             = "CATERING_DB_PASSWORD"
	EnvRedisURL               = "CATERING_REDIS_URL"
	EnvJWTSecret              = "CATERING_JWT_SECRET"
	EnvJWTIssuer              = "CATERING_JWT_ISSUER"
	EnvJWTExpMins             = "CATERING_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CATERING_REFRESH_TOKEN_TTL_MINUTES"
	EnvCORSAllowedOrigins     = "CATERING_CORS_ALLOWED_ORIGINS"
	EnvQuoteCurrencySymbol    = "CATERING_QUOTE_CURRENCY_SYMBOL"
	EnvQuoteSessionTTL        = "CATERING_QUOTE_SESSION_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
