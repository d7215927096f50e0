package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// env var names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "ANGKORMART_APP_ENV"
	EnvPort                   = "ANGKORMART_APP_PORT"
	EnvRedisURL               = "ANGKORMART_REDIS_URL"
	EnvJWTSecret              = "ANGKORMART_JWT_SECRET"
	EnvJWTIssuer              = "ANGKORMART_JWT_ISSUER"
	EnvJWTExpMins             = "ANGKORMART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ANGKORMART_REFRESH_TOKEN_TTL_MINUTES"
)

const (
	EnvDBDSN  = "ANGKORMART_DB_DSN"
	EnvDBHost = "ANGKORMART_DB_HOST"
	EnvDBUser = "ANGKORMART_DB_USER"
	EnvDBName = "ANGKORMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)
