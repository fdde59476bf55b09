package config

const (
	EnvPrefix = "LAPTOPSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv    = "LAPTOPSHOP_APP_ENV"
	EnvPort      = "LAPTOPSHOP_APP_PORT"
	EnvLogLevel  = "LAPTOPSHOP_LOG_LEVEL"
	EnvLogFormat = "LAPTOPSHOP_LOG_FORMAT"

	EnvDBDSN    = "LAPTOPSHOP_DB_DSN"
	EnvDBDriver = "LAPTOPSHOP_DB_DRIVER"
	EnvDBHost   = "LAPTOPSHOP_DB_HOST"
	EnvDBUser   = "LAPTOPSHOP_DB_USER"
	EnvDBName   = "LAPTOPSHOP_DB_NAME"

	EnvRedisURL = "LAPTOPSHOP_REDIS_URL"

	EnvJWTSecret  = "LAPTOPSHOP_JWT_SECRET"
	EnvJWTIssuer  = "LAPTOPSHOP_JWT_ISSUER"
	EnvJWTExpMins = "LAPTOPSHOP_JWT_EXPIRATION_MINUTES"

	EnvCatalogDefaultPageSize = "LAPTOPSHOP_CATALOG_DEFAULT_PAGE_SIZE"
	EnvCatalogMaxPageSize     = "LAPTOPSHOP_CATALOG_MAX_PAGE_SIZE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
