package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "CORGRES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "CORGRES_APP_ENV"
	EnvPort   = "CORGRES_APP_PORT"

	EnvDBDSN  = "CORGRES_DB_DSN"
	EnvDBHost = "CORGRES_DB_HOST"
	EnvDBUser = "CORGRES_DB_USER"
	EnvDBName = "CORGRES_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
