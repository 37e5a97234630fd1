package config

// EnvPrefix scopes every envconfig lookup.
const EnvPrefix = "STUDIO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "STUDIO_DB_DSN"
	EnvDBHost = "STUDIO_DB_HOST"
	EnvDBUser = "STUDIO_DB_USER"
	EnvDBName = "STUDIO_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
