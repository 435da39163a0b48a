package config

// EnvPrefix is intentionally empty: every variable carries the full
// HANGRMAP_ prefix in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "HANGRMAP_DB_DSN"
	EnvDBHost = "HANGRMAP_DB_HOST"
	EnvDBUser = "HANGRMAP_DB_USER"
	EnvDBName = "HANGRMAP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
