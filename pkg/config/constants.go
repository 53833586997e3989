package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "EKOMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv                 = "EKOMART_APP_ENV"
	EnvPort                   = "EKOMART_APP_PORT"
	EnvDBDSN                  = "EKOMART_DB_DSN"
	EnvDBHost                 = "EKOMART_DB_HOST"
	EnvDBUser                 = "EKOMART_DB_USER"
	EnvDBName                 = "EKOMART_DB_NAME"
	EnvRedisURL               = "EKOMART_REDIS_URL"
	EnvJWTSecret              = "EKOMART_JWT_SECRET"
	EnvJWTIssuer              = "EKOMART_JWT_ISSUER"
	EnvJWTExpMins             = "EKOMART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "EKOMART_REFRESH_TOKEN_TTL_MINUTES"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
