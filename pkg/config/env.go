package config

const (
	EnvPrefix = "CARSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "CARSHOP_APP_ENV"
	EnvPort                   = "CARSHOP_APP_PORT"
	EnvDBDSN                  = "CARSHOP_DB_DSN"
	EnvDBDriver               = "CARSHOP_DB_DRIVER"
	EnvDBHost                 = "CARSHOP_DB_HOST"
	EnvDBUser                 = "CARSHOP_DB_USER"
	EnvDBName                 = "CARSHOP_DB_NAME"
	EnvRedisURL               = "CARSHOP_REDIS_URL"
	EnvJWTSecret              = "CARSHOP_JWT_SECRET"
	EnvJWTIssuer              = "CARSHOP_JWT_ISSUER"
	EnvJWTExpMins             = "CARSHOP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CARSHOP_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "CARSHOP_GCP_PROJECT_ID"
	EnvPubSubDomainTopic      = "CARSHOP_PUBSUB_DOMAIN_TOPIC"
	EnvMediaRoot              = "CARSHOP_MEDIA_ROOT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
