package config

const (
	EnvPrefix = "creatorstack"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv = "CREATORSTACK_APP_ENV"
	EnvPort   = "CREATORSTACK_APP_PORT"

	EnvDBDSN  = "CREATORSTACK_DB_DSN"
	EnvDBHost = "CREATORSTACK_DB_HOST"
	EnvDBUser = "CREATORSTACK_DB_USER"
	EnvDBName = "CREATORSTACK_DB_NAME"

	EnvRedisURL = "CREATORSTACK_REDIS_URL"

	EnvJWTSecret              = "CREATORSTACK_JWT_SECRET"
	EnvJWTIssuer              = "CREATORSTACK_JWT_ISSUER"
	EnvJWTExpMins             = "CREATORSTACK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CREATORSTACK_REFRESH_TOKEN_TTL_MINUTES"

	EnvFrontendOrigin     = "CREATORSTACK_FRONTEND_ORIGIN"
	EnvSuccessRedirectURL = "CREATORSTACK_INVITE_SUCCESS_REDIRECT_URL"
	EnvInviteTTL          = "CREATORSTACK_INVITE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
