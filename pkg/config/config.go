package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Invitation    InvitationConfig
	Sendgrid      SendgridConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CREATORSTACK_APP_ENV" required:"true"`
	Port         string `envconfig:"CREATORSTACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CREATORSTACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CREATORSTACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CREATORSTACK_DB_DSN"`
	Driver string `envconfig:"CREATORSTACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CREATORSTACK_DB_HOST"`
	LegacyPort     int    `envconfig:"CREATORSTACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CREATORSTACK_DB_USER"`
	LegacyPassword string `envconfig:"CREATORSTACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CREATORSTACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CREATORSTACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CREATORSTACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CREATORSTACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CREATORSTACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CREATORSTACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CREATORSTACK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CREATORSTACK_REDIS_ADDR"`
	Password     string        `envconfig:"CREATORSTACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CREATORSTACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CREATORSTACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CREATORSTACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CREATORSTACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CREATORSTACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CREATORSTACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CREATORSTACK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CREATORSTACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CREATORSTACK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CREATORSTACK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CREATORSTACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CREATORSTACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CREATORSTACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CREATORSTACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CREATORSTACK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CREATORSTACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"CREATORSTACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"CREATORSTACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	AcceptWindow    time.Duration `envconfig:"CREATORSTACK_AUTH_RATE_LIMIT_ACCEPT_WINDOW" default:"1m"`
	AcceptIPLimit   int           `envconfig:"CREATORSTACK_AUTH_RATE_LIMIT_ACCEPT_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CREATORSTACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CREATORSTACK_AUTO_MIGRATE" default:"false"`
}

// InvitationConfig drives invite link construction and expiry.
type InvitationConfig struct {
	FrontendOrigin     string        `envconfig:"CREATORSTACK_FRONTEND_ORIGIN" required:"true"`
	SuccessRedirectURL string        `envconfig:"CREATORSTACK_INVITE_SUCCESS_REDIRECT_URL" required:"true"`
	TTL                time.Duration `envconfig:"CREATORSTACK_INVITE_TTL" default:"72h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CREATORSTACK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CREATORSTACK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CREATORSTACK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"CREATORSTACK_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"CREATORSTACK_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"CREATORSTACK_GCS_DOWNLOAD_URL_EXPIRY" default:"15m"`
}

type PubSubConfig struct {
	MediaSubscription         string `envconfig:"CREATORSTACK_PUBSUB_MEDIA_SUBSCRIPTION"`
	MediaDeletionSubscription string `envconfig:"CREATORSTACK_PUBSUB_MEDIA_DELETION_SUBSCRIPTION"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"CREATORSTACK_MAX_UPLOAD_MB" default:"20"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"CREATORSTACK_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"CREATORSTACK_SENDGRID_FROM_EMAIL"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
