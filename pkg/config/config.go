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
	Service       ServiceConfig
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Media         MediaConfig
	Catalog       CatalogConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
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
	Env          string `envconfig:"CARSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"CARSHOP_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"CARSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARSHOP_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"CARSHOP_LOG_FORMAT" default:"json"`
}

// ConsoleLogs reports whether logs should use the human readable writer.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(a.LogFormat, "console")
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CARSHOP_SERVICE_KIND" default:"api"`
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `envconfig:"CARSHOP_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"CARSHOP_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout    time.Duration `envconfig:"CARSHOP_HTTP_IDLE_TIMEOUT" default:"60s"`
	AllowedOrigins []string      `envconfig:"CARSHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type DBConfig struct {
	DSN    string `envconfig:"CARSHOP_DB_DSN"`
	Driver string `envconfig:"CARSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"CARSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARSHOP_DB_USER"`
	LegacyPassword string `envconfig:"CARSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"CARSHOP_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the local sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"CARSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"CARSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CARSHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CARSHOP_JWT_ISSUER" default:"carshop"`
	ExpirationMinutes      int    `envconfig:"CARSHOP_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"CARSHOP_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CARSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CARSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CARSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CARSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CARSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"CARSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit    int           `envconfig:"CARSHOP_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"CARSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"CARSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIdentityLimit int           `envconfig:"CARSHOP_AUTH_RATE_LIMIT_REGISTER_IDENTITY_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"CARSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CARSHOP_AUTO_MIGRATE" default:"false"`
}

type MediaConfig struct {
	Root        string `envconfig:"CARSHOP_MEDIA_ROOT" default:"media"`
	URLPrefix   string `envconfig:"CARSHOP_MEDIA_URL_PREFIX" default:"/media/"`
	MaxUploadMB int    `envconfig:"CARSHOP_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type CatalogConfig struct {
	LowStockThreshold  int `envconfig:"CARSHOP_LOW_STOCK_THRESHOLD" default:"5"`
	HighStockThreshold int `envconfig:"CARSHOP_HIGH_STOCK_THRESHOLD" default:"20"`
	DefaultPageSize    int `envconfig:"CARSHOP_DEFAULT_PAGE_SIZE" default:"12"`
	MaxPageSize        int `envconfig:"CARSHOP_MAX_PAGE_SIZE" default:"100"`
}

const (
	defaultLowStock  = 5
	defaultHighStock = 20
)

// LowStock is the stock level at or below which a part is low.
func (c CatalogConfig) LowStock() int {
	if c.LowStockThreshold <= 0 {
		return defaultLowStock
	}
	return c.LowStockThreshold
}

// HighStock is the level at or above which a part is restocked. It is always above LowStock.
func (c CatalogConfig) HighStock() int {
	low := c.LowStock()
	if c.HighStockThreshold <= low {
		return max(defaultHighStock, low+1)
	}
	return c.HighStockThreshold
}

type GCPConfig struct {
	ProjectID string `envconfig:"CARSHOP_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"CARSHOP_PUBSUB_DOMAIN_TOPIC" default:"carshop-domain-events"`
	DomainSubscription string `envconfig:"CARSHOP_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CARSHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CARSHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CARSHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"CARSHOP_CRON_INTERVAL" default:"1h"`
	NotificationRetentionDays int           `envconfig:"CARSHOP_CRON_NOTIFICATION_RETENTION_DAYS" default:"90"`
	OutboxRetentionDays       int           `envconfig:"CARSHOP_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
	LockTTL                   time.Duration `envconfig:"CARSHOP_CRON_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:carshop.db?cache=shared"
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
