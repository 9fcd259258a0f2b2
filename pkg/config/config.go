package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied to every environment variable understood by the app.
const EnvPrefix = "NONKABOB"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "NONKABOB_APP_ENV"
	EnvDBDSN  = "NONKABOB_DB_DSN"
	EnvDBHost = "NONKABOB_DB_HOST"
	EnvDBUser = "NONKABOB_DB_USER"
	EnvDBName = "NONKABOB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App            AppConfig
	DB             DBConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Admin          AdminConfig
	AdminRateLimit AdminRateLimitConfig
	Telegram       TelegramConfig
	Realtime       RealtimeConfig
	Cart           CartConfig
	FeatureFlags   FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(cfg.App); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NONKABOB_APP_ENV" required:"true"`
	Port         string `envconfig:"NONKABOB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NONKABOB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NONKABOB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NONKABOB_DB_DSN"`
	Driver string `envconfig:"NONKABOB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NONKABOB_DB_HOST"`
	LegacyPort     int    `envconfig:"NONKABOB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NONKABOB_DB_USER"`
	LegacyPassword string `envconfig:"NONKABOB_DB_PASSWORD"`
	LegacyName     string `envconfig:"NONKABOB_DB_NAME"`
	LegacySSLMode  string `envconfig:"NONKABOB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NONKABOB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NONKABOB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NONKABOB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NONKABOB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NONKABOB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NONKABOB_REDIS_ADDR"`
	Password     string        `envconfig:"NONKABOB_REDIS_PASSWORD"`
	DB           int           `envconfig:"NONKABOB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NONKABOB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NONKABOB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NONKABOB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NONKABOB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NONKABOB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NONKABOB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NONKABOB_JWT_ISSUER" default:"nonkabob-guliston"`
	ExpirationMinutes int    `envconfig:"NONKABOB_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the admin access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig gates the dashboard. The PIN lives server-side as an
// argon2id hash; DevPIN is a plaintext escape hatch for local work only.
type AdminConfig struct {
	PINHash          string `envconfig:"NONKABOB_ADMIN_PIN_HASH"`
	DevPIN           string `envconfig:"NONKABOB_ADMIN_DEV_PIN" default:"1234"`
	ArgonMemoryKB    int    `envconfig:"NONKABOB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int    `envconfig:"NONKABOB_ARGON_TIME" default:"3"`
	ArgonParallelism int    `envconfig:"NONKABOB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int    `envconfig:"NONKABOB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int    `envconfig:"NONKABOB_ARGON_KEY_LEN" default:"32"`
}

func (a AdminConfig) validate(app AppConfig) error {
	if app.IsProd() && a.PINHash == "" {
		return fmt.Errorf("NONKABOB_ADMIN_PIN_HASH is required in production")
	}
	return nil
}

type AdminRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"NONKABOB_ADMIN_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"NONKABOB_ADMIN_RATE_LIMIT_LOGIN_IP_LIMIT" default:"10"`
}

type TelegramConfig struct {
	BotToken     string `envconfig:"NONKABOB_TELEGRAM_BOT_TOKEN"`
	DevUserID    int64  `envconfig:"NONKABOB_TELEGRAM_DEV_USER_ID" default:"123456"`
	DevFirstName string `envconfig:"NONKABOB_TELEGRAM_DEV_FIRST_NAME" default:"Test User"`
}

type RealtimeConfig struct {
	Channel string `envconfig:"NONKABOB_REALTIME_CHANNEL" default:"realtime:orders"`
}

type CartConfig struct {
	SessionTTL    time.Duration `envconfig:"NONKABOB_CART_SESSION_TTL" default:"12h"`
	SweepInterval time.Duration `envconfig:"NONKABOB_CART_SWEEP_INTERVAL" default:"15m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NONKABOB_AUTO_MIGRATE" default:"false"`
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
