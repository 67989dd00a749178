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
	CORS          CORSConfig
	Quote         QuoteConfig
	Telemetry     TelemetryConfig
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
	Env          string `envconfig:"CATERING_APP_ENV" required:"true"`
	Port         string `envconfig:"CATERING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CATERING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATERING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CATERING_DB_DSN"`
	Driver string `envconfig:"CATERING_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CATERING_DB_HOST"`
	LegacyPort     int    `envconfig:"CATERING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CATERING_DB_USER"`
	LegacyPassword string `envconfig:"CATERING_DB_PASSWORD"`
	LegacyName     string `envconfig:"CATERING_DB_NAME"`
	LegacySSLMode  string `envconfig:"CATERING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATERING_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CATERING_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CATERING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATERING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets a local SQLite file.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CATERING_REDIS_URL"`
	Address      string        `envconfig:"CATERING_REDIS_ADDR"`
	Password     string        `envconfig:"CATERING_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATERING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATERING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATERING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATERING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATERING_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"CATERING_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CATERING_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CATERING_JWT_ISSUER" default:"catering"`
	ExpirationMinutes      int    `envconfig:"CATERING_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"CATERING_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CATERING_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CATERING_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CATERING_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CATERING_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CATERING_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CATERING_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"CATERING_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CATERING_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CATERING_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CATERING_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type QuoteConfig struct {
	CurrencySymbol string        `envconfig:"CATERING_QUOTE_CURRENCY_SYMBOL" default:"€"`
	HandoffBaseURL string        `envconfig:"CATERING_QUOTE_HANDOFF_BASE_URL" default:"https://wa.me/"`
	HandoffPhone   string        `envconfig:"CATERING_QUOTE_HANDOFF_PHONE"`
	SessionTTL     time.Duration `envconfig:"CATERING_QUOTE_SESSION_TTL" default:"2h"`
}

type TelemetryConfig struct {
	OTLPEndpoint string  `envconfig:"CATERING_OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string  `envconfig:"CATERING_OTEL_SERVICE_NAME" default:"catering-api"`
	SampleRatio  float64 `envconfig:"CATERING_OTEL_SAMPLE_RATIO" default:"1"`
}

// Enabled reports whether an OTLP collector is configured.
func (t TelemetryConfig) Enabled() bool {
	return strings.TrimSpace(t.OTLPEndpoint) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
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
