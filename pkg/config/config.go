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
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LAPTOPSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"LAPTOPSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LAPTOPSHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LAPTOPSHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LAPTOPSHOP_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"LAPTOPSHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LAPTOPSHOP_DB_DSN"`
	Driver string `envconfig:"LAPTOPSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LAPTOPSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"LAPTOPSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LAPTOPSHOP_DB_USER"`
	LegacyPassword string `envconfig:"LAPTOPSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"LAPTOPSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"LAPTOPSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAPTOPSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAPTOPSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAPTOPSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAPTOPSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"LAPTOPSHOP_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"LAPTOPSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LAPTOPSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"LAPTOPSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAPTOPSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAPTOPSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAPTOPSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAPTOPSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAPTOPSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAPTOPSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LAPTOPSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LAPTOPSHOP_JWT_ISSUER" default:"laptopshop"`
	ExpirationMinutes int    `envconfig:"LAPTOPSHOP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTTL returns how long a minted access token stays valid.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type SessionConfig struct {
	CookieName   string `envconfig:"LAPTOPSHOP_SESSION_COOKIE_NAME" default:"laptopshop_session"`
	CookieSecure bool   `envconfig:"LAPTOPSHOP_SESSION_COOKIE_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LAPTOPSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LAPTOPSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LAPTOPSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LAPTOPSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LAPTOPSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	TrustProxyHeaders  bool          `envconfig:"LAPTOPSHOP_AUTH_RATE_LIMIT_TRUST_PROXY_HEADERS" default:"false"`
}

// CatalogConfig holds the listing page size policy.
type CatalogConfig struct {
	DefaultPageSize int `envconfig:"LAPTOPSHOP_CATALOG_DEFAULT_PAGE_SIZE" default:"6"`
	MaxPageSize     int `envconfig:"LAPTOPSHOP_CATALOG_MAX_PAGE_SIZE" default:"60"`
}

func (c CatalogConfig) validate() error {
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvCatalogDefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("%s must be >= %s", EnvCatalogMaxPageSize, EnvCatalogDefaultPageSize)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAPTOPSHOP_AUTO_MIGRATE" default:"false"`
	SeedDemo    bool `envconfig:"LAPTOPSHOP_SEED_DEMO" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DriverSQLite)
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
