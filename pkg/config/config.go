package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "storefront"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv      = "STOREFRONT_APP_ENV"
	EnvPort        = "STOREFRONT_APP_PORT"
	EnvRedisURL    = "STOREFRONT_REDIS_URL"
	EnvDBDSN       = "STOREFRONT_DB_DSN"
	EnvUpstreamURL = "STOREFRONT_UPSTREAM_BASE_URL"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	DB       DBConfig
	Cart     CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the remote commerce API the storefront fronts.
type UpstreamConfig struct {
	BaseURL  string        `envconfig:"STOREFRONT_UPSTREAM_BASE_URL" default:"http://o-complex.com:1337"`
	Timeout  time.Duration `envconfig:"STOREFRONT_UPSTREAM_TIMEOUT" default:"10s"`
	PageSize int           `envconfig:"STOREFRONT_UPSTREAM_PAGE_SIZE" default:"20"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// DBConfig configures the order journal database.
type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type CartConfig struct {
	// TTL bounds how long an abandoned session cart survives in Redis.
	TTL time.Duration `envconfig:"STOREFRONT_CART_TTL" default:"720h"`
	// SessionCookie names the anonymous session cookie the cart key derives from.
	SessionCookie string `envconfig:"STOREFRONT_CART_SESSION_COOKIE" default:"sf_session"`
}
