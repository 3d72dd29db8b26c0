package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Canonical env var names, shared with tests.
const (
	EnvAppEnv     = "STOREFRONT_APP_ENV"
	EnvPort       = "STOREFRONT_APP_PORT"
	EnvOriginURL  = "STOREFRONT_ORIGIN_URL"
	EnvDBDSN      = "STOREFRONT_DB_DSN"
	EnvRedisURL   = "STOREFRONT_REDIS_URL"
	EnvShopAPIURL = "STOREFRONT_SHOP_API_URL"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	ShopAPI  ShopAPIConfig
	Cart     CartConfig
	Confirm  ConfirmConfig
	Products ProductsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if cfg.Cart.Backend == CartBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("redis cart backend requires %s", EnvRedisURL)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`

	// OriginURL is sent to the payment provider as the redirect base when a
	// checkout session is created.
	OriginURL string `envconfig:"STOREFRONT_ORIGIN_URL" required:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured at all. The
// storefront runs without redis when the db cart backend is selected and the
// product cache is off.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type ShopAPIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_SHOP_API_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_SHOP_API_TIMEOUT" default:"10s"`
}

const (
	CartBackendDB    = "db"
	CartBackendRedis = "redis"
)

type CartConfig struct {
	Backend     string        `envconfig:"STOREFRONT_CART_BACKEND" default:"db"`
	CookieName  string        `envconfig:"STOREFRONT_CART_COOKIE" default:"storefront_cart"`
	SnapshotTTL time.Duration `envconfig:"STOREFRONT_CART_SNAPSHOT_TTL" default:"720h"`
}

func (c CartConfig) validate() error {
	switch c.Backend {
	case CartBackendDB, CartBackendRedis:
		return nil
	}
	return fmt.Errorf("invalid cart backend %q", c.Backend)
}

type ConfirmConfig struct {
	MaxAttempts int           `envconfig:"STOREFRONT_CONFIRM_MAX_ATTEMPTS" default:"5"`
	PollDelay   time.Duration `envconfig:"STOREFRONT_CONFIRM_POLL_DELAY" default:"2s"`
}

type ProductsConfig struct {
	CacheTTL time.Duration `envconfig:"STOREFRONT_PRODUCT_CACHE_TTL" default:"5m"`
}
