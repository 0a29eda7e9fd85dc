// Package config loads storefront settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultProductsURL = "https://fakestoreapi.com/products"
	DefaultStorePath   = "storefront.db"
	DefaultCartKey     = "cart"
	DefaultTopic       = "cart.events"
	DefaultHTTPAddr    = ":8080"
)

// Config is the full storefront configuration.
type Config struct {
	ProductsURL  string        `yaml:"products_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // 0 disables the timeout
	LogLevel     string        `yaml:"log_level"`

	Catalog CatalogConfig `yaml:"catalog"`
	Store   StoreConfig   `yaml:"store"`
	Broker  BrokerConfig  `yaml:"broker"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// CatalogConfig selects where the product catalog is read from.
type CatalogConfig struct {
	Driver string `yaml:"driver"` // http | postgres
	DSN    string `yaml:"dsn"`
}

// StoreConfig selects the durable store holding the cart.
type StoreConfig struct {
	Driver    string `yaml:"driver"` // sqlite | postgres | redis | memory
	Path      string `yaml:"path"`
	DSN       string `yaml:"dsn"`
	RedisAddr string `yaml:"redis_addr"`
	Key       string `yaml:"key"`
}

// BrokerConfig selects where cart events are published.
type BrokerConfig struct {
	Driver  string   `yaml:"driver"` // none | kafka | watermill | gochannel
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
	// Persistent keeps every gochannel message in memory for late subscribers.
	Persistent bool `yaml:"persistent"`
}

// HTTPConfig configures the JSON API.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		ProductsURL: DefaultProductsURL,
		LogLevel:    "info",
		Catalog:     CatalogConfig{Driver: "http"},
		Store: StoreConfig{
			Driver:    "sqlite",
			Path:      DefaultStorePath,
			RedisAddr: "localhost:6379",
			Key:       DefaultCartKey,
		},
		Broker: BrokerConfig{
			Driver:  "none",
			Brokers: []string{"localhost:9092"},
			Topic:   DefaultTopic,
			GroupID: "storefront-events",
		},
		HTTP: HTTPConfig{Addr: DefaultHTTPAddr},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.ProductsURL = getEnv("STOREFRONT_PRODUCTS_URL", c.ProductsURL)
	c.LogLevel = getEnv("STOREFRONT_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("STOREFRONT_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STOREFRONT_FETCH_TIMEOUT %q: %w", v, err)
		}
		c.FetchTimeout = d
	}

	c.Catalog.Driver = getEnv("STOREFRONT_CATALOG_DRIVER", c.Catalog.Driver)
	c.Catalog.DSN = getEnv("DATABASE_URL", c.Catalog.DSN)

	c.Store.Driver = getEnv("STOREFRONT_STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getEnv("STOREFRONT_STORE_PATH", c.Store.Path)
	c.Store.DSN = getEnv("DATABASE_URL", c.Store.DSN)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.Key = getEnv("STOREFRONT_CART_KEY", c.Store.Key)

	c.Broker.Driver = getEnv("STOREFRONT_BROKER_DRIVER", c.Broker.Driver)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Broker.Brokers = strings.Split(v, ",")
	}
	c.Broker.Topic = getEnv("STOREFRONT_EVENT_TOPIC", c.Broker.Topic)

	c.HTTP.Addr = getEnv("STOREFRONT_HTTP_ADDR", c.HTTP.Addr)
	return nil
}

// Validate rejects unknown drivers and missing connection settings.
func (c Config) Validate() error {
	switch c.Catalog.Driver {
	case "http":
		if c.ProductsURL == "" {
			return fmt.Errorf("products_url is required for the http catalog driver")
		}
	case "postgres":
		if c.Catalog.DSN == "" {
			return fmt.Errorf("catalog.dsn is required for the postgres catalog driver")
		}
	default:
		return fmt.Errorf("unknown catalog driver %q", c.Catalog.Driver)
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite store driver")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres store driver")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis store driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Broker.Driver {
	case "none", "gochannel":
	case "kafka", "watermill":
		if len(c.Broker.Brokers) == 0 {
			return fmt.Errorf("broker.brokers is required for the %s broker driver", c.Broker.Driver)
		}
	default:
		return fmt.Errorf("unknown broker driver %q", c.Broker.Driver)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
