package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STOREFRONT_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Commerce CommerceConfig `koanf:"commerce"`
	Redis    RedisConfig    `koanf:"redis"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Session  SessionConfig  `koanf:"session"`
	Logging  LoggingConfig  `koanf:"logging"`
	Client   ClientConfig   `koanf:"client"`
}

type ServerConfig struct {
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// CommerceConfig holds the WooCommerce REST credentials. All three of
// SiteURL, ConsumerKey and ConsumerSecret must be set for live mode.
type CommerceConfig struct {
	SiteURL        string        `koanf:"site_url"`
	ConsumerKey    string        `koanf:"consumer_key"`
	ConsumerSecret string        `koanf:"consumer_secret"`
	APIVersion     string        `koanf:"api_version"`
	Timeout        time.Duration `koanf:"timeout"`
	SampleData     bool          `koanf:"sample_data"`
	Currency       string        `koanf:"currency"`
}

// Configured reports whether live credentials are present.
func (c CommerceConfig) Configured() bool {
	return c.SiteURL != "" && c.ConsumerKey != "" && c.ConsumerSecret != ""
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// Addr returns the host:port pair for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type KafkaConfig struct {
	Enabled     bool     `koanf:"enabled"`
	Brokers     []string `koanf:"brokers"`
	OrdersTopic string   `koanf:"orders_topic"`
}

type SessionConfig struct {
	// Key signs the session cookie. Empty means a random per-process key.
	Key    string `koanf:"key"`
	Secure bool   `koanf:"secure"`
	MaxAge int    `koanf:"max_age"`
}

type LoggingConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// ClientConfig is read by the command-line client, which talks to a running
// storefront API instead of the commerce platform.
type ClientConfig struct {
	APIURL   string        `koanf:"api_url"`
	CartFile string        `koanf:"cart_file"`
	Timeout  time.Duration `koanf:"timeout"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":          8080,
		"server.read_timeout":  30 * time.Second,
		"server.write_timeout": 30 * time.Second,
		"commerce.api_version": "wc/v3",
		"commerce.timeout":     15 * time.Second,
		"commerce.sample_data": true,
		"commerce.currency":    "USD",
		"redis.enabled":        false,
		"redis.host":           "localhost",
		"redis.port":           6379,
		"redis.db":             0,
		"redis.ttl":            5 * time.Minute,
		"kafka.enabled":        false,
		"kafka.brokers":        []string{"localhost:9092"},
		"kafka.orders_topic":   "storefront.orders",
		"session.secure":       false,
		"session.max_age":      7 * 24 * 60 * 60,
		"logging.level":        "info",
		"logging.max_size_mb":  50,
		"logging.max_backups":  3,
		"logging.max_age_days": 7,
		"client.api_url":       "http://localhost:8080",
		"client.timeout":       30 * time.Second,
	}
}

// shortEnv keeps the flat names the command-line client has always read.
var shortEnv = map[string]string{
	envPrefix + "API_URL":   "client.api_url",
	envPrefix + "CART_FILE": "client.cart_file",
	envPrefix + "CURRENCY":  "commerce.currency",
}

// legacyEnv maps the environment names used by earlier storefront deployments.
var legacyEnv = map[string]string{
	"WC_SITE_URL":        "commerce.site_url",
	"WC_CONSUMER_KEY":    "commerce.consumer_key",
	"WC_CONSUMER_SECRET": "commerce.consumer_secret",
}

// Load layers defaults, an optional YAML file named by STOREFRONT_CONFIG,
// STOREFRONT_* variables (double underscore nests) and the legacy WC_*
// variables. Missing commerce credentials are not an error.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// e.g. STOREFRONT_COMMERCE__SITE_URL, STOREFRONT_REDIS__ENABLED
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		if s == envPrefix+"CONFIG" {
			return ""
		}
		if key, ok := shortEnv[s]; ok {
			return key
		}
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	if err := k.Load(env.Provider("WC_", ".", func(s string) string {
		return legacyEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("legacy env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.Client.APIURL == "" {
		return fmt.Errorf("client.api_url must not be empty")
	}
	c.Commerce.SiteURL = strings.TrimRight(c.Commerce.SiteURL, "/")
	c.Client.APIURL = strings.TrimRight(c.Client.APIURL, "/")
	return nil
}
