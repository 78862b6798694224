package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Shopify    ShopifyConfig
	Webhook    WebhookConfig
	Classifier ClassifierConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds preview API server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ShopifyConfig holds catalog admin API configuration
type ShopifyConfig struct {
	ShopDomain string        `mapstructure:"shop_domain"`
	AdminToken string        `mapstructure:"admin_token"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// WebhookConfig holds description generation service configuration
type WebhookConfig struct {
	URL         string        `mapstructure:"url"`
	BearerToken string        `mapstructure:"bearer_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ClassifierConfig holds the legacy-description detection thresholds.
// SignalPhrases overrides the built-in phrase list when non-empty.
type ClassifierConfig struct {
	EditorNoteMaxWords  int      `mapstructure:"editor_note_max_words"`
	LegacyCharThreshold int      `mapstructure:"legacy_char_threshold"`
	LegacyWordThreshold int      `mapstructure:"legacy_word_threshold"`
	MinSignalPhrases    int      `mapstructure:"min_signal_phrases"`
	SignalPhrases       []string `mapstructure:"signal_phrases"`
}

// CacheConfig holds product cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds outbound request rates in requests per second
type RateLimitConfig struct {
	Shopify float64 `mapstructure:"shopify"`
	Webhook float64 `mapstructure:"webhook"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/backfill/")

	// Environment variable settings
	v.SetEnvPrefix("BACKFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Shopify defaults. Credentials default empty so the keys are
	// registered and environment overrides reach Unmarshal.
	v.SetDefault("shopify.shop_domain", "")
	v.SetDefault("shopify.admin_token", "")
	v.SetDefault("shopify.api_version", "2025-07")
	v.SetDefault("shopify.timeout", "120s")

	// Webhook defaults
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.bearer_token", "")
	v.SetDefault("webhook.timeout", "120s")

	// Classifier defaults (thresholds mirror the legacy Mechanic rule)
	v.SetDefault("classifier.editor_note_max_words", 50)
	v.SetDefault("classifier.legacy_char_threshold", 1200)
	v.SetDefault("classifier.legacy_word_threshold", 180)
	v.SetDefault("classifier.min_signal_phrases", 1)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Rate limit defaults (requests per second)
	v.SetDefault("ratelimit.shopify", 2.0)
	v.SetDefault("ratelimit.webhook", 1.0)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Shopify.ShopDomain == "" {
		return fmt.Errorf("shop domain is required (set BACKFILL_SHOPIFY_SHOP_DOMAIN)")
	}

	if config.Shopify.AdminToken == "" {
		return fmt.Errorf("admin token is required (set BACKFILL_SHOPIFY_ADMIN_TOKEN)")
	}

	if config.Webhook.URL == "" {
		return fmt.Errorf("webhook URL is required (set BACKFILL_WEBHOOK_URL)")
	}

	if config.Webhook.BearerToken == "" {
		return fmt.Errorf("webhook bearer token is required (set BACKFILL_WEBHOOK_BEARER_TOKEN)")
	}

	if config.Classifier.MinSignalPhrases < 1 {
		return fmt.Errorf("classifier.min_signal_phrases must be at least 1, got: %d", config.Classifier.MinSignalPhrases)
	}

	return nil
}
