package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Shopify ShopifyConfig
	Stock   StockConfig
	Pacing  PacingConfig
	Retry   RetryConfig
	Cache   CacheConfig
	Email   EmailConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ShopifyConfig holds Shopify Admin API configuration
type ShopifyConfig struct {
	ShopDomain        string        `mapstructure:"shop_domain"`
	AccessToken       string        `mapstructure:"access_token"`
	APIVersion        string        `mapstructure:"api_version"`
	BaseURL           string        `mapstructure:"base_url"` // overrides the URL derived from domain and version
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// StockConfig holds the zero-stock run settings
type StockConfig struct {
	ExcludedProductIDs []int64 `mapstructure:"excluded_product_ids"`
}

// PacingConfig holds the delays between sequential API calls
type PacingConfig struct {
	PageDelay   time.Duration `mapstructure:"page_delay"`
	BatchDelay  time.Duration `mapstructure:"batch_delay"`
	UpdateDelay time.Duration `mapstructure:"update_delay"`
	BatchSize   int           `mapstructure:"batch_size"`
}

// RetryConfig holds the 429 retry policy
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	DefaultDelay time.Duration `mapstructure:"default_delay"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TitleTTL time.Duration `mapstructure:"title_ttl"`
}

// EmailConfig holds the SendGrid report settings
type EmailConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	SendGridAPIKey string   `mapstructure:"sendgrid_api_key"`
	From           string   `mapstructure:"from"`
	To             []string `mapstructure:"to"`
}

// APIBaseURL returns the Admin API root, e.g. https://shop.myshopify.com/admin/api/2025-01
func (c ShopifyConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s/admin/api/%s", c.ShopDomain, c.APIVersion)
}

// Load loads configuration from .env, environment variables and config files.
// Extra directories are searched for config.yaml before the default locations.
func Load(configDirs ...string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range configDirs {
		if dir != "" {
			v.AddConfigPath(dir)
		}
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stockmanager/")

	// shopify.shop_domain <- SHOPIFY_SHOP_DOMAIN
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory if there is one.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default so env vars are picked up on Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"tauri://localhost", "http://localhost:1420"})

	// Shopify defaults
	v.SetDefault("shopify.shop_domain", "")
	v.SetDefault("shopify.access_token", "")
	v.SetDefault("shopify.api_version", "2025-01")
	v.SetDefault("shopify.base_url", "")
	v.SetDefault("shopify.requests_per_second", 2.0)
	v.SetDefault("shopify.burst", 40)
	v.SetDefault("shopify.timeout", "30s")

	v.SetDefault("stock.excluded_product_ids", []int64{3587363962985})

	// Pacing defaults
	v.SetDefault("pacing.page_delay", "500ms")
	v.SetDefault("pacing.batch_delay", "500ms")
	v.SetDefault("pacing.update_delay", "250ms")
	v.SetDefault("pacing.batch_size", 50)

	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.default_delay", "1s")

	v.SetDefault("cache.title_ttl", "24h")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.sendgrid_api_key", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.to", []string{})
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Shopify.ShopDomain == "" && config.Shopify.BaseURL == "" {
		return fmt.Errorf("Shopify shop domain is required (set SHOPIFY_SHOP_DOMAIN)")
	}

	if config.Shopify.AccessToken == "" {
		return fmt.Errorf("Shopify access token is required (set SHOPIFY_ACCESS_TOKEN)")
	}

	if config.Shopify.RequestsPerSecond <= 0 {
		return fmt.Errorf("shopify.requests_per_second must be positive, got: %v", config.Shopify.RequestsPerSecond)
	}

	if config.Pacing.BatchSize < 1 || config.Pacing.BatchSize > 250 {
		return fmt.Errorf("pacing.batch_size must be between 1 and 250, got: %d", config.Pacing.BatchSize)
	}

	if config.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got: %d", config.Retry.MaxAttempts)
	}

	if config.Email.Enabled {
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required when email is enabled (set EMAIL_SENDGRID_API_KEY)")
		}
		if config.Email.From == "" || len(config.Email.To) == 0 {
			return fmt.Errorf("email.from and email.to are required when email is enabled")
		}
	}

	return nil
}
