package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Shopify   ShopifyConfig
	SmartBill SmartBillConfig
	Sync      SyncConfig
	Settings  SettingsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// ShopifyConfig holds storefront API settings
type ShopifyConfig struct {
	StoreDomain   string
	APIVersion    string
	AccessToken   string
	LocationID    string // optional; "########" is treated as unset
	WebhookSecret string
	Timeout       time.Duration
}

// SmartBillConfig holds invoicing provider settings
type SmartBillConfig struct {
	APIBase          string
	Token            string
	VATCode          string
	DefaultSeries    string
	DefaultWarehouse string
	Timeout          time.Duration
}

// SyncConfig holds webhook automation flags and the stock job schedule
type SyncConfig struct {
	AutoInvoice    bool
	AutoCreditNote bool
	StockEnabled   bool
	StockInterval  time.Duration
	StockBatchSize int
}

// SettingsConfig selects the settings store backend
type SettingsConfig struct {
	Backend string // file or sqlite
	Path    string // JSON document path for the file backend
	DSN     string // sqlite path for the sqlite backend
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with BILLSYNC_ prefix (e.g. BILLSYNC_SHOPIFY_ACCESS_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BILLSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans whose zero value is not the desired default
	v.SetDefault("sync.stock_enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:   v.GetString("shopify.store_domain"),
			APIVersion:    v.GetString("shopify.api_version"),
			AccessToken:   v.GetString("shopify.access_token"),
			LocationID:    v.GetString("shopify.location_id"),
			WebhookSecret: v.GetString("shopify.webhook_secret"),
			Timeout:       v.GetDuration("shopify.timeout"),
		},
		SmartBill: SmartBillConfig{
			APIBase:          v.GetString("smartbill.api_base"),
			Token:            v.GetString("smartbill.token"),
			VATCode:          v.GetString("smartbill.vat_code"),
			DefaultSeries:    v.GetString("smartbill.default_series"),
			DefaultWarehouse: v.GetString("smartbill.default_warehouse"),
			Timeout:          v.GetDuration("smartbill.timeout"),
		},
		Sync: SyncConfig{
			AutoInvoice:    v.GetBool("sync.auto_invoice"),
			AutoCreditNote: v.GetBool("sync.auto_credit_note"),
			StockEnabled:   v.GetBool("sync.stock_enabled"),
			StockInterval:  v.GetDuration("sync.stock_interval"),
			StockBatchSize: v.GetInt("sync.stock_batch_size"),
		},
		Settings: SettingsConfig{
			Backend: v.GetString("settings.backend"),
			Path:    v.GetString("settings.path"),
			DSN:     v.GetString("settings.dsn"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "billsync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "10000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-10"
	}
	if cfg.Shopify.Timeout == 0 {
		cfg.Shopify.Timeout = 20 * time.Second
	}
	if cfg.SmartBill.APIBase == "" {
		cfg.SmartBill.APIBase = "https://api.smartbill.ro"
	}
	if cfg.SmartBill.DefaultSeries == "" {
		cfg.SmartBill.DefaultSeries = "SB"
	}
	if cfg.SmartBill.Timeout == 0 {
		cfg.SmartBill.Timeout = 20 * time.Second
	}
	if cfg.Sync.StockInterval == 0 {
		cfg.Sync.StockInterval = time.Minute
	}
	if cfg.Sync.StockBatchSize == 0 {
		cfg.Sync.StockBatchSize = 250
	}
	if cfg.Settings.Backend == "" {
		cfg.Settings.Backend = "file"
	}
	if cfg.Settings.Path == "" {
		cfg.Settings.Path = "data/settings.json"
	}
	if cfg.Settings.DSN == "" {
		cfg.Settings.DSN = "data/settings.db"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Settings.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("settings.backend must be 'file' or 'sqlite', got %q", c.Settings.Backend)
	}
	if c.Sync.StockBatchSize < 0 {
		return fmt.Errorf("sync.stock_batch_size cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Shopify.StoreDomain == "" {
			return fmt.Errorf("shopify.store_domain is required in production")
		}
		if c.Shopify.AccessToken == "" {
			return fmt.Errorf("shopify.access_token is required in production")
		}
		if c.Shopify.WebhookSecret == "" {
			return fmt.Errorf("shopify.webhook_secret is required in production")
		}
		if c.SmartBill.Token == "" {
			return fmt.Errorf("smartbill.token is required in production")
		}
		if c.SmartBill.VATCode == "" {
			return fmt.Errorf("smartbill.vat_code is required in production")
		}
	}

	return nil
}
