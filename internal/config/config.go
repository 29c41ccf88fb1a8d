package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var of the same name.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"`

	// Mini Mart backend
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`
	CatalogCacheSecs  int    `mapstructure:"CATALOG_CACHE_SECONDS"`
	BreakerFailures   int    `mapstructure:"BREAKER_FAILURES"`
	BreakerOpenSecs   int    `mapstructure:"BREAKER_OPEN_SECONDS"`

	// Storage
	StoreDriver string `mapstructure:"STORE_DRIVER"` // redis | memory
	RedisURL    string `mapstructure:"REDIS_URL"`
	// DatabaseURL is optional; empty keeps the receipt journal in memory
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Session
	SessionCookie   string `mapstructure:"SESSION_COOKIE"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
	CookieSecure    bool   `mapstructure:"COOKIE_SECURE"`

	// Point of sale
	StoreName             string `mapstructure:"STORE_NAME"`
	LowStockThreshold     int    `mapstructure:"LOW_STOCK_THRESHOLD"`
	SearchSuggestionLimit int    `mapstructure:"SEARCH_SUGGESTION_LIMIT"`
	CurrencySymbol        string `mapstructure:"CURRENCY_SYMBOL"`
	DefaultUserID         int64  `mapstructure:"DEFAULT_USER_ID"`
	DefaultLocationID     int64  `mapstructure:"DEFAULT_LOCATION_ID"`
	BranchName            string `mapstructure:"BRANCH_NAME"`
	CashierName           string `mapstructure:"CASHIER_NAME"`
	ReceiptFooter         string `mapstructure:"RECEIPT_FOOTER"`

	// Receipts
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`
	SMTPHost       string `mapstructure:"SMTP_HOST"`
	SMTPPort       int    `mapstructure:"SMTP_PORT"`
	SMTPUser       string `mapstructure:"SMTP_USER"`
	SMTPPassword   string `mapstructure:"SMTP_PASSWORD"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("API_BASE_URL", "http://localhost:8085")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("CATALOG_CACHE_SECONDS", 30)
	viper.SetDefault("BREAKER_FAILURES", 5)
	viper.SetDefault("BREAKER_OPEN_SECONDS", 30)
	viper.SetDefault("STORE_DRIVER", "redis")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SESSION_COOKIE", "minimart_session")
	viper.SetDefault("SESSION_TTL_HOURS", 8)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("STORE_NAME", "Mini Mart")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 15)
	viper.SetDefault("SEARCH_SUGGESTION_LIMIT", 8)
	viper.SetDefault("CURRENCY_SYMBOL", "$")
	viper.SetDefault("DEFAULT_USER_ID", 1)
	viper.SetDefault("DEFAULT_LOCATION_ID", 1)
	viper.SetDefault("BRANCH_NAME", "Main Branch")
	viper.SetDefault("CASHIER_NAME", "Cashier")
	viper.SetDefault("RECEIPT_FOOTER", "Thank you for shopping with us!")
	viper.SetDefault("PDF_STORAGE_PATH", "/tmp/minimart/receipts")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")

	// Optional .env file for local development, missing file is fine
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// EmailEnabled reports whether receipts can be mailed (SMTP_HOST is set).
func (c *Config) EmailEnabled() bool { return c.SMTPHost != "" }

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheSecs) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
