package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	TenantID     string

	// Local offline queue storage.
	QueueDBPath string

	// Settlement tunables.
	CheckoutTimeout    time.Duration
	OfflineGraceWindow time.Duration
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration
	// RetryTickInterval drives the periodic background replay of the
	// offline queue. Zero disables the tick.
	RetryTickInterval time.Duration

	// NotifyEnabled controls the store change-notification listener.
	NotifyEnabled bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("TENANT_ID", "")
	viper.SetDefault("QUEUE_DB_PATH", "folio_queue.db")
	viper.SetDefault("CHECKOUT_TIMEOUT", "30s")
	viper.SetDefault("OFFLINE_GRACE_WINDOW", "24h")
	viper.SetDefault("RETRY_BASE_DELAY", "1s")
	viper.SetDefault("RETRY_MAX_DELAY", "2m")
	viper.SetDefault("RETRY_TICK_INTERVAL", "30s")
	viper.SetDefault("NOTIFY_ENABLED", true)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.TenantID = viper.GetString("TENANT_ID")
	if cfg.TenantID == "" {
		log.Println("Warning: TENANT_ID environment variable not set.")
	}

	cfg.QueueDBPath = viper.GetString("QUEUE_DB_PATH")

	cfg.CheckoutTimeout = parseDuration("CHECKOUT_TIMEOUT", 30*time.Second)
	cfg.OfflineGraceWindow = parseDuration("OFFLINE_GRACE_WINDOW", 24*time.Hour)
	cfg.RetryBaseDelay = parseDuration("RETRY_BASE_DELAY", time.Second)
	cfg.RetryMaxDelay = parseDuration("RETRY_MAX_DELAY", 2*time.Minute)
	cfg.RetryTickInterval = parseDuration("RETRY_TICK_INTERVAL", 30*time.Second)

	cfg.NotifyEnabled = viper.GetBool("NOTIFY_ENABLED")

	return cfg, nil
}

// parseDuration reads a duration setting, falling back to the default on an
// unparseable value.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
