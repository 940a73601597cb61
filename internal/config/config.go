package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Billing  BillingConfig  `mapstructure:"billing"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// BillingConfig holds the defaults a blank invoice form starts from
type BillingConfig struct {
	DefaultPaymentTermsDays int     `mapstructure:"default_payment_terms_days"`
	DefaultRoundOff         bool    `mapstructure:"default_round_off"`
	DefaultBillDiscountType string  `mapstructure:"default_bill_discount_type"`
	DefaultTaxPercent       float64 `mapstructure:"default_tax_percent"`
	DraftListLimit          int     `mapstructure:"draft_list_limit"`
}

// Load loads configuration from file and environment variables.
// An empty configPath skips the file and uses defaults plus environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/invoices.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "migrations")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Billing defaults
	v.SetDefault("billing.default_payment_terms_days", 30)
	v.SetDefault("billing.default_round_off", true)
	v.SetDefault("billing.default_bill_discount_type", string(entity.BillDiscountBeforeTax))
	v.SetDefault("billing.default_tax_percent", 0)
	v.SetDefault("billing.draft_list_limit", 20)
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.path", "INVOICE_DB_PATH")
	v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Billing.DefaultPaymentTermsDays < 0 {
		return fmt.Errorf("billing.default_payment_terms_days must not be negative")
	}
	if c.Billing.DefaultTaxPercent < 0 {
		return fmt.Errorf("billing.default_tax_percent must not be negative")
	}
	if !entity.BillDiscountType(c.Billing.DefaultBillDiscountType).IsValid() {
		return fmt.Errorf("billing.default_bill_discount_type must be %q or %q",
			entity.BillDiscountBeforeTax, entity.BillDiscountAfterTax)
	}
	if c.Billing.DraftListLimit <= 0 {
		return fmt.Errorf("billing.draft_list_limit must be positive")
	}
	return nil
}

// BillDiscountType returns the configured default as a typed value
func (b BillingConfig) BillDiscountType() entity.BillDiscountType {
	return entity.BillDiscountType(b.DefaultBillDiscountType)
}
