// Package container provides dependency injection and lifecycle management
// for the invoice engine following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Billing defaults for new forms and draft listing
	Billing BillingConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file, or ":memory:"
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir is the path to migration files. Empty uses the embedded set.
	MigrationsDir string
}

// BillingConfig holds invoice form defaults.
type BillingConfig struct {
	PaymentTermsDays int
	RoundOff         bool
	BillDiscountType entity.BillDiscountType
	TaxPercent       float64

	// DraftListLimit caps a single page of the draft list
	DraftListLimit int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/invoices.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			MigrationsDir:   "migrations",
		},
		Billing: BillingConfig{
			PaymentTermsDays: 30,
			RoundOff:         true,
			BillDiscountType: entity.BillDiscountBeforeTax,
			DraftListLimit:   20,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Billing.PaymentTermsDays < 0 {
		return fmt.Errorf("payment terms days must not be negative")
	}
	if !c.Billing.BillDiscountType.IsValid() {
		return fmt.Errorf("unknown bill discount type: %q", c.Billing.BillDiscountType)
	}
	if c.Billing.DraftListLimit <= 0 {
		return fmt.Errorf("draft list limit must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	return nil
}
