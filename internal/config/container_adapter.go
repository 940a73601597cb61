package config

import (
	"github.com/garyjia/invoice-engine/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Billing: container.BillingConfig{
			PaymentTermsDays: c.Billing.DefaultPaymentTermsDays,
			RoundOff:         c.Billing.DefaultRoundOff,
			BillDiscountType: c.Billing.BillDiscountType(),
			TaxPercent:       c.Billing.DefaultTaxPercent,
			DraftListLimit:   c.Billing.DraftListLimit,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
	}
}
