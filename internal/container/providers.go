package container

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/invoice-engine/internal/application/port"
	"github.com/garyjia/invoice-engine/internal/application/service"
	"github.com/garyjia/invoice-engine/internal/infrastructure/persistence/repository"
	"github.com/garyjia/invoice-engine/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/invoice-engine/migrations"
	"github.com/garyjia/invoice-engine/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Draft port.DraftRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Invoice service.InvoiceService
	Payment service.PaymentService
}

// ServiceDeps contains dependencies for creating services.
type ServiceDeps struct {
	Repositories *RepositoryBundle
	TxManager    port.TransactionManager
	Billing      BillingConfig
	Now          func() time.Time
	Logger       *zap.Logger
}

// ProvideDatabase opens the database, runs pending migrations and wraps the
// connection in a transaction manager.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrationsFS(migrations.FS)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Draft: repository.NewDraftRepository(sqlDB, logger),
	}, nil
}

// ProvideServices creates the application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repositories == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	defaults := service.InvoiceDefaults{
		PaymentTermsDays: deps.Billing.PaymentTermsDays,
		RoundOff:         deps.Billing.RoundOff,
		BillDiscountType: deps.Billing.BillDiscountType,
		TaxPercent:       deps.Billing.TaxPercent,
	}

	return &ServiceBundle{
		Invoice: service.NewInvoiceService(
			deps.Repositories.Draft,
			deps.TxManager,
			defaults,
			deps.Now,
			serviceLogger,
		),
		Payment: service.NewPaymentService(serviceLogger),
	}, nil
}
