package container

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Database.MaxOpenConns = 1
	cfg.Database.MaxIdleConns = 1
	cfg.Database.MigrationsDir = "../../migrations"
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	logger := zap.NewNop()

	_, err := NewContainer(nil, logger)
	assert.Error(t, err)

	_, err = NewContainer(testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Billing.BillDiscountType = "sideways"
	_, err = NewContainer(cfg, logger)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Billing.DraftListLimit = 0
	_, err = NewContainer(cfg, logger)
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	c, err := NewContainer(testConfig(), zap.NewNop(), WithClock(now))
	require.NoError(t, err)

	assert.False(t, c.Ready())
	assert.False(t, c.Health().Overall)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(context.Background()))

	health := c.Health()
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)

	ctx := context.Background()
	invoices := c.Services().Invoice

	form := invoices.NewForm(ctx)
	assert.Equal(t, "2024-06-01", form.InvoiceDate)
	assert.Equal(t, 30.0, form.PaymentTermsDays.Float())

	form.Items[0].Quantity = 3
	form.Items[0].Price = 10
	saved, err := invoices.SaveDraft(ctx, 0, form)
	require.NoError(t, err)
	assert.Equal(t, 30.0, saved.Totals.Total)
	assert.Equal(t, "2024-07-01", saved.Totals.DueDate)

	stored, err := c.Repositories().Draft.GetByID(ctx, saved.Draft.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.BillDiscountBeforeTax, stored.Form.BillDiscountType)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.False(t, c.Health().Overall)
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(context.Background()))
}

func TestContainer_StartFailsOnMissingMigrations(t *testing.T) {
	cfg := testConfig()
	cfg.Database.MigrationsDir = "does-not-exist"

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, c.Start(context.Background()))
	assert.False(t, c.Ready())
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields("id", 7, 42, "ignored", "error", errors.New("boom"), "dangling")

	require.Len(t, fields, 2)
	assert.Equal(t, "id", fields[0].Key)
	assert.Equal(t, "error", fields[1].Key)
}

func TestContainer_EmbeddedMigrations(t *testing.T) {
	cfg := testConfig()
	cfg.Database.MigrationsDir = ""

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	drafts, err := c.Services().Invoice.ListDrafts(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
