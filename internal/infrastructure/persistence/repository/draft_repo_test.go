package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/invoice-engine/pkg/database"
)

func setupDraftDB(t *testing.T) (*database.DB, *zap.Logger) {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations("../../../../migrations"))
	return db, logger
}

func sampleDraft() *entity.InvoiceDraft {
	return &entity.InvoiceDraft{
		InvoiceNumber: "INV-7",
		CustomerID:    12,
		Form: entity.InvoiceForm{
			InvoiceNumber: "INV-7",
			CustomerID:    12,
			Items: []entity.InvoiceLineItem{
				{ItemName: "Widget", Quantity: 2, Price: 19.99, TaxPercent: 18, LastEditedDiscountField: entity.EditedPercent},
			},
			BillDiscountType: entity.BillDiscountAfterTax,
			InvoiceDate:      "2024-04-01",
			PaymentTermsDays: 7,
		},
		Total:         47.18,
		BalanceAmount: 47.18,
	}
}

func TestDraftRepository_CRUD(t *testing.T) {
	db, logger := setupDraftDB(t)
	repo := NewDraftRepository(db.DB, logger)
	ctx := context.Background()

	draft := sampleDraft()
	require.NoError(t, repo.Create(ctx, draft))
	assert.NotZero(t, draft.ID)
	assert.False(t, draft.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INV-7", got.InvoiceNumber)
	assert.Equal(t, int64(12), got.CustomerID)
	assert.Equal(t, 47.18, got.Total)
	assert.Equal(t, draft.Form, got.Form)

	got.Form.AmountReceived = 47.18
	got.BalanceAmount = 0
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.BalanceAmount)
	assert.Equal(t, 47.18, updated.Form.AmountReceived.Float())

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, draft.ID))
	missing, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDraftRepository_UpdateMissing(t *testing.T) {
	db, logger := setupDraftDB(t)
	repo := NewDraftRepository(db.DB, logger)

	draft := sampleDraft()
	draft.ID = 404
	assert.Error(t, repo.Update(context.Background(), draft))
}

func TestDraftRepository_ListPaging(t *testing.T) {
	db, logger := setupDraftDB(t)
	repo := NewDraftRepository(db.DB, logger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, sampleDraft()))
	}

	first, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	rest, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestDraftRepository_RollbackInsideTransaction(t *testing.T) {
	db, logger := setupDraftDB(t)
	repo := NewDraftRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)
	ctx := context.Background()

	failure := errors.New("abort")
	var createdID int64
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		draft := sampleDraft()
		if err := repo.Create(txCtx, draft); err != nil {
			return err
		}
		createdID = draft.ID
		return failure
	})
	require.ErrorIs(t, err, failure)

	got, err := repo.GetByID(ctx, createdID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
