package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
)

func TestPaymentService_Flow(t *testing.T) {
	ctx := context.Background()
	logger := &mockLogger{}
	svc := NewPaymentService(logger)

	rows := svc.Normalize(ctx, []entity.SettlementCandidate{
		{InvoiceID: 1, InvoiceTotal: 500, TotalPaid: 200},
		{InvoiceID: 2, InvoiceTotal: 120},
	})
	rows = svc.Toggle(ctx, rows, 0)
	rows = svc.Toggle(ctx, rows, 1)
	rows = svc.AutoDistribute(ctx, rows, 350)

	assert.Equal(t, 300.0, rows[0].ApplyAmount.Float())
	assert.Equal(t, 50.0, rows[1].ApplyAmount.Float())

	form := entity.PaymentForm{CustomerID: 5, TotalAmount: 400, Candidates: rows}
	summary := svc.Summarize(ctx, form)
	assert.Equal(t, 350.0, summary.UsedAmount)
	assert.Equal(t, 50.0, summary.Balance)
	assert.True(t, summary.CanSubmit)

	payload, err := svc.BuildSettlement(ctx, form)
	require.NoError(t, err)
	assert.Len(t, payload.Settlements, 2)
	assert.Contains(t, logger.infos, "Settlement payload built")
}

func TestPaymentService_SetApplyAmountLogsCorrection(t *testing.T) {
	ctx := context.Background()
	logger := &mockLogger{}
	svc := NewPaymentService(logger)

	rows := svc.Normalize(ctx, []entity.SettlementCandidate{{InvoiceID: 1, InvoiceTotal: 80}})

	rows, correction := svc.SetApplyAmount(ctx, rows, 0, 50)
	assert.True(t, correction.OK)
	assert.Empty(t, logger.infos)

	rows, correction = svc.SetApplyAmount(ctx, rows, 0, 90)
	assert.False(t, correction.OK)
	assert.Equal(t, 80.0, correction.Corrected)
	assert.Equal(t, 80.0, rows[0].ApplyAmount.Float())
	assert.Equal(t, []string{"Apply amount corrected"}, logger.infos)
}

func TestPaymentService_BuildSettlementRejectsIncompleteForm(t *testing.T) {
	tests := []struct {
		name string
		form entity.PaymentForm
	}{
		{"missing customer", entity.PaymentForm{TotalAmount: 100}},
		{"missing amount", entity.PaymentForm{CustomerID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			svc := NewPaymentService(logger)

			payload, err := svc.BuildSettlement(context.Background(), tt.form)
			assert.Nil(t, payload)
			assert.ErrorIs(t, err, ErrPaymentNotSubmittable)
			assert.Len(t, logger.errors, 1)
		})
	}
}
