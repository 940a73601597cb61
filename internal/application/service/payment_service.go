package service

import (
	"context"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/internal/domain/settlement"
	"github.com/garyjia/invoice-engine/pkg/money"
)

// PaymentSummary is the running state of a payment allocation
type PaymentSummary struct {
	TotalAmount float64 `json:"total_amount"`
	UsedAmount  float64 `json:"used_amount"`
	Balance     float64 `json:"balance"`
	CanSubmit   bool    `json:"can_submit"`
}

// PaymentService applies user edits to a payment's settlement rows and builds
// the settlement payload.
type PaymentService interface {
	Normalize(ctx context.Context, rows []entity.SettlementCandidate) []entity.SettlementCandidate
	Toggle(ctx context.Context, rows []entity.SettlementCandidate, index int) []entity.SettlementCandidate
	SetApplyAmount(ctx context.Context, rows []entity.SettlementCandidate, index int, value float64) ([]entity.SettlementCandidate, money.Correction)
	AutoDistribute(ctx context.Context, rows []entity.SettlementCandidate, totalAmount float64) []entity.SettlementCandidate
	Summarize(ctx context.Context, form entity.PaymentForm) PaymentSummary
	BuildSettlement(ctx context.Context, form entity.PaymentForm) (*entity.SettlementPayload, error)
}

type paymentServiceImpl struct {
	logger Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(logger Logger) PaymentService {
	return &paymentServiceImpl{logger: logger}
}

func (s *paymentServiceImpl) Normalize(ctx context.Context, rows []entity.SettlementCandidate) []entity.SettlementCandidate {
	return settlement.Normalize(rows)
}

func (s *paymentServiceImpl) Toggle(ctx context.Context, rows []entity.SettlementCandidate, index int) []entity.SettlementCandidate {
	return settlement.Toggle(rows, index)
}

// SetApplyAmount clamps the typed amount and logs when it had to be corrected
func (s *paymentServiceImpl) SetApplyAmount(ctx context.Context, rows []entity.SettlementCandidate, index int, value float64) ([]entity.SettlementCandidate, money.Correction) {
	out, correction := settlement.SetApplyAmount(rows, index, value)
	if !correction.OK {
		s.logger.Info("Apply amount corrected",
			"index", index,
			"requested", value,
			"corrected", correction.Corrected)
	}
	return out, correction
}

func (s *paymentServiceImpl) AutoDistribute(ctx context.Context, rows []entity.SettlementCandidate, totalAmount float64) []entity.SettlementCandidate {
	return settlement.AutoDistribute(rows, totalAmount)
}

// Summarize reports used amount, remaining balance and submission readiness
func (s *paymentServiceImpl) Summarize(ctx context.Context, form entity.PaymentForm) PaymentSummary {
	total := form.TotalAmount.Float()
	return PaymentSummary{
		TotalAmount: total,
		UsedAmount:  settlement.UsedAmount(form.Candidates),
		Balance:     settlement.Balance(total, form.Candidates),
		CanSubmit:   settlement.CanSubmit(form),
	}
}

// BuildSettlement builds the payload for a submittable payment
func (s *paymentServiceImpl) BuildSettlement(ctx context.Context, form entity.PaymentForm) (*entity.SettlementPayload, error) {
	if !settlement.CanSubmit(form) {
		s.logger.Error("Payment not submittable",
			"customer_id", form.CustomerID,
			"total_amount", form.TotalAmount.Float())
		return nil, ErrPaymentNotSubmittable
	}

	payload := settlement.BuildPayload(form, form.Candidates)

	s.logger.Info("Settlement payload built",
		"customer_id", payload.CustomerID,
		"total_amount", payload.TotalAmount,
		"settlements", len(payload.Settlements),
		"unallocated", settlement.Balance(payload.TotalAmount, form.Candidates))

	return &payload, nil
}
