package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/invoice-engine/internal/application/port"
	"github.com/garyjia/invoice-engine/internal/domain/billing"
	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/pkg/money"
)

// InvoiceDefaults seeds a blank invoice form
type InvoiceDefaults struct {
	PaymentTermsDays int
	RoundOff         bool
	BillDiscountType entity.BillDiscountType
	TaxPercent       float64
}

// RecomputeResult pairs the refreshed form with its derived totals
type RecomputeResult struct {
	Form   entity.InvoiceForm   `json:"form"`
	Totals entity.DerivedTotals `json:"totals"`
}

// DraftView is a stored draft with freshly computed totals
type DraftView struct {
	Draft  *entity.InvoiceDraft `json:"draft"`
	Totals entity.DerivedTotals `json:"totals"`
}

// InvoiceService owns the invoice form lifecycle: blank forms, recompute on
// every edit, and draft persistence.
type InvoiceService interface {
	NewForm(ctx context.Context) entity.InvoiceForm
	Recompute(ctx context.Context, form entity.InvoiceForm) *RecomputeResult
	SaveDraft(ctx context.Context, id int64, form entity.InvoiceForm) (*DraftView, error)
	GetDraft(ctx context.Context, id int64) (*DraftView, error)
	ListDrafts(ctx context.Context, limit, offset int) ([]*entity.InvoiceDraft, error)
	DeleteDraft(ctx context.Context, id int64) error
}

type invoiceServiceImpl struct {
	draftRepo port.DraftRepository
	txManager port.TransactionManager
	defaults  InvoiceDefaults
	now       func() time.Time
	logger    Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	draftRepo port.DraftRepository,
	txManager port.TransactionManager,
	defaults InvoiceDefaults,
	now func() time.Time,
	logger Logger,
) InvoiceService {
	if now == nil {
		now = time.Now
	}
	return &invoiceServiceImpl{
		draftRepo: draftRepo,
		txManager: txManager,
		defaults:  defaults,
		now:       now,
		logger:    logger,
	}
}

// NewForm returns a blank form dated today with one empty row
func (s *invoiceServiceImpl) NewForm(ctx context.Context) entity.InvoiceForm {
	discountType := s.defaults.BillDiscountType
	if !discountType.IsValid() {
		discountType = entity.BillDiscountBeforeTax
	}

	return entity.InvoiceForm{
		Items: []entity.InvoiceLineItem{{
			LastEditedDiscountField: entity.EditedPercent,
			TaxPercent:              money.Number(s.defaults.TaxPercent),
			DiscountSource:          entity.DiscountSourceItem,
		}},
		AdditionalCharges: []entity.AdditionalCharge{},
		BillDiscountType:  discountType,
		BillLastEdited:    entity.EditedPercent,
		RoundOff:          s.defaults.RoundOff,
		RoundOffType:      entity.RoundOffAdd,
		InvoiceDate:       s.now().Format(entity.DateLayout),
		PaymentTermsDays:  money.Number(s.defaults.PaymentTermsDays),
	}
}

// Recompute runs the invoice pipeline and returns the refreshed form with it
func (s *invoiceServiceImpl) Recompute(ctx context.Context, form entity.InvoiceForm) *RecomputeResult {
	totals := billing.Recompute(form)
	return &RecomputeResult{
		Form:   billing.ApplyTotals(form, totals),
		Totals: totals,
	}
}

// SaveDraft stores the form, creating a draft when id is 0
func (s *invoiceServiceImpl) SaveDraft(ctx context.Context, id int64, form entity.InvoiceForm) (*DraftView, error) {
	if id < 0 {
		return nil, ErrInvalidDraftID
	}

	result := s.Recompute(ctx, form)
	draft := &entity.InvoiceDraft{
		ID:            id,
		InvoiceNumber: form.InvoiceNumber,
		CustomerID:    form.CustomerID,
		Form:          result.Form,
		Total:         result.Totals.Total,
		BalanceAmount: result.Totals.BalanceAmount,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if id == 0 {
			return s.draftRepo.Create(txCtx, draft)
		}

		existing, err := s.draftRepo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}
		if existing == nil {
			return ErrDraftNotFound
		}
		draft.CreatedAt = existing.CreatedAt
		return s.draftRepo.Update(txCtx, draft)
	})
	if err != nil {
		s.logger.Error("Failed to save invoice draft", "error", err, "draft_id", id)
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.logger.Info("Invoice draft saved",
		"draft_id", draft.ID,
		"invoice_number", draft.InvoiceNumber,
		"total", draft.Total)

	return &DraftView{Draft: draft, Totals: result.Totals}, nil
}

// GetDraft loads a draft and recomputes its totals
func (s *invoiceServiceImpl) GetDraft(ctx context.Context, id int64) (*DraftView, error) {
	if id <= 0 {
		return nil, ErrInvalidDraftID
	}

	draft, err := s.draftRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get invoice draft", "error", err, "draft_id", id)
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}

	totals := billing.Recompute(draft.Form)
	return &DraftView{Draft: draft, Totals: totals}, nil
}

// ListDrafts lists stored drafts, most recently updated first
func (s *invoiceServiceImpl) ListDrafts(ctx context.Context, limit, offset int) ([]*entity.InvoiceDraft, error) {
	drafts, err := s.draftRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list invoice drafts", "error", err)
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// DeleteDraft removes a draft
func (s *invoiceServiceImpl) DeleteDraft(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidDraftID
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.draftRepo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}
		if existing == nil {
			return ErrDraftNotFound
		}
		return s.draftRepo.Delete(txCtx, id)
	})
	if err != nil {
		s.logger.Error("Failed to delete invoice draft", "error", err, "draft_id", id)
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	s.logger.Info("Invoice draft deleted", "draft_id", id)
	return nil
}
