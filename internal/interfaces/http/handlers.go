package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/garyjia/invoice-engine/internal/application/service"
	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/pkg/money"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoiceService service.InvoiceService
	paymentService service.PaymentService
	draftListLimit int
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	draftListLimit int,
	logger Logger,
) *Handlers {
	if draftListLimit <= 0 {
		draftListLimit = DefaultServerConfig().DraftListLimit
	}
	return &Handlers{
		invoiceService: invoiceService,
		paymentService: paymentService,
		draftListLimit: draftListLimit,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// DraftSummary is one entry of the draft list
type DraftSummary struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	CustomerID    int64   `json:"customer_id"`
	Total         float64 `json:"total"`
	BalanceAmount float64 `json:"balance_amount"`
	UpdatedAt     string  `json:"updated_at"`
}

// ListDraftsRequest represents query parameters for listing drafts
type ListDraftsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// CandidatesRequest carries the settlement rows being edited
type CandidatesRequest struct {
	Candidates []entity.SettlementCandidate `json:"candidates"`
}

// ToggleRequest selects or deselects one settlement row
type ToggleRequest struct {
	Candidates []entity.SettlementCandidate `json:"candidates"`
	Index      int                          `json:"index"`
}

// ApplyAmountRequest sets the amount applied to one settlement row
type ApplyAmountRequest struct {
	Candidates []entity.SettlementCandidate `json:"candidates"`
	Index      int                          `json:"index"`
	Value      money.Number                 `json:"value"`
}

// ApplyAmountResponse returns the edited rows and the clamp report
type ApplyAmountResponse struct {
	Candidates []entity.SettlementCandidate `json:"candidates"`
	Correction money.Correction             `json:"correction"`
}

// AutoDistributeRequest spreads a payment over the selected rows
type AutoDistributeRequest struct {
	Candidates  []entity.SettlementCandidate `json:"candidates"`
	TotalAmount money.Number                 `json:"total_amount"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// NewInvoiceForm handles POST /api/invoices/new
func (h *Handlers) NewInvoiceForm(c *gin.Context) {
	ctx := c.Request.Context()
	form := h.invoiceService.NewForm(ctx)

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.invoiceService.Recompute(ctx, form),
	})
}

// RecomputeInvoice handles POST /api/invoices/recompute
func (h *Handlers) RecomputeInvoice(c *gin.Context) {
	var form entity.InvoiceForm
	if !h.bindJSON(c, &form) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.invoiceService.Recompute(c.Request.Context(), form),
	})
}

// SaveDraft handles POST /api/invoices/drafts; ?id= updates an existing draft
func (h *Handlers) SaveDraft(c *gin.Context) {
	var id int64
	if raw := c.Query("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.badRequest(c, "invalid draft ID", "id", raw, "error", err)
			return
		}
		id = parsed
	}

	var form entity.InvoiceForm
	if !h.bindJSON(c, &form) {
		return
	}

	view, err := h.invoiceService.SaveDraft(c.Request.Context(), id, form)
	if err != nil {
		h.writeError(c, err, "failed to save draft")
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, Response{Success: true, Data: view})
}

// ListDrafts handles GET /api/invoices/drafts
func (h *Handlers) ListDrafts(c *gin.Context) {
	var req ListDraftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters", "error", err)
		return
	}

	if req.Limit <= 0 || req.Limit > h.draftListLimit {
		req.Limit = h.draftListLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	drafts, err := h.invoiceService.ListDrafts(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.writeError(c, err, "failed to retrieve drafts")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: lo.Map(drafts, func(d *entity.InvoiceDraft, _ int) DraftSummary {
			return toDraftSummary(d)
		}),
	})
}

// GetDraft handles GET /api/invoices/drafts/:id
func (h *Handlers) GetDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	view, err := h.invoiceService.GetDraft(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to retrieve draft")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// DeleteDraft handles DELETE /api/invoices/drafts/:id
func (h *Handlers) DeleteDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteDraft(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete draft")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// NormalizeCandidates handles POST /api/payments/normalize
func (h *Handlers) NormalizeCandidates(c *gin.Context) {
	var req CandidatesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.paymentService.Normalize(c.Request.Context(), req.Candidates),
	})
}

// ToggleCandidate handles POST /api/payments/toggle
func (h *Handlers) ToggleCandidate(c *gin.Context) {
	var req ToggleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.paymentService.Toggle(c.Request.Context(), req.Candidates, req.Index),
	})
}

// SetApplyAmount handles POST /api/payments/apply-amount
func (h *Handlers) SetApplyAmount(c *gin.Context) {
	var req ApplyAmountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rows, correction := h.paymentService.SetApplyAmount(c.Request.Context(), req.Candidates, req.Index, req.Value.Float())

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    ApplyAmountResponse{Candidates: rows, Correction: correction},
	})
}

// AutoDistribute handles POST /api/payments/auto-distribute
func (h *Handlers) AutoDistribute(c *gin.Context) {
	var req AutoDistributeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.paymentService.AutoDistribute(c.Request.Context(), req.Candidates, req.TotalAmount.Float()),
	})
}

// PaymentSummary handles POST /api/payments/summary
func (h *Handlers) PaymentSummary(c *gin.Context) {
	var form entity.PaymentForm
	if !h.bindJSON(c, &form) {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.paymentService.Summarize(c.Request.Context(), form),
	})
}

// BuildSettlement handles POST /api/payments/settlement
func (h *Handlers) BuildSettlement(c *gin.Context) {
	var form entity.PaymentForm
	if !h.bindJSON(c, &form) {
		return
	}

	payload, err := h.paymentService.BuildSettlement(c.Request.Context(), form)
	if err != nil {
		h.writeError(c, err, "failed to build settlement")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: payload})
}

// bindJSON decodes the request body, answering 400 on failure
func (h *Handlers) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.badRequest(c, "invalid request body", "path", c.FullPath(), "error", err)
		return false
	}
	return true
}

func (h *Handlers) draftID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.badRequest(c, "invalid draft ID", "id", idStr, "error", err)
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, message string, keysAndValues ...interface{}) {
	h.logger.Error(message, keysAndValues...)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   message,
	})
}

// writeError maps service errors onto HTTP statuses
func (h *Handlers) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidDraftID):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: service.ErrDraftNotFound.Error()})
	case errors.Is(err, service.ErrPaymentNotSubmittable):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: service.ErrPaymentNotSubmittable.Error()})
	default:
		h.logger.Error(fallback, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}

func toDraftSummary(d *entity.InvoiceDraft) DraftSummary {
	return DraftSummary{
		ID:            d.ID,
		InvoiceNumber: d.InvoiceNumber,
		CustomerID:    d.CustomerID,
		Total:         d.Total,
		BalanceAmount: d.BalanceAmount,
		UpdatedAt:     d.UpdatedAt.Format(time.RFC3339),
	}
}
