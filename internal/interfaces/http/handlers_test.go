package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-engine/internal/application/service"
	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/pkg/money"
)

type memoryDraftRepo struct {
	drafts  map[int64]*entity.InvoiceDraft
	nextID  int64
	listErr error
}

func newMemoryDraftRepo() *memoryDraftRepo {
	return &memoryDraftRepo{drafts: map[int64]*entity.InvoiceDraft{}, nextID: 1}
}

func (m *memoryDraftRepo) Create(ctx context.Context, draft *entity.InvoiceDraft) error {
	draft.ID = m.nextID
	m.nextID++
	draft.UpdatedAt = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	stored := *draft
	m.drafts[draft.ID] = &stored
	return nil
}

func (m *memoryDraftRepo) Update(ctx context.Context, draft *entity.InvoiceDraft) error {
	stored := *draft
	m.drafts[draft.ID] = &stored
	return nil
}

func (m *memoryDraftRepo) GetByID(ctx context.Context, id int64) (*entity.InvoiceDraft, error) {
	d, ok := m.drafts[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *memoryDraftRepo) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceDraft, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]int64, 0, len(m.drafts))
	for id := range m.drafts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*entity.InvoiceDraft
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		out = append(out, m.drafts[id])
	}
	return out, nil
}

func (m *memoryDraftRepo) Delete(ctx context.Context, id int64) error {
	delete(m.drafts, id)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupServer(t *testing.T, listLimit int) (*Server, *memoryDraftRepo) {
	t.Helper()
	repo := newMemoryDraftRepo()
	now := func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }

	invoices := service.NewInvoiceService(repo, passthroughTx{}, service.InvoiceDefaults{
		PaymentTermsDays: 30,
		RoundOff:         true,
		BillDiscountType: entity.BillDiscountBeforeTax,
	}, now, nopLogger{})
	payments := service.NewPaymentService(nopLogger{})

	cfg := DefaultServerConfig()
	cfg.DraftListLimit = listLimit
	return NewServer(cfg, invoices, payments, nopLogger{}), repo
}

func doJSON(t *testing.T, s *Server, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

const sampleInvoice = `{
	"invoice_number": "INV-0001",
	"customer_id": 42,
	"items": [
		{"quantity": "10", "price": 100, "tax_percent": 5},
		{"quantity": 5, "price": "50", "tax_percent": "5"}
	],
	"bill_discount_type": "before_tax",
	"round_off": true,
	"amount_received": 300,
	"invoice_date": "2024-03-01",
	"payment_terms_days": 15
}`

func TestHealthCheck(t *testing.T) {
	s, _ := setupServer(t, 20)

	code, env := doJSON(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestNewInvoiceForm(t *testing.T) {
	s, _ := setupServer(t, 20)

	code, env := doJSON(t, s, http.MethodPost, "/api/invoices/new", "")
	require.Equal(t, http.StatusOK, code)

	var result service.RecomputeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "2024-03-10", result.Form.InvoiceDate)
	assert.Len(t, result.Form.Items, 1)
	assert.Equal(t, "2024-04-09", result.Totals.DueDate)
	assert.Equal(t, 0.0, result.Totals.Total)
}

func TestRecomputeInvoice(t *testing.T) {
	s, _ := setupServer(t, 20)

	code, env := doJSON(t, s, http.MethodPost, "/api/invoices/recompute", sampleInvoice)
	require.Equal(t, http.StatusOK, code)

	var result service.RecomputeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1250.0, result.Totals.Subtotal)
	assert.Equal(t, 62.5, result.Totals.TaxTotal)
	assert.Equal(t, 1313.0, result.Totals.Total)
	assert.Equal(t, 0.5, result.Totals.RoundOffAmount)
	assert.Equal(t, 1013.0, result.Totals.BalanceAmount)
	assert.Equal(t, 31.25, result.Totals.SGST)
	assert.Equal(t, "2024-03-16", result.Totals.DueDate)
	assert.Equal(t, 1050.0, result.Form.Items[0].Amount.Float())
}

func TestRecomputeInvoice_BadBody(t *testing.T) {
	s, _ := setupServer(t, 20)

	code, env := doJSON(t, s, http.MethodPost, "/api/invoices/recompute", `{"items": 7}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid request body", env.Error)
}

func TestDraftEndpoints(t *testing.T) {
	s, repo := setupServer(t, 2)

	code, env := doJSON(t, s, http.MethodPost, "/api/invoices/drafts", sampleInvoice)
	require.Equal(t, http.StatusCreated, code)

	var created service.DraftView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(1), created.Draft.ID)
	assert.Equal(t, 1313.0, created.Draft.Total)

	code, env = doJSON(t, s, http.MethodPost, "/api/invoices/drafts?id=1",
		`{"invoice_number": "INV-0001", "items": [{"quantity": 1, "price": 99.5}], "round_off": true}`)
	require.Equal(t, http.StatusOK, code)
	var updated service.DraftView
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, 100.0, updated.Totals.Total)
	assert.Len(t, repo.drafts, 1)

	code, _ = doJSON(t, s, http.MethodPost, "/api/invoices/drafts?id=abc", sampleInvoice)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, s, http.MethodPost, "/api/invoices/drafts?id=77", sampleInvoice)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = doJSON(t, s, http.MethodGet, "/api/invoices/drafts/1", "")
	require.Equal(t, http.StatusOK, code)
	var fetched service.DraftView
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, 100.0, fetched.Totals.Total)

	for i := 0; i < 2; i++ {
		code, _ = doJSON(t, s, http.MethodPost, "/api/invoices/drafts", sampleInvoice)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env = doJSON(t, s, http.MethodGet, "/api/invoices/drafts?limit=50", "")
	require.Equal(t, http.StatusOK, code)
	var summaries []DraftSummary
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	assert.Len(t, summaries, 2)

	code, env = doJSON(t, s, http.MethodGet, "/api/invoices/drafts?offset=2", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	assert.Len(t, summaries, 1)

	code, _ = doJSON(t, s, http.MethodDelete, "/api/invoices/drafts/1", "")
	assert.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, s, http.MethodGet, "/api/invoices/drafts/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, service.ErrDraftNotFound.Error(), env.Error)

	code, _ = doJSON(t, s, http.MethodDelete, "/api/invoices/drafts/1", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, s, http.MethodGet, "/api/invoices/drafts/x", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, s, http.MethodGet, "/api/invoices/drafts/0", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListDrafts_RepositoryFailure(t *testing.T) {
	s, repo := setupServer(t, 20)
	repo.listErr = errors.New("disk I/O error")

	code, env := doJSON(t, s, http.MethodGet, "/api/invoices/drafts", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to retrieve drafts", env.Error)
}

func TestPaymentEndpoints(t *testing.T) {
	s, _ := setupServer(t, 20)
	candidates := `[
		{"invoice_id": 1, "invoice_total": 500, "total_paid": 200},
		{"invoice_id": 2, "invoice_total": "120"}
	]`

	code, env := doJSON(t, s, http.MethodPost, "/api/payments/normalize", `{"candidates": `+candidates+`}`)
	require.Equal(t, http.StatusOK, code)
	var rows []entity.SettlementCandidate
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 300.0, rows[0].PendingAmount.Float())
	assert.Equal(t, 120.0, rows[1].PendingAmount.Float())

	rowsJSON, err := json.Marshal(rows)
	require.NoError(t, err)

	code, env = doJSON(t, s, http.MethodPost, "/api/payments/toggle", `{"candidates": `+string(rowsJSON)+`, "index": 0}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.True(t, rows[0].IsSelected)
	assert.Equal(t, 300.0, rows[0].ApplyAmount.Float())

	rowsJSON, err = json.Marshal(rows)
	require.NoError(t, err)

	code, env = doJSON(t, s, http.MethodPost, "/api/payments/apply-amount",
		`{"candidates": `+string(rowsJSON)+`, "index": 0, "value": "450"}`)
	require.Equal(t, http.StatusOK, code)
	var applied ApplyAmountResponse
	require.NoError(t, json.Unmarshal(env.Data, &applied))
	assert.Equal(t, money.Correction{OK: false, Corrected: 300}, applied.Correction)
	assert.Equal(t, 300.0, applied.Candidates[0].ApplyAmount.Float())

	code, env = doJSON(t, s, http.MethodPost, "/api/payments/auto-distribute",
		`{"candidates": `+string(rowsJSON)+`, "total_amount": 250}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Equal(t, 250.0, rows[0].ApplyAmount.Float())
	assert.Equal(t, 0.0, rows[1].ApplyAmount.Float())

	rowsJSON, err = json.Marshal(rows)
	require.NoError(t, err)
	form := `{"customer_id": 9, "total_amount": 400, "candidates": ` + string(rowsJSON) + `}`

	code, env = doJSON(t, s, http.MethodPost, "/api/payments/summary", form)
	require.Equal(t, http.StatusOK, code)
	var summary service.PaymentSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 250.0, summary.UsedAmount)
	assert.Equal(t, 150.0, summary.Balance)
	assert.True(t, summary.CanSubmit)

	code, env = doJSON(t, s, http.MethodPost, "/api/payments/settlement", form)
	require.Equal(t, http.StatusOK, code)
	var payload entity.SettlementPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Len(t, payload.Settlements, 1)
	assert.Equal(t, entity.SettlementLine{InvoiceID: 1, InvoiceAmount: 500, PaidBefore: 200, PayNow: 250}, payload.Settlements[0])

	code, env = doJSON(t, s, http.MethodPost, "/api/payments/settlement", `{"total_amount": 400, "candidates": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := setupServer(t, 20)

	req := httptest.NewRequest(http.MethodOptions, "/api/invoices/recompute", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
