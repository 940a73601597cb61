package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/invoice-engine/internal/application/port"
	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// DraftRepository implements port.DraftRepository.
// The form is stored as a JSON document next to a few indexed columns.
type DraftRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *sql.DB, logger *zap.Logger) port.DraftRepository {
	return &DraftRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new draft and sets its ID and timestamps
func (r *DraftRepository) Create(ctx context.Context, draft *entity.InvoiceDraft) error {
	formJSON, err := json.Marshal(draft.Form)
	if err != nil {
		return fmt.Errorf("failed to encode draft form: %w", err)
	}

	now := r.now()
	query := `
		INSERT INTO invoice_drafts (
			invoice_number, customer_id, form_json, total, balance_amount, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		draft.InvoiceNumber,
		draft.CustomerID,
		string(formJSON),
		draft.Total,
		draft.BalanceAmount,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice draft", zap.Error(err))
		return fmt.Errorf("failed to create invoice draft: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	draft.ID = id
	draft.CreatedAt = now
	draft.UpdatedAt = now
	return nil
}

// Update overwrites an existing draft
func (r *DraftRepository) Update(ctx context.Context, draft *entity.InvoiceDraft) error {
	formJSON, err := json.Marshal(draft.Form)
	if err != nil {
		return fmt.Errorf("failed to encode draft form: %w", err)
	}

	now := r.now()
	query := `
		UPDATE invoice_drafts
		SET invoice_number = ?, customer_id = ?, form_json = ?, total = ?, balance_amount = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		draft.InvoiceNumber,
		draft.CustomerID,
		string(formJSON),
		draft.Total,
		draft.BalanceAmount,
		now,
		draft.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice draft", zap.Int64("id", draft.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice draft not found: %d", draft.ID)
	}

	draft.UpdatedAt = now
	return nil
}

// GetByID retrieves a draft by ID, returning nil when it does not exist
func (r *DraftRepository) GetByID(ctx context.Context, id int64) (*entity.InvoiceDraft, error) {
	query := `
		SELECT id, invoice_number, customer_id, form_json, total, balance_amount, created_at, updated_at
		FROM invoice_drafts
		WHERE id = ?
	`

	draft, err := r.scanDraft(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice draft", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice draft: %w", err)
	}
	return draft, nil
}

// List returns drafts ordered by most recent update
func (r *DraftRepository) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceDraft, error) {
	query := `
		SELECT id, invoice_number, customer_id, form_json, total, balance_amount, created_at, updated_at
		FROM invoice_drafts
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoice drafts", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoice drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*entity.InvoiceDraft
	for rows.Next() {
		draft, err := r.scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	return drafts, rows.Err()
}

// Delete removes a draft
func (r *DraftRepository) Delete(ctx context.Context, id int64) error {
	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM invoice_drafts WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice draft", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice draft: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *DraftRepository) scanDraft(row rowScanner) (*entity.InvoiceDraft, error) {
	var draft entity.InvoiceDraft
	var formJSON string

	err := row.Scan(
		&draft.ID,
		&draft.InvoiceNumber,
		&draft.CustomerID,
		&formJSON,
		&draft.Total,
		&draft.BalanceAmount,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(formJSON), &draft.Form); err != nil {
		return nil, fmt.Errorf("failed to decode draft form: %w", err)
	}
	return &draft, nil
}

// Verify interface compliance
var _ port.DraftRepository = (*DraftRepository)(nil)
