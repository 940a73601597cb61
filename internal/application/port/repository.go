package port

import (
	"context"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
)

// DraftRepository defines persistence operations for InvoiceDraft.
// GetByID returns nil, nil when the draft does not exist.
type DraftRepository interface {
	Create(ctx context.Context, draft *entity.InvoiceDraft) error
	Update(ctx context.Context, draft *entity.InvoiceDraft) error
	GetByID(ctx context.Context, id int64) (*entity.InvoiceDraft, error)
	List(ctx context.Context, limit, offset int) ([]*entity.InvoiceDraft, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
