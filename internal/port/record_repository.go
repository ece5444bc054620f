package port

import (
	"context"

	"github.com/google/uuid"

	"billscan/internal/domain"
)

// RecordRepository defines the contract for bill record persistence.
type RecordRepository interface {
	Create(ctx context.Context, rec *domain.BillRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.BillRecord, int, error)
	// ListAll returns the full record snapshot the analytics engine
	// operates on.
	ListAll(ctx context.Context) ([]domain.BillRecord, error)
	Update(ctx context.Context, rec *domain.BillRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
