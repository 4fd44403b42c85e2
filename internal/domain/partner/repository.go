package partner

import (
	"context"

	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the persistence contract for customers
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, tenantID, createdBy uuid.UUID, filter shared.Filter) ([]*Customer, int64, error)
	ExistsByName(ctx context.Context, tenantID, createdBy uuid.UUID, name string) (bool, error)
}
