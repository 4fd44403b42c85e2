package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the persistence contract for tenants
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	Update(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Tenant, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// CurrencyRepository exposes the supported currency directory
type CurrencyRepository interface {
	FindAll(ctx context.Context) ([]*Currency, error)
	FindByCode(ctx context.Context, code string) (*Currency, error)
}

// PlanRepository exposes the plan catalog and user subscriptions
type PlanRepository interface {
	FindPlanByCode(ctx context.Context, code string) (*Plan, error)
	FindActiveSubscription(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}
