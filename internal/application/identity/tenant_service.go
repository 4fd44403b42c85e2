package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// TenantQuotaChecker gates workspace creation against the user's plan
type TenantQuotaChecker interface {
	CanCreateTenant(ctx context.Context, userID uuid.UUID) error
}

// TenantService manages workspace lifecycle and the currency directory
type TenantService struct {
	tenantRepo   identity.TenantRepository
	currencyRepo identity.CurrencyRepository
	quota        TenantQuotaChecker
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	currencyRepo identity.CurrencyRepository,
	quota TenantQuotaChecker,
) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		currencyRepo: currencyRepo,
		quota:        quota,
	}
}

// CreateTenantCommand carries the fields for a new workspace
type CreateTenantCommand struct {
	Name     string
	Slug     string
	Currency string
	OwnerID  uuid.UUID
}

// CreateTenant provisions a workspace for the owner
func (s *TenantService) CreateTenant(ctx context.Context, cmd CreateTenantCommand) (*identity.Tenant, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tenant", "create")
	defer span.End()
	telemetry.SetAttribute(span, "slug", cmd.Slug)

	if err := s.quota.CanCreateTenant(ctx, cmd.OwnerID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if _, err := s.currencyRepo.FindByCode(ctx, cmd.Currency); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.NewDomainError("CURRENCY_NOT_FOUND", fmt.Sprintf("Currency %q is not supported", cmd.Currency))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	taken, err := s.tenantRepo.ExistsBySlug(ctx, cmd.Slug)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		err := shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Workspace slug %q is already in use", cmd.Slug))
		telemetry.RecordError(span, err)
		return nil, err
	}

	tenant, err := identity.NewTenant(cmd.Name, cmd.Slug, cmd.Currency, cmd.OwnerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return tenant, nil
}

// GetTenant loads one workspace
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return s.tenantRepo.FindByID(ctx, id)
}

// ListTenants returns the workspaces owned by a user
func (s *TenantService) ListTenants(ctx context.Context, ownerID uuid.UUID) ([]*identity.Tenant, error) {
	return s.tenantRepo.FindByOwner(ctx, ownerID)
}

// ChangeCurrency switches a workspace's default invoicing currency
func (s *TenantService) ChangeCurrency(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Tenant, error) {
	if _, err := s.currencyRepo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CURRENCY_NOT_FOUND", fmt.Sprintf("Currency %q is not supported", code))
		}
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.ChangeCurrency(code); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListCurrencies returns the supported currency directory
func (s *TenantService) ListCurrencies(ctx context.Context) ([]*identity.Currency, error) {
	return s.currencyRepo.FindAll(ctx)
}

// ValidateTenant checks that a tenant exists and is active. It backs the
// tenant resolution middleware.
func (s *TenantService) ValidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !tenant.IsActive() {
		return shared.NewDomainError("TENANT_INACTIVE", "Workspace is suspended")
	}
	return nil
}
