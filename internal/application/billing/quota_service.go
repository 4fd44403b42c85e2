package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// QuotaService enforces plan limits for invoice and tenant creation.
// Users without an active subscription are treated as unlimited.
type QuotaService struct {
	planRepo    identity.PlanRepository
	invoiceRepo invoicing.InvoiceRepository
	tenantRepo  identity.TenantRepository
}

// NewQuotaService creates a new QuotaService
func NewQuotaService(
	planRepo identity.PlanRepository,
	invoiceRepo invoicing.InvoiceRepository,
	tenantRepo identity.TenantRepository,
) *QuotaService {
	return &QuotaService{
		planRepo:    planRepo,
		invoiceRepo: invoiceRepo,
		tenantRepo:  tenantRepo,
	}
}

// CanCreateInvoice returns nil if the user may create another invoice in the
// tenant, or a QUOTA_EXCEEDED domain error when the plan limit is reached.
func (s *QuotaService) CanCreateInvoice(ctx context.Context, tenantID, userID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "quota", "can_create_invoice")
	defer span.End()

	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if plan == nil || plan.InvoiceLimit == nil {
		return nil
	}

	count, err := s.invoiceRepo.CountByCreator(ctx, tenantID, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to count invoices: %w", err)
	}
	telemetry.SetAttribute(span, "invoice_count", count)

	if !plan.AllowsInvoices(count) {
		err := shared.NewDomainError("QUOTA_EXCEEDED",
			fmt.Sprintf("Plan %s allows at most %d invoices", plan.Code, *plan.InvoiceLimit))
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// CanCreateTenant returns nil if the user may create another tenant, or a
// QUOTA_EXCEEDED domain error when the plan limit is reached.
func (s *QuotaService) CanCreateTenant(ctx context.Context, userID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "quota", "can_create_tenant")
	defer span.End()

	plan, err := s.activePlan(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if plan == nil || plan.TenantLimit == nil {
		return nil
	}

	count, err := s.tenantRepo.CountByOwner(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to count tenants: %w", err)
	}

	if count >= *plan.TenantLimit {
		err := shared.NewDomainError("QUOTA_EXCEEDED",
			fmt.Sprintf("Plan %s allows at most %d workspaces", plan.Code, *plan.TenantLimit))
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// activePlan resolves the user's current plan. A missing subscription or a
// subscription pointing at a retired plan means no limits apply.
func (s *QuotaService) activePlan(ctx context.Context, userID uuid.UUID) (*identity.Plan, error) {
	sub, err := s.planRepo.FindActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	plan, err := s.planRepo.FindPlanByCode(ctx, sub.PlanCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return plan, nil
}
