package billing

import (
	"context"
	"testing"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindPlanByCode(ctx context.Context, code string) (*identity.Plan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindActiveSubscription(ctx context.Context, userID uuid.UUID) (*identity.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Subscription), args.Error(1)
}

type MockInvoiceCounter struct {
	mock.Mock
	invoicing.InvoiceRepository
}

func (m *MockInvoiceCounter) CountByCreator(ctx context.Context, tenantID, createdBy uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, createdBy)
	return args.Get(0).(int64), args.Error(1)
}

type MockTenantCounter struct {
	mock.Mock
	identity.TenantRepository
}

func (m *MockTenantCounter) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func TestQuotaService_CanCreateInvoice_NoSubscription(t *testing.T) {
	plans := new(MockPlanRepository)
	svc := NewQuotaService(plans, new(MockInvoiceCounter), new(MockTenantCounter))
	userID := uuid.New()

	plans.On("FindActiveSubscription", mock.Anything, userID).Return(nil, shared.ErrNotFound)

	err := svc.CanCreateInvoice(context.Background(), uuid.New(), userID)
	assert.NoError(t, err)
}

func TestQuotaService_CanCreateInvoice_UnlimitedPlan(t *testing.T) {
	plans := new(MockPlanRepository)
	invoices := new(MockInvoiceCounter)
	svc := NewQuotaService(plans, invoices, new(MockTenantCounter))
	userID := uuid.New()

	plans.On("FindActiveSubscription", mock.Anything, userID).
		Return(&identity.Subscription{UserID: userID, PlanCode: "pro", Status: identity.SubscriptionActive}, nil)
	plans.On("FindPlanByCode", mock.Anything, "pro").Return(&identity.Plan{Code: "pro"}, nil)

	err := svc.CanCreateInvoice(context.Background(), uuid.New(), userID)
	assert.NoError(t, err)
	invoices.AssertNotCalled(t, "CountByCreator", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaService_CanCreateInvoice_LimitEnforced(t *testing.T) {
	limit := int64(5)
	plan := &identity.Plan{Code: "starter", InvoiceLimit: &limit}

	tests := []struct {
		name    string
		count   int64
		allowed bool
	}{
		{"under limit", 4, true},
		{"at limit", 5, false},
		{"over limit", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := new(MockPlanRepository)
			invoices := new(MockInvoiceCounter)
			svc := NewQuotaService(plans, invoices, new(MockTenantCounter))
			tenantID := uuid.New()
			userID := uuid.New()

			plans.On("FindActiveSubscription", mock.Anything, userID).
				Return(&identity.Subscription{UserID: userID, PlanCode: "starter", Status: identity.SubscriptionActive}, nil)
			plans.On("FindPlanByCode", mock.Anything, "starter").Return(plan, nil)
			invoices.On("CountByCreator", mock.Anything, tenantID, userID).Return(tt.count, nil)

			err := svc.CanCreateInvoice(context.Background(), tenantID, userID)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, "QUOTA_EXCEEDED", domainErr.Code)
			}
		})
	}
}

func TestQuotaService_CanCreateTenant_LimitEnforced(t *testing.T) {
	limit := int64(1)
	plans := new(MockPlanRepository)
	tenants := new(MockTenantCounter)
	svc := NewQuotaService(plans, new(MockInvoiceCounter), tenants)
	userID := uuid.New()

	plans.On("FindActiveSubscription", mock.Anything, userID).
		Return(&identity.Subscription{UserID: userID, PlanCode: "starter", Status: identity.SubscriptionActive}, nil)
	plans.On("FindPlanByCode", mock.Anything, "starter").
		Return(&identity.Plan{Code: "starter", TenantLimit: &limit}, nil)
	tenants.On("CountByOwner", mock.Anything, userID).Return(int64(1), nil)

	err := svc.CanCreateTenant(context.Background(), userID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTA_EXCEEDED", domainErr.Code)
}

func TestQuotaService_RetiredPlanMeansNoLimits(t *testing.T) {
	plans := new(MockPlanRepository)
	svc := NewQuotaService(plans, new(MockInvoiceCounter), new(MockTenantCounter))
	userID := uuid.New()

	plans.On("FindActiveSubscription", mock.Anything, userID).
		Return(&identity.Subscription{UserID: userID, PlanCode: "legacy", Status: identity.SubscriptionActive}, nil)
	plans.On("FindPlanByCode", mock.Anything, "legacy").Return(nil, shared.ErrNotFound)

	err := svc.CanCreateInvoice(context.Background(), uuid.New(), userID)
	assert.NoError(t, err)
}
