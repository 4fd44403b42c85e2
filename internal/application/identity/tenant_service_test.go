package identity

import (
	"context"
	"testing"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*identity.Tenant, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindAll(ctx context.Context) ([]*identity.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindByCode(ctx context.Context, code string) (*identity.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Currency), args.Error(1)
}

type MockTenantQuota struct {
	mock.Mock
}

func (m *MockTenantQuota) CanCreateTenant(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTenantTestService() (*TenantService, *MockTenantRepository, *MockCurrencyRepository, *MockTenantQuota) {
	tenantRepo := new(MockTenantRepository)
	currencyRepo := new(MockCurrencyRepository)
	quota := new(MockTenantQuota)
	return NewTenantService(tenantRepo, currencyRepo, quota), tenantRepo, currencyRepo, quota
}

func TestCreateTenant(t *testing.T) {
	svc, tenantRepo, currencyRepo, quota := newTenantTestService()
	ownerID := uuid.New()

	quota.On("CanCreateTenant", mock.Anything, ownerID).Return(nil)
	currencyRepo.On("FindByCode", mock.Anything, "EUR").Return(&identity.Currency{Code: "EUR"}, nil)
	tenantRepo.On("ExistsBySlug", mock.Anything, "acme-studio").Return(false, nil)
	tenantRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	tenant, err := svc.CreateTenant(context.Background(), CreateTenantCommand{
		Name:     "Acme Studio",
		Slug:     "acme-studio",
		Currency: "EUR",
		OwnerID:  ownerID,
	})
	require.NoError(t, err)
	assert.Equal(t, "acme-studio", tenant.Slug)
	assert.Equal(t, "EUR", tenant.Currency)
	assert.True(t, tenant.IsActive())
	tenantRepo.AssertExpectations(t)
}

func TestCreateTenantSlugTaken(t *testing.T) {
	svc, tenantRepo, currencyRepo, quota := newTenantTestService()
	ownerID := uuid.New()

	quota.On("CanCreateTenant", mock.Anything, ownerID).Return(nil)
	currencyRepo.On("FindByCode", mock.Anything, "USD").Return(&identity.Currency{Code: "USD"}, nil)
	tenantRepo.On("ExistsBySlug", mock.Anything, "acme").Return(true, nil)

	_, err := svc.CreateTenant(context.Background(), CreateTenantCommand{
		Name:     "Acme",
		Slug:     "acme",
		Currency: "USD",
		OwnerID:  ownerID,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTenantQuotaExceeded(t *testing.T) {
	svc, tenantRepo, _, quota := newTenantTestService()
	ownerID := uuid.New()

	quota.On("CanCreateTenant", mock.Anything, ownerID).
		Return(shared.NewDomainError("QUOTA_EXCEEDED", "Workspace limit reached"))

	_, err := svc.CreateTenant(context.Background(), CreateTenantCommand{
		Name:     "Acme",
		Slug:     "acme",
		Currency: "USD",
		OwnerID:  ownerID,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTA_EXCEEDED", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTenantUnknownCurrency(t *testing.T) {
	svc, _, currencyRepo, quota := newTenantTestService()
	ownerID := uuid.New()

	quota.On("CanCreateTenant", mock.Anything, ownerID).Return(nil)
	currencyRepo.On("FindByCode", mock.Anything, "XXX").Return(nil, shared.ErrNotFound)

	_, err := svc.CreateTenant(context.Background(), CreateTenantCommand{
		Name:     "Acme",
		Slug:     "acme",
		Currency: "XXX",
		OwnerID:  ownerID,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CURRENCY_NOT_FOUND", domainErr.Code)
}

func TestChangeCurrency(t *testing.T) {
	svc, tenantRepo, currencyRepo, _ := newTenantTestService()
	tenant, err := identity.NewTenant("Acme", "acme", "USD", uuid.New())
	require.NoError(t, err)

	currencyRepo.On("FindByCode", mock.Anything, "GBP").Return(&identity.Currency{Code: "GBP"}, nil)
	tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	tenantRepo.On("Update", mock.Anything, tenant).Return(nil)

	updated, err := svc.ChangeCurrency(context.Background(), tenant.ID, "GBP")
	require.NoError(t, err)
	assert.Equal(t, "GBP", updated.Currency)
}

func TestValidateTenantInactive(t *testing.T) {
	svc, tenantRepo, _, _ := newTenantTestService()
	tenant, err := identity.NewTenant("Acme", "acme", "USD", uuid.New())
	require.NoError(t, err)
	tenant.Deactivate()

	tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	err = svc.ValidateTenant(context.Background(), tenant.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TENANT_INACTIVE", domainErr.Code)
}
