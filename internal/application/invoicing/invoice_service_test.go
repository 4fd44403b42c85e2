package invoicing

import (
	"context"
	"testing"

	domain "github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/partner"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mocks
// =============================================================================

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	args := m.Called(ctx, invoiceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceID(ctx context.Context, tenantID, createdBy uuid.UUID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, createdBy, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByReceiptID(ctx context.Context, tenantID, createdBy uuid.UUID, receiptID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, createdBy, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, tenantID, createdBy uuid.UUID, filter shared.Filter) ([]*domain.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, createdBy, filter)
	return args.Get(0).([]*domain.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByStatuses(ctx context.Context, tenantID, createdBy uuid.UUID, statuses []domain.InvoiceStatus, filter shared.Filter) ([]*domain.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, createdBy, statuses, filter)
	return args.Get(0).([]*domain.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, createdBy, customerID uuid.UUID, filter shared.Filter) ([]*domain.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, createdBy, customerID, filter)
	return args.Get(0).([]*domain.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindLatest(ctx context.Context, tenantID, createdBy uuid.UUID, limit int) ([]*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, createdBy, limit)
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Summarize(ctx context.Context, tenantID, createdBy uuid.UUID) (*domain.Summary, error) {
	args := m.Called(ctx, tenantID, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

func (m *MockInvoiceRepository) CountByCreator(ctx context.Context, tenantID, createdBy uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, createdBy)
	return args.Get(0).(int64), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, tenantID, createdBy uuid.UUID, filter shared.Filter) ([]*partner.Customer, int64, error) {
	args := m.Called(ctx, tenantID, createdBy, filter)
	return args.Get(0).([]*partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByName(ctx context.Context, tenantID, createdBy uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, createdBy, name)
	return args.Bool(0), args.Error(1)
}

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindAll(ctx context.Context) ([]*identity.Currency, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindByCode(ctx context.Context, code string) (*identity.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Currency), args.Error(1)
}

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

type MockQuotaChecker struct {
	mock.Mock
}

func (m *MockQuotaChecker) CanCreateInvoice(ctx context.Context, tenantID, userID uuid.UUID) error {
	args := m.Called(ctx, tenantID, userID)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

type serviceMocks struct {
	invoices  *MockInvoiceRepository
	customers *MockCustomerRepository
	currencies *MockCurrencyRepository
	tenants   *MockTenantRepository
	quota     *MockQuotaChecker
}

func newTestService() (*InvoiceService, *serviceMocks) {
	m := &serviceMocks{
		invoices:   new(MockInvoiceRepository),
		customers:  new(MockCustomerRepository),
		currencies: new(MockCurrencyRepository),
		tenants:    new(MockTenantRepository),
		quota:      new(MockQuotaChecker),
	}
	svc := NewInvoiceService(m.invoices, m.customers, m.currencies, m.tenants, m.quota)
	return svc, m
}

func validCreateCommand(tenantID, userID uuid.UUID) CreateInvoiceCommand {
	return CreateInvoiceCommand{
		TenantID:  tenantID,
		UserID:    userID,
		InvoiceID: "INV-001",
		Currency:  "USD",
		Items: []ItemCommand{
			{Description: "Design", Amount: decimal.NewFromInt(100)},
			{Description: "Hosting", Amount: decimal.NewFromInt(50)},
		},
		TaxPercentage: decimal.NewFromInt(10),
	}
}

func existingInvoice(t *testing.T, tenantID, userID uuid.UUID) *domain.Invoice {
	inv, err := domain.NewInvoice(domain.NewInvoiceInput{
		TenantID:  tenantID,
		CreatedBy: userID,
		InvoiceID: "INV-001",
		Currency:  "USD",
		Items: []domain.ItemInput{
			{Description: "Design", Amount: decimal.NewFromInt(100)},
			{Description: "Hosting", Amount: decimal.NewFromInt(50)},
		},
		TaxPercentage: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return inv
}

// =============================================================================
// CreateInvoice
// =============================================================================

func TestInvoiceService_CreateInvoice(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	m.quota.On("CanCreateInvoice", mock.Anything, tenantID, userID).Return(nil)
	m.currencies.On("FindByCode", mock.Anything, "USD").Return(&identity.Currency{Code: "USD"}, nil)
	m.invoices.On("ExistsByInvoiceID", mock.Anything, "INV-001").Return(false, nil)
	m.invoices.On("Create", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	result, err := svc.CreateInvoice(ctx, validCreateCommand(tenantID, userID))
	require.NoError(t, err)

	assert.Equal(t, "INV-001", result.InvoiceID)
	assert.True(t, decimal.NewFromInt(150).Equal(result.Subtotal))
	assert.True(t, decimal.NewFromInt(15).Equal(result.TaxAmount))
	assert.True(t, decimal.NewFromInt(165).Equal(result.Total))
	assert.True(t, decimal.NewFromInt(165).Equal(result.BalanceDue))
	assert.Equal(t, "UNPAID", result.Status)
	assert.Empty(t, result.ReceiptID)
	m.invoices.AssertExpectations(t)
}

func TestInvoiceService_CreateInvoice_QuotaExceeded(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	quotaErr := shared.NewDomainError("QUOTA_EXCEEDED", "Plan starter allows at most 5 invoices")
	m.quota.On("CanCreateInvoice", mock.Anything, tenantID, userID).Return(quotaErr)

	_, err := svc.CreateInvoice(context.Background(), validCreateCommand(tenantID, userID))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTA_EXCEEDED", domainErr.Code)
	m.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvoice_DuplicateID(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	m.quota.On("CanCreateInvoice", mock.Anything, tenantID, userID).Return(nil)
	m.currencies.On("FindByCode", mock.Anything, "USD").Return(&identity.Currency{Code: "USD"}, nil)
	m.invoices.On("ExistsByInvoiceID", mock.Anything, "INV-001").Return(true, nil)

	_, err := svc.CreateInvoice(context.Background(), validCreateCommand(tenantID, userID))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	m.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvoice_UnknownCurrency(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	m.quota.On("CanCreateInvoice", mock.Anything, tenantID, userID).Return(nil)
	m.currencies.On("FindByCode", mock.Anything, "XXX").Return(nil, shared.ErrNotFound)

	cmd := validCreateCommand(tenantID, userID)
	cmd.Currency = "XXX"
	_, err := svc.CreateInvoice(context.Background(), cmd)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CURRENCY_NOT_FOUND", domainErr.Code)
}

func TestInvoiceService_CreateInvoice_TenantDefaultCurrency(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	tenant, err := identity.NewTenant("Acme", "acme", "EUR", uuid.New())
	require.NoError(t, err)
	tenant.ID = tenantID

	m.quota.On("CanCreateInvoice", mock.Anything, tenantID, userID).Return(nil)
	m.tenants.On("FindByID", mock.Anything, tenantID).Return(tenant, nil)
	m.invoices.On("ExistsByInvoiceID", mock.Anything, "INV-001").Return(false, nil)
	m.invoices.On("Create", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	cmd := validCreateCommand(tenantID, userID)
	cmd.Currency = ""
	result, err := svc.CreateInvoice(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Currency)
	m.currencies.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvoice_UnknownCustomer(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	customerID := uuid.New()

	m.quota.On("CanCreateInvoice", mock.Anything, tenantID, userID).Return(nil)
	m.currencies.On("FindByCode", mock.Anything, "USD").Return(&identity.Currency{Code: "USD"}, nil)
	m.customers.On("FindByID", mock.Anything, tenantID, customerID).Return(nil, shared.ErrNotFound)

	cmd := validCreateCommand(tenantID, userID)
	cmd.CustomerID = &customerID
	_, err := svc.CreateInvoice(context.Background(), cmd)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", domainErr.Code)
}

// =============================================================================
// UpdateStatus
// =============================================================================

func TestInvoiceService_UpdateStatus_Paid(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	inv := existingInvoice(t, tenantID, userID)

	m.invoices.On("FindByInvoiceID", mock.Anything, tenantID, userID, "INV-001").Return(inv, nil)
	m.invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

	result, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:  tenantID,
		UserID:    userID,
		InvoiceID: "INV-001",
		Status:    domain.StatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", result.Status)
	assert.True(t, result.BalanceDue.IsZero())
	assert.True(t, decimal.NewFromInt(165).Equal(result.AmountPaid))
	assert.NotEmpty(t, result.ReceiptID)
}

func TestInvoiceService_UpdateStatus_PartialThenPaidKeepsReceipt(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	inv := existingInvoice(t, tenantID, userID)
	amount := decimal.NewFromInt(65)

	m.invoices.On("FindByInvoiceID", mock.Anything, tenantID, userID, "INV-001").Return(inv, nil)
	m.invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

	partial, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:  tenantID,
		UserID:    userID,
		InvoiceID: "INV-001",
		Status:    domain.StatusPartialPayment,
		AmountPaid: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL_PAYMENT", partial.Status)
	assert.True(t, decimal.NewFromInt(65).Equal(partial.AmountPaid))
	assert.True(t, decimal.NewFromInt(100).Equal(partial.BalanceDue))
	require.NotEmpty(t, partial.ReceiptID)

	paid, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:  tenantID,
		UserID:    userID,
		InvoiceID: "INV-001",
		Status:    domain.StatusPaid,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(165).Equal(paid.AmountPaid))
	assert.True(t, paid.BalanceDue.IsZero())
	assert.Equal(t, partial.ReceiptID, paid.ReceiptID)
}

func TestInvoiceService_UpdateStatus_PartialWithoutAmount(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	inv := existingInvoice(t, tenantID, userID)

	m.invoices.On("FindByInvoiceID", mock.Anything, tenantID, userID, "INV-001").Return(inv, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:  tenantID,
		UserID:    userID,
		InvoiceID: "INV-001",
		Status:    domain.StatusPartialPayment,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	m.invoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateStatus_PartialExceedsBalance(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	inv := existingInvoice(t, tenantID, userID)
	amount := decimal.NewFromInt(200)

	m.invoices.On("FindByInvoiceID", mock.Anything, tenantID, userID, "INV-001").Return(inv, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:   tenantID,
		UserID:     userID,
		InvoiceID:  "INV-001",
		Status:     domain.StatusPartialPayment,
		AmountPaid: &amount,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EXCEEDS_BALANCE", domainErr.Code)
}

func TestInvoiceService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:  uuid.New(),
		UserID:    uuid.New(),
		InvoiceID: "INV-001",
		Status:    domain.InvoiceStatus("SETTLED"),
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	m.invoices.AssertNotCalled(t, "FindByInvoiceID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateStatus_ConcurrencyConflict(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	inv := existingInvoice(t, tenantID, userID)

	m.invoices.On("FindByInvoiceID", mock.Anything, tenantID, userID, "INV-001").Return(inv, nil)
	m.invoices.On("SaveWithLock", mock.Anything, inv).Return(shared.ErrConcurrencyConflict)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusCommand{
		TenantID:  tenantID,
		UserID:    userID,
		InvoiceID: "INV-001",
		Status:    domain.StatusPaid,
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

// =============================================================================
// Reads
// =============================================================================

func TestInvoiceService_ListReceipts_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()
	status := domain.StatusUnpaid

	_, err := svc.ListReceipts(context.Background(), uuid.New(), uuid.New(), &status, shared.DefaultFilter())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestInvoiceService_ListReceipts_DefaultsToBothStatuses(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()
	filter := shared.DefaultFilter()

	m.invoices.On("FindByStatuses", mock.Anything, tenantID, userID,
		[]domain.InvoiceStatus{domain.StatusPaid, domain.StatusPartialPayment}, filter).
		Return([]*domain.Invoice{}, int64(0), nil)

	result, err := svc.ListReceipts(context.Background(), tenantID, userID, nil, filter)
	require.NoError(t, err)
	assert.Empty(t, result.Invoices)
	m.invoices.AssertExpectations(t)
}

func TestInvoiceService_GetSummary(t *testing.T) {
	svc, m := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	m.invoices.On("Summarize", mock.Anything, tenantID, userID).Return(&domain.Summary{
		Collected:   decimal.NewFromInt(230),
		Outstanding: decimal.NewFromInt(100),
	}, nil)

	summary, err := svc.GetSummary(context.Background(), tenantID, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(230).Equal(summary.Collected))
	assert.True(t, decimal.NewFromInt(100).Equal(summary.Outstanding))
}
