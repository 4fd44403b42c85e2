package partner

import (
	"context"
	"fmt"

	"github.com/clickinvoice/backend/internal/domain/partner"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CustomerService manages the tenant's customer directory
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerCommand carries the fields for a new customer
type CreateCustomerCommand struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Name     string
	Email    string
	Phone    string
	Address  string
}

// UpdateCustomerCommand carries the fields for a customer update
type UpdateCustomerCommand struct {
	TenantID   uuid.UUID
	CustomerID uuid.UUID
	Name       string
	Email      string
	Phone      string
	Address    string
}

// CreateCustomer adds a customer to the user's directory
func (s *CustomerService) CreateCustomer(ctx context.Context, cmd CreateCustomerCommand) (*partner.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "create")
	defer span.End()

	exists, err := s.customerRepo.ExistsByName(ctx, cmd.TenantID, cmd.UserID, cmd.Name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check customer name: %w", err)
	}
	if exists {
		err := shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Customer %q already exists", cmd.Name))
		telemetry.RecordError(span, err)
		return nil, err
	}

	customer, err := partner.NewCustomer(cmd.TenantID, cmd.UserID, cmd.Name, cmd.Email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	customer.Phone = cmd.Phone
	customer.Address = cmd.Address

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer changes a customer's contact details
func (s *CustomerService) UpdateCustomer(ctx context.Context, cmd UpdateCustomerCommand) (*partner.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update")
	defer span.End()

	customer, err := s.customerRepo.FindByID(ctx, cmd.TenantID, cmd.CustomerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := customer.Update(cmd.Name, cmd.Email, cmd.Phone, cmd.Address); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return customer, nil
}

// GetCustomer loads one customer
func (s *CustomerService) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	return s.customerRepo.FindByID(ctx, tenantID, customerID)
}

// ListCustomers returns the user's customers with pagination
func (s *CustomerService) ListCustomers(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]*partner.Customer, int64, error) {
	return s.customerRepo.FindAll(ctx, tenantID, userID, filter)
}

// DeactivateCustomer hides a customer without breaking invoice references
func (s *CustomerService) DeactivateCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	customer.Deactivate()
	return s.customerRepo.Update(ctx, customer)
}
