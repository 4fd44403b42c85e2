package partner

import (
	"strings"

	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is a billed party in the tenant's customer directory
type Customer struct {
	shared.TenantAggregateRoot
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

// NewCustomer creates a customer owned by the given user
func NewCustomer(tenantID, createdBy uuid.UUID, name, email string) (*Customer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 255 characters")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, createdBy),
		Name:                name,
		Email:               strings.TrimSpace(email),
		Active:              true,
	}, nil
}

// Update changes the customer's contact details
func (c *Customer) Update(name, email, phone, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.IncrementVersion()
	return nil
}

// Deactivate hides the customer from pickers without breaking invoice references
func (c *Customer) Deactivate() {
	c.Active = false
	c.IncrementVersion()
}

// Activate restores a deactivated customer
func (c *Customer) Activate() {
	c.Active = true
	c.IncrementVersion()
}
