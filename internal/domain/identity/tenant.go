package identity

import (
	"regexp"
	"strings"

	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant workspace
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "ACTIVE"
	TenantStatusInactive TenantStatus = "INACTIVE"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Tenant is an isolated workspace. Every invoice, customer and receipt
// belongs to exactly one tenant.
type Tenant struct {
	shared.BaseAggregateRoot
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Currency string       `json:"currency"`
	OwnerID  uuid.UUID    `json:"owner_id"`
	Status   TenantStatus `json:"status"`
}

// NewTenant creates an active tenant owned by the given user
func NewTenant(name, slug, currency string, ownerID uuid.UUID) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Tenant slug must be lowercase alphanumeric with hyphens")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a three letter code")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Currency:          currency,
		OwnerID:           ownerID,
		Status:            TenantStatusActive,
	}, nil
}

// IsActive reports whether the tenant may serve requests
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Deactivate suspends the tenant. Requests carrying its ID are rejected.
func (t *Tenant) Deactivate() {
	t.Status = TenantStatusInactive
	t.IncrementVersion()
}

// Activate restores a suspended tenant
func (t *Tenant) Activate() {
	t.Status = TenantStatusActive
	t.IncrementVersion()
}

// ChangeCurrency switches the tenant's default invoicing currency.
// Existing invoices keep the currency they were issued in.
func (t *Tenant) ChangeCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a three letter code")
	}
	t.Currency = code
	t.IncrementVersion()
	return nil
}
