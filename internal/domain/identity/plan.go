package identity

import (
	"time"

	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan describes a subscription tier and its usage limits.
// A nil limit means unlimited.
type Plan struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	InvoiceLimit *int64          `json:"invoice_limit,omitempty"`
	TenantLimit  *int64          `json:"tenant_limit,omitempty"`
}

// AllowsInvoices reports whether the plan permits creating another invoice
// given the user's current invoice count
func (p *Plan) AllowsInvoices(current int64) bool {
	if p.InvoiceLimit == nil {
		return true
	}
	return current < *p.InvoiceLimit
}

// SubscriptionStatus represents the billing state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
)

// Subscription links a user to a plan
type Subscription struct {
	shared.BaseEntity
	UserID    uuid.UUID          `json:"user_id"`
	PlanCode  string             `json:"plan_code"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
}

// IsActive reports whether the subscription currently grants its plan
func (s *Subscription) IsActive() bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt) {
		return false
	}
	return true
}
