package models

import (
	"time"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	AggregateModel
	Name     string                `gorm:"type:varchar(255);not null"`
	Slug     string                `gorm:"type:varchar(63);not null;uniqueIndex"`
	Currency string                `gorm:"type:varchar(3);not null"`
	OwnerID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status   identity.TenantStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:     m.Name,
		Slug:     m.Slug,
		Currency: m.Currency,
		OwnerID:  m.OwnerID,
		Status:   m.Status,
	}
}

// FromDomain populates the persistence model from a domain Tenant.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Slug = t.Slug
	m.Currency = t.Currency
	m.OwnerID = t.OwnerID
	m.Status = t.Status
}

// TenantModelFromDomain creates a persistence model from a domain Tenant.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// CurrencyModel is the persistence model for the currency directory.
type CurrencyModel struct {
	Code   string `gorm:"type:varchar(3);primary_key"`
	Name   string `gorm:"type:varchar(100);not null"`
	Symbol string `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the persistence model to a domain Currency.
func (m *CurrencyModel) ToDomain() *identity.Currency {
	return &identity.Currency{Code: m.Code, Name: m.Name, Symbol: m.Symbol}
}

// PlanModel is the persistence model for subscription plans.
type PlanModel struct {
	Code         string          `gorm:"type:varchar(50);primary_key"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InvoiceLimit *int64
	TenantLimit  *int64
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model to a domain Plan.
func (m *PlanModel) ToDomain() *identity.Plan {
	return &identity.Plan{
		Code:         m.Code,
		Name:         m.Name,
		Price:        m.Price,
		InvoiceLimit: m.InvoiceLimit,
		TenantLimit:  m.TenantLimit,
	}
}

// SubscriptionModel is the persistence model for user subscriptions.
type SubscriptionModel struct {
	BaseModel
	UserID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	PlanCode  string                      `gorm:"type:varchar(50);not null;index"`
	Status    identity.SubscriptionStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	ExpiresAt *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription.
func (m *SubscriptionModel) ToDomain() *identity.Subscription {
	return &identity.Subscription{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:    m.UserID,
		PlanCode:  m.PlanCode,
		Status:    m.Status,
		ExpiresAt: m.ExpiresAt,
	}
}
