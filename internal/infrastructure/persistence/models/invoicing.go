package models

import (
	"time"

	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceID     string                   `gorm:"type:varchar(100);not null;uniqueIndex"`
	UserInvoiceID string                   `gorm:"type:varchar(100)"`
	ProjectName   string                   `gorm:"type:varchar(255)"`
	InvoiceDate   *time.Time               `gorm:"index"`
	DueDate       *time.Time               `gorm:"index"`
	Notes         string                   `gorm:"type:text"`
	Currency      string                   `gorm:"type:varchar(3);not null"`
	CustomerID    *uuid.UUID               `gorm:"type:uuid;index"`
	TaxPercentage decimal.Decimal          `gorm:"type:decimal(8,4);not null"`
	Subtotal      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	TaxAmount     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	AmountPaid    decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	BalanceDue    decimal.Decimal          `gorm:"type:decimal(18,2);not null;index"`
	Status        invoicing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	ReceiptID     string                   `gorm:"type:varchar(30);index"`
	VoidedAt      *time.Time
	VoidReason    string                   `gorm:"type:varchar(500)"`
	Items         []InvoiceItemModel       `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the persistence model for invoice line items.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Position    int             `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		InvoiceID:     m.InvoiceID,
		UserInvoiceID: m.UserInvoiceID,
		ProjectName:   m.ProjectName,
		InvoiceDate:   m.InvoiceDate,
		DueDate:       m.DueDate,
		Notes:         m.Notes,
		Currency:      m.Currency,
		CustomerID:    m.CustomerID,
		TaxPercentage: m.TaxPercentage,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		Total:         m.Total,
		AmountPaid:    m.AmountPaid,
		BalanceDue:    m.BalanceDue,
		Status:        m.Status,
		ReceiptID:     m.ReceiptID,
		VoidedAt:      m.VoidedAt,
		VoidReason:    m.VoidReason,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)

	inv.Items = make([]invoicing.InvoiceItem, len(m.Items))
	for i, item := range m.Items {
		inv.Items[i] = invoicing.InvoiceItem{
			ID:          item.ID,
			Description: item.Description,
			Amount:      item.Amount,
			Position:    item.Position,
		}
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceID = inv.InvoiceID
	m.UserInvoiceID = inv.UserInvoiceID
	m.ProjectName = inv.ProjectName
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.Notes = inv.Notes
	m.Currency = inv.Currency
	m.CustomerID = inv.CustomerID
	m.TaxPercentage = inv.TaxPercentage
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.AmountPaid = inv.AmountPaid
	m.BalanceDue = inv.BalanceDue
	m.Status = inv.Status
	m.ReceiptID = inv.ReceiptID
	m.VoidedAt = inv.VoidedAt
	m.VoidReason = inv.VoidReason

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          item.ID,
			InvoiceID:   inv.ID,
			Description: item.Description,
			Amount:      item.Amount,
			Position:    item.Position,
		}
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
