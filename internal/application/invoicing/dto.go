package invoicing

import (
	"time"

	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceCommand carries everything needed to open an invoice
type CreateInvoiceCommand struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	InvoiceID     string
	UserInvoiceID string
	ProjectName   string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Notes         string
	Currency      string // empty means the tenant's default currency
	CustomerID    *uuid.UUID
	Items         []ItemCommand
	TaxPercentage decimal.Decimal
	AmountPaid    decimal.Decimal
}

// ItemCommand is a line item within a CreateInvoiceCommand
type ItemCommand struct {
	Description string
	Amount      decimal.Decimal
}

// UpdateStatusCommand requests a status transition on an invoice
type UpdateStatusCommand struct {
	TenantID   uuid.UUID
	UserID     uuid.UUID
	InvoiceID  string
	Status     invoicing.InvoiceStatus
	AmountPaid *decimal.Decimal // required for PARTIAL_PAYMENT
	Reason     string           // required for VOID
}

// InvoiceItemResult is a line item in an invoice result
type InvoiceItemResult struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int             `json:"position"`
}

// InvoiceResult is the application-level view of an invoice
type InvoiceResult struct {
	ID            uuid.UUID           `json:"id"`
	InvoiceID     string              `json:"invoice_id"`
	UserInvoiceID string              `json:"user_invoice_id,omitempty"`
	ProjectName   string              `json:"project_name,omitempty"`
	InvoiceDate   *time.Time          `json:"invoice_date,omitempty"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Currency      string              `json:"currency"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
	Items         []InvoiceItemResult `json:"items"`
	TaxPercentage decimal.Decimal     `json:"tax_percentage"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	Total         decimal.Decimal     `json:"total"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	BalanceDue    decimal.Decimal     `json:"balance_due"`
	Status        string              `json:"status"`
	ReceiptID     string              `json:"receipt_id,omitempty"`
	VoidedAt      *time.Time          `json:"voided_at,omitempty"`
	VoidReason    string              `json:"void_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// SummaryResult aggregates collected and outstanding amounts
type SummaryResult struct {
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// InvoiceListResult is a paginated list of invoices
type InvoiceListResult struct {
	Invoices []InvoiceResult `json:"invoices"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// NewInvoiceResult builds an InvoiceResult from a domain invoice
func NewInvoiceResult(inv *invoicing.Invoice) *InvoiceResult {
	items := make([]InvoiceItemResult, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResult{
			ID:          item.ID,
			Description: item.Description,
			Amount:      item.Amount,
			Position:    item.Position,
		}
	}
	return &InvoiceResult{
		ID:            inv.ID,
		InvoiceID:     inv.InvoiceID,
		UserInvoiceID: inv.UserInvoiceID,
		ProjectName:   inv.ProjectName,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		Currency:      inv.Currency,
		CustomerID:    inv.CustomerID,
		Items:         items,
		TaxPercentage: inv.TaxPercentage,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		BalanceDue:    inv.BalanceDue,
		Status:        inv.Status.String(),
		ReceiptID:     inv.ReceiptID,
		VoidedAt:      inv.VoidedAt,
		VoidReason:    inv.VoidReason,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func newInvoiceListResult(invoices []*invoicing.Invoice, total int64, page, pageSize int) *InvoiceListResult {
	results := make([]InvoiceResult, len(invoices))
	for i, inv := range invoices {
		results[i] = *NewInvoiceResult(inv)
	}
	return &InvoiceListResult{
		Invoices: results,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
