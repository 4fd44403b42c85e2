package invoicing

import (
	"fmt"
	"time"

	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	StatusUnpaid         InvoiceStatus = "UNPAID"          // No payment received yet
	StatusPartialPayment InvoiceStatus = "PARTIAL_PAYMENT" // Some payment received, balance remains
	StatusPaid           InvoiceStatus = "PAID"            // Fully paid, balance due = 0
	StatusOverdue        InvoiceStatus = "OVERDUE"         // Past due date with an open balance
	StatusVoid           InvoiceStatus = "VOID"            // Explicitly voided, audited
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusPartialPayment, StatusPaid, StatusOverdue, StatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusVoid
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == StatusUnpaid || s == StatusPartialPayment || s == StatusOverdue
}

// IsReceiptable returns true if entering this status issues a receipt
func (s InvoiceStatus) IsReceiptable() bool {
	return s == StatusPaid || s == StatusPartialPayment
}

// InvoiceItem is a line item within the Invoice aggregate
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int             `json:"position"`
}

// ItemInput describes a line item supplied at creation time
type ItemInput struct {
	Description string
	Amount      decimal.Decimal
}

// Invoice is the aggregate root of the invoice financial lifecycle.
// All monetary fields are fixed-point decimals rounded to two places and the
// invariant BalanceDue = Total - AmountPaid holds after every mutation.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceID     string          `json:"invoice_id"`
	UserInvoiceID string          `json:"user_invoice_id,omitempty"`
	ProjectName   string          `json:"project_name,omitempty"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Currency      string          `json:"currency"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	Items         []InvoiceItem   `json:"items"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Status        InvoiceStatus   `json:"status"`
	ReceiptID     string          `json:"receipt_id,omitempty"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`
	VoidReason    string          `json:"void_reason,omitempty"`
}

// NewInvoiceInput contains everything needed to open an invoice
type NewInvoiceInput struct {
	TenantID      uuid.UUID
	CreatedBy     uuid.UUID
	InvoiceID     string
	UserInvoiceID string
	ProjectName   string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Notes         string
	Currency      string
	CustomerID    *uuid.UUID
	Items         []ItemInput
	TaxPercentage decimal.Decimal
	AmountPaid    decimal.Decimal
}

// NewInvoice creates an invoice with its line items and computes
// subtotal, tax, total and balance due.
func NewInvoice(input NewInvoiceInput) (*Invoice, error) {
	if input.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}
	if input.InvoiceID == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_ID", "Invoice ID cannot be empty")
	}
	if len(input.InvoiceID) > 100 {
		return nil, shared.NewDomainError("INVALID_INVOICE_ID", "Invoice ID cannot exceed 100 characters")
	}
	if input.Currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice must contain at least one item")
	}
	if input.TaxPercentage.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax percentage cannot be negative")
	}
	if input.AmountPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot be negative")
	}

	items := make([]InvoiceItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for i, item := range input.Items {
		if item.Description == "" {
			return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Item %d description cannot be empty", i+1))
		}
		if item.Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Item %d amount cannot be negative", i+1))
		}
		items = append(items, InvoiceItem{
			ID:          uuid.New(),
			Description: item.Description,
			Amount:      item.Amount.Round(2),
			Position:    i + 1,
		})
		subtotal = subtotal.Add(item.Amount)
	}

	subtotal = subtotal.Round(2)
	taxAmount := decimal.Zero
	if input.TaxPercentage.IsPositive() {
		taxAmount = subtotal.Mul(input.TaxPercentage).Div(decimal.NewFromInt(100)).Round(2)
	}
	total := subtotal.Add(taxAmount)

	amountPaid := input.AmountPaid.Round(2)
	if amountPaid.GreaterThan(total) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot exceed invoice total")
	}
	balanceDue := total.Sub(amountPaid)

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(input.TenantID, input.CreatedBy),
		InvoiceID:           input.InvoiceID,
		UserInvoiceID:       input.UserInvoiceID,
		ProjectName:         input.ProjectName,
		InvoiceDate:         input.InvoiceDate,
		DueDate:             input.DueDate,
		Notes:               input.Notes,
		Currency:            input.Currency,
		CustomerID:          input.CustomerID,
		Items:               items,
		TaxPercentage:       input.TaxPercentage,
		Subtotal:            subtotal,
		TaxAmount:           taxAmount,
		Total:               total,
		AmountPaid:          amountPaid,
		BalanceDue:          balanceDue,
		Status:              StatusUnpaid,
	}

	return inv, nil
}

// MarkPaid settles the invoice in full: the outstanding balance moves to
// amount paid and the balance due drops to zero. A receipt ID is issued on
// the first payment-bearing transition and never regenerated.
func (inv *Invoice) MarkPaid() error {
	if inv.Status == StatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply payment to a void invoice")
	}

	inv.ensureReceiptID()
	inv.AmountPaid = inv.AmountPaid.Add(inv.BalanceDue)
	inv.BalanceDue = decimal.Zero
	inv.Status = StatusPaid
	inv.touch()
	return nil
}

// ApplyPartialPayment records a partial payment of amount p against the
// outstanding balance. p must satisfy 0 <= p <= BalanceDue.
func (inv *Invoice) ApplyPartialPayment(p decimal.Decimal) error {
	if !inv.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to invoice in %s status", inv.Status))
	}
	if p.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	if p.GreaterThan(inv.BalanceDue) {
		return shared.NewDomainError("EXCEEDS_BALANCE", "Amount paid cannot exceed balance due")
	}

	inv.ensureReceiptID()
	inv.AmountPaid = inv.AmountPaid.Add(p.Round(2))
	inv.BalanceDue = inv.Total.Sub(inv.AmountPaid)
	inv.Status = StatusPartialPayment
	inv.touch()
	return nil
}

// MarkOverdue flags an open invoice as past due. No amounts change.
func (inv *Invoice) MarkOverdue() error {
	if inv.Status != StatusUnpaid && inv.Status != StatusPartialPayment {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status as overdue", inv.Status))
	}
	inv.Status = StatusOverdue
	inv.touch()
	return nil
}

// Void cancels the invoice with an audited reason. Voiding a paid invoice is
// permitted but recorded; amounts are left untouched for the audit trail.
func (inv *Invoice) Void(reason string) error {
	if inv.Status == StatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already void")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	inv.Status = StatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = reason
	inv.touch()
	return nil
}

// HasReceipt returns true if a receipt ID has been issued
func (inv *Invoice) HasReceipt() bool {
	return inv.ReceiptID != ""
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == StatusPaid
}

// IsOverdue returns true if the invoice is past its due date with an open balance
func (inv *Invoice) IsOverdue() bool {
	if inv.Status == StatusPaid || inv.Status == StatusVoid {
		return false
	}
	if inv.DueDate == nil {
		return false
	}
	return time.Now().After(*inv.DueDate)
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

func (inv *Invoice) ensureReceiptID() {
	if inv.ReceiptID == "" {
		inv.ReceiptID = GenerateReceiptID()
	}
}

func (inv *Invoice) touch() {
	inv.IncrementVersion()
}
