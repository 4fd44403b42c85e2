package invoicing

import (
	"context"

	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary aggregates collected and outstanding amounts across a creator's invoices
type Summary struct {
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// InvoiceRepository defines the persistence contract for the invoice aggregate.
// Reads are always scoped to a tenant and the creating user; the invoice is
// stored together with its line items.
type InvoiceRepository interface {
	// Create persists the invoice and its items atomically
	Create(ctx context.Context, invoice *Invoice) error

	// SaveWithLock persists an updated invoice using optimistic locking on
	// the aggregate version. Returns ErrConcurrencyConflict when the stored
	// version does not match.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// ExistsByInvoiceID reports whether any invoice carries this invoice ID
	ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error)

	// FindByInvoiceID loads an invoice by its external identifier within
	// the creator's scope
	FindByInvoiceID(ctx context.Context, tenantID, createdBy uuid.UUID, invoiceID string) (*Invoice, error)

	// FindByReceiptID loads an invoice by its receipt identifier within
	// the creator's scope
	FindByReceiptID(ctx context.Context, tenantID, createdBy uuid.UUID, receiptID string) (*Invoice, error)

	// FindAll returns the creator's invoices, newest first
	FindAll(ctx context.Context, tenantID, createdBy uuid.UUID, filter shared.Filter) ([]*Invoice, int64, error)

	// FindByStatuses returns the creator's invoices in any of the given statuses
	FindByStatuses(ctx context.Context, tenantID, createdBy uuid.UUID, statuses []InvoiceStatus, filter shared.Filter) ([]*Invoice, int64, error)

	// FindByCustomer returns the creator's invoices for one customer
	FindByCustomer(ctx context.Context, tenantID, createdBy, customerID uuid.UUID, filter shared.Filter) ([]*Invoice, int64, error)

	// FindLatest returns the creator's most recently created invoices
	FindLatest(ctx context.Context, tenantID, createdBy uuid.UUID, limit int) ([]*Invoice, error)

	// Summarize computes totals collected and outstanding for the creator.
	// Void invoices are excluded from both figures.
	Summarize(ctx context.Context, tenantID, createdBy uuid.UUID) (*Summary, error)

	// CountByCreator counts the invoices a user has created across the tenant
	CountByCreator(ctx context.Context, tenantID, createdBy uuid.UUID) (int64, error)
}
