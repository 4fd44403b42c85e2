package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/partner"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/infrastructure/logger"
	"github.com/clickinvoice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotaChecker gates invoice creation against the user's plan
type QuotaChecker interface {
	CanCreateInvoice(ctx context.Context, tenantID, userID uuid.UUID) error
}

// InvoiceService orchestrates the invoice financial lifecycle
type InvoiceService struct {
	invoiceRepo  invoicing.InvoiceRepository
	customerRepo partner.CustomerRepository
	currencyRepo identity.CurrencyRepository
	tenantRepo   identity.TenantRepository
	quota        QuotaChecker
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	currencyRepo identity.CurrencyRepository,
	tenantRepo identity.TenantRepository,
	quota QuotaChecker,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		currencyRepo: currencyRepo,
		tenantRepo:   tenantRepo,
		quota:        quota,
	}
}

// CreateInvoice opens a new invoice with its line items. The invoice and its
// items are persisted atomically.
func (s *InvoiceService) CreateInvoice(ctx context.Context, cmd CreateInvoiceCommand) (*InvoiceResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create")
	defer span.End()
	telemetry.SetAttribute(span, "invoice_id", cmd.InvoiceID)

	if err := s.quota.CanCreateInvoice(ctx, cmd.TenantID, cmd.UserID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	currency, err := s.resolveCurrency(ctx, cmd.TenantID, cmd.Currency)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if cmd.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(ctx, cmd.TenantID, *cmd.CustomerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				err = shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
			}
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	exists, err := s.invoiceRepo.ExistsByInvoiceID(ctx, cmd.InvoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check invoice ID: %w", err)
	}
	if exists {
		err := shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Invoice ID %s is already in use", cmd.InvoiceID))
		telemetry.RecordError(span, err)
		return nil, err
	}

	items := make([]invoicing.ItemInput, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = invoicing.ItemInput{Description: item.Description, Amount: item.Amount}
	}

	inv, err := invoicing.NewInvoice(invoicing.NewInvoiceInput{
		TenantID:      cmd.TenantID,
		CreatedBy:     cmd.UserID,
		InvoiceID:     cmd.InvoiceID,
		UserInvoiceID: cmd.UserInvoiceID,
		ProjectName:   cmd.ProjectName,
		InvoiceDate:   cmd.InvoiceDate,
		DueDate:       cmd.DueDate,
		Notes:         cmd.Notes,
		Currency:      currency,
		CustomerID:    cmd.CustomerID,
		Items:         items,
		TaxPercentage: cmd.TaxPercentage,
		AmountPaid:    cmd.AmountPaid,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Lost the race with a concurrent create using the same ID
			err = shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Invoice ID %s is already in use", cmd.InvoiceID))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("invoice created",
		zap.String("invoice_id", inv.InvoiceID),
		zap.String("total", inv.Total.String()),
		zap.Int("items", inv.ItemCount()),
	)
	return NewInvoiceResult(inv), nil
}

// UpdateStatus applies a status transition to an invoice. Receipt IDs are
// issued on the first payment-bearing transition. Concurrent transitions on
// the same invoice are resolved by optimistic locking.
func (s *InvoiceService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*InvoiceResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update_status")
	defer span.End()
	telemetry.SetAttribute(span, "invoice_id", cmd.InvoiceID)
	telemetry.SetAttribute(span, "target_status", cmd.Status.String())

	if !cmd.Status.IsValid() {
		err := shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", string(cmd.Status)))
		telemetry.RecordError(span, err)
		return nil, err
	}

	inv, err := s.invoiceRepo.FindByInvoiceID(ctx, cmd.TenantID, cmd.UserID, cmd.InvoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	switch cmd.Status {
	case invoicing.StatusPaid:
		err = inv.MarkPaid()
	case invoicing.StatusPartialPayment:
		if cmd.AmountPaid == nil {
			err = shared.NewDomainError("INVALID_AMOUNT", "amount_paid is required for a partial payment")
		} else {
			err = inv.ApplyPartialPayment(*cmd.AmountPaid)
		}
	case invoicing.StatusOverdue:
		err = inv.MarkOverdue()
	case invoicing.StatusVoid:
		err = inv.Void(cmd.Reason)
	default:
		err = shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition to %s", cmd.Status))
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("invoice status updated",
		zap.String("invoice_id", inv.InvoiceID),
		zap.String("status", inv.Status.String()),
		zap.String("balance_due", inv.BalanceDue.String()),
	)
	return NewInvoiceResult(inv), nil
}

// GetInvoice loads one invoice by its external identifier
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, userID uuid.UUID, invoiceID string) (*InvoiceResult, error) {
	inv, err := s.invoiceRepo.FindByInvoiceID(ctx, tenantID, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	return NewInvoiceResult(inv), nil
}

// GetByReceiptID loads one invoice by its receipt identifier
func (s *InvoiceService) GetByReceiptID(ctx context.Context, tenantID, userID uuid.UUID, receiptID string) (*InvoiceResult, error) {
	inv, err := s.invoiceRepo.FindByReceiptID(ctx, tenantID, userID, receiptID)
	if err != nil {
		return nil, err
	}
	return NewInvoiceResult(inv), nil
}

// ListInvoices returns the user's invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (*InvoiceListResult, error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, err
	}
	return newInvoiceListResult(invoices, total, filter.Page, filter.PageSize), nil
}

// ListReceipts returns invoices that carry receipts. When status is non-nil
// it narrows the list to that status; only PAID and PARTIAL_PAYMENT qualify.
func (s *InvoiceService) ListReceipts(ctx context.Context, tenantID, userID uuid.UUID, status *invoicing.InvoiceStatus, filter shared.Filter) (*InvoiceListResult, error) {
	statuses := []invoicing.InvoiceStatus{invoicing.StatusPaid, invoicing.StatusPartialPayment}
	if status != nil {
		if !status.IsReceiptable() {
			return nil, shared.NewDomainError("INVALID_STATUS",
				fmt.Sprintf("Receipts exist only for PAID and PARTIAL_PAYMENT invoices, got %q", string(*status)))
		}
		statuses = []invoicing.InvoiceStatus{*status}
	}

	invoices, total, err := s.invoiceRepo.FindByStatuses(ctx, tenantID, userID, statuses, filter)
	if err != nil {
		return nil, err
	}
	return newInvoiceListResult(invoices, total, filter.Page, filter.PageSize), nil
}

// ListByCustomer returns the user's invoices for one customer
func (s *InvoiceService) ListByCustomer(ctx context.Context, tenantID, userID, customerID uuid.UUID, filter shared.Filter) (*InvoiceListResult, error) {
	invoices, total, err := s.invoiceRepo.FindByCustomer(ctx, tenantID, userID, customerID, filter)
	if err != nil {
		return nil, err
	}
	return newInvoiceListResult(invoices, total, filter.Page, filter.PageSize), nil
}

// ListLatest returns the user's most recent invoices
func (s *InvoiceService) ListLatest(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]InvoiceResult, error) {
	invoices, err := s.invoiceRepo.FindLatest(ctx, tenantID, userID, limit)
	if err != nil {
		return nil, err
	}
	results := make([]InvoiceResult, len(invoices))
	for i, inv := range invoices {
		results[i] = *NewInvoiceResult(inv)
	}
	return results, nil
}

// GetSummary computes the user's collected and outstanding totals
func (s *InvoiceService) GetSummary(ctx context.Context, tenantID, userID uuid.UUID) (*SummaryResult, error) {
	summary, err := s.invoiceRepo.Summarize(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Collected: summary.Collected, Outstanding: summary.Outstanding}, nil
}

// resolveCurrency validates the requested currency against the directory, or
// falls back to the tenant's default when none was requested.
func (s *InvoiceService) resolveCurrency(ctx context.Context, tenantID uuid.UUID, code string) (string, error) {
	if code == "" {
		tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
		if err != nil {
			return "", fmt.Errorf("failed to load tenant: %w", err)
		}
		return tenant.Currency, nil
	}

	currency, err := s.currencyRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError("CURRENCY_NOT_FOUND", fmt.Sprintf("Currency %q is not supported", code))
		}
		return "", fmt.Errorf("failed to look up currency: %w", err)
	}
	return currency.Code, nil
}
