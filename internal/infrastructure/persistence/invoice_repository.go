package persistence

import (
	"context"
	"errors"

	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create persists the invoice and its line items in one transaction
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// SaveWithLock persists payment state changes using optimistic locking.
// Line items are immutable after creation and are not touched here.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.Invoice) error {
	updates := map[string]interface{}{
		"status":      invoice.Status,
		"amount_paid": invoice.AmountPaid,
		"balance_due": invoice.BalanceDue,
		"receipt_id":  invoice.ReceiptID,
		"voided_at":   invoice.VoidedAt,
		"void_reason": invoice.VoidReason,
		"updated_at":  invoice.UpdatedAt,
		"version":     invoice.Version,
	}

	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ExistsByInvoiceID reports whether any invoice carries this invoice ID
func (r *GormInvoiceRepository) ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByInvoiceID finds an invoice by its external identifier within the creator's scope
func (r *GormInvoiceRepository) FindByInvoiceID(ctx context.Context, tenantID, createdBy uuid.UUID, invoiceID string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("tenant_id = ? AND created_by = ? AND invoice_id = ?", tenantID, createdBy, invoiceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReceiptID finds an invoice by its receipt identifier within the creator's scope
func (r *GormInvoiceRepository) FindByReceiptID(ctx context.Context, tenantID, createdBy uuid.UUID, receiptID string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("tenant_id = ? AND created_by = ? AND receipt_id = ?", tenantID, createdBy, receiptID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the creator's invoices, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID, createdBy uuid.UUID, filter shared.Filter) ([]*invoicing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND created_by = ?", tenantID, createdBy)
	return r.findPage(query, filter)
}

// FindByStatuses returns the creator's invoices in any of the given statuses
func (r *GormInvoiceRepository) FindByStatuses(ctx context.Context, tenantID, createdBy uuid.UUID, statuses []invoicing.InvoiceStatus, filter shared.Filter) ([]*invoicing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND created_by = ? AND status IN ?", tenantID, createdBy, statuses)
	return r.findPage(query, filter)
}

// FindByCustomer returns the creator's invoices for one customer
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, createdBy, customerID uuid.UUID, filter shared.Filter) ([]*invoicing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND created_by = ? AND customer_id = ?", tenantID, createdBy, customerID)
	return r.findPage(query, filter)
}

// FindLatest returns the creator's most recently created invoices
func (r *GormInvoiceRepository) FindLatest(ctx context.Context, tenantID, createdBy uuid.UUID, limit int) ([]*invoicing.Invoice, error) {
	if limit <= 0 {
		limit = 5
	}
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("tenant_id = ? AND created_by = ?", tenantID, createdBy).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// Summarize computes totals collected and outstanding for the creator.
// Void invoices are excluded from both figures.
func (r *GormInvoiceRepository) Summarize(ctx context.Context, tenantID, createdBy uuid.UUID) (*invoicing.Summary, error) {
	var row struct {
		Collected   decimal.Decimal
		Outstanding decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(amount_paid), 0) AS collected, COALESCE(SUM(balance_due), 0) AS outstanding").
		Where("tenant_id = ? AND created_by = ? AND status <> ?", tenantID, createdBy, invoicing.StatusVoid).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &invoicing.Summary{Collected: row.Collected, Outstanding: row.Outstanding}, nil
}

// CountByCreator counts the invoices a user has created across the tenant
func (r *GormInvoiceRepository) CountByCreator(ctx context.Context, tenantID, createdBy uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND created_by = ?", tenantID, createdBy).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) findPage(query *gorm.DB, filter shared.Filter) ([]*invoicing.Invoice, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.InvoiceModel
	if err := query.
		Preload("Items", orderItems).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainInvoices(invoiceModels), total, nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("invoice_items.position ASC")
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []*invoicing.Invoice {
	invoices := make([]*invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}
