package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/clickinvoice/backend/internal/domain/invoicing"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InvoiceModelSQLite is a SQLite-compatible version of InvoiceModel for testing
type InvoiceModelSQLite struct {
	ID            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int     `gorm:"not null;default:1"`
	TenantID      string  `gorm:"index"`
	CreatedBy     *string `gorm:"index"`
	InvoiceID     string  `gorm:"uniqueIndex;not null"`
	UserInvoiceID string
	ProjectName   string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Notes         string
	Currency      string `gorm:"not null"`
	CustomerID    *string
	TaxPercentage decimal.Decimal `gorm:"type:decimal(8,4)"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2)"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2)"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2)"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(18,2)"`
	BalanceDue    decimal.Decimal `gorm:"type:decimal(18,2)"`
	Status        string          `gorm:"not null;default:'UNPAID'"`
	ReceiptID     string          `gorm:"index"`
	VoidedAt      *time.Time
	VoidReason    string
}

func (InvoiceModelSQLite) TableName() string {
	return "invoices"
}

// InvoiceItemModelSQLite is a SQLite-compatible version of InvoiceItemModel
type InvoiceItemModelSQLite struct {
	ID          string `gorm:"primaryKey"`
	InvoiceID   string `gorm:"index;not null"`
	Description string `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2)"`
	Position    int             `gorm:"not null;default:1"`
}

func (InvoiceItemModelSQLite) TableName() string {
	return "invoice_items"
}

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&InvoiceModelSQLite{}, &InvoiceItemModelSQLite{})
	require.NoError(t, err)

	return db
}

func newTestInvoice(t *testing.T, tenantID, createdBy uuid.UUID, invoiceID string) *invoicing.Invoice {
	inv, err := invoicing.NewInvoice(invoicing.NewInvoiceInput{
		TenantID:  tenantID,
		CreatedBy: createdBy,
		InvoiceID: invoiceID,
		Currency:  "USD",
		Items: []invoicing.ItemInput{
			{Description: "Design", Amount: decimal.NewFromInt(100)},
			{Description: "Hosting", Amount: decimal.NewFromInt(50)},
		},
		TaxPercentage: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()
	inv := newTestInvoice(t, tenantID, createdBy, "INV-001")

	require.NoError(t, repo.Create(ctx, inv))

	found, err := repo.FindByInvoiceID(ctx, tenantID, createdBy, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)
	assert.Equal(t, "INV-001", found.InvoiceID)
	assert.True(t, decimal.NewFromInt(165).Equal(found.Total), "total = %s", found.Total)
	assert.True(t, decimal.NewFromInt(165).Equal(found.BalanceDue))
	assert.Equal(t, invoicing.StatusUnpaid, found.Status)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Design", found.Items[0].Description)
	assert.Equal(t, "Hosting", found.Items[1].Description)
}

func TestGormInvoiceRepository_FindScopedToCreator(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	owner := uuid.New()
	other := uuid.New()
	require.NoError(t, repo.Create(ctx, newTestInvoice(t, tenantID, owner, "INV-001")))

	_, err := repo.FindByInvoiceID(ctx, tenantID, other, "INV-001")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByInvoiceID(ctx, uuid.New(), owner, "INV-001")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_ExistsByInvoiceID(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestInvoice(t, uuid.New(), uuid.New(), "INV-001")))

	exists, err := repo.ExistsByInvoiceID(ctx, "INV-001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByInvoiceID(ctx, "INV-002")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormInvoiceRepository_DuplicateInvoiceID(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestInvoice(t, uuid.New(), uuid.New(), "INV-001")))

	// Same external ID from a different tenant is still rejected
	err := repo.Create(ctx, newTestInvoice(t, uuid.New(), uuid.New(), "INV-001"))
	assert.Error(t, err)
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()
	inv := newTestInvoice(t, tenantID, createdBy, "INV-001")
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, inv.ApplyPartialPayment(decimal.NewFromInt(65)))
	require.NoError(t, repo.SaveWithLock(ctx, inv))

	found, err := repo.FindByInvoiceID(ctx, tenantID, createdBy, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatusPartialPayment, found.Status)
	assert.True(t, decimal.NewFromInt(65).Equal(found.AmountPaid))
	assert.True(t, decimal.NewFromInt(100).Equal(found.BalanceDue))
	assert.Equal(t, inv.ReceiptID, found.ReceiptID)
	assert.Equal(t, 2, found.Version)
}

func TestGormInvoiceRepository_SaveWithLock_Conflict(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()
	inv := newTestInvoice(t, tenantID, createdBy, "INV-001")
	require.NoError(t, repo.Create(ctx, inv))

	// Two copies of the same aggregate, as two concurrent requests would hold
	first, err := repo.FindByInvoiceID(ctx, tenantID, createdBy, "INV-001")
	require.NoError(t, err)
	second, err := repo.FindByInvoiceID(ctx, tenantID, createdBy, "INV-001")
	require.NoError(t, err)

	require.NoError(t, first.MarkPaid())
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.ApplyPartialPayment(decimal.NewFromInt(10)))
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormInvoiceRepository_FindLatest(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()
	for i := 0; i < 7; i++ {
		inv := newTestInvoice(t, tenantID, createdBy, "INV-00"+string(rune('1'+i)))
		inv.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, inv))
	}

	latest, err := repo.FindLatest(ctx, tenantID, createdBy, 5)
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.Equal(t, "INV-007", latest[0].InvoiceID)
}

func TestGormInvoiceRepository_FindByStatuses(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()

	paid := newTestInvoice(t, tenantID, createdBy, "INV-001")
	require.NoError(t, paid.MarkPaid())
	require.NoError(t, repo.Create(ctx, paid))

	partial := newTestInvoice(t, tenantID, createdBy, "INV-002")
	require.NoError(t, partial.ApplyPartialPayment(decimal.NewFromInt(50)))
	require.NoError(t, repo.Create(ctx, partial))

	require.NoError(t, repo.Create(ctx, newTestInvoice(t, tenantID, createdBy, "INV-003")))

	receipts, total, err := repo.FindByStatuses(ctx, tenantID, createdBy,
		[]invoicing.InvoiceStatus{invoicing.StatusPaid, invoicing.StatusPartialPayment},
		shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, receipts, 2)
	for _, inv := range receipts {
		assert.NotEmpty(t, inv.ReceiptID)
	}
}

func TestGormInvoiceRepository_Summarize(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()

	paid := newTestInvoice(t, tenantID, createdBy, "INV-001")
	require.NoError(t, paid.MarkPaid())
	require.NoError(t, repo.Create(ctx, paid))

	partial := newTestInvoice(t, tenantID, createdBy, "INV-002")
	require.NoError(t, partial.ApplyPartialPayment(decimal.NewFromInt(65)))
	require.NoError(t, repo.Create(ctx, partial))

	void := newTestInvoice(t, tenantID, createdBy, "INV-003")
	require.NoError(t, void.Void("test"))
	require.NoError(t, repo.Create(ctx, void))

	summary, err := repo.Summarize(ctx, tenantID, createdBy)
	require.NoError(t, err)
	// 165 (paid) + 65 (partial), void excluded
	assert.True(t, decimal.NewFromInt(230).Equal(summary.Collected), "collected = %s", summary.Collected)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.Outstanding), "outstanding = %s", summary.Outstanding)
}

func TestGormInvoiceRepository_CountByCreator(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	createdBy := uuid.New()
	require.NoError(t, repo.Create(ctx, newTestInvoice(t, tenantID, createdBy, "INV-001")))
	require.NoError(t, repo.Create(ctx, newTestInvoice(t, tenantID, createdBy, "INV-002")))
	require.NoError(t, repo.Create(ctx, newTestInvoice(t, tenantID, uuid.New(), "INV-003")))

	count, err := repo.CountByCreator(ctx, tenantID, createdBy)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
