package persistence

import (
	"context"
	"errors"

	"github.com/clickinvoice/backend/internal/domain/identity"
	"github.com/clickinvoice/backend/internal/domain/shared"
	"github.com/clickinvoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCurrencyRepository implements identity.CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindAll returns the supported currency directory
func (r *GormCurrencyRepository) FindAll(ctx context.Context) ([]*identity.Currency, error) {
	var currencyModels []models.CurrencyModel
	if err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&currencyModels).Error; err != nil {
		return nil, err
	}
	currencies := make([]*identity.Currency, len(currencyModels))
	for i := range currencyModels {
		currencies[i] = currencyModels[i].ToDomain()
	}
	return currencies, nil
}

// FindByCode looks up a currency by its ISO code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*identity.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).
		First(&model, "code = ?", identity.NormalizeCurrencyCode(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
