package gormrepo

import (
	"context"

	priceDomain "microlending/internal/domain/price"

	"gorm.io/gorm"
)

type PriceRepository struct{ db *gorm.DB }

func NewPriceRepository(db *gorm.DB) *PriceRepository { return &PriceRepository{db: db} }

func (r *PriceRepository) Get(ctx context.Context, symbol string) (*priceDomain.Price, error) {
	var out priceDomain.Price
	res := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&out)
	return &out, res.Error
}

// Save overwrites the single price row of the asset.
func (r *PriceRepository) Save(ctx context.Context, p *priceDomain.Price) error {
	return r.db.WithContext(ctx).Save(p).Error
}
