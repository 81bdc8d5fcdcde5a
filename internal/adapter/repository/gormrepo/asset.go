package gormrepo

import (
	"context"

	assetDomain "microlending/internal/domain/asset"

	"gorm.io/gorm"
)

type AssetRepository struct{ db *gorm.DB }

func NewAssetRepository(db *gorm.DB) *AssetRepository { return &AssetRepository{db: db} }

func (r *AssetRepository) Get(ctx context.Context, symbol string) (*assetDomain.Asset, error) {
	var out assetDomain.Asset
	res := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&out)
	return &out, res.Error
}

func (r *AssetRepository) Save(ctx context.Context, a *assetDomain.Asset) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AssetRepository) List(ctx context.Context) ([]assetDomain.Asset, error) {
	var out []assetDomain.Asset
	return out, r.db.WithContext(ctx).Order("symbol ASC").Find(&out).Error
}
