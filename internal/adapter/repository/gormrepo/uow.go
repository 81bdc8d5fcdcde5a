package gormrepo

import (
	"context"

	"microlending/internal/domain/platform"
	"microlending/internal/domain/uow"

	"gorm.io/gorm"
)

var _ uow.UnitOfWork = (*GormUoW)(nil)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Assets:      &AssetRepository{db: tx},
		Prices:      &PriceRepository{db: tx},
		Loans:       &LoanRepository{db: tx},
		Reputations: &ReputationRepository{db: tx},
		Platform:    &PlatformRepository{db: tx},
	}
}

// Repos returns repositories bound to the plain connection, for reads outside a transaction.
func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinPlatformTx(ctx context.Context, fn func(r uow.Repos, st *platform.State) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the platform row up-front so operations apply one at a time
		st, err := r.Platform.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		return fn(r, st)
	})
}
