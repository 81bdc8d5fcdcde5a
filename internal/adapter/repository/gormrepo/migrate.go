package gormrepo

import (
	"microlending/internal/domain/asset"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/price"
	"microlending/internal/domain/reputation"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the protocol uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&platform.State{},
		&asset.Asset{},
		&price.Price{},
		&loan.Loan{},
		&reputation.Reputation{},
	)
}
