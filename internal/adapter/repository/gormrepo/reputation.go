package gormrepo

import (
	"context"

	reputationDomain "microlending/internal/domain/reputation"

	"gorm.io/gorm"
)

type ReputationRepository struct{ db *gorm.DB }

func NewReputationRepository(db *gorm.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

func (r *ReputationRepository) Get(ctx context.Context, borrower string) (*reputationDomain.Reputation, error) {
	var out reputationDomain.Reputation
	res := r.db.WithContext(ctx).Where("borrower = ?", borrower).First(&out)
	return &out, res.Error
}

func (r *ReputationRepository) Save(ctx context.Context, rep *reputationDomain.Reputation) error {
	return r.db.WithContext(ctx).Save(rep).Error
}
