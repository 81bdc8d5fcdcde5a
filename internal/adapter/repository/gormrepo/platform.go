package gormrepo

import (
	"context"

	platformDomain "microlending/internal/domain/platform"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlatformRepository struct{ db *gorm.DB }

func NewPlatformRepository(db *gorm.DB) *PlatformRepository { return &PlatformRepository{db: db} }

func (r *PlatformRepository) Get(ctx context.Context) (*platformDomain.State, error) {
	var out platformDomain.State
	res := r.db.WithContext(ctx).Where("id = ?", platformDomain.SingletonID).First(&out)
	return &out, res.Error
}

// GetForUpdate takes the row lock that serializes every mutating operation. SQLite has no row
// locks; the gorm sqlite dialect drops the clause and the single-writer database lock applies.
func (r *PlatformRepository) GetForUpdate(ctx context.Context) (*platformDomain.State, error) {
	var out platformDomain.State
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", platformDomain.SingletonID).
		First(&out)
	return &out, res.Error
}

func (r *PlatformRepository) Create(ctx context.Context, s *platformDomain.State) error {
	s.ID = platformDomain.SingletonID
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PlatformRepository) Save(ctx context.Context, s *platformDomain.State) error {
	return r.db.WithContext(ctx).Save(s).Error
}
