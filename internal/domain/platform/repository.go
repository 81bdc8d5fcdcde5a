package platform

import "context"

type Repository interface {
	// Get returns gorm.ErrRecordNotFound before bootstrap.
	Get(ctx context.Context) (*State, error)
	// GetForUpdate locks the singleton row; every mutating operation takes this lock first.
	GetForUpdate(ctx context.Context) (*State, error)
	Create(ctx context.Context, s *State) error
	Save(ctx context.Context, s *State) error
}
