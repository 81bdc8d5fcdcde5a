package platformmock

import (
	"context"

	domain "microlending/internal/domain/platform"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn          func(ctx context.Context) (*domain.State, error)
	GetForUpdateFn func(ctx context.Context) (*domain.State, error)
	CreateFn       func(ctx context.Context, s *domain.State) error
	SaveFn         func(ctx context.Context, s *domain.State) error
}

func (m *Repo) Get(ctx context.Context) (*domain.State, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, context.Canceled
}
func (m *Repo) GetForUpdate(ctx context.Context) (*domain.State, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx)
	}
	return nil, context.Canceled
}
func (m *Repo) Create(ctx context.Context, s *domain.State) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, s *domain.State) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
