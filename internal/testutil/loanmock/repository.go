package loanmock

import (
	"context"

	domain "microlending/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn           func(ctx context.Context, l *domain.Loan) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Loan, error)
	SaveFn             func(ctx context.Context, l *domain.Loan) error
	CountByAssetFn     func(ctx context.Context, symbol string, statuses ...domain.Status) (int64, error)
	ListByBorrowerFn   func(ctx context.Context, borrower string, statuses ...domain.Status) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) CountByAsset(ctx context.Context, symbol string, statuses ...domain.Status) (int64, error) {
	if m.CountByAssetFn != nil {
		return m.CountByAssetFn(ctx, symbol, statuses...)
	}
	return 0, context.Canceled
}
func (m *Repo) ListByBorrower(ctx context.Context, borrower string, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrower, statuses...)
	}
	return nil, context.Canceled
}
