package uowmock

import (
	"context"
	"errors"

	"microlending/internal/domain/platform"
	"microlending/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPlatformTxFn func(ctx context.Context, fn func(r uow.Repos, st *platform.State) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every body directly against repos, handing st to platform transactions.
// Nothing is rolled back.
func Passthrough(repos uow.Repos, st *platform.State) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinPlatformTxFn: func(_ context.Context, fn func(uow.Repos, *platform.State) error) error {
			return fn(repos, st)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPlatformTx(fn func(context.Context, func(uow.Repos, *platform.State) error) error) *UoW {
	m.WithinPlatformTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPlatformTx(ctx context.Context, fn func(r uow.Repos, st *platform.State) error) error {
	if m.WithinPlatformTxFn != nil {
		return m.WithinPlatformTxFn(ctx, fn)
	}
	return errUnimplemented
}
