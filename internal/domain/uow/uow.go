package uow

import (
	"context"

	"microlending/internal/domain/asset"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/price"
	"microlending/internal/domain/reputation"
)

// Repos are bound to one transaction.
type Repos struct {
	Assets      asset.Repository
	Prices      price.Repository
	Loans       loan.Repository
	Reputations reputation.Repository
	Platform    platform.Repository
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back every write otherwise.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinPlatformTx locks the platform row first, then passes it in.
	WithinPlatformTx(ctx context.Context, fn func(r Repos, st *platform.State) error) error
}
