package oracle

import (
	"context"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/price"
	"microlending/internal/domain/uow"
	"microlending/internal/usecase/guard"
	"microlending/internal/usecase/registry"
)

// Usecase is the admin-fed price feed. It keeps only the latest price per asset.
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// UpdatePrice overwrites the price of an active asset and stamps it with the call height.
func (u *Usecase) UpdatePrice(ctx context.Context, call platform.Call, raw string, px uint64) (*price.Price, error) {
	var out *price.Price
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Owner(st, call); err != nil {
			return err
		}
		symbol, err := registry.Symbol(raw)
		if err != nil {
			return err
		}
		if px == 0 {
			return apperr.New(apperr.KindInvalidArgument, "price must be positive")
		}

		a, err := r.Assets.Get(ctx, symbol)
		if err != nil {
			return guard.NotFound(err, apperr.ErrAssetNotFound)
		}
		if !a.Active {
			return apperr.Newf(apperr.KindAssetNotFound, "%s is not an active collateral asset", symbol)
		}

		p := &price.Price{Symbol: symbol, Price: px, LastUpdatedHeight: call.Height}
		if err := r.Prices.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetPrice returns the last published price; AssetNotFound when none exists.
func (u *Usecase) GetPrice(ctx context.Context, raw string) (*price.Price, error) {
	symbol, err := registry.Symbol(raw)
	if err != nil {
		return nil, err
	}
	var out *price.Price
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Prices.Get(ctx, symbol)
		if err != nil {
			return guard.NotFound(err, apperr.ErrAssetNotFound)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
