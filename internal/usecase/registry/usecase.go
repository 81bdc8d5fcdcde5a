package registry

import (
	"context"
	"errors"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/asset"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/uow"
	"microlending/internal/usecase/guard"

	"gorm.io/gorm"
)

// Usecase maintains the collateral asset whitelist.
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Symbol normalizes and validates a symbol argument.
func Symbol(raw string) (string, error) {
	s := asset.NormalizeSymbol(raw)
	if !asset.ValidSymbol(s) {
		return "", apperr.Newf(apperr.KindInvalidArgument, "invalid asset symbol %q", raw)
	}
	return s, nil
}

// AddAsset whitelists symbol. Adding an already active asset is a no-op; adding a removed one
// reactivates it.
func (u *Usecase) AddAsset(ctx context.Context, call platform.Call, raw string) (*asset.Asset, error) {
	var out *asset.Asset
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Owner(st, call); err != nil {
			return err
		}
		symbol, err := Symbol(raw)
		if err != nil {
			return err
		}

		a, err := r.Assets.Get(ctx, symbol)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			a = &asset.Asset{Symbol: symbol}
		case err != nil:
			return err
		case a.Active:
			out = a
			return nil
		}
		a.Active = true
		if err := r.Assets.Save(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveAsset deactivates symbol. It is refused while a pending or active loan is collateralized
// by the asset; removing an inactive asset succeeds without change.
func (u *Usecase) RemoveAsset(ctx context.Context, call platform.Call, raw string) (*asset.Asset, error) {
	var out *asset.Asset
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Owner(st, call); err != nil {
			return err
		}
		symbol, err := Symbol(raw)
		if err != nil {
			return err
		}

		a, err := r.Assets.Get(ctx, symbol)
		if err != nil {
			return guard.NotFound(err, apperr.ErrAssetNotFound)
		}
		if !a.Active {
			out = a
			return nil
		}

		n, err := r.Loans.CountByAsset(ctx, symbol, loan.OpenStatuses...)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Newf(apperr.KindAssetInUse, "%s collateralizes %d open loan(s)", symbol, n)
		}

		a.Active = false
		if err := r.Assets.Save(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the registry record, active or not.
func (u *Usecase) Get(ctx context.Context, raw string) (*asset.Asset, error) {
	symbol, err := Symbol(raw)
	if err != nil {
		return nil, err
	}
	var out *asset.Asset
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Assets.Get(ctx, symbol)
		if err != nil {
			return guard.NotFound(err, apperr.ErrAssetNotFound)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) IsActive(ctx context.Context, raw string) (bool, error) {
	a, err := u.Get(ctx, raw)
	switch {
	case errors.Is(err, apperr.ErrAssetNotFound), errors.Is(err, apperr.ErrInvalidArgument):
		return false, nil
	case err != nil:
		return false, err
	}
	return a.Active, nil
}

func (u *Usecase) List(ctx context.Context) ([]asset.Asset, error) {
	var out []asset.Asset
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Assets.List(ctx)
		return err
	})
	return out, err
}
