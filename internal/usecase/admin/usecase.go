package admin

import (
	"context"
	"errors"
	"fmt"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/uow"
	"microlending/internal/usecase/guard"

	"gorm.io/gorm"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Bootstrap creates the platform state with owner on first start. On later starts the stored
// owner wins; a different configured owner is an error because ownership never changes.
func (u *Usecase) Bootstrap(ctx context.Context, owner string) (*platform.State, error) {
	if owner == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "protocol owner is required")
	}
	var out *platform.State
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		st, err := r.Platform.Get(ctx)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			st = &platform.State{Owner: owner}
			if err := r.Platform.Create(ctx, st); err != nil {
				return err
			}
		case err != nil:
			return err
		case st.Owner != owner:
			return fmt.Errorf("platform already owned by %s, refusing owner %s", st.Owner, owner)
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleEmergencyStop flips the stop flag and returns the new value.
func (u *Usecase) ToggleEmergencyStop(ctx context.Context, call platform.Call) (bool, error) {
	var stopped bool
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Owner(st, call); err != nil {
			return err
		}
		st.EmergencyStop = !st.EmergencyStop
		if err := r.Platform.Save(ctx, st); err != nil {
			return err
		}
		stopped = st.EmergencyStop
		return nil
	})
	return stopped, err
}

func (u *Usecase) Status(ctx context.Context) (*platform.State, error) {
	var out *platform.State
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		st, err := r.Platform.Get(ctx)
		if err != nil {
			return err
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
