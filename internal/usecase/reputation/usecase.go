package reputation

import (
	"context"
	"errors"

	"microlending/internal/domain/apperr"
	domain "microlending/internal/domain/reputation"
	"microlending/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Get returns the borrower's record. Borrowers without history get an unsaved neutral record.
func (u *Usecase) Get(ctx context.Context, borrower string) (*domain.Reputation, error) {
	if borrower == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "borrower principal is required")
	}
	var out *domain.Reputation
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rep, err := r.Reputations.Get(ctx, borrower)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = domain.New(borrower)
			return nil
		case err != nil:
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
