package loan

import (
	"context"
	"errors"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/price"
	"microlending/internal/domain/reputation"
	"microlending/internal/domain/uow"
	"microlending/internal/usecase/collateral"
	"microlending/internal/usecase/guard"
	"microlending/internal/usecase/registry"

	"gorm.io/gorm"
)

// Usecase drives the loan lifecycle: PENDING -> ACTIVE -> REPAID | LIQUIDATED.
type Usecase struct {
	uow    uow.UnitOfWork
	engine *collateral.Engine
}

func NewUsecase(tx uow.UnitOfWork, e *collateral.Engine) *Usecase {
	return &Usecase{uow: tx, engine: e}
}

// Create records a PENDING loan for the caller. The collateral must be worth at least the minimum
// ratio at the current oracle price.
func (u *Usecase) Create(ctx context.Context, call platform.Call, in CreateInput) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Running(st); err != nil {
			return err
		}
		if err := guard.Caller(call); err != nil {
			return err
		}
		symbol, err := registry.Symbol(in.CollateralAsset)
		if err != nil {
			return err
		}
		if err := u.engine.ValidateTerms(in.Amount, in.CollateralAmount, in.Duration, in.InterestRate); err != nil {
			return err
		}

		a, err := r.Assets.Get(ctx, symbol)
		if err != nil {
			return guard.NotFound(err, apperr.ErrAssetNotFound)
		}
		if !a.Active {
			return apperr.Newf(apperr.KindAssetNotFound, "%s is not an active collateral asset", symbol)
		}
		p, err := r.Prices.Get(ctx, symbol)
		if err != nil {
			return guard.NotFound(err, apperr.Newf(apperr.KindAssetNotFound, "no price published for %s", symbol))
		}
		if err := u.engine.CheckOrigination(in.Amount, in.CollateralAmount, p, call.Height); err != nil {
			return err
		}

		l := &loan.Loan{
			ID:                        st.NextLoanID(),
			Borrower:                  call.Caller,
			Amount:                    in.Amount,
			CollateralAmount:          in.CollateralAmount,
			CollateralAsset:           symbol,
			InterestRate:              in.InterestRate,
			Duration:                  in.Duration,
			Status:                    loan.StatusPending,
			Lenders:                   []string{},
			LiquidationPriceThreshold: u.engine.LiquidationPrice(in.Amount, in.CollateralAmount),
			CreatedHeight:             call.Height,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Platform.Save(ctx, st); err != nil {
			return err
		}

		if _, err := r.Reputations.Get(ctx, call.Caller); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := r.Reputations.Save(ctx, reputation.New(call.Caller)); err != nil {
				return err
			}
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Activate funds a pending loan: the caller becomes a lender and the term starts now.
func (u *Usecase) Activate(ctx context.Context, call platform.Call, id uint64) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Running(st); err != nil {
			return err
		}
		if err := guard.Caller(call); err != nil {
			return err
		}
		l, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return guard.NotFound(err, apperr.ErrLoanNotFound)
		}
		if l.Status != loan.StatusPending {
			return apperr.Newf(apperr.KindInvalidState, "loan %d is %s, want %s", id, l.Status, loan.StatusPending)
		}

		start := call.Height
		l.StartHeight = &start
		l.Status = loan.StatusActive
		l.AddLender(call.Caller)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Repay applies a payment to an active loan. Once the cumulative payment equals principal plus
// interest the loan is REPAID and the borrower's reputation improves. Anyone may pay.
func (u *Usecase) Repay(ctx context.Context, call platform.Call, id, amount uint64) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Caller(call); err != nil {
			return err
		}
		if amount == 0 {
			return apperr.New(apperr.KindInvalidArgument, "repayment must be positive")
		}
		l, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return guard.NotFound(err, apperr.ErrLoanNotFound)
		}
		if l.Status != loan.StatusActive {
			return apperr.Newf(apperr.KindInvalidState, "loan %d is %s, want %s", id, l.Status, loan.StatusActive)
		}
		if left := collateral.Outstanding(l); amount > left {
			return apperr.Newf(apperr.KindOverpayment, "repayment %d exceeds outstanding %d", amount, left)
		}

		l.RepaidAmount += amount
		if l.RepaidAmount == collateral.AmountOwed(l) {
			h := call.Height
			l.Status = loan.StatusRepaid
			l.ClosedHeight = &h

			rep, err := reputationOf(ctx, r, l.Borrower)
			if err != nil {
				return err
			}
			rep.RecordRepayment(l.Amount)
			if err := r.Reputations.Save(ctx, rep); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Liquidate closes an active loan that has matured or whose collateral price fell under its
// threshold. The borrower takes a default.
func (u *Usecase) Liquidate(ctx context.Context, call platform.Call, id uint64) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinPlatformTx(ctx, func(r uow.Repos, st *platform.State) error {
		if err := guard.Caller(call); err != nil {
			return err
		}
		l, err := r.Loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return guard.NotFound(err, apperr.ErrLoanNotFound)
		}
		if l.Status != loan.StatusActive {
			return apperr.Newf(apperr.KindInvalidState, "loan %d is %s, want %s", id, l.Status, loan.StatusActive)
		}
		p, err := priceOf(ctx, r, l.CollateralAsset)
		if err != nil {
			return err
		}
		if v := u.engine.Evaluate(l, p, call.Height); !v.Liquidatable() {
			return apperr.Newf(apperr.KindNotLiquidatable,
				"loan %d: matures at %d, price %d not under %d", id, v.MaturityHeight, v.Price, v.Threshold)
		}

		h := call.Height
		l.Status = loan.StatusLiquidated
		l.ClosedHeight = &h
		l.LiquidatedBy = call.Caller
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		rep, err := reputationOf(ctx, r, l.Borrower)
		if err != nil {
			return err
		}
		rep.RecordDefault()
		if err := r.Reputations.Save(ctx, rep); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, id)
		if err != nil {
			return guard.NotFound(err, apperr.ErrLoanNotFound)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckLiquidation reports whether an active loan could be liquidated at height, without
// changing anything.
func (u *Usecase) CheckLiquidation(ctx context.Context, id, height uint64) (*collateral.Verdict, error) {
	var out *collateral.Verdict
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, id)
		if err != nil {
			return guard.NotFound(err, apperr.ErrLoanNotFound)
		}
		if l.Status != loan.StatusActive {
			return apperr.Newf(apperr.KindInvalidState, "loan %d is %s, want %s", id, l.Status, loan.StatusActive)
		}
		p, err := priceOf(ctx, r, l.CollateralAsset)
		if err != nil {
			return err
		}
		v := u.engine.Evaluate(l, p, height)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BorrowerLoans lists the ids of the borrower's pending and active loans and their total principal.
func (u *Usecase) BorrowerLoans(ctx context.Context, borrower string) (*BorrowerLoans, error) {
	if borrower == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "borrower principal is required")
	}
	out := &BorrowerLoans{Borrower: borrower, ActiveLoans: []uint64{}}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ls, err := r.Loans.ListByBorrower(ctx, borrower, loan.OpenStatuses...)
		if err != nil {
			return err
		}
		for _, l := range ls {
			out.ActiveLoans = append(out.ActiveLoans, l.ID)
			out.TotalActiveBorrowed += l.Amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func reputationOf(ctx context.Context, r uow.Repos, borrower string) (*reputation.Reputation, error) {
	rep, err := r.Reputations.Get(ctx, borrower)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reputation.New(borrower), nil
	}
	return rep, err
}

// priceOf returns nil when the asset has no price; maturity alone can still liquidate.
func priceOf(ctx context.Context, r uow.Repos, symbol string) (*price.Price, error) {
	p, err := r.Prices.Get(ctx, symbol)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return p, err
}
