package protocol

import (
	"context"

	"microlending/internal/domain/asset"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/platform"
	"microlending/internal/domain/price"
	loanuc "microlending/internal/usecase/loan"
)

// Operation is one state-changing protocol call. The set is closed: only the types in this file
// implement it.
type Operation interface {
	Name() string
	apply(ctx context.Context, s *Service, call platform.Call) (Result, error)
}

// Result carries whatever the applied operation produced.
type Result struct {
	Op            string       `json:"op"`
	LoanID        uint64       `json:"loan_id,omitempty"`
	Loan          *loan.Loan   `json:"loan,omitempty"`
	Asset         *asset.Asset `json:"asset,omitempty"`
	Price         *price.Price `json:"price,omitempty"`
	EmergencyStop *bool        `json:"emergency_stop,omitempty"`
}

type AddCollateralAsset struct{ Symbol string }

func (AddCollateralAsset) Name() string { return "add-collateral-asset" }

func (o AddCollateralAsset) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	a, err := s.assets.AddAsset(ctx, call, o.Symbol)
	return Result{Asset: a}, err
}

type RemoveCollateralAsset struct{ Symbol string }

func (RemoveCollateralAsset) Name() string { return "remove-collateral-asset" }

func (o RemoveCollateralAsset) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	a, err := s.assets.RemoveAsset(ctx, call, o.Symbol)
	return Result{Asset: a}, err
}

type UpdateAssetPrice struct {
	Symbol string
	Price  uint64
}

func (UpdateAssetPrice) Name() string { return "update-asset-price" }

func (o UpdateAssetPrice) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	p, err := s.oracle.UpdatePrice(ctx, call, o.Symbol, o.Price)
	return Result{Price: p}, err
}

type CreateLoanRequest loanuc.CreateInput

func (CreateLoanRequest) Name() string { return "create-loan-request" }

func (o CreateLoanRequest) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	return loanResult(s.loans.Create(ctx, call, loanuc.CreateInput(o)))
}

type ActivateLoan struct{ LoanID uint64 }

func (ActivateLoan) Name() string { return "activate-loan" }

func (o ActivateLoan) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	return loanResult(s.loans.Activate(ctx, call, o.LoanID))
}

type Repay struct {
	LoanID uint64
	Amount uint64
}

func (Repay) Name() string { return "repay" }

func (o Repay) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	return loanResult(s.loans.Repay(ctx, call, o.LoanID, o.Amount))
}

type LiquidateLoan struct{ LoanID uint64 }

func (LiquidateLoan) Name() string { return "liquidate-loan" }

func (o LiquidateLoan) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	return loanResult(s.loans.Liquidate(ctx, call, o.LoanID))
}

type ToggleEmergencyStop struct{}

func (ToggleEmergencyStop) Name() string { return "toggle-emergency-stop" }

func (ToggleEmergencyStop) apply(ctx context.Context, s *Service, call platform.Call) (Result, error) {
	stopped, err := s.admin.ToggleEmergencyStop(ctx, call)
	if err != nil {
		return Result{}, err
	}
	return Result{EmergencyStop: &stopped}, nil
}

func loanResult(l *loan.Loan, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{LoanID: l.ID, Loan: l}, nil
}
