package collateral

import (
	"math"

	"github.com/holiman/uint256"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/price"
)

var (
	bps   = uint256.NewInt(BasisPoints)
	scale = uint256.NewInt(price.Scale)
)

// Engine evaluates collateralization and liquidation eligibility. It holds no state besides its
// parameters and never touches storage.
type Engine struct {
	params Params
}

func NewEngine(p Params) *Engine { return &Engine{params: p} }

func (e *Engine) Params() Params { return e.params }

// ValidateTerms enforces the argument bounds of a loan request regardless of what the caller
// layer validated.
func (e *Engine) ValidateTerms(amount, collateralAmount, duration, rateBps uint64) error {
	switch {
	case amount == 0:
		return apperr.New(apperr.KindInvalidArgument, "loan amount must be positive")
	case collateralAmount == 0:
		return apperr.New(apperr.KindInvalidArgument, "collateral amount must be positive")
	case duration < e.params.MinDurationBlocks || duration > e.params.MaxDurationBlocks:
		return apperr.Newf(apperr.KindInvalidArgument, "duration %d outside [%d, %d] blocks",
			duration, e.params.MinDurationBlocks, e.params.MaxDurationBlocks)
	case rateBps > e.params.MaxInterestRateBps:
		return apperr.Newf(apperr.KindInvalidArgument, "interest rate %d bps above max %d bps",
			rateBps, e.params.MaxInterestRateBps)
	}
	if _, ok := owed(amount, rateBps); !ok {
		return apperr.New(apperr.KindInvalidArgument, "amount owed overflows")
	}
	return nil
}

// RatioBps is collateral value over principal in basis points, rounded down and saturated at
// MaxUint64. Principal is denominated in the oracle's USD unit.
func (e *Engine) RatioBps(amount, collateralAmount, px uint64) uint64 {
	if amount == 0 {
		return math.MaxUint64
	}
	num := new(uint256.Int).Mul(uint256.NewInt(collateralAmount), uint256.NewInt(px))
	num.Mul(num, bps)
	den := new(uint256.Int).Mul(uint256.NewInt(amount), scale)
	return saturate(num.Div(num, den))
}

// CheckOrigination certifies that collateral at the given price covers the minimum ratio.
// The ratio is floored, so a request exactly at the minimum passes and anything under it fails.
func (e *Engine) CheckOrigination(amount, collateralAmount uint64, p *price.Price, height uint64) error {
	if e.Stale(p, height) {
		return apperr.Newf(apperr.KindPriceStale, "price for %s is %d blocks old (max %d)",
			p.Symbol, p.Age(height), e.params.MaxPriceAgeBlocks)
	}
	if r := e.RatioBps(amount, collateralAmount, p.Price); r < e.params.MinCollateralRatioBps {
		return apperr.Newf(apperr.KindInsufficientCollateral,
			"collateral ratio %d bps below minimum %d bps", r, e.params.MinCollateralRatioBps)
	}
	return nil
}

// LiquidationPrice is the lowest collateral price at which the loan still sits at or above the
// liquidation ratio. Any live price strictly below it triggers liquidation. Rounded up.
func (e *Engine) LiquidationPrice(amount, collateralAmount uint64) uint64 {
	if collateralAmount == 0 {
		return math.MaxUint64
	}
	num := new(uint256.Int).Mul(uint256.NewInt(amount), scale)
	num.Mul(num, uint256.NewInt(e.params.LiquidationRatioBps))
	den := new(uint256.Int).Mul(uint256.NewInt(collateralAmount), bps)
	return saturate(ceilDiv(num, den))
}

// Interest is the flat interest over the whole term, rounded up.
func Interest(amount, rateBps uint64) uint64 {
	num := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(rateBps))
	return saturate(ceilDiv(num, bps))
}

// AmountOwed is principal plus interest.
func AmountOwed(l *loan.Loan) uint64 {
	v, _ := owed(l.Amount, l.InterestRate)
	return v
}

// Outstanding is what remains to be repaid.
func Outstanding(l *loan.Loan) uint64 {
	o := AmountOwed(l)
	if l.RepaidAmount >= o {
		return 0
	}
	return o - l.RepaidAmount
}

func (e *Engine) Stale(p *price.Price, height uint64) bool {
	return p != nil && e.params.MaxPriceAgeBlocks > 0 && p.Age(height) > e.params.MaxPriceAgeBlocks
}

// Verdict explains a liquidation check.
type Verdict struct {
	LoanID         uint64 `json:"loan_id"`
	Height         uint64 `json:"height"`
	MaturityHeight uint64 `json:"maturity_height,omitempty"`
	Matured        bool   `json:"matured"`
	Price          uint64 `json:"price"`
	Threshold      uint64 `json:"liquidation_price_threshold"`
	PriceStale     bool   `json:"price_stale"`
	PriceBreached  bool   `json:"price_breached"`
}

func (v Verdict) Liquidatable() bool { return v.Matured || v.PriceBreached }

// Evaluate applies both liquidation triggers to an active loan at the given height: maturity,
// and the live price falling under the stored threshold. A stale price never counts as a breach.
// p may be nil when no price is published.
func (e *Engine) Evaluate(l *loan.Loan, p *price.Price, height uint64) Verdict {
	v := Verdict{LoanID: l.ID, Height: height, Threshold: l.LiquidationPriceThreshold}
	if m, ok := l.MaturityHeight(); ok {
		v.MaturityHeight = m
		v.Matured = height >= m
	}
	if p != nil {
		v.Price = p.Price
		v.PriceStale = e.Stale(p, height)
		v.PriceBreached = !v.PriceStale && p.Price < l.LiquidationPriceThreshold
	}
	return v
}

func owed(amount, rateBps uint64) (uint64, bool) {
	i := Interest(amount, rateBps)
	s := amount + i
	return s, s >= amount && i != math.MaxUint64
}

func ceilDiv(num, den *uint256.Int) *uint256.Int {
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(num, den, r)
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

func saturate(v *uint256.Int) uint64 {
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
