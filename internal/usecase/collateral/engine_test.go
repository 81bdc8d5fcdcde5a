package collateral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/loan"
	"microlending/internal/domain/price"
)

func stx(px, height uint64) *price.Price {
	return &price.Price{Symbol: "STX", Price: px, LastUpdatedHeight: height}
}

func TestRatioBps(t *testing.T) {
	e := NewEngine(DefaultParams())

	assert.Equal(t, uint64(20_000), e.RatioBps(1_000_000, 2_000_000, 1_000_000))
	assert.Equal(t, uint64(10_000), e.RatioBps(1_000_000, 1_000_000, 1_000_000))
	// 1_999_999 / 1_000_000 = 1.999999 -> 19_999.99 bps floored
	assert.Equal(t, uint64(19_999), e.RatioBps(1_000_000, 1_999_999, 1_000_000))
	assert.Equal(t, uint64(math.MaxUint64), e.RatioBps(0, 1, 1))
	// products beyond 64 bits stay exact
	assert.Equal(t, uint64(20_000), e.RatioBps(math.MaxUint64/2, math.MaxUint64-1, 1_000_000))
}

func TestCheckOrigination_Boundary(t *testing.T) {
	e := NewEngine(DefaultParams())

	require.NoError(t, e.CheckOrigination(1_000_000, 2_000_000, stx(1_000_000, 0), 10))

	err := e.CheckOrigination(1_000_000, 1_999_999, stx(1_000_000, 0), 10)
	require.ErrorIs(t, err, apperr.ErrInsufficientCollateral)

	err = e.CheckOrigination(1_000_000, 1_000_000, stx(1_000_000, 0), 10)
	require.ErrorIs(t, err, apperr.ErrInsufficientCollateral)

	// price doubling halves the collateral needed
	require.NoError(t, e.CheckOrigination(1_000_000, 1_000_000, stx(2_000_000, 0), 10))
}

func TestCheckOrigination_Stale(t *testing.T) {
	p := DefaultParams()
	p.MaxPriceAgeBlocks = 10
	e := NewEngine(p)

	require.NoError(t, e.CheckOrigination(1, 2, stx(1_000_000, 100), 110))
	err := e.CheckOrigination(1, 2, stx(1_000_000, 100), 111)
	require.ErrorIs(t, err, apperr.ErrPriceStale)
}

func TestLiquidationPrice(t *testing.T) {
	e := NewEngine(DefaultParams())

	// 150% of 1.00 USD principal over 2 units of collateral -> 0.75 USD
	assert.Equal(t, uint64(750_000), e.LiquidationPrice(1_000_000, 2_000_000))
	// rounds up: 1 * 1e6 * 15000 / (3 * 1e4) = 500_000 exactly; 7 units -> 214_285.71 -> 214_286
	assert.Equal(t, uint64(500_000), e.LiquidationPrice(1, 3))
	assert.Equal(t, uint64(214_286), e.LiquidationPrice(1, 7))
	assert.Equal(t, uint64(math.MaxUint64), e.LiquidationPrice(1, 0))
}

func TestInterestAndOwed(t *testing.T) {
	assert.Equal(t, uint64(50_000), Interest(1_000_000, 500))
	assert.Equal(t, uint64(1), Interest(1, 1)) // rounded up
	assert.Equal(t, uint64(0), Interest(1_000_000, 0))

	l := &loan.Loan{Amount: 1_000_000, InterestRate: 500, RepaidAmount: 400_000}
	assert.Equal(t, uint64(1_050_000), AmountOwed(l))
	assert.Equal(t, uint64(650_000), Outstanding(l))
	l.RepaidAmount = 1_050_000
	assert.Equal(t, uint64(0), Outstanding(l))
}

func TestValidateTerms(t *testing.T) {
	e := NewEngine(DefaultParams())

	require.NoError(t, e.ValidateTerms(1_000_000, 2_000_000, 1440, 500))

	bad := []struct {
		name                               string
		amount, collateral, duration, rate uint64
	}{
		{"zero amount", 0, 1, 10, 0},
		{"zero collateral", 1, 0, 10, 0},
		{"zero duration", 1, 1, 0, 0},
		{"duration too long", 1, 1, 52_561, 0},
		{"rate too high", 1, 1, 10, 10_001},
		{"owed overflows", math.MaxUint64, 1, 10, 1},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			err := e.ValidateTerms(tt.amount, tt.collateral, tt.duration, tt.rate)
			require.ErrorIs(t, err, apperr.ErrInvalidArgument)
		})
	}
}

func TestEvaluate(t *testing.T) {
	e := NewEngine(DefaultParams())
	start := uint64(100)
	l := &loan.Loan{
		ID: 1, Amount: 1_000_000, CollateralAmount: 2_000_000, Duration: 1440,
		StartHeight: &start, Status: loan.StatusActive, LiquidationPriceThreshold: 750_000,
	}

	v := e.Evaluate(l, stx(1_000_000, 100), 200)
	assert.False(t, v.Liquidatable())
	assert.Equal(t, uint64(1540), v.MaturityHeight)

	v = e.Evaluate(l, stx(1_000_000, 100), 1540)
	assert.True(t, v.Matured)
	assert.True(t, v.Liquidatable())

	v = e.Evaluate(l, stx(749_999, 100), 200)
	assert.True(t, v.PriceBreached)
	assert.False(t, v.Matured)

	v = e.Evaluate(l, stx(750_000, 100), 200)
	assert.False(t, v.Liquidatable(), "price at the threshold is still healthy")

	v = e.Evaluate(l, nil, 200)
	assert.False(t, v.Liquidatable())
}

func TestEvaluate_StalePriceIgnored(t *testing.T) {
	p := DefaultParams()
	p.MaxPriceAgeBlocks = 5
	e := NewEngine(p)
	start := uint64(100)
	l := &loan.Loan{ID: 1, Duration: 1440, StartHeight: &start, LiquidationPriceThreshold: 750_000}

	v := e.Evaluate(l, stx(1, 100), 200)
	assert.True(t, v.PriceStale)
	assert.False(t, v.Liquidatable())

	v = e.Evaluate(l, stx(1, 100), 1540)
	assert.True(t, v.Liquidatable(), "maturity applies even with a stale price")
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.MinCollateralRatioBps = p.LiquidationRatioBps
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.LiquidationRatioBps = 9_000
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.MinDurationBlocks = 0
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.MaxDurationBlocks = 0
	require.Error(t, p.Validate())
}
