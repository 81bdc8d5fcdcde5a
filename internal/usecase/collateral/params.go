package collateral

import (
	"errors"
	"fmt"
)

// BasisPoints is the denominator of every ratio and rate: 10_000 bps = 100%.
const BasisPoints uint64 = 10_000

// Params are the protocol's risk limits.
type Params struct {
	// MinCollateralRatioBps is the collateral value / principal a loan request must reach.
	MinCollateralRatioBps uint64
	// LiquidationRatioBps is the ratio under which an active loan becomes liquidatable.
	LiquidationRatioBps uint64
	MaxInterestRateBps  uint64
	MinDurationBlocks   uint64
	MaxDurationBlocks   uint64
	// MaxPriceAgeBlocks bounds oracle staleness; zero disables the check.
	MaxPriceAgeBlocks uint64
}

func DefaultParams() Params {
	return Params{
		MinCollateralRatioBps: 20_000,
		LiquidationRatioBps:   15_000,
		MaxInterestRateBps:    10_000,
		MinDurationBlocks:     1,
		MaxDurationBlocks:     52_560,
	}
}

func (p Params) Validate() error {
	if p.LiquidationRatioBps < BasisPoints {
		return fmt.Errorf("liquidation ratio %d bps is below 100%%", p.LiquidationRatioBps)
	}
	if p.MinCollateralRatioBps <= p.LiquidationRatioBps {
		return fmt.Errorf("min collateral ratio %d bps must exceed liquidation ratio %d bps",
			p.MinCollateralRatioBps, p.LiquidationRatioBps)
	}
	if p.MinDurationBlocks == 0 {
		return errors.New("min duration must be at least one block")
	}
	if p.MaxDurationBlocks < p.MinDurationBlocks {
		return fmt.Errorf("max duration %d below min duration %d", p.MaxDurationBlocks, p.MinDurationBlocks)
	}
	return nil
}
