package types

import (
	stdmath "math"

	"cosmossdk.io/math"

	"github.com/openalpha/custody/pkg/fixedpoint"
)

// LiquidationThreshold is the debt a position may carry before it can be
// liquidated, floor(collateral * 85%).
func LiquidationThreshold(collateral uint64) uint64 {
	return fixedpoint.MustMulDiv(collateral, LiquidationThresholdBps, fixedpoint.BasisPoints)
}

// LiquidationSeize is the collateral a liquidator takes for repaying debt:
// the debt plus a 5% bonus, capped at the collateral held.
func LiquidationSeize(collateral, debt uint64) uint64 {
	seize, err := fixedpoint.MulDiv(debt, LiquidationBonusBps, fixedpoint.BasisPoints)
	if err != nil {
		return collateral
	}
	return fixedpoint.Min(collateral, seize)
}

// HealthFactor returns floor(collateral * 8500 * 1000 / (debt * 10000)),
// where HealthFactorOne is 1.0. A debt-free position, or one whose factor
// does not fit in 64 bits, reports math.MaxUint64.
func (p *Position) HealthFactor(now uint64) (uint64, error) {
	debt, err := p.TotalDebt(now)
	if err != nil {
		return 0, err
	}
	return healthFactor(p.Collateral, debt), nil
}

func healthFactor(collateral, debt uint64) uint64 {
	if debt == 0 {
		return stdmath.MaxUint64
	}
	hf := math.NewUint(collateral).
		MulUint64(LiquidationThresholdBps).
		MulUint64(HealthFactorOne).
		Quo(math.NewUint(debt).MulUint64(fixedpoint.BasisPoints))
	if !hf.BigInt().IsUint64() {
		return stdmath.MaxUint64
	}
	return hf.Uint64()
}

// IsLiquidatable reports whether the health factor is below 1.0
func (p *Position) IsLiquidatable(now uint64) (bool, error) {
	hf, err := p.HealthFactor(now)
	if err != nil {
		return false, err
	}
	return hf < HealthFactorOne, nil
}

// LiquidationEligible is the check Liquidate enforces: debt above the
// floored liquidation threshold. It agrees with IsLiquidatable for every
// integer collateral and debt but is rounded on its own.
func (p *Position) LiquidationEligible(now uint64) (bool, error) {
	debt, err := p.TotalDebt(now)
	if err != nil {
		return false, err
	}
	return debt > LiquidationThreshold(p.Collateral), nil
}
