package types

import (
	"cosmossdk.io/math"

	"github.com/openalpha/custody/pkg/fixedpoint"
)

// MaxBorrow is the largest loan collateral can open, floor(collateral * 75%).
func MaxBorrow(collateral uint64) uint64 {
	return fixedpoint.MustMulDiv(collateral, MaxLTVBps, fixedpoint.BasisPoints)
}

// AccruedInterest is simple interest at InterestRateBps a year over the whole
// seconds between lastMs and nowMs:
//
//	floor(principal * 1000 * seconds / (10000 * 31536000))
func AccruedInterest(principal, lastMs, nowMs uint64) (uint64, error) {
	seconds := fixedpoint.ElapsedSeconds(lastMs, nowMs)
	if principal == 0 || seconds == 0 {
		return 0, nil
	}
	interest := math.NewUint(principal).
		MulUint64(InterestRateBps).
		MulUint64(seconds).
		QuoUint64(fixedpoint.BasisPoints * fixedpoint.SecondsPerYear)
	return fixedpoint.ToUint64(interest)
}

// AccruedInterest returns the interest the loan has built up by now
func (p *Position) AccruedInterest(now uint64) (uint64, error) {
	return AccruedInterest(p.BorrowedAmount, p.LastUpdateTime, now)
}

// TotalDebt is principal plus recorded and accrued interest
func (p *Position) TotalDebt(now uint64) (uint64, error) {
	accrued, err := p.AccruedInterest(now)
	if err != nil {
		return 0, err
	}
	debt, err := fixedpoint.AddChecked(p.BorrowedAmount, p.InterestAccumulated)
	if err != nil {
		return 0, err
	}
	return fixedpoint.AddChecked(debt, accrued)
}
