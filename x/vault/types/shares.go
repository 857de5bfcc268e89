package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/openalpha/custody/pkg/fixedpoint"
)

// SharesForDeposit returns the shares minted for amount at the current ratio.
// An empty pool (no shares or no balance) mints 1:1; otherwise
// floor(amount * TotalShares / Balance), which never favors the depositor.
func (p *Pool) SharesForDeposit(amount uint64) (uint64, error) {
	if amount < p.MinDeposit {
		return 0, errorsmod.Wrapf(ErrBelowMinimumDeposit, "amount %d, minimum %d", amount, p.MinDeposit)
	}
	if p.TotalShares == 0 || p.Balance == 0 {
		if amount == 0 {
			return 0, ErrZeroSharesMinted
		}
		return amount, nil
	}
	shares, err := fixedpoint.MulDiv(amount, p.TotalShares, p.Balance)
	if err != nil {
		return 0, err
	}
	if shares == 0 {
		return 0, errorsmod.Wrapf(ErrZeroSharesMinted, "amount %d at balance %d / shares %d", amount, p.Balance, p.TotalShares)
	}
	return shares, nil
}

// WithdrawalForShares returns floor(shares * Balance / TotalShares).
func (p *Pool) WithdrawalForShares(shares uint64) (uint64, error) {
	if p.TotalShares == 0 {
		if shares > 0 {
			return 0, errorsmod.Wrapf(ErrPoolDrained, "vault %s has no shares outstanding", p.PoolID)
		}
		return 0, nil
	}
	amount, err := fixedpoint.MulDiv(shares, p.Balance, p.TotalShares)
	if err != nil {
		return 0, err
	}
	if amount == 0 && shares > 0 {
		return 0, errorsmod.Wrapf(ErrPoolDrained, "%d shares redeem for nothing", shares)
	}
	return amount, nil
}

// ExchangeRate returns the balance per share scaled by 1e9.
func (p *Pool) ExchangeRate() uint64 {
	if p.TotalShares == 0 {
		return fixedpoint.Scale9
	}
	rate, err := fixedpoint.MulDiv(p.Balance, fixedpoint.Scale9, p.TotalShares)
	if err != nil {
		// balance/share ratio above ~1.8e10 cannot be displayed at 1e9 scale
		return ^uint64(0)
	}
	return rate
}
