package types

import (
	"cosmossdk.io/errors"
)

// Lending errors
var (
	ErrInvalidAmount          = errors.Register(ModuleName, 1, "amount must be positive")
	ErrInsufficientCollateral = errors.Register(ModuleName, 2, "collateral must be positive")
	ErrExceedsMaxBorrow       = errors.Register(ModuleName, 3, "borrow exceeds maximum loan-to-value")
	ErrPoolLiquidityExhausted = errors.Register(ModuleName, 4, "pool liquidity cannot cover borrow")
	ErrInsufficientPayment    = errors.Register(ModuleName, 5, "payment does not cover total debt")
	ErrNotLiquidatable        = errors.Register(ModuleName, 6, "position is not liquidatable")
	ErrPoolNotFound           = errors.Register(ModuleName, 7, "lending pool not found")
	ErrPositionNotFound       = errors.Register(ModuleName, 8, "loan position not found")
	ErrUnauthorized           = errors.Register(ModuleName, 9, "caller is not the borrower")
	ErrInvalidDenom           = errors.Register(ModuleName, 10, "invalid denom")
	ErrInvalidAddress         = errors.Register(ModuleName, 11, "invalid address")
)
