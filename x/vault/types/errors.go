package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidAmount       = errors.Register(ModuleName, 1, "amount must be positive")
	ErrBelowMinimumDeposit = errors.Register(ModuleName, 2, "deposit below vault minimum")
	ErrZeroSharesMinted    = errors.Register(ModuleName, 3, "deposit would mint zero shares")
	ErrPoolDrained         = errors.Register(ModuleName, 4, "shares redeem for zero balance")
	ErrInsufficientShares  = errors.Register(ModuleName, 5, "ticket holds insufficient shares")
	ErrVaultMismatch       = errors.Register(ModuleName, 6, "tickets belong to different vaults")
	ErrVaultNotFound       = errors.Register(ModuleName, 7, "vault not found")
	ErrTicketNotFound      = errors.Register(ModuleName, 8, "share ticket not found")
	ErrUnauthorized        = errors.Register(ModuleName, 9, "caller does not own ticket")
	ErrInvalidDenom        = errors.Register(ModuleName, 10, "invalid denom")
	ErrSameTicket          = errors.Register(ModuleName, 11, "ticket cannot be merged into itself")
	ErrInvalidAddress      = errors.Register(ModuleName, 12, "invalid address")
)
