package types

import (
	"cosmossdk.io/errors"
)

// Staking pool errors
var (
	ErrInvalidAmount       = errors.Register(ModuleName, 1, "amount must be positive")
	ErrStillLocked         = errors.Register(ModuleName, 2, "position is still locked")
	ErrNoRewardsAvailable  = errors.Register(ModuleName, 3, "no rewards to claim")
	ErrRewardPoolExhausted = errors.Register(ModuleName, 4, "reward balance cannot cover claim")
	ErrPoolNotFound        = errors.Register(ModuleName, 5, "staking pool not found")
	ErrPositionNotFound    = errors.Register(ModuleName, 6, "stake position not found")
	ErrUnauthorized        = errors.Register(ModuleName, 7, "caller does not own position")
	ErrInvalidDenom        = errors.Register(ModuleName, 8, "invalid denom")
	ErrInvalidAddress      = errors.Register(ModuleName, 9, "invalid address")
)
