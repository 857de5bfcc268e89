package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "stakepool"
	StoreKey   = ModuleName
)

// Identifier kinds handed to the ID allocator
const (
	IDKindPool     = "stakepool"
	IDKindPosition = "stake"
)

// Pool distributes RewardDenom to stakers of StakeDenom at RewardPerSecond.
//
// AccRewardPerShare is the reward earned by one staked unit since the pool
// was created, scaled by 1e18. It grows only while TotalStaked > 0; time that
// passes with nothing staked is never credited to anyone.
type Pool struct {
	PoolID            string    `json:"pool_id"`
	Creator           string    `json:"creator"`
	StakeDenom        string    `json:"stake_denom"`
	RewardDenom       string    `json:"reward_denom"`
	StakedBalance     uint64    `json:"staked_balance"`
	RewardBalance     uint64    `json:"reward_balance"`
	TotalStaked       uint64    `json:"total_staked"`
	RewardPerSecond   uint64    `json:"reward_per_second"`
	LastUpdateTime    uint64    `json:"last_update_time"`
	AccRewardPerShare math.Uint `json:"acc_reward_per_share"`
	LockPeriodMs      uint64    `json:"lock_period_ms"`
	CreatedAt         uint64    `json:"created_at"`
}

// NewPool creates a pool with an empty accumulator
func NewPool(poolID, creator, stakeDenom, rewardDenom string, rewardPerSecond, lockPeriodMs, now uint64) *Pool {
	return &Pool{
		PoolID:            poolID,
		Creator:           creator,
		StakeDenom:        stakeDenom,
		RewardDenom:       rewardDenom,
		RewardPerSecond:   rewardPerSecond,
		LastUpdateTime:    now,
		AccRewardPerShare: math.ZeroUint(),
		LockPeriodMs:      lockPeriodMs,
		CreatedAt:         now,
	}
}

// Position is one stake. RewardDebt is the scaled entitlement already
// settled, so only accumulator growth after the last touch is claimable.
type Position struct {
	PositionID string    `json:"position_id"`
	PoolID     string    `json:"pool_id"`
	Owner      string    `json:"owner"`
	Amount     uint64    `json:"amount"`
	RewardDebt math.Uint `json:"reward_debt"`
	StakeTime  uint64    `json:"stake_time"`
	UnlockTime uint64    `json:"unlock_time"`
}

// IsUnlocked reports whether the principal may be withdrawn at now
func (p *Position) IsUnlocked(now uint64) bool {
	return now >= p.UnlockTime
}
