package types

// Event types
const (
	EventTypeCreatePool  = "stakepool_create"
	EventTypeFundRewards = "stakepool_fund"
	EventTypeStake       = "stake"
	EventTypeClaim       = "stake_claim"
	EventTypeUnstake     = "unstake"
)

// Event attribute keys
const (
	AttributeKeyPoolID          = "pool_id"
	AttributeKeyPositionID      = "position_id"
	AttributeKeyOwner           = "owner"
	AttributeKeyStakeDenom      = "stake_denom"
	AttributeKeyRewardDenom     = "reward_denom"
	AttributeKeyRewardPerSecond = "reward_per_second"
	AttributeKeyLockPeriod      = "lock_period_ms"
	AttributeKeyAmount          = "amount"
	AttributeKeyReward          = "reward"
	AttributeKeyRewardSkipped   = "reward_skipped"
	AttributeKeyRewardBalance   = "reward_balance"
	AttributeKeyUnlockTime      = "unlock_time"
)
