package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreatePool{},
		&MsgFundRewards{},
		&MsgStake{},
		&MsgClaimRewards{},
		&MsgUnstake{},
	)
}

// Message types
const (
	TypeMsgCreatePool   = "create_pool"
	TypeMsgFundRewards  = "fund_rewards"
	TypeMsgStake        = "stake"
	TypeMsgClaimRewards = "claim_rewards"
	TypeMsgUnstake      = "unstake"
)

// MsgServer defines the stakepool module's message service
type MsgServer interface {
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	FundRewards(context.Context, *MsgFundRewards) (*MsgFundRewardsResponse, error)
	Stake(context.Context, *MsgStake) (*MsgStakeResponse, error)
	ClaimRewards(context.Context, *MsgClaimRewards) (*MsgClaimRewardsResponse, error)
	Unstake(context.Context, *MsgUnstake) (*MsgUnstakeResponse, error)
}

func validateAddress(addr, field string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", field, err)
	}
	return nil
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// ValidateDenoms checks both denoms and that they differ
func ValidateDenoms(stakeDenom, rewardDenom string) error {
	if err := sdk.ValidateDenom(stakeDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "stake denom: %s", err)
	}
	if err := sdk.ValidateDenom(rewardDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "reward denom: %s", err)
	}
	if stakeDenom == rewardDenom {
		return errorsmod.Wrapf(ErrInvalidDenom, "reward denom must differ from stake denom %s", stakeDenom)
	}
	return nil
}

// MsgCreatePool opens a staking pool
type MsgCreatePool struct {
	Creator         string `json:"creator"`
	StakeDenom      string `json:"stake_denom"`
	RewardDenom     string `json:"reward_denom"`
	RewardPerSecond uint64 `json:"reward_per_second"`
	LockPeriodMs    uint64 `json:"lock_period_ms"`
}

func (msg *MsgCreatePool) Reset()        { *msg = MsgCreatePool{} }
func (msg *MsgCreatePool) ProtoMessage() {}
func (msg *MsgCreatePool) XXX_MessageName() string {
	return "custody.stakepool.v1.MsgCreatePool"
}
func (msg *MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Creator: %s, Stake: %s, Reward: %s, Rate: %d, Lock: %d}",
		msg.Creator, msg.StakeDenom, msg.RewardDenom, msg.RewardPerSecond, msg.LockPeriodMs)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgCreatePool) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	return ValidateDenoms(msg.StakeDenom, msg.RewardDenom)
}

// GetSigners implements sdk.Msg
func (msg *MsgCreatePool) GetSigners() []sdk.AccAddress { return signer(msg.Creator) }

// MsgCreatePoolResponse returns the new pool identifier
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgFundRewards adds reward tokens to a pool
type MsgFundRewards struct {
	Funder string `json:"funder"`
	PoolID string `json:"pool_id"`
	Amount uint64 `json:"amount"`
}

func (msg *MsgFundRewards) Reset()        { *msg = MsgFundRewards{} }
func (msg *MsgFundRewards) ProtoMessage() {}
func (msg *MsgFundRewards) XXX_MessageName() string {
	return "custody.stakepool.v1.MsgFundRewards"
}
func (msg *MsgFundRewards) String() string {
	return fmt.Sprintf("MsgFundRewards{Funder: %s, PoolID: %s, Amount: %d}", msg.Funder, msg.PoolID, msg.Amount)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgFundRewards) ValidateBasic() error {
	if err := validateAddress(msg.Funder, "funder"); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgFundRewards) GetSigners() []sdk.AccAddress { return signer(msg.Funder) }

// MsgFundRewardsResponse returns the pool's reward balance after funding
type MsgFundRewardsResponse struct {
	RewardBalance uint64 `json:"reward_balance"`
}

// MsgStake opens a stake position
type MsgStake struct {
	Staker string `json:"staker"`
	PoolID string `json:"pool_id"`
	Amount uint64 `json:"amount"`
}

func (msg *MsgStake) Reset()        { *msg = MsgStake{} }
func (msg *MsgStake) ProtoMessage() {}
func (msg *MsgStake) XXX_MessageName() string {
	return "custody.stakepool.v1.MsgStake"
}
func (msg *MsgStake) String() string {
	return fmt.Sprintf("MsgStake{Staker: %s, PoolID: %s, Amount: %d}", msg.Staker, msg.PoolID, msg.Amount)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgStake) ValidateBasic() error {
	if err := validateAddress(msg.Staker, "staker"); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgStake) GetSigners() []sdk.AccAddress { return signer(msg.Staker) }

// MsgStakeResponse returns the new position
type MsgStakeResponse struct {
	PositionID string `json:"position_id"`
	UnlockTime uint64 `json:"unlock_time"`
}

// MsgClaimRewards pays out a position's pending reward
type MsgClaimRewards struct {
	Owner      string `json:"owner"`
	PositionID string `json:"position_id"`
}

func (msg *MsgClaimRewards) Reset()        { *msg = MsgClaimRewards{} }
func (msg *MsgClaimRewards) ProtoMessage() {}
func (msg *MsgClaimRewards) XXX_MessageName() string {
	return "custody.stakepool.v1.MsgClaimRewards"
}
func (msg *MsgClaimRewards) String() string {
	return fmt.Sprintf("MsgClaimRewards{Owner: %s, PositionID: %s}", msg.Owner, msg.PositionID)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgClaimRewards) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgClaimRewards) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgClaimRewardsResponse returns the paid reward
type MsgClaimRewardsResponse struct {
	Reward uint64 `json:"reward"`
}

// MsgUnstake closes an unlocked position
type MsgUnstake struct {
	Owner      string `json:"owner"`
	PositionID string `json:"position_id"`
}

func (msg *MsgUnstake) Reset()        { *msg = MsgUnstake{} }
func (msg *MsgUnstake) ProtoMessage() {}
func (msg *MsgUnstake) XXX_MessageName() string {
	return "custody.stakepool.v1.MsgUnstake"
}
func (msg *MsgUnstake) String() string {
	return fmt.Sprintf("MsgUnstake{Owner: %s, PositionID: %s}", msg.Owner, msg.PositionID)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgUnstake) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgUnstake) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgUnstakeResponse reports returned principal and reward. RewardSkipped is
// set when the reward balance could not cover the pending reward.
type MsgUnstakeResponse struct {
	Principal     uint64 `json:"principal"`
	Reward        uint64 `json:"reward"`
	RewardSkipped uint64 `json:"reward_skipped"`
}
