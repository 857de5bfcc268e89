package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/stakepool/types"
)

var _ types.MsgServer = (*MsgServer)(nil)

// MsgServer defines the stakepool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgCreatePoolResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgCreatePool, func(ctx sdk.Context) error {
		pool, err := m.keeper.CreatePool(ctx, msg.Creator, msg.StakeDenom, msg.RewardDenom, msg.RewardPerSecond, msg.LockPeriodMs)
		if err != nil {
			return err
		}
		resp.PoolID = pool.PoolID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FundRewards handles MsgFundRewards
func (m *MsgServer) FundRewards(ctx context.Context, msg *types.MsgFundRewards) (*types.MsgFundRewardsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgFundRewardsResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgFundRewards, func(ctx sdk.Context) error {
		balance, err := m.keeper.FundRewards(ctx, msg.Funder, msg.PoolID, msg.Amount)
		if err != nil {
			return err
		}
		resp.RewardBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stake handles MsgStake
func (m *MsgServer) Stake(ctx context.Context, msg *types.MsgStake) (*types.MsgStakeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgStakeResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgStake, func(ctx sdk.Context) error {
		pos, err := m.keeper.Stake(ctx, msg.Staker, msg.PoolID, msg.Amount)
		if err != nil {
			return err
		}
		resp.PositionID = pos.PositionID
		resp.UnlockTime = pos.UnlockTime
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClaimRewards handles MsgClaimRewards
func (m *MsgServer) ClaimRewards(ctx context.Context, msg *types.MsgClaimRewards) (*types.MsgClaimRewardsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgClaimRewardsResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgClaimRewards, func(ctx sdk.Context) error {
		reward, err := m.keeper.ClaimRewards(ctx, msg.Owner, msg.PositionID)
		if err != nil {
			return err
		}
		resp.Reward = reward
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unstake handles MsgUnstake
func (m *MsgServer) Unstake(ctx context.Context, msg *types.MsgUnstake) (*types.MsgUnstakeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgUnstakeResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgUnstake, func(ctx sdk.Context) error {
		result, err := m.keeper.Unstake(ctx, msg.Owner, msg.PositionID)
		if err != nil {
			return err
		}
		resp.Principal = result.Principal
		resp.Reward = result.Reward
		resp.RewardSkipped = result.RewardSkipped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
