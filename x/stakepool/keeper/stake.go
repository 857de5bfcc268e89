package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/pkg/fixedpoint"
	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/stakepool/types"
)

// Stake locks amount of the pool's stake denom into a new position. The
// accumulator is brought up to date first so the position's reward debt
// excludes everything earned before it joined.
func (k *Keeper) Stake(ctx context.Context, owner, poolID string, amount uint64) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts := now(sdkCtx)

	if amount == 0 {
		return nil, types.ErrInvalidAmount
	}

	pool, err := k.mustGetPool(sdkCtx, poolID)
	if err != nil {
		return nil, err
	}

	ownerAddr, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "owner: %s", err)
	}

	totalStaked, err := fixedpoint.AddChecked(pool.TotalStaked, amount)
	if err != nil {
		return nil, err
	}
	stakedBalance, err := fixedpoint.AddChecked(pool.StakedBalance, amount)
	if err != nil {
		return nil, err
	}
	unlockTime, err := fixedpoint.AddChecked(ts, pool.LockPeriodMs)
	if err != nil {
		return nil, err
	}

	pool.UpdateAccumulator(ts)

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, ownerAddr, types.ModuleName, coins(pool.StakeDenom, amount)); err != nil {
		return nil, err
	}

	pool.TotalStaked = totalStaked
	pool.StakedBalance = stakedBalance
	k.SetPool(sdkCtx, pool)

	pos := &types.Position{
		PositionID: k.nextID(sdkCtx, types.IDKindPosition),
		PoolID:     poolID,
		Owner:      owner,
		Amount:     amount,
		RewardDebt: types.RewardDebtFor(amount, pool.AccRewardPerShare),
		StakeTime:  ts,
		UnlockTime: unlockTime,
	}
	k.SetPosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStake,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyPositionID, pos.PositionID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyUnlockTime, strconv.FormatUint(unlockTime, 10)),
		),
	)

	k.logger.Info("Stake opened",
		"pool_id", poolID,
		"position_id", pos.PositionID,
		"owner", owner,
		"amount", amount,
		"unlock_time", unlockTime,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordStakeAction(poolID, types.TypeMsgStake)
		collector.RecordPrincipal(poolID, metrics.FlowIn, amount)
		collector.RecordStakePoolState(poolID, pool.TotalStaked, pool.RewardBalance)
	})

	return pos, nil
}

// ClaimRewards pays a position everything it has earned and resets its
// reward debt to the full current entitlement.
func (k *Keeper) ClaimRewards(ctx context.Context, owner, positionID string) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts := now(sdkCtx)

	pos, err := k.loadOwnedPosition(sdkCtx, owner, positionID)
	if err != nil {
		return 0, err
	}
	pool, err := k.mustGetPool(sdkCtx, pos.PoolID)
	if err != nil {
		return 0, err
	}

	pool.UpdateAccumulator(ts)

	pending, err := pos.Owed(pool.AccRewardPerShare)
	if err != nil {
		return 0, err
	}
	if pending == 0 {
		return 0, errorsmod.Wrapf(types.ErrNoRewardsAvailable, "position %s", positionID)
	}
	if pool.RewardBalance < pending {
		return 0, errorsmod.Wrapf(types.ErrRewardPoolExhausted, "pending %d, reward balance %d", pending, pool.RewardBalance)
	}

	ownerAddr, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidAddress, "owner: %s", err)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, coins(pool.RewardDenom, pending)); err != nil {
		return 0, err
	}

	pool.RewardBalance -= pending
	k.SetPool(sdkCtx, pool)

	pos.RewardDebt = types.RewardDebtFor(pos.Amount, pool.AccRewardPerShare)
	k.SetPosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaim,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyPositionID, positionID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyReward, strconv.FormatUint(pending, 10)),
		),
	)

	k.logger.Info("Rewards claimed",
		"pool_id", pool.PoolID,
		"position_id", positionID,
		"reward", pending,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordStakeAction(pool.PoolID, types.TypeMsgClaimRewards)
		collector.RecordRewards(pool.PoolID, pending, 0)
		collector.RecordStakePoolState(pool.PoolID, pool.TotalStaked, pool.RewardBalance)
	})

	return pending, nil
}

// UnstakeResult reports what an unstake paid out
type UnstakeResult struct {
	Principal     uint64
	Reward        uint64
	RewardSkipped uint64
}

// Unstake closes an unlocked position, returning its principal. The pending
// reward is paid when the reward balance covers it and otherwise dropped;
// an under-funded pool never traps principal.
func (k *Keeper) Unstake(ctx context.Context, owner, positionID string) (*UnstakeResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts := now(sdkCtx)

	pos, err := k.loadOwnedPosition(sdkCtx, owner, positionID)
	if err != nil {
		return nil, err
	}
	if !pos.IsUnlocked(ts) {
		return nil, errorsmod.Wrapf(types.ErrStillLocked, "position %s unlocks at %d, now %d", positionID, pos.UnlockTime, ts)
	}
	pool, err := k.mustGetPool(sdkCtx, pos.PoolID)
	if err != nil {
		return nil, err
	}
	ownerAddr, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "owner: %s", err)
	}

	pool.UpdateAccumulator(ts)

	pending, err := pos.Owed(pool.AccRewardPerShare)
	if err != nil {
		return nil, err
	}

	totalStaked, err := fixedpoint.SubChecked(pool.TotalStaked, pos.Amount)
	if err != nil {
		return nil, err
	}
	stakedBalance, err := fixedpoint.SubChecked(pool.StakedBalance, pos.Amount)
	if err != nil {
		return nil, err
	}

	result := &UnstakeResult{Principal: pos.Amount}
	if pending > 0 {
		if pool.RewardBalance >= pending {
			if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, coins(pool.RewardDenom, pending)); err != nil {
				return nil, err
			}
			pool.RewardBalance -= pending
			result.Reward = pending
		} else {
			result.RewardSkipped = pending
			k.logger.Info("Unstake reward skipped",
				"pool_id", pool.PoolID,
				"position_id", positionID,
				"pending", pending,
				"reward_balance", pool.RewardBalance,
			)
		}
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, coins(pool.StakeDenom, pos.Amount)); err != nil {
		return nil, err
	}

	pool.TotalStaked = totalStaked
	pool.StakedBalance = stakedBalance
	k.SetPool(sdkCtx, pool)
	k.RemovePosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnstake,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyPositionID, positionID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(result.Principal, 10)),
			sdk.NewAttribute(types.AttributeKeyReward, strconv.FormatUint(result.Reward, 10)),
			sdk.NewAttribute(types.AttributeKeyRewardSkipped, strconv.FormatUint(result.RewardSkipped, 10)),
		),
	)

	k.logger.Info("Stake closed",
		"pool_id", pool.PoolID,
		"position_id", positionID,
		"principal", result.Principal,
		"reward", result.Reward,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordStakeAction(pool.PoolID, types.TypeMsgUnstake)
		collector.RecordPrincipal(pool.PoolID, metrics.FlowOut, result.Principal)
		collector.RecordRewards(pool.PoolID, result.Reward, result.RewardSkipped)
		collector.RecordStakePoolState(pool.PoolID, pool.TotalStaked, pool.RewardBalance)
	})

	return result, nil
}
