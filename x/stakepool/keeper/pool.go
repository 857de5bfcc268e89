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

// CreatePool opens a staking pool paying rewardPerSecond of rewardDenom to
// stakers of stakeDenom. Positions stay locked for lockPeriodMs.
func (k *Keeper) CreatePool(
	ctx context.Context,
	creator, stakeDenom, rewardDenom string,
	rewardPerSecond, lockPeriodMs uint64,
) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := types.ValidateDenoms(stakeDenom, rewardDenom); err != nil {
		return nil, err
	}

	pool := types.NewPool(
		k.nextID(sdkCtx, types.IDKindPool),
		creator, stakeDenom, rewardDenom,
		rewardPerSecond, lockPeriodMs, now(sdkCtx),
	)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyOwner, creator),
			sdk.NewAttribute(types.AttributeKeyStakeDenom, stakeDenom),
			sdk.NewAttribute(types.AttributeKeyRewardDenom, rewardDenom),
			sdk.NewAttribute(types.AttributeKeyRewardPerSecond, strconv.FormatUint(rewardPerSecond, 10)),
			sdk.NewAttribute(types.AttributeKeyLockPeriod, strconv.FormatUint(lockPeriodMs, 10)),
		),
	)

	k.logger.Info("Staking pool created",
		"pool_id", pool.PoolID,
		"stake_denom", stakeDenom,
		"reward_denom", rewardDenom,
		"reward_per_second", rewardPerSecond,
		"lock_period_ms", lockPeriodMs,
	)

	return pool, nil
}

// FundRewards tops up a pool's reward balance. No accounting is reconciled:
// an under-funded pool keeps accruing and claims fail until it is refilled.
func (k *Keeper) FundRewards(ctx context.Context, funder, poolID string, amount uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount == 0 {
		return 0, types.ErrInvalidAmount
	}

	pool, err := k.mustGetPool(sdkCtx, poolID)
	if err != nil {
		return 0, err
	}

	funderAddr, err := sdk.AccAddressFromBech32(funder)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidAddress, "funder: %s", err)
	}

	newBalance, err := fixedpoint.AddChecked(pool.RewardBalance, amount)
	if err != nil {
		return 0, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, funderAddr, types.ModuleName, coins(pool.RewardDenom, amount)); err != nil {
		return 0, err
	}

	pool.RewardBalance = newBalance
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFundRewards,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyOwner, funder),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyRewardBalance, strconv.FormatUint(newBalance, 10)),
		),
	)

	k.logger.Info("Rewards funded",
		"pool_id", poolID,
		"funder", funder,
		"amount", amount,
		"reward_balance", newBalance,
	)

	txn.OnCommit(ctx, func() {
		metrics.GetCollector().RecordStakePoolState(poolID, pool.TotalStaked, pool.RewardBalance)
	})

	return newBalance, nil
}
