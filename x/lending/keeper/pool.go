package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/pkg/fixedpoint"
	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/lending/types"
)

// CreatePool opens an empty lending pool for denom
func (k *Keeper) CreatePool(ctx context.Context, creator, denom string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := sdk.ValidateDenom(denom); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidDenom, err.Error())
	}

	pool := types.NewPool(k.nextID(sdkCtx, types.IDKindPool), creator, denom, now(sdkCtx))
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeySender, creator),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
		),
	)

	k.logger.Info("Lending pool created",
		"pool_id", pool.PoolID,
		"creator", creator,
		"denom", denom,
	)

	return pool, nil
}

// SupplyLiquidity adds lendable funds, growing both the available liquidity
// and the pool's deposit total.
func (k *Keeper) SupplyLiquidity(ctx context.Context, supplier, poolID string, amount uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount == 0 {
		return 0, types.ErrInvalidAmount
	}

	pool, err := k.mustGetPool(sdkCtx, poolID)
	if err != nil {
		return 0, err
	}

	supplierAddr, err := sdk.AccAddressFromBech32(supplier)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidAddress, "supplier: %s", err)
	}

	available, err := fixedpoint.AddChecked(pool.AvailableLiquidity, amount)
	if err != nil {
		return 0, err
	}
	deposits, err := fixedpoint.AddChecked(pool.TotalDeposits, amount)
	if err != nil {
		return 0, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, supplierAddr, types.ModuleName, coins(pool.Denom, amount)); err != nil {
		return 0, err
	}

	pool.AvailableLiquidity = available
	pool.TotalDeposits = deposits
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSupply,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeySender, supplier),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyLiquidity, strconv.FormatUint(available, 10)),
		),
	)

	k.logger.Info("Liquidity supplied",
		"pool_id", poolID,
		"supplier", supplier,
		"amount", amount,
		"available_liquidity", available,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordLoan(poolID, types.TypeMsgSupplyLiquidity, metrics.FlowIn, amount)
		collector.RecordLendingPoolState(poolID, pool.AvailableLiquidity, pool.TotalBorrowed, -1)
	})

	return available, nil
}
