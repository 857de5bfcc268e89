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

// Borrow escrows collateral and lends amount of the pool's denom against it.
// The loan may not exceed MaxBorrow(collateral) and the pool must hold
// enough idle liquidity.
func (k *Keeper) Borrow(ctx context.Context, borrower, poolID string, collateral, amount uint64) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts := now(sdkCtx)

	if collateral == 0 {
		return nil, types.ErrInsufficientCollateral
	}
	if amount == 0 {
		return nil, types.ErrInvalidAmount
	}
	if maxBorrow := types.MaxBorrow(collateral); amount > maxBorrow {
		return nil, errorsmod.Wrapf(types.ErrExceedsMaxBorrow, "requested %d, max %d for collateral %d", amount, maxBorrow, collateral)
	}

	pool, err := k.mustGetPool(sdkCtx, poolID)
	if err != nil {
		return nil, err
	}
	if pool.AvailableLiquidity < amount {
		return nil, errorsmod.Wrapf(types.ErrPoolLiquidityExhausted, "requested %d, available %d", amount, pool.AvailableLiquidity)
	}

	borrowerAddr, err := sdk.AccAddressFromBech32(borrower)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "borrower: %s", err)
	}

	totalBorrowed, err := fixedpoint.AddChecked(pool.TotalBorrowed, amount)
	if err != nil {
		return nil, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, borrowerAddr, types.ModuleName, coins(pool.Denom, collateral)); err != nil {
		return nil, err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, borrowerAddr, coins(pool.Denom, amount)); err != nil {
		return nil, err
	}

	pool.AvailableLiquidity -= amount
	pool.TotalBorrowed = totalBorrowed
	k.SetPool(sdkCtx, pool)

	pos := &types.Position{
		PositionID:     k.nextID(sdkCtx, types.IDKindPosition),
		PoolID:         poolID,
		Borrower:       borrower,
		Collateral:     collateral,
		BorrowedAmount: amount,
		LastUpdateTime: ts,
	}
	k.SetPosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBorrow,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyPositionID, pos.PositionID),
			sdk.NewAttribute(types.AttributeKeyBorrower, borrower),
			sdk.NewAttribute(types.AttributeKeyCollateral, strconv.FormatUint(collateral, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
		),
	)

	k.logger.Info("Loan opened",
		"pool_id", poolID,
		"position_id", pos.PositionID,
		"borrower", borrower,
		"collateral", collateral,
		"amount", amount,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordLoan(poolID, types.TypeMsgBorrow, metrics.FlowOut, amount)
		collector.RecordLendingPoolState(poolID, pool.AvailableLiquidity, pool.TotalBorrowed, -1)
	})

	return pos, nil
}

// RepayResult reports how a repayment was settled
type RepayResult struct {
	Debt       uint64
	Refund     uint64
	Collateral uint64
}

// Repay closes a loan. Exactly the total debt stays in the pool, the rest of
// the payment is refunded and the full collateral returns to the borrower.
// Interest is added to liquidity but not to the pool's deposits.
func (k *Keeper) Repay(ctx context.Context, payer, positionID string, payment uint64) (*RepayResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts := now(sdkCtx)

	pos, err := k.mustGetPosition(sdkCtx, positionID)
	if err != nil {
		return nil, err
	}
	if pos.Borrower != payer {
		return nil, errorsmod.Wrapf(types.ErrUnauthorized, "position %s is owed by %s", positionID, pos.Borrower)
	}
	pool, err := k.mustGetPool(sdkCtx, pos.PoolID)
	if err != nil {
		return nil, err
	}

	debt, err := pos.TotalDebt(ts)
	if err != nil {
		return nil, err
	}
	if payment < debt {
		return nil, errorsmod.Wrapf(types.ErrInsufficientPayment, "payment %d, debt %d", payment, debt)
	}

	payerAddr, err := sdk.AccAddressFromBech32(payer)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "payer: %s", err)
	}

	available, totalBorrowed, err := settle(pool, pos, debt)
	if err != nil {
		return nil, err
	}

	result := &RepayResult{Debt: debt, Refund: payment - debt, Collateral: pos.Collateral}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, payerAddr, types.ModuleName, coins(pool.Denom, payment)); err != nil {
		return nil, err
	}
	if result.Refund > 0 {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, payerAddr, coins(pool.Denom, result.Refund)); err != nil {
			return nil, err
		}
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, payerAddr, coins(pool.Denom, pos.Collateral)); err != nil {
		return nil, err
	}

	pool.AvailableLiquidity = available
	pool.TotalBorrowed = totalBorrowed
	k.SetPool(sdkCtx, pool)
	k.RemovePosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRepay,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyPositionID, positionID),
			sdk.NewAttribute(types.AttributeKeyBorrower, payer),
			sdk.NewAttribute(types.AttributeKeyDebt, strconv.FormatUint(debt, 10)),
			sdk.NewAttribute(types.AttributeKeyRefund, strconv.FormatUint(result.Refund, 10)),
			sdk.NewAttribute(types.AttributeKeyCollateral, strconv.FormatUint(pos.Collateral, 10)),
		),
	)

	k.logger.Info("Loan repaid",
		"pool_id", pool.PoolID,
		"position_id", positionID,
		"principal", pos.BorrowedAmount,
		"debt", debt,
		"refund", result.Refund,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordLoan(pool.PoolID, types.TypeMsgRepay, metrics.FlowIn, debt)
		collector.RecordLendingPoolState(pool.PoolID, pool.AvailableLiquidity, pool.TotalBorrowed, -1)
	})

	return result, nil
}

// LiquidationResult reports how a liquidated loan's collateral was split
type LiquidationResult struct {
	Debt      uint64
	Seized    uint64
	Remainder uint64
	Refund    uint64
}

// Liquidate lets any account repay a loan whose debt exceeds the liquidation
// threshold. The liquidator seizes the debt plus the bonus, capped at the
// collateral; what is left returns to the borrower.
func (k *Keeper) Liquidate(ctx context.Context, liquidator, positionID string, payment uint64) (*LiquidationResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts := now(sdkCtx)

	pos, err := k.mustGetPosition(sdkCtx, positionID)
	if err != nil {
		return nil, err
	}
	pool, err := k.mustGetPool(sdkCtx, pos.PoolID)
	if err != nil {
		return nil, err
	}

	eligible, err := pos.LiquidationEligible(ts)
	if err != nil {
		return nil, err
	}
	debt, err := pos.TotalDebt(ts)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, errorsmod.Wrapf(types.ErrNotLiquidatable, "debt %d, threshold %d", debt, types.LiquidationThreshold(pos.Collateral))
	}
	if payment < debt {
		return nil, errorsmod.Wrapf(types.ErrInsufficientPayment, "payment %d, debt %d", payment, debt)
	}

	liquidatorAddr, err := sdk.AccAddressFromBech32(liquidator)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "liquidator: %s", err)
	}
	borrowerAddr, err := sdk.AccAddressFromBech32(pos.Borrower)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "borrower: %s", err)
	}

	available, totalBorrowed, err := settle(pool, pos, debt)
	if err != nil {
		return nil, err
	}

	seized := types.LiquidationSeize(pos.Collateral, debt)
	result := &LiquidationResult{
		Debt:      debt,
		Seized:    seized,
		Remainder: pos.Collateral - seized,
		Refund:    payment - debt,
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, liquidatorAddr, types.ModuleName, coins(pool.Denom, payment)); err != nil {
		return nil, err
	}
	if result.Refund > 0 {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, liquidatorAddr, coins(pool.Denom, result.Refund)); err != nil {
			return nil, err
		}
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, liquidatorAddr, coins(pool.Denom, seized)); err != nil {
		return nil, err
	}
	if result.Remainder > 0 {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, borrowerAddr, coins(pool.Denom, result.Remainder)); err != nil {
			return nil, err
		}
	} else {
		k.logger.Debug("Liquidation left no collateral remainder",
			"position_id", positionID,
			"collateral", pos.Collateral,
			"debt", debt,
		)
	}

	pool.AvailableLiquidity = available
	pool.TotalBorrowed = totalBorrowed
	k.SetPool(sdkCtx, pool)
	k.RemovePosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidate,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyPositionID, positionID),
			sdk.NewAttribute(types.AttributeKeyBorrower, pos.Borrower),
			sdk.NewAttribute(types.AttributeKeySender, liquidator),
			sdk.NewAttribute(types.AttributeKeyDebt, strconv.FormatUint(debt, 10)),
			sdk.NewAttribute(types.AttributeKeySeized, strconv.FormatUint(seized, 10)),
			sdk.NewAttribute(types.AttributeKeyRemainder, strconv.FormatUint(result.Remainder, 10)),
			sdk.NewAttribute(types.AttributeKeyRefund, strconv.FormatUint(result.Refund, 10)),
		),
	)

	k.logger.Info("Loan liquidated",
		"pool_id", pool.PoolID,
		"position_id", positionID,
		"liquidator", liquidator,
		"debt", debt,
		"seized", seized,
		"remainder", result.Remainder,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordLiquidation(pool.PoolID, debt, seized)
		collector.RecordLendingPoolState(pool.PoolID, pool.AvailableLiquidity, pool.TotalBorrowed, -1)
	})

	return result, nil
}

// settle returns the pool's liquidity and borrowed total after debt is paid
// back in full for pos.
func settle(pool *types.Pool, pos *types.Position, debt uint64) (uint64, uint64, error) {
	available, err := fixedpoint.AddChecked(pool.AvailableLiquidity, debt)
	if err != nil {
		return 0, 0, err
	}
	totalBorrowed, err := fixedpoint.SubChecked(pool.TotalBorrowed, pos.BorrowedAmount)
	if err != nil {
		return 0, 0, err
	}
	return available, totalBorrowed, nil
}
