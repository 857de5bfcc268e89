package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/vault/types"
)

// Withdraw burns every share on the ticket, destroys it and pays out the
// pro-rata balance computed before the burn.
func (k *Keeper) Withdraw(ctx context.Context, owner, ticketID string) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	ticket, err := k.loadOwnedTicket(sdkCtx, owner, ticketID)
	if err != nil {
		return 0, err
	}

	amount, err := k.redeem(ctx, ticket, ticket.Shares)
	if err != nil {
		return 0, err
	}

	k.RemoveTicket(sdkCtx, ticket)
	return amount, nil
}

// WithdrawPartial burns shares from a ticket the owner keeps. Burning the
// whole ticket removes it rather than leaving a zero-share record.
func (k *Keeper) WithdrawPartial(ctx context.Context, owner, ticketID string, shares uint64) (uint64, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if shares == 0 {
		return 0, 0, types.ErrInvalidAmount
	}

	ticket, err := k.loadOwnedTicket(sdkCtx, owner, ticketID)
	if err != nil {
		return 0, 0, err
	}
	if ticket.Shares < shares {
		return 0, 0, errorsmod.Wrapf(types.ErrInsufficientShares, "ticket holds %d, requested %d", ticket.Shares, shares)
	}

	amount, err := k.redeem(ctx, ticket, shares)
	if err != nil {
		return 0, 0, err
	}

	ticket.Shares -= shares
	if ticket.Shares == 0 {
		k.RemoveTicket(sdkCtx, ticket)
	} else {
		k.SetTicket(sdkCtx, ticket)
	}
	return amount, ticket.Shares, nil
}

// redeem burns shares of ticket's vault and transfers the redemption to the
// ticket owner. The caller updates or removes the ticket itself.
func (k *Keeper) redeem(ctx context.Context, ticket *types.ShareTicket, shares uint64) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, ticket.VaultID)
	if pool == nil {
		return 0, errorsmod.Wrapf(types.ErrVaultNotFound, "vault %s", ticket.VaultID)
	}
	if shares == 0 || pool.TotalShares < shares {
		return 0, errorsmod.Wrapf(types.ErrInsufficientShares, "burn %d of %d outstanding", shares, pool.TotalShares)
	}

	amount, err := pool.WithdrawalForShares(shares)
	if err != nil {
		return 0, err
	}
	if amount > pool.Balance {
		return 0, errorsmod.Wrapf(types.ErrPoolDrained, "redemption %d exceeds balance %d", amount, pool.Balance)
	}

	ownerAddr, err := sdk.AccAddressFromBech32(ticket.Owner)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidAddress, "owner: %s", err)
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, coins(pool.Denom, amount)); err != nil {
		return 0, err
	}

	pool.TotalShares -= shares
	pool.Balance -= amount
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyVaultID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyTicketID, ticket.TicketID),
			sdk.NewAttribute(types.AttributeKeyOwner, ticket.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(shares, 10)),
		),
	)

	k.logger.Info("Withdrawal processed",
		"vault_id", pool.PoolID,
		"ticket_id", ticket.TicketID,
		"shares", shares,
		"amount", amount,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordVaultFlow(pool.PoolID, metrics.FlowOut, amount)
		collector.RecordVaultState(pool.PoolID, pool.Balance, pool.TotalShares)
	})

	return amount, nil
}
