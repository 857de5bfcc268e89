package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/pkg/fixedpoint"
	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/vault/types"
)

// Deposit moves amount into the vault and issues a new ticket for the minted shares
func (k *Keeper) Deposit(ctx context.Context, depositor, vaultID string, amount uint64) (*types.ShareTicket, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount == 0 {
		return nil, types.ErrInvalidAmount
	}

	pool := k.GetPool(sdkCtx, vaultID)
	if pool == nil {
		return nil, errorsmod.Wrapf(types.ErrVaultNotFound, "vault %s", vaultID)
	}

	depositorAddr, err := sdk.AccAddressFromBech32(depositor)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "depositor: %s", err)
	}

	shares, err := pool.SharesForDeposit(amount)
	if err != nil {
		return nil, err
	}

	newBalance, err := fixedpoint.AddChecked(pool.Balance, amount)
	if err != nil {
		return nil, err
	}
	newTotalShares, err := fixedpoint.AddChecked(pool.TotalShares, shares)
	if err != nil {
		return nil, err
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositorAddr, types.ModuleName, coins(pool.Denom, amount)); err != nil {
		return nil, err
	}

	pool.Balance = newBalance
	pool.TotalShares = newTotalShares
	k.SetPool(sdkCtx, pool)

	ticket := types.NewShareTicket(k.nextID(sdkCtx, types.IDKindTicket), vaultID, depositor, shares)
	k.SetTicket(sdkCtx, ticket)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyVaultID, vaultID),
			sdk.NewAttribute(types.AttributeKeyTicketID, ticket.TicketID),
			sdk.NewAttribute(types.AttributeKeyOwner, depositor),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(shares, 10)),
		),
	)

	k.logger.Info("Deposit processed",
		"vault_id", vaultID,
		"depositor", depositor,
		"amount", amount,
		"shares", shares,
	)

	txn.OnCommit(ctx, func() {
		collector := metrics.GetCollector()
		collector.RecordVaultFlow(vaultID, metrics.FlowIn, amount)
		collector.RecordVaultState(vaultID, pool.Balance, pool.TotalShares)
	})

	return ticket, nil
}
