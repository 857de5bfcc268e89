package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/pkg/fixedpoint"
	"github.com/openalpha/custody/x/vault/types"
)

// Merge folds the donor ticket into the target ticket. Both must belong to
// owner and to the same vault; the donor is destroyed.
func (k *Keeper) Merge(ctx context.Context, owner, targetID, donorID string) (*types.ShareTicket, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if targetID == donorID {
		return nil, types.ErrSameTicket
	}

	target, err := k.loadOwnedTicket(sdkCtx, owner, targetID)
	if err != nil {
		return nil, err
	}
	donor, err := k.loadOwnedTicket(sdkCtx, owner, donorID)
	if err != nil {
		return nil, err
	}
	if target.VaultID != donor.VaultID {
		return nil, errorsmod.Wrapf(types.ErrVaultMismatch, "%s belongs to %s, %s to %s",
			target.TicketID, target.VaultID, donor.TicketID, donor.VaultID)
	}

	merged, err := fixedpoint.AddChecked(target.Shares, donor.Shares)
	if err != nil {
		return nil, err
	}

	k.RemoveTicket(sdkCtx, donor)
	target.Shares = merged
	k.SetTicket(sdkCtx, target)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMerge,
			sdk.NewAttribute(types.AttributeKeyVaultID, target.VaultID),
			sdk.NewAttribute(types.AttributeKeyTicketID, target.TicketID),
			sdk.NewAttribute(types.AttributeKeyDonorID, donor.TicketID),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(merged, 10)),
		),
	)

	k.logger.Info("Tickets merged",
		"vault_id", target.VaultID,
		"ticket_id", target.TicketID,
		"donor_ticket_id", donor.TicketID,
		"shares", merged,
	)

	return target, nil
}

// Split carves shares off a ticket into a new ticket of the same vault and
// owner. The source must keep at least one share.
func (k *Keeper) Split(ctx context.Context, owner, ticketID string, shares uint64) (*types.ShareTicket, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if shares == 0 {
		return nil, types.ErrInvalidAmount
	}

	source, err := k.loadOwnedTicket(sdkCtx, owner, ticketID)
	if err != nil {
		return nil, err
	}
	if source.Shares <= shares {
		return nil, errorsmod.Wrapf(types.ErrInsufficientShares, "ticket holds %d, split %d", source.Shares, shares)
	}

	source.Shares -= shares
	k.SetTicket(sdkCtx, source)

	carved := types.NewShareTicket(k.nextID(sdkCtx, types.IDKindTicket), source.VaultID, owner, shares)
	k.SetTicket(sdkCtx, carved)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSplit,
			sdk.NewAttribute(types.AttributeKeyVaultID, source.VaultID),
			sdk.NewAttribute(types.AttributeKeyTicketID, carved.TicketID),
			sdk.NewAttribute(types.AttributeKeyDonorID, source.TicketID),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(shares, 10)),
		),
	)

	return carved, nil
}

// TransferTicket hands a ticket to recipient
func (k *Keeper) TransferTicket(ctx context.Context, owner, ticketID, recipient string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if _, err := sdk.AccAddressFromBech32(recipient); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidAddress, "recipient: %s", err)
	}

	ticket, err := k.loadOwnedTicket(sdkCtx, owner, ticketID)
	if err != nil {
		return err
	}

	k.RemoveTicket(sdkCtx, ticket)
	ticket.Owner = recipient
	k.SetTicket(sdkCtx, ticket)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyTicketID, ticket.TicketID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient),
		),
	)
	return nil
}
