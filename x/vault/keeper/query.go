package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/vault/types"
)

// QueryServer defines the vault QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Vault returns a vault by ID
func (q *QueryServer) Vault(ctx context.Context, vaultID string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, vaultID)
	if pool == nil {
		return nil, errorsmod.Wrapf(types.ErrVaultNotFound, "vault %s", vaultID)
	}
	return pool, nil
}

// Vaults returns all vaults
func (q *QueryServer) Vaults(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))
	if offset >= total {
		return []*types.Pool{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}

	return allPools[offset:end], total, nil
}

// Ticket returns a ticket by ID
func (q *QueryServer) Ticket(ctx context.Context, ticketID string) (*types.ShareTicket, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ticket := q.keeper.GetTicket(sdkCtx, ticketID)
	if ticket == nil {
		return nil, errorsmod.Wrapf(types.ErrTicketNotFound, "ticket %s", ticketID)
	}
	return ticket, nil
}

// OwnerTickets returns every ticket held by owner
func (q *QueryServer) OwnerTickets(ctx context.Context, owner string) ([]*types.ShareTicket, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetOwnerTickets(sdkCtx, owner), nil
}

// TicketValue returns what a ticket would redeem for right now
func (q *QueryServer) TicketValue(ctx context.Context, ticketID string) (uint64, error) {
	ticket, err := q.Ticket(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	pool, err := q.Vault(ctx, ticket.VaultID)
	if err != nil {
		return 0, err
	}
	return pool.WithdrawalForShares(ticket.Shares)
}

// ExchangeRate returns the 1e9-scaled balance per share of a vault
func (q *QueryServer) ExchangeRate(ctx context.Context, vaultID string) (uint64, error) {
	pool, err := q.Vault(ctx, vaultID)
	if err != nil {
		return 0, err
	}
	return pool.ExchangeRate(), nil
}
