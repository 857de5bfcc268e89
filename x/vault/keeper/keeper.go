package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/pkg/ids"
	"github.com/openalpha/custody/x/vault/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the vault module state
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
}

// NewKeeper creates a new vault keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		logger:     logger.With("module", "x/vault"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func (k *Keeper) nextID(ctx sdk.Context, kind string) string {
	return ids.Next(k.GetStore(ctx), kind)
}

func coins(denom string, amount uint64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, math.NewIntFromUint64(amount)))
}

// ============ Pool Operations ============

// SetPool saves a vault to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(types.PoolKey(pool.PoolID), bz)
}

// GetPool retrieves a vault from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	bz := k.GetStore(ctx).Get(types.PoolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all vaults
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Ticket Operations ============

// SetTicket saves a ticket and its owner/vault index entries
func (k *Keeper) SetTicket(ctx sdk.Context, ticket *types.ShareTicket) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(ticket)
	store.Set(types.TicketKey(ticket.TicketID), bz)
	store.Set(types.OwnerTicketKey(ticket.Owner, ticket.TicketID), []byte(ticket.TicketID))
	store.Set(types.VaultTicketKey(ticket.VaultID, ticket.TicketID), []byte(ticket.TicketID))
}

// GetTicket retrieves a ticket from the store
func (k *Keeper) GetTicket(ctx sdk.Context, ticketID string) *types.ShareTicket {
	bz := k.GetStore(ctx).Get(types.TicketKey(ticketID))
	if bz == nil {
		return nil
	}
	var ticket types.ShareTicket
	if err := json.Unmarshal(bz, &ticket); err != nil {
		return nil
	}
	return &ticket
}

// RemoveTicket deletes a ticket and its index entries
func (k *Keeper) RemoveTicket(ctx sdk.Context, ticket *types.ShareTicket) {
	store := k.GetStore(ctx)
	store.Delete(types.TicketKey(ticket.TicketID))
	store.Delete(types.OwnerTicketKey(ticket.Owner, ticket.TicketID))
	store.Delete(types.VaultTicketKey(ticket.VaultID, ticket.TicketID))
}

func (k *Keeper) ticketsByIndex(ctx sdk.Context, prefix []byte) []*types.ShareTicket {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var tickets []*types.ShareTicket
	for ; iterator.Valid(); iterator.Next() {
		if ticket := k.GetTicket(ctx, string(iterator.Value())); ticket != nil {
			tickets = append(tickets, ticket)
		}
	}
	return tickets
}

// GetOwnerTickets returns every ticket held by owner
func (k *Keeper) GetOwnerTickets(ctx sdk.Context, owner string) []*types.ShareTicket {
	return k.ticketsByIndex(ctx, types.OwnerTicketsPrefix(owner))
}

// GetVaultTickets returns every outstanding ticket of a vault
func (k *Keeper) GetVaultTickets(ctx sdk.Context, vaultID string) []*types.ShareTicket {
	return k.ticketsByIndex(ctx, types.VaultTicketsPrefix(vaultID))
}

// loadOwnedTicket fetches a ticket and checks that caller owns it
func (k *Keeper) loadOwnedTicket(ctx sdk.Context, caller, ticketID string) (*types.ShareTicket, error) {
	ticket := k.GetTicket(ctx, ticketID)
	if ticket == nil {
		return nil, errorsmod.Wrapf(types.ErrTicketNotFound, "ticket %s", ticketID)
	}
	if ticket.Owner != caller {
		return nil, errorsmod.Wrapf(types.ErrUnauthorized, "ticket %s is owned by %s", ticketID, ticket.Owner)
	}
	return ticket, nil
}
