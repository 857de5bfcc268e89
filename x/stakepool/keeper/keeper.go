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
	"github.com/openalpha/custody/x/stakepool/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the staking pool state
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
}

// NewKeeper creates a new stakepool keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		logger:     logger.With("module", "x/stakepool"),
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

// now returns the block time in milliseconds
func now(ctx sdk.Context) uint64 {
	ms := ctx.BlockTime().UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

func coins(denom string, amount uint64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, math.NewIntFromUint64(amount)))
}

// ============ Pool Operations ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(types.PoolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool from the store
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

// GetAllPools returns all pools
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

func (k *Keeper) mustGetPool(ctx sdk.Context, poolID string) (*types.Pool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, errorsmod.Wrapf(types.ErrPoolNotFound, "pool %s", poolID)
	}
	return pool, nil
}

// ============ Position Operations ============

// SetPosition saves a position and its owner/pool index entries
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.Position) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pos)
	store.Set(types.PositionKey(pos.PositionID), bz)
	store.Set(types.OwnerPositionKey(pos.Owner, pos.PositionID), []byte(pos.PositionID))
	store.Set(types.PoolPositionKey(pos.PoolID, pos.PositionID), []byte(pos.PositionID))
}

// GetPosition retrieves a position from the store
func (k *Keeper) GetPosition(ctx sdk.Context, positionID string) *types.Position {
	bz := k.GetStore(ctx).Get(types.PositionKey(positionID))
	if bz == nil {
		return nil
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil
	}
	return &pos
}

// RemovePosition deletes a position and its index entries
func (k *Keeper) RemovePosition(ctx sdk.Context, pos *types.Position) {
	store := k.GetStore(ctx)
	store.Delete(types.PositionKey(pos.PositionID))
	store.Delete(types.OwnerPositionKey(pos.Owner, pos.PositionID))
	store.Delete(types.PoolPositionKey(pos.PoolID, pos.PositionID))
}

func (k *Keeper) positionsByIndex(ctx sdk.Context, prefix []byte) []*types.Position {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		if pos := k.GetPosition(ctx, string(iterator.Value())); pos != nil {
			positions = append(positions, pos)
		}
	}
	return positions
}

// GetOwnerPositions returns every position held by owner
func (k *Keeper) GetOwnerPositions(ctx sdk.Context, owner string) []*types.Position {
	return k.positionsByIndex(ctx, types.OwnerPositionsPrefix(owner))
}

// GetPoolPositions returns every open position of a pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, poolID string) []*types.Position {
	return k.positionsByIndex(ctx, types.PoolPositionsPrefix(poolID))
}

func (k *Keeper) loadOwnedPosition(ctx sdk.Context, caller, positionID string) (*types.Position, error) {
	pos := k.GetPosition(ctx, positionID)
	if pos == nil {
		return nil, errorsmod.Wrapf(types.ErrPositionNotFound, "position %s", positionID)
	}
	if pos.Owner != caller {
		return nil, errorsmod.Wrapf(types.ErrUnauthorized, "position %s is owned by %s", positionID, pos.Owner)
	}
	return pos, nil
}
