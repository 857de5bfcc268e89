package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/stakepool/types"
)

// QueryServer defines the stakepool QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, poolID string) (*types.Pool, error) {
	return q.keeper.mustGetPool(sdk.UnwrapSDKContext(ctx), poolID)
}

// Pools returns all pools
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
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

// Position returns a position by ID
func (q *QueryServer) Position(ctx context.Context, positionID string) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pos := q.keeper.GetPosition(sdkCtx, positionID)
	if pos == nil {
		return nil, errorsmod.Wrapf(types.ErrPositionNotFound, "position %s", positionID)
	}
	return pos, nil
}

// OwnerPositions returns every position held by owner
func (q *QueryServer) OwnerPositions(ctx context.Context, owner string) ([]*types.Position, error) {
	return q.keeper.GetOwnerPositions(sdk.UnwrapSDKContext(ctx), owner), nil
}

// PendingReward returns what a position could claim at the current block time
func (q *QueryServer) PendingReward(ctx context.Context, positionID string) (uint64, error) {
	pos, err := q.Position(ctx, positionID)
	if err != nil {
		return 0, err
	}
	pool, err := q.Pool(ctx, pos.PoolID)
	if err != nil {
		return 0, err
	}
	return pool.PendingReward(pos, now(sdk.UnwrapSDKContext(ctx)))
}

// ProjectedAccumulator returns the pool accumulator as of the current block time
func (q *QueryServer) ProjectedAccumulator(ctx context.Context, poolID string) (math.Uint, error) {
	pool, err := q.Pool(ctx, poolID)
	if err != nil {
		return math.ZeroUint(), err
	}
	return pool.ProjectAccumulator(now(sdk.UnwrapSDKContext(ctx))), nil
}

// LockedPositions returns up to limit positions of a pool still locked at
// the current block time, soonest unlock first
func (q *QueryServer) LockedPositions(ctx context.Context, poolID string, limit int) ([]*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.mustGetPool(sdkCtx, poolID); err != nil {
		return nil, err
	}
	schedule := types.NewUnlockSchedule(q.keeper.GetPoolPositions(sdkCtx, poolID))
	return schedule.Locked(now(sdkCtx), limit), nil
}

// LockedPrincipal returns how much of a pool's stake is still locked at the
// current block time
func (q *QueryServer) LockedPrincipal(ctx context.Context, poolID string) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.mustGetPool(sdkCtx, poolID); err != nil {
		return 0, err
	}
	schedule := types.NewUnlockSchedule(q.keeper.GetPoolPositions(sdkCtx, poolID))
	return schedule.LockedAmount(now(sdkCtx))
}
