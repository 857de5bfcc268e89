package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/lending/types"
)

// QueryServer defines the lending QueryServer
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

// Position returns a loan by ID
func (q *QueryServer) Position(ctx context.Context, positionID string) (*types.Position, error) {
	return q.keeper.mustGetPosition(sdk.UnwrapSDKContext(ctx), positionID)
}

// BorrowerPositions returns every open loan of borrower
func (q *QueryServer) BorrowerPositions(ctx context.Context, borrower string) ([]*types.Position, error) {
	return q.keeper.GetBorrowerPositions(sdk.UnwrapSDKContext(ctx), borrower), nil
}

// TotalDebt returns what repaying a loan would cost at the current block time
func (q *QueryServer) TotalDebt(ctx context.Context, positionID string) (uint64, error) {
	pos, err := q.Position(ctx, positionID)
	if err != nil {
		return 0, err
	}
	return pos.TotalDebt(now(sdk.UnwrapSDKContext(ctx)))
}

// HealthFactor returns a loan's health factor at the current block time
func (q *QueryServer) HealthFactor(ctx context.Context, positionID string) (uint64, error) {
	pos, err := q.Position(ctx, positionID)
	if err != nil {
		return 0, err
	}
	return pos.HealthFactor(now(sdk.UnwrapSDKContext(ctx)))
}

// LiquidatablePositions returns the loans of a pool that can be liquidated
// at the current block time, most at risk first
func (q *QueryServer) LiquidatablePositions(ctx context.Context, poolID string) ([]*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.mustGetPool(sdkCtx, poolID); err != nil {
		return nil, err
	}
	return q.keeper.riskBook(sdkCtx, poolID).Liquidatable(), nil
}

// AtRiskPositions returns up to limit loans of a pool whose health factor is
// below maxHealth, most at risk first
func (q *QueryServer) AtRiskPositions(ctx context.Context, poolID string, maxHealth uint64, limit int) ([]*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.mustGetPool(sdkCtx, poolID); err != nil {
		return nil, err
	}
	return q.keeper.riskBook(sdkCtx, poolID).Below(maxHealth, limit), nil
}
