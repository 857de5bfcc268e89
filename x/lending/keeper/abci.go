package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/x/lending/types"
)

// EndBlocker republishes the lending gauges, including how many loans of
// each pool are liquidatable at the block time.
func (k *Keeper) EndBlocker(ctx sdk.Context) {
	collector := metrics.GetCollector()
	for _, pool := range k.GetAllPools(ctx) {
		liquidatable := k.riskBook(ctx, pool.PoolID).Liquidatable()
		collector.RecordLendingPoolState(pool.PoolID, pool.AvailableLiquidity, pool.TotalBorrowed, len(liquidatable))
	}
}

// riskBook ranks the loans of a pool by health factor at the block time
func (k *Keeper) riskBook(ctx sdk.Context, poolID string) *types.RiskBook {
	book, errs := types.NewRiskBook(k.GetPoolPositions(ctx, poolID), now(ctx))
	for _, err := range errs {
		k.logger.Error("Failed to evaluate loan health", "pool_id", poolID, "error", err)
	}
	return book
}
