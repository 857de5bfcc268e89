package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
)

// EndBlocker republishes the staking gauges of every pool
func (k *Keeper) EndBlocker(ctx sdk.Context) {
	collector := metrics.GetCollector()
	for _, pool := range k.GetAllPools(ctx) {
		collector.RecordStakePoolState(pool.PoolID, pool.TotalStaked, pool.RewardBalance)
	}
}
