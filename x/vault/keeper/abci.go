package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/metrics"
)

// EndBlocker republishes the balance and share gauges of every vault
func (k *Keeper) EndBlocker(ctx sdk.Context) {
	collector := metrics.GetCollector()
	for _, pool := range k.GetAllPools(ctx) {
		collector.RecordVaultState(pool.PoolID, pool.Balance, pool.TotalShares)
	}
}
