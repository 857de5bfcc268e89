package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/stakepool/types"
)

// RegisterInvariants registers the stakepool invariants with the crisis router
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "stake-conservation", StakeConservationInvariant(k))
}

// StakeConservationInvariant checks that open position amounts add up to
// TotalStaked and that the escrowed principal matches it.
func StakeConservationInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		for _, pool := range k.GetAllPools(ctx) {
			var sum uint64
			for _, pos := range k.GetPoolPositions(ctx, pool.PoolID) {
				sum += pos.Amount
			}
			if sum != pool.TotalStaked || pool.StakedBalance != pool.TotalStaked {
				broken = true
				msg += fmt.Sprintf("\tpool %s: positions hold %d, total_staked %d, staked_balance %d\n",
					pool.PoolID, sum, pool.TotalStaked, pool.StakedBalance)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "stake-conservation", msg), broken
	}
}
