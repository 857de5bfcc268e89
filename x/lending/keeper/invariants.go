package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/lending/types"
)

// RegisterInvariants registers the lending invariants with the crisis router
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "borrow-conservation", BorrowConservationInvariant(k))
}

// BorrowConservationInvariant checks that the principal of open loans adds
// up to each pool's TotalBorrowed and that repayments never leave a pool
// holding less than was supplied to it.
func BorrowConservationInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		for _, pool := range k.GetAllPools(ctx) {
			var sum uint64
			for _, pos := range k.GetPoolPositions(ctx, pool.PoolID) {
				sum += pos.BorrowedAmount
			}
			if sum != pool.TotalBorrowed {
				broken = true
				msg += fmt.Sprintf("\tpool %s: loans hold %d, total_borrowed %d\n", pool.PoolID, sum, pool.TotalBorrowed)
			}
			if pool.AvailableLiquidity+pool.TotalBorrowed < pool.TotalDeposits {
				broken = true
				msg += fmt.Sprintf("\tpool %s: liquidity %d + borrowed %d below deposits %d\n",
					pool.PoolID, pool.AvailableLiquidity, pool.TotalBorrowed, pool.TotalDeposits)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "borrow-conservation", msg), broken
	}
}
