package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/vault/types"
)

// RegisterInvariants registers the vault invariants with the crisis router
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "share-conservation", ShareConservationInvariant(k))
}

// ShareConservationInvariant checks that the shares on a vault's outstanding
// tickets add up to its TotalShares, and that a vault with no shares holds
// no claims.
func ShareConservationInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken bool
		)

		for _, pool := range k.GetAllPools(ctx) {
			var sum uint64
			for _, ticket := range k.GetVaultTickets(ctx, pool.PoolID) {
				sum += ticket.Shares
			}
			if sum != pool.TotalShares {
				broken = true
				msg += fmt.Sprintf("\tvault %s: tickets hold %d shares, total_shares %d\n", pool.PoolID, sum, pool.TotalShares)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "share-conservation", msg), broken
	}
}
