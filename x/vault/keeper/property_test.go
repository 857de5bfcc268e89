package keeper

import (
	"math/rand"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/x/vault/types"
)

// TestShareConservationRandomOps drives a vault through a seeded sequence of
// deposits, full and partial withdrawals, merges and splits.
func TestShareConservationRandomOps(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	users := []sdk.AccAddress{alice, bob, carol}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 400; i++ {
		user := users[rng.Intn(len(users))]
		owned := f.keeper.GetOwnerTickets(f.ctx, user.String())

		switch op := rng.Intn(5); {
		case op == 0 || len(owned) == 0:
			amount := uint64(rng.Int63n(100_000) + 1)
			if _, err := f.keeper.Deposit(f.ctx, user.String(), pool.PoolID, amount); err != nil {
				require.ErrorIs(t, err, types.ErrZeroSharesMinted)
			}
		case op == 1:
			ticket := owned[rng.Intn(len(owned))]
			_, err := f.keeper.Withdraw(f.ctx, user.String(), ticket.TicketID)
			require.NoError(t, err)
		case op == 2:
			ticket := owned[rng.Intn(len(owned))]
			shares := uint64(rng.Int63n(int64(ticket.Shares))) + 1
			if _, _, err := f.keeper.WithdrawPartial(f.ctx, user.String(), ticket.TicketID, shares); err != nil {
				require.ErrorIs(t, err, types.ErrPoolDrained)
			}
		case op == 3 && len(owned) >= 2:
			_, err := f.keeper.Merge(f.ctx, user.String(), owned[0].TicketID, owned[1].TicketID)
			require.NoError(t, err)
		case op == 4 && owned[0].Shares > 1:
			_, err := f.keeper.Split(f.ctx, user.String(), owned[0].TicketID, owned[0].Shares/2)
			require.NoError(t, err)
		}

		f.requireConserved(t)

		current := f.keeper.GetPool(f.ctx, pool.PoolID)
		require.Equal(t, current.Balance, f.bank.ModuleBalance(types.ModuleName, testDenom))
	}
}

// TestRoundTripNeverFavorsDepositor checks withdrawal(shares_for_deposit(a)) <= a
// across a spread of pool ratios.
func TestRoundTripNeverFavorsDepositor(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2_000; i++ {
		pool := &types.Pool{
			Balance:     uint64(rng.Int63n(1_000_000_000) + 1),
			TotalShares: uint64(rng.Int63n(1_000_000_000) + 1),
		}
		amount := uint64(rng.Int63n(10_000_000) + 1)

		shares, err := pool.SharesForDeposit(amount)
		if err != nil {
			require.ErrorIs(t, err, types.ErrZeroSharesMinted)
			continue
		}

		pool.Balance += amount
		pool.TotalShares += shares

		out, err := pool.WithdrawalForShares(shares)
		if err != nil {
			require.ErrorIs(t, err, types.ErrPoolDrained)
			continue
		}
		require.LessOrEqual(t, out, amount, "balance=%d shares=%d amount=%d", pool.Balance, pool.TotalShares, amount)
	}
}
