package keeper

import (
	"testing"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/testutil"
	"github.com/openalpha/custody/x/vault/types"
)

const testDenom = "uusdc"

var (
	alice = testutil.Addr("alice")
	bob   = testutil.Addr("bob")
	carol = testutil.Addr("carol")
)

type fixture struct {
	ctx    sdk.Context
	keeper *Keeper
	bank   *testutil.BankKeeper
}

func setupKeeper(t *testing.T) *fixture {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.NewContext(t, storeKey)
	bank := testutil.NewBankKeeper()
	for _, addr := range []sdk.AccAddress{alice, bob, carol} {
		bank.Fund(addr, testDenom, 1_000_000_000)
	}

	return &fixture{
		ctx:    ctx,
		keeper: NewKeeper(storeKey, bank, log.NewNopLogger()),
		bank:   bank,
	}
}

func (f *fixture) createVault(t *testing.T, minDeposit uint64) *types.Pool {
	t.Helper()
	pool, err := f.keeper.CreateVault(f.ctx, alice.String(), testDenom, minDeposit)
	require.NoError(t, err)
	return pool
}

func (f *fixture) deposit(t *testing.T, who sdk.AccAddress, vaultID string, amount uint64) *types.ShareTicket {
	t.Helper()
	ticket, err := f.keeper.Deposit(f.ctx, who.String(), vaultID, amount)
	require.NoError(t, err)
	return ticket
}

// requireConserved checks that outstanding ticket shares add up to the pool total
func (f *fixture) requireConserved(t *testing.T) {
	t.Helper()
	msg, broken := ShareConservationInvariant(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestCreateVault(t *testing.T) {
	f := setupKeeper(t)

	pool := f.createVault(t, 10)
	require.NotEmpty(t, pool.PoolID)
	require.Equal(t, testDenom, pool.Denom)
	require.Zero(t, pool.Balance)
	require.Zero(t, pool.TotalShares)
	require.Equal(t, uint64(10), pool.MinDeposit)

	stored := f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Equal(t, pool, stored)

	second := f.createVault(t, 0)
	require.NotEqual(t, pool.PoolID, second.PoolID)
	require.Len(t, f.keeper.GetAllPools(f.ctx), 2)

	_, err := f.keeper.CreateVault(f.ctx, alice.String(), "1bad", 0)
	require.ErrorIs(t, err, types.ErrInvalidDenom)
}

func TestDepositBootstrapsOneToOne(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)

	require.Equal(t, uint64(1_000_000_000), pool.ExchangeRate())

	ticket := f.deposit(t, alice, pool.PoolID, 5_000)
	require.Equal(t, uint64(5_000), ticket.Shares)
	require.Equal(t, alice.String(), ticket.Owner)

	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Equal(t, uint64(5_000), pool.Balance)
	require.Equal(t, uint64(5_000), pool.TotalShares)
	require.Equal(t, uint64(1_000_000_000), pool.ExchangeRate())

	require.Equal(t, uint64(5_000), f.bank.ModuleBalance(types.ModuleName, testDenom))
	require.Equal(t, uint64(1_000_000_000-5_000), f.bank.Balance(alice, testDenom))
	f.requireConserved(t)
}

func TestDepositRejections(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 100)

	_, err := f.keeper.Deposit(f.ctx, alice.String(), pool.PoolID, 0)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = f.keeper.Deposit(f.ctx, alice.String(), pool.PoolID, 99)
	require.ErrorIs(t, err, types.ErrBelowMinimumDeposit)

	_, err = f.keeper.Deposit(f.ctx, alice.String(), "missing", 1_000)
	require.ErrorIs(t, err, types.ErrVaultNotFound)

	_, err = f.keeper.Deposit(f.ctx, "not-an-address", pool.PoolID, 1_000)
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Zero(t, pool.Balance)
	require.Zero(t, pool.TotalShares)
}

func TestDepositAfterYieldRoundsDown(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	f.deposit(t, alice, pool.PoolID, 1_000)

	// external yield: balance grows without new shares
	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	pool.Balance += 500
	f.keeper.SetPool(f.ctx, pool)
	f.bank.FundModule(types.ModuleName, testDenom, 500)

	ticket := f.deposit(t, bob, pool.PoolID, 100)
	require.Equal(t, uint64(66), ticket.Shares) // floor(100*1000/1500)

	before := f.bank.Balance(bob, testDenom)
	amount, err := f.keeper.Withdraw(f.ctx, bob.String(), ticket.TicketID)
	require.NoError(t, err)
	require.Equal(t, uint64(99), amount) // floor(66*1600/1066)
	require.LessOrEqual(t, amount, uint64(100))
	require.Equal(t, before+99, f.bank.Balance(bob, testDenom))
	f.requireConserved(t)
}

func TestWithdrawFullTicket(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	a := f.deposit(t, alice, pool.PoolID, 3_000)
	b := f.deposit(t, bob, pool.PoolID, 1_000)

	_, err := f.keeper.Withdraw(f.ctx, bob.String(), a.TicketID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.keeper.Withdraw(f.ctx, alice.String(), "missing")
	require.ErrorIs(t, err, types.ErrTicketNotFound)

	amount, err := f.keeper.Withdraw(f.ctx, alice.String(), a.TicketID)
	require.NoError(t, err)
	require.Equal(t, uint64(3_000), amount)
	require.Nil(t, f.keeper.GetTicket(f.ctx, a.TicketID))
	require.Empty(t, f.keeper.GetOwnerTickets(f.ctx, alice.String()))

	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Equal(t, uint64(1_000), pool.Balance)
	require.Equal(t, uint64(1_000), pool.TotalShares)
	f.requireConserved(t)

	amount, err = f.keeper.Withdraw(f.ctx, bob.String(), b.TicketID)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), amount)

	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Zero(t, pool.Balance)
	require.Zero(t, pool.TotalShares)
	require.Equal(t, uint64(1_000_000_000), pool.ExchangeRate())
	require.Zero(t, f.bank.ModuleBalance(types.ModuleName, testDenom))
}

func TestWithdrawPartial(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	ticket := f.deposit(t, alice, pool.PoolID, 1_000)

	_, _, err := f.keeper.WithdrawPartial(f.ctx, alice.String(), ticket.TicketID, 0)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, _, err = f.keeper.WithdrawPartial(f.ctx, alice.String(), ticket.TicketID, 1_001)
	require.ErrorIs(t, err, types.ErrInsufficientShares)

	amount, remaining, err := f.keeper.WithdrawPartial(f.ctx, alice.String(), ticket.TicketID, 400)
	require.NoError(t, err)
	require.Equal(t, uint64(400), amount)
	require.Equal(t, uint64(600), remaining)
	require.Equal(t, uint64(600), f.keeper.GetTicket(f.ctx, ticket.TicketID).Shares)
	f.requireConserved(t)

	// draining the ticket removes it
	amount, remaining, err = f.keeper.WithdrawPartial(f.ctx, alice.String(), ticket.TicketID, 600)
	require.NoError(t, err)
	require.Equal(t, uint64(600), amount)
	require.Zero(t, remaining)
	require.Nil(t, f.keeper.GetTicket(f.ctx, ticket.TicketID))
	f.requireConserved(t)
}

func TestMerge(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	other := f.createVault(t, 0)

	t1 := f.deposit(t, alice, pool.PoolID, 1_000)
	t2 := f.deposit(t, alice, pool.PoolID, 250)
	foreign := f.deposit(t, alice, other.PoolID, 100)
	bobs := f.deposit(t, bob, pool.PoolID, 100)

	testCases := []struct {
		name   string
		caller sdk.AccAddress
		target string
		donor  string
		err    error
	}{
		{"same ticket", alice, t1.TicketID, t1.TicketID, types.ErrSameTicket},
		{"other vault", alice, t1.TicketID, foreign.TicketID, types.ErrVaultMismatch},
		{"donor not owned", alice, t1.TicketID, bobs.TicketID, types.ErrUnauthorized},
		{"target not owned", bob, t1.TicketID, bobs.TicketID, types.ErrUnauthorized},
		{"missing donor", alice, t1.TicketID, "missing", types.ErrTicketNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.keeper.Merge(f.ctx, tc.caller.String(), tc.target, tc.donor)
			require.ErrorIs(t, err, tc.err)
		})
	}

	merged, err := f.keeper.Merge(f.ctx, alice.String(), t1.TicketID, t2.TicketID)
	require.NoError(t, err)
	require.Equal(t, t1.TicketID, merged.TicketID)
	require.Equal(t, uint64(1_250), merged.Shares)
	require.Nil(t, f.keeper.GetTicket(f.ctx, t2.TicketID))
	require.Len(t, f.keeper.GetVaultTickets(f.ctx, pool.PoolID), 2)
	f.requireConserved(t)
}

func TestSplit(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	ticket := f.deposit(t, alice, pool.PoolID, 1_000)

	_, err := f.keeper.Split(f.ctx, alice.String(), ticket.TicketID, 1_000)
	require.ErrorIs(t, err, types.ErrInsufficientShares)

	_, err = f.keeper.Split(f.ctx, bob.String(), ticket.TicketID, 10)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	carved, err := f.keeper.Split(f.ctx, alice.String(), ticket.TicketID, 300)
	require.NoError(t, err)
	require.NotEqual(t, ticket.TicketID, carved.TicketID)
	require.Equal(t, uint64(300), carved.Shares)
	require.Equal(t, pool.PoolID, carved.VaultID)
	require.Equal(t, uint64(700), f.keeper.GetTicket(f.ctx, ticket.TicketID).Shares)
	require.Len(t, f.keeper.GetOwnerTickets(f.ctx, alice.String()), 2)
	f.requireConserved(t)
}

func TestTransferTicket(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createVault(t, 0)
	ticket := f.deposit(t, alice, pool.PoolID, 1_000)

	require.ErrorIs(t, f.keeper.TransferTicket(f.ctx, alice.String(), ticket.TicketID, "bogus"), types.ErrInvalidAddress)
	require.ErrorIs(t, f.keeper.TransferTicket(f.ctx, bob.String(), ticket.TicketID, carol.String()), types.ErrUnauthorized)

	require.NoError(t, f.keeper.TransferTicket(f.ctx, alice.String(), ticket.TicketID, bob.String()))
	require.Empty(t, f.keeper.GetOwnerTickets(f.ctx, alice.String()))
	require.Len(t, f.keeper.GetOwnerTickets(f.ctx, bob.String()), 1)

	_, err := f.keeper.Withdraw(f.ctx, alice.String(), ticket.TicketID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	before := f.bank.Balance(bob, testDenom)
	amount, err := f.keeper.Withdraw(f.ctx, bob.String(), ticket.TicketID)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), amount)
	require.Equal(t, before+1_000, f.bank.Balance(bob, testDenom))
}
