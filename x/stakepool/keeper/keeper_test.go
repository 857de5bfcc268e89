package keeper

import (
	"testing"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/testutil"
	"github.com/openalpha/custody/x/stakepool/types"
)

const (
	stakeDenom  = "ustake"
	rewardDenom = "ureward"
	lockMs      = 10_000
)

var (
	alice  = testutil.Addr("alice")
	bob    = testutil.Addr("bob")
	funder = testutil.Addr("funder")
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
	bank.Fund(alice, stakeDenom, 1_000_000)
	bank.Fund(bob, stakeDenom, 1_000_000)
	bank.Fund(funder, rewardDenom, 1_000_000_000)

	return &fixture{
		ctx:    ctx,
		keeper: NewKeeper(storeKey, bank, log.NewNopLogger()),
		bank:   bank,
	}
}

func (f *fixture) advance(ms int64) {
	f.ctx = testutil.Advance(f.ctx, ms)
}

func (f *fixture) createPool(t *testing.T, rate uint64) *types.Pool {
	t.Helper()
	pool, err := f.keeper.CreatePool(f.ctx, funder.String(), stakeDenom, rewardDenom, rate, lockMs)
	require.NoError(t, err)
	return pool
}

func (f *fixture) stake(t *testing.T, who sdk.AccAddress, poolID string, amount uint64) *types.Position {
	t.Helper()
	pos, err := f.keeper.Stake(f.ctx, who.String(), poolID, amount)
	require.NoError(t, err)
	return pos
}

func (f *fixture) fund(t *testing.T, poolID string, amount uint64) {
	t.Helper()
	_, err := f.keeper.FundRewards(f.ctx, funder.String(), poolID, amount)
	require.NoError(t, err)
}

func (f *fixture) requireConserved(t *testing.T) {
	t.Helper()
	msg, broken := StakeConservationInvariant(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}

func TestCreatePool(t *testing.T) {
	f := setupKeeper(t)

	pool := f.createPool(t, 100)
	require.Equal(t, uint64(100), pool.RewardPerSecond)
	require.Equal(t, uint64(lockMs), pool.LockPeriodMs)
	require.True(t, pool.AccRewardPerShare.IsZero())
	require.Equal(t, uint64(testutil.GenesisTime.UnixMilli()), pool.LastUpdateTime)

	stored := f.keeper.GetPool(f.ctx, pool.PoolID)
	require.NotNil(t, stored)
	require.True(t, stored.AccRewardPerShare.IsZero())

	_, err := f.keeper.CreatePool(f.ctx, funder.String(), stakeDenom, stakeDenom, 1, 0)
	require.ErrorIs(t, err, types.ErrInvalidDenom)
}

func TestStakeAndClaim(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)

	a := f.stake(t, alice, pool.PoolID, 300)
	b := f.stake(t, bob, pool.PoolID, 100)
	require.Equal(t, a.StakeTime+lockMs, a.UnlockTime)
	require.Equal(t, uint64(400), f.bank.ModuleBalance(types.ModuleName, stakeDenom))
	f.requireConserved(t)

	_, err := f.keeper.ClaimRewards(f.ctx, alice.String(), a.PositionID)
	require.ErrorIs(t, err, types.ErrNoRewardsAvailable)

	// 10s at 100/s split 3:1
	f.advance(10_000)
	q := NewQueryServerImpl(f.keeper)
	pending, err := q.PendingReward(f.ctx, a.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(750), pending)

	f.fund(t, pool.PoolID, 600)
	_, err = f.keeper.ClaimRewards(f.ctx, alice.String(), a.PositionID)
	require.ErrorIs(t, err, types.ErrRewardPoolExhausted)

	_, err = f.keeper.ClaimRewards(f.ctx, bob.String(), a.PositionID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	f.fund(t, pool.PoolID, 400)
	reward, err := f.keeper.ClaimRewards(f.ctx, alice.String(), a.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(750), reward)
	require.Equal(t, uint64(750), f.bank.Balance(alice, rewardDenom))

	// claiming again in the same block pays nothing
	_, err = f.keeper.ClaimRewards(f.ctx, alice.String(), a.PositionID)
	require.ErrorIs(t, err, types.ErrNoRewardsAvailable)

	pending, err = q.PendingReward(f.ctx, b.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(250), pending)

	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Equal(t, uint64(250), pool.RewardBalance)
}

func TestUnstakeLockBoundary(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)
	f.fund(t, pool.PoolID, 1_000_000)
	pos := f.stake(t, alice, pool.PoolID, 500)

	f.advance(lockMs - 1)
	_, err := f.keeper.Unstake(f.ctx, alice.String(), pos.PositionID)
	require.ErrorIs(t, err, types.ErrStillLocked)

	f.advance(1)
	require.Equal(t, pos.UnlockTime, uint64(f.ctx.BlockTime().UnixMilli()))

	_, err = f.keeper.Unstake(f.ctx, bob.String(), pos.PositionID)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	result, err := f.keeper.Unstake(f.ctx, alice.String(), pos.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(500), result.Principal)
	require.Equal(t, uint64(1_000), result.Reward) // 10s at 100/s, sole staker
	require.Zero(t, result.RewardSkipped)

	require.Equal(t, uint64(1_000_000), f.bank.Balance(alice, stakeDenom))
	require.Equal(t, uint64(1_000), f.bank.Balance(alice, rewardDenom))
	require.Nil(t, f.keeper.GetPosition(f.ctx, pos.PositionID))
	require.Empty(t, f.keeper.GetOwnerPositions(f.ctx, alice.String()))

	pool = f.keeper.GetPool(f.ctx, pool.PoolID)
	require.Zero(t, pool.TotalStaked)
	require.Zero(t, pool.StakedBalance)
	f.requireConserved(t)
}

func TestUnstakeSkipsUnfundedReward(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)
	pos := f.stake(t, alice, pool.PoolID, 500)
	f.fund(t, pool.PoolID, 10)

	f.advance(lockMs)
	result, err := f.keeper.Unstake(f.ctx, alice.String(), pos.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(500), result.Principal)
	require.Zero(t, result.Reward)
	require.Equal(t, uint64(1_000), result.RewardSkipped)

	require.Equal(t, uint64(1_000_000), f.bank.Balance(alice, stakeDenom))
	require.Zero(t, f.bank.Balance(alice, rewardDenom))
	require.Equal(t, uint64(10), f.keeper.GetPool(f.ctx, pool.PoolID).RewardBalance)
}

func TestEmptyPoolForfeitsRewards(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)
	f.fund(t, pool.PoolID, 1_000_000)

	// a minute with nothing staked is never paid out
	f.advance(60_000)
	pos := f.stake(t, alice, pool.PoolID, 100)
	require.True(t, f.keeper.GetPool(f.ctx, pool.PoolID).AccRewardPerShare.IsZero())

	f.advance(1_000)
	pending, err := NewQueryServerImpl(f.keeper).PendingReward(f.ctx, pos.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(100), pending)
}

func TestLateJoinerOwesNothing(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)
	f.fund(t, pool.PoolID, 1_000_000)

	early := f.stake(t, alice, pool.PoolID, 100)
	f.advance(5_000)
	late := f.stake(t, bob, pool.PoolID, 100)
	f.advance(5_000)

	// alice: 5s alone (500) + 5s shared (250); bob: 5s shared (250)
	q := NewQueryServerImpl(f.keeper)
	earlyPending, err := q.PendingReward(f.ctx, early.PositionID)
	require.NoError(t, err)
	latePending, err := q.PendingReward(f.ctx, late.PositionID)
	require.NoError(t, err)
	require.Equal(t, uint64(750), earlyPending)
	require.Equal(t, uint64(250), latePending)
}

func TestStakeRejections(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)

	_, err := f.keeper.Stake(f.ctx, alice.String(), pool.PoolID, 0)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = f.keeper.Stake(f.ctx, alice.String(), "missing", 10)
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	_, err = f.keeper.FundRewards(f.ctx, funder.String(), pool.PoolID, 0)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = f.keeper.ClaimRewards(f.ctx, alice.String(), "missing")
	require.ErrorIs(t, err, types.ErrPositionNotFound)
}

func TestLockedPositionsInUnlockOrder(t *testing.T) {
	f := setupKeeper(t)
	pool := f.createPool(t, 100)
	q := NewQueryServerImpl(f.keeper)

	first := f.stake(t, alice, pool.PoolID, 1_000)
	f.advance(4_000)
	second := f.stake(t, bob, pool.PoolID, 2_000)

	locked, err := q.LockedPositions(f.ctx, pool.PoolID, 0)
	require.NoError(t, err)
	require.Len(t, locked, 2)
	require.Equal(t, first.PositionID, locked[0].PositionID)
	require.Equal(t, second.PositionID, locked[1].PositionID)

	principal, err := q.LockedPrincipal(f.ctx, pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(3_000), principal)

	// the first lock expires at 10s, the second at 14s
	f.advance(6_000)
	locked, err = q.LockedPositions(f.ctx, pool.PoolID, 0)
	require.NoError(t, err)
	require.Len(t, locked, 1)
	require.Equal(t, second.PositionID, locked[0].PositionID)

	principal, err = q.LockedPrincipal(f.ctx, pool.PoolID)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000), principal)

	_, err = q.LockedPositions(f.ctx, "missing", 0)
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}
