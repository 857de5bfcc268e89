package keeper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/testutil"
	"github.com/openalpha/custody/x/stakepool/types"
)

func TestMsgServerLifecycle(t *testing.T) {
	f := setupKeeper(t)
	ms := NewMsgServerImpl(f.keeper)

	created, err := ms.CreatePool(f.ctx, &types.MsgCreatePool{
		Creator:         funder.String(),
		StakeDenom:      stakeDenom,
		RewardDenom:     rewardDenom,
		RewardPerSecond: 50,
		LockPeriodMs:    lockMs,
	})
	require.NoError(t, err)

	funded, err := ms.FundRewards(f.ctx, &types.MsgFundRewards{Funder: funder.String(), PoolID: created.PoolID, Amount: 10_000})
	require.NoError(t, err)
	require.Equal(t, uint64(10_000), funded.RewardBalance)

	staked, err := ms.Stake(f.ctx, &types.MsgStake{Staker: alice.String(), PoolID: created.PoolID, Amount: 1_000})
	require.NoError(t, err)
	require.Equal(t, uint64(testutil.GenesisTime.UnixMilli())+lockMs, staked.UnlockTime)

	_, err = ms.Unstake(f.ctx, &types.MsgUnstake{Owner: alice.String(), PositionID: staked.PositionID})
	require.ErrorIs(t, err, types.ErrStillLocked)

	f.advance(4_000)
	claimed, err := ms.ClaimRewards(f.ctx, &types.MsgClaimRewards{Owner: alice.String(), PositionID: staked.PositionID})
	require.NoError(t, err)
	require.Equal(t, uint64(200), claimed.Reward)

	f.advance(6_000)
	unstaked, err := ms.Unstake(f.ctx, &types.MsgUnstake{Owner: alice.String(), PositionID: staked.PositionID})
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), unstaked.Principal)
	require.Equal(t, uint64(300), unstaked.Reward)
	f.requireConserved(t)
}

func TestMsgCreatePoolValidateBasic(t *testing.T) {
	testCases := []struct {
		name string
		msg  types.MsgCreatePool
		err  error
	}{
		{"valid", types.MsgCreatePool{Creator: alice.String(), StakeDenom: stakeDenom, RewardDenom: rewardDenom}, nil},
		{"same denoms", types.MsgCreatePool{Creator: alice.String(), StakeDenom: stakeDenom, RewardDenom: stakeDenom}, types.ErrInvalidDenom},
		{"bad stake denom", types.MsgCreatePool{Creator: alice.String(), StakeDenom: "$", RewardDenom: rewardDenom}, types.ErrInvalidDenom},
		{"bad creator", types.MsgCreatePool{Creator: "nope", StakeDenom: stakeDenom, RewardDenom: rewardDenom}, types.ErrInvalidAddress},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestHandlerUnstakeResponse(t *testing.T) {
	f := setupKeeper(t)
	handler := NewHandler(f.keeper)
	pool := f.createPool(t, 100)
	pos := f.stake(t, alice, pool.PoolID, 10)

	f.advance(lockMs)
	res, err := handler(f.ctx, &types.MsgUnstake{Owner: alice.String(), PositionID: pos.PositionID})
	require.NoError(t, err)

	var resp types.MsgUnstakeResponse
	require.NoError(t, json.Unmarshal(res.Data, &resp))
	require.Equal(t, uint64(10), resp.Principal)
	require.Equal(t, uint64(1_000), resp.RewardSkipped)
	require.Len(t, res.Events, 1)
	require.Equal(t, types.EventTypeUnstake, res.Events[0].Type)

	_, err = handler(f.ctx, &types.MsgStake{Staker: alice.String(), PoolID: pool.PoolID})
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}
