package cli

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/pkg/storequery"
	"github.com/openalpha/custody/x/stakepool/types"
)

func subcommands(root *cobra.Command) map[string]*cobra.Command {
	byName := make(map[string]*cobra.Command)
	for _, cmd := range root.Commands() {
		byName[cmd.Name()] = cmd
	}
	return byName
}

func TestCommandArgs(t *testing.T) {
	queries := subcommands(GetQueryCmd())
	txs := subcommands(GetTxCmd())

	testCases := []struct {
		cmd   *cobra.Command
		args  []string
		valid bool
	}{
		{queries["pool"], []string{"p1"}, true},
		{queries["pools"], nil, true},
		{queries["position"], nil, false},
		{queries["positions"], []string{"owner"}, true},
		{queries["unlocks"], []string{"p1"}, true},
		{queries["unlocks"], []string{"p1", "p2"}, false},
		{txs["create-pool"], []string{"ustake", "ureward", "10"}, true},
		{txs["create-pool"], []string{"ustake", "ureward"}, false},
		{txs["fund-rewards"], []string{"p1", "100"}, true},
		{txs["stake"], []string{"p1", "100"}, true},
		{txs["claim"], []string{"pos1"}, true},
		{txs["unstake"], []string{"pos1"}, true},
	}

	for _, tc := range testCases {
		require.NotNil(t, tc.cmd)
		t.Run(tc.cmd.Name(), func(t *testing.T) {
			err := tc.cmd.ValidateArgs(tc.args)
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}

	require.NotNil(t, queries["unlocks"].Flags().Lookup(flagLimit))
}

func newPosition(id string, amount, unlockTime uint64) *types.Position {
	return &types.Position{
		PositionID: id,
		PoolID:     "p1",
		Amount:     amount,
		RewardDebt: math.ZeroUint(),
		UnlockTime: unlockTime,
	}
}

func TestProjectPositionUsesBlockTime(t *testing.T) {
	pool := types.NewPool("p1", "creator", "ustake", "ureward", 10, 5_000, 0)
	pool.TotalStaked = 1_000
	pos := newPosition("pos1", 1_000, 5_000)

	testCases := []struct {
		name     string
		now      uint64
		pending  uint64
		unlocked bool
	}{
		{"before unlock", 3_000, 30, false},
		{"one ms before unlock", 4_999, 40, false},
		{"at unlock", 5_000, 50, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info := projectPosition(pool, pos, tc.now)
			require.Equal(t, tc.pending, info.PendingReward)
			require.Equal(t, tc.unlocked, info.Unlocked)
		})
	}

	info := projectPosition(nil, pos, 3_000)
	require.Zero(t, info.PendingReward)
	require.False(t, info.Unlocked)
}

func TestLockedInfos(t *testing.T) {
	pool := types.NewPool("p1", "creator", "ustake", "ureward", 0, 0, 0)
	positions := []*types.Position{
		newPosition("b", 10, 9_000),
		newPosition("a", 10, 4_000),
		newPosition("c", 10, 2_000),
	}

	infos := lockedInfos(pool, positions, 3_000, 0)
	require.Len(t, infos, 2)
	require.Equal(t, "a", infos[0].PositionID)
	require.Equal(t, "b", infos[1].PositionID)

	infos = lockedInfos(pool, positions, 3_000, 1)
	require.Len(t, infos, 1)
	require.Equal(t, "a", infos[0].PositionID)

	require.Empty(t, lockedInfos(pool, positions, 9_000, 0))
}

func TestPoolRecords(t *testing.T) {
	bz, err := json.Marshal(types.NewPool("p1", "creator", "ustake", "ureward", 1, 0, 0))
	require.NoError(t, err)

	pools := poolRecords([]storequery.Pair{
		{Key: types.PoolKey("p1"), Value: bz},
		{Key: types.PoolKey("bad"), Value: []byte("{")},
	})
	require.Len(t, pools, 1)
	require.Equal(t, "p1", pools[0].PoolID)
}
