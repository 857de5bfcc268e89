package cli

import (
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/custody/pkg/fixedpoint"
	"github.com/openalpha/custody/pkg/storequery"
	"github.com/openalpha/custody/x/vault/types"
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
		{queries["vault"], []string{"v1"}, true},
		{queries["vault"], nil, false},
		{queries["vaults"], nil, true},
		{queries["ticket"], []string{"t1"}, true},
		{queries["tickets"], []string{"owner", "extra"}, false},
		{txs["create-vault"], []string{"uusdc"}, true},
		{txs["deposit"], []string{"v1", "100"}, true},
		{txs["deposit"], []string{"v1"}, false},
		{txs["withdraw"], []string{"t1"}, true},
		{txs["withdraw-partial"], []string{"t1", "5"}, true},
		{txs["merge"], []string{"t1", "t2"}, true},
		{txs["split"], []string{"t1"}, false},
		{txs["transfer-ticket"], []string{"t1", "addr"}, true},
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
}

func TestVaultInfos(t *testing.T) {
	pool := types.Pool{PoolID: "v1", Denom: "uusdc", Balance: 2_000, TotalShares: 1_000}
	bz, err := json.Marshal(pool)
	require.NoError(t, err)

	infos := vaultInfos([]storequery.Pair{
		{Key: types.PoolKey("v1"), Value: bz},
		{Key: types.PoolKey("junk"), Value: []byte("not json")},
	})
	require.Len(t, infos, 1)
	require.Equal(t, "v1", infos[0].PoolID)
	require.Equal(t, 2*fixedpoint.Scale9, infos[0].ExchangeRate)
}

func TestValueTicket(t *testing.T) {
	pool := &types.Pool{PoolID: "v1", Balance: 10, TotalShares: 3}

	info := valueTicket(pool, &types.ShareTicket{TicketID: "t1", VaultID: "v1", Shares: 1})
	require.Equal(t, uint64(3), info.Value)

	// dust below one unit of balance is worth nothing
	drained := &types.Pool{PoolID: "v1", Balance: 1, TotalShares: 1_000}
	info = valueTicket(drained, &types.ShareTicket{TicketID: "t2", VaultID: "v1", Shares: 1})
	require.Zero(t, info.Value)
}
