package app

import (
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"

	lendingtypes "github.com/openalpha/custody/x/lending/types"
	vaulttypes "github.com/openalpha/custody/x/vault/types"
)

// appOptions is a map-backed servertypes.AppOptions
type appOptions map[string]any

func (o appOptions) Get(key string) any { return o[key] }

func TestReadCustodyConfig(t *testing.T) {
	require.Equal(t, DefaultCustodyConfig(), ReadCustodyConfig(nil))
	require.Equal(t, DefaultCustodyConfig(), ReadCustodyConfig(appOptions{}))

	cfg := ReadCustodyConfig(appOptions{
		flagMetricsEnabled:       "false",
		flagSlowEndBlockMs:       "250",
		flagInvariantCheckPeriod: 10,
	})
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, int64(250), cfg.SlowEndBlockMs)
	require.Equal(t, int64(10), cfg.InvariantCheckPeriod)
}

func TestModuleRoute(t *testing.T) {
	testCases := []struct {
		typeURL string
		route   string
		ok      bool
	}{
		{"/custody.vault.v1.MsgDeposit", "vault", true},
		{"/custody.stakepool.v1.MsgStake", "stakepool", true},
		{"/custody.lending.v1.MsgBorrow", "lending", true},
		{"/cosmos.bank.v1beta1.MsgSend", "", false},
		{"/custody..v1.MsgDeposit", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.typeURL, func(t *testing.T) {
			route, ok := moduleRoute(tc.typeURL)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.route, route)
		})
	}
}

func TestBlockedModuleAccounts(t *testing.T) {
	blocked := BlockedModuleAccountAddrs(maccPerms)
	for _, name := range []string{vaulttypes.ModuleName, lendingtypes.ModuleName} {
		require.True(t, blocked[authtypes.NewModuleAddress(name).String()], name)
	}
}

func setupApp(t *testing.T, funded map[string]uint64) (*App, sdk.Context) {
	t.Helper()

	app := NewApp(log.NewNopLogger(), dbm.NewMemDB(), nil, true, appOptions{
		flagMetricsEnabled:       false,
		flagInvariantCheckPeriod: 1,
	})
	ctx := app.NewUncachedContext(false, cmtproto.Header{
		Height: 1,
		Time:   time.UnixMilli(1_700_000_000_000).UTC(),
	})

	bankGen := banktypes.DefaultGenesisState()
	for addr, amount := range funded {
		bankGen.Balances = append(bankGen.Balances, banktypes.Balance{
			Address: addr,
			Coins:   sdk.NewCoins(sdk.NewCoin("uusdc", sdkmath.NewIntFromUint64(amount))),
		})
	}
	appState, err := json.Marshal(map[string]json.RawMessage{
		banktypes.ModuleName: app.AppCodec().MustMarshalJSON(bankGen),
	})
	require.NoError(t, err)

	_, err = app.InitChainer(ctx, &abci.RequestInitChain{ChainId: "custody-test", AppStateBytes: appState})
	require.NoError(t, err)
	return app, ctx
}

func TestRouteVaultMessages(t *testing.T) {
	alice := sdk.AccAddress([]byte("alice_______________"))
	app, ctx := setupApp(t, map[string]uint64{alice.String(): 1_000_000})

	res, err := app.RouteMsg(ctx, &vaulttypes.MsgCreateVault{Creator: alice.String(), Denom: "uusdc"})
	require.NoError(t, err)
	var created vaulttypes.MsgCreateVaultResponse
	require.NoError(t, json.Unmarshal(res.Data, &created))
	require.NotEmpty(t, created.VaultID)

	res, err = app.RouteMsg(ctx, &vaulttypes.MsgDeposit{Depositor: alice.String(), VaultID: created.VaultID, Amount: 400_000})
	require.NoError(t, err)
	var deposited vaulttypes.MsgDepositResponse
	require.NoError(t, json.Unmarshal(res.Data, &deposited))
	require.Equal(t, uint64(400_000), deposited.Shares)

	require.Equal(t, int64(600_000), app.BankKeeper.GetBalance(ctx, alice, "uusdc").Amount.Int64())
	require.Equal(t, uint64(400_000), app.VaultKeeper.GetPool(ctx, created.VaultID).Balance)

	_, err = app.EndBlocker(ctx)
	require.NoError(t, err)
	require.NoError(t, app.AssertInvariants(ctx))
}

func TestRouteRejectsForeignMessages(t *testing.T) {
	app, ctx := setupApp(t, nil)
	require.Equal(t, int64(1), app.Config().InvariantCheckPeriod)
	require.False(t, app.Config().MetricsEnabled)

	_, err := app.RouteMsg(ctx, &banktypes.MsgSend{})
	require.ErrorIs(t, err, sdkerrors.ErrUnknownRequest)
}

func TestRouteLendingBorrow(t *testing.T) {
	supplier := sdk.AccAddress([]byte("supplier____________"))
	bob := sdk.AccAddress([]byte("bob_________________"))
	app, ctx := setupApp(t, map[string]uint64{
		supplier.String(): 5_000_000,
		bob.String():      1_000_000,
	})

	res, err := app.RouteMsg(ctx, &lendingtypes.MsgCreatePool{Creator: supplier.String(), Denom: "uusdc"})
	require.NoError(t, err)
	var pool lendingtypes.MsgCreatePoolResponse
	require.NoError(t, json.Unmarshal(res.Data, &pool))

	_, err = app.RouteMsg(ctx, &lendingtypes.MsgSupplyLiquidity{Supplier: supplier.String(), PoolID: pool.PoolID, Amount: 5_000_000})
	require.NoError(t, err)

	_, err = app.RouteMsg(ctx, &lendingtypes.MsgBorrow{Borrower: bob.String(), PoolID: pool.PoolID, Collateral: 1_000_000, Amount: 750_000})
	require.NoError(t, err)

	// collateral 1,000,000 out, loan 750,000 in
	require.Equal(t, int64(750_000), app.BankKeeper.GetBalance(ctx, bob, "uusdc").Amount.Int64())

	_, err = app.RouteMsg(ctx, &lendingtypes.MsgBorrow{Borrower: bob.String(), PoolID: pool.PoolID, Collateral: 100_000, Amount: 75_001})
	require.ErrorIs(t, err, lendingtypes.ErrExceedsMaxBorrow)

	_, err = app.EndBlocker(ctx)
	require.NoError(t, err)
	require.NoError(t, app.AssertInvariants(ctx))
}
