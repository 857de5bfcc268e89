// Package testutil holds the in-memory store and bank fixtures shared by the
// custody keeper tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

// GenesisTime is the block time of a fresh test context
var GenesisTime = time.UnixMilli(1_700_000_000_000).UTC()

// NewContext mounts keys on an in-memory multistore and returns a context
// positioned at GenesisTime.
func NewContext(t testing.TB, keys ...storetypes.StoreKey) sdk.Context {
	t.Helper()

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range keys {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	header := cmtproto.Header{Height: 1, Time: GenesisTime}
	return sdk.NewContext(stateStore, header, false, log.NewNopLogger())
}

// Advance moves the block clock forward by ms milliseconds
func Advance(ctx sdk.Context, ms int64) sdk.Context {
	return ctx.
		WithBlockHeight(ctx.BlockHeight() + 1).
		WithBlockTime(ctx.BlockTime().Add(time.Duration(ms) * time.Millisecond))
}

// Addr derives a deterministic account address from a short name
func Addr(name string) sdk.AccAddress {
	return sdk.AccAddress([]byte(fmt.Sprintf("%-20s", name)[:20]))
}
