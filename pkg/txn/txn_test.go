package txn

import (
	"errors"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func setupContext(t *testing.T) (sdk.Context, storetypes.StoreKey) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey("txn")
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	return sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()), storeKey
}

func TestAtomicallyCommitsOnSuccess(t *testing.T) {
	ctx, key := setupContext(t)

	err := Atomically(ctx, "test", "write", func(ctx sdk.Context) error {
		ctx.KVStore(key).Set([]byte("a"), []byte("1"))
		ctx.EventManager().EmitEvent(sdk.NewEvent("written"))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte("1"), ctx.KVStore(key).Get([]byte("a")))
	require.Len(t, ctx.EventManager().Events(), 1)
}

func TestAtomicallyDiscardsOnFailure(t *testing.T) {
	ctx, key := setupContext(t)
	boom := errors.New("boom")

	err := Atomically(ctx, "test", "write", func(ctx sdk.Context) error {
		ctx.KVStore(key).Set([]byte("a"), []byte("1"))
		ctx.EventManager().EmitEvent(sdk.NewEvent("written"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Nil(t, ctx.KVStore(key).Get([]byte("a")))
	require.Empty(t, ctx.EventManager().Events())
}

func TestResultCarriesEvents(t *testing.T) {
	ctx, _ := setupContext(t)
	ctx.EventManager().EmitEvent(sdk.NewEvent("done", sdk.NewAttribute("k", "v")))

	res, err := Result(ctx, map[string]uint64{"amount": 7}, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":7}`, string(res.Data))
	require.Len(t, res.Events, 1)
	require.Equal(t, "done", res.Events[0].Type)

	_, err = Result(ctx, nil, errors.New("rejected"))
	require.Error(t, err)
}

func TestOnCommitRunsAfterWrite(t *testing.T) {
	ctx, key := setupContext(t)

	var seen []byte
	err := Atomically(ctx, "test", "write", func(cacheCtx sdk.Context) error {
		cacheCtx.KVStore(key).Set([]byte("a"), []byte("1"))
		OnCommit(cacheCtx, func() {
			seen = ctx.KVStore(key).Get([]byte("a"))
		})
		require.Nil(t, seen)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte("1"), seen)
}

func TestOnCommitSkipped(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(sdk.Context) sdk.Context
		fail  bool
	}{
		{"failed operation", func(ctx sdk.Context) sdk.Context { return ctx }, true},
		{"check tx", func(ctx sdk.Context) sdk.Context { return ctx.WithIsCheckTx(true) }, false},
		{"recheck tx", func(ctx sdk.Context) sdk.Context { return ctx.WithIsReCheckTx(true) }, false},
		{"simulation", func(ctx sdk.Context) sdk.Context { return ctx.WithExecMode(sdk.ExecModeSimulate) }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := setupContext(t)
			ctx = tc.setup(ctx)

			ran := false
			err := Atomically(ctx, "test", "write", func(cacheCtx sdk.Context) error {
				OnCommit(cacheCtx, func() { ran = true })
				if tc.fail {
					return errors.New("boom")
				}
				return nil
			})
			require.Equal(t, tc.fail, err != nil)
			require.False(t, ran)
		})
	}
}

func TestOnCommitNested(t *testing.T) {
	ctx, _ := setupContext(t)

	ran := false
	err := Atomically(ctx, "test", "outer", func(outer sdk.Context) error {
		require.NoError(t, Atomically(outer, "test", "inner", func(inner sdk.Context) error {
			OnCommit(inner, func() { ran = true })
			return nil
		}))
		require.False(t, ran, "inner hooks wait for the outer branch")
		return errors.New("outer failed")
	})
	require.Error(t, err)
	require.False(t, ran)
}

func TestOnCommitOutsideBranch(t *testing.T) {
	ctx, _ := setupContext(t)

	ran := false
	OnCommit(ctx, func() { ran = true })
	require.True(t, ran)

	ran = false
	OnCommit(ctx.WithIsCheckTx(true), func() { ran = true })
	require.False(t, ran)
}
