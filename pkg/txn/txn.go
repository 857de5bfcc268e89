// Package txn gives each custody operation an all-or-nothing commit boundary.
package txn

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/custody/metrics"
)

type commitHooksKey struct{}

type commitHooks struct {
	fns []func()
}

// Atomically runs fn against a branched store. Writes and events reach the
// parent context only when fn returns nil, and only then do the hooks
// registered with OnCommit run. Hooks never run on CheckTx or simulation
// contexts. Rejected operations are counted by module,
// operation and error code.
func Atomically(ctx context.Context, module, op string, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cms := sdkCtx.MultiStore().CacheMultiStore()
	events := sdk.NewEventManager()
	hooks := &commitHooks{}
	cacheCtx := sdkCtx.WithMultiStore(cms).
		WithEventManager(events).
		WithValue(commitHooksKey{}, hooks)

	if err := fn(cacheCtx); err != nil {
		if Committing(sdkCtx) {
			codespace, code, _ := errorsmod.ABCIInfo(err, false)
			metrics.GetCollector().RecordRejection(module, op, codespace, code)
		}
		return err
	}

	cms.Write()
	sdkCtx.EventManager().EmitEvents(events.Events())

	// a nested branch hands its hooks to the enclosing one
	if parent, ok := sdkCtx.Value(commitHooksKey{}).(*commitHooks); ok {
		parent.fns = append(parent.fns, hooks.fns...)
		return nil
	}
	if Committing(sdkCtx) {
		for _, hook := range hooks.fns {
			hook()
		}
	}
	return nil
}

// Committing reports whether writes on ctx can reach a block. CheckTx,
// ReCheckTx and simulation passes are discarded by the node.
func Committing(ctx context.Context) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return !sdkCtx.IsCheckTx() && !sdkCtx.IsReCheckTx() && sdkCtx.ExecMode() != sdk.ExecModeSimulate
}

// OnCommit defers fn until the enclosing Atomically call has written its
// branch back. Outside Atomically, fn runs at once on a committing context.
// Keepers use it for side effects that cannot be rolled back, such as
// Prometheus counters.
func OnCommit(ctx context.Context, fn func()) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if hooks, ok := sdkCtx.Value(commitHooksKey{}).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	if Committing(sdkCtx) {
		fn()
	}
}

// Result packs a handler response and the events emitted on ctx into an
// sdk.Result. The response is JSON encoded into Data.
func Result(ctx sdk.Context, res any, err error) (*sdk.Result, error) {
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONMarshal, err.Error())
	}
	return &sdk.Result{
		Data:   data,
		Events: ctx.EventManager().ABCIEvents(),
	}, nil
}
