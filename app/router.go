package app

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// moduleRoute extracts the module name from a custody message type URL,
// e.g. "/custody.vault.v1.MsgDeposit" routes to "vault".
func moduleRoute(typeURL string) (string, bool) {
	name := strings.TrimPrefix(typeURL, "/")
	parts := strings.Split(name, ".")
	if len(parts) != 4 || parts[0] != Name || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RouteMsg dispatches a custody message to the handler of the module that
// owns it
func (app *App) RouteMsg(ctx sdk.Context, msg sdk.Msg) (*sdk.Result, error) {
	typeURL := sdk.MsgTypeURL(msg)
	route, ok := moduleRoute(typeURL)
	if !ok {
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized message type %s", typeURL)
	}
	handler, ok := app.msgHandlers[route]
	if !ok {
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "no handler for module %s", route)
	}
	return handler(ctx, msg)
}

type registeredInvariant struct {
	module string
	route  string
	check  sdk.Invariant
}

// invariantRegistry collects the custody invariants so the app can assert
// them without the crisis module
type invariantRegistry struct {
	invariants []registeredInvariant
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

// RegisterRoute implements sdk.InvariantRegistry
func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.invariants = append(r.invariants, registeredInvariant{module: moduleName, route: route, check: invar})
}

// AssertInvariants runs every registered invariant and returns the first
// broken one
func (app *App) AssertInvariants(ctx sdk.Context) error {
	for _, inv := range app.invariants.invariants {
		if msg, broken := inv.check(ctx); broken {
			return errorsmod.Wrapf(sdkerrors.ErrLogic, "invariant %s/%s broken: %s", inv.module, inv.route, msg)
		}
	}
	return nil
}
