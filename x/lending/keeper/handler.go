package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/baseapp"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/lending/types"
)

// NewHandler returns a handler dispatching lending messages to the MsgServer
func NewHandler(k *Keeper) baseapp.MsgServiceHandler {
	ms := NewMsgServerImpl(k)

	return func(ctx sdk.Context, msg sdk.Msg) (*sdk.Result, error) {
		ctx = ctx.WithEventManager(sdk.NewEventManager())

		switch msg := msg.(type) {
		case *types.MsgCreatePool:
			res, err := ms.CreatePool(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgSupplyLiquidity:
			res, err := ms.SupplyLiquidity(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgBorrow:
			res, err := ms.Borrow(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgRepay:
			res, err := ms.Repay(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgLiquidate:
			res, err := ms.Liquidate(ctx, msg)
			return txn.Result(ctx, res, err)
		default:
			return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
