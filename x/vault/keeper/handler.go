package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/baseapp"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/vault/types"
)

// NewHandler returns a handler dispatching vault messages to the MsgServer
func NewHandler(k *Keeper) baseapp.MsgServiceHandler {
	ms := NewMsgServerImpl(k)

	return func(ctx sdk.Context, msg sdk.Msg) (*sdk.Result, error) {
		ctx = ctx.WithEventManager(sdk.NewEventManager())

		switch msg := msg.(type) {
		case *types.MsgCreateVault:
			res, err := ms.CreateVault(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgDeposit:
			res, err := ms.Deposit(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgWithdraw:
			res, err := ms.Withdraw(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgWithdrawPartial:
			res, err := ms.WithdrawPartial(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgMerge:
			res, err := ms.Merge(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgSplit:
			res, err := ms.Split(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgTransferTicket:
			res, err := ms.TransferTicket(ctx, msg)
			return txn.Result(ctx, res, err)
		default:
			return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
