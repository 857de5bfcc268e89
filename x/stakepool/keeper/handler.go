package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/baseapp"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/stakepool/types"
)

// NewHandler returns a handler dispatching stakepool messages to the MsgServer
func NewHandler(k *Keeper) baseapp.MsgServiceHandler {
	ms := NewMsgServerImpl(k)

	return func(ctx sdk.Context, msg sdk.Msg) (*sdk.Result, error) {
		ctx = ctx.WithEventManager(sdk.NewEventManager())

		switch msg := msg.(type) {
		case *types.MsgCreatePool:
			res, err := ms.CreatePool(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgFundRewards:
			res, err := ms.FundRewards(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgStake:
			res, err := ms.Stake(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgClaimRewards:
			res, err := ms.ClaimRewards(ctx, msg)
			return txn.Result(ctx, res, err)
		case *types.MsgUnstake:
			res, err := ms.Unstake(ctx, msg)
			return txn.Result(ctx, res, err)
		default:
			return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
		}
	}
}
