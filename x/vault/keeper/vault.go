package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/x/vault/types"
)

// CreateVault opens an empty vault holding denom
func (k *Keeper) CreateVault(ctx context.Context, creator, denom string, minDeposit uint64) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := sdk.ValidateDenom(denom); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidDenom, err.Error())
	}

	pool := types.NewPool(k.nextID(sdkCtx, types.IDKindVault), denom, creator, minDeposit, sdkCtx.BlockTime().Unix())
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreateVault,
			sdk.NewAttribute(types.AttributeKeyVaultID, pool.PoolID),
			sdk.NewAttribute(types.AttributeKeyOwner, creator),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyMinDeposit, strconv.FormatUint(minDeposit, 10)),
		),
	)

	k.logger.Info("Vault created",
		"vault_id", pool.PoolID,
		"denom", denom,
		"min_deposit", minDeposit,
	)

	return pool, nil
}
