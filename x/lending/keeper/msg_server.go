package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/lending/types"
)

var _ types.MsgServer = (*MsgServer)(nil)

// MsgServer defines the lending MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgCreatePoolResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgCreatePool, func(ctx sdk.Context) error {
		pool, err := m.keeper.CreatePool(ctx, msg.Creator, msg.Denom)
		if err != nil {
			return err
		}
		resp.PoolID = pool.PoolID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SupplyLiquidity handles MsgSupplyLiquidity
func (m *MsgServer) SupplyLiquidity(ctx context.Context, msg *types.MsgSupplyLiquidity) (*types.MsgSupplyLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgSupplyLiquidityResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgSupplyLiquidity, func(ctx sdk.Context) error {
		available, err := m.keeper.SupplyLiquidity(ctx, msg.Supplier, msg.PoolID, msg.Amount)
		if err != nil {
			return err
		}
		resp.AvailableLiquidity = available
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Borrow handles MsgBorrow
func (m *MsgServer) Borrow(ctx context.Context, msg *types.MsgBorrow) (*types.MsgBorrowResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgBorrowResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgBorrow, func(ctx sdk.Context) error {
		pos, err := m.keeper.Borrow(ctx, msg.Borrower, msg.PoolID, msg.Collateral, msg.Amount)
		if err != nil {
			return err
		}
		resp.PositionID = pos.PositionID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Repay handles MsgRepay
func (m *MsgServer) Repay(ctx context.Context, msg *types.MsgRepay) (*types.MsgRepayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgRepayResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgRepay, func(ctx sdk.Context) error {
		result, err := m.keeper.Repay(ctx, msg.Borrower, msg.PositionID, msg.Payment)
		if err != nil {
			return err
		}
		resp.Debt = result.Debt
		resp.Refund = result.Refund
		resp.Collateral = result.Collateral
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Liquidate handles MsgLiquidate
func (m *MsgServer) Liquidate(ctx context.Context, msg *types.MsgLiquidate) (*types.MsgLiquidateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgLiquidateResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgLiquidate, func(ctx sdk.Context) error {
		result, err := m.keeper.Liquidate(ctx, msg.Liquidator, msg.PositionID, msg.Payment)
		if err != nil {
			return err
		}
		resp.Debt = result.Debt
		resp.Seized = result.Seized
		resp.Remainder = result.Remainder
		resp.Refund = result.Refund
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
