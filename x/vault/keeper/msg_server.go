package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/custody/pkg/txn"
	"github.com/openalpha/custody/x/vault/types"
)

var _ types.MsgServer = (*MsgServer)(nil)

// MsgServer defines the vault MsgServer. Every handler runs inside an atomic
// branch so a rejected message leaves no partial state behind.
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateVault handles MsgCreateVault
func (m *MsgServer) CreateVault(ctx context.Context, msg *types.MsgCreateVault) (*types.MsgCreateVaultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgCreateVaultResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgCreateVault, func(ctx sdk.Context) error {
		pool, err := m.keeper.CreateVault(ctx, msg.Creator, msg.Denom, msg.MinDeposit)
		if err != nil {
			return err
		}
		resp.VaultID = pool.PoolID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgDepositResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgDeposit, func(ctx sdk.Context) error {
		ticket, err := m.keeper.Deposit(ctx, msg.Depositor, msg.VaultID, msg.Amount)
		if err != nil {
			return err
		}
		resp.TicketID = ticket.TicketID
		resp.Shares = ticket.Shares
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgWithdrawResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgWithdraw, func(ctx sdk.Context) error {
		if ticket := m.keeper.GetTicket(ctx, msg.TicketID); ticket != nil {
			resp.SharesBurned = ticket.Shares
		}
		amount, err := m.keeper.Withdraw(ctx, msg.Owner, msg.TicketID)
		if err != nil {
			return err
		}
		resp.Amount = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// WithdrawPartial handles MsgWithdrawPartial
func (m *MsgServer) WithdrawPartial(ctx context.Context, msg *types.MsgWithdrawPartial) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgWithdrawResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgWithdrawPartial, func(ctx sdk.Context) error {
		amount, remaining, err := m.keeper.WithdrawPartial(ctx, msg.Owner, msg.TicketID, msg.Shares)
		if err != nil {
			return err
		}
		resp.Amount = amount
		resp.SharesBurned = msg.Shares
		resp.RemainingShares = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Merge handles MsgMerge
func (m *MsgServer) Merge(ctx context.Context, msg *types.MsgMerge) (*types.MsgMergeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgMergeResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgMerge, func(ctx sdk.Context) error {
		ticket, err := m.keeper.Merge(ctx, msg.Owner, msg.TargetTicketID, msg.DonorTicketID)
		if err != nil {
			return err
		}
		resp.TicketID = ticket.TicketID
		resp.Shares = ticket.Shares
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Split handles MsgSplit
func (m *MsgServer) Split(ctx context.Context, msg *types.MsgSplit) (*types.MsgSplitResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var resp types.MsgSplitResponse
	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgSplit, func(ctx sdk.Context) error {
		carved, err := m.keeper.Split(ctx, msg.Owner, msg.TicketID, msg.Shares)
		if err != nil {
			return err
		}
		resp.NewTicketID = carved.TicketID
		if source := m.keeper.GetTicket(ctx, msg.TicketID); source != nil {
			resp.RemainingShares = source.Shares
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransferTicket handles MsgTransferTicket
func (m *MsgServer) TransferTicket(ctx context.Context, msg *types.MsgTransferTicket) (*types.MsgTransferTicketResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	err := txn.Atomically(ctx, types.ModuleName, types.TypeMsgTransferTicket, func(ctx sdk.Context) error {
		return m.keeper.TransferTicket(ctx, msg.Owner, msg.TicketID, msg.Recipient)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgTransferTicketResponse{}, nil
}
