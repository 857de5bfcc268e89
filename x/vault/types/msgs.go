package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateVault{},
		&MsgDeposit{},
		&MsgWithdraw{},
		&MsgWithdrawPartial{},
		&MsgMerge{},
		&MsgSplit{},
		&MsgTransferTicket{},
	)
}

// Message types
const (
	TypeMsgCreateVault     = "create_vault"
	TypeMsgDeposit         = "deposit"
	TypeMsgWithdraw        = "withdraw"
	TypeMsgWithdrawPartial = "withdraw_partial"
	TypeMsgMerge           = "merge"
	TypeMsgSplit           = "split"
	TypeMsgTransferTicket  = "transfer_ticket"
)

// MsgServer defines the vault module's message service
type MsgServer interface {
	CreateVault(context.Context, *MsgCreateVault) (*MsgCreateVaultResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	WithdrawPartial(context.Context, *MsgWithdrawPartial) (*MsgWithdrawResponse, error)
	Merge(context.Context, *MsgMerge) (*MsgMergeResponse, error)
	Split(context.Context, *MsgSplit) (*MsgSplitResponse, error)
	TransferTicket(context.Context, *MsgTransferTicket) (*MsgTransferTicketResponse, error)
}

func validateAddress(addr, field string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", field, err)
	}
	return nil
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// MsgCreateVault opens a new empty vault for a denom
type MsgCreateVault struct {
	Creator    string `json:"creator"`
	Denom      string `json:"denom"`
	MinDeposit uint64 `json:"min_deposit"`
}

func (msg *MsgCreateVault) Reset()        { *msg = MsgCreateVault{} }
func (msg *MsgCreateVault) ProtoMessage() {}
func (msg *MsgCreateVault) XXX_MessageName() string {
	return "custody.vault.v1.MsgCreateVault"
}
func (msg *MsgCreateVault) String() string {
	return fmt.Sprintf("MsgCreateVault{Creator: %s, Denom: %s, MinDeposit: %d}", msg.Creator, msg.Denom, msg.MinDeposit)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgCreateVault) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return errorsmod.Wrap(ErrInvalidDenom, err.Error())
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgCreateVault) GetSigners() []sdk.AccAddress { return signer(msg.Creator) }

// MsgCreateVaultResponse returns the new vault identifier
type MsgCreateVaultResponse struct {
	VaultID string `json:"vault_id"`
}

// MsgDeposit deposits coins and mints a fresh share ticket
type MsgDeposit struct {
	Depositor string `json:"depositor"`
	VaultID   string `json:"vault_id"`
	Amount    uint64 `json:"amount"`
}

func (msg *MsgDeposit) Reset()        { *msg = MsgDeposit{} }
func (msg *MsgDeposit) ProtoMessage() {}
func (msg *MsgDeposit) XXX_MessageName() string {
	return "custody.vault.v1.MsgDeposit"
}
func (msg *MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Depositor: %s, VaultID: %s, Amount: %d}", msg.Depositor, msg.VaultID, msg.Amount)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgDeposit) ValidateBasic() error {
	if err := validateAddress(msg.Depositor, "depositor"); err != nil {
		return err
	}
	if msg.VaultID == "" {
		return ErrVaultNotFound
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgDeposit) GetSigners() []sdk.AccAddress { return signer(msg.Depositor) }

// MsgDepositResponse returns the minted ticket
type MsgDepositResponse struct {
	TicketID string `json:"ticket_id"`
	Shares   uint64 `json:"shares"`
}

// MsgWithdraw redeems every share on a ticket and destroys it
type MsgWithdraw struct {
	Owner    string `json:"owner"`
	TicketID string `json:"ticket_id"`
}

func (msg *MsgWithdraw) Reset()        { *msg = MsgWithdraw{} }
func (msg *MsgWithdraw) ProtoMessage() {}
func (msg *MsgWithdraw) XXX_MessageName() string {
	return "custody.vault.v1.MsgWithdraw"
}
func (msg *MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Owner: %s, TicketID: %s}", msg.Owner, msg.TicketID)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgWithdraw) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if msg.TicketID == "" {
		return ErrTicketNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgWithdraw) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgWithdrawPartial redeems part of a ticket, leaving the rest with the owner
type MsgWithdrawPartial struct {
	Owner    string `json:"owner"`
	TicketID string `json:"ticket_id"`
	Shares   uint64 `json:"shares"`
}

func (msg *MsgWithdrawPartial) Reset()        { *msg = MsgWithdrawPartial{} }
func (msg *MsgWithdrawPartial) ProtoMessage() {}
func (msg *MsgWithdrawPartial) XXX_MessageName() string {
	return "custody.vault.v1.MsgWithdrawPartial"
}
func (msg *MsgWithdrawPartial) String() string {
	return fmt.Sprintf("MsgWithdrawPartial{Owner: %s, TicketID: %s, Shares: %d}", msg.Owner, msg.TicketID, msg.Shares)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgWithdrawPartial) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if msg.TicketID == "" {
		return ErrTicketNotFound
	}
	if msg.Shares == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgWithdrawPartial) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgWithdrawResponse reports a redemption
type MsgWithdrawResponse struct {
	Amount          uint64 `json:"amount"`
	SharesBurned    uint64 `json:"shares_burned"`
	RemainingShares uint64 `json:"remaining_shares"`
}

// MsgMerge folds the donor ticket into the target ticket
type MsgMerge struct {
	Owner          string `json:"owner"`
	TargetTicketID string `json:"target_ticket_id"`
	DonorTicketID  string `json:"donor_ticket_id"`
}

func (msg *MsgMerge) Reset()        { *msg = MsgMerge{} }
func (msg *MsgMerge) ProtoMessage() {}
func (msg *MsgMerge) XXX_MessageName() string {
	return "custody.vault.v1.MsgMerge"
}
func (msg *MsgMerge) String() string {
	return fmt.Sprintf("MsgMerge{Owner: %s, Target: %s, Donor: %s}", msg.Owner, msg.TargetTicketID, msg.DonorTicketID)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgMerge) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if msg.TargetTicketID == "" || msg.DonorTicketID == "" {
		return ErrTicketNotFound
	}
	if msg.TargetTicketID == msg.DonorTicketID {
		return ErrSameTicket
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgMerge) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgMergeResponse returns the combined share count
type MsgMergeResponse struct {
	TicketID string `json:"ticket_id"`
	Shares   uint64 `json:"shares"`
}

// MsgSplit carves shares off a ticket into a new ticket
type MsgSplit struct {
	Owner    string `json:"owner"`
	TicketID string `json:"ticket_id"`
	Shares   uint64 `json:"shares"`
}

func (msg *MsgSplit) Reset()        { *msg = MsgSplit{} }
func (msg *MsgSplit) ProtoMessage() {}
func (msg *MsgSplit) XXX_MessageName() string {
	return "custody.vault.v1.MsgSplit"
}
func (msg *MsgSplit) String() string {
	return fmt.Sprintf("MsgSplit{Owner: %s, TicketID: %s, Shares: %d}", msg.Owner, msg.TicketID, msg.Shares)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgSplit) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if msg.TicketID == "" {
		return ErrTicketNotFound
	}
	if msg.Shares == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgSplit) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgSplitResponse returns the new ticket
type MsgSplitResponse struct {
	NewTicketID     string `json:"new_ticket_id"`
	RemainingShares uint64 `json:"remaining_shares"`
}

// MsgTransferTicket re-binds a ticket to a new owner
type MsgTransferTicket struct {
	Owner     string `json:"owner"`
	TicketID  string `json:"ticket_id"`
	Recipient string `json:"recipient"`
}

func (msg *MsgTransferTicket) Reset()        { *msg = MsgTransferTicket{} }
func (msg *MsgTransferTicket) ProtoMessage() {}
func (msg *MsgTransferTicket) XXX_MessageName() string {
	return "custody.vault.v1.MsgTransferTicket"
}
func (msg *MsgTransferTicket) String() string {
	return fmt.Sprintf("MsgTransferTicket{Owner: %s, TicketID: %s, Recipient: %s}", msg.Owner, msg.TicketID, msg.Recipient)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgTransferTicket) ValidateBasic() error {
	if err := validateAddress(msg.Owner, "owner"); err != nil {
		return err
	}
	if err := validateAddress(msg.Recipient, "recipient"); err != nil {
		return err
	}
	if msg.TicketID == "" {
		return ErrTicketNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgTransferTicket) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgTransferTicketResponse is empty
type MsgTransferTicketResponse struct{}
