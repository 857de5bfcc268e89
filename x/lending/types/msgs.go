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
		&MsgCreatePool{},
		&MsgSupplyLiquidity{},
		&MsgBorrow{},
		&MsgRepay{},
		&MsgLiquidate{},
	)
}

// Message types
const (
	TypeMsgCreatePool      = "create_pool"
	TypeMsgSupplyLiquidity = "supply_liquidity"
	TypeMsgBorrow          = "borrow"
	TypeMsgRepay           = "repay"
	TypeMsgLiquidate       = "liquidate"
)

// MsgServer defines the lending module's message service
type MsgServer interface {
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	SupplyLiquidity(context.Context, *MsgSupplyLiquidity) (*MsgSupplyLiquidityResponse, error)
	Borrow(context.Context, *MsgBorrow) (*MsgBorrowResponse, error)
	Repay(context.Context, *MsgRepay) (*MsgRepayResponse, error)
	Liquidate(context.Context, *MsgLiquidate) (*MsgLiquidateResponse, error)
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

// MsgCreatePool opens a lending pool for denom
type MsgCreatePool struct {
	Creator string `json:"creator"`
	Denom   string `json:"denom"`
}

func (msg *MsgCreatePool) Reset()        { *msg = MsgCreatePool{} }
func (msg *MsgCreatePool) ProtoMessage() {}
func (msg *MsgCreatePool) XXX_MessageName() string {
	return "custody.lending.v1.MsgCreatePool"
}
func (msg *MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Creator: %s, Denom: %s}", msg.Creator, msg.Denom)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgCreatePool) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return errorsmod.Wrap(ErrInvalidDenom, err.Error())
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgCreatePool) GetSigners() []sdk.AccAddress { return signer(msg.Creator) }

// MsgCreatePoolResponse returns the new pool identifier
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgSupplyLiquidity adds lendable funds to a pool
type MsgSupplyLiquidity struct {
	Supplier string `json:"supplier"`
	PoolID   string `json:"pool_id"`
	Amount   uint64 `json:"amount"`
}

func (msg *MsgSupplyLiquidity) Reset()        { *msg = MsgSupplyLiquidity{} }
func (msg *MsgSupplyLiquidity) ProtoMessage() {}
func (msg *MsgSupplyLiquidity) XXX_MessageName() string {
	return "custody.lending.v1.MsgSupplyLiquidity"
}
func (msg *MsgSupplyLiquidity) String() string {
	return fmt.Sprintf("MsgSupplyLiquidity{Supplier: %s, PoolID: %s, Amount: %d}", msg.Supplier, msg.PoolID, msg.Amount)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgSupplyLiquidity) ValidateBasic() error {
	if err := validateAddress(msg.Supplier, "supplier"); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgSupplyLiquidity) GetSigners() []sdk.AccAddress { return signer(msg.Supplier) }

// MsgSupplyLiquidityResponse returns the pool's liquidity after the supply
type MsgSupplyLiquidityResponse struct {
	AvailableLiquidity uint64 `json:"available_liquidity"`
}

// MsgBorrow escrows collateral and draws a loan from a pool
type MsgBorrow struct {
	Borrower   string `json:"borrower"`
	PoolID     string `json:"pool_id"`
	Collateral uint64 `json:"collateral"`
	Amount     uint64 `json:"amount"`
}

func (msg *MsgBorrow) Reset()        { *msg = MsgBorrow{} }
func (msg *MsgBorrow) ProtoMessage() {}
func (msg *MsgBorrow) XXX_MessageName() string {
	return "custody.lending.v1.MsgBorrow"
}
func (msg *MsgBorrow) String() string {
	return fmt.Sprintf("MsgBorrow{Borrower: %s, PoolID: %s, Collateral: %d, Amount: %d}",
		msg.Borrower, msg.PoolID, msg.Collateral, msg.Amount)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgBorrow) ValidateBasic() error {
	if err := validateAddress(msg.Borrower, "borrower"); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Collateral == 0 {
		return ErrInsufficientCollateral
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgBorrow) GetSigners() []sdk.AccAddress { return signer(msg.Borrower) }

// MsgBorrowResponse returns the opened loan
type MsgBorrowResponse struct {
	PositionID string `json:"position_id"`
}

// MsgRepay closes a loan. Payment above the debt is refunded.
type MsgRepay struct {
	Borrower   string `json:"borrower"`
	PositionID string `json:"position_id"`
	Payment    uint64 `json:"payment"`
}

func (msg *MsgRepay) Reset()        { *msg = MsgRepay{} }
func (msg *MsgRepay) ProtoMessage() {}
func (msg *MsgRepay) XXX_MessageName() string {
	return "custody.lending.v1.MsgRepay"
}
func (msg *MsgRepay) String() string {
	return fmt.Sprintf("MsgRepay{Borrower: %s, PositionID: %s, Payment: %d}", msg.Borrower, msg.PositionID, msg.Payment)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgRepay) ValidateBasic() error {
	if err := validateAddress(msg.Borrower, "borrower"); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	if msg.Payment == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgRepay) GetSigners() []sdk.AccAddress { return signer(msg.Borrower) }

// MsgRepayResponse reports the debt settled and what went back to the borrower
type MsgRepayResponse struct {
	Debt       uint64 `json:"debt"`
	Refund     uint64 `json:"refund"`
	Collateral uint64 `json:"collateral"`
}

// MsgLiquidate repays an unhealthy loan in exchange for its collateral
type MsgLiquidate struct {
	Liquidator string `json:"liquidator"`
	PositionID string `json:"position_id"`
	Payment    uint64 `json:"payment"`
}

func (msg *MsgLiquidate) Reset()        { *msg = MsgLiquidate{} }
func (msg *MsgLiquidate) ProtoMessage() {}
func (msg *MsgLiquidate) XXX_MessageName() string {
	return "custody.lending.v1.MsgLiquidate"
}
func (msg *MsgLiquidate) String() string {
	return fmt.Sprintf("MsgLiquidate{Liquidator: %s, PositionID: %s, Payment: %d}", msg.Liquidator, msg.PositionID, msg.Payment)
}

// ValidateBasic implements sdk.Msg
func (msg *MsgLiquidate) ValidateBasic() error {
	if err := validateAddress(msg.Liquidator, "liquidator"); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	if msg.Payment == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg *MsgLiquidate) GetSigners() []sdk.AccAddress { return signer(msg.Liquidator) }

// MsgLiquidateResponse reports how the loan's collateral was split
type MsgLiquidateResponse struct {
	Debt      uint64 `json:"debt"`
	Seized    uint64 `json:"seized"`
	Remainder uint64 `json:"remainder"`
	Refund    uint64 `json:"refund"`
}
