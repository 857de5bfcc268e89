package testutil

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// BankKeeper is an in-memory bank tracking account and module balances.
// It is not branched by CacheContext, so tests that expect a rollback must
// fail before the transfer.
type BankKeeper struct {
	accounts map[string]sdk.Coins
	modules  map[string]sdk.Coins
}

// NewBankKeeper creates an empty bank
func NewBankKeeper() *BankKeeper {
	return &BankKeeper{
		accounts: make(map[string]sdk.Coins),
		modules:  make(map[string]sdk.Coins),
	}
}

// Fund mints amount of denom into addr
func (b *BankKeeper) Fund(addr sdk.AccAddress, denom string, amount uint64) {
	b.accounts[addr.String()] = b.accounts[addr.String()].Add(sdk.NewCoin(denom, math.NewIntFromUint64(amount)))
}

// FundModule mints amount of denom into a module account
func (b *BankKeeper) FundModule(module, denom string, amount uint64) {
	b.modules[module] = b.modules[module].Add(sdk.NewCoin(denom, math.NewIntFromUint64(amount)))
}

// Balance returns the denom balance of addr
func (b *BankKeeper) Balance(addr sdk.AccAddress, denom string) uint64 {
	return b.accounts[addr.String()].AmountOf(denom).Uint64()
}

// ModuleBalance returns the denom balance of a module account
func (b *BankKeeper) ModuleBalance(module, denom string) uint64 {
	return b.modules[module].AmountOf(denom).Uint64()
}

// SendCoinsFromAccountToModule implements the keeper BankKeeper interfaces
func (b *BankKeeper) SendCoinsFromAccountToModule(_ context.Context, sender sdk.AccAddress, module string, amt sdk.Coins) error {
	remaining, negative := b.accounts[sender.String()].SafeSub(amt...)
	if negative {
		return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s has %s, needs %s", sender, b.accounts[sender.String()], amt)
	}
	b.accounts[sender.String()] = remaining
	b.modules[module] = b.modules[module].Add(amt...)
	return nil
}

// SendCoinsFromModuleToAccount implements the keeper BankKeeper interfaces
func (b *BankKeeper) SendCoinsFromModuleToAccount(_ context.Context, module string, recipient sdk.AccAddress, amt sdk.Coins) error {
	remaining, negative := b.modules[module].SafeSub(amt...)
	if negative {
		return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "module %s has %s, needs %s", module, b.modules[module], amt)
	}
	b.modules[module] = remaining
	b.accounts[recipient.String()] = b.accounts[recipient.String()].Add(amt...)
	return nil
}
