package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// AssetMover moves assets between user accounts and module vaults. The vault
// name selects the custody route, so operations never branch on asset kind.
type AssetMover interface {
	TransferIn(ctx context.Context, from sdk.AccAddress, vault string, denom string, amount math.Int) error
	TransferOut(ctx context.Context, vault string, to sdk.AccAddress, denom string, amount math.Int) error
}

// bankAssetMover routes vault custody through the bank module's module
// accounts.
type bankAssetMover struct {
	bank BankKeeper
}

// NewBankAssetMover creates an AssetMover backed by the bank keeper
func NewBankAssetMover(bank BankKeeper) AssetMover {
	return bankAssetMover{bank: bank}
}

// TransferIn pulls amount of denom from the sender into the vault
func (m bankAssetMover) TransferIn(ctx context.Context, from sdk.AccAddress, vault string, denom string, amount math.Int) error {
	return m.bank.SendCoinsFromAccountToModule(ctx, from, vault, sdk.NewCoins(sdk.NewCoin(denom, amount)))
}

// TransferOut pays amount of denom from the vault to the recipient
func (m bankAssetMover) TransferOut(ctx context.Context, vault string, to sdk.AccAddress, denom string, amount math.Int) error {
	return m.bank.SendCoinsFromModuleToAccount(ctx, vault, to, sdk.NewCoins(sdk.NewCoin(denom, amount)))
}
