package types

import (
	"context"

	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreatePool{},
		&MsgConfigureEmission{},
		&MsgUpdatePoolParams{},
		&MsgOpenPosition{},
		&MsgDeposit{},
		&MsgWithdraw{},
		&MsgClaim{},
		&MsgClosePosition{},
	)
}

// MsgServer defines the stakepool module's gRPC message service
type MsgServer interface {
	CreatePool(context.Context, *MsgCreatePool) (*MsgCreatePoolResponse, error)
	ConfigureEmission(context.Context, *MsgConfigureEmission) (*MsgConfigureEmissionResponse, error)
	UpdatePoolParams(context.Context, *MsgUpdatePoolParams) (*MsgUpdatePoolParamsResponse, error)
	OpenPosition(context.Context, *MsgOpenPosition) (*MsgOpenPositionResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	Claim(context.Context, *MsgClaim) (*MsgClaimResponse, error)
	ClosePosition(context.Context, *MsgClosePosition) (*MsgClosePositionResponse, error)
}

// RegisterMsgServer registers the MsgServer to the configurator's MsgServer
func RegisterMsgServer(s interface{}, srv MsgServer) {
	// This is a placeholder - in production, this would use gRPC registration
	// For now, the messages are handled through the module's handler
}

// XXX_MessageName returns the message type URL for MsgCreatePool
func (msg *MsgCreatePool) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgCreatePool"
}

// XXX_MessageName returns the message type URL for MsgConfigureEmission
func (msg *MsgConfigureEmission) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgConfigureEmission"
}

// XXX_MessageName returns the message type URL for MsgUpdatePoolParams
func (msg *MsgUpdatePoolParams) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgUpdatePoolParams"
}

// XXX_MessageName returns the message type URL for MsgOpenPosition
func (msg *MsgOpenPosition) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgOpenPosition"
}

// XXX_MessageName returns the message type URL for MsgDeposit
func (msg *MsgDeposit) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgDeposit"
}

// XXX_MessageName returns the message type URL for MsgWithdraw
func (msg *MsgWithdraw) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgWithdraw"
}

// XXX_MessageName returns the message type URL for MsgClaim
func (msg *MsgClaim) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgClaim"
}

// XXX_MessageName returns the message type URL for MsgClosePosition
func (msg *MsgClosePosition) XXX_MessageName() string {
	return "stakechain.stakepool.v1.MsgClosePosition"
}
