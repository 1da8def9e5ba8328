package stakepool

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/waveline/stakechain/x/stakepool/keeper"
	"github.com/waveline/stakechain/x/stakepool/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for stakepool
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgCreatePool{}, "stakepool/MsgCreatePool", nil)
	cdc.RegisterConcrete(&types.MsgConfigureEmission{}, "stakepool/MsgConfigureEmission", nil)
	cdc.RegisterConcrete(&types.MsgUpdatePoolParams{}, "stakepool/MsgUpdatePoolParams", nil)
	cdc.RegisterConcrete(&types.MsgOpenPosition{}, "stakepool/MsgOpenPosition", nil)
	cdc.RegisterConcrete(&types.MsgDeposit{}, "stakepool/MsgDeposit", nil)
	cdc.RegisterConcrete(&types.MsgWithdraw{}, "stakepool/MsgWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgClaim{}, "stakepool/MsgClaim", nil)
	cdc.RegisterConcrete(&types.MsgClosePosition{}, "stakepool/MsgClosePosition", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgCreatePool{},
		&types.MsgConfigureEmission{},
		&types.MsgUpdatePoolParams{},
		&types.MsgOpenPosition{},
		&types.MsgDeposit{},
		&types.MsgWithdraw{},
		&types.MsgClaim{},
		&types.MsgClosePosition{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return nil
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	return nil
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
	// TODO: Register gRPC gateway routes when proto generation is set up
}

// AppModule implements an application module for the stakepool module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	// Register MsgServer
	// Note: In a full implementation, you would register the proto-generated server
	// For now, we'll use the custom MsgServer
	_ = keeper.NewMsgServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlocker settles pool accumulators at the end of each block
func (am AppModule) EndBlocker(ctx sdk.Context) error {
	return am.keeper.EndBlocker(ctx)
}
