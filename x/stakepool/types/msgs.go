package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePool        = "create_pool"
	TypeMsgConfigureEmission = "configure_emission"
	TypeMsgUpdatePoolParams  = "update_pool_params"
	TypeMsgOpenPosition      = "open_position"
	TypeMsgDeposit           = "deposit"
	TypeMsgWithdraw          = "withdraw"
	TypeMsgClaim             = "claim"
	TypeMsgClosePosition     = "close_position"
)

// parseAmount parses a positive integer amount within the 64-bit bound.
func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt(), ErrInvalidAmount
	}
	if !amount.IsPositive() || amount.GT(MaxAmount) {
		return math.ZeroInt(), ErrInvalidAmount
	}
	return amount, nil
}

// MsgCreatePool defines the CreatePool message
type MsgCreatePool struct {
	Authority    string `json:"authority"`
	PoolID       string `json:"pool_id"`
	StakeDenom   string `json:"stake_denom"`
	RewardDenom  string `json:"reward_denom"`
	LockDuration int64  `json:"lock_duration"`
	LockBonusBps int64  `json:"lock_bonus_bps"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	if err := sdk.ValidateDenom(msg.StakeDenom); err != nil {
		return ErrInvalidDenom
	}
	if err := sdk.ValidateDenom(msg.RewardDenom); err != nil {
		return ErrInvalidDenom
	}
	if msg.LockDuration < 0 {
		return ErrInvalidAmount
	}
	if msg.LockBonusBps < 0 || msg.LockBonusBps > MaxLockBonusBps {
		return ErrInvalidLockBonus
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgConfigureEmission defines the ConfigureEmission message
type MsgConfigureEmission struct {
	Authority   string `json:"authority"`
	PoolID      string `json:"pool_id"`
	TotalReward string `json:"total_reward"`
	Duration    int64  `json:"duration"`
	StartTime   int64  `json:"start_time"`
}

// Route implements sdk.Msg
func (msg MsgConfigureEmission) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgConfigureEmission) Type() string { return TypeMsgConfigureEmission }

// ValidateBasic implements sdk.Msg
func (msg MsgConfigureEmission) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	if _, err := parseAmount(msg.TotalReward); err != nil {
		return err
	}
	if msg.Duration <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgConfigureEmission) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgConfigureEmission) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgConfigureEmission) Reset() { *msg = MsgConfigureEmission{} }

// String implements proto.Message
func (msg MsgConfigureEmission) String() string {
	return fmt.Sprintf("MsgConfigureEmission{Authority: %s, PoolID: %s, TotalReward: %s}",
		msg.Authority, msg.PoolID, msg.TotalReward)
}

// MsgConfigureEmissionResponse defines the ConfigureEmission response
type MsgConfigureEmissionResponse struct {
	EmissionRate string `json:"emission_rate"`
	PeriodStart  int64  `json:"period_start"`
	PeriodEnd    int64  `json:"period_end"`
}

// MsgUpdatePoolParams defines the UpdatePoolParams message. New lock terms
// apply only to positions opened afterwards.
type MsgUpdatePoolParams struct {
	Authority    string `json:"authority"`
	PoolID       string `json:"pool_id"`
	LockDuration int64  `json:"lock_duration"`
	LockBonusBps int64  `json:"lock_bonus_bps"`
}

// Route implements sdk.Msg
func (msg MsgUpdatePoolParams) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdatePoolParams) Type() string { return TypeMsgUpdatePoolParams }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdatePoolParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	if msg.LockDuration < 0 {
		return ErrInvalidAmount
	}
	if msg.LockBonusBps < 0 || msg.LockBonusBps > MaxLockBonusBps {
		return ErrInvalidLockBonus
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUpdatePoolParams) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdatePoolParams) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdatePoolParams) Reset() { *msg = MsgUpdatePoolParams{} }

// String implements proto.Message
func (msg MsgUpdatePoolParams) String() string {
	return fmt.Sprintf("MsgUpdatePoolParams{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgUpdatePoolParamsResponse defines the UpdatePoolParams response
type MsgUpdatePoolParamsResponse struct{}

// MsgOpenPosition defines the OpenPosition message
type MsgOpenPosition struct {
	Owner  string `json:"owner"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgOpenPosition) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgOpenPosition) Type() string { return TypeMsgOpenPosition }

// ValidateBasic implements sdk.Msg
func (msg MsgOpenPosition) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgOpenPosition) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgOpenPosition) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgOpenPosition) Reset() { *msg = MsgOpenPosition{} }

// String implements proto.Message
func (msg MsgOpenPosition) String() string {
	return fmt.Sprintf("MsgOpenPosition{Owner: %s, PoolID: %s}", msg.Owner, msg.PoolID)
}

// MsgOpenPositionResponse defines the OpenPosition response
type MsgOpenPositionResponse struct{}

// MsgDeposit defines the Deposit message
type MsgDeposit struct {
	Owner    string `json:"owner"`
	PoolID   string `json:"pool_id"`
	Amount   string `json:"amount"`
	LockKind string `json:"lock_kind"`
}

// Route implements sdk.Msg
func (msg MsgDeposit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeposit) Type() string { return TypeMsgDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	if _, err := parseAmount(msg.Amount); err != nil {
		return err
	}
	if msg.LockKind != LockKindFlexible && msg.LockKind != LockKindLocked {
		return ErrInvalidLockKind
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeposit) Reset() { *msg = MsgDeposit{} }

// String implements proto.Message
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Owner: %s, PoolID: %s, Amount: %s}", msg.Owner, msg.PoolID, msg.Amount)
}

// MsgDepositResponse defines the Deposit response
type MsgDepositResponse struct {
	Principal       string `json:"principal"`
	LockEndsAt      int64  `json:"lock_ends_at"`
	BonusMultiplier int64  `json:"bonus_multiplier"`
}

// MsgWithdraw defines the Withdraw message
type MsgWithdraw struct {
	Owner  string `json:"owner"`
	PoolID string `json:"pool_id"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	if _, err := parseAmount(msg.Amount); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Owner: %s, PoolID: %s, Amount: %s}", msg.Owner, msg.PoolID, msg.Amount)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	Principal string `json:"principal"`
}

// MsgClaim defines the Claim message
type MsgClaim struct {
	Owner  string `json:"owner"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClaim) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaim) Type() string { return TypeMsgClaim }

// ValidateBasic implements sdk.Msg
func (msg MsgClaim) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaim) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaim) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaim) Reset() { *msg = MsgClaim{} }

// String implements proto.Message
func (msg MsgClaim) String() string {
	return fmt.Sprintf("MsgClaim{Owner: %s, PoolID: %s}", msg.Owner, msg.PoolID)
}

// MsgClaimResponse defines the Claim response
type MsgClaimResponse struct {
	Amount string `json:"amount"`
}

// MsgClosePosition defines the ClosePosition message
type MsgClosePosition struct {
	Owner  string `json:"owner"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClosePosition) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClosePosition) Type() string { return TypeMsgClosePosition }

// ValidateBasic implements sdk.Msg
func (msg MsgClosePosition) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrInvalidPoolID
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClosePosition) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClosePosition) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClosePosition) Reset() { *msg = MsgClosePosition{} }

// String implements proto.Message
func (msg MsgClosePosition) String() string {
	return fmt.Sprintf("MsgClosePosition{Owner: %s, PoolID: %s}", msg.Owner, msg.PoolID)
}

// MsgClosePositionResponse defines the ClosePosition response
type MsgClosePositionResponse struct{}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgCreatePool{}
	_ sdk.Msg = &MsgConfigureEmission{}
	_ sdk.Msg = &MsgUpdatePoolParams{}
	_ sdk.Msg = &MsgOpenPosition{}
	_ sdk.Msg = &MsgDeposit{}
	_ sdk.Msg = &MsgWithdraw{}
	_ sdk.Msg = &MsgClaim{}
	_ sdk.Msg = &MsgClosePosition{}
)
