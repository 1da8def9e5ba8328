package keeper

import (
	"context"

	"cosmossdk.io/math"
	"github.com/waveline/stakechain/x/stakepool/types"
)

// MsgServer defines the stakepool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	pool, err := m.keeper.CreatePool(ctx, msg.Authority, msg.PoolID, msg.StakeDenom, msg.RewardDenom, msg.LockDuration, msg.LockBonusBps)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{PoolID: pool.PoolID}, nil
}

// ConfigureEmission handles MsgConfigureEmission
func (m *MsgServer) ConfigureEmission(ctx context.Context, msg *types.MsgConfigureEmission) (*types.MsgConfigureEmissionResponse, error) {
	totalReward, ok := math.NewIntFromString(msg.TotalReward)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	pool, err := m.keeper.ConfigureEmission(ctx, msg.Authority, msg.PoolID, totalReward, msg.Duration, msg.StartTime)
	if err != nil {
		return nil, err
	}

	return &types.MsgConfigureEmissionResponse{
		EmissionRate: pool.EmissionRate.String(),
		PeriodStart:  pool.PeriodStart,
		PeriodEnd:    pool.PeriodEnd,
	}, nil
}

// UpdatePoolParams handles MsgUpdatePoolParams
func (m *MsgServer) UpdatePoolParams(ctx context.Context, msg *types.MsgUpdatePoolParams) (*types.MsgUpdatePoolParamsResponse, error) {
	if _, err := m.keeper.UpdatePoolParams(ctx, msg.Authority, msg.PoolID, msg.LockDuration, msg.LockBonusBps); err != nil {
		return nil, err
	}
	return &types.MsgUpdatePoolParamsResponse{}, nil
}

// OpenPosition handles MsgOpenPosition
func (m *MsgServer) OpenPosition(ctx context.Context, msg *types.MsgOpenPosition) (*types.MsgOpenPositionResponse, error) {
	if _, err := m.keeper.OpenPosition(ctx, msg.Owner, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgOpenPositionResponse{}, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	pos, err := m.keeper.Deposit(ctx, msg.Owner, msg.PoolID, amount, msg.LockKind)
	if err != nil {
		return nil, err
	}

	return &types.MsgDepositResponse{
		Principal:       pos.Principal.String(),
		LockEndsAt:      pos.LockEndsAt,
		BonusMultiplier: pos.BonusMultiplier,
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	pos, err := m.keeper.Withdraw(ctx, msg.Owner, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgWithdrawResponse{Principal: pos.Principal.String()}, nil
}

// Claim handles MsgClaim
func (m *MsgServer) Claim(ctx context.Context, msg *types.MsgClaim) (*types.MsgClaimResponse, error) {
	payout, err := m.keeper.Claim(ctx, msg.Owner, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimResponse{Amount: payout.String()}, nil
}

// ClosePosition handles MsgClosePosition
func (m *MsgServer) ClosePosition(ctx context.Context, msg *types.MsgClosePosition) (*types.MsgClosePositionResponse, error) {
	if err := m.keeper.ClosePosition(ctx, msg.Owner, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgClosePositionResponse{}, nil
}
