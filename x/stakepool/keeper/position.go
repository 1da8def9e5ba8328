package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/waveline/stakechain/x/stakepool/types"
)

// OpenPosition creates an empty position for the owner. Opening an existing
// position is a no-op.
func (k *Keeper) OpenPosition(ctx context.Context, owner, poolID string) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pos := k.GetPosition(sdkCtx, poolID, owner); pos != nil {
		return pos, nil
	}

	// Settle first so the new checkpoint reflects all emissions to date.
	if err := k.SettlePool(sdkCtx, pool); err != nil {
		return nil, err
	}

	now := sdkCtx.BlockTime().Unix()
	pos := types.NewPosition(pool, owner, now)
	k.SetPosition(sdkCtx, pos)

	pool.PositionCount++
	pool.UpdatedAt = now
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(types.NewPositionOpenedEvent(pos))
	k.logger.Info("Position opened", "pool_id", poolID, "owner", owner)
	return pos, nil
}

// Deposit stakes amount into the owner's position. The first deposit fixes
// the lock kind, lock window and bonus multiplier for the position's
// lifetime; top-ups keep the original terms.
func (k *Keeper) Deposit(ctx context.Context, owner, poolID string, amount math.Int, lockKind string) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	if !amount.IsPositive() || amount.GT(types.MaxAmount) {
		return nil, types.ErrInvalidAmount
	}

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	pos := k.GetPosition(sdkCtx, poolID, owner)
	created := false
	if pos == nil {
		pos = types.NewPosition(pool, owner, now)
		created = true
	}

	if err := pool.Settle(now); err != nil {
		return nil, err
	}
	if err := pos.Settle(pool); err != nil {
		return nil, err
	}

	if pos.LockKind == "" {
		if err := pos.SetLockTerms(pool, lockKind, now); err != nil {
			return nil, err
		}
	}

	newPrincipal := pos.Principal.Add(amount)
	newTotal := pool.TotalStaked.Add(amount)
	if newPrincipal.GT(types.MaxAmount) || newTotal.GT(types.MaxAmount) {
		return nil, types.ErrOverflow
	}

	depositor, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return nil, err
	}
	if err := k.assets.TransferIn(ctx, depositor, types.StakeVaultName, pool.StakeDenom, amount); err != nil {
		return nil, err
	}

	pos.Principal = newPrincipal
	pos.UpdatedAt = now
	pool.TotalStaked = newTotal
	pool.UpdatedAt = now
	if created {
		pool.PositionCount++
	}
	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(types.NewDepositEvent(pool, pos, amount))
	k.logger.Info("Deposit processed",
		"pool_id", poolID,
		"owner", owner,
		"amount", amount.String(),
		"principal", pos.Principal.String(),
		"lock_kind", pos.LockKind,
	)
	return pos, nil
}

// Withdraw removes amount of principal from the owner's position. Locked
// positions release at the lock boundary: withdrawing at exactly LockEndsAt
// succeeds.
func (k *Keeper) Withdraw(ctx context.Context, owner, poolID string, amount math.Int) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	if !amount.IsPositive() || amount.GT(types.MaxAmount) {
		return nil, types.ErrInvalidAmount
	}

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, poolID, owner)
	if pos == nil {
		return nil, types.ErrPositionNotFound
	}
	if pos.IsLocked(now) {
		return nil, types.ErrLockActive
	}
	if amount.GT(pos.Principal) {
		return nil, types.ErrInsufficientPrincipal
	}

	if err := pool.Settle(now); err != nil {
		return nil, err
	}
	if err := pos.Settle(pool); err != nil {
		return nil, err
	}

	recipient, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return nil, err
	}
	if err := k.assets.TransferOut(ctx, types.StakeVaultName, recipient, pool.StakeDenom, amount); err != nil {
		return nil, err
	}

	pos.Principal = pos.Principal.Sub(amount)
	pos.UpdatedAt = now
	pool.TotalStaked = pool.TotalStaked.Sub(amount)
	pool.UpdatedAt = now
	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(types.NewWithdrawEvent(pool, pos, amount))
	k.logger.Info("Withdrawal processed",
		"pool_id", poolID,
		"owner", owner,
		"amount", amount.String(),
		"principal", pos.Principal.String(),
	)
	return pos, nil
}

// Claim pays out the position's entire accrued reward. Principal is never
// touched.
func (k *Keeper) Claim(ctx context.Context, owner, poolID string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, poolID, owner)
	if pos == nil {
		return math.ZeroInt(), types.ErrPositionNotFound
	}

	if err := pool.Settle(now); err != nil {
		return math.ZeroInt(), err
	}
	if err := pos.Settle(pool); err != nil {
		return math.ZeroInt(), err
	}

	payout := pos.AccruedReward
	if !payout.IsPositive() {
		return math.ZeroInt(), types.ErrNothingToClaim
	}

	recipient, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.assets.TransferOut(ctx, types.RewardVaultName, recipient, pool.RewardDenom, payout); err != nil {
		return math.ZeroInt(), err
	}

	pos.AccruedReward = math.ZeroInt()
	pos.UpdatedAt = now
	pool.TotalRewardDistributed = pool.TotalRewardDistributed.Add(payout)
	pool.UpdatedAt = now
	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(types.NewClaimEvent(pool, pos, payout))
	k.logger.Info("Claim processed",
		"pool_id", poolID,
		"owner", owner,
		"amount", payout.String(),
	)
	return payout, nil
}

// ClosePosition deletes an empty position. The position is settled first, so
// reward accrued since the last checkpoint still blocks the close.
func (k *Keeper) ClosePosition(ctx context.Context, owner, poolID string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, poolID, owner)
	if pos == nil {
		return types.ErrPositionNotFound
	}

	if err := pool.Settle(now); err != nil {
		return err
	}
	if err := pos.Settle(pool); err != nil {
		return err
	}
	if !pos.IsEmpty() {
		return types.ErrPositionNotEmpty
	}

	k.DeletePosition(sdkCtx, poolID, owner)
	pool.PositionCount--
	pool.UpdatedAt = now
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(types.NewPositionClosedEvent(poolID, owner))
	k.logger.Info("Position closed", "pool_id", poolID, "owner", owner)
	return nil
}
