package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/waveline/stakechain/x/stakepool/types"
)

// CreatePool initializes a new staking pool. Only the module authority may
// create pools.
func (k *Keeper) CreatePool(ctx context.Context, authority, poolID, stakeDenom, rewardDenom string, lockDuration, lockBonusBps int64) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if authority != k.authority {
		return nil, types.ErrUnauthorized
	}
	if k.GetPool(sdkCtx, poolID) != nil {
		return nil, types.ErrPoolExists
	}
	if lockBonusBps < 0 || lockBonusBps > types.MaxLockBonusBps {
		return nil, types.ErrInvalidLockBonus
	}

	now := sdkCtx.BlockTime().Unix()
	pool := types.NewPool(poolID, authority, stakeDenom, rewardDenom, lockDuration, lockBonusBps, now)
	k.SetPool(sdkCtx, pool)
	k.setPoolCount(sdkCtx, k.GetPoolCount(sdkCtx)+1)

	sdkCtx.EventManager().EmitEvent(types.NewPoolCreatedEvent(pool))
	k.logger.Info("Pool created",
		"pool_id", poolID,
		"stake_denom", stakeDenom,
		"reward_denom", rewardDenom,
		"lock_duration", lockDuration,
		"lock_bonus_bps", lockBonusBps,
	)
	return pool, nil
}

// ConfigureEmission settles the pool under the old rate, installs a new
// linear schedule and pulls the full funding into the reward vault. Funding
// covers the worst case where every staked unit carries the maximum lock
// bonus, so claims can never drain the vault below solvency.
func (k *Keeper) ConfigureEmission(ctx context.Context, authority, poolID string, totalReward math.Int, duration, startTime int64) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if authority != pool.Authority {
		return nil, types.ErrUnauthorized
	}
	if startTime < now {
		return nil, types.ErrStalePeriod
	}

	rate, err := types.ComputeEmissionRate(totalReward, duration)
	if err != nil {
		return nil, err
	}

	// Close out the accumulator under the outgoing schedule before the new
	// rate takes effect.
	if err := pool.Settle(now); err != nil {
		return nil, err
	}

	// Fund first; a failed transfer must leave the schedule untouched.
	funder, err := sdk.AccAddressFromBech32(authority)
	if err != nil {
		return nil, err
	}
	bonusReward, err := withMaxBonus(totalReward, pool.LockBonusBps)
	if err != nil {
		return nil, err
	}
	if err := k.assets.TransferIn(ctx, funder, types.RewardVaultName, pool.RewardDenom, bonusReward); err != nil {
		return nil, err
	}

	pool.EmissionRate = rate
	pool.PeriodStart = startTime
	pool.PeriodEnd = startTime + duration
	pool.RewardFunded = pool.RewardFunded.Add(bonusReward)
	pool.UpdatedAt = now
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(types.NewEmissionConfiguredEvent(pool, totalReward))
	k.logger.Info("Emission configured",
		"pool_id", poolID,
		"total_reward", totalReward.String(),
		"funded", bonusReward.String(),
		"rate", rate.String(),
		"period_start", startTime,
		"period_end", pool.PeriodEnd,
	)
	return pool, nil
}

// UpdatePoolParams changes the lock policy for positions opened from now on.
// Existing positions keep the terms fixed at their first deposit.
func (k *Keeper) UpdatePoolParams(ctx context.Context, authority, poolID string, lockDuration, lockBonusBps int64) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if authority != pool.Authority {
		return nil, types.ErrUnauthorized
	}
	if lockBonusBps < 0 || lockBonusBps > types.MaxLockBonusBps {
		return nil, types.ErrInvalidLockBonus
	}

	pool.LockDuration = lockDuration
	pool.LockBonusBps = lockBonusBps
	pool.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypePoolUpdated,
		sdk.NewAttribute(types.AttrKeyPoolID, poolID),
		sdk.NewAttribute("lock_duration", math.NewInt(lockDuration).String()),
		sdk.NewAttribute("lock_bonus_bps", math.NewInt(lockBonusBps).String()),
	))
	k.logger.Info("Pool params updated",
		"pool_id", poolID,
		"lock_duration", lockDuration,
		"lock_bonus_bps", lockBonusBps,
	)
	return pool, nil
}

// SettlePool advances a pool's accumulator to block time and persists it.
func (k *Keeper) SettlePool(ctx sdk.Context, pool *types.Pool) error {
	if err := pool.Settle(ctx.BlockTime().Unix()); err != nil {
		return err
	}
	k.SetPool(ctx, pool)
	return nil
}

// withMaxBonus scales an amount by the pool's full lock bonus, rounding up,
// to size the vault funding for the worst-case multiplier mix.
func withMaxBonus(amount math.Int, lockBonusBps int64) (math.Int, error) {
	mult := types.BpsBase.AddRaw(lockBonusBps)
	funded := amount.Mul(mult).Add(types.BpsBase).SubRaw(1).Quo(types.BpsBase)
	if funded.GT(types.MaxAmount) {
		return math.ZeroInt(), types.ErrOverflow
	}
	return funded, nil
}
