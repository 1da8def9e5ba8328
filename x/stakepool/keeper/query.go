package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/waveline/stakechain/x/stakepool/types"
)

// PoolStatus is a read-only projection of a pool at block time, with the
// accumulator advanced virtually so queries see current values without
// writing state.
type PoolStatus struct {
	Pool           *types.Pool `json:"pool"`
	RewardPerShare math.Int    `json:"reward_per_share"`
	EmissionActive bool        `json:"emission_active"`
}

// GetPoolStatus returns the pool with its accumulator projected to now.
func (k *Keeper) GetPoolStatus(ctx sdk.Context, poolID string) (*PoolStatus, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	now := ctx.BlockTime().Unix()
	projected := *pool
	if err := projected.Settle(now); err != nil {
		return nil, err
	}

	return &PoolStatus{
		Pool:           pool,
		RewardPerShare: projected.RewardPerShare,
		EmissionActive: pool.EmissionActive(now),
	}, nil
}

// GetPendingReward returns the reward the owner could claim right now,
// including accrual since the position's last checkpoint.
func (k *Keeper) GetPendingReward(ctx sdk.Context, poolID, owner string) (math.Int, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	pos := k.GetPosition(ctx, poolID, owner)
	if pos == nil {
		return math.ZeroInt(), types.ErrPositionNotFound
	}

	now := ctx.BlockTime().Unix()
	projectedPool := *pool
	if err := projectedPool.Settle(now); err != nil {
		return math.ZeroInt(), err
	}
	projectedPos := *pos
	if err := projectedPos.Settle(&projectedPool); err != nil {
		return math.ZeroInt(), err
	}
	return projectedPos.AccruedReward, nil
}

// TotalPrincipal sums live principal across a pool's positions. Used by
// invariant checks; on a consistent store it equals pool.TotalStaked.
func (k *Keeper) TotalPrincipal(ctx sdk.Context, poolID string) math.Int {
	total := math.ZeroInt()
	for _, pos := range k.GetPoolPositions(ctx, poolID) {
		total = total.Add(pos.Principal)
	}
	return total
}
