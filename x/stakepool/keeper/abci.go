package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/waveline/stakechain/metrics"
	"github.com/waveline/stakechain/x/stakepool/types"
)

// EndBlocker settles every pool's accumulator to block time. Settlement is
// lazy on user operations, so this pass only keeps dormant pools current and
// bounds the window any single settlement has to cover.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	blockHeight := ctx.BlockHeight()
	start := time.Now()

	settled := 0
	for _, pool := range k.GetAllPools(ctx) {
		if err := k.SettlePool(ctx, pool); err != nil {
			// An overflowing pool must not stall the chain. Leave its
			// accumulator where the last good settlement put it.
			k.logger.Error("Pool settlement failed",
				"pool_id", pool.PoolID,
				"error", err,
			)
			continue
		}
		settled++
		metrics.SetPoolTotalStaked(pool.PoolID, pool.TotalStaked)
	}

	totalDuration := time.Since(start)
	metrics.ObserveSettlementDuration(totalDuration)

	k.logger.Debug("StakePool EndBlocker completed",
		"block", blockHeight,
		"total_ms", totalDuration.Milliseconds(),
		"pools_settled", settled,
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEndBlock,
			sdk.NewAttribute("block_height", math.NewInt(blockHeight).String()),
			sdk.NewAttribute("duration_ms", math.NewInt(totalDuration.Milliseconds()).String()),
			sdk.NewAttribute("pools_settled", math.NewInt(int64(settled)).String()),
		),
	)

	return nil
}
