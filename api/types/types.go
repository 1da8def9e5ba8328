package types

import (
	"time"
)

// PoolInfo is the API view of a staking pool.
type PoolInfo struct {
	PoolID         string `json:"pool_id"`
	Authority      string `json:"authority"`
	StakeDenom     string `json:"stake_denom"`
	RewardDenom    string `json:"reward_denom"`
	EmissionRate   string `json:"emission_rate"`
	PeriodStart    int64  `json:"period_start"`
	PeriodEnd      int64  `json:"period_end"`
	RewardFunded   string `json:"reward_funded"`
	RewardPerShare string `json:"reward_per_share"`
	TotalStaked    string `json:"total_staked"`
	LastSettledAt  int64  `json:"last_settled_at"`
	LockDuration   int64  `json:"lock_duration"`
	LockBonusBps   int64  `json:"lock_bonus_bps"`
	RewardsPaid    string `json:"rewards_paid"`
	PositionCount  int64  `json:"position_count"`
	EmissionActive bool   `json:"emission_active"`
	UpdatedAt      int64  `json:"updated_at"`
}

// PositionInfo is the API view of a staker's position in a pool.
type PositionInfo struct {
	PoolID          string `json:"pool_id"`
	Owner           string `json:"owner"`
	Principal       string `json:"principal"`
	AccruedReward   string `json:"accrued_reward"`
	LockKind        string `json:"lock_kind"`
	LockStartedAt   int64  `json:"lock_started_at,omitempty"`
	LockEndsAt      int64  `json:"lock_ends_at,omitempty"`
	BonusMultiplier int64  `json:"bonus_multiplier"`
	UpdatedAt       int64  `json:"updated_at"`
}

// LeaderboardEntry is a ranked row in a pool's principal leaderboard.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Owner     string `json:"owner"`
	Principal string `json:"principal"`
	LockKind  string `json:"lock_kind"`
}

// UnlockEntry describes a locked position's upcoming unlock.
type UnlockEntry struct {
	Owner      string `json:"owner"`
	Principal  string `json:"principal"`
	LockEndsAt int64  `json:"lock_ends_at"`
}

// PoolStats summarizes pool activity for dashboards.
type PoolStats struct {
	PoolID        string `json:"pool_id"`
	TotalStaked   string `json:"total_staked"`
	PositionCount int64  `json:"position_count"`
	RewardsPaid   string `json:"rewards_paid"`
	LockedCount   int64  `json:"locked_count"`
	FlexibleCount int64  `json:"flexible_count"`
}

// PoolService exposes pool-level reads.
type PoolService interface {
	GetPool(poolID string) (*PoolInfo, error)
	ListPools() ([]*PoolInfo, error)
	GetPoolStats(poolID string) (*PoolStats, error)
	Leaderboard(poolID string, limit int) ([]*LeaderboardEntry, error)
	UpcomingUnlocks(poolID string, before int64, limit int) ([]*UnlockEntry, error)
}

// PositionService exposes position-level reads.
type PositionService interface {
	GetPosition(poolID, owner string) (*PositionInfo, error)
	ListPoolPositions(poolID string) ([]*PositionInfo, error)
	ListOwnerPositions(owner string) ([]*PositionInfo, error)
}

// NowMillis returns the current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
