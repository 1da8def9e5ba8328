package types

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Event types
const (
	EventTypePoolCreated        = "stakepool_created"
	EventTypePoolUpdated        = "stakepool_updated"
	EventTypeEmissionConfigured = "stakepool_emission_configured"
	EventTypePositionOpened     = "stakepool_position_opened"
	EventTypeDeposit            = "stakepool_deposit"
	EventTypeWithdraw           = "stakepool_withdraw"
	EventTypeClaim              = "stakepool_claim"
	EventTypePositionClosed     = "stakepool_position_closed"
	EventTypeEndBlock           = "stakepool_endblock"
)

// Event attribute keys
const (
	AttrKeyPoolID          = "pool_id"
	AttrKeyOwner           = "owner"
	AttrKeyAuthority       = "authority"
	AttrKeyAmount          = "amount"
	AttrKeyPrincipal       = "principal"
	AttrKeyTotalStaked     = "total_staked"
	AttrKeyAccruedReward   = "accrued_reward"
	AttrKeyRewardPerShare  = "reward_per_share"
	AttrKeyEmissionRate    = "emission_rate"
	AttrKeyPeriodStart     = "period_start"
	AttrKeyPeriodEnd       = "period_end"
	AttrKeyLockKind        = "lock_kind"
	AttrKeyLockEndsAt      = "lock_ends_at"
	AttrKeyBonusMultiplier = "bonus_multiplier"
)

// NewPoolCreatedEvent builds the event emitted when a pool is initialized.
func NewPoolCreatedEvent(pool *Pool) sdk.Event {
	return sdk.NewEvent(
		EventTypePoolCreated,
		sdk.NewAttribute(AttrKeyPoolID, pool.PoolID),
		sdk.NewAttribute(AttrKeyAuthority, pool.Authority),
		sdk.NewAttribute("stake_denom", pool.StakeDenom),
		sdk.NewAttribute("reward_denom", pool.RewardDenom),
		sdk.NewAttribute("lock_duration", strconv.FormatInt(pool.LockDuration, 10)),
		sdk.NewAttribute("lock_bonus_bps", strconv.FormatInt(pool.LockBonusBps, 10)),
	)
}

// NewEmissionConfiguredEvent builds the event emitted when an emission
// schedule is funded and installed.
func NewEmissionConfiguredEvent(pool *Pool, totalReward math.Int) sdk.Event {
	return sdk.NewEvent(
		EventTypeEmissionConfigured,
		sdk.NewAttribute(AttrKeyPoolID, pool.PoolID),
		sdk.NewAttribute(AttrKeyAmount, totalReward.String()),
		sdk.NewAttribute(AttrKeyEmissionRate, pool.EmissionRate.String()),
		sdk.NewAttribute(AttrKeyPeriodStart, strconv.FormatInt(pool.PeriodStart, 10)),
		sdk.NewAttribute(AttrKeyPeriodEnd, strconv.FormatInt(pool.PeriodEnd, 10)),
	)
}

// NewPositionOpenedEvent builds the event emitted when a position is created.
func NewPositionOpenedEvent(pos *Position) sdk.Event {
	return sdk.NewEvent(
		EventTypePositionOpened,
		sdk.NewAttribute(AttrKeyPoolID, pos.PoolID),
		sdk.NewAttribute(AttrKeyOwner, pos.Owner),
	)
}

// NewDepositEvent builds the event emitted on a successful deposit.
func NewDepositEvent(pool *Pool, pos *Position, amount math.Int) sdk.Event {
	return sdk.NewEvent(
		EventTypeDeposit,
		sdk.NewAttribute(AttrKeyPoolID, pool.PoolID),
		sdk.NewAttribute(AttrKeyOwner, pos.Owner),
		sdk.NewAttribute(AttrKeyAmount, amount.String()),
		sdk.NewAttribute(AttrKeyPrincipal, pos.Principal.String()),
		sdk.NewAttribute(AttrKeyTotalStaked, pool.TotalStaked.String()),
		sdk.NewAttribute(AttrKeyLockKind, pos.LockKind),
		sdk.NewAttribute(AttrKeyLockEndsAt, strconv.FormatInt(pos.LockEndsAt, 10)),
		sdk.NewAttribute(AttrKeyBonusMultiplier, strconv.FormatInt(pos.BonusMultiplier, 10)),
	)
}

// NewWithdrawEvent builds the event emitted on a successful withdrawal.
func NewWithdrawEvent(pool *Pool, pos *Position, amount math.Int) sdk.Event {
	return sdk.NewEvent(
		EventTypeWithdraw,
		sdk.NewAttribute(AttrKeyPoolID, pool.PoolID),
		sdk.NewAttribute(AttrKeyOwner, pos.Owner),
		sdk.NewAttribute(AttrKeyAmount, amount.String()),
		sdk.NewAttribute(AttrKeyPrincipal, pos.Principal.String()),
		sdk.NewAttribute(AttrKeyTotalStaked, pool.TotalStaked.String()),
	)
}

// NewClaimEvent builds the event emitted on a successful reward claim.
func NewClaimEvent(pool *Pool, pos *Position, amount math.Int) sdk.Event {
	return sdk.NewEvent(
		EventTypeClaim,
		sdk.NewAttribute(AttrKeyPoolID, pool.PoolID),
		sdk.NewAttribute(AttrKeyOwner, pos.Owner),
		sdk.NewAttribute(AttrKeyAmount, amount.String()),
		sdk.NewAttribute(AttrKeyPrincipal, pos.Principal.String()),
	)
}

// NewPositionClosedEvent builds the event emitted when an empty position is
// deleted.
func NewPositionClosedEvent(poolID, owner string) sdk.Event {
	return sdk.NewEvent(
		EventTypePositionClosed,
		sdk.NewAttribute(AttrKeyPoolID, poolID),
		sdk.NewAttribute(AttrKeyOwner, owner),
	)
}
