package types

import (
	"math/big"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "stakepool"
	StoreKey   = ModuleName

	// StakeVaultName holds staked principal, RewardVaultName holds funded emissions.
	StakeVaultName  = "stakepool_stake"
	RewardVaultName = "stakepool_reward"
)

// Lock kinds
const (
	LockKindFlexible = "flexible"
	LockKindLocked   = "locked"
)

// Fixed-point and basis-point bases
var (
	// AccumulatorScale is the fixed-point base of the reward-per-staked-unit
	// accumulator. 1e12 keeps per-second precision for pools with up to
	// ~1e19 staked units.
	AccumulatorScale = math.NewInt(1_000_000_000_000)

	// BpsBase is the basis-point denominator for bonus multipliers.
	BpsBase = math.NewInt(10_000)

	// MaxAmount bounds every externally supplied or custody-crossing amount
	// to a 64-bit unsigned quantity.
	MaxAmount = math.NewIntFromBigInt(new(big.Int).SetUint64(^uint64(0)))

	// MaxAccumulator bounds the reward-per-staked-unit accumulator to 128 bits.
	MaxAccumulator = math.NewIntFromBigInt(new(big.Int).Sub(
		new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

	// MaxLockBonusBps caps the lock bonus at +100%.
	MaxLockBonusBps = int64(10_000)
)

// Pool is a staking pool with a linear emission schedule and a shared
// reward-per-staked-unit accumulator.
type Pool struct {
	PoolID      string `json:"pool_id"`
	Authority   string `json:"authority"`
	StakeDenom  string `json:"stake_denom"`
	RewardDenom string `json:"reward_denom"`

	// Emission schedule
	EmissionRate math.Int `json:"emission_rate"` // reward units per second
	PeriodStart  int64    `json:"period_start"`
	PeriodEnd    int64    `json:"period_end"`
	RewardFunded math.Int `json:"reward_funded"` // total reward pulled into the vault

	// Accumulator state
	RewardPerShare math.Int `json:"reward_per_share"` // scaled by AccumulatorScale
	TotalStaked    math.Int `json:"total_staked"`
	LastSettledAt  int64    `json:"last_settled_at"`

	// Lock policy for positions opened against this pool
	LockDuration int64 `json:"lock_duration"` // seconds
	LockBonusBps int64 `json:"lock_bonus_bps"`

	// Observability
	TotalRewardDistributed math.Int `json:"total_reward_distributed"`
	PositionCount          int64    `json:"position_count"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPool creates an unfunded pool. Emissions start only after
// ConfigureEmission installs a schedule.
func NewPool(poolID, authority, stakeDenom, rewardDenom string, lockDuration, lockBonusBps, now int64) *Pool {
	return &Pool{
		PoolID:                 poolID,
		Authority:              authority,
		StakeDenom:             stakeDenom,
		RewardDenom:            rewardDenom,
		EmissionRate:           math.ZeroInt(),
		PeriodStart:            0,
		PeriodEnd:              0,
		RewardFunded:           math.ZeroInt(),
		RewardPerShare:         math.ZeroInt(),
		TotalStaked:            math.ZeroInt(),
		LastSettledAt:          now,
		LockDuration:           lockDuration,
		LockBonusBps:           lockBonusBps,
		TotalRewardDistributed: math.ZeroInt(),
		PositionCount:          0,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Settle advances the accumulator to now. Elapsed time outside the emission
// window contributes nothing, and intervals with zero stake are forfeited:
// the accumulator only moves while someone is staked.
func (p *Pool) Settle(now int64) error {
	if now <= p.LastSettledAt {
		return nil
	}
	defer func() { p.LastSettledAt = now }()

	if p.TotalStaked.IsZero() || p.EmissionRate.IsZero() {
		return nil
	}

	from := p.LastSettledAt
	if from < p.PeriodStart {
		from = p.PeriodStart
	}
	to := now
	if to > p.PeriodEnd {
		to = p.PeriodEnd
	}
	if to <= from {
		return nil
	}

	elapsed := math.NewInt(to - from)
	delta, err := mulDiv(p.EmissionRate.Mul(elapsed), AccumulatorScale, p.TotalStaked)
	if err != nil {
		return err
	}

	next := p.RewardPerShare.Add(delta)
	if next.GT(MaxAccumulator) {
		return ErrOverflow
	}
	p.RewardPerShare = next
	return nil
}

// EmissionActive reports whether the pool is inside its emission window.
func (p *Pool) EmissionActive(now int64) bool {
	return p.EmissionRate.IsPositive() && now >= p.PeriodStart && now < p.PeriodEnd
}

// BonusMultiplierFor returns the bps multiplier a new position gets for the
// given lock kind under the pool's current lock policy.
func (p *Pool) BonusMultiplierFor(lockKind string) int64 {
	if lockKind == LockKindLocked {
		return BpsBase.Int64() + p.LockBonusBps
	}
	return BpsBase.Int64()
}

// Position is one staker's ledger entry in a pool.
type Position struct {
	PoolID string `json:"pool_id"`
	Owner  string `json:"owner"`

	Principal     math.Int `json:"principal"`
	Checkpoint    math.Int `json:"checkpoint"` // accumulator value at last settlement
	AccruedReward math.Int `json:"accrued_reward"`

	// Lock terms, fixed on first deposit and never revised by top-ups.
	LockKind        string `json:"lock_kind"`
	LockStartedAt   int64  `json:"lock_started_at"`
	LockEndsAt      int64  `json:"lock_ends_at"`
	BonusMultiplier int64  `json:"bonus_multiplier"` // bps

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPosition creates an empty position checkpointed at the pool's current
// accumulator, so it accrues nothing for time before it existed.
func NewPosition(pool *Pool, owner string, now int64) *Position {
	return &Position{
		PoolID:          pool.PoolID,
		Owner:           owner,
		Principal:       math.ZeroInt(),
		Checkpoint:      pool.RewardPerShare,
		AccruedReward:   math.ZeroInt(),
		LockKind:        "",
		BonusMultiplier: BpsBase.Int64(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Settle folds the accumulator movement since the last checkpoint into
// AccruedReward. The lock bonus scales only this position's earnings; the
// shared accumulator stays bonus-free, so positions settle independently of
// each other and of ordering.
func (pos *Position) Settle(pool *Pool) error {
	diff := pool.RewardPerShare.Sub(pos.Checkpoint)
	if diff.IsNegative() {
		return ErrOverflow
	}
	if diff.IsZero() || pos.Principal.IsZero() {
		pos.Checkpoint = pool.RewardPerShare
		return nil
	}

	owed, err := mulDiv(pos.Principal, diff, AccumulatorScale)
	if err != nil {
		return err
	}
	owed, err = mulDiv(owed, math.NewInt(pos.BonusMultiplier), BpsBase)
	if err != nil {
		return err
	}

	next := pos.AccruedReward.Add(owed)
	if next.GT(MaxAmount) {
		return ErrOverflow
	}
	pos.AccruedReward = next
	pos.Checkpoint = pool.RewardPerShare
	return nil
}

// SetLockTerms fixes the position's lock kind, window and bonus multiplier.
// Called exactly once, on the first deposit.
func (pos *Position) SetLockTerms(pool *Pool, lockKind string, now int64) error {
	switch lockKind {
	case LockKindFlexible:
		pos.LockKind = LockKindFlexible
		pos.BonusMultiplier = BpsBase.Int64()
	case LockKindLocked:
		pos.LockKind = LockKindLocked
		pos.LockStartedAt = now
		pos.LockEndsAt = now + pool.LockDuration
		pos.BonusMultiplier = pool.BonusMultiplierFor(LockKindLocked)
	default:
		return ErrInvalidLockKind
	}
	return nil
}

// IsLocked reports whether principal is still locked at the given time.
// The boundary is inclusive on release: now >= LockEndsAt unlocks.
func (pos *Position) IsLocked(now int64) bool {
	if pos.LockKind != LockKindLocked {
		return false
	}
	return now < pos.LockEndsAt
}

// IsEmpty reports whether the position holds no principal and no unclaimed
// reward and can therefore be closed.
func (pos *Position) IsEmpty() bool {
	return pos.Principal.IsZero() && pos.AccruedReward.IsZero()
}

// mulDiv computes a*b/den with a double-width intermediate. The intermediate
// product of two 128-bit operands fits the 256-bit Int; only the quotient is
// range-checked.
func mulDiv(a, b, den math.Int) (math.Int, error) {
	if den.IsZero() {
		return math.ZeroInt(), ErrOverflow
	}
	q := a.Mul(b).Quo(den)
	if q.GT(MaxAccumulator) {
		return math.ZeroInt(), ErrOverflow
	}
	return q, nil
}

// ComputeEmissionRate derives the per-second rate for a funding of
// totalReward over duration seconds, truncating the remainder.
func ComputeEmissionRate(totalReward math.Int, duration int64) (math.Int, error) {
	if !totalReward.IsPositive() || duration <= 0 {
		return math.ZeroInt(), ErrInvalidAmount
	}
	if totalReward.GT(MaxAmount) {
		return math.ZeroInt(), ErrOverflow
	}
	return totalReward.Quo(math.NewInt(duration)), nil
}
