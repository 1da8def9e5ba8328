package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

// newTestPool returns a pool emitting 1 reward unit per second over a
// one-week window starting at t=0.
func newTestPool() *Pool {
	pool := NewPool("alpha", "authority", "ustake", "ureward", 0, 0, 0)
	pool.EmissionRate = math.NewInt(1)
	pool.PeriodStart = 0
	pool.PeriodEnd = 604800
	return pool
}

// stake settles the pool and position at now, then adds principal.
func stake(t *testing.T, pool *Pool, pos *Position, amount int64, now int64) {
	t.Helper()
	if err := pool.Settle(now); err != nil {
		t.Fatalf("pool settle at %d: %v", now, err)
	}
	if err := pos.Settle(pool); err != nil {
		t.Fatalf("position settle at %d: %v", now, err)
	}
	pos.Principal = pos.Principal.Add(math.NewInt(amount))
	pool.TotalStaked = pool.TotalStaked.Add(math.NewInt(amount))
}

// TestComputeEmissionRate tests rate derivation from funding and duration
func TestComputeEmissionRate(t *testing.T) {
	testCases := []struct {
		name        string
		totalReward math.Int
		duration    int64
		expected    math.Int
		expectedErr error
	}{
		{
			name:        "one week of one per second",
			totalReward: math.NewInt(604800),
			duration:    604800,
			expected:    math.NewInt(1),
		},
		{
			name:        "truncates remainder",
			totalReward: math.NewInt(1000),
			duration:    7,
			expected:    math.NewInt(142),
		},
		{
			name:        "zero reward",
			totalReward: math.ZeroInt(),
			duration:    100,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "negative reward",
			totalReward: math.NewInt(-5),
			duration:    100,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "zero duration",
			totalReward: math.NewInt(100),
			duration:    0,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "reward above amount bound",
			totalReward: MaxAmount.AddRaw(1),
			duration:    100,
			expectedErr: ErrOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := ComputeEmissionRate(tc.totalReward, tc.duration)
			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Errorf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rate.Equal(tc.expected) {
				t.Errorf("expected rate %s, got %s", tc.expected, rate)
			}
		})
	}
}

// TestSingleStakerAccrual tests that a lone staker earns the full emission
func TestSingleStakerAccrual(t *testing.T) {
	pool := newTestPool()
	pos := NewPosition(pool, "alice", 0)

	stake(t, pool, pos, 1_000_000, 0)

	if err := pool.Settle(100); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if err := pos.Settle(pool); err != nil {
		t.Fatalf("position settle: %v", err)
	}

	if !pos.AccruedReward.Equal(math.NewInt(100)) {
		t.Errorf("expected accrued 100, got %s", pos.AccruedReward)
	}
}

// TestTwoStakerSplit tests proportional accrual when a second staker joins
// halfway
func TestTwoStakerSplit(t *testing.T) {
	pool := newTestPool()
	alice := NewPosition(pool, "alice", 0)
	stake(t, pool, alice, 1_000_000, 0)

	// Bob joins at t=100 with equal principal; his checkpoint must absorb
	// the emissions alice already earned alone.
	if err := pool.Settle(100); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	bob := NewPosition(pool, "bob", 100)
	stake(t, pool, bob, 1_000_000, 100)

	if err := pool.Settle(200); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if err := alice.Settle(pool); err != nil {
		t.Fatalf("alice settle: %v", err)
	}
	if err := bob.Settle(pool); err != nil {
		t.Fatalf("bob settle: %v", err)
	}

	if !alice.AccruedReward.Equal(math.NewInt(150)) {
		t.Errorf("expected alice accrued 150, got %s", alice.AccruedReward)
	}
	if !bob.AccruedReward.Equal(math.NewInt(50)) {
		t.Errorf("expected bob accrued 50, got %s", bob.AccruedReward)
	}
}

// TestSettleOrderIndependence tests that position settlement order does not
// change outcomes
func TestSettleOrderIndependence(t *testing.T) {
	run := func(settleAliceFirst bool) (math.Int, math.Int) {
		pool := newTestPool()
		alice := NewPosition(pool, "alice", 0)
		stake(t, pool, alice, 300_000, 0)
		bob := NewPosition(pool, "bob", 0)
		stake(t, pool, bob, 700_000, 0)

		if err := pool.Settle(1000); err != nil {
			t.Fatalf("pool settle: %v", err)
		}
		first, second := alice, bob
		if !settleAliceFirst {
			first, second = bob, alice
		}
		if err := first.Settle(pool); err != nil {
			t.Fatalf("settle: %v", err)
		}
		if err := second.Settle(pool); err != nil {
			t.Fatalf("settle: %v", err)
		}
		return alice.AccruedReward, bob.AccruedReward
	}

	a1, b1 := run(true)
	a2, b2 := run(false)
	if !a1.Equal(a2) || !b1.Equal(b2) {
		t.Errorf("settlement order changed outcomes: (%s,%s) vs (%s,%s)", a1, b1, a2, b2)
	}
}

// TestNoDoubleAccrual tests that repeated settlement at the same time adds
// nothing
func TestNoDoubleAccrual(t *testing.T) {
	pool := newTestPool()
	pos := NewPosition(pool, "alice", 0)
	stake(t, pool, pos, 1_000_000, 0)

	if err := pool.Settle(100); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := pos.Settle(pool); err != nil {
			t.Fatalf("position settle: %v", err)
		}
	}
	if err := pool.Settle(100); err != nil {
		t.Fatalf("pool resettle: %v", err)
	}
	if err := pos.Settle(pool); err != nil {
		t.Fatalf("position settle: %v", err)
	}

	if !pos.AccruedReward.Equal(math.NewInt(100)) {
		t.Errorf("expected accrued 100 after repeated settlement, got %s", pos.AccruedReward)
	}
}

// TestZeroStakeGapForfeited tests that emissions during empty intervals are
// forfeited and the accumulator never decreases
func TestZeroStakeGapForfeited(t *testing.T) {
	pool := newTestPool()

	// Nobody staked for the first 100 seconds.
	if err := pool.Settle(100); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if !pool.RewardPerShare.IsZero() {
		t.Errorf("expected accumulator unchanged over empty interval, got %s", pool.RewardPerShare)
	}

	pos := NewPosition(pool, "alice", 100)
	stake(t, pool, pos, 1_000_000, 100)

	prev := pool.RewardPerShare
	for _, now := range []int64{150, 200, 250} {
		if err := pool.Settle(now); err != nil {
			t.Fatalf("pool settle at %d: %v", now, err)
		}
		if pool.RewardPerShare.LT(prev) {
			t.Errorf("accumulator decreased at %d: %s < %s", now, pool.RewardPerShare, prev)
		}
		prev = pool.RewardPerShare
	}

	if err := pos.Settle(pool); err != nil {
		t.Fatalf("position settle: %v", err)
	}
	// 150 seconds staked, the first 100 forfeited.
	if !pos.AccruedReward.Equal(math.NewInt(150)) {
		t.Errorf("expected accrued 150, got %s", pos.AccruedReward)
	}
}

// TestEmissionWindowClamp tests that settlement ignores time outside the
// emission window
func TestEmissionWindowClamp(t *testing.T) {
	pool := NewPool("alpha", "authority", "ustake", "ureward", 0, 0, 0)
	pool.EmissionRate = math.NewInt(2)
	pool.PeriodStart = 100
	pool.PeriodEnd = 200

	pos := NewPosition(pool, "alice", 0)
	stake(t, pool, pos, 1_000, 0)

	// Before the window opens nothing accrues.
	if err := pool.Settle(50); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if !pool.RewardPerShare.IsZero() {
		t.Errorf("expected no accrual before period start, got %s", pool.RewardPerShare)
	}

	// Settling far past the end clamps to the window.
	if err := pool.Settle(1000); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if err := pos.Settle(pool); err != nil {
		t.Fatalf("position settle: %v", err)
	}
	// 100 seconds inside the window at 2/sec.
	if !pos.AccruedReward.Equal(math.NewInt(200)) {
		t.Errorf("expected accrued 200, got %s", pos.AccruedReward)
	}

	// Nothing more after the window closed.
	if err := pool.Settle(2000); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if err := pos.Settle(pool); err != nil {
		t.Fatalf("position settle: %v", err)
	}
	if !pos.AccruedReward.Equal(math.NewInt(200)) {
		t.Errorf("expected accrued still 200, got %s", pos.AccruedReward)
	}
}

// TestLockBonusScalesReward tests that the lock bonus scales only the bonus
// holder's earnings
func TestLockBonusScalesReward(t *testing.T) {
	pool := NewPool("alpha", "authority", "ustake", "ureward", 3600, 2000, 0)
	pool.EmissionRate = math.NewInt(2)
	pool.PeriodStart = 0
	pool.PeriodEnd = 604800

	locked := NewPosition(pool, "alice", 0)
	if err := locked.SetLockTerms(pool, LockKindLocked, 0); err != nil {
		t.Fatalf("set lock terms: %v", err)
	}
	stake(t, pool, locked, 1_000_000, 0)

	flexible := NewPosition(pool, "bob", 0)
	if err := flexible.SetLockTerms(pool, LockKindFlexible, 0); err != nil {
		t.Fatalf("set lock terms: %v", err)
	}
	stake(t, pool, flexible, 1_000_000, 0)

	if err := pool.Settle(100); err != nil {
		t.Fatalf("pool settle: %v", err)
	}
	if err := locked.Settle(pool); err != nil {
		t.Fatalf("locked settle: %v", err)
	}
	if err := flexible.Settle(pool); err != nil {
		t.Fatalf("flexible settle: %v", err)
	}

	// Base share is 100 each; the locked position earns +20%.
	if !flexible.AccruedReward.Equal(math.NewInt(100)) {
		t.Errorf("expected flexible accrued 100, got %s", flexible.AccruedReward)
	}
	if !locked.AccruedReward.Equal(math.NewInt(120)) {
		t.Errorf("expected locked accrued 120, got %s", locked.AccruedReward)
	}
}

// TestSetLockTerms tests lock term fixing per kind
func TestSetLockTerms(t *testing.T) {
	pool := NewPool("alpha", "authority", "ustake", "ureward", 3600, 500, 0)

	pos := NewPosition(pool, "alice", 0)
	if err := pos.SetLockTerms(pool, LockKindLocked, 1000); err != nil {
		t.Fatalf("set locked terms: %v", err)
	}
	if pos.LockEndsAt != 4600 {
		t.Errorf("expected lock end 4600, got %d", pos.LockEndsAt)
	}
	if pos.BonusMultiplier != 10500 {
		t.Errorf("expected bonus multiplier 10500, got %d", pos.BonusMultiplier)
	}

	flex := NewPosition(pool, "bob", 0)
	if err := flex.SetLockTerms(pool, LockKindFlexible, 1000); err != nil {
		t.Fatalf("set flexible terms: %v", err)
	}
	if flex.BonusMultiplier != 10000 {
		t.Errorf("expected bonus multiplier 10000, got %d", flex.BonusMultiplier)
	}
	if flex.LockEndsAt != 0 {
		t.Errorf("expected no lock end, got %d", flex.LockEndsAt)
	}

	bad := NewPosition(pool, "carol", 0)
	if err := bad.SetLockTerms(pool, "weekly", 1000); !errors.Is(err, ErrInvalidLockKind) {
		t.Errorf("expected ErrInvalidLockKind, got %v", err)
	}
}

// TestIsLockedBoundary tests that the lock releases exactly at its end time
func TestIsLockedBoundary(t *testing.T) {
	pool := NewPool("alpha", "authority", "ustake", "ureward", 100, 0, 0)
	pos := NewPosition(pool, "alice", 0)
	if err := pos.SetLockTerms(pool, LockKindLocked, 50); err != nil {
		t.Fatalf("set lock terms: %v", err)
	}

	if !pos.IsLocked(149) {
		t.Error("expected locked one second before expiry")
	}
	if pos.IsLocked(150) {
		t.Error("expected unlocked exactly at expiry")
	}
	if pos.IsLocked(151) {
		t.Error("expected unlocked after expiry")
	}
}

// TestAccumulatorOverflow tests that an accumulator past its bound fails
// settlement
func TestAccumulatorOverflow(t *testing.T) {
	pool := newTestPool()
	pool.RewardPerShare = MaxAccumulator
	pool.TotalStaked = math.NewInt(1)

	if err := pool.Settle(100); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

// TestMulDiv tests the checked multiply-divide helper
func TestMulDiv(t *testing.T) {
	got, err := mulDiv(math.NewInt(6), math.NewInt(7), math.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(math.NewInt(21)) {
		t.Errorf("expected 21, got %s", got)
	}

	if _, err := mulDiv(math.NewInt(1), math.NewInt(1), math.ZeroInt()); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow on zero denominator, got %v", err)
	}

	if _, err := mulDiv(MaxAccumulator, math.NewInt(2), math.NewInt(1)); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow on oversized quotient, got %v", err)
	}
}

// TestEmissionActive tests window membership
func TestEmissionActive(t *testing.T) {
	pool := newTestPool()
	pool.PeriodStart = 100
	pool.PeriodEnd = 200

	testCases := []struct {
		now      int64
		expected bool
	}{
		{99, false},
		{100, true},
		{199, true},
		{200, false},
	}
	for _, tc := range testCases {
		if got := pool.EmissionActive(tc.now); got != tc.expected {
			t.Errorf("EmissionActive(%d): expected %v, got %v", tc.now, tc.expected, got)
		}
	}
}
