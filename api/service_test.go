package api

import (
	"errors"
	"fmt"
	"testing"
)

func newTestService() *StakingService {
	s := NewStakingService()
	s.UpsertPool(&PoolInfo{
		PoolID:        "alpha",
		StakeDenom:    "ustake",
		RewardDenom:   "ureward",
		TotalStaked:   "0",
		PositionCount: 0,
		RewardsPaid:   "0",
	})
	return s
}

func testPosition(poolID, owner, principal, lockKind string, lockEndsAt int64) *PositionInfo {
	return &PositionInfo{
		PoolID:     poolID,
		Owner:      owner,
		Principal:  principal,
		LockKind:   lockKind,
		LockEndsAt: lockEndsAt,
	}
}

// TestLeaderboardOrdering tests that stakers rank by descending principal
func TestLeaderboardOrdering(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "carol", "500", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "alice", "3000", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "bob", "1500", "locked", 2000))

	entries, err := s.Leaderboard("alpha", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantOwners := []string{"alice", "bob", "carol"}
	wantPrincipals := []string{"3000", "1500", "500"}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
		if e.Owner != wantOwners[i] {
			t.Errorf("entry %d: expected owner %s, got %s", i, wantOwners[i], e.Owner)
		}
		if e.Principal != wantPrincipals[i] {
			t.Errorf("entry %d: expected principal %s, got %s", i, wantPrincipals[i], e.Principal)
		}
	}
}

// TestLeaderboardEqualPrincipals tests that ties are kept, not dropped
func TestLeaderboardEqualPrincipals(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "bob", "1000", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "alice", "1000", "flexible", 0))

	entries, err := s.Leaderboard("alpha", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for equal principals, got %d", len(entries))
	}
}

// TestLeaderboardUpdateAndRemoval tests that re-staking moves the rank and a
// zero principal drops the entry
func TestLeaderboardUpdateAndRemoval(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "alice", "3000", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "bob", "1000", "flexible", 0))

	// Bob tops up past alice.
	s.UpsertPosition(testPosition("alpha", "bob", "5000", "flexible", 0))

	entries, err := s.Leaderboard("alpha", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if entries[0].Owner != "bob" || entries[0].Principal != "5000" {
		t.Errorf("expected bob at rank 1 with 5000, got %s with %s", entries[0].Owner, entries[0].Principal)
	}

	// Alice withdraws everything.
	s.UpsertPosition(testPosition("alpha", "alice", "0", "flexible", 0))
	entries, _ = s.Leaderboard("alpha", 10)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after full withdrawal, got %d", len(entries))
	}
}

// TestLeaderboardLimit tests the limit cutoff
func TestLeaderboardLimit(t *testing.T) {
	s := newTestService()
	for i := 0; i < 20; i++ {
		s.UpsertPosition(testPosition("alpha", fmt.Sprintf("owner%02d", i), fmt.Sprintf("%d", (i+1)*100), "flexible", 0))
	}

	entries, err := s.Leaderboard("alpha", 5)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].Principal != "2000" {
		t.Errorf("expected top principal 2000, got %s", entries[0].Principal)
	}
}

// TestUpcomingUnlocks tests cutoff and ordering of the unlock schedule
func TestUpcomingUnlocks(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "carol", "300", "locked", 3000))
	s.UpsertPosition(testPosition("alpha", "alice", "100", "locked", 1000))
	s.UpsertPosition(testPosition("alpha", "bob", "200", "locked", 2000))
	s.UpsertPosition(testPosition("alpha", "dave", "400", "flexible", 0))

	// No cutoff: all locked positions, soonest first.
	entries, err := s.UpcomingUnlocks("alpha", 0, 10)
	if err != nil {
		t.Fatalf("unlocks: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 locked entries, got %d", len(entries))
	}
	wantOwners := []string{"alice", "bob", "carol"}
	for i, e := range entries {
		if e.Owner != wantOwners[i] {
			t.Errorf("entry %d: expected %s, got %s", i, wantOwners[i], e.Owner)
		}
	}

	// Cutoff excludes later unlocks.
	entries, _ = s.UpcomingUnlocks("alpha", 2000, 10)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries before cutoff, got %d", len(entries))
	}
	if entries[1].Owner != "bob" || entries[1].LockEndsAt != 2000 {
		t.Errorf("expected bob at 2000, got %s at %d", entries[1].Owner, entries[1].LockEndsAt)
	}
}

// TestUnlockScheduleFollowsLockKind tests that switching to flexible drops
// the unlock entry
func TestUnlockScheduleFollowsLockKind(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "alice", "100", "locked", 1000))
	entries, _ := s.UpcomingUnlocks("alpha", 0, 10)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	// The position snapshot arriving after lock expiry carries no lock.
	s.UpsertPosition(testPosition("alpha", "alice", "100", "flexible", 0))
	entries, _ = s.UpcomingUnlocks("alpha", 0, 10)
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries after lock cleared, got %d", len(entries))
	}
}

// TestRemovePosition tests that closing drops all index entries
func TestRemovePosition(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "alice", "100", "locked", 1000))
	s.RemovePosition("alpha", "alice")

	if _, err := s.GetPosition("alpha", "alice"); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("expected ErrPositionNotFound, got %v", err)
	}
	entries, _ := s.Leaderboard("alpha", 10)
	if len(entries) != 0 {
		t.Errorf("expected empty leaderboard, got %d entries", len(entries))
	}
	unlocks, _ := s.UpcomingUnlocks("alpha", 0, 10)
	if len(unlocks) != 0 {
		t.Errorf("expected empty unlock schedule, got %d entries", len(unlocks))
	}
}

// TestPoolStats tests lock-kind aggregation
func TestPoolStats(t *testing.T) {
	s := newTestService()

	s.UpsertPosition(testPosition("alpha", "alice", "100", "locked", 1000))
	s.UpsertPosition(testPosition("alpha", "bob", "200", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "carol", "300", "flexible", 0))

	stats, err := s.GetPoolStats("alpha")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.LockedCount != 1 || stats.FlexibleCount != 2 {
		t.Errorf("expected 1 locked / 2 flexible, got %d / %d", stats.LockedCount, stats.FlexibleCount)
	}
}

// TestUnknownPool tests the not-found paths
func TestUnknownPool(t *testing.T) {
	s := newTestService()

	if _, err := s.GetPool("nope"); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
	if _, err := s.Leaderboard("nope", 10); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
	if _, err := s.UpcomingUnlocks("nope", 0, 10); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
	if _, err := s.ListPoolPositions("nope"); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
}

// TestListOwnerPositions tests the cross-pool owner view
func TestListOwnerPositions(t *testing.T) {
	s := newTestService()
	s.UpsertPool(&PoolInfo{PoolID: "beta", TotalStaked: "0", RewardsPaid: "0"})

	s.UpsertPosition(testPosition("beta", "alice", "200", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "alice", "100", "flexible", 0))
	s.UpsertPosition(testPosition("alpha", "bob", "300", "flexible", 0))

	positions, err := s.ListOwnerPositions("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0].PoolID != "alpha" || positions[1].PoolID != "beta" {
		t.Errorf("expected alpha then beta, got %s then %s", positions[0].PoolID, positions[1].PoolID)
	}
}
