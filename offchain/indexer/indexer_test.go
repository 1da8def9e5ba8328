package indexer

import (
	"sync"
	"testing"
	"time"

	"github.com/waveline/stakechain/api/types"
)

// fakeSink records flushed snapshots.
type fakeSink struct {
	mu        sync.Mutex
	pools     map[string]*types.PoolInfo
	positions map[string]*types.PositionInfo
	removed   []string
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		pools:     make(map[string]*types.PoolInfo),
		positions: make(map[string]*types.PositionInfo),
	}
}

func (s *fakeSink) UpsertPool(pool *types.PoolInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool.PoolID] = pool
}

func (s *fakeSink) UpsertPosition(pos *types.PositionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[pos.PoolID+"/"+pos.Owner] = pos
}

func (s *fakeSink) RemovePosition(poolID, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, poolID+"/"+owner)
	s.removed = append(s.removed, poolID+"/"+owner)
}

// TestDepositEventFolding tests that a deposit event produces both a
// position and a pool snapshot
func TestDepositEventFolding(t *testing.T) {
	sink := newFakeSink()
	ix := New(DefaultConfig(), sink)

	ix.handleEvent(Event{
		Kind:   EventKindDeposit,
		PoolID: "alpha",
		Owner:  "alice",
		Attrs: map[string]string{
			"pool_id":          "alpha",
			"owner":            "alice",
			"amount":           "1000",
			"principal":        "1000",
			"total_staked":     "1000",
			"lock_kind":        "flexible",
			"lock_ends_at":     "0",
			"bonus_multiplier": "10000",
		},
		Timestamp: time.Unix(1000, 0),
	})
	ix.flush()

	pos, ok := sink.positions["alpha/alice"]
	if !ok {
		t.Fatal("expected position snapshot flushed")
	}
	if pos.Principal != "1000" || pos.LockKind != "flexible" {
		t.Errorf("unexpected snapshot: principal %s, lock %s", pos.Principal, pos.LockKind)
	}
	pool, ok := sink.pools["alpha"]
	if !ok {
		t.Fatal("expected pool snapshot flushed")
	}
	if pool.TotalStaked != "1000" {
		t.Errorf("expected total staked 1000, got %s", pool.TotalStaked)
	}
}

// TestEventCoalescing tests that several events for one position flush as a
// single snapshot carrying the latest state
func TestEventCoalescing(t *testing.T) {
	sink := newFakeSink()
	ix := New(DefaultConfig(), sink)

	for _, principal := range []string{"100", "200", "300"} {
		ix.handleEvent(Event{
			Kind:   EventKindDeposit,
			PoolID: "alpha",
			Owner:  "alice",
			Attrs: map[string]string{
				"principal":    principal,
				"total_staked": principal,
			},
			Timestamp: time.Unix(1000, 0),
		})
	}
	ix.flush()

	pos := sink.positions["alpha/alice"]
	if pos == nil || pos.Principal != "300" {
		t.Fatalf("expected coalesced principal 300, got %+v", pos)
	}
}

// TestPositionClosedRemoves tests that a close event removes the snapshot
func TestPositionClosedRemoves(t *testing.T) {
	sink := newFakeSink()
	ix := New(DefaultConfig(), sink)

	ix.handleEvent(Event{
		Kind:   EventKindDeposit,
		PoolID: "alpha",
		Owner:  "alice",
		Attrs:  map[string]string{"principal": "100"},
	})
	ix.flush()

	ix.handleEvent(Event{
		Kind:   EventKindPositionClosed,
		PoolID: "alpha",
		Owner:  "alice",
	})
	ix.flush()

	if _, ok := sink.positions["alpha/alice"]; ok {
		t.Error("expected position removed from sink")
	}
	if len(sink.removed) != 1 || sink.removed[0] != "alpha/alice" {
		t.Errorf("expected one removal for alpha/alice, got %v", sink.removed)
	}
}

// TestPartialAttributesKeepExisting tests that events without a field do not
// clobber the cached value
func TestPartialAttributesKeepExisting(t *testing.T) {
	sink := newFakeSink()
	ix := New(DefaultConfig(), sink)

	ix.handleEvent(Event{
		Kind:   EventKindDeposit,
		PoolID: "alpha",
		Owner:  "alice",
		Attrs: map[string]string{
			"principal":        "500",
			"lock_kind":        "locked",
			"lock_ends_at":     "2000",
			"bonus_multiplier": "12000",
		},
	})
	// Claim events carry principal but no lock fields.
	ix.handleEvent(Event{
		Kind:   EventKindClaim,
		PoolID: "alpha",
		Owner:  "alice",
		Attrs: map[string]string{
			"principal": "500",
			"amount":    "42",
		},
	})
	ix.flush()

	pos := sink.positions["alpha/alice"]
	if pos == nil {
		t.Fatal("expected position snapshot")
	}
	if pos.LockKind != "locked" || pos.LockEndsAt != 2000 || pos.BonusMultiplier != 12000 {
		t.Errorf("lock fields clobbered: %+v", pos)
	}
}
