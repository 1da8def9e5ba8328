package api

import (
	"errors"
	"sort"
	"sync"

	"cosmossdk.io/math"
	"github.com/waveline/stakechain/api/types"
)

// Re-export types for convenience
type (
	PoolInfo         = types.PoolInfo
	PositionInfo     = types.PositionInfo
	LeaderboardEntry = types.LeaderboardEntry
	UnlockEntry      = types.UnlockEntry
	PoolStats        = types.PoolStats
	PoolService      = types.PoolService
	PositionService  = types.PositionService
)

var (
	// ErrPoolNotFound is returned when the pool is unknown to the indexer
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPositionNotFound is returned when no position exists for the owner
	ErrPositionNotFound = errors.New("position not found")
)

// StakingService is an in-memory read index over chain state. Pool and
// position snapshots are pushed in (from chain events or polling) and
// served through the PoolService/PositionService interfaces.
type StakingService struct {
	mu sync.RWMutex

	pools     map[string]*PoolInfo                // pool_id -> snapshot
	positions map[string]map[string]*PositionInfo // pool_id -> owner -> snapshot

	leaderboards map[string]*leaderboardIndex // pool_id -> principal ranking
	unlocks      map[string]*unlockIndex      // pool_id -> unlock schedule
}

// NewStakingService creates an empty staking read index.
func NewStakingService() *StakingService {
	return &StakingService{
		pools:        make(map[string]*PoolInfo),
		positions:    make(map[string]map[string]*PositionInfo),
		leaderboards: make(map[string]*leaderboardIndex),
		unlocks:      make(map[string]*unlockIndex),
	}
}

var (
	_ PoolService     = (*StakingService)(nil)
	_ PositionService = (*StakingService)(nil)
)

// ============ Ingest ============

// UpsertPool stores or replaces a pool snapshot.
func (s *StakingService) UpsertPool(pool *PoolInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools[pool.PoolID] = pool
	if _, ok := s.positions[pool.PoolID]; !ok {
		s.positions[pool.PoolID] = make(map[string]*PositionInfo)
	}
	if _, ok := s.leaderboards[pool.PoolID]; !ok {
		s.leaderboards[pool.PoolID] = newLeaderboardIndex()
	}
	if _, ok := s.unlocks[pool.PoolID]; !ok {
		s.unlocks[pool.PoolID] = newUnlockIndex()
	}
}

// UpsertPosition stores or replaces a position snapshot and updates the
// pool's leaderboard and unlock indexes.
func (s *StakingService) UpsertPosition(pos *PositionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byOwner, ok := s.positions[pos.PoolID]
	if !ok {
		byOwner = make(map[string]*PositionInfo)
		s.positions[pos.PoolID] = byOwner
	}
	byOwner[pos.Owner] = pos

	principal, ok := math.NewIntFromString(pos.Principal)
	if !ok {
		principal = math.ZeroInt()
	}

	lb, ok := s.leaderboards[pos.PoolID]
	if !ok {
		lb = newLeaderboardIndex()
		s.leaderboards[pos.PoolID] = lb
	}
	lb.Upsert(pos.Owner, pos.LockKind, principal)

	ul, ok := s.unlocks[pos.PoolID]
	if !ok {
		ul = newUnlockIndex()
		s.unlocks[pos.PoolID] = ul
	}
	if pos.LockKind == "locked" {
		ul.Upsert(pos.Owner, principal, pos.LockEndsAt)
	} else {
		ul.Remove(pos.Owner)
	}
}

// RemovePosition drops a closed position from all indexes.
func (s *StakingService) RemovePosition(poolID, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byOwner, ok := s.positions[poolID]; ok {
		delete(byOwner, owner)
	}
	if lb, ok := s.leaderboards[poolID]; ok {
		lb.Remove(owner)
	}
	if ul, ok := s.unlocks[poolID]; ok {
		ul.Remove(owner)
	}
}

// ============ PoolService ============

// GetPool returns the pool snapshot
func (s *StakingService) GetPool(poolID string) (*PoolInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}

// ListPools returns all pool snapshots sorted by pool ID
func (s *StakingService) ListPools() ([]*PoolInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]*PoolInfo, 0, len(s.pools))
	for _, p := range s.pools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].PoolID < pools[j].PoolID
	})
	return pools, nil
}

// GetPoolStats aggregates position counts by lock kind
func (s *StakingService) GetPoolStats(poolID string) (*PoolStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, ErrPoolNotFound
	}

	stats := &PoolStats{
		PoolID:        pool.PoolID,
		TotalStaked:   pool.TotalStaked,
		PositionCount: pool.PositionCount,
		RewardsPaid:   pool.RewardsPaid,
	}
	for _, pos := range s.positions[poolID] {
		if pos.LockKind == "locked" {
			stats.LockedCount++
		} else {
			stats.FlexibleCount++
		}
	}
	return stats, nil
}

// Leaderboard returns the top stakers by principal, descending
func (s *StakingService) Leaderboard(poolID string, limit int) ([]*LeaderboardEntry, error) {
	s.mu.RLock()
	lb, ok := s.leaderboards[poolID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrPoolNotFound
	}
	if limit <= 0 {
		limit = 50
	}

	items := lb.Top(limit)
	entries := make([]*LeaderboardEntry, len(items))
	for i, item := range items {
		entries[i] = &LeaderboardEntry{
			Rank:      i + 1,
			Owner:     item.owner,
			Principal: item.principal.String(),
			LockKind:  item.lockKind,
		}
	}
	return entries, nil
}

// UpcomingUnlocks returns locked positions expiring at or before the cutoff
func (s *StakingService) UpcomingUnlocks(poolID string, before int64, limit int) ([]*UnlockEntry, error) {
	s.mu.RLock()
	ul, ok := s.unlocks[poolID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrPoolNotFound
	}
	if limit <= 0 {
		limit = 100
	}

	items := ul.Upcoming(before, limit)
	entries := make([]*UnlockEntry, len(items))
	for i, item := range items {
		entries[i] = &UnlockEntry{
			Owner:      item.owner,
			Principal:  item.principal.String(),
			LockEndsAt: item.endsAt,
		}
	}
	return entries, nil
}

// ============ PositionService ============

// GetPosition returns one owner's position in a pool
func (s *StakingService) GetPosition(poolID, owner string) (*PositionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byOwner, ok := s.positions[poolID]
	if !ok {
		return nil, ErrPoolNotFound
	}
	pos, ok := byOwner[owner]
	if !ok {
		return nil, ErrPositionNotFound
	}
	return pos, nil
}

// ListPoolPositions returns all positions in a pool sorted by owner
func (s *StakingService) ListPoolPositions(poolID string) ([]*PositionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byOwner, ok := s.positions[poolID]
	if !ok {
		return nil, ErrPoolNotFound
	}
	positions := make([]*PositionInfo, 0, len(byOwner))
	for _, pos := range byOwner {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Owner < positions[j].Owner
	})
	return positions, nil
}

// ListOwnerPositions returns an owner's positions across all pools
func (s *StakingService) ListOwnerPositions(owner string) ([]*PositionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var positions []*PositionInfo
	for _, byOwner := range s.positions {
		if pos, ok := byOwner[owner]; ok {
			positions = append(positions, pos)
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].PoolID < positions[j].PoolID
	})
	return positions, nil
}
