package indexer

import (
	"sync"

	"github.com/waveline/stakechain/api/types"
)

// SnapshotCache is a thread-safe cache of the latest pool and position
// snapshots seen on the event stream. Flushes read from here so a burst of
// events for the same position collapses into one sink update.
type SnapshotCache struct {
	pools     map[string]*types.PoolInfo
	positions map[string]*types.PositionInfo // poolID/owner -> snapshot
	mu        sync.RWMutex
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		pools:     make(map[string]*types.PoolInfo),
		positions: make(map[string]*types.PositionInfo),
	}
}

func positionKey(poolID, owner string) string {
	return poolID + "/" + owner
}

// SetPool stores the latest pool snapshot.
func (c *SnapshotCache) SetPool(pool *types.PoolInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[pool.PoolID] = pool
}

// GetPool returns the cached pool snapshot, or nil.
func (c *SnapshotCache) GetPool(poolID string) *types.PoolInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pools[poolID]
}

// SetPosition stores the latest position snapshot.
func (c *SnapshotCache) SetPosition(pos *types.PositionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions[positionKey(pos.PoolID, pos.Owner)] = pos
}

// GetPosition returns the cached position snapshot, or nil.
func (c *SnapshotCache) GetPosition(poolID, owner string) *types.PositionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.positions[positionKey(poolID, owner)]
}

// RemovePosition drops a closed position from the cache.
func (c *SnapshotCache) RemovePosition(poolID, owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.positions, positionKey(poolID, owner))
}

// Counts returns cached pool and position counts.
func (c *SnapshotCache) Counts() (pools, positions int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pools), len(c.positions)
}
