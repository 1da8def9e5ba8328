package api

import (
	"sync"

	"cosmossdk.io/math"
	"github.com/google/btree"
	"github.com/huandu/skiplist"
)

const btreeDegree = 32 // B-tree degree, affects node size and cache efficiency

// stakeItem wraps one staker's principal for the leaderboard tree.
// Implements btree.Item interface
type stakeItem struct {
	principal math.Int
	owner     string
	lockKind  string
}

// Less orders items ascending by principal, owner as tie-breaker so the
// tree can hold two stakers with equal principal.
func (a *stakeItem) Less(b btree.Item) bool {
	o := b.(*stakeItem)
	if a.principal.Equal(o.principal) {
		return a.owner < o.owner
	}
	return a.principal.LT(o.principal)
}

// leaderboardIndex ranks a pool's stakers by principal.
type leaderboardIndex struct {
	tree *btree.BTree
	// owner -> current item, needed to remove the stale entry on update
	byOwner map[string]*stakeItem
	mu      sync.RWMutex
}

func newLeaderboardIndex() *leaderboardIndex {
	return &leaderboardIndex{
		tree:    btree.New(btreeDegree),
		byOwner: make(map[string]*stakeItem),
	}
}

// Upsert replaces the owner's entry. A zero principal removes it.
func (l *leaderboardIndex) Upsert(owner, lockKind string, principal math.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.byOwner[owner]; ok {
		l.tree.Delete(old)
		delete(l.byOwner, owner)
	}
	if !principal.IsPositive() {
		return
	}
	item := &stakeItem{principal: principal, owner: owner, lockKind: lockKind}
	l.tree.ReplaceOrInsert(item)
	l.byOwner[owner] = item
}

// Remove drops the owner's entry if present.
func (l *leaderboardIndex) Remove(owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.byOwner[owner]; ok {
		l.tree.Delete(old)
		delete(l.byOwner, owner)
	}
}

// Top returns up to limit stakers ordered by descending principal.
func (l *leaderboardIndex) Top(limit int) []*stakeItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*stakeItem, 0, limit)
	l.tree.Descend(func(item btree.Item) bool {
		out = append(out, item.(*stakeItem))
		return len(out) < limit
	})
	return out
}

// Len returns the number of ranked stakers.
func (l *leaderboardIndex) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// unlockKey orders unlock entries ascending by lock expiry, owner as
// tie-breaker.
type unlockKey struct {
	endsAt int64
	owner  string
}

// unlockKeyAsc is the skiplist comparator for unlockKey.
type unlockKeyAsc struct{}

func (k unlockKeyAsc) Compare(lhs, rhs interface{}) int {
	l := lhs.(unlockKey)
	r := rhs.(unlockKey)
	if l.endsAt != r.endsAt {
		if l.endsAt < r.endsAt {
			return -1
		}
		return 1
	}
	if l.owner != r.owner {
		if l.owner < r.owner {
			return -1
		}
		return 1
	}
	return 0
}

func (k unlockKeyAsc) CalcScore(key interface{}) float64 {
	return float64(key.(unlockKey).endsAt)
}

// unlockEntry is the stored value for a locked position.
type unlockEntry struct {
	owner     string
	principal math.Int
	endsAt    int64
}

// unlockIndex tracks a pool's locked positions ordered by unlock time.
// Provides O(log n) insertion and deletion.
type unlockIndex struct {
	list *skiplist.SkipList
	// owner -> key currently in the list
	byOwner map[string]unlockKey
	mu      sync.RWMutex
}

func newUnlockIndex() *unlockIndex {
	return &unlockIndex{
		list:    skiplist.New(unlockKeyAsc{}),
		byOwner: make(map[string]unlockKey),
	}
}

// Upsert records the owner's unlock time. A zero endsAt or zero principal
// removes the entry (flexible or emptied position).
func (u *unlockIndex) Upsert(owner string, principal math.Int, endsAt int64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if old, ok := u.byOwner[owner]; ok {
		u.list.Remove(old)
		delete(u.byOwner, owner)
	}
	if endsAt <= 0 || !principal.IsPositive() {
		return
	}
	key := unlockKey{endsAt: endsAt, owner: owner}
	u.list.Set(key, &unlockEntry{owner: owner, principal: principal, endsAt: endsAt})
	u.byOwner[owner] = key
}

// Remove drops the owner's entry if present.
func (u *unlockIndex) Remove(owner string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if old, ok := u.byOwner[owner]; ok {
		u.list.Remove(old)
		delete(u.byOwner, owner)
	}
}

// Upcoming returns up to limit entries unlocking at or before the cutoff,
// soonest first. A cutoff of zero means no bound.
func (u *unlockIndex) Upcoming(before int64, limit int) []*unlockEntry {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make([]*unlockEntry, 0, limit)
	for el := u.list.Front(); el != nil && len(out) < limit; el = el.Next() {
		entry := el.Value.(*unlockEntry)
		if before > 0 && entry.endsAt > before {
			break
		}
		out = append(out, entry)
	}
	return out
}

// Len returns the number of tracked locked positions.
func (u *unlockIndex) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.list.Len()
}
