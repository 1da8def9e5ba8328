// Package indexer consumes staking events from a chain node and maintains
// the read-side indexes served by the API. It listens on the CometBFT
// websocket, folds events into position and pool snapshots, and flushes
// batched updates into a sink.
package indexer

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/waveline/stakechain/api/types"
	stakepooltypes "github.com/waveline/stakechain/x/stakepool/types"
)

// Config holds the indexer configuration.
type Config struct {
	BatchSize     int           // Maximum snapshot updates per flush
	FlushInterval time.Duration // Time interval between flushes
	WebSocketURL  string        // CometBFT websocket URL for event subscription
}

// DefaultConfig returns the default indexer configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:     200,
		FlushInterval: 500 * time.Millisecond,
		WebSocketURL:  "ws://localhost:26657/websocket",
	}
}

// Sink receives batched snapshot updates. The API's staking service
// implements it.
type Sink interface {
	UpsertPool(pool *types.PoolInfo)
	UpsertPosition(pos *types.PositionInfo)
	RemovePosition(poolID, owner string)
}

// EventKind identifies the staking event carried by an Event.
type EventKind int

const (
	EventKindPoolCreated EventKind = iota
	EventKindPoolUpdated
	EventKindEmissionConfigured
	EventKindPositionOpened
	EventKindDeposit
	EventKindWithdraw
	EventKindClaim
	EventKindPositionClosed
)

func (k EventKind) String() string {
	switch k {
	case EventKindPoolCreated:
		return stakepooltypes.EventTypePoolCreated
	case EventKindPoolUpdated:
		return stakepooltypes.EventTypePoolUpdated
	case EventKindEmissionConfigured:
		return stakepooltypes.EventTypeEmissionConfigured
	case EventKindPositionOpened:
		return stakepooltypes.EventTypePositionOpened
	case EventKindDeposit:
		return stakepooltypes.EventTypeDeposit
	case EventKindWithdraw:
		return stakepooltypes.EventTypeWithdraw
	case EventKindClaim:
		return stakepooltypes.EventTypeClaim
	case EventKindPositionClosed:
		return stakepooltypes.EventTypePositionClosed
	default:
		return "unknown"
	}
}

// Event is one staking event decoded from the chain stream. Attrs holds the
// raw attribute map keyed by the module's attribute keys.
type Event struct {
	Kind      EventKind
	PoolID    string
	Owner     string
	Attrs     map[string]string
	Timestamp time.Time
}

// Indexer folds chain events into snapshots and flushes them to the sink.
type Indexer struct {
	config *Config
	cache  *SnapshotCache
	sink   Sink

	eventCh chan Event

	// pending snapshot keys touched since the last flush
	dirtyPools     map[string]struct{}
	dirtyPositions map[string]struct{} // poolID/owner
	removed        map[string]struct{} // poolID/owner
	dirtyMu        sync.Mutex

	eventsProcessed uint64
	flushCount      uint64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates an indexer flushing into the given sink.
func New(config *Config, sink Sink) *Indexer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Indexer{
		config:         config,
		cache:          NewSnapshotCache(),
		sink:           sink,
		eventCh:        make(chan Event, 1024),
		dirtyPools:     make(map[string]struct{}),
		dirtyPositions: make(map[string]struct{}),
		removed:        make(map[string]struct{}),
		stopCh:         make(chan struct{}),
	}
}

// Start launches the event and flush loops.
func (ix *Indexer) Start(ctx context.Context) {
	ix.wg.Add(2)
	go ix.eventLoop(ctx)
	go ix.flushLoop(ctx)
	log.Printf("indexer started (flush every %s, batch %d)", ix.config.FlushInterval, ix.config.BatchSize)
}

// Stop shuts down the loops and performs a final flush.
func (ix *Indexer) Stop() {
	close(ix.stopCh)
	ix.wg.Wait()
	ix.flush()
}

// Publish hands one decoded event to the indexer. Drops the event if the
// buffer is full; the next full snapshot refresh repairs any gap.
func (ix *Indexer) Publish(ev Event) {
	select {
	case ix.eventCh <- ev:
	default:
		log.Printf("indexer event buffer full, dropping %s for pool %s", ev.Kind, ev.PoolID)
	}
}

func (ix *Indexer) eventLoop(ctx context.Context) {
	defer ix.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ix.stopCh:
			return
		case ev := <-ix.eventCh:
			ix.handleEvent(ev)
			atomic.AddUint64(&ix.eventsProcessed, 1)
		}
	}
}

func (ix *Indexer) flushLoop(ctx context.Context) {
	defer ix.wg.Done()
	ticker := time.NewTicker(ix.config.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ix.stopCh:
			return
		case <-ticker.C:
			ix.flush()
		}
	}
}

// handleEvent folds one event into the snapshot cache and marks the touched
// keys dirty for the next flush.
func (ix *Indexer) handleEvent(ev Event) {
	switch ev.Kind {
	case EventKindPoolCreated, EventKindPoolUpdated, EventKindEmissionConfigured:
		ix.applyPoolEvent(ev)
	case EventKindPositionOpened, EventKindDeposit, EventKindWithdraw, EventKindClaim:
		ix.applyPositionEvent(ev)
	case EventKindPositionClosed:
		ix.cache.RemovePosition(ev.PoolID, ev.Owner)
		ix.dirtyMu.Lock()
		key := positionKey(ev.PoolID, ev.Owner)
		delete(ix.dirtyPositions, key)
		ix.removed[key] = struct{}{}
		ix.dirtyMu.Unlock()
	}
}

func (ix *Indexer) applyPoolEvent(ev Event) {
	pool := ix.cache.GetPool(ev.PoolID)
	if pool == nil {
		pool = &types.PoolInfo{
			PoolID:         ev.PoolID,
			TotalStaked:    "0",
			RewardPerShare: "0",
			RewardsPaid:    "0",
			EmissionRate:   "0",
		}
	} else {
		cp := *pool
		pool = &cp
	}

	setString(&pool.Authority, ev.Attrs[stakepooltypes.AttrKeyAuthority])
	setString(&pool.StakeDenom, ev.Attrs["stake_denom"])
	setString(&pool.RewardDenom, ev.Attrs["reward_denom"])
	setString(&pool.EmissionRate, ev.Attrs[stakepooltypes.AttrKeyEmissionRate])
	setString(&pool.TotalStaked, ev.Attrs[stakepooltypes.AttrKeyTotalStaked])
	setString(&pool.RewardPerShare, ev.Attrs[stakepooltypes.AttrKeyRewardPerShare])
	setInt(&pool.PeriodStart, ev.Attrs[stakepooltypes.AttrKeyPeriodStart])
	setInt(&pool.PeriodEnd, ev.Attrs[stakepooltypes.AttrKeyPeriodEnd])
	setInt(&pool.LockDuration, ev.Attrs["lock_duration"])
	setInt(&pool.LockBonusBps, ev.Attrs["lock_bonus_bps"])
	pool.UpdatedAt = ev.Timestamp.Unix()

	ix.cache.SetPool(pool)
	ix.dirtyMu.Lock()
	ix.dirtyPools[ev.PoolID] = struct{}{}
	ix.dirtyMu.Unlock()
}

func (ix *Indexer) applyPositionEvent(ev Event) {
	pos := ix.cache.GetPosition(ev.PoolID, ev.Owner)
	if pos == nil {
		pos = &types.PositionInfo{
			PoolID:          ev.PoolID,
			Owner:           ev.Owner,
			Principal:       "0",
			AccruedReward:   "0",
			BonusMultiplier: 10000,
		}
	} else {
		cp := *pos
		pos = &cp
	}

	setString(&pos.Principal, ev.Attrs[stakepooltypes.AttrKeyPrincipal])
	setString(&pos.AccruedReward, ev.Attrs[stakepooltypes.AttrKeyAccruedReward])
	setString(&pos.LockKind, ev.Attrs[stakepooltypes.AttrKeyLockKind])
	setInt(&pos.LockEndsAt, ev.Attrs[stakepooltypes.AttrKeyLockEndsAt])
	setInt(&pos.BonusMultiplier, ev.Attrs[stakepooltypes.AttrKeyBonusMultiplier])
	pos.UpdatedAt = ev.Timestamp.Unix()

	ix.cache.SetPosition(pos)
	ix.dirtyMu.Lock()
	ix.dirtyPositions[positionKey(ev.PoolID, ev.Owner)] = struct{}{}
	ix.dirtyMu.Unlock()

	// Deposit and withdraw events carry the pool's new total; keep the pool
	// snapshot current too.
	if _, ok := ev.Attrs[stakepooltypes.AttrKeyTotalStaked]; ok {
		ix.applyPoolEvent(Event{
			Kind:      EventKindPoolUpdated,
			PoolID:    ev.PoolID,
			Attrs:     ev.Attrs,
			Timestamp: ev.Timestamp,
		})
	}
}

// flush pushes all dirty snapshots to the sink, bounded by BatchSize per
// call. Remaining keys stay dirty for the next tick.
func (ix *Indexer) flush() {
	ix.dirtyMu.Lock()
	pools := takeKeys(ix.dirtyPools, ix.config.BatchSize)
	positions := takeKeys(ix.dirtyPositions, ix.config.BatchSize)
	removed := takeKeys(ix.removed, ix.config.BatchSize)
	ix.dirtyMu.Unlock()

	if len(pools) == 0 && len(positions) == 0 && len(removed) == 0 {
		return
	}

	for _, poolID := range pools {
		if pool := ix.cache.GetPool(poolID); pool != nil {
			ix.sink.UpsertPool(pool)
		}
	}
	for _, key := range positions {
		poolID, owner := splitPositionKey(key)
		if pos := ix.cache.GetPosition(poolID, owner); pos != nil {
			ix.sink.UpsertPosition(pos)
		}
	}
	for _, key := range removed {
		poolID, owner := splitPositionKey(key)
		ix.sink.RemovePosition(poolID, owner)
	}
	atomic.AddUint64(&ix.flushCount, 1)
}

// Stats reports indexer throughput counters.
type Stats struct {
	EventsProcessed uint64 `json:"events_processed"`
	FlushCount      uint64 `json:"flush_count"`
	CachedPools     int    `json:"cached_pools"`
	CachedPositions int    `json:"cached_positions"`
}

// GetStats returns the current counters.
func (ix *Indexer) GetStats() Stats {
	pools, positions := ix.cache.Counts()
	return Stats{
		EventsProcessed: atomic.LoadUint64(&ix.eventsProcessed),
		FlushCount:      atomic.LoadUint64(&ix.flushCount),
		CachedPools:     pools,
		CachedPositions: positions,
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int64, v string) {
	if v == "" {
		return
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		*dst = n
	}
}

func takeKeys(m map[string]struct{}, limit int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if len(out) >= limit {
			break
		}
		out = append(out, k)
		delete(m, k)
	}
	return out
}

func splitPositionKey(key string) (poolID, owner string) {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}
