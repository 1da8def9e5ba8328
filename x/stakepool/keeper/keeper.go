package keeper

import (
	"encoding/binary"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/waveline/stakechain/x/stakepool/types"
)

// Store key prefixes
var (
	PoolKeyPrefix          = []byte{0x01}
	PositionKeyPrefix      = []byte{0x02}
	OwnerPositionKeyPrefix = []byte{0x03}
	PoolCountKey           = []byte{0x04}
)

// Keeper manages the stakepool module state
type Keeper struct {
	cdc       codec.BinaryCodec
	storeKey  storetypes.StoreKey
	assets    AssetMover
	logger    log.Logger
	authority string
}

// NewKeeper creates a new stakepool keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	assets AssetMover,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:       cdc,
		storeKey:  storeKey,
		assets:    assets,
		authority: authority,
		logger:    logger.With("module", "x/stakepool"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the address allowed to create pools
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Pool Operations ============

func poolKey(poolID string) []byte {
	return append(PoolKeyPrefix, []byte(poolID)...)
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(poolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	bz := store.Get(poolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// GetPoolCount returns the number of pools ever created
func (k *Keeper) GetPoolCount(ctx sdk.Context) uint64 {
	store := k.GetStore(ctx)
	bz := store.Get(PoolCountKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// setPoolCount stores the pool counter
func (k *Keeper) setPoolCount(ctx sdk.Context, count uint64) {
	store := k.GetStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, count)
	store.Set(PoolCountKey, bz)
}

// ============ Position Operations ============

func positionKey(poolID, owner string) []byte {
	return append(PositionKeyPrefix, []byte(poolID+":"+owner)...)
}

func ownerPositionKey(owner, poolID string) []byte {
	return append(OwnerPositionKeyPrefix, []byte(owner+":"+poolID)...)
}

// SetPosition saves a position and its owner index
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.Position) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pos)
	store.Set(positionKey(pos.PoolID, pos.Owner), bz)
	store.Set(ownerPositionKey(pos.Owner, pos.PoolID), []byte(pos.PoolID))
}

// GetPosition retrieves a position from the store
func (k *Keeper) GetPosition(ctx sdk.Context, poolID, owner string) *types.Position {
	store := k.GetStore(ctx)
	bz := store.Get(positionKey(poolID, owner))
	if bz == nil {
		return nil
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil
	}
	return &pos
}

// DeletePosition removes a position and its owner index
func (k *Keeper) DeletePosition(ctx sdk.Context, poolID, owner string) {
	store := k.GetStore(ctx)
	store.Delete(positionKey(poolID, owner))
	store.Delete(ownerPositionKey(owner, poolID))
}

// GetPoolPositions returns all positions in a pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, poolID string) []*types.Position {
	store := k.GetStore(ctx)
	prefix := append(PositionKeyPrefix, []byte(poolID+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// GetOwnerPositions returns all positions an owner holds across pools
func (k *Keeper) GetOwnerPositions(ctx sdk.Context, owner string) []*types.Position {
	store := k.GetStore(ctx)
	prefix := append(OwnerPositionKeyPrefix, []byte(owner+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		poolID := string(iterator.Value())
		if pos := k.GetPosition(ctx, poolID, owner); pos != nil {
			positions = append(positions, pos)
		}
	}
	return positions
}
