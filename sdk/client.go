// Package sdk provides a gRPC client for programmatic access to a
// stakechain node: broadcasting staking transactions and tracking account
// state without CLI overhead.
package sdk

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	stakepooltypes "github.com/waveline/stakechain/x/stakepool/types"
)

// Config holds client configuration.
type Config struct {
	GRPCAddr string
	ChainID  string
	Timeout  time.Duration
}

// DefaultConfig returns defaults for a local node.
func DefaultConfig() *Config {
	return &Config{
		GRPCAddr: "localhost:9090",
		ChainID:  "stakechain-1",
		Timeout:  5 * time.Second,
	}
}

// Client is a gRPC client for a stakechain node. Account sequences are
// cached briefly so back-to-back transactions from the same signer do not
// re-query the chain.
type Client struct {
	conn       *grpc.ClientConn
	txClient   txtypes.ServiceClient
	authClient authtypes.QueryClient
	cdc        codec.Codec
	config     *Config

	accountCache sync.Map
	mu           sync.RWMutex

	txCount      uint64
	successCount uint64
	failCount    uint64
	totalLatency int64
}

// NewClient dials the node's gRPC endpoint.
func NewClient(config *Config, cdc codec.Codec) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	conn, err := grpc.Dial(
		config.GRPCAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(1024*1024*10)), // 10MB
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dial gRPC: %w", err)
	}

	return &Client{
		conn:       conn,
		txClient:   txtypes.NewServiceClient(conn),
		authClient: authtypes.NewQueryClient(conn),
		cdc:        cdc,
		config:     config,
	}, nil
}

// AccountInfo caches account number and sequence for tx building.
type AccountInfo struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
	LastUpdated   time.Time
}

// BroadcastTx broadcasts a signed transaction.
func (c *Client) BroadcastTx(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdk.TxResponse, error) {
	start := time.Now()
	atomic.AddUint64(&c.txCount, 1)

	res, err := c.txClient.BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
		TxBytes: txBytes,
		Mode:    mode,
	})
	atomic.AddInt64(&c.totalLatency, int64(time.Since(start)))
	if err != nil {
		atomic.AddUint64(&c.failCount, 1)
		return nil, fmt.Errorf("broadcast failed: %w", err)
	}
	if res.TxResponse.Code != 0 {
		atomic.AddUint64(&c.failCount, 1)
		return res.TxResponse, fmt.Errorf("tx failed with code %d: %s", res.TxResponse.Code, res.TxResponse.RawLog)
	}
	atomic.AddUint64(&c.successCount, 1)
	return res.TxResponse, nil
}

// BroadcastTxSync broadcasts and waits for the CheckTx result.
func (c *Client) BroadcastTxSync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	return c.BroadcastTx(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_SYNC)
}

// BroadcastTxAsync broadcasts without waiting for CheckTx.
func (c *Client) BroadcastTxAsync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	return c.BroadcastTx(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_ASYNC)
}

// GetAccountInfo fetches or returns cached account info. The cache entry is
// valid for one block (1s target block time).
func (c *Client) GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	if cached, ok := c.accountCache.Load(address); ok {
		info := cached.(*AccountInfo)
		if time.Since(info.LastUpdated) < time.Second {
			return info, nil
		}
	}

	res, err := c.authClient.Account(ctx, &authtypes.QueryAccountRequest{
		Address: address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	var acc sdk.AccountI
	if err := c.cdc.UnpackAny(res.Account, &acc); err != nil {
		return nil, fmt.Errorf("failed to unpack account: %w", err)
	}

	info := &AccountInfo{
		Address:       address,
		AccountNumber: acc.GetAccountNumber(),
		Sequence:      acc.GetSequence(),
		LastUpdated:   time.Now(),
	}
	c.accountCache.Store(address, info)
	return info, nil
}

// IncrementSequence bumps the cached sequence after a successful broadcast
// so the next tx in the same block does not collide.
func (c *Client) IncrementSequence(address string) {
	if cached, ok := c.accountCache.Load(address); ok {
		info := cached.(*AccountInfo)
		c.mu.Lock()
		info.Sequence++
		c.mu.Unlock()
	}
}

// BatchBroadcast sends multiple signed transactions in parallel.
func (c *Client) BatchBroadcast(ctx context.Context, txBytesSlice [][]byte) ([]*sdk.TxResponse, error) {
	results := make([]*sdk.TxResponse, len(txBytesSlice))
	errs := make([]error, len(txBytesSlice))
	var wg sync.WaitGroup

	for i, txBytes := range txBytesSlice {
		wg.Add(1)
		go func(idx int, tb []byte) {
			defer wg.Done()
			res, err := c.BroadcastTxAsync(ctx, tb)
			results[idx] = res
			errs[idx] = err
		}(i, txBytes)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, fmt.Errorf("batch broadcast had errors: %w", err)
		}
	}
	return results, nil
}

// Stats reports broadcast counters since creation or the last reset.
type Stats struct {
	TxCount      uint64
	SuccessCount uint64
	FailCount    uint64
	AvgLatency   time.Duration
}

// GetStats returns the current broadcast counters.
func (c *Client) GetStats() Stats {
	s := Stats{
		TxCount:      atomic.LoadUint64(&c.txCount),
		SuccessCount: atomic.LoadUint64(&c.successCount),
		FailCount:    atomic.LoadUint64(&c.failCount),
	}
	if s.SuccessCount > 0 {
		s.AvgLatency = time.Duration(atomic.LoadInt64(&c.totalLatency) / int64(s.SuccessCount))
	}
	return s
}

// ResetStats zeroes the broadcast counters.
func (c *Client) ResetStats() {
	atomic.StoreUint64(&c.txCount, 0)
	atomic.StoreUint64(&c.successCount, 0)
	atomic.StoreUint64(&c.failCount, 0)
	atomic.StoreInt64(&c.totalLatency, 0)
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ============ Staking message constructors ============

// NewDepositMsg builds a deposit message for the given owner.
func NewDepositMsg(owner, poolID, amount, lockKind string) *stakepooltypes.MsgDeposit {
	return &stakepooltypes.MsgDeposit{
		Owner:    owner,
		PoolID:   poolID,
		Amount:   amount,
		LockKind: lockKind,
	}
}

// NewWithdrawMsg builds a withdraw message for the given owner.
func NewWithdrawMsg(owner, poolID, amount string) *stakepooltypes.MsgWithdraw {
	return &stakepooltypes.MsgWithdraw{
		Owner:  owner,
		PoolID: poolID,
		Amount: amount,
	}
}

// NewClaimMsg builds a claim message for the given owner.
func NewClaimMsg(owner, poolID string) *stakepooltypes.MsgClaim {
	return &stakepooltypes.MsgClaim{
		Owner:  owner,
		PoolID: poolID,
	}
}

// NewClosePositionMsg builds a close message for the given owner.
func NewClosePositionMsg(owner, poolID string) *stakepooltypes.MsgClosePosition {
	return &stakepooltypes.MsgClosePosition{
		Owner:  owner,
		PoolID: poolID,
	}
}
