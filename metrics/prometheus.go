package metrics

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StakeChain Metrics Collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all StakeChain metrics
type Collector struct {
	// Staking flow metrics
	DepositsTotal   *prometheus.CounterVec
	WithdrawsTotal  *prometheus.CounterVec
	ClaimsTotal     *prometheus.CounterVec
	DepositVolume   *prometheus.CounterVec
	WithdrawVolume  *prometheus.CounterVec
	RewardsPaid     *prometheus.CounterVec

	// Pool state metrics
	PoolTotalStaked   *prometheus.GaugeVec
	PoolPositionCount *prometheus.GaugeVec
	PoolEmissionRate  *prometheus.GaugeVec

	// Settlement metrics
	SettlementLatency  *prometheus.HistogramVec
	SettlementFailures *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec
	WSSubscriptions     *prometheus.GaugeVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Staking flow metrics
	c.DepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "staking",
			Name:      "deposits_total",
			Help:      "Total number of deposits",
		},
		[]string{"pool_id", "lock_kind"},
	)

	c.WithdrawsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "staking",
			Name:      "withdraws_total",
			Help:      "Total number of withdrawals",
		},
		[]string{"pool_id"},
	)

	c.ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "staking",
			Name:      "claims_total",
			Help:      "Total number of reward claims",
		},
		[]string{"pool_id"},
	)

	c.DepositVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "staking",
			Name:      "deposit_volume",
			Help:      "Total deposited principal (in stake units)",
		},
		[]string{"pool_id"},
	)

	c.WithdrawVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "staking",
			Name:      "withdraw_volume",
			Help:      "Total withdrawn principal (in stake units)",
		},
		[]string{"pool_id"},
	)

	c.RewardsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "staking",
			Name:      "rewards_paid",
			Help:      "Total rewards paid out (in reward units)",
		},
		[]string{"pool_id"},
	)

	// Pool state metrics
	c.PoolTotalStaked = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stakechain",
			Subsystem: "pool",
			Name:      "total_staked",
			Help:      "Current total staked principal per pool",
		},
		[]string{"pool_id"},
	)

	c.PoolPositionCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stakechain",
			Subsystem: "pool",
			Name:      "position_count",
			Help:      "Number of open positions per pool",
		},
		[]string{"pool_id"},
	)

	c.PoolEmissionRate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stakechain",
			Subsystem: "pool",
			Name:      "emission_rate",
			Help:      "Reward units emitted per second",
		},
		[]string{"pool_id"},
	)

	// Settlement metrics
	c.SettlementLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stakechain",
			Subsystem: "settlement",
			Name:      "latency_ms",
			Help:      "Accumulator settlement latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50},
		},
		[]string{},
	)

	c.SettlementFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "settlement",
			Name:      "failures_total",
			Help:      "Total failed pool settlements",
		},
		[]string{"pool_id"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stakechain",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stakechain",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stakechain",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Number of active subscriptions per channel",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stakechain",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "error_type"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stakechain",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Total rate limit hits",
		},
		[]string{"limit_type"},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stakechain",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stakechain",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Staking flow metrics
	prometheus.MustRegister(c.DepositsTotal)
	prometheus.MustRegister(c.WithdrawsTotal)
	prometheus.MustRegister(c.ClaimsTotal)
	prometheus.MustRegister(c.DepositVolume)
	prometheus.MustRegister(c.WithdrawVolume)
	prometheus.MustRegister(c.RewardsPaid)

	// Pool state metrics
	prometheus.MustRegister(c.PoolTotalStaked)
	prometheus.MustRegister(c.PoolPositionCount)
	prometheus.MustRegister(c.PoolEmissionRate)

	// Settlement metrics
	prometheus.MustRegister(c.SettlementLatency)
	prometheus.MustRegister(c.SettlementFailures)

	// WebSocket metrics
	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSMessageLatency)
	prometheus.MustRegister(c.WSSubscriptions)

	// API metrics
	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	// System metrics
	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
}

// ============ Recording Helpers ============

// intToFloat converts a chain amount to a float for gauges and counters.
// Precision loss above 2^53 is acceptable for monitoring.
func intToFloat(amount math.Int) float64 {
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	return f
}

// RecordDeposit records a deposit event
func (c *Collector) RecordDeposit(poolID, lockKind string, amount math.Int) {
	c.DepositsTotal.WithLabelValues(poolID, lockKind).Inc()
	c.DepositVolume.WithLabelValues(poolID).Add(intToFloat(amount))
}

// RecordWithdraw records a withdrawal event
func (c *Collector) RecordWithdraw(poolID string, amount math.Int) {
	c.WithdrawsTotal.WithLabelValues(poolID).Inc()
	c.WithdrawVolume.WithLabelValues(poolID).Add(intToFloat(amount))
}

// RecordClaim records a reward claim
func (c *Collector) RecordClaim(poolID string, amount math.Int) {
	c.ClaimsTotal.WithLabelValues(poolID).Inc()
	c.RewardsPaid.WithLabelValues(poolID).Add(intToFloat(amount))
}

// RecordPoolState records a pool state snapshot
func (c *Collector) RecordPoolState(poolID string, totalStaked, emissionRate math.Int, positionCount int64) {
	c.PoolTotalStaked.WithLabelValues(poolID).Set(intToFloat(totalStaked))
	c.PoolEmissionRate.WithLabelValues(poolID).Set(intToFloat(emissionRate))
	c.PoolPositionCount.WithLabelValues(poolID).Set(float64(positionCount))
}

// RecordSettlementFailure records a failed pool settlement
func (c *Collector) RecordSettlementFailure(poolID string) {
	c.SettlementFailures.WithLabelValues(poolID).Inc()
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// SetPoolTotalStaked sets the staked gauge for a pool
func SetPoolTotalStaked(poolID string, totalStaked math.Int) {
	GetCollector().PoolTotalStaked.WithLabelValues(poolID).Set(intToFloat(totalStaked))
}

// ObserveSettlementDuration records an end-of-block settlement pass
func ObserveSettlementDuration(d time.Duration) {
	GetCollector().SettlementLatency.WithLabelValues().Observe(float64(d.Microseconds()) / 1000.0)
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
