package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/waveline/stakechain/api/middleware"
	"github.com/waveline/stakechain/api/types"
	"github.com/waveline/stakechain/api/websocket"
	"github.com/waveline/stakechain/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config

	// Services
	poolService     types.PoolService
	positionService types.PositionService

	// Rate limiter
	rateLimiter *middleware.RateLimiter
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	DisableRateLimit bool // For testing purposes
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// NewServer creates a new API server backed by an empty in-memory index
func NewServer(config *Config) *Server {
	svc := NewStakingService()
	return NewServerWithServices(config, svc, svc)
}

// NewServerWithServices creates a new API server with custom services
func NewServerWithServices(config *Config, poolSvc types.PoolService, positionSvc types.PositionService) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	wsConfig := websocket.DefaultServerConfig()
	wsConfig.Port = config.Port

	// Create rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())

	return &Server{
		config:          config,
		wsServer:        websocket.NewServer(wsConfig),
		poolService:     poolSvc,
		positionService: positionSvc,
		rateLimiter:     rateLimiter,
	}
}

// Start starts the API server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Health check (support both /health and /v1/health for compatibility)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	// Pool endpoints (read-only)
	mux.HandleFunc("/v1/pools", s.handlePools)
	mux.HandleFunc("/v1/pools/", s.handlePoolRoutes)

	// Owner endpoints
	mux.HandleFunc("/v1/positions/", s.handleOwnerPositions)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket
	mux.HandleFunc("/ws", s.wsServer.GetHub().ServeWS)

	// Apply middleware chain: CORS -> RateLimit -> Handler
	var handler http.Handler
	if s.config.DisableRateLimit {
		handler = corsMiddleware(mux)
	} else {
		handler = corsMiddleware(
			middleware.RateLimitMiddleware(s.rateLimiter)(mux),
		)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	// Start WebSocket hub
	go s.wsServer.GetHub().Run()

	// Feed buffered pool snapshots to the hub
	go s.startPoolBroadcaster()

	log.Printf("API server starting on %s", addr)
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	} else {
		log.Printf("Rate limiting enabled: %d req/s per IP", 100)
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// startPoolBroadcaster periodically pushes pool snapshots to websocket
// subscribers.
func (s *Server) startPoolBroadcaster() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		pools, err := s.poolService.ListPools()
		if err != nil {
			continue
		}
		now := time.Now().UnixMilli()
		for _, pool := range pools {
			s.wsServer.BroadcastPool(&websocket.PoolMessage{
				PoolID:         pool.PoolID,
				TotalStaked:    pool.TotalStaked,
				RewardPerShare: pool.RewardPerShare,
				EmissionRate:   pool.EmissionRate,
				PeriodEnd:      pool.PeriodEnd,
				PositionCount:  pool.PositionCount,
				Timestamp:      now,
			})
		}
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// handlePools handles /v1/pools
func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	timer := metrics.NewTimer()

	pools, err := s.poolService.ListPools()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pools": pools,
	})
	metrics.GetCollector().RecordAPIRequest(r.Method, "/v1/pools", "200", timer.ElapsedMs())
}

// handlePoolRoutes handles /v1/pools/{id} and /v1/pools/{id}/{endpoint}
func (s *Server) handlePoolRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	timer := metrics.NewTimer()

	path := r.URL.Path[len("/v1/pools/"):]

	// Extract pool ID and endpoint
	poolID := path
	endpoint := ""
	for i, c := range path {
		if c == '/' {
			poolID = path[:i]
			endpoint = path[i+1:]
			break
		}
	}

	if poolID == "" {
		writeError(w, http.StatusBadRequest, "Pool ID required")
		return
	}

	switch endpoint {
	case "":
		pool, err := s.poolService.GetPool(poolID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pool)

	case "stats":
		stats, err := s.poolService.GetPoolStats(poolID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)

	case "leaderboard":
		limit := parseIntQuery(r, "limit", 50)
		entries, err := s.poolService.Leaderboard(poolID, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pool_id":     poolID,
			"leaderboard": entries,
		})

	case "unlocks":
		before := int64(parseIntQuery(r, "before", 0))
		limit := parseIntQuery(r, "limit", 100)
		entries, err := s.poolService.UpcomingUnlocks(poolID, before, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pool_id": poolID,
			"unlocks": entries,
		})

	case "positions":
		positions, err := s.positionService.ListPoolPositions(poolID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pool_id":   poolID,
			"positions": positions,
		})

	default:
		// /v1/pools/{id}/positions/{owner}
		const posPrefix = "positions/"
		if len(endpoint) > len(posPrefix) && endpoint[:len(posPrefix)] == posPrefix {
			owner := endpoint[len(posPrefix):]
			pos, err := s.positionService.GetPosition(poolID, owner)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, pos)
			break
		}
		writeError(w, http.StatusNotFound, "Endpoint not found")
		return
	}
	metrics.GetCollector().RecordAPIRequest(r.Method, "/v1/pools/{id}/"+endpoint, "200", timer.ElapsedMs())
}

// handleOwnerPositions handles /v1/positions/{owner}
func (s *Server) handleOwnerPositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	owner := r.URL.Path[len("/v1/positions/"):]
	if owner == "" {
		writeError(w, http.StatusBadRequest, "Owner address required")
		return
	}

	positions, err := s.positionService.ListOwnerPositions(owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"owner":     owner,
		"positions": positions,
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrPoolNotFound) || errors.Is(err, ErrPositionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
