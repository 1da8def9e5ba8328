package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by channel
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Latest pool snapshots, flushed to subscribers on a fixed interval
	poolBuffer map[string]*PoolMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Configuration
	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Pool snapshot broadcast interval
	PoolInterval time.Duration // Default: 1s

	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Rate limiting
	MessageRateLimit int // Messages per second per client
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		PoolInterval:     time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		poolBuffer:  make(map[string]*PoolMessage),
		config:      config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	poolTicker := time.NewTicker(h.config.PoolInterval)
	defer poolTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-poolTicker.C:
			h.broadcastPools()
		}
	}
}

// registerClient adds a new client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

// unregisterClient removes a client
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		// Remove from all channels
		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		close(client.send)
	}
}

// handleSubscription handles a subscription request
func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	// Send subscription confirmation
	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// handleUnsubscription handles an unsubscription request
func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	// Send unsubscription confirmation
	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// broadcastMessage sends a message to all clients
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Make a copy of clients to avoid holding lock during send
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePool updates the buffered snapshot for a pool
func (h *Hub) UpdatePool(poolID string, pool *PoolMessage) {
	h.mu.Lock()
	h.poolBuffer[poolID] = pool
	h.mu.Unlock()
}

// broadcastPools flushes all buffered pool snapshots
func (h *Hub) broadcastPools() {
	h.mu.RLock()
	pools := make(map[string]*PoolMessage)
	for k, v := range h.poolBuffer {
		pools[k] = v
	}
	h.mu.RUnlock()

	for poolID, pool := range pools {
		channel := "pool:" + poolID
		msg := &WSMessage{
			Type:    "pool",
			Channel: channel,
			Data:    pool,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// BroadcastPosition broadcasts a position update to its owner
func (h *Hub) BroadcastPosition(owner string, position *PositionMessage) {
	channel := "positions:" + owner
	msg := &WSMessage{
		Type:    "position",
		Channel: channel,
		Data:    position,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastReward broadcasts a reward payout to its recipient
func (h *Hub) BroadcastReward(owner string, reward *RewardMessage) {
	channel := "rewards:" + owner
	msg := &WSMessage{
		Type:    "reward",
		Channel: channel,
		Data:    reward,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PoolMessage represents a pool state snapshot
type PoolMessage struct {
	PoolID         string `json:"pool_id"`
	TotalStaked    string `json:"total_staked"`
	RewardPerShare string `json:"reward_per_share"`
	EmissionRate   string `json:"emission_rate"`
	PeriodEnd      int64  `json:"period_end"`
	PositionCount  int64  `json:"position_count"`
	Timestamp      int64  `json:"timestamp"`
}

// PositionMessage represents a position update
type PositionMessage struct {
	PoolID        string `json:"pool_id"`
	Owner         string `json:"owner"`
	Principal     string `json:"principal"`
	AccruedReward string `json:"accrued_reward"`
	LockKind      string `json:"lock_kind"`
	LockEndsAt    int64  `json:"lock_ends_at,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// RewardMessage represents a reward payout
type RewardMessage struct {
	PoolID      string `json:"pool_id"`
	Owner       string `json:"owner"`
	Amount      string `json:"amount"`
	RewardDenom string `json:"reward_denom"`
	Timestamp   int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = generateID()
	}

	owner := r.URL.Query().Get("owner")
	ip := getClientIPFromRequest(r)

	client := NewClient(h, conn, clientID, owner, ip)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Helper function to get client IP
func getClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

// Generate a simple ID
func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
