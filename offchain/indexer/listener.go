package indexer

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	stakepooltypes "github.com/waveline/stakechain/x/stakepool/types"
)

// ChainListener subscribes to staking events over a node's CometBFT
// websocket and publishes decoded events to the indexer. Reconnects with
// backoff when the connection drops.
type ChainListener struct {
	url     string
	indexer *Indexer
}

// NewChainListener creates a listener feeding the given indexer.
func NewChainListener(url string, ix *Indexer) *ChainListener {
	return &ChainListener{url: url, indexer: ix}
}

// rpcRequest is the CometBFT JSON-RPC subscribe frame.
type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	ID      int               `json:"id"`
	Params  map[string]string `json:"params"`
}

// rpcResponse carries the event payload of a subscription notification.
type rpcResponse struct {
	Result struct {
		Events map[string][]string `json:"events"`
	} `json:"result"`
}

// Run connects and consumes events until the context is cancelled.
func (l *ChainListener) Run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := l.consume(ctx); err != nil {
			log.Printf("chain listener disconnected: %v (reconnecting in %s)", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *ChainListener) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := rpcRequest{
		JSONRPC: "2.0",
		Method:  "subscribe",
		ID:      1,
		Params:  map[string]string{"query": "tm.event='Tx'"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	log.Printf("chain listener subscribed to %s", l.url)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var resp rpcResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			continue
		}
		l.decode(resp.Result.Events)
	}
}

// decode turns CometBFT's flattened event map ("type.attr" -> values) into
// indexer events. Events of the same type within one tx arrive as parallel
// value slices.
func (l *ChainListener) decode(flat map[string][]string) {
	now := time.Now()
	for _, eventType := range []string{
		stakepooltypes.EventTypePoolCreated,
		stakepooltypes.EventTypePoolUpdated,
		stakepooltypes.EventTypeEmissionConfigured,
		stakepooltypes.EventTypePositionOpened,
		stakepooltypes.EventTypeDeposit,
		stakepooltypes.EventTypeWithdraw,
		stakepooltypes.EventTypeClaim,
		stakepooltypes.EventTypePositionClosed,
	} {
		poolIDs, ok := flat[eventType+"."+stakepooltypes.AttrKeyPoolID]
		if !ok {
			continue
		}
		kind, ok := kindFor(eventType)
		if !ok {
			continue
		}

		for i, poolID := range poolIDs {
			attrs := make(map[string]string)
			prefix := eventType + "."
			for key, values := range flat {
				if !strings.HasPrefix(key, prefix) || i >= len(values) {
					continue
				}
				attrs[strings.TrimPrefix(key, prefix)] = values[i]
			}
			l.indexer.Publish(Event{
				Kind:      kind,
				PoolID:    poolID,
				Owner:     attrs[stakepooltypes.AttrKeyOwner],
				Attrs:     attrs,
				Timestamp: now,
			})
		}
	}
}

func kindFor(eventType string) (EventKind, bool) {
	switch eventType {
	case stakepooltypes.EventTypePoolCreated:
		return EventKindPoolCreated, true
	case stakepooltypes.EventTypePoolUpdated:
		return EventKindPoolUpdated, true
	case stakepooltypes.EventTypeEmissionConfigured:
		return EventKindEmissionConfigured, true
	case stakepooltypes.EventTypePositionOpened:
		return EventKindPositionOpened, true
	case stakepooltypes.EventTypeDeposit:
		return EventKindDeposit, true
	case stakepooltypes.EventTypeWithdraw:
		return EventKindWithdraw, true
	case stakepooltypes.EventTypeClaim:
		return EventKindClaim, true
	case stakepooltypes.EventTypePositionClosed:
		return EventKindPositionClosed, true
	default:
		return 0, false
	}
}
