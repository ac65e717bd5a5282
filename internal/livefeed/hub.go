// Package livefeed streams verification events to connected admin dashboards
// over WebSocket. The feed is read-only: clients receive events, they never
// send them. Events arrive from the Redis event channel, so every API
// instance sees activity from all of them.
package livefeed

import (
	"context"
	"encoding/json"
	"log"

	"campusconnect/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventSource is the subscription capability the hub consumes.
// *storage.Service satisfies it.
type EventSource interface {
	SubscribeEvents(ctx context.Context) *redis.PubSub
}

// Hub fans incoming events out to all registered clients.
type Hub struct {
	clients map[*Client]struct{}

	RegisterCh   chan *Client
	UnregisterCh chan *Client
	BroadcastCh  chan models.Event

	source EventSource
}

// NewHub creates a live feed hub over the given event source.
func NewHub(source EventSource) *Hub {
	return &Hub{
		clients:      make(map[*Client]struct{}),
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		BroadcastCh:  make(chan models.Event, 64),
		source:       source,
	}
}

// Run owns the client set; all mutation happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.startEventListener(ctx)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.RegisterCh:
			h.clients[client] = struct{}{}
			log.Printf("INFO: Live feed client connected (%d active)", len(h.clients))

		case client := <-h.UnregisterCh:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				log.Printf("INFO: Live feed client disconnected (%d active)", len(h.clients))
			}

		case event := <-h.BroadcastCh:
			for client := range h.clients {
				select {
				case client.Send <- event:
				default:
					// Slow consumer; drop it rather than stall the feed.
					delete(h.clients, client)
					client.Close()
				}
			}
		}
	}
}

// startEventListener subscribes to the Redis event channel and forwards
// every parseable event into the broadcast channel.
func (h *Hub) startEventListener(ctx context.Context) {
	if h.source == nil {
		return
	}

	go func() {
		pubsub := h.source.SubscribeEvents(ctx)
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Failed to unmarshal live feed event: %v", err)
				continue
			}

			select {
			case h.BroadcastCh <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
}
