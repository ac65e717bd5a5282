package livefeed

import (
	"context"
	"testing"
	"time"

	"campusconnect/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// newChanClient builds a hub client without a websocket connection; only the
// Send channel matters to the hub loop.
func newChanClient(buffer int) *Client {
	return &Client{Send: make(chan models.Event, buffer)}
}

// TestHubBroadcastReachesAllClients verifies every registered client gets
// each broadcast event.
func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := newChanClient(4)
	b := newChanClient(4)
	hub.RegisterCh <- a
	hub.RegisterCh <- b

	event := models.Event{Type: models.EventClaimVerified, ClaimID: "claim-1"}
	hub.BroadcastCh <- event

	for _, client := range []*Client{a, b} {
		select {
		case got := <-client.Send:
			assert.Equal(t, "claim-1", got.ClaimID)
		case <-time.After(time.Second):
			t.Fatal("client did not receive the broadcast event")
		}
	}
}

// TestHubUnregisterStopsDelivery verifies an unregistered client's channel
// is closed and it receives nothing further.
func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := newChanClient(4)
	hub.RegisterCh <- client
	hub.UnregisterCh <- client

	hub.BroadcastCh <- models.Event{Type: models.EventItemReported}

	select {
	case _, open := <-client.Send:
		assert.False(t, open, "send channel must be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

// TestHubDropsSlowConsumer verifies a client with a full buffer is evicted
// instead of stalling the broadcast loop.
func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := newChanClient(0)
	fast := newChanClient(4)
	hub.RegisterCh <- slow
	hub.RegisterCh <- fast

	// The slow client never reads; two broadcasts guarantee the second one
	// finds its buffer full.
	hub.BroadcastCh <- models.Event{Type: models.EventItemReported, ItemID: "i1"}
	hub.BroadcastCh <- models.Event{Type: models.EventItemReported, ItemID: "i2"}

	received := 0
	timeout := time.After(time.Second)
	for received < 2 {
		select {
		case <-fast.Send:
			received++
		case <-timeout:
			t.Fatal("fast client missed a broadcast")
		}
	}
}
