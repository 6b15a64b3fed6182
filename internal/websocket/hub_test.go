package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastToConcurrentWithRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	message := NewEventMessage(map[string]string{"id": "e1"})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Register <- NewClient(hub, nil, "tenant-1")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.BroadcastTo("tenant-1", message)
		}
	}()
	wg.Wait()
}

func TestBroadcastToReachesOnlySubscribers(t *testing.T) {
	hub := NewHub()
	subscribed := NewClient(hub, nil, "tenant-1")
	other := NewClient(hub, nil, "tenant-2")
	global := NewClient(hub, nil, "")
	hub.add(subscribed)
	hub.add(other)
	hub.add(global)

	hub.BroadcastTo("tenant-1", []byte("notice"))

	assert.Len(t, subscribed.Send, 1)
	assert.Empty(t, other.Send)
	assert.Empty(t, global.Send)
}

func TestSendSkipsUnknownSession(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, "tenant-1")

	hub.Send(client, []byte("reply"))
	assert.Empty(t, client.Send)
}

func TestSendAfterUnregister(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, "tenant-1")
	hub.add(client)
	hub.remove(client)

	// The Send channel is closed at this point; a racing reply must be dropped
	hub.Send(client, []byte("reply"))
	hub.BroadcastTo("tenant-1", []byte("notice"))
}

func TestSlowSessionIsDropped(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, "tenant-1")
	hub.add(client)

	for i := 0; i < cap(client.Send)+1; i++ {
		hub.BroadcastTo("tenant-1", []byte("notice"))
	}

	// The overflowing send evicts the session and closes its channel
	_, open := <-client.Send
	assert.True(t, open)
	for range client.Send {
	}
	hub.Send(client, []byte("reply"))
}
