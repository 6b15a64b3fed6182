package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of connected dashboard sessions and routes pushed
// notifications (new events, generated reports) to subscribers of a tenant.
// Broadcasts arrive from handler and scheduler goroutines, so all map access
// goes through the mutex; Send channels are only ever closed while it is held.
type Hub struct {
	mu sync.Mutex

	// Registered connections.
	clients map[*Client]bool

	// Tenant ID to the set of connections watching that tenant.
	subscriptions map[string]map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from connections.
	Register chan *Client

	// Unregister requests from connections.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.Broadcast:
			h.broadcastAll(message)
		}
	}
}

// BroadcastTo sends a message to every session subscribed to a tenant.
func (h *Hub) BroadcastTo(tenantID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.subscriptions[tenantID] {
		select {
		case client.Send <- message:
		default:
			h.drop(client)
		}
	}
}

// Send delivers a message to one session. Sessions that have already been
// unregistered are skipped, so a reply racing an unregister is a no-op rather
// than a send on a closed channel.
func (h *Hub) Send(client *Client, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	log.Info().Int("total_clients", len(h.clients)).Msg("Dashboard session connected")
	if client.TenantID != "" {
		if h.subscriptions[client.TenantID] == nil {
			h.subscriptions[client.TenantID] = make(map[*Client]bool)
		}
		h.subscriptions[client.TenantID][client] = true
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client] {
		h.drop(client)
		log.Info().Int("total_clients", len(h.clients)).Msg("Dashboard session disconnected")
	}
}

func (h *Hub) broadcastAll(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			h.drop(client)
		}
	}
}

// drop removes a session and closes its Send channel. Callers must hold mu.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	if client.TenantID != "" {
		if subs := h.subscriptions[client.TenantID]; subs != nil {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, client.TenantID)
			}
		}
	}
}
