package ws

import (
	"context"
	"log/slog"
	"sync"
)

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage
	done       chan struct{}
	mu         sync.RWMutex

	// OnMessage is called for each incoming client message.
	OnMessage func(cm *ClientMessage)
	// OnConnect is called after a client is registered.
	OnConnect func(client *Client)
	// OnDisconnect is called when a client disconnects.
	OnDisconnect func(client *Client)
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run routes hub events until ctx is done, then closes every client's
// send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			slog.Info("client connected", "client", client.ID)
			if h.OnConnect != nil {
				h.OnConnect(client)
			}

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.closeSend()
			}
			h.mu.Unlock()
			slog.Info("client disconnected", "client", client.ID)
			if h.OnDisconnect != nil {
				h.OnDisconnect(client)
			}

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.Clients {
		client.SendMessage(msg)
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.Clients {
		delete(h.Clients, client)
		client.closeSend()
	}
}
