package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lumen-dev/lumen/pkg/runtime"
)

// Hub manages WebSocket connections for hot updates. Every connected
// client receives every broadcast; there is no per-client state on the
// server side.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewHub creates a new update hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	metricsConnectedClients(1)

	// Keep connection alive until client disconnects
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()

	metricsConnectedClients(-1)
}

// NotifyUpdate sends one module's replacement code to all clients.
func (h *Hub) NotifyUpdate(id, body string) {
	h.broadcast(runtime.Message{Type: runtime.MessageUpdate, ID: id, Body: body})
	metricsUpdateSent()
}

// NotifyReload sends a full page reload message to all clients.
func (h *Hub) NotifyReload() {
	h.broadcast(runtime.Message{Type: runtime.MessageReload})
	metricsReloadSent()
}

// NotifyError sends a build error message to all clients.
func (h *Hub) NotifyError(errMsg string) {
	h.broadcast(runtime.Message{Type: runtime.MessageError, Error: errMsg})
}

// ClearError clears the error overlay on all clients.
func (h *Hub) ClearError() {
	h.broadcast(runtime.Message{Type: runtime.MessageClear})
}

// broadcast sends a message to all connected clients.
func (h *Hub) broadcast(msg runtime.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		err := client.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
