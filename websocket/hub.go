package websocket

import (
	"sync"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Admin feed event types
const (
	EventConnected           = "connected"
	EventWithdrawalRequested = "withdrawal_requested"
	EventPaymentSettled      = "payment_settled"
)

// Event represents a message sent over WebSocket
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	At      time.Time   `json:"at"`
}

// Client represents a connected admin console
type Client struct {
	AdminID primitive.ObjectID
	Conn    *websocket.Conn
	send    chan Event
}

// Hub maintains the set of connected admins and fans events out to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for every connected admin. Clients whose queue
// is full miss the event.
func (h *Hub) Broadcast(eventType, message string, data interface{}) {
	evt := Event{Type: eventType, Message: message, Data: data, At: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- evt:
		default:
			logger.Log.Warn("admin feed client too slow, dropping event",
				zap.String("adminId", client.AdminID.Hex()), zap.String("type", eventType))
		}
	}
}

// ClientCount returns the number of connected admins
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
