package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub  *Hub
	ID   uint
	Role string
	Conn Conn
	Send chan []byte
}

// Conn is the subset of *websocket.Conn the hub relies on.
type Conn interface {
	Close() error
}

// Message is a typed push sent to a connected user.
type Message struct {
	Type      string      `json:"type"`
	UserID    uint        `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub manages all WebSocket connections, keyed by user ID.
type Hub struct {
	Clients map[uint]*Client

	Register   chan *Client
	Unregister chan *Client
	Notify     chan *Message

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Notify:     make(chan *Message, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if old, ok := h.Clients[client.ID]; ok {
				close(old.Send)
			}
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: ID=%d, Role=%s", client.ID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.ID]; ok && current == client {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: ID=%d, Role=%s", client.ID, client.Role)

		case message := <-h.Notify:
			h.deliver(message)
		}
	}
}

// deliver sends a message to its target user if connected. Disconnected or
// slow clients are skipped; pushes are best-effort.
func (h *Hub) deliver(message *Message) {
	h.mu.RLock()
	client, ok := h.Clients[message.UserID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Failed to marshal notification: %v", err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		log.Printf("⚠️ Dropping notification for user %d: send buffer full", message.UserID)
	}
}

// NotifyUser queues a typed push for a single user.
func (h *Hub) NotifyUser(userID uint, msgType string, data interface{}) {
	msg := &Message{
		Type:      msgType,
		UserID:    userID,
		Timestamp: time.Now(),
		Data:      data,
	}

	select {
	case h.Notify <- msg:
	default:
		log.Printf("⚠️ Notification channel full, dropping %s for user %d", msgType, userID)
	}
}
