package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub keeps the live connections of each user and pushes events to them
type Hub struct {
	// Registered clients keyed by user ID. A user may have several tabs open.
	clients map[string]map[*Client]bool

	// Outbound events
	deliver chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed once Run has returned
	done chan struct{}

	// Guards clients for ConnectedCount
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message is an event pushed to a user over WebSocket
type Message struct {
	// Event type, e.g. "notification"
	Type string `json:"type"`

	// Recipient; not serialized
	UserID string `json:"-"`

	// Event body
	Payload interface{} `json:"payload"`

	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		deliver:    make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.deliver:
			h.deliverMessage(message)
		}
	}
}

// Register hands client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client from the hub; it returns immediately once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) deliverMessage(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[message.UserID]
	if !ok {
		h.logger.Debug().Str("userID", message.UserID).Msg("No live connection for user")
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", message.UserID).Msg("Failed to marshal message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow or gone; drop the connection rather than block the hub.
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// SendToUser queues an event for every live connection of userID. It never blocks;
// when the queue is full the event is dropped and logged.
func (h *Hub) SendToUser(userID, eventType string, payload interface{}) {
	msg := &Message{Type: eventType, UserID: userID, Payload: payload, Timestamp: time.Now().UTC()}
	select {
	case h.deliver <- msg:
	default:
		h.logger.Warn().Str("userID", userID).Str("type", eventType).Msg("Delivery queue full, dropping event")
	}
}

// ConnectedCount returns the number of live connections of a user
func (h *Hub) ConnectedCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
