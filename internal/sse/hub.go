package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event is the wire envelope pushed to subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is one open event stream. A client always receives events
// addressed to its user and additionally to any lists it subscribed to.
type Client struct {
	ID     string
	UserID uuid.UUID
	Lists  map[uuid.UUID]bool
	Send   chan []byte
}

// Hub fans mutations out to connected readers. It supplies the reactive
// read property: any change to a row is pushed to current viewers of the
// derived views without polling.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *message
	mu         sync.RWMutex
}

type message struct {
	listID *uuid.UUID
	userID *uuid.UUID
	event  Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *message, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.event)
			for _, client := range h.clients {
				if !h.wants(client, msg) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) wants(client *Client, msg *message) bool {
	if msg.userID != nil {
		return client.UserID == *msg.userID
	}
	if msg.listID != nil {
		return client.Lists[*msg.listID]
	}
	return false
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) SubscribeToList(clientID string, listID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Lists[listID] = true
	}
}

func (h *Hub) UnsubscribeFromList(clientID string, listID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Lists, listID)
	}
}

// BroadcastToList pushes an event to every client subscribed to the list.
func (h *Hub) BroadcastToList(listID uuid.UUID, eventType string, data any) {
	id := listID
	select {
	case h.broadcast <- &message{listID: &id, event: Event{Type: eventType, Data: data}}:
	default:
		// Broadcast buffer full, drop; readers resync on next fetch
	}
}

// BroadcastToUser pushes an event to every stream opened by the user.
func (h *Hub) BroadcastToUser(userID uuid.UUID, eventType string, data any) {
	id := userID
	select {
	case h.broadcast <- &message{userID: &id, event: Event{Type: eventType, Data: data}}:
	default:
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
