package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed over the wire
const (
	NotificationTypeRequestAvailable = "request_available"
	NotificationTypeRequestAccepted  = "request_accepted"
	NotificationTypeRequestStatus    = "request_status"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// send writes one notification. Gorilla connections allow a single writer at
// a time, so all writes go through this mutex.
func (c *Client) send(notification Notification) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(notification)
}

// Hub maintains the set of connected clients keyed by user id.
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
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
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.send(notification)
}

// NotifyRequestAccepted tells the farmer their request was claimed.
func (h *Hub) NotifyRequestAccepted(farmerID primitive.ObjectID, requestData interface{}) error {
	return h.SendToUser(farmerID, Notification{
		Type:    NotificationTypeRequestAccepted,
		Message: "Your service request has been accepted",
		Data:    requestData,
	})
}

// NotifyRequestStatus tells the farmer the lifecycle moved on.
func (h *Hub) NotifyRequestStatus(farmerID primitive.ObjectID, requestData interface{}) error {
	return h.SendToUser(farmerID, Notification{
		Type:    NotificationTypeRequestStatus,
		Message: "Your service request status has been updated",
		Data:    requestData,
	})
}

// NotifyRequestAvailable fans a new pending request out to the given
// providers. Providers that are not connected are skipped.
func (h *Hub) NotifyRequestAvailable(providerIDs []primitive.ObjectID, requestData interface{}) {
	notification := Notification{
		Type:    NotificationTypeRequestAvailable,
		Message: "A new service request is available",
		Data:    requestData,
	}
	for _, id := range providerIDs {
		h.SendToUser(id, notification)
	}
}
