package ws

import (
	"encoding/json"
	"log"
	"time"
)

// Event types pushed to connected admin dashboards.
const (
	EventOrderPlaced   = "order_placed"
	EventUserSignup    = "user_signup"
	EventPaymentMade   = "payment_created"
	EventStatusChanged = "order_status_changed"
)

// ActivityEvent is one entry of the live admin activity feed.
type ActivityEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of connected admin dashboards and broadcasts
// activity events to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Outbound events for all connected dashboards.
	Broadcast chan []byte
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 32),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Printf("Admin dashboard connected (user %d). Active dashboards: %d", client.UserID, len(h.clients))
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("Admin dashboard disconnected (user %d)", client.UserID)
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish marshals an activity event and queues it for all dashboards.
// Safe to call from any request goroutine; events are dropped when the
// broadcast buffer is full rather than blocking a request.
func (h *Hub) Publish(eventType, message string, payload interface{}) {
	event := ActivityEvent{
		Type:      eventType,
		Message:   message,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling activity event: %v", err)
		return
	}

	select {
	case h.Broadcast <- data:
	default:
		log.Printf("Activity feed buffer full, dropping %s event", eventType)
	}
}
