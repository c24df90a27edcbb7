package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/mentorship-backend/events"
)

const (
	sendBuffer     = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub keeps the dashboard connections of each user and pushes a reload
// signal when an event concerns them.
type Hub struct {
	clients map[uuid.UUID]map[*Client]struct{}
	mutex   sync.RWMutex
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

// DashboardSignal is the message sent to a dashboard that should reload.
type DashboardSignal struct {
	Type      string           `json:"type"`
	Event     events.EventType `json:"event"`
	RequestID uuid.UUID        `json:"request_id"`
}

func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) *Client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client := &Client{Conn: conn, Send: make(chan []byte, sendBuffer)}
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(userID uuid.UUID, client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		close(client.Send)
		delete(clients, client)
	}
	if len(clients) == 0 {
		delete(h.clients, userID)
	}
}

// SendToUser queues data for every connection of userID. Slow connections
// drop the message.
func (h *Hub) SendToUser(userID uuid.UUID, data []byte) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sent := 0
	for client := range h.clients[userID] {
		select {
		case client.Send <- data:
			sent++
		default:
		}
	}
	return sent
}

// Publish implements events.Publisher.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	data, err := json.Marshal(DashboardSignal{
		Type:      "dashboard_changed",
		Event:     event.Type,
		RequestID: event.RequestID,
	})
	if err != nil {
		return err
	}
	for _, userID := range event.Recipients() {
		h.SendToUser(userID, data)
	}
	return nil
}

func (h *Hub) GetStats() map[string]int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	connections := 0
	for _, clients := range h.clients {
		connections += len(clients)
	}
	return map[string]int{"users": len(h.clients), "connections": connections}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and returns once the peer goes away,
// sends an oversized frame or stops answering pings.
func (h *Hub) readPump(client *Client) {
	conn := client.Conn
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
