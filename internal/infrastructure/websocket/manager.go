package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"skillswap/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Event is the envelope of every server-pushed frame.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// EventHandler processes one inbound frame from a client.
type EventHandler interface {
	HandleEvent(ctx context.Context, client *Client, raw []byte)
}

// Client is one live connection. UserID is the authenticated identity and
// never changes for the lifetime of the connection.
type Client struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	send   chan []byte
}

// Manager owns the live connections, their chat groups and the presence
// registry used to route per-user notifications. All pushes are
// best-effort: a missing or saturated connection drops the event.
type Manager struct {
	presence *Presence

	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
}

func NewManager(presence *Presence) *Manager {
	if presence == nil {
		presence = NewPresence()
	}
	return &Manager{
		presence: presence,
		clients:  make(map[string]*Client),
		rooms:    make(map[string]map[string]*Client),
	}
}

func (m *Manager) Presence() *Presence {
	return m.presence
}

// Connect registers conn for userID and starts its pumps. Frames read from
// the connection are handed to handler one at a time.
func (m *Manager) Connect(userID string, conn *websocket.Conn, handler EventHandler) *Client {
	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	m.mu.Lock()
	m.clients[client.ID] = client
	m.mu.Unlock()
	m.presence.Register(userID, client.ID)

	logger.Info("WebSocket: client %s connected for user %s", client.ID, userID)

	go m.writePump(client)
	go m.readPump(client, handler)

	return client
}

// Disconnect removes the client from every group and from presence. Safe
// to call more than once.
func (m *Manager) Disconnect(client *Client) {
	m.mu.Lock()
	if _, ok := m.clients[client.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, client.ID)
	for chatID, members := range m.rooms {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(m.rooms, chatID)
		}
	}
	close(client.send)
	m.mu.Unlock()

	m.presence.Unregister(client.ID)
	logger.Info("WebSocket: client %s disconnected (user %s)", client.ID, client.UserID)
}

// Register points userID's notifications at client again, e.g. after the
// same user opened a newer connection elsewhere.
func (m *Manager) Register(client *Client) {
	m.presence.Register(client.UserID, client.ID)
}

func (m *Manager) Join(client *Client, chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	members, ok := m.rooms[chatID]
	if !ok {
		members = make(map[string]*Client)
		m.rooms[chatID] = members
	}
	members[client.ID] = client
}

func (m *Manager) Leave(client *Client, chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if members, ok := m.rooms[chatID]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(m.rooms, chatID)
		}
	}
}

// NotifyUser sends an event to the connection registered for userID.
// It reports false when the user is offline or the event was dropped.
func (m *Manager) NotifyUser(userID, event string, payload interface{}) bool {
	connID, ok := m.presence.Resolve(userID)
	if !ok {
		return false
	}

	data, err := encodeEvent(event, payload)
	if err != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[connID]
	if !ok {
		return false
	}
	return m.deliver(client, data)
}

// BroadcastToChat sends an event to every connection joined to chatID.
func (m *Manager) BroadcastToChat(chatID, event string, payload interface{}) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, client := range m.rooms[chatID] {
		m.deliver(client, data)
	}
}

// Send pushes an event to a single connection.
func (m *Manager) Send(client *Client, event string, payload interface{}) bool {
	data, err := encodeEvent(event, payload)
	if err != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.clients[client.ID]; !ok {
		return false
	}
	return m.deliver(client, data)
}

// deliver must run under m.mu (read or write) so send is not closed concurrently.
func (m *Manager) deliver(client *Client, data []byte) bool {
	select {
	case client.send <- data:
		return true
	default:
		logger.Warn("WebSocket: send buffer full for client %s, dropping event", client.ID)
		return false
	}
}

func encodeEvent(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(Event{
		Type:      event,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", event, err)
	}
	return data, err
}

func (m *Manager) readPump(client *Client, handler EventHandler) {
	defer func() {
		m.Disconnect(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for client %s: %v", client.ID, err)
			}
			return
		}

		if handler != nil {
			handler.HandleEvent(context.Background(), client, message)
		}
	}
}

func (m *Manager) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error for client %s: %v", client.ID, err)
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
