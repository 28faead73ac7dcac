package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	RoomAuction   = "auction"
	RoomDashboard = "dashboard"
)

// Message types pushed to clients.
const (
	TypeAuctionUpdated = "AUCTION_UPDATED"
	TypeTeamsChanged   = "TEAMS_CHANGED"
	TypeSession        = "SESSION"
	TypeSessionPending = "SESSION_PENDING"
	TypeRedirect       = "REDIRECT"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	RoomID  string `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string

	// OnMessage receives every text frame read from the peer.
	OnMessage func([]byte)

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		room: room,
	}
}

// Send queues a message for this client only. It reports false when the
// client is closed or its buffer is full.
func (c *Client) Send(msg Message) bool {
	b, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("failed to marshal live message", slog.String("type", msg.Type), slog.Any("error", err))
		return false
	}
	return c.enqueue(b)
}

func (c *Client) enqueue(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close stops the client's pumps; the hub drops it on the next unregister.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	rooms      map[string]map[*Client]bool
	logger     *slog.Logger
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, sendBuffer),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run owns the room map; all membership changes go through it.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for _, clients := range h.rooms {
				for c := range clients {
					c.Close()
				}
			}
			h.rooms = map[string]map[*Client]bool{}
			return

		case c := <-h.register:
			if _, ok := h.rooms[c.room]; !ok {
				h.rooms[c.room] = make(map[*Client]bool)
			}
			h.rooms[c.room][c] = true
			h.logger.Debug("live client registered", slog.String("room", c.room), slog.Int("clients", len(h.rooms[c.room])))

		case c := <-h.unregister:
			if clients, ok := h.rooms[c.room]; ok && clients[c] {
				delete(clients, c)
				c.Close()
				if len(clients) == 0 {
					delete(h.rooms, c.room)
				}
			}

		case msg := <-h.broadcast:
			b, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("failed to marshal live message", slog.String("room", msg.RoomID), slog.Any("error", err))
				continue
			}
			for c := range h.rooms[msg.RoomID] {
				if !c.enqueue(b) {
					h.logger.Warn("live client buffer full, dropping message", slog.String("room", msg.RoomID))
				}
			}
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastToRoom sends a message to every client of room without blocking the caller.
func (h *Hub) BroadcastToRoom(roomID string, msgType string, payload any) {
	select {
	case h.broadcast <- Message{Type: msgType, Payload: payload, RoomID: roomID}:
	case <-h.done:
	default:
		h.logger.Warn("live broadcast queue full, dropping message", slog.String("room", roomID), slog.String("type", msgType))
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("live client read failed", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
		if c.OnMessage != nil {
			c.OnMessage(message)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn("live client write failed", slog.String("room", c.room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
