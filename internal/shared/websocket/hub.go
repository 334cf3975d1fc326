package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	queueSize = 256
)

// Hub keeps the client registry, grouped by topic, and fans messages out to
// every client subscribed to a topic.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// InboundMessages is consumed by module handlers (e.g. the auction listener).
	InboundMessages chan *ClientMessage
}

// Client represents a single websocket connection.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// Topic the client is subscribed to.
	Topic string
	ID    string

	// sendMu guards Send against a close racing a Deliver.
	sendMu sync.Mutex
	closed bool
}

type Message struct {
	Topic string
	Data  []byte
}

// ClientMessage wraps a message read from a client with its sender.
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:       make(chan *Message, queueSize),
		register:        make(chan *Client, queueSize),
		unregister:      make(chan *Client, queueSize),
		clients:         make(map[string]map[*Client]bool),
		InboundMessages: make(chan *ClientMessage, queueSize),
	}
}

// NewClient builds a client for conn subscribed to topic.
func NewClient(hub *Hub, conn *websocket.Conn, topic, id string) *Client {
	return &Client{
		Hub:   hub,
		Conn:  conn,
		Send:  make(chan []byte, queueSize),
		Topic: topic,
		ID:    id,
	}
}

// Deliver queues data for the client without blocking. It reports false when
// the queue is full or the hub already closed Send.
func (c *Client) Deliver(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info("WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket hub shutting down")
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.Topic]; !ok {
				h.clients[client.Topic] = make(map[*Client]bool)
			}
			h.clients[client.Topic][client] = true
			total := h.totalLocked()
			h.mu.Unlock()
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("topic", client.Topic),
				zap.Int("total_clients", total),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if h.removeLocked(client) {
				log.Info("Client unregistered",
					zap.String("clientID", client.ID),
					zap.String("topic", client.Topic),
					zap.Int("total_clients", h.totalLocked()),
				)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			clients := h.clients[message.Topic]
			log.Debug("Broadcasting message", zap.String("topic", message.Topic), zap.Int("clients", len(clients)))
			for client := range clients {
				if !client.Deliver(message.Data) {
					// slow or gone; drop it rather than block the hub
					h.removeLocked(client)
					log.Warn("Failed to send message to client, unregistering",
						zap.String("clientID", client.ID),
						zap.String("topic", client.Topic),
					)
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked drops client and closes its Send channel. It reports whether
// the client was registered.
func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.clients[client.Topic]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	client.closeSend()
	if len(clients) == 0 {
		delete(h.clients, client.Topic)
	}
	return true
}

func (h *Hub) totalLocked() int {
	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// ClientCount returns how many clients are subscribed to topic.
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	default:
		log.Error("Register queue is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("topic", client.Topic),
		)
		if client.Conn != nil {
			_ = client.Conn.Close()
		}
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Error("Unregister queue is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("topic", client.Topic),
		)
	}
}

// Broadcast queues data for every client subscribed to topic.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- &Message{Topic: topic, Data: data}:
	default:
		log.Error("Broadcast queue is full, message dropped", zap.String("topic", topic))
	}
}

// ReadPump forwards client messages to Hub.InboundMessages. Run one per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
		log.Info("ReadPump stopped", zap.String("clientID", c.ID), zap.String("topic", c.Topic))
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("topic", c.Topic),
					zap.Error(err),
				)
			}
			return
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Inbound queue is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("topic", c.Topic),
			)
		}
	}
}

// WritePump writes queued messages and pings to the connection. It is the
// only writer for c.Conn.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one JSON document per frame
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("topic", c.Topic),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("Failed to ping client", zap.String("clientID", c.ID), zap.Error(err))
				return
			}
		}
	}
}
