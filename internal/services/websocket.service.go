package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fsgraph/internal/models"
	"fsgraph/internal/telemetry"

	"github.com/gorilla/websocket"
)

// WebSocket message types
const (
	MessageLoad   = "load"
	MessageExpand = "expand"
	MessageParent = "parent"
	MessagePing   = "ping"
	MessageGraph  = "graph"
	MessagePong   = "pong"
	MessageError  = "error"
)

// WebSocketMessage is exchanged in both directions on a navigation session.
// Clients send load/expand/parent/ping; the server answers graph/pong/error
// echoing the request ID.
type WebSocketMessage struct {
	Type      string            `json:"type"`
	ID        string            `json:"id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Operation models.Operation  `json:"operation,omitempty"`
	Path      string            `json:"path,omitempty"`
	Depth     *int              `json:"depth,omitempty"`
	Data      *models.GraphView `json:"data,omitempty"`
	Skipped   int               `json:"skipped,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan struct{}

	closeOnce sync.Once
}

// NewClientConnection wraps an upgraded connection
func NewClientConnection(id string, conn *websocket.Conn) *ClientConnection {
	return &ClientConnection{
		ID:    id,
		Conn:  conn,
		Send:  make(chan WebSocketMessage, 16),
		Close: make(chan struct{}),
	}
}

// Shutdown signals the client's pumps to stop. Safe to call more than once.
func (c *ClientConnection) Shutdown() {
	c.closeOnce.Do(func() { close(c.Close) })
}

// WebSocketHub tracks connected clients and answers their navigation requests
type WebSocketHub struct {
	nav     *NavigationService
	metrics *telemetry.NavigationMetrics
	logger  *slog.Logger

	mu      sync.RWMutex
	clients map[string]*ClientConnection
}

// NewWebSocketHub creates a hub backed by nav
func NewWebSocketHub(nav *NavigationService, metrics *telemetry.NavigationMetrics, logger *slog.Logger) *WebSocketHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHub{
		nav:     nav,
		metrics: metrics,
		logger:  logger.With("component", "websocket"),
		clients: make(map[string]*ClientConnection),
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()
	h.metrics.ConnectionOpened()
	h.logger.Info("client connected", "client", client.ID, "total", total)
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	h.mu.Lock()
	client, exists := h.clients[clientID]
	if exists {
		delete(h.clients, clientID)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !exists {
		return
	}
	client.Shutdown()
	h.metrics.ConnectionClosed()
	h.logger.Info("client disconnected", "client", clientID, "total", total)
}

// Count returns the number of connected clients
func (h *WebSocketHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client
func (h *WebSocketHub) CloseAll() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.Unregister(id)
	}
}

// HandleMessage runs one client request and builds the reply
func (h *WebSocketHub) HandleMessage(ctx context.Context, msg WebSocketMessage) WebSocketMessage {
	reply := WebSocketMessage{ID: msg.ID, Timestamp: time.Now()}

	var result *models.NavigationResult
	var err error
	switch msg.Type {
	case MessagePing:
		reply.Type = MessagePong
		return reply
	case MessageLoad:
		result, err = h.nav.LoadRoot(ctx, models.LoadRootRequest{Path: msg.Path, Depth: msg.Depth})
	case MessageExpand:
		result, err = h.nav.ExpandNode(ctx, msg.Path)
	case MessageParent:
		result, err = h.nav.Ascend(ctx, msg.Path)
	default:
		reply.Type = MessageError
		reply.Error = "unknown message type: " + msg.Type
		return reply
	}

	if err != nil {
		reply.Type = MessageError
		reply.Error = err.Error()
		return reply
	}

	reply.Type = MessageGraph
	reply.Operation = result.Operation
	reply.Path = result.Path
	reply.Data = &result.Graph
	reply.Skipped = len(result.Skips)
	return reply
}
