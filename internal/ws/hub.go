// Package ws pushes upload-session progress to connected clients, in
// place of having every browser poll the status endpoint once a second.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is the envelope written to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Session interface{} `json:"session"`
}

type Hub struct {
	mu sync.RWMutex
	// clients by upload session id; the empty id subscribes to everything
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg

	logger *zap.Logger
}

type broadcastMsg struct {
	sessionID string
	payload   []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 256),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// BroadcastSession pushes a progress snapshot to clients watching the
// given session (and to wildcard subscribers). Non-blocking: slow
// clients drop messages rather than stalling the import.
func (h *Hub) BroadcastSession(sessionID string, session interface{}) {
	payload, err := json.Marshal(Event{Type: "upload.progress", Session: session})
	if err != nil {
		h.logger.Error("failed to marshal upload progress event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- broadcastMsg{sessionID: sessionID, payload: payload}:
	default:
		h.logger.Warn("ws broadcast queue full, dropping progress event",
			zap.String("session_id", sessionID))
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.sessionID] == nil {
		h.clients[c.sessionID] = make(map[*Client]bool)
	}
	h.clients[c.sessionID][c] = true
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.sessionID]; ok {
		if set[c] {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.sessionID)
		}
	}
}

func (h *Hub) fanOut(msg broadcastMsg) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	deliver := func(set map[*Client]bool) {
		for c := range set {
			select {
			case c.send <- msg.payload:
			default:
				// Client write buffer full; skip this snapshot.
			}
		}
	}
	deliver(h.clients[msg.sessionID])
	deliver(h.clients[""])
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for c := range set {
			close(c.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
