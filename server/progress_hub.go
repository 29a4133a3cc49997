package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cmacbench/cache"
	"cmacbench/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProgressHub fans prep progress events out to websocket clients.
// Events arrive over a Redis channel from whatever process runs the
// prep pipeline.
type ProgressHub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
}

// NewProgressHub creates a ProgressHub.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 64),
	}
}

// Run delivers broadcast payloads to every connected client until the
// context is cancelled. Clients whose writes fail are dropped.
func (h *ProgressHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case payload := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					logger.Debug("Dropping slow progress client", logger.ErrorField(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PumpFromRedis subscribes to the Redis progress channel and forwards
// every event into the hub.
func (h *ProgressHub) PumpFromRedis(ctx context.Context) {
	msgs, err := cache.SubscribeProgress(ctx)
	if err != nil {
		logger.Warn("Failed to subscribe to progress channel", logger.ErrorField(err))
		return
	}
	for msg := range msgs {
		select {
		case h.broadcast <- []byte(msg.Payload):
		default:
			// drop events rather than block the subscriber
		}
	}
}

// ServeWS upgrades the connection and registers it with the hub. The
// read loop only serves to detect the client going away.
func (h *ProgressHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()
	logger.Info("Progress client connected", logger.Int("clients", n))

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
