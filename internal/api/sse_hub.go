package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"exoml/domain/core"
	"exoml/ports"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the viewer session ID
const SessionKey = "session_id"

const pingInterval = 30 * time.Second

// SSEClient represents a connected SSE client
type SSEClient struct {
	SessionID core.SessionID
	Channel   chan ports.Notification
}

// SSEHub fans session notifications out to the browsers watching them
type SSEHub struct {
	clients    map[core.SessionID]map[chan ports.Notification]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan ports.Notification
	done       chan struct{}

	pingInterval time.Duration
}

var _ ports.Notifier = (*SSEHub)(nil)

// NewSSEHub creates a hub whose dispatch loop stops when ctx is cancelled
func NewSSEHub(ctx context.Context) *SSEHub {
	hub := &SSEHub{
		clients:      make(map[core.SessionID]map[chan ports.Notification]bool),
		register:     make(chan SSEClient, 10),
		unregister:   make(chan SSEClient, 10),
		broadcast:    make(chan ports.Notification, 100),
		done:         make(chan struct{}),
		pingInterval: pingInterval,
	}

	go hub.run(ctx)
	return hub
}

// Done is closed once the dispatch loop has exited
func (h *SSEHub) Done() <-chan struct{} { return h.done }

func (h *SSEHub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.clientsMu.Lock()
			for sessionID, clients := range h.clients {
				for ch := range clients {
					close(ch)
				}
				delete(h.clients, sessionID)
			}
			h.clientsMu.Unlock()
			return

		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.SessionID] == nil {
				h.clients[client.SessionID] = make(map[chan ports.Notification]bool)
			}
			h.clients[client.SessionID][client.Channel] = true
			log.Printf("[SSE] Client registered for session %s (total clients: %d)",
				client.SessionID, len(h.clients[client.SessionID]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.SessionID]; exists && clients[client.Channel] {
				delete(clients, client.Channel)
				close(client.Channel)
				log.Printf("[SSE] Client unregistered from session %s (remaining clients: %d)",
					client.SessionID, len(clients))
				if len(clients) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.clientsMu.Unlock()

		case n := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients[n.SessionID] {
				select {
				case clientChan <- n:
				default:
					log.Printf("[SSE] Client channel full for session %s, skipping event", n.SessionID)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Notify queues a notification for the session's clients. Sessions with
// no connected browser drop it.
func (h *SSEHub) Notify(n ports.Notification) {
	if h.clientCount(n.SessionID) == 0 {
		return
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = core.Now()
	}
	select {
	case h.broadcast <- n:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping event: %s", n.EventType)
	}
}

// HandleSSE streams notifications for the request's session
func (h *SSEHub) HandleSSE(c *gin.Context) {
	sessionID := core.SessionID(c.GetString(SessionKey))
	if sessionID == "" {
		sessionID = core.SessionID(c.Query("session_id"))
	}
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session required"})
		return
	}

	clientChan := make(chan ports.Notification, 10)
	select {
	case h.register <- SSEClient{SessionID: sessionID, Channel: clientChan}:
	case <-h.done:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream closed"})
		return
	}

	defer func() {
		select {
		case h.unregister <- SSEClient{SessionID: sessionID, Channel: clientChan}:
		case <-h.done:
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-clientChan:
			if !ok {
				return false
			}
			body, err := json.Marshal(n)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("notification", string(body))
			return true

		case <-ticker.C:
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+core.Now().ISO()+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// clientCount returns the number of active clients for a session
func (h *SSEHub) clientCount(sessionID core.SessionID) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[sessionID])
}
