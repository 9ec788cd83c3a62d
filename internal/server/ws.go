package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateSource publishes interaction state after every engine tick.
type StateSource interface {
	State() app.State
	OnState(func(app.State))
}

// EventsHandler broadcasts real-time interaction state via WebSocket.
type EventsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	states  chan app.State
}

// NewEventsHandler creates a new EventsHandler subscribed to the given
// state source.
func NewEventsHandler(source StateSource) *EventsHandler {
	h := &EventsHandler{
		clients: make(map[*websocket.Conn]bool),
		states:  make(chan app.State, 8),
	}
	source.OnState(h.enqueue)
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// enqueue runs on the pipeline goroutine and must not block: when the
// broadcast loop falls behind, the oldest queued state is dropped so
// clients always end up with the freshest one.
func (h *EventsHandler) enqueue(st app.State) {
	for {
		select {
		case h.states <- st:
			return
		default:
		}
		select {
		case <-h.states:
		default:
		}
	}
}

// broadcast sends state updates to all connected clients.
func (h *EventsHandler) broadcast() {
	for st := range h.states {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		msg, _ := json.Marshal(st)
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
