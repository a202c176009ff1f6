package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const (
	// eventBuffer bounds the broadcast queue; messages are dropped when
	// subscribers cannot keep up, never the pipeline.
	eventBuffer  = 64
	writeTimeout = 5 * time.Second
)

// EventsHandler pushes gesture events and pipeline state changes to
// WebSocket clients. Pipeline callbacks only enqueue; a single writer
// goroutine performs every connection write, so the process worker and the
// lifecycle callers never touch a conn and a slow client cannot stall
// them.
type EventsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	send    chan []byte
}

// NewEventsHandler creates an EventsHandler subscribed to the pipeline.
func NewEventsHandler(p Pipeline) *EventsHandler {
	h := &EventsHandler{
		clients: make(map[*websocket.Conn]bool),
		send:    make(chan []byte, eventBuffer),
	}
	p.OnGesture(func(event *gesture.Event, result *action.Result) {
		h.enqueue(map[string]any{
			"type":      "gesture",
			"event":     event,
			"result":    result,
			"timestamp": time.Now().UnixMilli(),
		})
	})
	p.OnStateChange(func(old, new app.SystemState) {
		h.enqueue(map[string]any{
			"type":      "state",
			"old":       old.String(),
			"new":       new.String(),
			"timestamp": time.Now().UnixMilli(),
		})
	})
	go h.writeLoop()
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

// enqueue hands a message to the writer goroutine. Drops when the buffer
// is full so pipeline callbacks never block.
func (h *EventsHandler) enqueue(payload map[string]any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case h.send <- msg:
	default:
	}
}

// writeLoop is the only goroutine that writes to client connections.
func (h *EventsHandler) writeLoop() {
	for msg := range h.send {
		h.mu.Lock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}
