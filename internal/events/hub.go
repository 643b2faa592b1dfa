// Package events pushes ledger mutations to connected dashboards over
// websockets, so an open page refreshes its aggregates without polling.
package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"khata-backend/internal/config"
)

// Event describes one ledger mutation.
type Event struct {
	Entity string    `json:"entity"` // inventory | sales | credit | document
	Action string    `json:"action"` // created | status_changed | deleted
	ID     int       `json:"id"`
	At     time.Time `json:"at"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
	log        *logrus.Logger
}

func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
		log:       config.GetLogger(),
	}
	go h.run()
	return h
}

// Publish queues an event for broadcast. Never blocks a write path: if
// the buffer is full the event is dropped, dashboards re-derive on their
// next full load anyway.
func (h *Hub) Publish(entity, action string, id int) {
	select {
	case h.broadcast <- Event{Entity: entity, Action: action, ID: id, At: time.Now()}:
	default:
	}
}

func (h *Hub) run() {
	for ev := range h.broadcast {
		h.clientsMux.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(ev); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithField("module", "events").Warnf("websocket upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Reader loop only to detect disconnects; clients never send data.
	go func() {
		defer func() {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
