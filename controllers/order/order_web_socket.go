package orderControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/storefront-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderEvent is what dashboard clients receive on the order feed.
type OrderEvent struct {
	Type  string       `json:"type"` // "created" or "updated"
	Order models.Order `json:"order"`
}

const (
	// writeWait bounds a single write to a dashboard socket.
	writeWait = 10 * time.Second
	// sendBuffer is how many events a client may lag behind before it is
	// dropped.
	sendBuffer = 16
)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans order events out to connected dashboard sockets. Each socket has
// its own writer goroutine, so Broadcast never waits on the network.
type Hub struct {
	mu      sync.Mutex
	clients map[*feedClient]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*feedClient]bool)}
}

// GET /api/orders-feed
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ORDER_FEED] upgrade failed: %v", err)
			return
		}
		client := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
		h.add(client)
		go h.writeLoop(client)
		defer h.remove(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

func (h *Hub) writeLoop(client *feedClient) {
	defer client.conn.Close()
	for data := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[ORDER_FEED] write failed: %v", err)
			h.remove(client)
			return
		}
	}
	_ = client.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
}

func (h *Hub) add(client *feedClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

// remove unregisters client and stops its writer. Safe to call twice.
func (h *Hub) remove(client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(client)
}

// drop requires h.mu.
func (h *Hub) drop(client *feedClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

// Clients returns the number of connected sockets.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues the event for every client. A client whose queue is full
// is dropped. A nil hub is a no-op.
func (h *Hub) Broadcast(eventType string, order models.Order) {
	if h == nil {
		return
	}
	data, err := json.Marshal(OrderEvent{Type: eventType, Order: order})
	if err != nil {
		log.Printf("[ORDER_FEED] marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("[ORDER_FEED] dropping slow client")
			h.drop(client)
		}
	}
}
