package transport

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // CORS is handled by the router middleware
}

// tradeTapePush is the wire shape of one best-effort market-data push:
// this is the "trade reporting feed" §1 names as an external collaborator,
// broadcast only — it carries no authority over engine state.
type tradeTapePush struct {
	Price uint64 `json:"price"`
	Qty   uint64 `json:"qty"`
}

// client is one subscriber connection to the trade-tape feed.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans out trade prints to every connected client, the same
// register/unregister/broadcast loop the teacher's websocket.Hub runs.
type hub struct {
	log *zap.SugaredLogger

	mu      sync.RWMutex
	clients map[*client]bool

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

func newHub(log *zap.SugaredLogger) *hub {
	return &hub{
		log:        log,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *hub) pushTrade(price, qty uint64) {
	data, err := json.Marshal(tradeTapePush{Price: price, Qty: qty})
	if err != nil {
		h.log.Warnw("trade_tape_marshal_failed", "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warnw("trade_tape_broadcast_buffer_full")
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("ws_upgrade_failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 32)}
	h.register <- c
	go c.writePump(h)
}

func (c *client) writePump(h *hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
