package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/keylightctl/internal/discovery"
	"go.uber.org/zap"
)

const (
	// writeWait is the time allowed to write one message to a subscriber
	writeWait = 10 * time.Second

	// pongWait is the time allowed between pongs before a subscriber is
	// considered dead
	pongWait = 60 * time.Second

	// pingPeriod is how often subscribers are pinged (must be shorter
	// than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound messages; the feed is one-way and
	// subscribers have nothing to say beyond control frames
	maxMessageSize = 512
)

// hub fans registry change events out to the connected subscribers.
//
// Delivery is best-effort per subscriber: a broadcast never blocks on a
// single connection, and a subscriber whose queue is full is dropped so
// the rest keep receiving.
type hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func newHub(logger *zap.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// run drains the event source into the connected subscribers until the
// context is cancelled or the source closes, then disconnects everyone.
// A nil source serves no events but still holds subscribers open until
// cancellation.
func (h *hub) run(ctx context.Context, events <-chan discovery.Event) {
	defer h.close()

	if events == nil {
		<-ctx.Done()
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				h.logger.Info("event source closed, dropping subscribers")
				return
			}
			h.broadcast(event)
		}
	}
}

// broadcast queues the event for every subscriber, dropping those whose
// queue is already full.
func (h *hub) broadcast(event discovery.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("dropping slow event subscriber",
				zap.String("remote_addr", c.addr),
			)
		}
	}
}

// add registers a subscriber. It reports false once the hub has shut
// down, in which case the caller just closes the connection.
func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// remove unregisters a subscriber if still present and releases its
// queue. Safe to call after the subscriber was already dropped.
func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// close disconnects every subscriber and rejects new ones. Idempotent.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// client is one WebSocket subscriber to the event feed. The hub owns
// the send queue; closing it tells the write pump to hang up.
type client struct {
	conn *websocket.Conn
	addr string
	send chan discovery.Event
}

func newClient(conn *websocket.Conn, buffer int) *client {
	return &client{
		conn: conn,
		addr: conn.RemoteAddr().String(),
		send: make(chan discovery.Event, buffer),
	}
}

// writePump owns all writes on the connection: queued events as JSON
// text messages and keepalive pings. It exits when the queue closes or
// a write fails, closing the connection either way.
func (c *client) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "event feed closed"))
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				logger.Debug("event write failed",
					zap.String("remote_addr", c.addr),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages while keeping the pong deadline
// fresh. It returns when the peer goes away, which unregisters the
// subscriber.
func (c *client) readPump(h *hub) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
