// Package stream pushes resolved prices to websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"prediction-terminal/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 5 * time.Second
	defaultInterval = 20 * time.Second
)

type PriceReader interface {
	GetPrices(ctx context.Context) (*domain.PriceSet, error)
}

// Message is one frame sent to clients.
type Message struct {
	Source domain.PriceSource            `json:"source"`
	Prices map[string]*domain.PriceQuote `json:"prices"`
	SentAt int64                         `json:"sent_at"`
}

// Hub fans price updates out to every connected client. Writes to all
// clients happen under mu, so each connection has a single writer.
type Hub struct {
	logger   *zap.Logger
	prices   PriceReader
	upgrader websocket.Upgrader
	now      func() time.Time

	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	last     []byte
	lastAt   time.Time
	interval time.Duration
}

func NewHub(logger *zap.Logger, prices PriceReader) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:   logger,
		prices:   prices,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		now:      time.Now,
		clients:  make(map[*websocket.Conn]struct{}),
		interval: defaultInterval,
	}
}

// Clients reports how many connections are open.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends set to every client and keeps it for new joiners. Clients
// that fail a write are dropped.
func (h *Hub) Publish(set *domain.PriceSet) {
	data, at, ok := h.encode(set)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last, h.lastAt = data, at
	for conn := range h.clients {
		if err := write(conn, data); err != nil {
			h.logger.Debug("dropping stream client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Run publishes the current prices every interval until ctx is done.
// Failed reads are skipped; clients keep the previous frame.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}
	h.mu.Lock()
	h.interval = interval
	h.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			if h.Clients() == 0 {
				continue
			}
			set, err := h.prices.GetPrices(ctx)
			if err != nil {
				h.logger.Warn("stream price read failed", zap.Error(err))
				continue
			}
			h.Publish(set)
		}
	}
}

// ServeHTTP upgrades the request and holds the connection until the client
// goes away. Inbound frames are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	first := h.joinFrame(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	if first != nil {
		if err := write(conn, first); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// joinFrame returns the frame a new client starts with. The last frame is
// reused while it is younger than one interval; otherwise prices are read
// again. A failed read falls back to the last frame, if any.
func (h *Hub) joinFrame(ctx context.Context) []byte {
	h.mu.Lock()
	last, fresh := h.last, h.last != nil && h.now().Sub(h.lastAt) < h.interval
	h.mu.Unlock()
	if fresh {
		return last
	}

	set, err := h.prices.GetPrices(ctx)
	if err != nil {
		h.logger.Warn("stream join price read failed", zap.Error(err))
		return last
	}
	data, at, ok := h.encode(set)
	if !ok {
		return last
	}

	h.mu.Lock()
	if !at.Before(h.lastAt) {
		h.last, h.lastAt = data, at
	}
	h.mu.Unlock()
	return data
}

func (h *Hub) encode(set *domain.PriceSet) ([]byte, time.Time, bool) {
	if set == nil {
		return nil, time.Time{}, false
	}
	at := h.now()
	data, err := json.Marshal(Message{Source: set.Source, Prices: set.Quotes, SentAt: at.Unix()})
	if err != nil {
		h.logger.Error("marshal price frame", zap.Error(err))
		return nil, time.Time{}, false
	}
	return data, at, true
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
}

func write(conn *websocket.Conn, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
