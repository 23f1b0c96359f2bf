// Package hub serves live analysis sessions over websockets. Every
// connection drives its own session controller; snapshots are pushed to the
// peer as the session settles.
package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/metrics"
	"github.com/raphaelgruber/commnet/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local analysis dashboards run on other ports
	},
}

// Options configures a Hub.
type Options struct {
	Debounce time.Duration
	Pattern  analysis.Pattern
	Logger   *slog.Logger
	Metrics  *metrics.Collector
}

// Hub tracks live connections.
type Hub struct {
	src     session.Source
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Collector
	handle  HandlerFunc

	conns      map[*Conn]bool
	mu         sync.RWMutex
	register   chan *Conn
	unregister chan *Conn
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a hub that opens sessions against src.
func New(src session.Source, opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	return &Hub{
		src:        src,
		opts:       opts,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		handle:     LoggingMiddleware(opts.Logger)(dispatch),
		conns:      make(map[*Conn]bool),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		done:       make(chan struct{}),
	}
}

// Run tracks connections until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for c := range h.conns {
				c.shutdown()
				delete(h.conns, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.conns[c] = true
			h.mu.Unlock()
			h.logger.Info("client connected", "conn", c.id, "total", h.ConnCount())

		case c := <-h.unregister:
			h.mu.Lock()
			delete(h.conns, c)
			h.mu.Unlock()
			c.shutdown()
			h.logger.Info("client disconnected", "conn", c.id, "total", h.ConnCount())
		}
	}
}

// Close stops Run and closes every connection.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ConnCount returns the number of live connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) unregisterConn(c *Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.shutdown()
	}
}

// ServeWS upgrades the request and starts a session for the new peer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()[:8]
	logger := h.logger.With("conn", id)
	c := &Conn{
		id:     id,
		hub:    h,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
		handle: h.handle,
		session: session.New(h.src, session.Options{
			Debounce: h.opts.Debounce,
			Pattern:  h.opts.Pattern,
			Logger:   logger,
			Metrics:  h.metrics,
		}),
	}

	select {
	case h.register <- c:
	case <-h.done:
		c.shutdown()
		return
	}

	c.enqueue(newMessage(TypePatterns, analysis.Patterns()))
	go c.writePump()
	go c.forward()
	go c.readPump()
}

// Stats is the payload of the stats endpoint.
type Stats struct {
	Connections int              `json:"connections"`
	Metrics     metrics.Snapshot `json:"metrics"`
}

// Handler returns the hub's HTTP routes.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Stats{
			Connections: h.ConnCount(),
			Metrics:     h.metrics.Snapshot(),
		}); err != nil {
			h.logger.Error("failed to encode stats", "error", err)
		}
	})
	return mux
}
