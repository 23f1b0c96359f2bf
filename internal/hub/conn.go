package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/raphaelgruber/commnet/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Size of connection send buffer.
	sendBufferSize = 256
)

// clientError is a handler failure reported back to the peer.
type clientError struct {
	code string
	msg  string
}

func (e *clientError) Error() string { return e.code + ": " + e.msg }

func reject(code, format string, args ...any) error {
	return &clientError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Conn is one websocket peer with its own analysis session.
type Conn struct {
	id      string
	hub     *Hub
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	session *session.Controller
	logger  *slog.Logger
	handle  HandlerFunc
}

// ID returns the short connection id used in logs.
func (c *Conn) ID() string { return c.id }

// Session returns the connection's analysis session.
func (c *Conn) Session() *session.Controller { return c.session }

// enqueue queues msg for the write pump. Messages are dropped when the
// buffer is full or the connection is closing.
func (c *Conn) enqueue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message", "type", msg.Type, "error", err)
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

func (c *Conn) sendError(code, message string) {
	c.enqueue(newMessage(TypeError, ErrorData{Code: code, Message: message}))
}

// shutdown stops the session and closes the socket. Safe to call repeatedly.
func (c *Conn) shutdown() {
	c.once.Do(func() {
		close(c.done)
		c.session.Close()
		_ = c.ws.Close()
	})
}

// readPump pumps messages from the websocket into the handler chain.
func (c *Conn) readPump() {
	defer c.hub.unregisterConn(c)

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError(CodeInvalidJSON, "failed to parse message")
			continue
		}
		if err := c.handle(ctx, c, msg); err != nil {
			var ce *clientError
			if errors.As(err, &ce) {
				c.sendError(ce.code, ce.msg)
			} else {
				c.sendError(CodeRejected, err.Error())
			}
		}
	}
}

// writePump pumps queued messages to the websocket and keeps it alive.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// forward relays session snapshots until the session closes.
func (c *Conn) forward() {
	for snap := range c.session.Updates() {
		c.enqueue(newMessage(TypeSnapshot, snapshotData(snap)))
	}
}

func decode(msg Inbound, v any) error {
	if len(msg.Data) == 0 {
		return reject(CodeInvalidData, "%s requires data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return reject(CodeInvalidData, "%s: %v", msg.Type, err)
	}
	return nil
}

// dispatch routes an inbound message to the connection's session.
func dispatch(_ context.Context, c *Conn, msg Inbound) error {
	switch msg.Type {
	case TypeSelectMatch:
		var d SelectMatchData
		if err := decode(msg, &d); err != nil {
			return err
		}
		if d.MatchID < 0 {
			return reject(CodeInvalidData, "matchId must not be negative")
		}
		return c.session.SelectMatch(d.MatchID)

	case TypeSelectPattern:
		var d SelectPatternData
		if err := decode(msg, &d); err != nil {
			return err
		}
		p, ok := analysis.Lookup(d.Pattern)
		if !ok {
			return reject(CodeUnknownPattern, "unknown pattern %q", d.Pattern)
		}
		return c.session.SelectPattern(p)

	case TypeSetWindow:
		var w models.TimeWindow
		if err := decode(msg, &w); err != nil {
			return err
		}
		return c.session.SetWindow(w)

	case TypeReload:
		return c.session.Reload()

	case TypePing:
		c.enqueue(newMessage(TypePong, nil))
		return nil

	default:
		return reject(CodeUnknownType, "unknown message type %q", msg.Type)
	}
}
