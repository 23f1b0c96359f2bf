package hub

import (
	"context"
	"log/slog"
	"time"
)

// maxDataLogLen is the maximum length for logged message data before truncation.
const maxDataLogLen = 200

// slowMessageThreshold is the duration above which messages are logged at WARN level.
const slowMessageThreshold = 100 * time.Millisecond

// HandlerFunc processes one inbound message for a connection.
type HandlerFunc func(ctx context.Context, c *Conn, msg Inbound) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// LoggingMiddleware returns middleware that logs every message with timing.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, c *Conn, msg Inbound) error {
			start := time.Now()

			err := next(ctx, c, msg)

			duration := time.Since(start)
			attrs := []any{
				"conn", c.ID(),
				"type", msg.Type,
				"duration_ms", duration.Milliseconds(),
			}
			if len(msg.Data) > 0 {
				attrs = append(attrs, "data", truncate(string(msg.Data), maxDataLogLen))
			}

			if err != nil {
				attrs = append(attrs, "error", err.Error())
				logger.Warn("message rejected", attrs...)
			} else if duration > slowMessageThreshold {
				logger.Warn("slow message", attrs...)
			} else {
				logger.Debug("message handled", attrs...)
			}
			return err
		}
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
