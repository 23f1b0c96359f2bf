package hub

import (
	"encoding/json"
	"time"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/raphaelgruber/commnet/internal/session"
)

// Inbound message types.
const (
	TypeSelectMatch   = "select_match"
	TypeSelectPattern = "select_pattern"
	TypeSetWindow     = "set_window"
	TypeReload        = "reload"
	TypePing          = "ping"
)

// Outbound message types.
const (
	TypePatterns = "patterns"
	TypeSnapshot = "snapshot"
	TypePong     = "pong"
	TypeError    = "error"
)

// Error codes sent in error messages.
const (
	CodeInvalidJSON    = "invalid_json"
	CodeInvalidData    = "invalid_data"
	CodeUnknownType    = "unknown_type"
	CodeUnknownPattern = "unknown_pattern"
	CodeRejected       = "rejected"
)

// Message is the envelope for everything the hub sends.
type Message struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Inbound is the envelope for client messages. Data is decoded per type.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SelectMatchData selects a match; 0 clears the selection.
type SelectMatchData struct {
	MatchID int64 `json:"matchId"`
}

// SelectPatternData selects a pattern by key or label.
type SelectPatternData struct {
	Pattern string `json:"pattern"`
}

// ErrorData describes a rejected client message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SnapshotData is the wire view of a session snapshot.
type SnapshotData struct {
	Version       uint64                 `json:"version"`
	MatchID       int64                  `json:"matchId"`
	MatchCode     string                 `json:"matchCode,omitempty"`
	Duration      int64                  `json:"duration"`
	Pattern       analysis.Pattern       `json:"pattern"`
	Window        models.TimeWindow      `json:"window"`
	Loading       bool                   `json:"loading"`
	Settled       bool                   `json:"settled"`
	Errors        []string               `json:"errors,omitempty"`
	Result        analysis.Result        `json:"result"`
	Events        []models.GameEvent     `json:"events"`
	DensitySeries []analysis.SeriesPoint `json:"densitySeries"`
}

func newMessage(typ string, data any) Message {
	return Message{
		Type:      typ,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func snapshotData(s session.Snapshot) SnapshotData {
	return SnapshotData{
		Version:       s.Version,
		MatchID:       s.State.MatchID,
		MatchCode:     s.MatchCode,
		Duration:      s.Duration,
		Pattern:       s.State.Pattern,
		Window:        s.State.Window,
		Loading:       s.MatchLoading || s.SummaryLoading,
		Settled:       s.Settled(),
		Errors:        s.Errors(),
		Result:        s.Result,
		Events:        s.EventsInWindow(),
		DensitySeries: analysis.Series(s.Buckets, models.FullMatch(), analysis.MetricDensity),
	}
}
