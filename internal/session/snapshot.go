package session

import (
	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
)

// Snapshot is an immutable view of a session after a transition.
// Match and Buckets are shared with the controller and must not be modified.
type Snapshot struct {
	Version uint64 `json:"version"`
	State   State  `json:"state"`

	Match   *models.Match          `json:"-"`
	Buckets []models.SummaryBucket `json:"-"`

	MatchCode string `json:"matchCode,omitempty"`
	Duration  int64  `json:"duration"`

	MatchLoading   bool `json:"matchLoading"`
	SummaryLoading bool `json:"summaryLoading"`
	DensityLoading bool `json:"densityLoading"`
	DensityPending bool `json:"densityPending"`

	// Last failure per cycle, cleared by the next success.
	MatchErr   error `json:"-"`
	SummaryErr error `json:"-"`
	DensityErr error `json:"-"`

	Result analysis.Result `json:"result"`
}

// Errors returns the current failures, one line per cycle.
func (s Snapshot) Errors() []string {
	var out []string
	for _, e := range []struct {
		name string
		err  error
	}{
		{"match", s.MatchErr},
		{"summary", s.SummaryErr},
		{"density", s.DensityErr},
	} {
		if e.err != nil {
			out = append(out, e.name+": "+e.err.Error())
		}
	}
	return out
}

// Settled reports whether no fetch is in flight or scheduled.
func (s Snapshot) Settled() bool {
	return !s.MatchLoading && !s.SummaryLoading && !s.DensityLoading && !s.DensityPending
}

// EventsInWindow returns the game events inside the active window.
func (s Snapshot) EventsInWindow() []models.GameEvent {
	if s.Match == nil {
		return nil
	}
	var out []models.GameEvent
	for _, e := range s.Match.GameEvents {
		if s.State.Window.Contains(e.Time) {
			out = append(out, e)
		}
	}
	return out
}
