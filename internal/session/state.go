// Package session coordinates the three upstream fetch cycles behind one
// analysis view: the full match load, the pattern summary series and the
// debounced precise-density request.
package session

import (
	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
)

// Unselected is the match id meaning "no match chosen".
const Unselected int64 = 0

// State is the user-controlled part of a session.
type State struct {
	MatchID int64             `json:"matchId"`
	Pattern analysis.Pattern  `json:"pattern"`
	Window  models.TimeWindow `json:"window"`
}

// Triggers lists the cycles that must re-fire after a state transition.
type Triggers struct {
	LoadMatch       bool
	LoadSummary     bool
	ScheduleDensity bool
}

// Any reports whether at least one cycle fires.
func (t Triggers) Any() bool {
	return t.LoadMatch || t.LoadSummary || t.ScheduleDensity
}

// Plan derives which cycles re-fire when the state moves from prev to next.
// durationKnown tells whether the match duration for next.MatchID is loaded.
//
//   - the match load fires whenever the match id changes;
//   - the summary series fires on a match or pattern change;
//   - the precise density fires on a window or pattern change, once the
//     duration is known.
//
// Nothing but the match load fires for the Unselected match.
func Plan(prev, next State, durationKnown bool) Triggers {
	matchChanged := prev.MatchID != next.MatchID
	patternChanged := prev.Pattern.Key != next.Pattern.Key
	windowChanged := prev.Window != next.Window

	if next.MatchID == Unselected {
		return Triggers{LoadMatch: matchChanged}
	}
	return Triggers{
		LoadMatch:       matchChanged,
		LoadSummary:     matchChanged || patternChanged,
		ScheduleDensity: durationKnown && (windowChanged || patternChanged),
	}
}
