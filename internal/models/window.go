package models

import "fmt"

// TimeWindow is an analysis range in milliseconds.
// An Open window runs through the end of the match and disables
// time filtering of logs altogether.
type TimeWindow struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Open  bool  `json:"open"`
}

// FullMatch is the unbounded window used before a match duration is known.
func FullMatch() TimeWindow {
	return TimeWindow{Open: true}
}

// Window returns the closed window [start, end].
func Window(start, end int64) TimeWindow {
	return TimeWindow{Start: start, End: end}
}

// SecondsWindow converts a whole-second timeline selection into a window,
// covering the full last second.
func SecondsWindow(startIdx, endIdx int64) TimeWindow {
	return Window(startIdx*1000, (endIdx+1)*1000)
}

// Contains reports whether t lies inside the window, bounds included.
func (w TimeWindow) Contains(t int64) bool {
	if t < w.Start {
		return false
	}
	return w.Open || t <= w.End
}

// Valid reports whether a closed window is non-negative and not inverted.
func (w TimeWindow) Valid() bool {
	if w.Start < 0 {
		return false
	}
	return w.Open || w.Start < w.End
}

// Seconds converts the window into whole-second bounds, floor-rounded.
// An open end, or one past the match, collapses to the match duration.
// ok is false when the resulting range is empty or inverted, or starts
// before the match.
func (w TimeWindow) Seconds(duration int64) (start, end int64, ok bool) {
	start = floorDiv(w.Start, 1000)
	if w.Open || w.End >= duration {
		end = floorDiv(duration, 1000)
	} else {
		end = floorDiv(w.End, 1000)
	}
	if w.Start < 0 || start >= end {
		return start, end, false
	}
	return start, end, true
}

func (w TimeWindow) String() string {
	if w.Open {
		return fmt.Sprintf("[%s, end)", FormatClock(w.Start))
	}
	return fmt.Sprintf("[%s, %s]", FormatClock(w.Start), FormatClock(w.End))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
